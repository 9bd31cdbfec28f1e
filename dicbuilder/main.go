package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/msnoigrs/gokuromoji"
	"github.com/msnoigrs/gokuromoji/dictionary"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage of %s:
	%s -o dir [-schema unidic|unidic-kana-accent|ipadic] [-compact] [-d description] srcdir

srcdir holds matrix.def, char.def, unk.def and the lexicon *.csv files.

Options:
`, os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}

	var (
		outputpath  string
		schemaName  string
		description string
		compact     bool
		quiet       bool
	)
	flag.StringVar(&outputpath, "o", "", "output directory")
	flag.StringVar(&schemaName, "schema", "unidic", "feature layout of the lexicon")
	flag.StringVar(&description, "d", "", "comment")
	flag.BoolVar(&compact, "compact", false, "build a compact double array trie")
	flag.BoolVar(&quiet, "q", false, "no progress output")

	flag.Parse()

	if outputpath == "" || len(flag.Args()) != 1 {
		flag.Usage()
		os.Exit(1)
	}

	level := log.InfoLevel
	if quiet {
		level = log.WarnLevel
	}
	logger := gokuromoji.NewLogger(os.Stderr, level)

	schema, err := dictionary.LookupSchema(schemaName)
	if err != nil {
		logger.Fatal(err)
	}

	p := message.NewPrinter(language.English)
	last := -1
	progress := func(state int, max int) {
		if quiet || max == 0 {
			return
		}
		percent := state * 100 / max
		if percent/10 != last/10 {
			last = percent
			p.Fprintf(os.Stderr, "\rbuilding the trie... %d/%d", state, max)
			if state == max {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	src := flag.Arg(0)
	d, err := dictionary.Build(os.DirFS(src), dictionary.BuildOptions{
		Schema:      schema,
		Compact:     compact,
		Description: description,
		Logger:      logger,
		Progress:    progress,
	})
	if err != nil {
		logger.Fatal("fail to compile", "src", src, "err", err)
	}

	if err := d.Save(outputpath); err != nil {
		logger.Fatal("fail to write", "dir", outputpath, "err", err)
	}
	logger.Info("done", "dir", outputpath, "words", p.Sprintf("%d", d.TokenInfo.Size()))
}
