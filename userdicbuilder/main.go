package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/msnoigrs/gokuromoji"
	"github.com/msnoigrs/gokuromoji/dictionary"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage of %s:
	%s [-s dir] [-schema name] file1 [file2 ...]

Checks user dictionary files and prints their entries with word ids.

Options:
`, os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}

	var (
		systemdict string
		schemaName string
	)
	flag.StringVar(&systemdict, "s", "", "system dictionary to check connection ids against")
	flag.StringVar(&schemaName, "schema", "unidic", "feature layout")

	flag.Parse()

	if len(flag.Args()) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	schema, err := dictionary.LookupSchema(schemaName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	user, err := gokuromoji.ReadUserDictionaries(schema, flag.Args()...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if systemdict != "" {
		d, err := dictionary.Load(systemdict)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := d.CheckIDs("user", user, user.Len()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if err := dictionary.PrintUserDictionary(user, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	p := message.NewPrinter(language.English)
	p.Fprintf(os.Stderr, "%d words\n", user.Len())
}
