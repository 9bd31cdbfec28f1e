package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/msnoigrs/gokuromoji"
)

type normalizer struct {
	r        io.Reader
	lastChar byte
}

// newNormalizer turns CRLF and CR line ends into LF.
func newNormalizer(r io.Reader) *normalizer {
	return &normalizer{r: r}
}

func (n *normalizer) Read(p []byte) (int, error) {
	c, err := n.r.Read(p)
	for i := 0; i < c; i++ {
		switch {
		case p[i] == '\n' && n.lastChar == '\r':
			copy(p[i:c], p[i+1:c])
			n.lastChar = '\n'
			c--
			i--
		case p[i] == '\r':
			n.lastChar = p[i]
			p[i] = '\n'
		default:
			n.lastChar = p[i]
		}
	}
	return c, err
}

type lineScanner struct {
	r         *bufio.Reader
	line      []byte
	rawBuffer []byte
	err       error
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{r: bufio.NewReader(newNormalizer(r))}
}

func (s *lineScanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

func (s *lineScanner) Scan() bool {
	s.line, s.err = s.r.ReadSlice('\n')
	if s.err == bufio.ErrBufferFull {
		s.rawBuffer = append(s.rawBuffer[:0], s.line...)
		for s.err == bufio.ErrBufferFull {
			s.line, s.err = s.r.ReadSlice('\n')
			s.rawBuffer = append(s.rawBuffer, s.line...)
		}
		s.line = s.rawBuffer
	}
	if s.err == io.EOF {
		s.err = nil
		return len(s.line) > 0
	}
	if s.err != nil {
		return false
	}
	s.line = s.line[:len(s.line)-1]
	return true
}

func (s *lineScanner) Text() string {
	return string(s.line)
}

type printer struct {
	tokenizer *gokuromoji.Tokenizer
	printAll  bool
	normalize bool
	nbest     int
}

func (p *printer) runFromReader(input io.Reader, output io.Writer) error {
	s := newLineScanner(input)
	for s.Scan() {
		text := s.Text()
		if p.normalize {
			text = norm.NFKC.String(text)
		}
		if p.nbest > 1 {
			for i, r := range p.tokenizer.MultiTokenizeWithCost(text, p.nbest, math.MaxInt) {
				fmt.Fprintf(output, "# %d cost=%d\n", i+1, r.Cost)
				p.print(r.Tokens, output)
			}
			continue
		}
		p.print(p.tokenizer.Tokenize(text), output)
	}
	return s.Err()
}

func (p *printer) print(tokens []*gokuromoji.Token, output io.Writer) {
	for _, t := range tokens {
		fmt.Fprintf(output, "%s\t%s", t.Surface, t.AllFeatures())
		if p.printAll {
			fmt.Fprintf(output, "\t%d\t%d\t%s", t.Position, t.WordID, t.Type)
		}
		fmt.Fprintf(output, "\n")
	}
	fmt.Fprintln(output, "EOS")
}

// runFiles tokenizes the files in parallel and writes their results in
// argument order.
func (p *printer) runFiles(files []string, output io.Writer) error {
	results := make([]bytes.Buffer, len(files))
	var g errgroup.Group
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			input, err := os.Open(file)
			if err != nil {
				return err
			}
			defer input.Close()
			if err := p.runFromReader(input, &results[i]); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i := range results {
		if _, err := results[i].WriteTo(output); err != nil {
			return err
		}
	}
	return nil
}

type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage of %s:
	%s [-s settings.toml] [-d dir] [-u file] [-m normal|search|extended] [-o file] [-a] [-n] [-nbest N] [file ...]

Options:
`, os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}

	var (
		settingfile string
		dictdir     string
		userdicts   stringList
		mode        string
		outputfile  string
		printall    bool
		normalize   bool
		nbest       int
		debugmode   bool
	)
	flag.StringVar(&settingfile, "s", "", "read settings from file")
	flag.StringVar(&dictdir, "d", "", "compiled system dictionary directory")
	flag.Var(&userdicts, "u", "user dictionary file (repeatable)")
	flag.StringVar(&mode, "m", "", "mode of splitting")
	flag.StringVar(&outputfile, "o", "", "output to file")
	flag.BoolVar(&printall, "a", false, "print all fields")
	flag.BoolVar(&normalize, "n", false, "apply NFKC to the input")
	flag.IntVar(&nbest, "nbest", 1, "print the N best segmentations")
	flag.BoolVar(&debugmode, "debug", false, "debug log")

	flag.Parse()

	level := log.InfoLevel
	if debugmode {
		level = log.DebugLevel
	}
	logger := gokuromoji.NewLogger(os.Stderr, level)

	settings := gokuromoji.NewSettings()
	if settingfile != "" {
		var err error
		settings, err = gokuromoji.ReadSettings(settingfile)
		if err != nil {
			logger.Fatal("fail to parse settings", "err", err)
		}
	}
	if dictdir != "" {
		settings.SystemDict = dictdir
	}
	settings.UserDict = append(settings.UserDict, userdicts...)
	if mode != "" {
		m, err := gokuromoji.ParseMode(mode)
		if err != nil {
			logger.Fatal(err)
		}
		settings.Mode = m
	}

	tokenizer, err := gokuromoji.NewTokenizerFromSettings(settings, logger)
	if err != nil {
		logger.Fatal(err)
	}

	p := &printer{
		tokenizer: tokenizer,
		printAll:  printall,
		normalize: normalize,
		nbest:     nbest,
	}
	if err := run(p, outputfile, flag.Args()); err != nil {
		logger.Fatal(err)
	}
}

func run(p *printer, outputfile string, files []string) error {
	var output io.Writer = os.Stdout
	if outputfile != "" {
		outputfd, err := os.OpenFile(outputfile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer outputfd.Close()
		bufiooutput := bufio.NewWriter(outputfd)
		defer bufiooutput.Flush()
		output = bufiooutput
	}

	if len(files) > 0 {
		return p.runFiles(files, output)
	}
	return p.runFromReader(os.Stdin, output)
}
