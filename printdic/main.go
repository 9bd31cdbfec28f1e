package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/msnoigrs/gokuromoji/dictionary"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage of %s:
	%s [-unk] dir

Prints the entries of a compiled dictionary in lexicon CSV form.

Options:
`, os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}

	var unknown bool
	flag.BoolVar(&unknown, "unk", false, "print the unknown word entries instead")

	flag.Parse()

	if len(flag.Args()) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	d, err := dictionary.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if unknown {
		err = dictionary.PrintUnknownDictionary(d, os.Stdout)
	} else {
		err = dictionary.PrintDictionary(d, os.Stdout)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
