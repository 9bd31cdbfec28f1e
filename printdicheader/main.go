package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/msnoigrs/gokuromoji/dictionary"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage of %s:
	%s dir|file
`, os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if len(flag.Args()) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	err := printHeader(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printHeader(path string) error {
	finfo, err := os.Stat(path)
	if err != nil {
		return err
	}
	if finfo.IsDir() {
		path = filepath.Join(path, dictionary.HeaderFileName)
	}

	dh, err := dictionary.ReadDictionaryHeader(path)
	if err != nil {
		return err
	}

	fmt.Println("filename:", path)
	dh.Print(os.Stdout)
	return nil
}
