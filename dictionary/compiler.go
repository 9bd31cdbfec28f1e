package dictionary

import (
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/msnoigrs/gokuromoji/internal/lnreader"
	"github.com/msnoigrs/gokuromoji/trie"
)

// Source file names inside a dictionary source directory. Lexicon entries
// are read from every *.csv file, in file name order.
const (
	MatrixDefFileName = "matrix.def"
	CharDefFileName   = "char.def"
	UnkDefFileName    = "unk.def"
	lexiconPattern    = "*.csv"
)

type BuildOptions struct {
	Schema      *Schema
	Compact     bool
	Description string
	Logger      *log.Logger
	// Progress follows the double-array trie construction.
	Progress ProgressFunc
}

// Build compiles the dictionary sources found in src.
func Build(src fs.FS, opts BuildOptions) (*Dictionary, error) {
	if opts.Schema == nil {
		opts.Schema = UniDic
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := message.NewPrinter(language.English)

	d := &Dictionary{
		Header: NewDictionaryHeader(opts.Description),
	}

	files, err := fs.Glob(src, lexiconPattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no lexicon (%s) found", lexiconPattern)
	}
	sort.Strings(files)

	tib := newTokenInfoBuilder()
	// surface => []int word ids, kept in surface order
	surfaces := redblacktree.NewWith(utils.StringComparator)
	for _, name := range files {
		n, err := readLexicon(src, name, opts.Schema, tib, surfaces)
		if err != nil {
			return nil, err
		}
		logger.Info("lexicon", "file", name, "entries", p.Sprintf("%d", n))
	}
	d.TokenInfo = tib.dict

	keys := make([]string, 0, surfaces.Size())
	it := surfaces.Iterator()
	for it.Next() {
		keys = append(keys, it.Key().(string))
	}
	logger.Info("building double array trie", "surfaces", p.Sprintf("%d", len(keys)), "compact", opts.Compact)
	d.Trie = trie.Build(keys, opts.Compact, opts.Progress)
	logger.Info("double array trie", "utilization", fmt.Sprintf("%.3f", d.Trie.UtilizationRate()))

	wb := newWordIDMapBuilder()
	it = surfaces.Iterator()
	for it.Next() {
		surface := it.Key().(string)
		state := d.Trie.LookupString(surface)
		if state <= 0 {
			return nil, fmt.Errorf("surface %q is missing from the double array trie", surface)
		}
		for _, wordID := range it.Value().([]int) {
			wb.addMapping(state, wordID)
		}
	}
	d.TokenInfo.WordIDMap = wb.build()

	err = openSource(src, MatrixDefFileName, func(r io.Reader) (err error) {
		d.ConnectionCosts, err = CompileConnectionCosts(r, MatrixDefFileName)
		return
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connection costs", "forward", d.ConnectionCosts.ForwardSize(), "backward", d.ConnectionCosts.BackwardSize())

	err = openSource(src, CharDefFileName, func(r io.Reader) (err error) {
		d.CharacterDefinitions, err = CompileCharacterDefinitions(r, CharDefFileName)
		return
	})
	if err != nil {
		return nil, err
	}
	logger.Info("character definitions", "categories", len(d.CharacterDefinitions.Symbols))

	err = openSource(src, UnkDefFileName, func(r io.Reader) (err error) {
		d.Unknown, err = CompileUnknownDictionary(r, UnkDefFileName, d.CharacterDefinitions, opts.Schema.TotalFeatures)
		return
	})
	if err != nil {
		return nil, err
	}
	logger.Info("unknown dictionary", "entries", p.Sprintf("%d", len(d.Unknown.Entries)))

	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func openSource(src fs.FS, name string, fn func(r io.Reader) error) error {
	f, err := src.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}

func readLexicon(src fs.FS, name string, schema *Schema, tib *tokenInfoBuilder, surfaces *redblacktree.Tree) (int, error) {
	f, err := src.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	lr := lnreader.NewLineNumberReader(f, name)
	n := 0
	for {
		line, err := lr.ReadLine()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if lnreader.IsEmptyLine(line) {
			continue
		}
		e, err := ParseEntry(string(line))
		if err != nil {
			return n, lr.Errorf("%w", err)
		}
		if len(e.Features) != schema.TotalFeatures {
			return n, lr.Errorf("%w: %d features, %s expects %d", ErrInvalidFormat, len(e.Features), schema.Name, schema.TotalFeatures)
		}
		if e.Surface == "" {
			return n, lr.Errorf("%w: empty surface", ErrInvalidFormat)
		}
		wordID := tib.add(e)
		var ids []int
		if v, ok := surfaces.Get(e.Surface); ok {
			ids = v.([]int)
		}
		surfaces.Put(e.Surface, append(ids, wordID))
		n++
	}
}
