package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/msnoigrs/gokuromoji/trie"
)

// Dictionary is a compiled system dictionary. It is immutable once built or
// loaded and may be shared by any number of tokenizers.
type Dictionary struct {
	Header               *DictionaryHeader
	Trie                 *trie.DoubleArrayTrie
	ConnectionCosts      *ConnectionCosts
	TokenInfo            *TokenInfoDictionary
	CharacterDefinitions *CharacterDefinitions
	Unknown              *UnknownDictionary
}

type writerTo interface {
	WriteTo(w io.Writer) (int64, error)
}

// Save writes the dictionary into dir, one file per part.
func (d *Dictionary) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	parts := []struct {
		name string
		part writerTo
	}{
		{HeaderFileName, d.Header},
		{trie.DoubleArrayTrieFileName, d.Trie},
		{ConnectionCostsFileName, d.ConnectionCosts},
		{TokenInfoDictionaryFileName, d.TokenInfo},
		{CharacterDefinitionsFileName, d.CharacterDefinitions},
		{UnknownDictionaryFileName, d.Unknown},
	}
	for _, p := range parts {
		if err := writeFile(filepath.Join(dir, p.name), p.part); err != nil {
			return err
		}
	}
	return nil
}

// writeFile writes part next to filename and renames it into place, so a
// running tokenizer never maps a half written blob.
func writeFile(filename string, part writerTo) error {
	tmp := filename + "." + uuid.NewString() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if _, err := part.WriteTo(bw); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: %w", filename, err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, filename)
}

// Load reads a dictionary written by Save.
func Load(dir string) (*Dictionary, error) {
	d := &Dictionary{}
	var err error

	d.Header, err = ReadDictionaryHeader(filepath.Join(dir, HeaderFileName))
	if err != nil {
		return nil, err
	}
	d.Trie, err = trie.Open(filepath.Join(dir, trie.DoubleArrayTrieFileName))
	if err != nil {
		return nil, err
	}
	d.ConnectionCosts, err = OpenConnectionCosts(filepath.Join(dir, ConnectionCostsFileName))
	if err != nil {
		return nil, err
	}
	err = readFile(filepath.Join(dir, TokenInfoDictionaryFileName), func(r io.Reader) (err error) {
		d.TokenInfo, err = ReadTokenInfoDictionary(r)
		return
	})
	if err != nil {
		return nil, err
	}
	err = readFile(filepath.Join(dir, CharacterDefinitionsFileName), func(r io.Reader) (err error) {
		d.CharacterDefinitions, err = ReadCharacterDefinitions(r)
		return
	})
	if err != nil {
		return nil, err
	}
	err = readFile(filepath.Join(dir, UnknownDictionaryFileName), func(r io.Reader) (err error) {
		d.Unknown, err = ReadUnknownDictionary(r)
		return
	})
	if err != nil {
		return nil, err
	}
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return d, nil
}

func readFile(filename string, fn func(r io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := fn(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// validate checks that every id the analyzer will use stays inside the
// tables it indexes.
func (d *Dictionary) validate() error {
	forward := d.ConnectionCosts.ForwardSize()
	backward := d.ConnectionCosts.BackwardSize()
	if forward == 0 || backward == 0 {
		return fmt.Errorf("%w: empty connection cost table", ErrInvalidFormat)
	}
	if err := d.CheckIDs("lexicon", d.TokenInfo, d.TokenInfo.Size()); err != nil {
		return err
	}
	if err := d.CheckIDs("unknown", d.Unknown, len(d.Unknown.Entries)); err != nil {
		return err
	}
	if len(d.Unknown.References) != len(d.CharacterDefinitions.Symbols) {
		return fmt.Errorf("%w: unknown dictionary does not match the character categories", ErrInvalidFormat)
	}
	// every position of a text must be coverable by some unknown word
	for category, ids := range d.Unknown.References {
		if len(ids) == 0 {
			return fmt.Errorf("%w: no unknown word for category %s", ErrInvalidFormat, d.CharacterDefinitions.CategoryName(category))
		}
	}
	return nil
}

// CheckIDs reports the first of the n words of wd whose connection ids fall
// outside the connection cost table.
func (d *Dictionary) CheckIDs(what string, wd WordDictionary, n int) error {
	forward := d.ConnectionCosts.ForwardSize()
	backward := d.ConnectionCosts.BackwardSize()
	for i := 0; i < n; i++ {
		if l := wd.LeftID(i); l < 0 || l >= backward {
			return fmt.Errorf("%w: %s word %d: left id %d out of range", ErrInvalidFormat, what, i, l)
		}
		if r := wd.RightID(i); r < 0 || r >= forward {
			return fmt.Errorf("%w: %s word %d: right id %d out of range", ErrInvalidFormat, what, i, r)
		}
	}
	return nil
}
