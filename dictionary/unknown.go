package dictionary

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/msnoigrs/gokuromoji/internal/lnreader"
)

const UnknownDictionaryFileName = "unknownDictionary.bin"

// UnknownDictionary holds the unknown-word entries of unk.def. A word id is
// the line position of the entry; References lists the word ids of each
// character category.
type UnknownDictionary struct {
	Entries       []Entry   `msgpack:"e"`
	References    [][]int32 `msgpack:"r"`
	TotalFeatures int       `msgpack:"t"`
}

// LookupWordIDs returns the unknown word ids of a character category.
func (d *UnknownDictionary) LookupWordIDs(category int) []int32 {
	if category < 0 || category >= len(d.References) {
		return nil
	}
	return d.References[category]
}

func (d *UnknownDictionary) LeftID(wordID int) int {
	return d.Entries[wordID].LeftID
}

func (d *UnknownDictionary) RightID(wordID int) int {
	return d.Entries[wordID].RightID
}

func (d *UnknownDictionary) WordCost(wordID int) int {
	return d.Entries[wordID].WordCost
}

// Features pads the entry's features with DefaultFeature up to the total
// feature count of the schema.
func (d *UnknownDictionary) Features(wordID int) []string {
	features := d.Entries[wordID].Features
	if len(features) >= d.TotalFeatures {
		return features
	}
	all := defaultFeatures(d.TotalFeatures)
	copy(all, features)
	return all
}

func (d *UnknownDictionary) AllFeatures(wordID int) string {
	return joinFeatures(d.Features(wordID), nil)
}

func (d *UnknownDictionary) Feature(wordID int, fields ...int) string {
	return joinFeatures(d.Features(wordID), fields)
}

func (d *UnknownDictionary) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := msgpack.NewEncoder(cw).Encode(d)
	return cw.n, err
}

func ReadUnknownDictionary(r io.Reader) (*UnknownDictionary, error) {
	d := &UnknownDictionary{}
	if err := msgpack.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	for _, ids := range d.References {
		for _, id := range ids {
			if id < 0 || int(id) >= len(d.Entries) {
				return nil, fmt.Errorf("%w: unknown word id %d out of range", ErrInvalidFormat, id)
			}
		}
	}
	return d, nil
}

// CompileUnknownDictionary reads an unk.def whose first column names a
// category of cd.
func CompileUnknownDictionary(r io.Reader, name string, cd *CharacterDefinitions, totalFeatures int) (*UnknownDictionary, error) {
	lr := lnreader.NewLineNumberReader(r, name)
	d := &UnknownDictionary{
		References:    make([][]int32, len(cd.Symbols)),
		TotalFeatures: totalFeatures,
	}
	for {
		line, err := lr.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if lnreader.IsEmptyLine(line) {
			continue
		}
		e, err := ParseEntry(string(line))
		if err != nil {
			return nil, lr.Errorf("%w", err)
		}
		category, ok := cd.CategoryID(e.Surface)
		if !ok {
			return nil, lr.Errorf("%w: undefined category %s", ErrInvalidFormat, e.Surface)
		}
		d.References[category] = append(d.References[category], int32(len(d.Entries)))
		d.Entries = append(d.Entries, *e)
	}
	return d, nil
}
