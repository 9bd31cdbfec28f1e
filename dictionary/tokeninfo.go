package dictionary

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

const TokenInfoDictionaryFileName = "tokenInfoDictionary.bin"

// TokenInfoDictionary holds the entries of the system lexicon. A word id is
// the position of the entry in the compiled lexicon. Feature values are
// interned: each entry stores indices into Strings.
type TokenInfoDictionary struct {
	LeftIDs    []int16   `msgpack:"l"`
	RightIDs   []int16   `msgpack:"r"`
	Costs      []int16   `msgpack:"c"`
	FeatureIDs [][]int32 `msgpack:"f"`
	Strings    []string  `msgpack:"s"`
	WordIDMap  WordIDMap `msgpack:"w"`
}

func (d *TokenInfoDictionary) Size() int {
	return len(d.Costs)
}

func (d *TokenInfoDictionary) LeftID(wordID int) int {
	return int(d.LeftIDs[wordID])
}

func (d *TokenInfoDictionary) RightID(wordID int) int {
	return int(d.RightIDs[wordID])
}

func (d *TokenInfoDictionary) WordCost(wordID int) int {
	return int(d.Costs[wordID])
}

func (d *TokenInfoDictionary) Features(wordID int) []string {
	ids := d.FeatureIDs[wordID]
	features := make([]string, len(ids))
	for i, id := range ids {
		features[i] = d.Strings[id]
	}
	return features
}

func (d *TokenInfoDictionary) AllFeatures(wordID int) string {
	return joinFeatures(d.Features(wordID), nil)
}

func (d *TokenInfoDictionary) Feature(wordID int, fields ...int) string {
	if len(fields) == 1 {
		ids := d.FeatureIDs[wordID]
		if fields[0] < 0 || fields[0] >= len(ids) {
			return DefaultFeature
		}
		return d.Strings[ids[fields[0]]]
	}
	return joinFeatures(d.Features(wordID), fields)
}

// LookupWordIDs returns the word ids registered for a trie state.
func (d *TokenInfoDictionary) LookupWordIDs(stateID int) []int32 {
	return d.WordIDMap.Lookup(stateID)
}

func (d *TokenInfoDictionary) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := msgpack.NewEncoder(cw).Encode(d)
	return cw.n, err
}

func ReadTokenInfoDictionary(r io.Reader) (*TokenInfoDictionary, error) {
	d := &TokenInfoDictionary{}
	if err := msgpack.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	n := len(d.Costs)
	if len(d.LeftIDs) != n || len(d.RightIDs) != n || len(d.FeatureIDs) != n {
		return nil, fmt.Errorf("%w: token info columns differ in length", ErrInvalidFormat)
	}
	for _, ids := range d.FeatureIDs {
		for _, id := range ids {
			if id < 0 || int(id) >= len(d.Strings) {
				return nil, fmt.Errorf("%w: feature index %d out of range", ErrInvalidFormat, id)
			}
		}
	}
	if err := d.WordIDMap.validate(n); err != nil {
		return nil, err
	}
	return d, nil
}

// WordIDMap maps trie state ids to word ids. The ids of state s are
// WordIDs[Indices[s]:Indices[s+1]].
type WordIDMap struct {
	Indices []int32 `msgpack:"i"`
	WordIDs []int32 `msgpack:"w"`
}

func (m *WordIDMap) Lookup(stateID int) []int32 {
	if stateID < 0 || stateID+1 >= len(m.Indices) {
		return nil
	}
	return m.WordIDs[m.Indices[stateID]:m.Indices[stateID+1]]
}

func (m *WordIDMap) validate(size int) error {
	last := int32(0)
	for _, i := range m.Indices {
		if i < last || int(i) > len(m.WordIDs) {
			return fmt.Errorf("%w: broken word id map", ErrInvalidFormat)
		}
		last = i
	}
	for _, id := range m.WordIDs {
		if id < 0 || int(id) >= size {
			return fmt.Errorf("%w: word id %d out of range", ErrInvalidFormat, id)
		}
	}
	return nil
}

type wordIDMapBuilder struct {
	ids map[int][]int32
}

func newWordIDMapBuilder() *wordIDMapBuilder {
	return &wordIDMapBuilder{
		ids: map[int][]int32{},
	}
}

func (b *wordIDMapBuilder) addMapping(stateID int, wordID int) {
	b.ids[stateID] = append(b.ids[stateID], int32(wordID))
}

func (b *wordIDMapBuilder) build() WordIDMap {
	states := make([]int, 0, len(b.ids))
	for s := range b.ids {
		states = append(states, s)
	}
	sort.Ints(states)

	var m WordIDMap
	if len(states) == 0 {
		return m
	}
	m.Indices = make([]int32, states[len(states)-1]+2)
	next := 0
	for s := 0; s+1 < len(m.Indices); s++ {
		m.Indices[s] = int32(len(m.WordIDs))
		if next < len(states) && states[next] == s {
			m.WordIDs = append(m.WordIDs, b.ids[s]...)
			next++
		}
	}
	m.Indices[len(m.Indices)-1] = int32(len(m.WordIDs))
	return m
}

// tokenInfoBuilder collects lexicon entries and interns their features.
type tokenInfoBuilder struct {
	dict    *TokenInfoDictionary
	strings map[string]int32
}

func newTokenInfoBuilder() *tokenInfoBuilder {
	return &tokenInfoBuilder{
		dict:    &TokenInfoDictionary{},
		strings: map[string]int32{},
	}
}

func (b *tokenInfoBuilder) add(e *Entry) int {
	d := b.dict
	d.LeftIDs = append(d.LeftIDs, clampInt16(e.LeftID))
	d.RightIDs = append(d.RightIDs, clampInt16(e.RightID))
	d.Costs = append(d.Costs, clampInt16(e.WordCost))
	ids := make([]int32, len(e.Features))
	for i, f := range e.Features {
		id, ok := b.strings[f]
		if !ok {
			id = int32(len(d.Strings))
			b.strings[f] = id
			d.Strings = append(d.Strings, f)
		}
		ids[i] = id
	}
	d.FeatureIDs = append(d.FeatureIDs, ids)
	return len(d.Costs) - 1
}

func clampInt16(v int) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
