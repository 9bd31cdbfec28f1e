package dictionary

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/msnoigrs/gokuromoji/internal/lnreader"
)

const (
	CharacterDefinitionsFileName = "characterDefinitions.bin"
	DefaultCategoryName          = "DEFAULT"

	bmpSize = 0x10000
)

// CategoryDefinition is the unknown-word policy of a character category.
// Invoke starts unknown-word processing even where a dictionary word
// matched; Group lets an unknown word extend over following characters of
// the same category.
type CategoryDefinition struct {
	Invoke bool `msgpack:"i"`
	Group  bool `msgpack:"g"`
	Length int  `msgpack:"l"`
}

type categoryRange struct {
	Low  rune   `msgpack:"l"`
	High rune   `msgpack:"h"`
	List uint16 `msgpack:"c"`
}

// CharacterDefinitions assigns every code point an ascending list of
// category ids. Category ids are the positions of the category names in
// sorted order. Lists are shared; list 0 holds only DEFAULT.
type CharacterDefinitions struct {
	Symbols     []string             `msgpack:"s"`
	Definitions []CategoryDefinition `msgpack:"d"`
	Lists       [][]int              `msgpack:"c"`
	BMP         []uint16             `msgpack:"b"`
	Ranges      []categoryRange      `msgpack:"r"`
}

func (cd *CharacterDefinitions) LookupCategories(c rune) []int {
	if c >= 0 && c < bmpSize {
		return cd.Lists[cd.BMP[c]]
	}
	i := sort.Search(len(cd.Ranges), func(i int) bool {
		return cd.Ranges[i].High >= c
	})
	if i < len(cd.Ranges) && cd.Ranges[i].Low <= c {
		return cd.Lists[cd.Ranges[i].List]
	}
	return cd.Lists[0]
}

func (cd *CharacterDefinitions) LookupDefinition(category int) CategoryDefinition {
	return cd.Definitions[category]
}

func (cd *CharacterDefinitions) CategoryID(name string) (int, bool) {
	i := sort.SearchStrings(cd.Symbols, name)
	if i < len(cd.Symbols) && cd.Symbols[i] == name {
		return i, true
	}
	return 0, false
}

func (cd *CharacterDefinitions) CategoryName(category int) string {
	return cd.Symbols[category]
}

// SetCategories replaces the categories of one BMP character. It must not
// be called while the definitions are in use.
func (cd *CharacterDefinitions) SetCategories(c rune, names ...string) error {
	if c < 0 || c >= bmpSize {
		return fmt.Errorf("cannot set categories of %U", c)
	}
	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, ok := cd.CategoryID(name)
		if !ok {
			return fmt.Errorf("no category %q", name)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	cd.BMP[c] = uint16(len(cd.Lists))
	cd.Lists = append(cd.Lists, ids)
	return nil
}

func (cd *CharacterDefinitions) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := msgpack.NewEncoder(cw).Encode(cd)
	return cw.n, err
}

func ReadCharacterDefinitions(r io.Reader) (*CharacterDefinitions, error) {
	cd := &CharacterDefinitions{}
	if err := msgpack.NewDecoder(r).Decode(cd); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if len(cd.Symbols) != len(cd.Definitions) || len(cd.BMP) != bmpSize || len(cd.Lists) == 0 {
		return nil, fmt.Errorf("%w: broken character definitions", ErrInvalidFormat)
	}
	for _, l := range cd.Lists {
		for _, id := range l {
			if id < 0 || id >= len(cd.Symbols) {
				return nil, fmt.Errorf("%w: category id %d out of range", ErrInvalidFormat, id)
			}
		}
	}
	for _, i := range cd.BMP {
		if int(i) >= len(cd.Lists) {
			return nil, fmt.Errorf("%w: category list %d out of range", ErrInvalidFormat, i)
		}
	}
	for _, r := range cd.Ranges {
		if int(r.List) >= len(cd.Lists) {
			return nil, fmt.Errorf("%w: category list %d out of range", ErrInvalidFormat, r.List)
		}
	}
	return cd, nil
}

type charMapping struct {
	low   rune
	high  rune
	names []string
}

// CompileCharacterDefinitions reads a char.def. Category lines are
// "NAME invoke group length"; mapping lines are "0xXXXX[..0xYYYY] NAME...".
// Text after '#' is a comment.
func CompileCharacterDefinitions(r io.Reader, name string) (*CharacterDefinitions, error) {
	lr := lnreader.NewLineNumberReader(r, name)
	definitions := map[string]CategoryDefinition{}
	var mappings []charMapping

	for {
		line, err := lr.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line = lnreader.StripComment(line)
		if lnreader.IsEmptyLine(line) {
			continue
		}
		cols := strings.Fields(string(line))
		if !strings.HasPrefix(cols[0], "0x") {
			if len(cols) != 4 {
				return nil, lr.Errorf("%w: category needs 4 fields, got %d", ErrInvalidFormat, len(cols))
			}
			var v [3]int
			for i := range v {
				v[i], err = strconv.Atoi(cols[i+1])
				if err != nil {
					return nil, lr.Errorf("%w: %v", ErrInvalidFormat, err)
				}
			}
			if _, ok := definitions[cols[0]]; ok {
				return nil, lr.Errorf("%w: category %s defined twice", ErrInvalidFormat, cols[0])
			}
			definitions[cols[0]] = CategoryDefinition{
				Invoke: v[0] != 0,
				Group:  v[1] != 0,
				Length: v[2],
			}
			continue
		}

		if len(cols) < 2 {
			return nil, lr.Errorf("%w: mapping without category", ErrInvalidFormat)
		}
		m := charMapping{names: cols[1:]}
		bounds := strings.SplitN(cols[0], "..", 2)
		if m.low, err = parseCodePoint(bounds[0]); err != nil {
			return nil, lr.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		m.high = m.low
		if len(bounds) > 1 {
			if m.high, err = parseCodePoint(bounds[1]); err != nil {
				return nil, lr.Errorf("%w: %v", ErrInvalidFormat, err)
			}
		}
		if m.low > m.high {
			return nil, lr.Errorf("%w: %U > %U", ErrInvalidFormat, m.low, m.high)
		}
		mappings = append(mappings, m)
	}

	symbols := make([]string, 0, len(definitions))
	for s := range definitions {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	cd := &CharacterDefinitions{
		Symbols:     symbols,
		Definitions: make([]CategoryDefinition, len(symbols)),
		BMP:         make([]uint16, bmpSize),
	}
	for i, s := range symbols {
		cd.Definitions[i] = definitions[s]
	}
	def, ok := cd.CategoryID(DefaultCategoryName)
	if !ok {
		return nil, fmt.Errorf("%s: %w: no %s category", name, ErrInvalidFormat, DefaultCategoryName)
	}

	ids := map[string]int{}
	for _, m := range mappings {
		for _, n := range m.names {
			id, ok := cd.CategoryID(n)
			if !ok {
				return nil, fmt.Errorf("%s: %w: undefined category %s", name, ErrInvalidFormat, n)
			}
			ids[n] = id
		}
	}

	li := newListInterner([]int{def})

	bmp := make([][]int, bmpSize)
	for _, m := range mappings {
		for c := m.low; c <= m.high && c < bmpSize; c++ {
			for _, n := range m.names {
				bmp[c] = insertSorted(bmp[c], ids[n])
			}
		}
	}
	for c, l := range bmp {
		if l != nil {
			cd.BMP[c] = li.intern(l)
		}
	}

	// above the BMP, split the mapped ranges into intervals with a constant
	// category set
	var points []rune
	for _, m := range mappings {
		if m.high >= bmpSize {
			points = append(points, max(m.low, bmpSize), m.high+1)
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })
	for i := 0; i+1 < len(points); i++ {
		low, high := points[i], points[i+1]-1
		if low > high {
			continue
		}
		var l []int
		for _, m := range mappings {
			if m.low <= low && high <= m.high {
				for _, n := range m.names {
					l = insertSorted(l, ids[n])
				}
			}
		}
		if l == nil {
			continue
		}
		list := li.intern(l)
		if n := len(cd.Ranges); n > 0 && cd.Ranges[n-1].High+1 == low && cd.Ranges[n-1].List == list {
			cd.Ranges[n-1].High = high
			continue
		}
		cd.Ranges = append(cd.Ranges, categoryRange{Low: low, High: high, List: list})
	}
	cd.Lists = li.lists
	if len(cd.Lists) > 0xFFFF {
		return nil, fmt.Errorf("%s: %w: too many distinct category combinations", name, ErrInvalidFormat)
	}
	return cd, nil
}

func parseCodePoint(s string) (rune, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > unicode.MaxRune {
		return 0, fmt.Errorf("%s is not a code point", s)
	}
	return rune(v), nil
}

func insertSorted(l []int, id int) []int {
	i := sort.SearchInts(l, id)
	if i < len(l) && l[i] == id {
		return l
	}
	l = append(l, 0)
	copy(l[i+1:], l[i:])
	l[i] = id
	return l
}

type listInterner struct {
	lists [][]int
	index map[string]uint16
}

func newListInterner(first []int) *listInterner {
	li := &listInterner{index: map[string]uint16{}}
	li.intern(first)
	return li
}

func (li *listInterner) intern(l []int) uint16 {
	key := fmt.Sprint(l)
	if i, ok := li.index[key]; ok {
		return i
	}
	i := uint16(len(li.lists))
	li.index[key] = i
	li.lists = append(li.lists, l)
	return i
}
