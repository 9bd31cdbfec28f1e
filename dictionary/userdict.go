package dictionary

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/msnoigrs/gokuromoji/internal/lnreader"
	"github.com/msnoigrs/gokuromoji/patricia"
)

const (
	simpleUserDictFields = 4

	userWordCostBase    = -100000
	minimumUserWordCost = math.MinInt32 / 2
	userLeftID          = 5
	userRightID         = 5
)

// UserDictionaryMatch is a user word found in a text. Start and Length are
// in runes.
type UserDictionaryMatch struct {
	WordID int
	Start  int
	Length int
}

// UserDictionary holds user supplied words. A line is either a simple entry
//
//	surface,segmentation,readings,part-of-speech
//
// where segmentation and readings split the surface on white space, or a
// full entry with explicit ids, cost and all the features of the schema.
type UserDictionary struct {
	schema  *Schema
	entries []Entry
	// surface => word id of the first segment, then each segment's length
	surfaces *patricia.Trie[[]int]
}

func NewUserDictionary(schema *Schema) *UserDictionary {
	return &UserDictionary{
		schema:   schema,
		surfaces: patricia.New[[]int](),
	}
}

func ReadUserDictionary(r io.Reader, name string, schema *Schema) (*UserDictionary, error) {
	d := NewUserDictionary(schema)
	if err := d.Read(r, name); err != nil {
		return nil, err
	}
	return d, nil
}

// Read adds the entries of another user dictionary file.
func (d *UserDictionary) Read(r io.Reader, name string) error {
	lr := lnreader.NewLineNumberReader(r, name)
	for {
		line, err := lr.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		s := strings.TrimSpace(string(lnreader.StripComment(line)))
		if s == "" {
			continue
		}
		if err := d.AddEntry(s); err != nil {
			return lr.Errorf("%w", err)
		}
	}
}

func (d *UserDictionary) AddEntry(line string) error {
	values, err := ParseLine(line)
	if err != nil {
		return err
	}
	if !utf8.ValidString(values[0]) {
		return fmt.Errorf("%w: surface %q is not valid UTF-8", ErrIllegalUserDictionaryEntry, values[0])
	}
	switch len(values) {
	case simpleUserDictFields:
		return d.addSimpleEntry(values)
	case d.schema.TotalFeatures + FeatureOffset:
		return d.addFullEntry(values)
	}
	return fmt.Errorf("%w: %d fields in %q", ErrIllegalUserDictionaryEntry, len(values), line)
}

func (d *UserDictionary) addFullEntry(values []string) error {
	e, err := newEntry(values)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalUserDictionaryEntry, err)
	}
	if e.Surface == "" {
		return fmt.Errorf("%w: empty surface", ErrIllegalUserDictionaryEntry)
	}
	wordID := len(d.entries)
	if err := d.surfaces.Put(e.Surface, []int{wordID, len([]rune(e.Surface))}); err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalUserDictionaryEntry, err)
	}
	d.entries = append(d.entries, *e)
	return nil
}

func (d *UserDictionary) addSimpleEntry(values []string) error {
	surface := values[0]
	segmentation := []string{values[1]}
	readings := []string{values[2]}
	pos := values[3]

	if surface != values[1] {
		segmentation = strings.Fields(values[1])
		readings = strings.Fields(values[2])
	}
	if len(segmentation) != len(readings) {
		return fmt.Errorf("%w: %d segments but %d readings", ErrIllegalUserDictionaryEntry, len(segmentation), len(readings))
	}
	if surface == "" {
		return fmt.Errorf("%w: empty surface", ErrIllegalUserDictionaryEntry)
	}
	// the segments are laid over the surface in the lattice
	total := 0
	for _, seg := range segmentation {
		total += utf8.RuneCountInString(seg)
	}
	if n := utf8.RuneCountInString(surface); total != n {
		return fmt.Errorf("%w: segments span %d characters, surface %q has %d", ErrIllegalUserDictionaryEntry, total, surface, n)
	}

	cost := userWordCostBase * len([]rune(surface))
	if cost < minimumUserWordCost {
		cost = minimumUserWordCost
	}

	details := make([]int, 0, len(segmentation)+1)
	details = append(details, len(d.entries))
	for _, seg := range segmentation {
		details = append(details, len([]rune(seg)))
	}
	if err := d.surfaces.Put(surface, details); err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalUserDictionaryEntry, err)
	}
	for i, seg := range segmentation {
		features := defaultFeatures(d.schema.TotalFeatures)
		features[d.schema.PartOfSpeechFeature] = pos
		features[d.schema.ReadingFeature] = readings[i]
		d.entries = append(d.entries, Entry{
			Surface:  seg,
			LeftID:   userLeftID,
			RightID:  userRightID,
			WordCost: cost,
			Features: features,
		})
	}
	return nil
}

// FindUserDictionaryMatches returns, for every start position, the
// segments of the longest user word beginning there.
func (d *UserDictionary) FindUserDictionaryMatches(text []rune) []UserDictionaryMatch {
	var matches []UserDictionaryMatch
	for start := 0; start < len(text); start++ {
		matchLength := 0
		for end := 0; start+end <= len(text); end++ {
			candidate := string(text[start : start+end])
			if !d.surfaces.ContainsKeyPrefix(candidate) {
				break
			}
			if d.surfaces.ContainsKey(candidate) {
				matchLength = end
			}
		}
		if matchLength == 0 {
			continue
		}
		details, ok := d.surfaces.Get(string(text[start : start+matchLength]))
		if !ok {
			continue
		}
		wordID := details[0]
		offset := 0
		for _, length := range details[1:] {
			matches = append(matches, UserDictionaryMatch{
				WordID: wordID,
				Start:  start + offset,
				Length: length,
			})
			offset += length
			wordID++
		}
	}
	return matches
}

func (d *UserDictionary) Schema() *Schema {
	return d.schema
}

func (d *UserDictionary) Len() int {
	return len(d.entries)
}

func (d *UserDictionary) Entry(wordID int) *Entry {
	return &d.entries[wordID]
}

func (d *UserDictionary) LeftID(wordID int) int {
	return d.entries[wordID].LeftID
}

func (d *UserDictionary) RightID(wordID int) int {
	return d.entries[wordID].RightID
}

func (d *UserDictionary) WordCost(wordID int) int {
	return d.entries[wordID].WordCost
}

func (d *UserDictionary) Features(wordID int) []string {
	return d.entries[wordID].Features
}

func (d *UserDictionary) AllFeatures(wordID int) string {
	return joinFeatures(d.entries[wordID].Features, nil)
}

func (d *UserDictionary) Feature(wordID int, fields ...int) string {
	return joinFeatures(d.entries[wordID].Features, fields)
}

func (m UserDictionaryMatch) String() string {
	return "UserDictionaryMatch{wordID=" + strconv.Itoa(m.WordID) + ", start=" + strconv.Itoa(m.Start) + ", length=" + strconv.Itoa(m.Length) + "}"
}
