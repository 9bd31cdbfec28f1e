package dictionary

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is one line of a lexicon or unknown-word definition:
// surface,leftID,rightID,wordCost,features...
type Entry struct {
	Surface  string
	LeftID   int
	RightID  int
	WordCost int
	Features []string
}

// ParseEntry parses a CSV dictionary line. The surface of an unk.def line is
// the category name.
func ParseEntry(line string) (*Entry, error) {
	fields, err := ParseLine(line)
	if err != nil {
		return nil, err
	}
	return newEntry(fields)
}

func newEntry(fields []string) (*Entry, error) {
	if len(fields) < FeatureOffset {
		return nil, fmt.Errorf("%w: too few fields (%d)", ErrInvalidFormat, len(fields))
	}
	var v [3]int
	for i := range v {
		n, err := strconv.Atoi(strings.TrimSpace(fields[i+1]))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		v[i] = n
	}
	features := make([]string, len(fields)-FeatureOffset)
	copy(features, fields[FeatureOffset:])
	return &Entry{
		Surface:  fields[0],
		LeftID:   v[0],
		RightID:  v[1],
		WordCost: v[2],
		Features: features,
	}, nil
}

func (e *Entry) String() string {
	var b strings.Builder
	b.WriteString(Escape(e.Surface))
	fmt.Fprintf(&b, ",%d,%d,%d", e.LeftID, e.RightID, e.WordCost)
	for _, f := range e.Features {
		b.WriteByte(',')
		b.WriteString(Escape(f))
	}
	return b.String()
}
