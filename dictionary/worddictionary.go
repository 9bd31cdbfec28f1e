package dictionary

import (
	"strings"
)

const (
	DefaultFeature   = "*"
	featureSeparator = ","
)

// WordDictionary is what the analyzer needs to know about a word id: its
// connection ids, its cost and its features.
type WordDictionary interface {
	LeftID(wordID int) int
	RightID(wordID int) int
	WordCost(wordID int) int
	Features(wordID int) []string
	AllFeatures(wordID int) string
	// Feature joins the given feature columns. With no columns it is
	// AllFeatures.
	Feature(wordID int, fields ...int) string
}

func featureAt(features []string, i int) string {
	if i < 0 || i >= len(features) {
		return DefaultFeature
	}
	return features[i]
}

func joinFeatures(features []string, fields []int) string {
	if len(fields) == 0 {
		escaped := make([]string, len(features))
		for i, f := range features {
			escaped[i] = Escape(f)
		}
		return strings.Join(escaped, featureSeparator)
	}
	if len(fields) == 1 {
		return featureAt(features, fields[0])
	}
	escaped := make([]string, len(fields))
	for i, c := range fields {
		escaped[i] = Escape(featureAt(features, c))
	}
	return strings.Join(escaped, featureSeparator)
}

func defaultFeatures(n int) []string {
	features := make([]string, n)
	for i := range features {
		features[i] = DefaultFeature
	}
	return features
}

// InsertedDictionary backs the nodes synthesized to close gaps around user
// dictionary matches. Every word id has zero ids and cost and only default
// features.
type InsertedDictionary struct {
	features []string
}

func NewInsertedDictionary(totalFeatures int) *InsertedDictionary {
	return &InsertedDictionary{
		features: defaultFeatures(totalFeatures),
	}
}

func (d *InsertedDictionary) LeftID(wordID int) int   { return 0 }
func (d *InsertedDictionary) RightID(wordID int) int  { return 0 }
func (d *InsertedDictionary) WordCost(wordID int) int { return 0 }

func (d *InsertedDictionary) Features(wordID int) []string {
	return d.features
}

func (d *InsertedDictionary) AllFeatures(wordID int) string {
	return joinFeatures(d.features, nil)
}

func (d *InsertedDictionary) Feature(wordID int, fields ...int) string {
	return joinFeatures(d.features, fields)
}
