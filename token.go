package gokuromoji

import (
	"strconv"

	"github.com/msnoigrs/gokuromoji/dictionary"
)

// Token is one word of a segmentation. Position is the offset of the word
// in the input, in runes.
type Token struct {
	Surface  string
	Position int
	WordID   int
	Type     NodeType

	words  dictionary.WordDictionary
	schema *dictionary.Schema
}

func (t *Token) IsKnown() bool {
	return t.Type == Known
}

func (t *Token) IsUser() bool {
	return t.Type == User
}

func (t *Token) Features() []string {
	return t.words.Features(t.WordID)
}

func (t *Token) AllFeatures() string {
	return t.words.AllFeatures(t.WordID)
}

// Feature returns the named feature of the schema, such as
// "PartOfSpeechLevel1" or "Lemma", or "*" when the schema has no such
// field.
func (t *Token) Feature(name string) string {
	c, ok := t.schema.Column(name)
	if !ok {
		return dictionary.DefaultFeature
	}
	return t.words.Feature(t.WordID, c)
}

func (t *Token) String() string {
	return t.Surface + "\t" + strconv.Itoa(t.Position) + "\t" + t.Type.String() + "\t" + t.AllFeatures()
}
