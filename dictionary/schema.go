package dictionary

import (
	"fmt"
)

// FeatureOffset is the number of leading CSV columns that precede the
// features: surface, left id, right id and word cost.
const FeatureOffset = 4

// Schema describes the feature layout of a dictionary family. Fields maps a
// feature name to its CSV column in the lexicon source.
type Schema struct {
	Name                string
	TotalFeatures       int
	ReadingFeature      int
	PartOfSpeechFeature int
	Fields              map[string]int
}

// Column returns the index into a word's feature list for the named field.
func (s *Schema) Column(name string) (int, bool) {
	c, ok := s.Fields[name]
	if !ok {
		return 0, false
	}
	return c - FeatureOffset, true
}

func unidicFields() map[string]int {
	return map[string]int{
		"PartOfSpeechLevel1":         4,
		"PartOfSpeechLevel2":         5,
		"PartOfSpeechLevel3":         6,
		"PartOfSpeechLevel4":         7,
		"ConjugationType":            8,
		"ConjugationForm":            9,
		"LemmaReadingForm":           10,
		"Lemma":                      11,
		"WrittenForm":                12,
		"Pronunciation":              13,
		"WrittenBaseForm":            14,
		"PronunciationBaseForm":      15,
		"LanguageType":               16,
		"InitialSoundAlterationType": 17,
		"InitialSoundAlterationForm": 18,
		"FinalSoundAlterationType":   19,
		"FinalSoundAlterationForm":   20,
	}
}

var UniDic = &Schema{
	Name:                "unidic",
	TotalFeatures:       17,
	ReadingFeature:      7,
	PartOfSpeechFeature: 0,
	Fields:              unidicFields(),
}

var UniDicKanaAccent = func() *Schema {
	fields := unidicFields()
	fields["Kana"] = 21
	fields["KanaBase"] = 22
	fields["Form"] = 23
	fields["FormBase"] = 24
	fields["InitialConnectionType"] = 25
	fields["FinalConnectionType"] = 26
	fields["AccentType"] = 27
	fields["AccentConnectionType"] = 28
	fields["AccentModificationType"] = 29
	return &Schema{
		Name:                "unidic-kana-accent",
		TotalFeatures:       26,
		ReadingFeature:      13,
		PartOfSpeechFeature: 0,
		Fields:              fields,
	}
}()

var IPADIC = &Schema{
	Name:                "ipadic",
	TotalFeatures:       9,
	ReadingFeature:      7,
	PartOfSpeechFeature: 0,
	Fields: map[string]int{
		"PartOfSpeechLevel1": 4,
		"PartOfSpeechLevel2": 5,
		"PartOfSpeechLevel3": 6,
		"PartOfSpeechLevel4": 7,
		"ConjugationType":    8,
		"ConjugationForm":    9,
		"BaseForm":           10,
		"Reading":            11,
		"Pronunciation":      12,
	},
}

func LookupSchema(name string) (*Schema, error) {
	switch name {
	case "", UniDic.Name, "unidic-neologd":
		return UniDic, nil
	case UniDicKanaAccent.Name:
		return UniDicKanaAccent, nil
	case IPADIC.Name:
		return IPADIC, nil
	}
	return nil, fmt.Errorf("unknown dictionary schema %q", name)
}
