package dictionary

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCharDef = `
DEFAULT      0 1 0  # fallback
HIRAGANA     1 1 0
KANJI        0 0 2
KANJINUMERIC 1 1 0
SYMBOL       1 1 0

0x3041..0x309F HIRAGANA
0x3007 SYMBOL KANJI KANJINUMERIC
0x4E00..0x9FFF KANJI
0x4E00 KANJINUMERIC
0x20000..0x2A6DF KANJI
0x20010 KANJINUMERIC
`

func compileTestCharDef(t *testing.T) *CharacterDefinitions {
	t.Helper()
	cd, err := CompileCharacterDefinitions(strings.NewReader(testCharDef), "char.def")
	require.NoError(t, err)
	return cd
}

func categoryNames(cd *CharacterDefinitions, c rune) []string {
	var names []string
	for _, id := range cd.LookupCategories(c) {
		names = append(names, cd.CategoryName(id))
	}
	return names
}

func TestCharacterDefinitions(t *testing.T) {
	cd := compileTestCharDef(t)

	assert.Equal(t, []string{"DEFAULT", "HIRAGANA", "KANJI", "KANJINUMERIC", "SYMBOL"}, cd.Symbols)
	assert.Equal(t, []string{"DEFAULT"}, categoryNames(cd, 'a'))
	assert.Equal(t, []string{"HIRAGANA"}, categoryNames(cd, 'あ'))
	assert.Equal(t, []string{"KANJI"}, categoryNames(cd, '漢'))
	assert.Equal(t, []string{"KANJI", "KANJINUMERIC"}, categoryNames(cd, '一'))
	assert.Equal(t, []string{"KANJI", "KANJINUMERIC", "SYMBOL"}, categoryNames(cd, '〇'))

	kanji, ok := cd.CategoryID("KANJI")
	require.True(t, ok)
	assert.Equal(t, CategoryDefinition{Invoke: false, Group: false, Length: 2}, cd.LookupDefinition(kanji))
	hiragana, ok := cd.CategoryID("HIRAGANA")
	require.True(t, ok)
	assert.Equal(t, CategoryDefinition{Invoke: true, Group: true, Length: 0}, cd.LookupDefinition(hiragana))

	_, ok = cd.CategoryID("ALPHA")
	assert.False(t, ok)
}

func TestCharacterDefinitionsAboveBMP(t *testing.T) {
	cd := compileTestCharDef(t)

	assert.Equal(t, []string{"KANJI"}, categoryNames(cd, 0x20000))
	assert.Equal(t, []string{"KANJI"}, categoryNames(cd, 0x2000F))
	assert.Equal(t, []string{"KANJI", "KANJINUMERIC"}, categoryNames(cd, 0x20010))
	assert.Equal(t, []string{"KANJI"}, categoryNames(cd, 0x20011))
	assert.Equal(t, []string{"KANJI"}, categoryNames(cd, 0x2A6DF))
	assert.Equal(t, []string{"DEFAULT"}, categoryNames(cd, 0x2A6E0))
	assert.Equal(t, []string{"DEFAULT"}, categoryNames(cd, 0x1F600))
	assert.Len(t, cd.Ranges, 3)
}

func TestSetCategories(t *testing.T) {
	cd := compileTestCharDef(t)

	require.NoError(t, cd.SetCategories('a', "SYMBOL", "HIRAGANA"))
	assert.Equal(t, []string{"HIRAGANA", "SYMBOL"}, categoryNames(cd, 'a'))
	assert.Equal(t, []string{"DEFAULT"}, categoryNames(cd, 'b'))

	assert.Error(t, cd.SetCategories('a', "ALPHA"))
	assert.Error(t, cd.SetCategories(0x20000, "KANJI"))
}

func TestCharacterDefinitionsRoundTrip(t *testing.T) {
	cd := compileTestCharDef(t)
	var buf bytes.Buffer
	_, err := cd.WriteTo(&buf)
	require.NoError(t, err)

	read, err := ReadCharacterDefinitions(&buf)
	require.NoError(t, err)
	assert.Equal(t, cd.Symbols, read.Symbols)
	assert.Equal(t, cd.Definitions, read.Definitions)
	for _, c := range []rune{'a', 'あ', '〇', '一', 0x20010, 0x2A6E0} {
		assert.Equal(t, categoryNames(cd, c), categoryNames(read, c))
	}
}

func TestCompileCharacterDefinitionsErrors(t *testing.T) {
	for name, src := range map[string]string{
		"no default":    "KANJI 0 0 2\n0x4E00 KANJI\n",
		"undefined":     "DEFAULT 0 1 0\n0x0041 ALPHA\n",
		"duplicate":     "DEFAULT 0 1 0\nDEFAULT 0 1 0\n",
		"fields":        "DEFAULT 0 1\n",
		"reverse":       "DEFAULT 0 1 0\n0x0042..0x0041 DEFAULT\n",
		"no category":   "DEFAULT 0 1 0\n0x0041\n",
		"bad number":    "DEFAULT 0 x 0\n",
		"bad codepoint": "DEFAULT 0 1 0\n0xZZ DEFAULT\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := CompileCharacterDefinitions(strings.NewReader(src), "char.def")
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestCompileUnknownDictionary(t *testing.T) {
	cd := compileTestCharDef(t)
	src := `DEFAULT,5,5,4769,記号,一般,*,*,*,*
KANJI,1285,1285,11426,名詞,一般,*,*,*,*
KANJI,1283,1283,17290,名詞,サ変接続,*,*,*,*
SYMBOL,1285,1285,4000,名詞,"a,b",*,*,*,*
`
	ud, err := CompileUnknownDictionary(strings.NewReader(src), "unk.def", cd, 9)
	require.NoError(t, err)

	kanji, _ := cd.CategoryID("KANJI")
	hiragana, _ := cd.CategoryID("HIRAGANA")
	assert.Equal(t, []int32{1, 2}, ud.LookupWordIDs(kanji))
	assert.Empty(t, ud.LookupWordIDs(hiragana))
	assert.Empty(t, ud.LookupWordIDs(100))

	assert.Equal(t, 1283, ud.LeftID(2))
	assert.Equal(t, 1283, ud.RightID(2))
	assert.Equal(t, 17290, ud.WordCost(2))
	assert.Equal(t, []string{"名詞", "サ変接続", "*", "*", "*", "*", "*", "*", "*"}, ud.Features(2))
	assert.Equal(t, "名詞,サ変接続,*,*,*,*,*,*,*", ud.AllFeatures(2))
	assert.Equal(t, `名詞,"a,b"`, ud.Feature(3, 0, 1))
	assert.Equal(t, "a,b", ud.Feature(3, 1))
	assert.Equal(t, "*", ud.Feature(3, 20))

	var buf bytes.Buffer
	_, err = ud.WriteTo(&buf)
	require.NoError(t, err)
	read, err := ReadUnknownDictionary(&buf)
	require.NoError(t, err)
	assert.Equal(t, ud, read)

	_, err = CompileUnknownDictionary(strings.NewReader("ALPHA,1,1,1,名詞\n"), "unk.def", cd, 9)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
