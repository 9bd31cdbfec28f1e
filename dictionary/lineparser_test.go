package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	fields, err := ParseLine(`a,"b,c","d""e",,f`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b,c", `d"e`, "", "f"}, fields)

	fields, err = ParseLine(`"""",x`)
	require.NoError(t, err)
	assert.Equal(t, []string{`"`, "x"}, fields)

	_, err = ParseLine(`a,"b`)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestEscape(t *testing.T) {
	for _, s := range []string{"abc", "b,c", `d"e`, `,"`} {
		assert.Equal(t, s, Unescape(Escape(s)), s)
	}
	assert.Equal(t, "abc", Escape("abc"))
	assert.Equal(t, `"b,c"`, Escape("b,c"))
	assert.Equal(t, `d""e`, Escape(`d"e`))
}

func TestParseEntry(t *testing.T) {
	e, err := ParseEntry("東京,1,2,300,名詞,固有名詞")
	require.NoError(t, err)
	assert.Equal(t, &Entry{
		Surface:  "東京",
		LeftID:   1,
		RightID:  2,
		WordCost: 300,
		Features: []string{"名詞", "固有名詞"},
	}, e)
	assert.Equal(t, "東京,1,2,300,名詞,固有名詞", e.String())

	e, err = ParseEntry(`"a,b",0,0,-5,"x""y"`)
	require.NoError(t, err)
	assert.Equal(t, "a,b", e.Surface)
	assert.Equal(t, -5, e.WordCost)
	assert.Equal(t, `"a,b",0,0,-5,x""y`, e.String())

	_, err = ParseEntry("東京,1,2")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ParseEntry("東京,1,x,300,名詞")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
