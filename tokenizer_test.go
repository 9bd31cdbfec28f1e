package gokuromoji

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/msnoigrs/gokuromoji/dictionary"
)

func buildTestDictionary(t testing.TB) *dictionary.Dictionary {
	t.Helper()
	d, err := dictionary.Build(os.DirFS("testdata/dict"), dictionary.BuildOptions{
		Description: "test",
	})
	require.NoError(t, err)
	return d
}

func newTestTokenizer(t testing.TB, opts ...Option) *Tokenizer {
	t.Helper()
	tokenizer, err := New(buildTestDictionary(t), opts...)
	require.NoError(t, err)
	return tokenizer
}

func readTestUserDictionary(t testing.TB, text string) *dictionary.UserDictionary {
	t.Helper()
	user, err := dictionary.ReadUserDictionary(strings.NewReader(text), "user.txt", dictionary.UniDic)
	require.NoError(t, err)
	return user
}

func surfaces(tokens []*Token) []string {
	s := make([]string, len(tokens))
	for i, t := range tokens {
		s[i] = t.Surface
	}
	return s
}

func positions(tokens []*Token) []int {
	p := make([]int, len(tokens))
	for i, t := range tokens {
		p[i] = t.Position
	}
	return p
}

func TestTokenize(t *testing.T) {
	tokenizer := newTestTokenizer(t)
	tokens := tokenizer.Tokenize("お寿司が食べたい")

	require.Equal(t, []string{"お", "寿司", "が", "食べ", "たい"}, surfaces(tokens))
	assert.Equal(t, []int{0, 1, 3, 4, 6}, positions(tokens))

	tests := []struct {
		name string
		want []string
	}{
		{"PartOfSpeechLevel1", []string{"接頭辞", "名詞", "助詞", "動詞", "助動詞"}},
		{"PartOfSpeechLevel2", []string{"*", "普通名詞", "格助詞", "一般", "*"}},
		{"ConjugationType", []string{"*", "*", "*", "下一段-バ行", "助動詞-タイ"}},
		{"ConjugationForm", []string{"*", "*", "*", "連用形-一般", "終止形-一般"}},
		{"LemmaReadingForm", []string{"オ", "スシ", "ガ", "タベル", "タイ"}},
		{"Lemma", []string{"御", "寿司", "が", "食べる", "たい"}},
		{"NoSuchField", []string{"*", "*", "*", "*", "*"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]string, len(tokens))
			for i, token := range tokens {
				got[i] = token.Feature(tt.name)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	for _, token := range tokens {
		assert.True(t, token.IsKnown())
		assert.False(t, token.IsUser())
		assert.Equal(t, Known, token.Type)
		assert.Len(t, token.Features(), dictionary.UniDic.TotalFeatures)
	}
	assert.Equal(t, "助動詞,*,*,*,助動詞-タイ,終止形-一般,タイ,たい,たい,タイ,たい,タイ,和,*,*,*,*", tokens[4].AllFeatures())
	assert.Equal(t, "たい\t6\tKNOWN\t"+tokens[4].AllFeatures(), tokens[4].String())
}

func TestTokenizeEmpty(t *testing.T) {
	tokenizer := newTestTokenizer(t)

	tokens := tokenizer.Tokenize("")
	assert.NotNil(t, tokens)
	assert.Empty(t, tokens)

	paths := tokenizer.MultiTokenize("", 3, 100)
	require.Len(t, paths, 1)
	assert.Empty(t, paths[0])
}

func TestTokenizeUnknownWords(t *testing.T) {
	tokenizer := newTestTokenizer(t)

	tokens := tokenizer.Tokenize("ラーメン")
	require.Len(t, tokens, 1)
	assert.Equal(t, "ラーメン", tokens[0].Surface)
	assert.Equal(t, Unknown, tokens[0].Type)
	assert.False(t, tokens[0].IsKnown())
	// the cheaper of the two KATAKANA entries
	assert.Equal(t, "普通名詞", tokens[0].Feature("PartOfSpeechLevel2"))
	// unk.def entries are padded to the schema
	assert.Len(t, tokens[0].Features(), dictionary.UniDic.TotalFeatures)
	assert.Equal(t, "*", tokens[0].Feature("Lemma"))
}

func TestExtendedMode(t *testing.T) {
	tokenizer := newTestTokenizer(t, WithMode(Extended))

	tokens := tokenizer.Tokenize("ラーメン")
	require.Equal(t, []string{"ラ", "ー", "メ", "ン"}, surfaces(tokens))
	assert.Equal(t, []int{0, 1, 2, 3}, positions(tokens))
	for _, token := range tokens {
		assert.Equal(t, Unknown, token.Type)
		assert.Equal(t, unigramWordID, token.WordID)
	}

	// known words are kept whole
	tokens = tokenizer.Tokenize("ラーメンが食べたい")
	assert.Equal(t, []string{"ラ", "ー", "メ", "ン", "が", "食べ", "たい"}, surfaces(tokens))

	paths := tokenizer.MultiTokenize("ラーメン", 2, 1000)
	require.Len(t, paths, 2)
	for _, path := range paths {
		assert.Equal(t, []string{"ラ", "ー", "メ", "ン"}, surfaces(path))
	}
}

func TestSearchModePenalties(t *testing.T) {
	tests := []struct {
		text   string
		normal int
		search int
	}{
		// three kanji: one character over the kanji threshold
		{"東京都", 300, 300 + 3000},
		// eight katakana: one character over the other threshold
		{"ラーメンラーメン", 3000, 3000 + 1700},
		// short words are not penalized
		{"お寿司", 200, 200},
	}
	normal := newTestTokenizer(t)
	search := newTestTokenizer(t, WithMode(Search))
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.normal, normal.MultiTokenizeWithCost(tt.text, 1, 0)[0].Cost)
			assert.Equal(t, tt.search, search.MultiTokenizeWithCost(tt.text, 1, 0)[0].Cost)
			assert.Equal(t, surfaces(normal.Tokenize(tt.text)), surfaces(search.Tokenize(tt.text)))
		})
	}

	custom := newTestTokenizer(t, WithMode(Search), WithPenalties(Penalties{
		KanjiLengthThreshold: 1,
		KanjiPenalty:         10,
		OtherLengthThreshold: 1,
		OtherPenalty:         1,
	}))
	assert.Equal(t, 300+2*10, custom.MultiTokenizeWithCost("東京都", 1, 0)[0].Cost)
}

func TestUserDictionary(t *testing.T) {
	user, err := ReadUserDictionaries(dictionary.UniDic, "testdata/userdict.txt")
	require.NoError(t, err)
	tokenizer := newTestTokenizer(t, WithUserDictionary(user))

	tokens := tokenizer.Tokenize("関西国際空港に行った")
	require.Equal(t, []string{"関西", "国際", "空港", "に", "行っ", "た"}, surfaces(tokens))
	assert.Equal(t, []int{0, 2, 4, 6, 7, 9}, positions(tokens))
	for _, token := range tokens[:3] {
		assert.True(t, token.IsUser())
		assert.Equal(t, User, token.Type)
		assert.Equal(t, "カスタム名詞", token.Feature("PartOfSpeechLevel1"))
	}
	assert.Equal(t, "カンサイ", tokens[0].Features()[dictionary.UniDic.ReadingFeature])
	assert.True(t, tokens[3].IsKnown())

	// the user word only applies where it matches
	tokens = tokenizer.Tokenize("関西に行った")
	assert.Equal(t, Known, tokens[0].Type)
}

func TestUserDictionaryGlue(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		surfaces []string
		types    []NodeType
	}{
		{
			name:     "before",
			user:     "京都,京都,キョウト,カスタム地名",
			surfaces: []string{"東", "京都", "に", "行っ", "た"},
			types:    []NodeType{Inserted, User, Known, Known, Known},
		},
		{
			name:     "after",
			user:     "東京,東京,トウキョウ,カスタム地名",
			surfaces: []string{"東京", "都", "に", "行っ", "た"},
			types:    []NodeType{User, Inserted, Known, Known, Known},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := newTestTokenizer(t, WithUserDictionary(readTestUserDictionary(t, tt.user)))
			tokens := tokenizer.Tokenize("東京都に行った")
			require.Equal(t, tt.surfaces, surfaces(tokens))
			types := make([]NodeType, len(tokens))
			for i, token := range tokens {
				types[i] = token.Type
			}
			assert.Equal(t, tt.types, types)
			assert.Equal(t, "東京都に行った", strings.Join(surfaces(tokens), ""))

			for _, token := range tokens {
				if token.Type == Inserted {
					assert.Equal(t, "*", token.Feature("PartOfSpeechLevel1"))
					assert.Equal(t, strings.Repeat("*,", dictionary.UniDic.TotalFeatures-1)+"*", token.AllFeatures())
				}
			}
		})
	}
}

func TestNewErrors(t *testing.T) {
	d := buildTestDictionary(t)

	_, err := New(nil)
	assert.Error(t, err)

	user, err := dictionary.ReadUserDictionary(strings.NewReader("関西,関西,カンサイ,名詞\n"), "user.txt", dictionary.IPADIC)
	require.NoError(t, err)
	_, err = New(d, WithUserDictionary(user))
	assert.ErrorContains(t, err, "schema")

	// full entry whose left id is past the connection cost table
	line := "関西,99,2,100," + strings.Repeat("*,", dictionary.UniDic.TotalFeatures-1) + "*"
	user, err = dictionary.ReadUserDictionary(strings.NewReader(line), "user.txt", dictionary.UniDic)
	require.NoError(t, err)
	_, err = New(d, WithUserDictionary(user))
	assert.ErrorIs(t, err, dictionary.ErrInvalidFormat)
}

func TestSplit(t *testing.T) {
	const text = "東京都に行った。関西、空港"
	split := newTestTokenizer(t)
	whole := newTestTokenizer(t, WithSplit(false))

	tokens := split.Tokenize(text)
	require.Equal(t, []string{"東京都", "に", "行っ", "た", "。", "関西", "、", "空港"}, surfaces(tokens))
	assert.Equal(t, []int{0, 3, 4, 6, 7, 8, 10, 11}, positions(tokens))
	assert.Equal(t, "句点", tokens[4].Feature("PartOfSpeechLevel2"))

	assert.Equal(t, surfaces(tokens), surfaces(whole.Tokenize(text)))
	assert.Equal(t, positions(tokens), positions(whole.Tokenize(text)))

	// a trailing delimiter leaves no empty chunk
	assert.Equal(t, []string{"関西", "、"}, surfaces(split.Tokenize("関西、")))
	assert.Equal(t, []string{"。", "。"}, surfaces(split.Tokenize("。。")))
}

func TestChunks(t *testing.T) {
	tokenizer := newTestTokenizer(t)
	tests := []struct {
		text    string
		chunks  []string
		offsets []int
	}{
		{"", []string{""}, []int{0}},
		{"お寿司", []string{"お寿司"}, []int{0}},
		{"あ。い、う", []string{"あ。", "い、", "う"}, []int{0, 2, 4}},
		{"あ、", []string{"あ、"}, []int{0}},
		{"、、", []string{"、", "、"}, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			chunks := tokenizer.chunks([]rune(tt.text))
			var got []string
			var offsets []int
			for _, c := range chunks {
				got = append(got, string(c.text))
				offsets = append(offsets, c.offset)
			}
			assert.Equal(t, tt.chunks, got)
			assert.Equal(t, tt.offsets, offsets)
		})
	}
}

var reconstructionTexts = []string{
	"お寿司が食べたい",
	"東京都に行った。関西、空港",
	"ラーメンが食べたい。abc 123、一二三",
	"〇〇が食べたい ",
	"𠀋𠀋に行った",
	"関西国際空港に行った",
	"。",
	"x",
}

func TestReconstruction(t *testing.T) {
	user, err := ReadUserDictionaries(dictionary.UniDic, "testdata/userdict.txt")
	require.NoError(t, err)
	for _, mode := range []Mode{Normal, Search, Extended} {
		for _, split := range []bool{true, false} {
			tokenizer := newTestTokenizer(t, WithMode(mode), WithSplit(split), WithUserDictionary(user))
			for _, text := range reconstructionTexts {
				tokens := tokenizer.Tokenize(text)
				assertCovers(t, text, tokens)

				for _, path := range tokenizer.MultiTokenize(text, 5, 10000) {
					assertCovers(t, text, path)
				}
			}
		}
	}
}

// assertCovers checks that tokens are consecutive and spell text.
func assertCovers(t *testing.T, text string, tokens []*Token) {
	t.Helper()
	position := 0
	var b strings.Builder
	for _, token := range tokens {
		assert.Equal(t, position, token.Position, "%s: %s", text, token.Surface)
		position += len([]rune(token.Surface))
		b.WriteString(token.Surface)
	}
	assert.Equal(t, text, b.String())
}

func TestConcurrentTokenize(t *testing.T) {
	tokenizer := newTestTokenizer(t)
	want := make([][]string, len(reconstructionTexts))
	for i, text := range reconstructionTexts {
		want[i] = surfaces(tokenizer.Tokenize(text))
	}

	var g errgroup.Group
	for n := 0; n < 8; n++ {
		g.Go(func() error {
			for k := 0; k < 20; k++ {
				for i, text := range reconstructionTexts {
					if got := surfaces(tokenizer.Tokenize(text)); !assert.Equal(t, want[i], got) {
						return nil
					}
					tokenizer.MultiTokenizeNBest(text, 3)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"normal", Normal},
		{"", Normal},
		{"Search", Search},
		{"s", Search},
		{"EXTENDED", Extended},
		{"e", Extended},
	}
	for _, tt := range tests {
		m, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, m, tt.in)
	}
	_, err := ParseMode("fast")
	assert.Error(t, err)

	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("extended")))
	assert.Equal(t, Extended, m)
	b, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "extended", string(b))
	assert.Equal(t, "Mode(7)", Mode(7).String())

	tokenizer := newTestTokenizer(t, WithMode(Search))
	assert.Equal(t, Search, tokenizer.Mode())
	assert.Equal(t, dictionary.UniDic, tokenizer.Schema())
}

func TestNodeType(t *testing.T) {
	assert.Equal(t, "KNOWN", Known.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, "USER", User.String())
	assert.Equal(t, "INSERTED", Inserted.String())
	assert.Equal(t, "INVALID", NodeType(9).String())
}
