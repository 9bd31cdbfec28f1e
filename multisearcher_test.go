package gokuromoji

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func costs(results []Tokenization) []int {
	c := make([]int, len(results))
	for i, r := range results {
		c[i] = r.Cost
	}
	return c
}

func TestMultiTokenize(t *testing.T) {
	tokenizer := newTestTokenizer(t)
	const text = "お寿司が食べたい"

	results := tokenizer.MultiTokenizeWithCost(text, 4, 1000)
	require.Equal(t, []int{600, 900, 1000, 1050}, costs(results))

	// the best path is the one Tokenize returns
	assert.Equal(t, surfaces(tokenizer.Tokenize(text)), surfaces(results[0].Tokens))
	assert.Equal(t, "たい", results[0].Tokens[4].Feature("Lemma"))

	// たい as a noun
	assert.Equal(t, []string{"お", "寿司", "が", "食べ", "たい"}, surfaces(results[1].Tokens))
	assert.Equal(t, "鯛", results[1].Tokens[4].Feature("Lemma"))

	// 寿司 split in two
	assert.Equal(t, []string{"お", "寿", "司", "が", "食べ", "たい"}, surfaces(results[2].Tokens))

	// conjunctive が
	assert.Equal(t, "接続助詞", results[3].Tokens[2].Feature("PartOfSpeechLevel2"))
}

func TestMultiTokenizeLimits(t *testing.T) {
	tokenizer := newTestTokenizer(t)
	const text = "お寿司が食べたい"

	assert.Len(t, tokenizer.MultiTokenize(text, 1, 100000), 1)
	assert.Len(t, tokenizer.MultiTokenizeNBest(text, 3), 3)

	// 1050 is 450 over the best
	assert.Equal(t, []int{600, 900, 1000}, costs(tokenizer.MultiTokenizeWithCost(text, 10, 400)))
	assert.Len(t, tokenizer.MultiTokenizeBySlack(text, 400), 3)

	// the best path is kept whatever the slack
	assert.Equal(t, []int{600}, costs(tokenizer.MultiTokenizeWithCost(text, 10, 0)))

	for _, n := range []int{0, -1} {
		assert.Empty(t, tokenizer.MultiTokenize(text, n, 100000))
		assert.Empty(t, tokenizer.MultiTokenize("食べたい、食べたい", n, 100000))
		assert.Empty(t, tokenizer.MultiTokenizeWithCost(text, n, 100000))
	}
}

func TestMultiTokenizeOrderAndUniqueness(t *testing.T) {
	for _, mode := range []Mode{Normal, Search} {
		tokenizer := newTestTokenizer(t, WithMode(mode), WithSplit(false))
		for _, text := range reconstructionTexts {
			results := tokenizer.MultiTokenizeWithCost(text, 50, 100000)
			require.NotEmpty(t, results, text)
			assert.LessOrEqual(t, len(results), 50)

			best := tokenizer.MultiTokenizeWithCost(text, 1, 0)
			require.Len(t, best, 1)
			assert.Equal(t, best[0].Cost, results[0].Cost, text)

			seen := map[string]struct{}{}
			for i, r := range results {
				if i > 0 {
					assert.LessOrEqual(t, results[i-1].Cost, r.Cost, text)
				}
				assert.LessOrEqual(t, r.Cost-results[0].Cost, 100000)

				var key strings.Builder
				for _, token := range r.Tokens {
					key.WriteString(token.Surface)
					key.WriteString("/")
					key.WriteString(token.AllFeatures())
					key.WriteString("|")
				}
				_, dup := seen[key.String()]
				assert.False(t, dup, "%s: duplicate path %d", text, i)
				seen[key.String()] = struct{}{}
			}
		}
	}
}

func TestMultiTokenizeSplit(t *testing.T) {
	tokenizer := newTestTokenizer(t)
	const text = "食べたい、食べたい"

	results := tokenizer.MultiTokenizeWithCost(text, 3, 100000)
	require.Equal(t, []int{800, 1100, 1100}, costs(results))
	for _, r := range results {
		assert.Equal(t, []string{"食べ", "たい", "、", "食べ", "たい"}, surfaces(r.Tokens))
		assert.Equal(t, []int{0, 2, 4, 5, 7}, positions(r.Tokens))
	}
	lemmas := func(r Tokenization) []string {
		return []string{r.Tokens[1].Feature("Lemma"), r.Tokens[4].Feature("Lemma")}
	}
	assert.Equal(t, []string{"たい", "たい"}, lemmas(results[0]))
	assert.Equal(t, []string{"鯛", "たい"}, lemmas(results[1]))
	assert.Equal(t, []string{"たい", "鯛"}, lemmas(results[2]))
}
