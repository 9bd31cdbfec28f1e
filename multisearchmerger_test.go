package gokuromoji

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResult(paths [][]string, costs []int) *multiSearchResult {
	r := &multiSearchResult{}
	for i, path := range paths {
		tokens := make([]*Token, len(path))
		for j, s := range path {
			tokens[j] = &Token{Surface: s}
		}
		r.add(tokens, costs[i])
	}
	return r
}

func joinSurfaces(tokens []*Token) string {
	return strings.Join(surfaces(tokens), " ")
}

func TestMerger(t *testing.T) {
	merger := newMultiSearchMerger(3, 8)
	merged := merger.merge([]*multiSearchResult{
		makeResult([][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}, []int{1, 2, 3}),
		makeResult([][]string{{"a", "b"}, {"c", "d"}}, []int{1, 2}),
	})

	require.Equal(t, 3, merged.len())
	assert.Equal(t, []int{2, 3, 3}, merged.costs)
	assert.Equal(t, "a b a b", joinSurfaces(merged.paths[0]))
	assert.Equal(t, "c d a b", joinSurfaces(merged.paths[1]))
	assert.Equal(t, "a b c d", joinSurfaces(merged.paths[2]))
}

func TestMergerTooFew(t *testing.T) {
	merger := newMultiSearchMerger(5, 3)
	merged := merger.merge([]*multiSearchResult{
		makeResult([][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}, []int{1, 2, 5}),
		makeResult([][]string{{"a", "b"}, {"c", "d"}}, []int{1, 2}),
		makeResult([][]string{{"a", "b"}}, []int{5}),
	})

	require.Equal(t, 4, merged.len())
	assert.Equal(t, []int{7, 8, 8, 9}, merged.costs)
	assert.Equal(t, "a b a b a b", joinSurfaces(merged.paths[0]))
	assert.Equal(t, "c d a b a b", joinSurfaces(merged.paths[1]))
	assert.Equal(t, "a b c d a b", joinSurfaces(merged.paths[2]))
	assert.Equal(t, "c d c d a b", joinSurfaces(merged.paths[3]))
}

func TestMergerEmpty(t *testing.T) {
	merger := newMultiSearchMerger(5, 3)
	assert.Equal(t, 0, merger.merge(nil).len())
	assert.Equal(t, 0, merger.merge([]*multiSearchResult{
		makeResult([][]string{{"a"}}, []int{1}),
		{},
	}).len())
}

func TestMergerSingle(t *testing.T) {
	merger := newMultiSearchMerger(2, 10)
	merged := merger.merge([]*multiSearchResult{
		makeResult([][]string{{"a"}, {"b"}, {"c"}}, []int{1, 4, 20}),
	})
	assert.Equal(t, []int{1, 4}, merged.costs)
}
