package gokuromoji

import (
	"github.com/msnoigrs/gokuromoji/dictionary"
)

// unigramWordID is the unknown word whose ids and cost the single
// character nodes of Extended mode take.
const unigramWordID = 0

// processUnknownWord adds the unknown words of one category of the
// character at start. i is the position of category in the category list
// of that character; a group only extends over characters listing the same
// category at the same position.
func (b *latticeBuilder) processUnknownWord(l *lattice, category int, i int, unknownWordEnd int, start int, found bool) int {
	definition := b.charDefs.LookupDefinition(category)
	if !definition.Invoke && found {
		return unknownWordEnd
	}

	length := 1
	if definition.Group {
		for j := start + 1; j < len(l.text); j++ {
			categories := b.charDefs.LookupCategories(l.text[j])
			if i >= len(categories) || categories[i] != category {
				break
			}
			length++
		}
	}

	for _, wordID := range b.unknown.LookupWordIDs(category) {
		l.addNode(newNode(b.unknown, int(wordID), Unknown, start, length), start+1, start+1+length)
	}
	return start + length
}

// expandUnknownWords replaces every unknown word of path with one node per
// character.
func expandUnknownWords(l *lattice, unknown *dictionary.UnknownDictionary, path []int) []int {
	expanded := make([]int, 0, len(path))
	for _, n := range path {
		node := l.nodes[n]
		if node.kind != Unknown {
			expanded = append(expanded, n)
			continue
		}
		for k := 0; k < node.length; k++ {
			expanded = append(expanded, l.newNode(newNode(unknown, unigramWordID, Unknown, node.start+k, 1)))
		}
	}
	return expanded
}
