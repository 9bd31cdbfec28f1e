package gokuromoji

import (
	"github.com/msnoigrs/gokuromoji/dictionary"
	"github.com/msnoigrs/gokuromoji/trie"
)

type latticeBuilder struct {
	trie       *trie.DoubleArrayTrie
	tokenInfo  *dictionary.TokenInfoDictionary
	unknown    *dictionary.UnknownDictionary
	charDefs   *dictionary.CharacterDefinitions
	user       *dictionary.UserDictionary
	searchMode bool
}

func newLatticeBuilder(d *dictionary.Dictionary, user *dictionary.UserDictionary, mode Mode) *latticeBuilder {
	return &latticeBuilder{
		trie:       d.Trie,
		tokenInfo:  d.TokenInfo,
		unknown:    d.Unknown,
		charDefs:   d.CharacterDefinitions,
		user:       user,
		searchMode: mode.penalized(),
	}
}

func newNode(wd dictionary.WordDictionary, wordID int, kind NodeType, start int, length int) latticeNode {
	return latticeNode{
		wordID:   wordID,
		kind:     kind,
		start:    start,
		length:   length,
		leftID:   wd.LeftID(wordID),
		rightID:  wd.RightID(wordID),
		wordCost: wd.WordCost(wordID),
	}
}

func (b *latticeBuilder) build(text []rune) *lattice {
	l := newLattice(text)
	l.addBOS()

	// rune offset just past the last unknown word
	unknownWordEnd := -1
	for start := 0; start < len(text); start++ {
		if !l.tokenEndsWhereCurrentTokenStarts(start) {
			continue
		}
		found := b.processIndex(l, start)

		// normal mode does not start unknown words inside an unknown word
		if b.searchMode || unknownWordEnd <= start {
			for i, category := range b.charDefs.LookupCategories(text[start]) {
				unknownWordEnd = b.processUnknownWord(l, category, i, unknownWordEnd, start, found)
			}
		}
	}

	if b.user != nil {
		b.processUserDictionary(l)
	}

	l.addEOS()
	return l
}

// processIndex adds a node for every word of every dictionary surface that
// is a prefix of the text at start.
func (b *latticeBuilder) processIndex(l *lattice, start int) bool {
	found := false
	for _, m := range b.trie.CommonPrefixSearch(l.text, start) {
		state, end := m[0], m[1]
		found = true
		for _, wordID := range b.tokenInfo.LookupWordIDs(state) {
			l.addNode(newNode(b.tokenInfo, int(wordID), Known, start, end-start), start+1, end+1)
		}
	}
	return found
}

func (b *latticeBuilder) processUserDictionary(l *lattice) {
	for _, m := range b.user.FindUserDictionaryMatches(l.text) {
		nodeStart := m.Start + 1
		nodeEnd := nodeStart + m.Length
		l.addNode(newNode(b.user, m.WordID, User, m.Start, m.Length), nodeStart, nodeEnd)

		if len(l.endAt[nodeStart]) == 0 {
			b.repairBrokenLatticeBefore(l, m.Start)
		}
		if len(l.startAt[nodeEnd]) == 0 {
			b.repairBrokenLatticeAfter(l, nodeEnd)
		}
	}
}

// repairBrokenLatticeBefore glues the start of a user word at rune offset
// index to the lattice with the head of the shortest node that starts
// before it and reaches it.
func (b *latticeBuilder) repairBrokenLatticeBefore(l *lattice, index int) {
	for start := index; start > 0; start-- {
		if len(l.startAt[start]) == 0 {
			continue
		}
		length := index + 1 - start
		glueBase := findGlueNodeCandidate(l, l.startAt[start], length)
		if glueBase == noNode {
			continue
		}
		glue := l.nodes[glueBase]
		glue.kind = Inserted
		glue.length = length
		l.addNode(glue, start, start+length)
		return
	}
}

// repairBrokenLatticeAfter glues the end of a user word to the lattice with
// the tail of the shortest node that covers nodeEnd and ends after it.
func (b *latticeBuilder) repairBrokenLatticeAfter(l *lattice, nodeEnd int) {
	for end := nodeEnd + 1; end < l.dim(); end++ {
		if len(l.endAt[end]) == 0 {
			continue
		}
		delta := end - nodeEnd
		glueBase := findGlueNodeCandidate(l, l.endAt[end], delta)
		if glueBase == noNode {
			continue
		}
		glue := l.nodes[glueBase]
		glue.kind = Inserted
		glue.start = nodeEnd - 1
		glue.length = delta
		l.addNode(glue, nodeEnd, end)
		return
	}
}

// findGlueNodeCandidate returns the first of the shortest nodes that are at
// least length runes long.
func findGlueNodeCandidate(l *lattice, candidates []int, length int) int {
	glueBase := noNode
	for _, c := range candidates {
		n := &l.nodes[c]
		if n.isSentinel() || n.length < length {
			continue
		}
		if glueBase == noNode || n.length < l.nodes[glueBase].length {
			glueBase = c
		}
	}
	return glueBase
}
