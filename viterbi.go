package gokuromoji

import (
	"github.com/msnoigrs/gokuromoji/dictionary"
)

// Penalties discourage long words in Search and Extended modes. A word
// longer than KanjiLengthThreshold made of kanji only costs KanjiPenalty
// more per extra character; any other word longer than
// OtherLengthThreshold costs OtherPenalty more per extra character.
type Penalties struct {
	KanjiLengthThreshold int `toml:"kanjiLengthThreshold"`
	KanjiPenalty         int `toml:"kanjiPenalty"`
	OtherLengthThreshold int `toml:"otherLengthThreshold"`
	OtherPenalty         int `toml:"otherPenalty"`
}

var DefaultPenalties = Penalties{
	KanjiLengthThreshold: 2,
	KanjiPenalty:         3000,
	OtherLengthThreshold: 7,
	OtherPenalty:         1700,
}

type viterbiSearcher struct {
	costs     *dictionary.ConnectionCosts
	unknown   *dictionary.UnknownDictionary
	mode      Mode
	penalties Penalties
}

func newViterbiSearcher(d *dictionary.Dictionary, mode Mode, penalties Penalties) *viterbiSearcher {
	return &viterbiSearcher{
		costs:     d.ConnectionCosts,
		unknown:   d.Unknown,
		mode:      mode,
		penalties: penalties,
	}
}

// search returns the nodes of the best path between BOS and EOS, both
// excluded, and its cost.
func (s *viterbiSearcher) search(l *lattice) ([]int, int) {
	s.calculatePathCosts(l)
	eos := l.eos()
	path := s.backtrack(l, eos)
	return path, l.nodes[eos].pathCost
}

func (s *viterbiSearcher) calculatePathCosts(l *lattice) {
	for i := 1; i < l.dim(); i++ {
		for _, n := range l.nodesStartingAt(i) {
			s.updateNode(l, l.nodesEndingAt(i), n)
		}
	}
}

func (s *viterbiSearcher) updateNode(l *lattice, leftNodes []int, n int) {
	node := &l.nodes[n]
	node.pathCost = unreachable
	node.leftNode = noNode

	penalty := 0
	if s.mode.penalized() {
		penalty = s.penaltyCost(l, n)
	}
	for _, m := range leftNodes {
		leftNode := &l.nodes[m]
		if leftNode.pathCost == unreachable {
			continue
		}
		pathCost := leftNode.pathCost + s.costs.Cost(leftNode.rightID, node.leftID) + node.wordCost + penalty
		if pathCost < node.pathCost {
			node.pathCost = pathCost
			node.leftNode = m
		}
	}
}

func (s *viterbiSearcher) penaltyCost(l *lattice, n int) int {
	node := &l.nodes[n]
	length := node.length
	if length <= s.penalties.KanjiLengthThreshold {
		return 0
	}
	if isKanjiOnly(l.text[node.start : node.start+length]) {
		return (length - s.penalties.KanjiLengthThreshold) * s.penalties.KanjiPenalty
	}
	if length > s.penalties.OtherLengthThreshold {
		return (length - s.penalties.OtherLengthThreshold) * s.penalties.OtherPenalty
	}
	return 0
}

// isKanjiOnly reports whether every rune is a CJK unified ideograph.
func isKanjiOnly(surface []rune) bool {
	for _, c := range surface {
		if c < 0x4E00 || c > 0x9FFF {
			return false
		}
	}
	return true
}

func (s *viterbiSearcher) backtrack(l *lattice, eos int) []int {
	var path []int
	for n := l.nodes[eos].leftNode; n != noNode && n != bosNode; n = l.nodes[n].leftNode {
		path = append(path, n)
	}
	reverse(path)
	if s.mode == Extended {
		path = expandUnknownWords(l, s.unknown, path)
	}
	return path
}

func reverse(path []int) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}
