package gokuromoji

import (
	"math"
)

// NodeType tells which dictionary a lattice node, and the token made from
// it, was taken from.
type NodeType int

const (
	Known NodeType = iota
	Unknown
	User
	// Inserted nodes close the gaps a user word leaves in the lattice.
	Inserted
)

func (t NodeType) String() string {
	switch t {
	case Known:
		return "KNOWN"
	case Unknown:
		return "UNKNOWN"
	case User:
		return "USER"
	case Inserted:
		return "INSERTED"
	}
	return "INVALID"
}

const (
	noNode      = -1
	bosNode     = 0
	unreachable = math.MaxInt
)

type latticeNode struct {
	wordID int
	kind   NodeType
	// start and length are rune offsets into the lattice text; start is -1
	// for BOS
	start    int
	length   int
	leftID   int
	rightID  int
	wordCost int

	// set by the search
	pathCost int
	leftNode int
}

func (n *latticeNode) isSentinel() bool {
	return n.kind == Known && n.wordID == -1
}

// lattice holds its nodes in one arena. A node of length L at rune offset p
// is registered under start index p+1 and end index p+1+L; BOS spans
// (0, 1) and EOS is registered under end index 0.
type lattice struct {
	text    []rune
	nodes   []latticeNode
	startAt [][]int
	endAt   [][]int
}

func newLattice(text []rune) *lattice {
	dim := len(text) + 2
	return &lattice{
		text:    text,
		nodes:   make([]latticeNode, 0, 2*dim),
		startAt: make([][]int, dim),
		endAt:   make([][]int, dim),
	}
}

func (l *lattice) dim() int {
	return len(l.startAt)
}

// newNode stores n in the arena without registering it under any index.
func (l *lattice) newNode(n latticeNode) int {
	n.leftNode = noNode
	l.nodes = append(l.nodes, n)
	return len(l.nodes) - 1
}

func (l *lattice) addNode(n latticeNode, start int, end int) int {
	i := l.newNode(n)
	l.startAt[start] = append(l.startAt[start], i)
	l.endAt[end] = append(l.endAt[end], i)
	return i
}

func (l *lattice) addBOS() {
	l.addNode(latticeNode{wordID: -1, kind: Known, start: -1}, 0, 1)
}

func (l *lattice) addEOS() {
	l.addNode(latticeNode{wordID: -1, kind: Known, start: len(l.text)}, l.dim()-1, 0)
}

func (l *lattice) eos() int {
	return l.endAt[0][0]
}

// nodesStartingAt returns the nodes registered under start index i.
func (l *lattice) nodesStartingAt(i int) []int {
	return l.startAt[i]
}

// nodesEndingAt returns the nodes registered under end index i.
func (l *lattice) nodesEndingAt(i int) []int {
	return l.endAt[i]
}

func (l *lattice) tokenEndsWhereCurrentTokenStarts(start int) bool {
	return len(l.endAt[start+1]) > 0
}

func (l *lattice) surface(i int) string {
	n := &l.nodes[i]
	if n.isSentinel() {
		return ""
	}
	return string(l.text[n.start : n.start+n.length])
}
