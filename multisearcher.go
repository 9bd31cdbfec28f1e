package gokuromoji

import (
	"sort"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/emirpasic/gods/utils"

	"github.com/msnoigrs/gokuromoji/dictionary"
)

// A sidetrackEdge replaces the best predecessor of head by tail. cost is
// the extra cost over the best path; for a queued edge it includes the
// costs of its parents.
type sidetrackEdge struct {
	cost int
	tail int
	head int
	// next alternative at head or at a node on the best path before it
	next   *sidetrackEdge
	parent *sidetrackEdge
}

type edgeKey struct {
	parent *sidetrackEdge
	tail   int
	head   int
}

type scoredPath struct {
	nodes []int
	cost  int
}

// multiSearcher enumerates paths of a lattice in cost order. It relies on
// the path costs and best predecessors computed by a viterbiSearcher.
type multiSearcher struct {
	costs   *dictionary.ConnectionCosts
	viterbi *viterbiSearcher
}

func newMultiSearcher(viterbi *viterbiSearcher) *multiSearcher {
	return &multiSearcher{
		costs:   viterbi.costs,
		viterbi: viterbi,
	}
}

// searchMultiple returns up to maxCount paths costing at most the best
// cost plus costSlack, cheapest first. The best path is always included.
func (s *multiSearcher) searchMultiple(l *lattice, maxCount int, costSlack int) []scoredPath {
	s.viterbi.calculatePathCosts(l)
	eos := l.eos()
	if l.nodes[eos].pathCost == unreachable {
		return []scoredPath{{}}
	}

	sidetracks := s.buildSidetracks(l)
	baseCost := l.nodes[eos].pathCost
	edges := s.getPaths(sidetracks, eos, maxCount, costSlack)

	paths := make([]scoredPath, len(edges))
	for i, e := range edges {
		paths[i] = scoredPath{
			nodes: s.generatePath(l, eos, e),
			cost:  baseCost,
		}
		if e != nil {
			paths[i].cost += e.cost
		}
	}
	return paths
}

func (s *multiSearcher) buildSidetracks(l *lattice) []*sidetrackEdge {
	sidetracks := make([]*sidetrackEdge, len(l.nodes))
	for i := 1; i < l.dim(); i++ {
		for _, n := range l.nodesStartingAt(i) {
			s.buildSidetracksForNode(l, sidetracks, l.nodesEndingAt(i), n)
		}
	}
	return sidetracks
}

func (s *multiSearcher) buildSidetracksForNode(l *lattice, sidetracks []*sidetrackEdge, leftNodes []int, n int) {
	node := &l.nodes[n]
	if node.pathCost == unreachable {
		return
	}
	penalty := 0
	if s.viterbi.mode.penalized() {
		penalty = s.viterbi.penaltyCost(l, n)
	}

	var edges []*sidetrackEdge
	for _, m := range leftNodes {
		leftNode := &l.nodes[m]
		if m == node.leftNode || m == bosNode || leftNode.pathCost == unreachable {
			continue
		}
		cost := leftNode.pathCost - node.pathCost + node.wordCost + s.costs.Cost(leftNode.rightID, node.leftID) + penalty
		edges = append(edges, &sidetrackEdge{cost: cost, tail: m, head: n})
	}
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].cost < edges[j].cost
	})

	next := sidetracks[node.leftNode]
	for i := len(edges) - 1; i >= 0; i-- {
		edges[i].next = next
		next = edges[i]
	}
	sidetracks[n] = next
}

type queuedEdge struct {
	edge *sidetrackEdge
	seq  int
}

func queuedEdgeComparator(a, b interface{}) int {
	x, y := a.(queuedEdge), b.(queuedEdge)
	if c := utils.IntComparator(x.edge.cost, y.edge.cost); c != 0 {
		return c
	}
	return utils.IntComparator(x.seq, y.seq)
}

// getPaths returns nil for the best path followed by the last sidetrack of
// each further path, in cost order.
func (s *multiSearcher) getPaths(sidetracks []*sidetrackEdge, eos int, maxCount int, costSlack int) []*sidetrackEdge {
	result := []*sidetrackEdge{nil}
	heap := binaryheap.NewWith(queuedEdgeComparator)
	visited := map[edgeKey]struct{}{}
	seq := 0

	push := func(parent *sidetrackEdge, options *sidetrackEdge) {
		for o := options; o != nil; o = o.next {
			key := edgeKey{parent: parent, tail: o.tail, head: o.head}
			if _, ok := visited[key]; ok {
				continue
			}
			visited[key] = struct{}{}
			e := &sidetrackEdge{cost: o.cost, tail: o.tail, head: o.head, parent: parent}
			if parent != nil {
				e.cost += parent.cost
			}
			heap.Push(queuedEdge{edge: e, seq: seq})
			seq++
		}
	}

	push(nil, sidetracks[eos])
	for len(result) < maxCount {
		v, ok := heap.Pop()
		if !ok {
			break
		}
		e := v.(queuedEdge).edge
		if e.cost > costSlack {
			break
		}
		result = append(result, e)
		push(e, sidetracks[e.tail])
	}
	return result
}

// generatePath follows the best predecessors from EOS, taking the detours
// of the sidetrack chain e.
func (s *multiSearcher) generatePath(l *lattice, eos int, e *sidetrackEdge) []int {
	detours := map[int]int{}
	for ; e != nil; e = e.parent {
		detours[e.head] = e.tail
	}

	var path []int
	for n := eos; ; {
		prev, ok := detours[n]
		if !ok {
			prev = l.nodes[n].leftNode
		}
		if prev == noNode || prev == bosNode {
			break
		}
		path = append(path, prev)
		n = prev
	}
	reverse(path)
	if s.viterbi.mode == Extended {
		path = expandUnknownWords(l, s.viterbi.unknown, path)
	}
	return path
}
