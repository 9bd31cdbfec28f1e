package gokuromoji

import (
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/emirpasic/gods/utils"
)

// multiSearchResult holds alternative tokenizations of one text, cheapest
// first.
type multiSearchResult struct {
	paths [][]*Token
	costs []int
}

func (r *multiSearchResult) add(path []*Token, cost int) {
	r.paths = append(r.paths, path)
	r.costs = append(r.costs, cost)
}

func (r *multiSearchResult) len() int {
	return len(r.costs)
}

// multiSearchMerger combines the results of consecutive chunks into
// results for the whole text, keeping at most maxCount combinations whose
// cost is within costSlack of the cheapest one.
type multiSearchMerger struct {
	maxCount  int
	costSlack int

	// cheapest cost of the chunks from i to the end
	suffixCostLowerBounds []int
	baseCost              int
}

func newMultiSearchMerger(maxCount int, costSlack int) *multiSearchMerger {
	return &multiSearchMerger{
		maxCount:  maxCount,
		costSlack: costSlack,
	}
}

type mergeBuilder struct {
	cost    int
	indices []int
}

func (b mergeBuilder) add(results []*multiSearchResult, index int) mergeBuilder {
	indices := make([]int, len(b.indices), len(b.indices)+1)
	copy(indices, b.indices)
	return mergeBuilder{
		cost:    b.cost + results[len(b.indices)].costs[index],
		indices: append(indices, index),
	}
}

func (b mergeBuilder) build(results []*multiSearchResult) []*Token {
	var tokens []*Token
	for i, index := range b.indices {
		tokens = append(tokens, results[i].paths[index]...)
	}
	return tokens
}

func (m *multiSearchMerger) merge(results []*multiSearchResult) *multiSearchResult {
	merged := &multiSearchResult{}
	if len(results) == 0 {
		return merged
	}
	for _, r := range results {
		if r.len() == 0 {
			return merged
		}
	}

	m.suffixCostLowerBounds = make([]int, len(results))
	last := len(results) - 1
	m.suffixCostLowerBounds[last] = results[last].costs[0]
	for i := last - 1; i >= 0; i-- {
		m.suffixCostLowerBounds[i] = results[i].costs[0] + m.suffixCostLowerBounds[i+1]
	}
	m.baseCost = m.suffixCostLowerBounds[0]

	var builders []mergeBuilder
	for i := 0; i < results[0].len() && i < m.maxCount; i++ {
		if m.costLowerBound(results[0].costs[i], 0)-m.baseCost > m.costSlack {
			break
		}
		builders = append(builders, mergeBuilder{}.add(results, i))
	}

	for i := 1; i < len(results); i++ {
		builders = m.mergeStep(builders, results, i)
	}

	for _, b := range builders {
		merged.add(b.build(results), b.cost)
	}
	return merged
}

type mergePair struct {
	left  int
	right int
	cost  int
	seq   int
}

func mergePairComparator(a, b interface{}) int {
	x, y := a.(mergePair), b.(mergePair)
	if c := utils.IntComparator(x.cost, y.cost); c != 0 {
		return c
	}
	return utils.IntComparator(x.seq, y.seq)
}

// mergeStep extends the builders with the results of chunk current,
// cheapest combinations first.
func (m *multiSearchMerger) mergeStep(builders []mergeBuilder, results []*multiSearchResult, current int) []mergeBuilder {
	next := results[current]
	var merged []mergeBuilder
	if len(builders) == 0 || next.len() == 0 {
		return merged
	}

	heap := binaryheap.NewWith(mergePairComparator)
	visited := map[[2]int]struct{}{}
	seq := 0
	push := func(i int, j int) {
		if _, ok := visited[[2]int{i, j}]; ok {
			return
		}
		visited[[2]int{i, j}] = struct{}{}
		heap.Push(mergePair{left: i, right: j, cost: builders[i].cost + next.costs[j], seq: seq})
		seq++
	}

	push(0, 0)
	for len(merged) < m.maxCount {
		v, ok := heap.Pop()
		if !ok {
			break
		}
		top := v.(mergePair)
		if m.costLowerBound(top.cost, current)-m.baseCost > m.costSlack {
			break
		}
		merged = append(merged, builders[top.left].add(results, top.right))

		if top.left+1 < len(builders) {
			push(top.left+1, top.right)
		}
		if top.right+1 < next.len() {
			push(top.left, top.right+1)
		}
	}
	return merged
}

func (m *multiSearchMerger) costLowerBound(cost int, index int) int {
	if index+1 < len(m.suffixCostLowerBounds) {
		return cost + m.suffixCostLowerBounds[index+1]
	}
	return cost
}
