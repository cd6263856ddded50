package walk

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/dd0wney/cluso-deepwalk/pkg/graph"
)

// ChoiceCache holds, for every node, the running total of neighbor weights in
// neighbor order. Sampling a neighbor is a binary search over that array.
// The cache is immutable once built and safe for concurrent use.
type ChoiceCache struct {
	cumulative map[uint64][]float64
}

// NewChoiceCache builds the cache in O(E). For unweighted graphs the array
// of a node with degree d is 1, 2, ..., d. A node whose weights sum past the
// float64 range is cached with its weights divided by their maximum, which
// keeps the sampling proportions.
func NewChoiceCache(g *graph.Graph) *ChoiceCache {
	c := &ChoiceCache{cumulative: make(map[uint64][]float64, g.Order())}
	g.ForEach(func(v uint64, a graph.Adjacency) bool {
		running := cumulate(a, 1)
		if n := len(running); n > 0 && math.IsInf(running[n-1], 0) {
			running = cumulate(a, slices.Max(a.Weights))
		}
		c.cumulative[v] = running
		return true
	})
	return c
}

func cumulate(a graph.Adjacency, divisor float64) []float64 {
	running := make([]float64, a.Len())
	upto := 0.0
	for i := range a.Neighbors {
		upto += a.Weight(i) / divisor
		running[i] = upto
	}
	return running
}

// Cumulative returns a copy of v's cumulative weights
func (c *ChoiceCache) Cumulative(v uint64) []float64 {
	return slices.Clone(c.cumulative[v])
}

// Total returns the summed neighbor weight of v
func (c *ChoiceCache) Total(v uint64) float64 {
	cum := c.cumulative[v]
	if len(cum) == 0 {
		return 0
	}
	return cum[len(cum)-1]
}

// Pick returns the index of the first cumulative entry >= r.
// It panics if no entry qualifies: with r drawn from [0, total) that can
// only happen when the cache and the graph disagree.
func (c *ChoiceCache) Pick(v uint64, r float64) int {
	cum := c.cumulative[v]
	i := sort.SearchFloat64s(cum, r)
	if i >= len(cum) {
		panic(fmt.Sprintf("walk: draw %v exceeds cumulative weight of node %d", r, v))
	}
	return i
}

// Sample draws a neighbor of v with probability proportional to its weight.
// ok is false when v has no neighbors.
func (c *ChoiceCache) Sample(g *graph.Graph, v uint64, rng *rand.Rand) (next uint64, ok bool) {
	total := c.Total(v)
	if total <= 0 {
		return 0, false
	}
	a := g.Neighbors(v)
	return a.Neighbors[c.Pick(v, rng.Float64()*total)], true
}
