package walk

import (
	"fmt"
	"math/rand/v2"

	"github.com/dd0wney/cluso-deepwalk/pkg/graph"
)

// Params bounds a truncated walk with restart.
type Params struct {
	// PathLength is the maximum number of nodes in a walk, start included.
	PathLength int
	// Alpha is the probability that a step jumps back to the start node.
	Alpha float64
}

// Validate checks PathLength >= 1 and 0 <= Alpha < 1
func (p Params) Validate() error {
	if p.PathLength < 1 {
		return fmt.Errorf("%w: path length %d < 1", ErrInvalidParams, p.PathLength)
	}
	if !(p.Alpha >= 0 && p.Alpha < 1) {
		return fmt.Errorf("%w: alpha %v not in [0,1)", ErrInvalidParams, p.Alpha)
	}
	return nil
}

// maxPathPrealloc bounds the capacity reserved for one walk; longer walks
// grow by append.
const maxPathPrealloc = 1024

// Walker generates random walks over a frozen graph.
type Walker struct {
	graph *graph.Graph
	cache *ChoiceCache
}

// NewWalker builds the choice cache for g. g must not change afterwards.
func NewWalker(g *graph.Graph) *Walker {
	return &Walker{graph: g, cache: NewChoiceCache(g)}
}

// Graph returns the graph walks are drawn from
func (w *Walker) Graph() *graph.Graph {
	return w.graph
}

// Walk returns one walk starting at start. Each step either moves to a
// weighted-random neighbor of the current node or, with probability
// p.Alpha, returns to start. The walk stops early at a node with no
// neighbors.
func (w *Walker) Walk(rng *rand.Rand, start uint64, p Params) []uint64 {
	path := make([]uint64, 1, min(max(p.PathLength, 1), maxPathPrealloc))
	path[0] = start

	for len(path) < p.PathLength {
		cur := path[len(path)-1]
		if w.graph.Degree(cur) == 0 {
			break
		}
		if rng.Float64() >= p.Alpha {
			next, _ := w.cache.Sample(w.graph, cur, rng)
			path = append(path, next)
		} else {
			path = append(path, start)
		}
	}
	return path
}

// WalkBatch returns one walk per start node, in the order of starts.
func (w *Walker) WalkBatch(rng *rand.Rand, starts []uint64, p Params) [][]uint64 {
	paths := make([][]uint64, 0, len(starts))
	for _, start := range starts {
		paths = append(paths, w.Walk(rng, start, p))
	}
	return paths
}
