// Package graph holds the adjacency store that random walks are sampled from.
//
// A Graph is built by a loader, normalized once (MakeUndirected, MakeConsistent)
// and is read-only afterwards. It has no internal locking: concurrent readers
// are safe only once mutation has stopped.
package graph

import (
	"maps"
	"math"
	"slices"

	"github.com/dd0wney/cluso-deepwalk/pkg/logging"
)

// Adjacency is the neighbor record of a single node.
// Weights is nil for unweighted graphs, where every neighbor weighs 1;
// otherwise it is aligned index-for-index with Neighbors.
type Adjacency struct {
	Neighbors []uint64
	Weights   []float64
}

// Len returns the number of neighbor entries (duplicates included)
func (a Adjacency) Len() int {
	return len(a.Neighbors)
}

// Weight returns the weight of the i-th neighbor entry
func (a Adjacency) Weight(i int) float64 {
	if a.Weights == nil {
		return 1
	}
	return a.Weights[i]
}

// Contains reports whether v appears in the neighbor list
func (a Adjacency) Contains(v uint64) bool {
	return slices.Contains(a.Neighbors, v)
}

// Graph maps node IDs to their adjacency records.
type Graph struct {
	adj      map[uint64]*Adjacency
	weighted bool
	logger   logging.Logger

	// weightIndex maps u -> v -> position of v in adj[u]; built lazily by
	// SetWeight and dropped by anything that reorders neighbor lists.
	weightIndex map[uint64]map[uint64]int
}

// New creates an empty unweighted graph
func New() *Graph {
	return &Graph{
		adj:    make(map[uint64]*Adjacency),
		logger: logging.NewNopLogger(),
	}
}

// NewWeighted creates an empty weighted graph
func NewWeighted() *Graph {
	g := New()
	g.weighted = true
	return g
}

// SetLogger sets the logger used for normalization timings
func (g *Graph) SetLogger(l logging.Logger) {
	g.logger = logging.OrNop(l)
}

// Logger returns the graph's logger
func (g *Graph) Logger() logging.Logger {
	return g.logger
}

// Weighted reports whether neighbor weights are meaningful
func (g *Graph) Weighted() bool {
	return g.weighted
}

// Nodes returns all node IDs in ascending order
func (g *Graph) Nodes() []uint64 {
	return slices.Sorted(maps.Keys(g.adj))
}

// HasNode reports whether v has an adjacency record
func (g *Graph) HasNode(v uint64) bool {
	_, ok := g.adj[v]
	return ok
}

// Neighbors returns v's adjacency record. Unknown nodes yield an empty record.
// The returned slices are owned by the graph and must not be modified.
func (g *Graph) Neighbors(v uint64) Adjacency {
	a, ok := g.adj[v]
	if !ok {
		return Adjacency{}
	}
	return *a
}

// Degree returns the number of neighbor entries of v (0 for unknown nodes)
func (g *Graph) Degree(v uint64) int {
	if a, ok := g.adj[v]; ok {
		return len(a.Neighbors)
	}
	return 0
}

// Degrees returns the degree of every node in vs
func (g *Graph) Degrees(vs []uint64) map[uint64]int {
	out := make(map[uint64]int, len(vs))
	for _, v := range vs {
		out[v] = g.Degree(v)
	}
	return out
}

// HasEdge reports whether u lists v or v lists u.
// It tolerates asymmetric graphs that have not been normalized yet.
func (g *Graph) HasEdge(u, v uint64) bool {
	return g.Neighbors(u).Contains(v) || g.Neighbors(v).Contains(u)
}

// Order returns the number of nodes
func (g *Graph) Order() int {
	return len(g.adj)
}

// NumberOfEdges returns half the sum of all degrees, which is the edge count
// of a normalized undirected graph.
func (g *Graph) NumberOfEdges() int {
	total := 0
	for _, a := range g.adj {
		total += len(a.Neighbors)
	}
	return total / 2
}

// ForEach calls fn for every node in ascending order until fn returns false
func (g *Graph) ForEach(fn func(v uint64, a Adjacency) bool) {
	for _, v := range g.Nodes() {
		if !fn(v, *g.adj[v]) {
			return
		}
	}
}

// Subgraph returns a new graph restricted to nodes, keeping only edges whose
// endpoints are both in the set. Nodes absent from g are ignored.
func (g *Graph) Subgraph(nodes []uint64) *Graph {
	keep := make(map[uint64]struct{}, len(nodes))
	for _, n := range nodes {
		keep[n] = struct{}{}
	}

	sub := New()
	sub.weighted = g.weighted
	sub.logger = g.logger

	for n := range keep {
		a, ok := g.adj[n]
		if !ok {
			continue
		}
		na := &Adjacency{Neighbors: make([]uint64, 0, len(a.Neighbors))}
		if a.Weights != nil {
			na.Weights = make([]float64, 0, len(a.Weights))
		}
		for i, x := range a.Neighbors {
			if _, in := keep[x]; !in {
				continue
			}
			na.Neighbors = append(na.Neighbors, x)
			if a.Weights != nil {
				na.Weights = append(na.Weights, a.Weights[i])
			}
		}
		sub.adj[n] = na
	}
	return sub
}

// AddNode registers v with an empty adjacency if it is not present yet
func (g *Graph) AddNode(v uint64) {
	g.ensure(v)
}

// AddEdge appends v to u's neighbor list. Only u is registered as a node;
// call it again with the endpoints swapped for an undirected edge.
// On a weighted graph the entry gets weight 1.
func (g *Graph) AddEdge(u, v uint64) {
	a := g.ensure(u)
	a.Neighbors = append(a.Neighbors, v)
	if a.Weights != nil || g.weighted {
		a.Weights = append(a.Weights, 1)
	}
	g.weightIndex = nil
}

// SetWeight sets the weight of edge u->v, inserting v at the end of u's
// neighbor list when the edge is new.
func (g *Graph) SetWeight(u, v uint64, w float64) error {
	if !g.weighted {
		return ErrUnweightedGraph
	}
	if !(w > 0) {
		return ErrNonPositiveWeight
	}
	if math.IsInf(w, 1) {
		return ErrInfiniteWeight
	}

	if g.weightIndex == nil {
		g.weightIndex = make(map[uint64]map[uint64]int)
	}
	idx, ok := g.weightIndex[u]
	if !ok {
		idx = make(map[uint64]int)
		if a, exists := g.adj[u]; exists {
			for i, x := range a.Neighbors {
				if _, seen := idx[x]; !seen {
					idx[x] = i
				}
			}
		}
		g.weightIndex[u] = idx
	}

	a := g.ensure(u)
	if i, exists := idx[v]; exists {
		a.Weights[i] = w
		return nil
	}
	idx[v] = len(a.Neighbors)
	a.Neighbors = append(a.Neighbors, v)
	a.Weights = append(a.Weights, w)
	return nil
}

// SetNeighbors replaces v's neighbor list verbatim, duplicates and self-loops
// included. The slice is owned by the graph afterwards.
func (g *Graph) SetNeighbors(v uint64, neighbors []uint64) {
	a := g.ensure(v)
	a.Neighbors = neighbors
	a.Weights = nil
	if g.weighted {
		a.Weights = make([]float64, len(neighbors))
		for i := range a.Weights {
			a.Weights[i] = 1
		}
	}
	g.weightIndex = nil
}

func (g *Graph) ensure(v uint64) *Adjacency {
	a, ok := g.adj[v]
	if !ok {
		a = &Adjacency{}
		if g.weighted {
			a.Weights = []float64{}
		}
		g.adj[v] = a
	}
	return a
}
