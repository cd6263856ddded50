package graph

import (
	"cmp"
	"slices"

	"github.com/dd0wney/cluso-deepwalk/pkg/logging"
)

// MakeUndirected adds the reverse of every edge and then calls MakeConsistent.
// Reverse edges are appended without checking for existing ones; the
// duplicates this creates are removed by the consistency pass.
func (g *Graph) MakeUndirected() *Graph {
	timer := logging.StartTimer(g.logger, "added missing edges", logging.Operation("make_undirected"))

	for _, v := range g.Nodes() {
		a := g.adj[v]
		n := len(a.Neighbors)
		for i := 0; i < n; i++ {
			other := a.Neighbors[i]
			if other == v {
				continue
			}
			oa := g.ensure(other)
			oa.Neighbors = append(oa.Neighbors, v)
			if oa.Weights != nil {
				oa.Weights = append(oa.Weights, a.Weight(i))
			}
		}
	}
	g.weightIndex = nil

	timer.End(logging.Nodes(len(g.adj)))
	return g.MakeConsistent()
}

// MakeConsistent sorts and deduplicates every neighbor list, then removes
// self-loops. When a weighted node lists a neighbor twice, the weight of the
// first entry wins. Applying it more than once has no further effect.
func (g *Graph) MakeConsistent() *Graph {
	timer := logging.StartTimer(g.logger, "made consistent", logging.Operation("make_consistent"))

	for _, a := range g.adj {
		if a.Weights == nil {
			slices.Sort(a.Neighbors)
			a.Neighbors = slices.Compact(a.Neighbors)
			continue
		}
		dedupeWeighted(a)
	}
	g.weightIndex = nil

	timer.End(logging.Nodes(len(g.adj)))
	g.RemoveSelfLoops()
	return g
}

func dedupeWeighted(a *Adjacency) {
	type entry struct {
		n uint64
		w float64
	}
	entries := make([]entry, len(a.Neighbors))
	for i, n := range a.Neighbors {
		entries[i] = entry{n, a.Weights[i]}
	}
	slices.SortStableFunc(entries, func(x, y entry) int {
		return cmp.Compare(x.n, y.n)
	})
	entries = slices.CompactFunc(entries, func(x, y entry) bool {
		return x.n == y.n
	})

	a.Neighbors = a.Neighbors[:len(entries)]
	a.Weights = a.Weights[:len(entries)]
	for i, e := range entries {
		a.Neighbors[i] = e.n
		a.Weights[i] = e.w
	}
}

// RemoveSelfLoops strips every occurrence of a node from its own neighbor
// list and returns the number of entries removed.
func (g *Graph) RemoveSelfLoops() int {
	timer := logging.StartTimer(g.logger, "removed self loops", logging.Operation("remove_self_loops"))

	removed := 0
	for v, a := range g.adj {
		keep := 0
		for i, n := range a.Neighbors {
			if n == v {
				removed++
				continue
			}
			a.Neighbors[keep] = n
			if a.Weights != nil {
				a.Weights[keep] = a.Weights[i]
			}
			keep++
		}
		a.Neighbors = a.Neighbors[:keep]
		if a.Weights != nil {
			a.Weights = a.Weights[:keep]
		}
	}
	if removed > 0 {
		g.weightIndex = nil
	}

	timer.End(logging.Count(removed))
	return removed
}

// CheckSelfLoops reports whether any node lists itself
func (g *Graph) CheckSelfLoops() bool {
	for v, a := range g.adj {
		if a.Contains(v) {
			return true
		}
	}
	return false
}
