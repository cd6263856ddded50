package graph

import "fmt"

// Clique returns the complete graph on nodes 1..size
func Clique(size int) (*Graph, error) {
	if size < 1 {
		return nil, fmt.Errorf("clique of size %d: %w", size, ErrInvalidSize)
	}

	g := New()
	for v := uint64(1); v <= uint64(size); v++ {
		neighbors := make([]uint64, 0, size-1)
		for u := uint64(1); u <= uint64(size); u++ {
			if u != v {
				neighbors = append(neighbors, u)
			}
		}
		g.SetNeighbors(v, neighbors)
	}
	return g, nil
}

// Stats summarizes a graph for logs and the CLI
type Stats struct {
	Nodes      int
	Edges      int
	MinDegree  int
	MaxDegree  int
	MeanDegree float64
	Isolated   int
	SelfLoops  bool
	Weighted   bool
}

// Stats computes summary statistics in a single pass over the adjacency
func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:     g.Order(),
		Edges:     g.NumberOfEdges(),
		SelfLoops: g.CheckSelfLoops(),
		Weighted:  g.weighted,
	}
	if s.Nodes == 0 {
		return s
	}

	s.MinDegree = -1
	total := 0
	for _, a := range g.adj {
		d := len(a.Neighbors)
		total += d
		if d == 0 {
			s.Isolated++
		}
		if s.MinDegree < 0 || d < s.MinDegree {
			s.MinDegree = d
		}
		if d > s.MaxDegree {
			s.MaxDegree = d
		}
	}
	s.MeanDegree = float64(total) / float64(s.Nodes)
	return s
}
