package corpus

import "github.com/dd0wney/cluso-deepwalk/pkg/graph"

// CountVocabulary returns how often each node occurs across walks
func CountVocabulary(walks [][]uint64) map[uint64]int {
	counts := make(map[uint64]int)
	for _, w := range walks {
		for _, v := range w {
			counts[v]++
		}
	}
	return counts
}

// DegreeVocabulary uses node degree as the frequency estimate, which avoids
// a pass over the corpus for large graphs.
func DegreeVocabulary(g *graph.Graph) map[uint64]int {
	return g.Degrees(g.Nodes())
}
