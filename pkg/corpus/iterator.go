package corpus

import (
	"iter"
	"math/rand/v2"

	"github.com/dd0wney/cluso-deepwalk/pkg/walk"
)

// Iterator produces the corpus one walk at a time on the calling goroutine.
// It reshuffles the nodes at the start of every pass and stops after
// NumPaths passes. An exhausted Iterator stays exhausted.
//
// With the same Seed, an Iterator yields the walks Build produces with a
// single worker, in the same order.
type Iterator struct {
	walker   *walk.Walker
	params   walk.Params
	numPaths int

	shuffler *rand.Rand
	rng      *rand.Rand

	nodes []uint64
	pass  int
	pos   int
	done  bool
}

// NewIterator validates opts and returns an iterator positioned before the
// first pass. opts.Workers is ignored.
func NewIterator(w *walk.Walker, opts Options) (*Iterator, error) {
	opts.Workers = 1
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	nodes := w.Graph().Nodes()
	return &Iterator{
		walker:   w,
		params:   opts.Params(),
		numPaths: opts.NumPaths,
		shuffler: walk.CoordinatorRand(opts.Seed),
		rng:      walk.WorkerRand(opts.Seed, 0),
		nodes:    nodes,
		pos:      len(nodes),
	}, nil
}

// Next returns the next walk, or false once all NumPaths × |V| walks have
// been produced.
func (it *Iterator) Next() ([]uint64, bool) {
	if it.done {
		return nil, false
	}
	if it.pos >= len(it.nodes) {
		if it.pass >= it.numPaths || len(it.nodes) == 0 {
			it.done = true
			return nil, false
		}
		it.shuffler.Shuffle(len(it.nodes), func(i, j int) {
			it.nodes[i], it.nodes[j] = it.nodes[j], it.nodes[i]
		})
		it.pass++
		it.pos = 0
	}

	start := it.nodes[it.pos]
	it.pos++
	return it.walker.Walk(it.rng, start, it.params), true
}

// Pass returns the 1-based number of the pass in progress, 0 before the
// first call to Next.
func (it *Iterator) Pass() int {
	return it.pass
}

// Remaining returns how many walks Next will still produce
func (it *Iterator) Remaining() int {
	if it.done {
		return 0
	}
	return (it.numPaths-it.pass)*len(it.nodes) + len(it.nodes) - it.pos
}

// All returns a sequence over the walks not yet consumed
func (it *Iterator) All() iter.Seq[[]uint64] {
	return func(yield func([]uint64) bool) {
		for {
			path, ok := it.Next()
			if !ok || !yield(path) {
				return
			}
		}
	}
}
