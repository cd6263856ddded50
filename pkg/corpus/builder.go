// Package corpus turns a frozen graph into a corpus of truncated random
// walks, either all at once across workers (Build) or lazily (Iterator).
package corpus

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-deepwalk/pkg/logging"
	"github.com/dd0wney/cluso-deepwalk/pkg/walk"
)

// batch is what a worker hands back at the end of a pass
type batch struct {
	worker int
	walks  [][]uint64
}

// Build runs opts.NumPaths passes over every node of w's graph and returns
// the concatenated walks, exactly NumPaths × |V| of them.
//
// Each pass shuffles the node list, cuts it into opts.Workers contiguous
// partitions and walks every partition on its own goroutine with its own
// generator. The coordinator collects exactly one batch per worker and then
// waits for every worker to exit before the next pass starts. Batches are
// placed by worker index, so a fixed Seed and Workers reproduce the corpus.
//
// There is no per-worker timeout: a worker that never reports blocks Build.
// ctx is only consulted between passes.
func Build(ctx context.Context, w *walk.Walker, opts Options) ([][]uint64, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := logging.OrNop(opts.Logger).With(logging.Component("corpus"), logging.RunID(runID))

	nodes := w.Graph().Nodes()
	params := opts.Params()
	// Partitions past |V| would always be empty; with one node per
	// partition the clamp leaves every walk unchanged.
	workers := min(opts.Workers, max(len(nodes), 1))
	shuffler := walk.CoordinatorRand(opts.Seed)
	rngs := make([]*rand.Rand, workers)
	for i := range rngs {
		rngs[i] = walk.WorkerRand(opts.Seed, i)
	}

	log.Info("building corpus",
		logging.Nodes(len(nodes)),
		logging.Int("num_paths", opts.NumPaths),
		logging.Int("path_length", opts.PathLength),
		logging.Float64("alpha", opts.Alpha),
		logging.Int("workers", workers),
		logging.Uint64("seed", opts.Seed))
	timer := logging.StartTimer(log, "corpus built")

	corpus := make([][]uint64, 0, corpusPrealloc(opts.NumPaths, len(nodes)))
	for pass := 1; pass <= opts.NumPaths; pass++ {
		if err := ctx.Err(); err != nil {
			timer.EndError(err)
			return nil, err
		}

		start := time.Now()
		shuffler.Shuffle(len(nodes), func(i, j int) {
			nodes[i], nodes[j] = nodes[j], nodes[i]
		})

		walks := 0
		for _, b := range runPass(w, partition(nodes, workers), rngs, params) {
			corpus = append(corpus, b...)
			walks += len(b)
			if opts.Metrics != nil {
				opts.Metrics.RecordWalks(b, params.PathLength)
			}
		}

		elapsed := time.Since(start)
		log.Debug("pass complete", logging.Pass(pass), logging.Walks(walks), logging.Latency(elapsed))
		if opts.Metrics != nil {
			opts.Metrics.RecordPass(elapsed)
		}
		if opts.OnPass != nil {
			opts.OnPass(pass, opts.NumPaths)
		}
	}

	timer.End(logging.Walks(len(corpus)))
	return corpus, nil
}

// maxCorpusPrealloc bounds the number of walk slots reserved up front
const maxCorpusPrealloc = 1 << 22

func corpusPrealloc(passes, nodes int) int {
	if nodes == 0 || passes > maxCorpusPrealloc/nodes {
		return min(nodes, maxCorpusPrealloc)
	}
	return passes * nodes
}

// partition splits nodes into exactly workers contiguous slices of
// ceil(len/workers) nodes; trailing slices may be short or empty.
func partition(nodes []uint64, workers int) [][]uint64 {
	size := (len(nodes) + workers - 1) / workers
	parts := make([][]uint64, workers)
	for i := range parts {
		lo := min(i*size, len(nodes))
		hi := min(lo+size, len(nodes))
		parts[i] = nodes[lo:hi]
	}
	return parts
}

// runPass walks each partition on its own goroutine and returns the batches
// ordered by worker index. It returns only after every worker has exited.
func runPass(w *walk.Walker, parts [][]uint64, rngs []*rand.Rand, params walk.Params) [][][]uint64 {
	results := make(chan batch, len(parts))
	var wg sync.WaitGroup

	for i, part := range parts {
		wg.Add(1)
		go func(worker int, starts []uint64) {
			defer wg.Done()
			results <- batch{worker: worker, walks: w.WalkBatch(rngs[worker], starts, params)}
		}(i, part)
	}

	byWorker := make([][][]uint64, len(parts))
	for range parts {
		b := <-results
		byWorker[b.worker] = b.walks
	}
	wg.Wait()

	return byWorker
}
