package corpus

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-deepwalk/pkg/graph"
	"github.com/dd0wney/cluso-deepwalk/pkg/metrics"
	"github.com/dd0wney/cluso-deepwalk/pkg/walk"
)

// ringWithIsolated is a 10-node ring plus two nodes without neighbors.
func ringWithIsolated() *walk.Walker {
	g := graph.New()
	for v := uint64(0); v < 10; v++ {
		g.AddEdge(v, (v+1)%10)
	}
	g.AddNode(100)
	g.AddNode(101)
	return walk.NewWalker(g.MakeUndirected())
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.NumPaths = 3
	opts.PathLength = 8
	opts.Seed = 42
	return opts
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	opts := DefaultOptions()
	opts.NumPaths = 0
	assert.ErrorIs(t, opts.Validate(), ErrInvalidOptions)

	opts = DefaultOptions()
	opts.Workers = 0
	assert.ErrorIs(t, opts.Validate(), ErrInvalidOptions)

	opts = DefaultOptions()
	opts.Alpha = 1
	assert.ErrorIs(t, opts.Validate(), walk.ErrInvalidParams)
}

func TestPartition(t *testing.T) {
	nodes := []uint64{1, 2, 3, 4, 5, 6, 7}

	parts := partition(nodes, 3)
	assert.Equal(t, [][]uint64{{1, 2, 3}, {4, 5, 6}, {7}}, parts)

	parts = partition(nodes, 10)
	require.Len(t, parts, 10)
	for i, p := range parts {
		if i < 7 {
			assert.Len(t, p, 1)
		} else {
			assert.Empty(t, p)
		}
	}

	parts = partition(nil, 4)
	assert.Len(t, parts, 4)
}

func TestBuild_WalkCount(t *testing.T) {
	w := ringWithIsolated()
	n := w.Graph().Order()

	for _, workers := range []int{1, 2, 5, 12, 40} {
		opts := testOptions()
		opts.Workers = workers

		walks, err := Build(context.Background(), w, opts)
		require.NoError(t, err)
		assert.Len(t, walks, opts.NumPaths*n, "workers=%d", workers)

		starts := map[uint64]int{}
		for _, path := range walks {
			require.NotEmpty(t, path)
			assert.LessOrEqual(t, len(path), opts.PathLength)
			starts[path[0]]++
		}
		for _, v := range w.Graph().Nodes() {
			assert.Equal(t, opts.NumPaths, starts[v], "node %d", v)
		}
	}
}

func TestBuild_IsolatedNodesTerminateEarly(t *testing.T) {
	walks, err := Build(context.Background(), ringWithIsolated(), testOptions())
	require.NoError(t, err)

	for _, path := range walks {
		if path[0] >= 100 {
			assert.Equal(t, []uint64{path[0]}, path)
		} else {
			assert.Len(t, path, 8)
		}
	}
}

func TestBuild_SameSeedSameCorpus(t *testing.T) {
	w := ringWithIsolated()
	opts := testOptions()
	opts.Workers = 4

	a, err := Build(context.Background(), w, opts)
	require.NoError(t, err)
	b, err := Build(context.Background(), w, opts)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	opts.Seed++
	c, err := Build(context.Background(), w, opts)
	require.NoError(t, err)
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}

func TestBuild_WorkersBeyondNodeCount(t *testing.T) {
	w := ringWithIsolated()
	opts := testOptions()
	opts.Workers = len(w.Graph().Nodes())

	want, err := Build(context.Background(), w, opts)
	require.NoError(t, err)

	opts.Workers = 1_000_000
	got, err := Build(context.Background(), w, opts)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBuild_LongPathsOnIsolatedNodes(t *testing.T) {
	g := graph.New()
	g.AddNode(1)
	g.AddNode(2)
	opts := testOptions()
	opts.PathLength = 1 << 40

	walks, err := Build(context.Background(), walk.NewWalker(g), opts)
	require.NoError(t, err)
	require.Len(t, walks, 2*opts.NumPaths)
	for _, path := range walks {
		assert.Len(t, path, 1)
	}
}

func TestCorpusPrealloc(t *testing.T) {
	assert.Equal(t, 30, corpusPrealloc(3, 10))
	assert.Equal(t, 0, corpusPrealloc(5, 0))
	assert.Equal(t, 10, corpusPrealloc(1<<62, 10))
	assert.LessOrEqual(t, corpusPrealloc(1<<20, 1<<20), maxCorpusPrealloc)
}

func TestBuild_ReportsProgressAndMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	opts := testOptions()
	opts.Workers = 3
	opts.Metrics = reg

	var (
		mu    sync.Mutex
		calls [][2]int
	)
	opts.OnPass = func(done, total int) {
		mu.Lock()
		calls = append(calls, [2]int{done, total})
		mu.Unlock()
	}

	walks, err := Build(context.Background(), ringWithIsolated(), opts)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
	assert.Len(t, walks, 36)
}

func TestBuild_CancelledBetweenPasses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	opts := testOptions()
	opts.OnPass = func(done, _ int) {
		if done == 1 {
			cancel()
		}
	}

	_, err := Build(ctx, ringWithIsolated(), opts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_InvalidOptions(t *testing.T) {
	opts := testOptions()
	opts.PathLength = 0
	_, err := Build(context.Background(), ringWithIsolated(), opts)
	assert.ErrorIs(t, err, walk.ErrInvalidParams)
}

func TestBuild_EmptyGraph(t *testing.T) {
	walks, err := Build(context.Background(), walk.NewWalker(graph.New()), testOptions())
	require.NoError(t, err)
	assert.Empty(t, walks)
}

func TestIterator_YieldsEveryWalkOnce(t *testing.T) {
	w := ringWithIsolated()
	it, err := NewIterator(w, testOptions())
	require.NoError(t, err)

	total := it.Remaining()
	assert.Equal(t, 36, total)

	count := 0
	for path := range it.All() {
		count++
		assert.LessOrEqual(t, len(path), 8)
		assert.Equal(t, total-count, it.Remaining())
	}
	assert.Equal(t, 36, count)
	assert.Equal(t, 3, it.Pass())

	_, ok := it.Next()
	assert.False(t, ok)
	_, ok = it.Next()
	assert.False(t, ok, "exhausted iterator stays exhausted")
	assert.Zero(t, it.Remaining())
}

func TestIterator_MatchesSingleWorkerBuild(t *testing.T) {
	w := ringWithIsolated()
	opts := testOptions()

	built, err := Build(context.Background(), w, opts)
	require.NoError(t, err)

	it, err := NewIterator(w, opts)
	require.NoError(t, err)
	streamed := slices.Collect(it.All())

	assert.Equal(t, built, streamed)
}

func TestIterator_StopsEarlyAndResumes(t *testing.T) {
	it, err := NewIterator(ringWithIsolated(), testOptions())
	require.NoError(t, err)

	taken := 0
	for range it.All() {
		taken++
		if taken == 5 {
			break
		}
	}
	assert.Equal(t, 31, it.Remaining())
	assert.Len(t, slices.Collect(it.All()), 31)
}

func TestIterator_EmptyGraph(t *testing.T) {
	it, err := NewIterator(walk.NewWalker(graph.New()), testOptions())
	require.NoError(t, err)
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestVocabulary(t *testing.T) {
	walks := [][]uint64{{1, 2, 1}, {3}, {2, 1}}
	assert.Equal(t, map[uint64]int{1: 3, 2: 2, 3: 1}, CountVocabulary(walks))

	w := ringWithIsolated()
	deg := DegreeVocabulary(w.Graph())
	assert.Equal(t, 2, deg[0])
	assert.Equal(t, 0, deg[100])
	assert.Len(t, deg, 12)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([][]uint64{{1, 2}, {3}})
	assert.Len(t, a, 64)
	assert.Equal(t, a, Fingerprint([][]uint64{{1, 2}, {3}}))
	assert.NotEqual(t, a, Fingerprint([][]uint64{{1}, {2, 3}}))
	assert.NotEqual(t, a, Fingerprint([][]uint64{{3}, {1, 2}}))
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := NewWriter(&buf)

	for _, w := range [][]uint64{{1, 2, 3}, {42}, nil} {
		require.NoError(t, cw.WriteWalk(w))
	}
	assert.Empty(t, buf.String(), "output is buffered until Flush")
	require.NoError(t, cw.Flush())

	assert.Equal(t, "1 2 3\n42\n\n", buf.String())
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}
