package loader

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dd0wney/cluso-deepwalk/pkg/graph"
	"github.com/dd0wney/cluso-deepwalk/pkg/logging"
	"github.com/dd0wney/cluso-deepwalk/pkg/metrics"
	"github.com/dd0wney/cluso-deepwalk/pkg/parallel"
	"github.com/dd0wney/cluso-deepwalk/pkg/source"
)

// Format names an input layout.
type Format string

const (
	FormatEdgeList         Format = "edgelist"
	FormatWeightedEdgeList Format = "weighted-edgelist"
	FormatAdjList          Format = "adjlist"
	FormatMatrixMarket     Format = "mtx"
)

// Formats lists every supported text format
func Formats() []Format {
	return []Format{FormatEdgeList, FormatWeightedEdgeList, FormatAdjList, FormatMatrixMarket}
}

// ParseFormat maps a configuration string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "edgelist", "edges":
		return FormatEdgeList, nil
	case "weighted-edgelist", "weighted_edgelist", "weighted":
		return FormatWeightedEdgeList, nil
	case "adjlist", "adjacency":
		return FormatAdjList, nil
	case "mtx", "matrixmarket", "mat":
		return FormatMatrixMarket, nil
	}
	return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnknownFormat, s, Formats())
}

// FormatFromPath guesses the format from a file extension, ignoring a
// trailing snappy suffix.
func FormatFromPath(path string) (Format, error) {
	path = strings.TrimSuffix(path, source.SnappySuffix)
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return ParseFormat(ext)
}

// Options controls how a graph is built from its input.
type Options struct {
	// Undirected adds reverse edges after loading.
	Undirected bool
	// Unchecked takes adjacency rows verbatim, without deduplication or
	// validation. Malformed tokens are dropped silently.
	Unchecked bool
	// ChunkSize is the number of lines parsed per adjacency-list task.
	ChunkSize int
	// Workers bounds the adjacency-list parse pool; 0 means GOMAXPROCS.
	Workers int

	Logger  logging.Logger
	Metrics *metrics.Registry
	Source  source.Options
}

// DefaultChunkSize is the adjacency-list chunk size used when none is set
const DefaultChunkSize = 10000

// DefaultOptions returns undirected, checked loading with default chunking
func DefaultOptions() Options {
	return Options{
		Undirected: true,
		ChunkSize:  DefaultChunkSize,
		Workers:    parallel.DefaultWorkers(),
	}
}

func (o Options) logger() logging.Logger {
	return logging.OrNop(o.Logger)
}

// Reader builds a graph from one input format.
type Reader interface {
	Format() Format
	Read(ctx context.Context, r io.Reader) (*graph.Graph, error)
}

// NewReader returns the reader for format f
func NewReader(f Format, opts Options) (Reader, error) {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	switch f {
	case FormatEdgeList:
		return &edgeListReader{opts: opts}, nil
	case FormatWeightedEdgeList:
		return &weightedEdgeListReader{opts: opts}, nil
	case FormatAdjList:
		return &adjListReader{opts: opts}, nil
	case FormatMatrixMarket:
		return &matrixMarketReader{opts: opts}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// LoadFile opens location through the source package and reads it with the
// reader for format f.
func LoadFile(ctx context.Context, location string, f Format, opts Options) (*graph.Graph, error) {
	reader, err := NewReader(f, opts)
	if err != nil {
		return nil, err
	}

	rc, err := source.Open(ctx, location, opts.Source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	log := opts.logger().With(logging.Component("loader"), logging.Format(string(f)), logging.Path(location))
	timer := logging.StartTimer(log, "graph loaded")

	g, err := reader.Read(ctx, rc)
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("failed to load %s: %w", location, err)
	}

	elapsed := timer.End(logging.Nodes(g.Order()), logging.Edges(g.NumberOfEdges()))
	if opts.Metrics != nil {
		opts.Metrics.RecordLoad(string(f), elapsed)
		opts.Metrics.RecordGraph(g.Order(), g.NumberOfEdges())
	}
	return g, nil
}

func newGraph(weighted bool, opts Options) *graph.Graph {
	var g *graph.Graph
	if weighted {
		g = graph.NewWeighted()
	} else {
		g = graph.New()
	}
	g.SetLogger(opts.Logger)
	return g
}

func recordLines(opts Options, f Format, n int) {
	if opts.Metrics != nil {
		opts.Metrics.RecordLinesParsed(string(f), n)
	}
}
