package loader

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-deepwalk/pkg/graph"
)

// Source is an existing in-memory graph the adapter can copy from.
type Source interface {
	Nodes() []uint64
	NeighborKeys(v uint64) []uint64
}

// MapSource adapts a plain adjacency map to Source
type MapSource map[uint64][]uint64

func (m MapSource) Nodes() []uint64 {
	nodes := make([]uint64, 0, len(m))
	for v := range m {
		nodes = append(nodes, v)
	}
	slices.Sort(nodes)
	return nodes
}

func (m MapSource) NeighborKeys(v uint64) []uint64 {
	return m[v]
}

// FromSource copies src into a new graph, registering every node even when
// it has no neighbors, and symmetrizes it when undirected is set.
func FromSource(src Source, undirected bool) *graph.Graph {
	g := graph.New()
	for _, v := range src.Nodes() {
		g.AddNode(v)
		for _, n := range src.NeighborKeys(v) {
			g.AddEdge(v, n)
		}
	}
	if undirected {
		g.MakeUndirected()
	}
	return g
}

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DefaultEdgeQuery reads a two-column edge table
const DefaultEdgeQuery = "SELECT src, dst FROM edges"

// ConnectPostgres opens a small pool for bulk edge reads.
func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return pool, nil
}

// FromPostgres builds a graph from a query returning (src, dst) bigint
// pairs. Negative IDs are rejected as malformed. The result is normalized
// like an edge list.
func FromPostgres(ctx context.Context, q Querier, query string, opts Options) (*graph.Graph, error) {
	if query == "" {
		query = DefaultEdgeQuery
	}
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("edge query failed: %w", err)
	}

	g := newGraph(false, opts)
	var src, dst int64
	rowNo := 0
	_, err = pgx.ForEachRow(rows, []any{&src, &dst}, func() error {
		rowNo++
		if src < 0 || dst < 0 {
			return &ParseError{Format: "postgres", Line: rowNo, Token: fmt.Sprintf("%d %d", src, dst), Err: fmt.Errorf("negative node id")}
		}
		g.AddEdge(uint64(src), uint64(dst))
		if opts.Undirected {
			g.AddEdge(uint64(dst), uint64(src))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}
	recordLines(opts, "postgres", rowNo)

	return g.MakeConsistent(), nil
}
