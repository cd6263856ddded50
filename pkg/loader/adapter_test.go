package loader

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	data [][2]int64
	pos  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	*(dest[0].(*int64)) = row[0]
	*(dest[1].(*int64)) = row[1]
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	row := r.data[r.pos-1]
	return []any{row[0], row[1]}, nil
}

type fakeQuerier struct {
	rows  [][2]int64
	query string
	err   error
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.query = sql
	if q.err != nil {
		return nil, q.err
	}
	return &fakeRows{data: q.rows}, nil
}

func TestFromPostgres(t *testing.T) {
	q := &fakeQuerier{rows: [][2]int64{{1, 2}, {2, 3}, {2, 3}}}

	g, err := FromPostgres(context.Background(), q, "", Options{Undirected: true})
	require.NoError(t, err)
	assert.Equal(t, DefaultEdgeQuery, q.query)
	assert.Equal(t, map[uint64][]uint64{1: {2}, 2: {1, 3}, 3: {2}}, adjacency(g))
}

func TestFromPostgres_Errors(t *testing.T) {
	_, err := FromPostgres(context.Background(), &fakeQuerier{rows: [][2]int64{{1, -2}}}, "", Options{})
	assert.ErrorIs(t, err, ErrMalformedToken)

	boom := errors.New("relation does not exist")
	_, err = FromPostgres(context.Background(), &fakeQuerier{err: boom}, "SELECT a, b FROM nope", Options{})
	assert.ErrorIs(t, err, boom)
}

// TestFromPostgres_Live runs against a real database when DEEPWALK_TEST_PG_DSN is set.
func TestFromPostgres_Live(t *testing.T) {
	dsn := os.Getenv("DEEPWALK_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("DEEPWALK_TEST_PG_DSN not set")
	}

	ctx := context.Background()
	pool, err := ConnectPostgres(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	g, err := FromPostgres(ctx, pool, "SELECT * FROM (VALUES (1::bigint, 2::bigint), (2, 3)) AS e(src, dst)", Options{Undirected: true})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Order())
}
