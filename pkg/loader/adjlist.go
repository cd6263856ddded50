package loader

import (
	"context"
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-deepwalk/pkg/graph"
	"github.com/dd0wney/cluso-deepwalk/pkg/logging"
	"github.com/dd0wney/cluso-deepwalk/pkg/parallel"
)

// adjListReader reads "node n1 n2 ..." rows. Lines are grouped into chunks
// of ChunkSize and parsed on a bounded pool; rows are applied in file order.
type adjListReader struct {
	opts Options
}

// maxChunkPrealloc bounds the line capacity reserved per chunk
const maxChunkPrealloc = 4096

type lineChunk struct {
	firstLine int
	lines     []string
}

func (r *adjListReader) Format() Format { return FormatAdjList }

func (r *adjListReader) Read(ctx context.Context, in io.Reader) (*graph.Graph, error) {
	log := r.opts.logger().With(logging.Component("loader"), logging.Format(string(FormatAdjList)))
	scanner := newLineScanner(in)
	chunkSize := r.opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	totalLines := 0
	chunks := func(yield func(lineChunk) bool) {
		chunk := lineChunk{firstLine: 1, lines: make([]string, 0, min(chunkSize, maxChunkPrealloc))}
		for scanner.Scan() {
			totalLines++
			chunk.lines = append(chunk.lines, scanner.Text())
			if len(chunk.lines) == chunkSize {
				if !yield(chunk) {
					return
				}
				chunk = lineChunk{firstLine: totalLines + 1, lines: make([]string, 0, min(chunkSize, maxChunkPrealloc))}
			}
		}
		if len(chunk.lines) > 0 {
			yield(chunk)
		}
	}

	parseTimer := logging.StartTimer(log, "parsed adjacency rows")
	results, err := parallel.MapOrdered(ctx, r.opts.Workers, iter.Seq[lineChunk](chunks),
		func(_ context.Context, i int, c lineChunk) ([][]uint64, error) {
			t := logging.StartTimer(log, "parsed chunk", logging.Chunk(i))
			rows, err := parseAdjacencyChunk(c.lines, c.firstLine, r.opts.Unchecked)
			if err != nil {
				return nil, err
			}
			t.EndDebug(logging.Count(len(rows)))
			return rows, nil
		})
	if err != nil {
		return nil, err
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read adjacency list: %w", err)
	}

	rows := 0
	for _, chunk := range results {
		rows += len(chunk)
	}
	parseTimer.End(logging.Count(rows), logging.Int("chunks", len(results)))
	recordLines(r.opts, FormatAdjList, totalLines)

	convertTimer := logging.StartTimer(log, "converted rows to graph")
	g := newGraph(false, r.opts)
	for _, chunk := range results {
		for _, row := range chunk {
			g.SetNeighbors(row[0], row[1:])
		}
	}
	convertTimer.End(logging.Nodes(g.Order()))

	if r.opts.Undirected {
		g.MakeUndirected()
	}
	return g, nil
}

// ParseAdjacencyRows parses adjacency-list lines into rows whose first
// element is the node. Checked mode sorts and deduplicates each row's
// neighbors and fails on the first malformed token. Unchecked mode keeps
// neighbors verbatim and drops what it cannot parse.
func ParseAdjacencyRows(lines []string, unchecked bool) ([][]uint64, error) {
	return parseAdjacencyChunk(lines, 1, unchecked)
}

func parseAdjacencyChunk(lines []string, firstLine int, unchecked bool) ([][]uint64, error) {
	rows := make([][]uint64, 0, len(lines))
	for i, line := range lines {
		if skipLine(line) {
			continue
		}
		if unchecked {
			if row := parseRowUnchecked(line); len(row) > 0 {
				rows = append(rows, row)
			}
			continue
		}
		row, err := parseRowChecked(line, firstLine+i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRowChecked(line string, lineNo int) ([]uint64, error) {
	fields := strings.Fields(line)
	row := make([]uint64, len(fields))
	for i, tok := range fields {
		v, err := parseNode(FormatAdjList, lineNo, tok)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	neighbors := row[1:]
	slices.Sort(neighbors)
	neighbors = slices.Compact(neighbors)
	return row[:1+len(neighbors)], nil
}

func parseRowUnchecked(line string) []uint64 {
	fields := strings.Fields(line)
	head, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return nil
	}
	row := make([]uint64, 1, len(fields))
	row[0] = head
	for _, tok := range fields[1:] {
		if v, err := strconv.ParseUint(tok, 10, 64); err == nil {
			row = append(row, v)
		}
	}
	return row
}
