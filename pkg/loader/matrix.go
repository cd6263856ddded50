package loader

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-deepwalk/pkg/graph"
	"github.com/dd0wney/cluso-deepwalk/pkg/logging"
)

// Triple is one stored entry of a sparse coordinate matrix
type Triple struct {
	Row, Col uint64
	Value    float64
}

// Matrix is the view of an external matrix container the adapter needs.
type Matrix interface {
	IsSparse() bool
	Triples() []Triple
}

// COO is an in-memory sparse coordinate matrix
type COO []Triple

func (m COO) IsSparse() bool    { return true }
func (m COO) Triples() []Triple { return m }

// Dense is a row-major dense matrix. It exists so callers holding dense
// data get ErrDenseMatrix instead of a silent conversion.
type Dense [][]float64

func (m Dense) IsSparse() bool    { return false }
func (m Dense) Triples() []Triple { return nil }

// FromCOO builds a graph with an edge row->col for every stored entry,
// whatever its value. Dense matrices are rejected.
func FromCOO(m Matrix, undirected bool) (*graph.Graph, error) {
	return fromCOO(m, Options{Undirected: undirected})
}

func fromCOO(m Matrix, opts Options) (*graph.Graph, error) {
	if !m.IsSparse() {
		return nil, ErrDenseMatrix
	}

	g := newGraph(false, opts)
	for _, t := range m.Triples() {
		g.AddEdge(t.Row, t.Col)
	}
	if opts.Undirected {
		g.MakeUndirected()
	}
	return g.MakeConsistent(), nil
}

// matrixMarketReader reads MatrixMarket coordinate files. Indices are
// converted to 0-based node IDs. Symmetric matrices store one triangle, so
// the mirrored entries are added back before the graph is built.
type matrixMarketReader struct {
	opts Options
}

func (r *matrixMarketReader) Format() Format { return FormatMatrixMarket }

// maxPreallocEntries caps the capacity reserved from the declared entry count
const maxPreallocEntries = 1 << 20

type mtxHeader struct {
	coordinate bool
	symmetric  bool
	pattern    bool
}

func parseMTXHeader(line string) (mtxHeader, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) < 5 || fields[0] != "%%matrixmarket" || fields[1] != "matrix" {
		return mtxHeader{}, &ParseError{Format: FormatMatrixMarket, Line: 1, Token: line, Err: fmt.Errorf("missing MatrixMarket banner")}
	}
	h := mtxHeader{
		coordinate: fields[2] == "coordinate",
		pattern:    fields[3] == "pattern",
		symmetric:  fields[4] != "general",
	}
	if fields[2] == "array" {
		return h, ErrDenseMatrix
	}
	if !h.coordinate {
		return h, &ParseError{Format: FormatMatrixMarket, Line: 1, Token: fields[2], Err: fmt.Errorf("unknown matrix format")}
	}
	return h, nil
}

func (r *matrixMarketReader) Read(ctx context.Context, in io.Reader) (*graph.Graph, error) {
	scanner := newLineScanner(in)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read matrix: %w", err)
		}
		return nil, &ParseError{Format: FormatMatrixMarket, Line: 1, Err: ErrMissingTokens}
	}
	header, err := parseMTXHeader(scanner.Text())
	if err != nil {
		return nil, err
	}

	var (
		coo          COO
		rows, cols   uint64
		sizeSeen     bool
		lineNo       = 1
		wantEntries  uint64
		entriesFound uint64
	)
	for scanner.Scan() {
		lineNo++
		if lineNo%checkEvery == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '%' {
			continue
		}
		fields := strings.Fields(line)

		if !sizeSeen {
			if len(fields) < 3 {
				return nil, &ParseError{Format: FormatMatrixMarket, Line: lineNo, Err: ErrMissingTokens}
			}
			if rows, err = parseNode(FormatMatrixMarket, lineNo, fields[0]); err != nil {
				return nil, err
			}
			if cols, err = parseNode(FormatMatrixMarket, lineNo, fields[1]); err != nil {
				return nil, err
			}
			if wantEntries, err = parseNode(FormatMatrixMarket, lineNo, fields[2]); err != nil {
				return nil, err
			}
			coo = make(COO, 0, min(wantEntries, maxPreallocEntries))
			sizeSeen = true
			continue
		}

		minFields := 3
		if header.pattern {
			minFields = 2
		}
		if len(fields) < minFields {
			return nil, &ParseError{Format: FormatMatrixMarket, Line: lineNo, Err: ErrMissingTokens}
		}
		i, err := parseNode(FormatMatrixMarket, lineNo, fields[0])
		if err != nil {
			return nil, err
		}
		j, err := parseNode(FormatMatrixMarket, lineNo, fields[1])
		if err != nil {
			return nil, err
		}
		if i < 1 || i > rows || j < 1 || j > cols {
			return nil, &ParseError{Format: FormatMatrixMarket, Line: lineNo, Token: line, Err: fmt.Errorf("index out of range %dx%d", rows, cols)}
		}
		value := 1.0
		if !header.pattern {
			if value, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, &ParseError{Format: FormatMatrixMarket, Line: lineNo, Token: fields[2], Err: err}
			}
		}

		coo = append(coo, Triple{Row: i - 1, Col: j - 1, Value: value})
		if header.symmetric && i != j {
			coo = append(coo, Triple{Row: j - 1, Col: i - 1, Value: value})
		}
		entriesFound++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read matrix: %w", err)
	}
	if !sizeSeen {
		return nil, &ParseError{Format: FormatMatrixMarket, Line: lineNo, Err: ErrMissingTokens}
	}
	if entriesFound != wantEntries {
		r.opts.logger().Warn("matrix entry count mismatch",
			logging.Format(string(FormatMatrixMarket)),
			logging.Int("declared", int(wantEntries)),
			logging.Int("found", int(entriesFound)))
	}
	recordLines(r.opts, FormatMatrixMarket, lineNo)

	return fromCOO(coo, r.opts)
}
