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

// edgeListReader reads "u v" lines. Tokens past the second are ignored.
type edgeListReader struct {
	opts Options
}

func (r *edgeListReader) Format() Format { return FormatEdgeList }

func (r *edgeListReader) Read(ctx context.Context, in io.Reader) (*graph.Graph, error) {
	g := newGraph(false, r.opts)
	scanner := newLineScanner(in)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%checkEvery == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		line := scanner.Text()
		if skipLine(line) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, &ParseError{Format: FormatEdgeList, Line: lineNo, Err: ErrMissingTokens}
		}
		u, err := parseNode(FormatEdgeList, lineNo, fields[0])
		if err != nil {
			return nil, err
		}
		v, err := parseNode(FormatEdgeList, lineNo, fields[1])
		if err != nil {
			return nil, err
		}

		g.AddEdge(u, v)
		if r.opts.Undirected {
			g.AddEdge(v, u)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edge list: %w", err)
	}
	recordLines(r.opts, FormatEdgeList, lineNo)

	return g.MakeConsistent(), nil
}

// weightedEdgeListReader reads "u v w" lines into a weighted graph.
// Self-loops are dropped while reading and no normalization pass runs
// afterwards: weights are taken as given.
type weightedEdgeListReader struct {
	opts Options
}

func (r *weightedEdgeListReader) Format() Format { return FormatWeightedEdgeList }

func (r *weightedEdgeListReader) Read(ctx context.Context, in io.Reader) (*graph.Graph, error) {
	g := newGraph(true, r.opts)
	scanner := newLineScanner(in)

	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%checkEvery == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		line := scanner.Text()
		if skipLine(line) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, &ParseError{Format: FormatWeightedEdgeList, Line: lineNo, Err: ErrMissingTokens}
		}
		u, err := parseNode(FormatWeightedEdgeList, lineNo, fields[0])
		if err != nil {
			return nil, err
		}
		v, err := parseNode(FormatWeightedEdgeList, lineNo, fields[1])
		if err != nil {
			return nil, err
		}
		w, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, &ParseError{Format: FormatWeightedEdgeList, Line: lineNo, Token: fields[2], Err: err}
		}

		if u == v {
			skipped++
			continue
		}
		if err := g.SetWeight(u, v, w); err != nil {
			return nil, &ParseError{Format: FormatWeightedEdgeList, Line: lineNo, Token: fields[2], Err: err}
		}
		if r.opts.Undirected {
			if err := g.SetWeight(v, u, w); err != nil {
				return nil, &ParseError{Format: FormatWeightedEdgeList, Line: lineNo, Token: fields[2], Err: err}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read weighted edge list: %w", err)
	}
	recordLines(r.opts, FormatWeightedEdgeList, lineNo)

	if skipped > 0 {
		r.opts.logger().Debug("skipped self loops", logging.Component("loader"), logging.Count(skipped))
	}
	return g, nil
}
