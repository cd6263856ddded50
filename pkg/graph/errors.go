package graph

import "errors"

var (
	ErrNonPositiveWeight = errors.New("edge weight must be positive")
	ErrInfiniteWeight    = errors.New("edge weight must be finite")
	ErrUnweightedGraph   = errors.New("graph is not weighted")
	ErrInvalidSize       = errors.New("invalid graph size")
)
