package parallel

import (
	"context"
	"fmt"
	"iter"
	"sync"
)

// MapOrdered applies fn to every element of inputs on a bounded pool and
// returns the results in input order, whatever order the workers finish in.
// Inputs are pulled lazily, so a producer reading a file is never more than
// the queue depth ahead of the workers.
//
// The first error cancels the context handed to the remaining tasks and is
// returned once all started tasks have drained. A task that panics is
// reported as an error.
func MapOrdered[T, R any](
	ctx context.Context,
	workers int,
	inputs iter.Seq[T],
	fn func(ctx context.Context, index int, in T) (R, error),
) ([]R, error) {
	pool, err := NewWorkerPool(workers)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		slots    []*R
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	index := 0
	for in := range inputs {
		if ctx.Err() != nil {
			break
		}
		slot := new(R)
		slots = append(slots, slot)
		i, item := index, in
		index++

		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			defer func() {
				if r := recover(); r != nil {
					fail(fmt.Errorf("task %d panicked: %v", i, r))
				}
			}()
			out, err := fn(ctx, i, item)
			if err != nil {
				fail(err)
				return
			}
			*slot = out
		})
	}
	pool.Close()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]R, len(slots))
	for i, s := range slots {
		results[i] = *s
	}
	return results, nil
}
