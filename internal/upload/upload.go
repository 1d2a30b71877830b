package upload

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Package upload provides the fan-out/fan-in primitive used by image
// orchestration. Results carry the original request index so callers map
// them back to array slots without caring about completion order.

// Result pairs a produced value with the index of the input that produced it.
type Result[T any] struct {
	Index int
	Value T
}

// All runs fn once per item, all items concurrently, and returns one Result
// per item ordered by original index. The first error cancels the context
// handed to the remaining calls and is returned; compensation for siblings
// that already completed is the caller's responsibility.
func All[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, index int, item T) (R, error)) ([]Result[R], error) {
	if len(items) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	out := make([]Result[R], len(items))
	for i, item := range items {
		g.Go(func() error {
			v, err := fn(ctx, i, item)
			if err != nil {
				return err
			}
			out[i] = Result[R]{Index: i, Value: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
