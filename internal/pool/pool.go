// Package pool provides a bounded, loanable resource pool and a
// parallel-map helper used by the orchestrator's two parallel sections
// (across commit pairs, and across enabled hours configs), checking
// cancellation before each unit of work. ExecutionPolicy.Linear's
// max-parallelism-1 override applies to the commit-pair section only; the
// hours section always runs one worker per config.
package pool

import (
	"context"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// Pool is a bounded loan pool of resources of type R (e.g. cloned
// repository handles). Acquire blocks until a resource is available or
// the context is done; Release returns it.
type Pool[R any] struct {
	handles chan R
}

// New creates a Pool pre-loaded with the given resources.
func New[R any](resources []R) *Pool[R] {
	ch := make(chan R, len(resources))
	for _, r := range resources {
		ch <- r
	}
	return &Pool[R]{handles: ch}
}

// Acquire loans one resource, blocking until one is free or ctx is done.
func (p *Pool[R]) Acquire(ctx context.Context) (R, error) {
	select {
	case r := <-p.handles:
		return r, nil
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Release returns a resource to the pool.
func (p *Pool[R]) Release(r R) {
	p.handles <- r
}

// ItemError pairs a failed item with its error, for callers that want to
// report per-item failures without aborting the whole run.
type ItemError[T any] struct {
	Item T
	Err  error
}

func (e ItemError[T]) Error() string {
	return fmt.Sprintf("%v: %v", e.Item, e.Err)
}

// MaxParallelism returns 1 when linear is true (ExecutionPolicy.Linear),
// else the requested width (at least 1).
func MaxParallelism(linear bool, requested int) int {
	if linear {
		return 1
	}
	if requested < 1 {
		return 1
	}
	return requested
}

// Map runs fn over every item with bounded concurrency (maxParallel),
// checking ctx before each item starts. Results are returned in
// input order; a failed item's error is collected in errs rather than
// aborting the remaining items.
func Map[T any, U any](ctx context.Context, items []T, maxParallel int, fn func(context.Context, T) (U, error)) ([]U, []ItemError[T]) {
	results := make([]U, len(items))
	var errs []ItemError[T]
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxParallel).WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				mu.Lock()
				errs = append(errs, ItemError[T]{Item: item, Err: ctx.Err()})
				mu.Unlock()
				return nil
			default:
			}
			u, err := fn(ctx, item)
			if err != nil {
				mu.Lock()
				errs = append(errs, ItemError[T]{Item: item, Err: err})
				mu.Unlock()
				return nil
			}
			results[i] = u
			return nil
		})
	}
	_ = p.Wait()
	return results, errs
}
