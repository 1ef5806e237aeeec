package cmd

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// BulkResult is the outcome for one key of a multi-domain command.
type BulkResult[T any] struct {
	Key   string
	Data  T
	Error error
}

// runBulk calls op for every key with at most limit calls in flight.
// Results are indexed like keys and one failure never stops the rest.
func runBulk[T any](ctx context.Context, keys []string, limit int, op func(context.Context, string) (T, error)) []BulkResult[T] {
	sem := semaphore.NewWeighted(int64(max(limit, 1)))
	results := make([]BulkResult[T], len(keys))

	var g errgroup.Group
	for i, key := range keys {
		results[i].Key = key
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].Error = err
				return nil
			}
			defer sem.Release(1)
			results[i].Data, results[i].Error = op(ctx, key)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func countResults[T any](results []BulkResult[T]) (success, failure int) {
	for _, r := range results {
		if r.Error != nil {
			failure++
			continue
		}
		success++
	}
	return success, failure
}
