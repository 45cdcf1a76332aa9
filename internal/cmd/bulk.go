package cmd

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the default number of concurrent requests
const DefaultConcurrency = 5

// BulkResult is the outcome of one per-user operation.
type BulkResult[T any] struct {
	Username string `json:"username"`
	Success  bool   `json:"success"`
	Data     T      `json:"data"`
	Error    string `json:"error,omitempty"`
	err      error
}

// runBulkOperation runs operation once per username with bounded
// parallelism. Results keep the order of usernames; individual failures do
// not cancel the others.
func runBulkOperation[T any](
	ctx context.Context,
	usernames []string,
	concurrency int64,
	operation func(ctx context.Context, username string) (T, error),
) []BulkResult[T] {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	sem := semaphore.NewWeighted(concurrency)
	results := make([]BulkResult[T], len(usernames))
	g, ctx := errgroup.WithContext(ctx)

	for i, username := range usernames {
		g.Go(func() error {
			results[i].Username = username
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].err = err
				results[i].Error = err.Error()
				return nil
			}
			defer sem.Release(1)

			data, err := operation(ctx, username)
			if err != nil {
				results[i].err = err
				results[i].Error = err.Error()
				return nil
			}
			results[i].Success = true
			results[i].Data = data
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// firstFailure returns the first error in results, or nil.
func firstFailure[T any](results []BulkResult[T]) error {
	for _, r := range results {
		if r.err != nil {
			return r.err
		}
	}
	return nil
}

func countResults[T any](results []BulkResult[T]) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}
