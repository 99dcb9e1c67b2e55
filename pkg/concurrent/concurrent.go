package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is a long-running job that stops when its context is cancelled.
type Task func(ctx context.Context) error

// Supervise runs every task in its own goroutine and waits for all of them.
// The first task to return, with or without an error, cancels the context
// of the others. It returns the first error encountered.
func Supervise(ctx context.Context, tasks ...Task) error {
	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, task := range tasks {
		if task == nil {
			continue
		}
		g.Go(func() error {
			defer cancel()
			return task(ctx)
		})
	}
	return g.Wait()
}
