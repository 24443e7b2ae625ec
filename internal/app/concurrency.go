package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Settled is the outcome of one task run by SettleAll.
type Settled[T any] struct {
	Value T
	Err   error
}

// SettleAll runs every task concurrently and waits for all of them. Results
// keep the order of tasks; one task failing neither cancels nor hides the
// others.
func SettleAll[T any](ctx context.Context, tasks ...func(context.Context) (T, error)) []Settled[T] {
	out := make([]Settled[T], len(tasks))

	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			out[i].Value, out[i].Err = task(ctx)
			return nil
		})
	}

	_ = g.Wait()

	return out
}
