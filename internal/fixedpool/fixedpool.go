// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package fixedpool runs tasks on a bounded number of goroutines.
package fixedpool

import (
	"context"

	"github.com/z5labs/strata/internal/try"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work. The context is cancelled once any task fails.
type Task func(context.Context) error

// Wait runs every task with at most size tasks in flight and returns the
// first failure. A panicking task fails with a try.PanicError. A size
// less than one places no bound on the number of tasks in flight.
func Wait(ctx context.Context, size int, tasks ...Task) error {
	g, ctx := errgroup.WithContext(ctx)
	if size > 0 {
		g.SetLimit(size)
	}

	for _, task := range tasks {
		g.Go(func() (err error) {
			defer try.Recover(&err)

			return task(ctx)
		})
	}
	return g.Wait()
}
