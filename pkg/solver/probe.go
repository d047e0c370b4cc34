// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package solver

import (
	"context"

	"github.com/z5labs/strata/internal/fixedpool"
)

// Availability reports whether a solver could be found.
type Availability struct {
	Name    string
	Command []string
	Err     error
}

// Available reports whether a command could be found for each of names,
// looking up at most size solvers at once. The result is in the order of
// names. A failed lookup is recorded in the result, only cancellation of
// ctx is returned as an error.
func Available(ctx context.Context, r Registry, size int, names ...string) ([]Availability, error) {
	avail := make([]Availability, len(names))
	tasks := make([]fixedpool.Task, len(names))
	for i, name := range names {
		tasks[i] = func(ctx context.Context) error {
			cmd, err := r.Lookup(ctx, name)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			avail[i] = Availability{Name: name, Command: cmd, Err: err}
			return nil
		}
	}

	err := fixedpool.Wait(ctx, size, tasks...)
	if err != nil {
		return nil, err
	}
	return avail, nil
}
