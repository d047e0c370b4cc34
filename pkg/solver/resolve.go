// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/z5labs/strata/pkg/config"
	"github.com/z5labs/strata/pkg/config/key"

	"github.com/google/shlex"
)

const (
	// NameField names the solver to look up in a Registry.
	NameField key.Name = "solver"

	// CommandField holds an exact command line which overrides NameField.
	CommandField key.Name = "solver_command"
)

var errEmptyCommand = errors.New("solver command is empty")

// AmbiguousPrecedenceWarning is reported when the solver and the solver
// command are set by layers of the same source.
type AmbiguousPrecedenceWarning struct {
	Source config.Source
}

// String returns the warning message.
func (w AmbiguousPrecedenceWarning) String() string {
	return fmt.Sprintf(
		"--%s and --%s are both provided at the same precedence level (%s), --%s will be used and --%s will be ignored",
		CommandField.Flag(),
		NameField.Flag(),
		w.Source,
		CommandField.Flag(),
		NameField.Flag(),
	)
}

// SolverResolutionError occurs when no command can be resolved.
type SolverResolutionError struct {
	Solver string
	Cause  error
}

// Error implements the error interface.
func (e SolverResolutionError) Error() string {
	if e.Solver == "" {
		return fmt.Sprintf("failed to resolve solver command: %s", e.Cause)
	}
	return fmt.Sprintf("solver '%s' could not be resolved: %s", e.Solver, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e SolverResolutionError) Unwrap() error {
	return e.Cause
}

// Resolve returns the solver command configured by layer.
//
// A non-empty solver command wins if its source is at least that of the
// solver. When both sources are equal warn, if non-nil, is called. The
// command is split following shell quoting rules. Otherwise the solver is
// looked up in registry.
func Resolve(ctx context.Context, layer *config.Layer, registry Registry, warn func(AmbiguousPrecedenceWarning)) ([]string, error) {
	name, nameSrc := layer.Resolve(NameField)
	command, commandSrc := layer.Resolve(CommandField)

	solver, _ := name.(string)
	if cmd, _ := command.(string); cmd != "" && commandSrc >= nameSrc {
		if commandSrc == nameSrc && warn != nil {
			warn(AmbiguousPrecedenceWarning{Source: commandSrc})
		}
		return split(cmd)
	}

	cmd, err := registry.Lookup(ctx, solver)
	if err != nil {
		return nil, SolverResolutionError{Solver: solver, Cause: err}
	}
	return cmd, nil
}

func split(command string) ([]string, error) {
	tokens, err := shlex.Split(command)
	if err != nil {
		return nil, SolverResolutionError{
			Cause: config.InvalidValueError{Field: CommandField, Input: command, Cause: err},
		}
	}
	if len(tokens) == 0 {
		return nil, SolverResolutionError{
			Cause: config.InvalidValueError{Field: CommandField, Input: command, Cause: errEmptyCommand},
		}
	}
	return tokens, nil
}
