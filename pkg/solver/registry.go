// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package solver resolves the command used to invoke an SMT solver from
// the solver and solver_command fields of a configuration.
package solver

import (
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Registry finds the command line for a named solver.
type Registry interface {
	Lookup(ctx context.Context, name string) ([]string, error)
	Names() []string
}

// Info describes how to invoke a solver.
type Info struct {
	Name   string
	Binary string
	Args   []string
}

var builtins = []Info{
	{Name: "yices", Binary: "yices-smt2", Args: []string{"--smt2-model-format"}},
	{Name: "z3", Binary: "z3", Args: []string{"-in"}},
	{Name: "cvc5", Binary: "cvc5", Args: []string{"--produce-models"}},
	{Name: "bitwuzla", Binary: "bitwuzla", Args: []string{"--produce-models"}},
}

// UnknownSolverError occurs when a registry does not know a solver name.
type UnknownSolverError struct {
	Name  string
	Known []string
}

// Error implements the error interface.
func (e UnknownSolverError) Error() string {
	return fmt.Sprintf("unknown solver '%s' (known solvers: %s)", e.Name, strings.Join(e.Known, ", "))
}

// BinaryNotFoundError occurs when the binary of a known solver can not be
// found.
type BinaryNotFoundError struct {
	Name   string
	Binary string
	Cause  error
}

// Error implements the error interface.
func (e BinaryNotFoundError) Error() string {
	return fmt.Sprintf("binary %s of solver '%s' not found: %s", e.Binary, e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e BinaryNotFoundError) Unwrap() error {
	return e.Cause
}

// BuiltinOption configures a BuiltinRegistry.
type BuiltinOption func(*BuiltinRegistry)

// WithLookPath replaces exec.LookPath for finding solver binaries.
func WithLookPath(f func(string) (string, error)) BuiltinOption {
	return func(r *BuiltinRegistry) {
		r.lookPath = f
	}
}

// WithSolvers registers additional solvers, replacing builtins of the
// same name.
func WithSolvers(infos ...Info) BuiltinOption {
	return func(r *BuiltinRegistry) {
		for _, info := range infos {
			r.add(info)
		}
	}
}

// WithLogger sets the logger, which defaults to a no-op logger.
func WithLogger(logger *zap.Logger) BuiltinOption {
	return func(r *BuiltinRegistry) {
		r.log = logger
	}
}

// BuiltinRegistry finds solvers on the PATH. Lookups are cached, and
// concurrent lookups of the same solver share a single search.
type BuiltinRegistry struct {
	log      *zap.Logger
	lookPath func(string) (string, error)

	names  []string
	infos  map[string]Info
	group  singleflight.Group
	cached sync.Map
}

// Builtin returns a registry of the yices, z3, cvc5 and bitwuzla solvers.
func Builtin(opts ...BuiltinOption) *BuiltinRegistry {
	r := &BuiltinRegistry{
		log:      zap.NewNop(),
		lookPath: exec.LookPath,
		infos:    make(map[string]Info),
	}
	for _, info := range builtins {
		r.add(info)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *BuiltinRegistry) add(info Info) {
	if _, exists := r.infos[info.Name]; !exists {
		r.names = append(r.names, info.Name)
	}
	r.infos[info.Name] = info
}

// Names returns the known solver names in registration order.
func (r *BuiltinRegistry) Names() []string {
	return slices.Clone(r.names)
}

// Lookup implements the Registry interface. The returned command starts
// with the absolute path of the solver binary.
func (r *BuiltinRegistry) Lookup(ctx context.Context, name string) ([]string, error) {
	info, ok := r.infos[name]
	if !ok {
		return nil, UnknownSolverError{Name: name, Known: r.Names()}
	}
	if cmd, ok := r.cached.Load(name); ok {
		return slices.Clone(cmd.([]string)), nil
	}

	ch := r.group.DoChan(name, func() (any, error) {
		path, err := r.lookPath(info.Binary)
		if err != nil {
			return nil, BinaryNotFoundError{Name: name, Binary: info.Binary, Cause: err}
		}
		r.log.Debug("located solver", zap.String("solver", name), zap.String("path", path))

		cmd := append([]string{path}, info.Args...)
		r.cached.Store(name, cmd)
		return cmd, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]string)), nil
	}
}
