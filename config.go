// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/z5labs/strata/pkg/config"
	"github.com/z5labs/strata/pkg/config/key"
	"github.com/z5labs/strata/pkg/config/tomlfile"
	"github.com/z5labs/strata/pkg/solver"
)

// Config is a resolved configuration. It is safe for concurrent use.
type Config struct {
	engine *Engine
	layer  *config.Layer

	mu            sync.Mutex
	solverCommand []string
}

func newConfig(e *Engine, layer *config.Layer) *Config {
	return &Config{
		engine: e,
		layer:  layer,
	}
}

// Layer returns the leaf layer of c.
func (c *Config) Layer() *config.Layer {
	return c.layer
}

// Get returns the resolved value of the named field.
func (c *Config) Get(name key.Name) (any, error) {
	v, _, err := c.layer.Lookup(name)
	return v, err
}

// Resolve returns the resolved value of the named field and the source
// of the layer it came from.
func (c *Config) Resolve(name key.Name) (any, config.Source, error) {
	return c.layer.Lookup(name)
}

// Decode copies the resolved values into the struct pointed to by v.
func (c *Config) Decode(v any) error {
	return c.layer.Decode(v)
}

// Layers returns the values held by each layer, root first.
func (c *Config) Layers() []config.LayerValues {
	return c.layer.Layers()
}

// FormatLayers renders every layer for diagnostics.
func (c *Config) FormatLayers() string {
	return c.layer.Format()
}

// WriteTemplate writes a config file reproducing c.
func (c *Config) WriteTemplate(w io.Writer) error {
	return tomlfile.WriteTemplate(w, c.layer, c.engine.fileOptions()...)
}

// ResolvedSolverCommand returns the command used to invoke the SMT solver.
// It is computed on first success and cached.
func (c *Config) ResolvedSolverCommand(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.solverCommand == nil {
		cmd, err := solver.Resolve(ctx, c.layer, c.engine.registry, c.engine.warn)
		if err != nil {
			return nil, err
		}
		c.solverCommand = cmd
	}
	return slices.Clone(c.solverCommand), nil
}
