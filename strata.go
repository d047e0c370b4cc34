// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package strata assembles layered configurations from defaults, a config
// file and command line arguments, in increasing order of precedence.
package strata

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/z5labs/strata/pkg/config"
	"github.com/z5labs/strata/pkg/config/flagset"
	"github.com/z5labs/strata/pkg/config/tomlfile"
	"github.com/z5labs/strata/pkg/solver"

	"go.uber.org/zap"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger, which defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.log = logger
	}
}

// WithRegistry sets the registry solver names are looked up in. The
// builtin registry is used by default.
func WithRegistry(r solver.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithFileName sets the conventional config file name within a project root.
func WithFileName(name string) Option {
	return func(e *Engine) {
		e.fileName = name
	}
}

// WithSection sets the name of the table config files must consist of.
func WithSection(name string) Option {
	return func(e *Engine) {
		e.section = name
	}
}

// WithWorkingDir sets the directory config files are located in when
// --root is not given.
func WithWorkingDir(dir string) Option {
	return func(e *Engine) {
		e.workingDir = dir
	}
}

// WithProgramName sets the program name shown in usage output.
func WithProgramName(name string) Option {
	return func(e *Engine) {
		e.program = name
	}
}

// Engine owns the state shared by every configuration of a schema: the
// default layer, the command line parser and the config file reader.
// Each is built once, on first use.
//
// An Engine is safe for concurrent use.
type Engine struct {
	schema     *config.Schema
	log        *zap.Logger
	registry   solver.Registry
	fileName   string
	section    string
	workingDir string
	program    string

	defaults func() (*config.Layer, error)
	parser   func() *flagset.Parser
	reader   func() *tomlfile.Reader

	warnMu sync.Mutex
	warned map[string]struct{}
}

// New returns an Engine for the given schema.
func New(schema *config.Schema, opts ...Option) *Engine {
	e := &Engine{
		schema:   schema,
		log:      zap.NewNop(),
		fileName: tomlfile.DefaultFileName,
		section:  tomlfile.DefaultSection,
		warned:   make(map[string]struct{}),
	}
	if len(os.Args) > 0 {
		e.program = filepath.Base(os.Args[0])
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = solver.Builtin(solver.WithLogger(e.log))
	}

	e.defaults = sync.OnceValues(func() (*config.Layer, error) {
		return config.DefaultLayer(e.schema)
	})
	e.parser = sync.OnceValue(func() *flagset.Parser {
		return flagset.Compile(e.schema, flagset.WithProgramName(e.program))
	})
	e.reader = sync.OnceValue(func() *tomlfile.Reader {
		return tomlfile.NewReader(e.schema, e.fileOptions()...)
	})
	return e
}

// Schema returns the schema of every configuration e assembles.
func (e *Engine) Schema() *config.Schema {
	return e.schema
}

// DefaultLayer returns the root layer of every configuration.
func (e *Engine) DefaultLayer() (*config.Layer, error) {
	return e.defaults()
}

// Parser returns the command line parser.
func (e *Engine) Parser() *flagset.Parser {
	return e.parser()
}

// Registry returns the registry solver names are looked up in.
func (e *Engine) Registry() solver.Registry {
	return e.registry
}

// FileReader returns the config file reader.
func (e *Engine) FileReader() *tomlfile.Reader {
	return e.reader()
}

func (e *Engine) fileOptions() []tomlfile.Option {
	return []tomlfile.Option{
		tomlfile.WithFileName(e.fileName),
		tomlfile.WithSection(e.section),
		tomlfile.WithWorkingDir(e.workingDir),
	}
}

// warn logs w unless a warning with the same text was logged before.
func (e *Engine) warn(w solver.AmbiguousPrecedenceWarning) {
	msg := w.String()

	e.warnMu.Lock()
	_, seen := e.warned[msg]
	e.warned[msg] = struct{}{}
	e.warnMu.Unlock()

	if seen {
		return
	}
	e.log.Warn(msg, zap.Stringer("source", w.Source))
}
