// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package tomlfile reads configuration layers from, and renders templates
// of, TOML config files with a single top-level table.
//
//	[global]
//	loop = 4
//	array-lengths = "a={1,2},b=3"
package tomlfile

import (
	"fmt"
	"strings"
)

const (
	// DefaultSection is the name of the only table a config file may contain.
	DefaultSection = "global"

	// DefaultFileName is the conventional config file name within a
	// project root.
	DefaultFileName = "halmos.toml"
)

// Option configures the Reader, Locate and WriteTemplate.
type Option func(*options)

type options struct {
	section    string
	fileName   string
	workingDir string
}

func newOptions(opts ...Option) options {
	o := options{
		section:  DefaultSection,
		fileName: DefaultFileName,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSection overrides the name of the expected top-level table.
func WithSection(name string) Option {
	return func(o *options) {
		o.section = name
	}
}

// WithFileName overrides the config file name looked up by Locate.
func WithFileName(name string) Option {
	return func(o *options) {
		o.fileName = name
	}
}

// WithWorkingDir sets the directory Locate uses when no root is given.
// The process working directory is used by default.
func WithWorkingDir(dir string) Option {
	return func(o *options) {
		o.workingDir = dir
	}
}

// FileStructureError occurs when a config file does not consist of exactly
// one table with the expected name.
type FileStructureError struct {
	Path    string
	Section string

	// Names of the top-level entries in document order.
	Names []string
}

// Error implements the error interface.
func (e FileStructureError) Error() string {
	var msg string
	switch {
	case len(e.Names) != 1:
		msg = fmt.Sprintf("expected a single [%s] table, got %d: %s", e.Section, len(e.Names), strings.Join(e.Names, ", "))
	case e.Names[0] != e.Section:
		msg = fmt.Sprintf("expected a [%s] table, got '%s'", e.Section, e.Names[0])
	default:
		msg = fmt.Sprintf("expected %s to be a table", e.Section)
	}
	return withPath(e.Path, msg)
}

// SyntaxError occurs when a config file is not valid TOML.
type SyntaxError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e SyntaxError) Error() string {
	return withPath(e.Path, e.Cause.Error())
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e SyntaxError) Unwrap() error {
	return e.Cause
}

// KeyError occurs when the value of a key can not be parsed.
type KeyError struct {
	Path string

	// Key is qualified by its table e.g. "global.array-lengths".
	Key   string
	Cause error
}

// Error implements the error interface.
func (e KeyError) Error() string {
	return withPath(e.Path, fmt.Sprintf("%s: %s", e.Key, e.Cause))
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e KeyError) Unwrap() error {
	return e.Cause
}

func withPath(path, msg string) string {
	if path == "" {
		return msg
	}
	return path + ": " + msg
}
