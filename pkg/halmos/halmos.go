// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package halmos declares the options of the halmos symbolic testing tool.
package halmos

import (
	"sync"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/pkg/config"
)

var schema = sync.OnceValue(func() *config.Schema {
	s, err := NewSchema()
	if err != nil {
		panic(err)
	}
	return s
})

// Schema returns the process wide halmos schema.
func Schema() *config.Schema {
	return schema()
}

// NewSchema returns a fresh halmos schema.
func NewSchema() (*config.Schema, error) {
	return config.NewSchema(Fields()...)
}

// New returns an Engine for halmos configurations which reads halmos.toml.
func New(opts ...strata.Option) *strata.Engine {
	opts = append([]strata.Option{strata.WithFileName(FileName), strata.WithProgramName("halmos")}, opts...)
	return strata.New(Schema(), opts...)
}

// Decode returns the typed view of cfg.
func Decode(cfg *strata.Config) (*Options, error) {
	var opts Options
	err := cfg.Decode(&opts)
	if err != nil {
		return nil, err
	}
	return &opts, nil
}
