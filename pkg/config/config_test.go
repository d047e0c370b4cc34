// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"time"

	"github.com/z5labs/strata/pkg/config/codec"
)

func testFields() []Field {
	return []Field{
		{Name: "root", Kind: String, Help: "project root directory", Metavar: "ROOT", DefaultFunc: func() any { return "/work" }, DefaultDisplay: "current working directory"},
		{Name: "loop", Kind: Int, Help: "set loop unrolling bounds", Default: 2, Metavar: "MAX_BOUND"},
		{Name: "ffi", Kind: Bool, Help: "allow the usage of FFI", Default: false},
		{Name: "storage_layout", Kind: String, Default: "solidity", Choices: []string{"solidity", "generic"}},
		{Name: "coverage_output", Kind: String, Metavar: "COVERAGE_FILE_PATH"},
		{Name: "verbose", Kind: Int, Default: 0, Group: "Debugging options", Short: "v", Countable: true},
		{Name: "array_lengths", Kind: Custom, Default: "", Codec: codec.ArrayLengths(), Metavar: "NAME1={LENGTH1,...}"},
		{Name: "panic_error_codes", Kind: Custom, Default: "0x01", Codec: codec.IntSet()},
		{Name: "solver_timeout_branching", Kind: Custom, Default: "1ms", Codec: codec.Duration(time.Millisecond), Group: "Solver options"},
	}
}

func testSchema() *Schema {
	s, err := NewSchema(testFields()...)
	if err != nil {
		panic(err)
	}
	return s
}
