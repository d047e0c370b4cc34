// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package halmos

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/z5labs/strata/pkg/config"
	"github.com/z5labs/strata/pkg/config/codec"
	"github.com/z5labs/strata/pkg/solver"
)

// Option groups.
const (
	GroupDebugging    = "Debugging options"
	GroupBuild        = "Build options"
	GroupSolver       = "Solver options"
	GroupExperimental = "Experimental options"
	GroupDeprecated   = "Deprecated options"
)

// FileName is the conventional name of the config file in a project root.
const FileName = "halmos.toml"

var traceEvents = codec.EnumList(TraceLog, TraceSStore, TraceSLoad)

func workingDir() any {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func numCPU() any {
	return max(runtime.NumCPU(), 1)
}

// Fields returns the declaration of every halmos option.
func Fields() []config.Field {
	timeout := codec.Duration(time.Millisecond)

	return []config.Field{
		// General options
		{
			Name:           "root",
			Kind:           config.String,
			Help:           "project root directory",
			Metavar:        "ROOT",
			DefaultFunc:    workingDir,
			DefaultDisplay: "current working directory",
			NotInFile:      true,
		},
		{
			Name:    "config",
			Kind:    config.String,
			Help:    "path to the config file",
			Metavar: "FILE",
			DefaultFunc: func() any {
				return filepath.Join(workingDir().(string), FileName)
			},
			DefaultDisplay: "ROOT/" + FileName,
			NotInFile:      true,
		},
		{
			Name:    "contract",
			Kind:    config.String,
			Help:    "run tests in the given contract. Shortcut for --match-contract '^{NAME}$'.",
			Default: "",
			Metavar: "CONTRACT_NAME",
		},
		{
			Name:    "match_contract",
			Kind:    config.String,
			Help:    "run tests in contracts matching the given regex. Ignored if the --contract name is given.",
			Default: "",
			Metavar: "CONTRACT_NAME_REGEX",
			Short:   "mc",
		},
		{
			Name:    "function",
			Kind:    config.String,
			Help:    "run tests matching the given prefix. Shortcut for --match-test '^{PREFIX}'.",
			Default: "(check|invariant)_",
			Metavar: "FUNCTION_NAME_PREFIX",
		},
		{
			Name:    "match_test",
			Kind:    config.String,
			Help:    "run tests matching the given regex. The --function prefix is automatically added, unless the regex starts with '^'.",
			Default: "",
			Metavar: "FUNCTION_NAME_REGEX",
			Short:   "mt",
		},
		{
			Name:    "panic_error_codes",
			Kind:    config.Custom,
			Help:    "specify Panic error codes to be treated as test failures; use '*' to include all error codes",
			Default: "0x01",
			Metavar: "ERROR_CODE1,ERROR_CODE2,...",
			Codec:   codec.IntSet(),
		},
		{
			Name:    "invariant_depth",
			Kind:    config.Int,
			Help:    "set depth for invariant testing (length of the stateful sequence of calls)",
			Default: 2,
			Metavar: "MAX_BOUND",
		},
		{
			Name:    "loop",
			Kind:    config.Int,
			Help:    "set loop unrolling bounds",
			Default: 2,
			Metavar: "MAX_BOUND",
		},
		{
			Name:    "width",
			Kind:    config.Int,
			Help:    "set the max number of paths; 0 means unlimited",
			Default: 0,
			Metavar: "MAX_WIDTH",
		},
		{
			Name:    "depth",
			Kind:    config.Int,
			Help:    "set the maximum length in steps of a single path; 0 means unlimited",
			Default: 0,
			Metavar: "MAX_DEPTH",
		},
		{
			Name:    "array_lengths",
			Kind:    config.Custom,
			Help:    "specify lengths for dynamic-sized arrays, bytes, and string types. Lengths can be specified as a comma-separated list of integers enclosed in curly braces, or as a single integer.",
			Metavar: "NAME1={LENGTH1,LENGTH2,...},NAME2=LENGTH3,...",
			Codec:   codec.ArrayLengths(),
		},
		{
			Name:    "default_array_lengths",
			Kind:    config.Custom,
			Help:    "set default lengths for dynamic-sized arrays (excluding bytes and string) not specified in --array-lengths",
			Default: "0,1,2",
			Metavar: "LENGTH1,LENGTH2,...",
			Codec:   codec.IntList(),
		},
		{
			Name:    "default_bytes_lengths",
			Kind:    config.Custom,
			Help:    "set default lengths for bytes and string types not specified in --array-lengths",
			Default: "0,65,1024",
			Metavar: "LENGTH1,LENGTH2,...",
			Codec:   codec.IntList(),
		},
		{
			Name:    "storage_layout",
			Kind:    config.String,
			Help:    "Select one of the available storage layout models. The generic model should only be necessary for vyper, huff, or unconventional storage patterns in yul.",
			Default: "solidity",
			Choices: []string{"solidity", "generic"},
		},
		{
			Name:    "ffi",
			Kind:    config.Bool,
			Help:    "allow the usage of FFI to call external functions",
			Default: false,
		},
		{
			Name:      "version",
			Kind:      config.Bool,
			Help:      "print the version number",
			Default:   false,
			NotInFile: true,
		},
		{
			Name:    "coverage_output",
			Kind:    config.String,
			Help:    "generate coverage report at the given file path (disabled by default)",
			Metavar: "COVERAGE_FILE_PATH",
		},

		// Debugging options
		{Name: "verbose", Kind: config.Int, Help: "increase verbosity levels: -v, -vv, -vvv, ...", Default: 0, Group: GroupDebugging, Short: "v", Countable: true},
		{Name: "statistics", Kind: config.Bool, Help: "print statistics", Default: false, Group: GroupDebugging, Short: "st"},
		{Name: "no_status", Kind: config.Bool, Help: "disable progress display", Default: false, Group: GroupDebugging},
		{Name: "debug", Kind: config.Bool, Help: "run in debug mode", Default: false, Group: GroupDebugging},
		{Name: "debug_config", Kind: config.Bool, Help: "debug config parsing (show all config values and their sources)", Default: false, Group: GroupDebugging},
		{Name: "profile_instructions", Kind: config.Bool, Help: "profile instruction execution frequencies", Default: false, Group: GroupDebugging},
		{Name: "json_output", Kind: config.String, Help: "output test results in JSON", Metavar: "JSON_FILE_PATH", Group: GroupDebugging},
		{Name: "minimal_json_output", Kind: config.Bool, Help: "include minimal information in the JSON output", Default: false, Group: GroupDebugging},
		{Name: "print_steps", Kind: config.Bool, Help: "print every execution step", Default: false, Group: GroupDebugging},
		{Name: "print_mem", Kind: config.Bool, Help: "when --print-steps is enabled, also print memory contents", Default: false, Group: GroupDebugging},
		{Name: "print_states", Kind: config.Bool, Help: "print all final execution states", Default: false, Group: GroupDebugging},
		{Name: "print_success_states", Kind: config.Bool, Help: "print successful execution states", Default: false, Group: GroupDebugging},
		{Name: "print_failed_states", Kind: config.Bool, Help: "print failed execution states", Default: false, Group: GroupDebugging},
		{Name: "print_blocked_states", Kind: config.Bool, Help: "print blocked execution states", Default: false, Group: GroupDebugging},
		{Name: "print_setup_states", Kind: config.Bool, Help: "print setup execution states", Default: false, Group: GroupDebugging},
		{Name: "print_full_model", Kind: config.Bool, Help: "print full counterexample model", Default: false, Group: GroupDebugging},
		{Name: "early_exit", Kind: config.Bool, Help: "stop after a counterexample is found", Default: false, Group: GroupDebugging},
		{Name: "dump_smt_queries", Kind: config.Bool, Help: "dump SMT queries for assertion violations", Default: false, Group: GroupDebugging},
		{Name: "dump_smt_directory", Kind: config.String, Help: "directory to dump SMT queries (defaults to temporary directory)", Default: "", Metavar: "DIRECTORY_PATH", Group: GroupDebugging},
		{Name: "disable_gc", Kind: config.Bool, Help: "disable automatic garbage collection of cyclic objects. This does not affect reference counting based garbage collection.", Default: false, Group: GroupDebugging},
		{Name: "trace_memory", Kind: config.Bool, Help: "trace memory allocations and deallocations", Default: false, Group: GroupDebugging, NotInFile: true},
		{
			Name:    "trace_events",
			Kind:    config.Custom,
			Help:    "include specific events in traces",
			Default: strings.Join([]string{string(TraceLog), string(TraceSStore), string(TraceSLoad)}, ","),
			Metavar: "EVENT1,EVENT2,...",
			Group:   GroupDebugging,
			Codec:   traceEvents,
		},

		// Build options
		{Name: "forge_build_out", Kind: config.String, Help: "forge build artifacts directory name", Default: "out", Metavar: "DIRECTORY_NAME", Group: GroupBuild},

		// Solver options
		{
			Name:    "solver",
			Kind:    config.String,
			Help:    "specify the SMT solver to use. If not specified, defaults to 'yices'. If --solver-command is used, this is ignored.",
			Default: "yices",
			Choices: solver.Builtin().Names(),
			Group:   GroupSolver,
		},
		{Name: "smt_exp_by_const", Kind: config.Int, Help: "interpret constant power up to N", Default: 2, Metavar: "N", Group: GroupSolver},
		{
			Name:    "solver_timeout_branching",
			Kind:    config.Custom,
			Help:    "set timeout for solving branching conditions; 0 means no timeout. Can specify a unit, e.g. '200ms', '5s', '2m', '1h', etc.",
			Default: "1ms",
			Metavar: "TIMEOUT",
			Group:   GroupSolver,
			Codec:   timeout,
		},
		{
			Name:    "solver_timeout_assertion",
			Kind:    config.Custom,
			Help:    "set timeout for solving assertion violation conditions; 0 means no timeout. Can specify a unit, e.g. '200ms', '5s', '2m', '1h', etc.",
			Default: "60s",
			Metavar: "TIMEOUT",
			Group:   GroupSolver,
			Codec:   timeout,
		},
		{Name: "solver_max_memory", Kind: config.Int, Help: "set memory limit (in megabytes) for the solver; 0 means no limit", Default: 0, Metavar: "SIZE", Group: GroupSolver},
		{
			Name:    "solver_command",
			Kind:    config.String,
			Help:    "use the given exact command when invoking the solver (overrides automatic solver detection triggered by --solver)",
			Default: "",
			Metavar: "COMMAND",
			Group:   GroupSolver,
		},
		{
			Name:           "solver_threads",
			Kind:           config.Int,
			Help:           "set the number of threads for parallel solvers",
			DefaultFunc:    numCPU,
			DefaultDisplay: "number of CPUs",
			Metavar:        "N",
			Group:          GroupSolver,
		},
		{Name: "cache_solver", Kind: config.Bool, Help: "cache unsat queries using unsat cores", Default: false, Group: GroupSolver},

		// Experimental options
		{Name: "symbolic_jump", Kind: config.Bool, Help: "support symbolic jump destination", Default: false, Group: GroupExperimental},
		{Name: "flamegraph", Kind: config.Bool, Help: "generate a flamegraph of the execution", Default: false, Group: GroupExperimental},

		// Deprecated options
		{Name: "test_parallel", Kind: config.Bool, Help: "(Deprecated; no-op) run tests in parallel", Default: false, Group: GroupDeprecated, Deprecated: true},
		{Name: "solver_parallel", Kind: config.Bool, Help: "(Deprecated; no-op; use --solver-threads instead) run assertion solvers in parallel", Default: false, Group: GroupDeprecated, Deprecated: true},
		{Name: "log", Kind: config.String, Help: "(Deprecated; no-op) log every execution steps in JSON", Metavar: "LOG_FILE_PATH", Group: GroupDeprecated, Deprecated: true},
		{
			Name:       "uninterpreted_unknown_calls",
			Kind:       config.String,
			Help:       "(Deprecated; no-op) use uninterpreted abstractions for unknown external calls with the given function signatures",
			Default:    "0x150b7a02,0x1626ba7e,0xf23a6e61,0xbc197c81",
			Metavar:    "SELECTOR1,SELECTOR2,...",
			Group:      GroupDeprecated,
			Deprecated: true,
		},
		{Name: "return_size_of_unknown_calls", Kind: config.Int, Help: "(Deprecated; no-op) set the byte size of return data from uninterpreted unknown external calls", Default: 32, Metavar: "BYTE_SIZE", Group: GroupDeprecated, Deprecated: true},
	}
}
