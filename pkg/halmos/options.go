// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package halmos

import (
	"slices"
	"time"

	"github.com/z5labs/strata/pkg/config/codec"
)

// TraceEvent is an event which may be included in execution traces.
type TraceEvent string

const (
	TraceLog    TraceEvent = "LOG"
	TraceSStore TraceEvent = "SSTORE"
	TraceSLoad  TraceEvent = "SLOAD"
)

// Options is the resolved halmos configuration.
type Options struct {
	Root                string           `config:"root"`
	Config              string           `config:"config"`
	Contract            string           `config:"contract"`
	MatchContract       string           `config:"match_contract"`
	Function            string           `config:"function"`
	MatchTest           string           `config:"match_test"`
	PanicErrorCodes     codec.Set        `config:"panic_error_codes"`
	InvariantDepth      int              `config:"invariant_depth"`
	Loop                int              `config:"loop"`
	Width               int              `config:"width"`
	Depth               int              `config:"depth"`
	ArrayLengths        map[string][]int `config:"array_lengths"`
	DefaultArrayLengths []int            `config:"default_array_lengths"`
	DefaultBytesLengths []int            `config:"default_bytes_lengths"`
	StorageLayout       string           `config:"storage_layout"`
	FFI                 bool             `config:"ffi"`
	Version             bool             `config:"version"`
	CoverageOutput      string           `config:"coverage_output"`

	Verbose             int          `config:"verbose"`
	Statistics          bool         `config:"statistics"`
	NoStatus            bool         `config:"no_status"`
	Debug               bool         `config:"debug"`
	DebugConfig         bool         `config:"debug_config"`
	ProfileInstructions bool         `config:"profile_instructions"`
	JSONOutput          string       `config:"json_output"`
	MinimalJSONOutput   bool         `config:"minimal_json_output"`
	PrintSteps          bool         `config:"print_steps"`
	PrintMem            bool         `config:"print_mem"`
	PrintStates         bool         `config:"print_states"`
	PrintSuccessStates  bool         `config:"print_success_states"`
	PrintFailedStates   bool         `config:"print_failed_states"`
	PrintBlockedStates  bool         `config:"print_blocked_states"`
	PrintSetupStates    bool         `config:"print_setup_states"`
	PrintFullModel      bool         `config:"print_full_model"`
	EarlyExit           bool         `config:"early_exit"`
	DumpSMTQueries      bool         `config:"dump_smt_queries"`
	DumpSMTDirectory    string       `config:"dump_smt_directory"`
	DisableGC           bool         `config:"disable_gc"`
	TraceMemory         bool         `config:"trace_memory"`
	TraceEvents         []TraceEvent `config:"trace_events"`

	ForgeBuildOut string `config:"forge_build_out"`

	Solver                 string        `config:"solver"`
	SMTExpByConst          int           `config:"smt_exp_by_const"`
	SolverTimeoutBranching time.Duration `config:"solver_timeout_branching"`
	SolverTimeoutAssertion time.Duration `config:"solver_timeout_assertion"`
	SolverMaxMemory        int           `config:"solver_max_memory"`
	SolverCommand          string        `config:"solver_command"`
	SolverThreads          int           `config:"solver_threads"`
	CacheSolver            bool          `config:"cache_solver"`

	SymbolicJump bool `config:"symbolic_jump"`
	Flamegraph   bool `config:"flamegraph"`

	TestParallel              bool   `config:"test_parallel"`
	SolverParallel            bool   `config:"solver_parallel"`
	Log                       string `config:"log"`
	UninterpretedUnknownCalls string `config:"uninterpreted_unknown_calls"`
	ReturnSizeOfUnknownCalls  int    `config:"return_size_of_unknown_calls"`
}

// Traces reports whether ev should be included in traces.
func (o *Options) Traces(ev TraceEvent) bool {
	return slices.Contains(o.TraceEvents, ev)
}
