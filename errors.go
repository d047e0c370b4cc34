// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/z5labs/strata/pkg/config"
	"github.com/z5labs/strata/pkg/config/flagset"
	"github.com/z5labs/strata/pkg/config/tomlfile"
	"github.com/z5labs/strata/pkg/solver"
)

// AnnotationError occurs when the options of an annotation can not be
// applied.
type AnnotationError struct {
	Text  string
	Cause error
}

// Error implements the error interface.
func (e AnnotationError) Error() string {
	return fmt.Sprintf("invalid annotation %q: %s", e.Text, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e AnnotationError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the process exit status for err. Problems with the
// arguments, the config file or their values exit with 2, the status of
// command line usage errors. Any other error, including a solver which
// can not be resolved, exits with 1.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, flagset.ErrHelp) {
		return 0
	}
	var serr solver.SolverResolutionError
	if errors.As(err, &serr) {
		return 1
	}
	if isUsageError(err) {
		return 2
	}
	return 1
}

func isUsageError(err error) bool {
	var (
		unrecognized flagset.UnrecognizedArgumentError
		unknown      config.UnknownFieldError
		invalid      config.InvalidValueError
		structure    tomlfile.FileStructureError
		syntax       tomlfile.SyntaxError
		keyErr       tomlfile.KeyError
		pathErr      *fs.PathError
	)
	return errors.As(err, &unrecognized) ||
		errors.As(err, &unknown) ||
		errors.As(err, &invalid) ||
		errors.As(err, &structure) ||
		errors.As(err, &syntax) ||
		errors.As(err, &keyErr) ||
		errors.As(err, &pathErr)
}
