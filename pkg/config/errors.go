// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/z5labs/strata/pkg/config/key"
)

// ErrSchemaMismatch is returned when a layer is built on a parent which
// was built from a different Schema.
var ErrSchemaMismatch = errors.New("parent layer belongs to a different schema")

// UnknownFieldError occurs when an override names a field which is not
// declared by the Schema, or which is internal and thus not user settable.
type UnknownFieldError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownFieldError) Error() string {
	return fmt.Sprintf("unrecognized argument: %s", e.Name)
}

// InvalidValueError occurs when a value does not satisfy the field it is
// supplied for e.g. a codec fails to parse it or it has the wrong type.
type InvalidValueError struct {
	Field key.Name
	Input any
	Cause error
}

// Error implements the error interface.
func (e InvalidValueError) Error() string {
	return fmt.Sprintf("argument --%s: invalid value %v: %s", e.Field.Flag(), describe(e.Input), e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidValueError) Unwrap() error {
	return e.Cause
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("'%s'", s)
	}
	return fmt.Sprintf("%v", v)
}

// InvalidChoiceError occurs when a value is not one of a field's choices.
type InvalidChoiceError struct {
	Value   string
	Choices []string
}

// Error implements the error interface.
func (e InvalidChoiceError) Error() string {
	quoted := make([]string, len(e.Choices))
	for i, c := range e.Choices {
		quoted[i] = fmt.Sprintf("'%s'", c)
	}
	return fmt.Sprintf("invalid choice: '%s' (choose from %s)", e.Value, strings.Join(quoted, ", "))
}

// UnexpectedKindError occurs when a value's Go type cannot be coerced into
// the Kind declared for its field.
type UnexpectedKindError struct {
	Kind  Kind
	Value any
}

// Error implements the error interface.
func (e UnexpectedKindError) Error() string {
	return fmt.Sprintf("expected %s value but got %T", e.Kind, e.Value)
}

// InvalidFieldError occurs when a Field declaration is rejected by NewSchema.
type InvalidFieldError struct {
	Name   key.Name
	Reason string
}

// Error implements the error interface.
func (e InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field declaration %q: %s", e.Name, e.Reason)
}
