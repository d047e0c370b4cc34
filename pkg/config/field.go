// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"math"
	"slices"

	"github.com/z5labs/strata/pkg/config/key"
)

// Kind is the primitive type of a field's resolved value.
type Kind int

const (
	// String fields resolve to a string.
	String Kind = iota

	// Bool fields resolve to a bool and are presence flags on the command line.
	Bool

	// Int fields resolve to an int.
	Int

	// Custom fields resolve to whatever their Codec parses.
	Custom
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Codec translates between a field's external, textual form and its
// resolved value.
type Codec interface {
	Parse(string) (any, error)
	Format(any) (string, error)
}

// Field declares a single configuration field.
type Field struct {
	// Name is unique within a Schema.
	Name key.Name
	Kind Kind
	Help string

	// Default is the literal global default. A nil Default, with no
	// DefaultFunc, leaves the field unset in the default layer.
	Default any

	// DefaultFunc, if set, is called instead of using Default. It is only
	// evaluated when building the default layer, never for help output.
	DefaultFunc func() any

	// DefaultDisplay replaces the rendered default in help output.
	DefaultDisplay string

	Metavar string

	// Group names the help and config template section. Empty means ungrouped.
	Group string

	Choices []string

	// Short is an optional alias e.g. "v" for -v or "mc" for -mc.
	Short string

	// Countable fields count the occurrences of their flag.
	Countable bool

	Codec Codec

	// Internal fields are plumbing and never user settable.
	Internal bool

	// Deprecated fields are accepted but omitted from config templates.
	Deprecated bool

	// NotInFile fields are omitted from config templates e.g. the path of
	// the config file itself.
	NotInFile bool
}

// HasDeferredDefault reports whether the default depends on the runtime
// environment and is evaluated lazily.
func (f Field) HasDeferredDefault() bool {
	return f.DefaultFunc != nil
}

// DefaultString renders the default for help output. The second return
// is false when there is no default to show.
func (f Field) DefaultString() (string, bool) {
	if f.DefaultDisplay != "" {
		return f.DefaultDisplay, true
	}
	if f.DefaultFunc != nil || f.Default == nil {
		return "", false
	}
	if s, ok := f.Default.(string); ok {
		return fmt.Sprintf("'%s'", s), true
	}
	return fmt.Sprintf("%v", f.Default), true
}

// Format renders a resolved value in its external form.
func (f Field) Format(v any) (string, error) {
	if f.Codec != nil {
		return f.Codec.Format(v)
	}
	return fmt.Sprintf("%v", v), nil
}

// Coerce converts v into the Go type dictated by the field's Kind and
// validates it against the field's Choices.
func (f Field) Coerce(v any) (any, error) {
	switch f.Kind {
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, UnexpectedKindError{Kind: f.Kind, Value: v}
		}
		if len(f.Choices) > 0 && !slices.Contains(f.Choices, s) {
			return nil, InvalidChoiceError{Value: s, Choices: f.Choices}
		}
		return s, nil
	case Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, UnexpectedKindError{Kind: f.Kind, Value: v}
		}
		return b, nil
	case Int:
		return coerceInt(f.Kind, v)
	default:
		return v, nil
	}
}

func coerceInt(k Kind, v any) (any, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int8:
		return int(x), nil
	case int16:
		return int(x), nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case uint:
		return int(x), nil
	case uint8:
		return int(x), nil
	case uint16:
		return int(x), nil
	case uint32:
		return int(x), nil
	case uint64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return nil, UnexpectedKindError{Kind: k, Value: v}
		}
		return int(x), nil
	default:
		return nil, UnexpectedKindError{Kind: k, Value: v}
	}
}
