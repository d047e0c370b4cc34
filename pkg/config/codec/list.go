// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package codec

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// IntListCodec parses a non-empty comma separated list of base 10 integers.
type IntListCodec struct{}

// IntList returns an [IntListCodec].
func IntList() IntListCodec {
	return IntListCodec{}
}

// Parse returns a []int.
func (IntListCodec) Parse(s string) (any, error) {
	items := splitCSV(s)
	ns := make([]int, 0, len(items))
	for _, item := range items {
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	if len(ns) == 0 {
		return nil, ErrEmpty
	}
	return ns, nil
}

// Format implements the inverse of Parse.
func (IntListCodec) Format(v any) (string, error) {
	ns, ok := v.([]int)
	if !ok {
		return "", UnexpectedTypeError{Expected: "[]int", Value: v}
	}
	ss := make([]string, len(ns))
	for i, n := range ns {
		ss[i] = strconv.Itoa(n)
	}
	return strings.Join(ss, ","), nil
}

// EnumListCodec parses a comma separated list of tags drawn from a closed set.
// An empty list is valid.
type EnumListCodec[T ~string] struct {
	valid []T
}

// EnumList returns an [EnumListCodec] accepting only the given tags.
func EnumList[T ~string](valid ...T) EnumListCodec[T] {
	return EnumListCodec[T]{valid: slices.Clone(valid)}
}

// UnknownTagError is returned when a tag outside of the closed set is parsed.
type UnknownTagError struct {
	Tag   string
	Valid []string
}

// Error implements the error interface.
func (e UnknownTagError) Error() string {
	return fmt.Sprintf("unknown value %q: the list of valid values is: %s", e.Tag, strings.Join(e.Valid, ", "))
}

// Parse returns a []T.
func (c EnumListCodec[T]) Parse(s string) (any, error) {
	items := splitCSV(s)
	tags := make([]T, 0, len(items))
	for _, item := range items {
		tag := T(item)
		if !slices.Contains(c.valid, tag) {
			return nil, UnknownTagError{Tag: item, Valid: c.names()}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Format implements the inverse of Parse.
func (c EnumListCodec[T]) Format(v any) (string, error) {
	tags, ok := v.([]T)
	if !ok {
		return "", UnexpectedTypeError{Expected: fmt.Sprintf("%T", []T(nil)), Value: v}
	}
	ss := make([]string, len(tags))
	for i, tag := range tags {
		ss[i] = string(tag)
	}
	return strings.Join(ss, ","), nil
}

func (c EnumListCodec[T]) names() []string {
	ss := make([]string, len(c.valid))
	for i, tag := range c.valid {
		ss[i] = string(tag)
	}
	return ss
}
