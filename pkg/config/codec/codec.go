// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package codec provides parse/format pairs for config fields whose external,
// textual representation differs from the value the rest of the program reads.
//
// Every codec is a two-sided inverse over its valid domain:
//
//	v2, _ := c.Parse(must(c.Format(v)))
//	// v2 == v
package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned by codecs which require at least one element.
var ErrEmpty = errors.New("required a non-empty list")

// UnexpectedTypeError is returned by Format when given a value which
// was not produced by the corresponding Parse.
type UnexpectedTypeError struct {
	Expected string
	Value    any
}

// Error implements the error interface.
func (e UnexpectedTypeError) Error() string {
	return fmt.Sprintf("expected value of type %s but got %T", e.Expected, e.Value)
}

// splitCSV returns the non-empty, whitespace trimmed items of s.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		items = append(items, p)
	}
	return items
}
