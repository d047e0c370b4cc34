// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package key provides types for naming configuration fields in their
// internal and external spellings.
package key

import (
	"strings"
)

// Keyer is a common interface all value key types must implement.
type Keyer interface {
	Key() string
}

// Chain represents nested keys e.g. a key inside a config file section.
type Chain []Keyer

// Key implements the [Keyer] interface.
func (k Chain) Key() string {
	ss := make([]string, len(k))
	for i := range len(k) {
		ss[i] = k[i].Key()
	}
	return strings.Join(ss, ".")
}

// Name is a field name in its canonical, underscore separated form
// e.g. "match_contract".
type Name string

// Key implements the [Keyer] interface.
func (k Name) Key() string {
	return string(k)
}

// Flag returns the hyphen separated spelling used by command line
// flags and config file keys e.g. "match-contract".
func (k Name) Flag() string {
	return strings.ReplaceAll(string(k), "_", "-")
}

// FromFlag converts an external, hyphen separated spelling back into
// its canonical [Name].
func FromFlag(s string) Name {
	return Name(strings.ReplaceAll(s, "-", "_"))
}
