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

// MatchAny is the external form of the empty [Set].
const MatchAny = "*"

// Set is a set of integers. The empty set is interpreted by consumers as
// "match any value".
type Set map[int64]struct{}

// NewSet returns a Set containing the given values.
func NewSet(vs ...int64) Set {
	s := make(Set, len(vs))
	for _, v := range vs {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in the set. The empty set has every value.
func (s Set) Has(v int64) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[v]
	return ok
}

// Sorted returns the members of s in ascending order.
func (s Set) Sorted() []int64 {
	vs := make([]int64, 0, len(s))
	for v := range s {
		vs = append(vs, v)
	}
	slices.Sort(vs)
	return vs
}

// IntSetCodec parses comma separated integers written in any base
// recognized by strconv.ParseInt with base 0 e.g. 1, 0x01, 0o7, 0b11.
type IntSetCodec struct{}

// IntSet returns an [IntSetCodec].
func IntSet() IntSetCodec {
	return IntSetCodec{}
}

// Parse returns a [Set].
func (IntSetCodec) Parse(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == MatchAny {
		return Set{}, nil
	}

	items := splitCSV(s)
	if len(items) == 0 {
		return nil, ErrEmpty
	}

	set := make(Set, len(items))
	for _, item := range items {
		v, err := strconv.ParseInt(item, 0, 64)
		if err != nil {
			return nil, err
		}
		set[v] = struct{}{}
	}
	return set, nil
}

// Format renders the members in ascending order as hex literals.
func (IntSetCodec) Format(v any) (string, error) {
	set, ok := v.(Set)
	if !ok {
		return "", UnexpectedTypeError{Expected: "codec.Set", Value: v}
	}
	if len(set) == 0 {
		return MatchAny, nil
	}

	vs := set.Sorted()
	ss := make([]string, len(vs))
	for i, v := range vs {
		if v < 0 {
			ss[i] = fmt.Sprintf("-0x%02x", uint64(-v))
			continue
		}
		ss[i] = fmt.Sprintf("0x%02x", v)
	}
	return strings.Join(ss, ","), nil
}
