// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package codec

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	// the findall pattern alone is not sufficient to reject malformed input
	arrayLengthsGrammar = regexp.MustCompile(`^([^=,{}]+=(\{[\d,]+\}|\d+)(,|$))*$`)
	arrayLengthsEntry   = regexp.MustCompile(`([^=,{}]+)=(?:\{([\d,]+)\}|(\d+))`)
)

// ArrayLengthsCodec parses per-name length lists written as
// "name1={1,2,3},name2=4".
type ArrayLengthsCodec struct{}

// ArrayLengths returns an [ArrayLengthsCodec].
func ArrayLengths() ArrayLengthsCodec {
	return ArrayLengthsCodec{}
}

// InvalidArrayLengthsError is returned when the input does not follow the
// "name={n,...},name=n" grammar.
type InvalidArrayLengthsError struct {
	Input string
}

// Error implements the error interface.
func (e InvalidArrayLengthsError) Error() string {
	return fmt.Sprintf("invalid array lengths format: %s", e.Input)
}

// Parse returns a map[string][]int. The empty string parses to the empty map.
func (ArrayLengthsCodec) Parse(s string) (any, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return map[string][]int{}, nil
	}
	if !arrayLengthsGrammar.MatchString(s) {
		return nil, InvalidArrayLengthsError{Input: s}
	}

	lengths := make(map[string][]int)
	for _, m := range arrayLengthsEntry.FindAllStringSubmatch(s, -1) {
		sizes := m[2]
		if sizes == "" {
			sizes = m[3]
		}

		items := splitCSV(sizes)
		ns := make([]int, 0, len(items))
		for _, item := range items {
			n, err := strconv.Atoi(item)
			if err != nil {
				return nil, err
			}
			ns = append(ns, n)
		}
		if len(ns) == 0 {
			return nil, fmt.Errorf("%s: %w", m[1], ErrEmpty)
		}
		lengths[m[1]] = ns
	}
	return lengths, nil
}

// Format renders names in sorted order, always using the braced form.
func (ArrayLengthsCodec) Format(v any) (string, error) {
	lengths, ok := v.(map[string][]int)
	if !ok {
		return "", UnexpectedTypeError{Expected: "map[string][]int", Value: v}
	}

	names := make([]string, 0, len(lengths))
	for name := range lengths {
		names = append(names, name)
	}
	slices.Sort(names)

	entries := make([]string, len(names))
	for i, name := range names {
		sizes := make([]string, len(lengths[name]))
		for j, n := range lengths[name] {
			sizes[j] = strconv.Itoa(n)
		}
		entries[i] = fmt.Sprintf("%s={%s}", name, strings.Join(sizes, ","))
	}
	return strings.Join(entries, ","), nil
}
