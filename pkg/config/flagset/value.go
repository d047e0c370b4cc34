// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package flagset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/z5labs/strata/pkg/config"
)

// state collects the result of a single Parse call.
type state struct {
	out map[string]any

	// err holds the first value error. pflag only keeps the message of
	// errors returned by Value.Set.
	err error
}

// value implements pflag.Value for a single field.
type value struct {
	field config.Field
	st    *state
}

func (v *value) Set(s string) error {
	x, err := v.parse(s)
	if err != nil {
		err = config.InvalidValueError{Field: v.field.Name, Input: s, Cause: err}
		if v.st.err == nil {
			v.st.err = err
		}
		return err
	}
	v.st.out[string(v.field.Name)] = x
	return nil
}

func (v *value) parse(s string) (any, error) {
	f := v.field
	switch {
	case f.Codec != nil:
		return f.Codec.Parse(s)
	case f.Countable:
		if s != "+1" {
			return strconv.Atoi(s)
		}
		n, _ := v.st.out[string(f.Name)].(int)
		return n + 1, nil
	case f.Kind == config.Bool:
		return strconv.ParseBool(s)
	case f.Kind == config.Int:
		return strconv.Atoi(s)
	case len(f.Choices) > 0 && !slices.Contains(f.Choices, s):
		return nil, config.InvalidChoiceError{Value: s, Choices: f.Choices}
	default:
		return s, nil
	}
}

func (v *value) String() string {
	x, ok := v.st.out[string(v.field.Name)]
	if !ok {
		return ""
	}
	s, err := v.field.Format(x)
	if err != nil {
		return fmt.Sprintf("%v", x)
	}
	return s
}

// Type is shown as the argument placeholder in usage output.
func (v *value) Type() string {
	f := v.field
	switch {
	case f.Kind == config.Bool:
		return "bool"
	case f.Countable:
		return "count"
	case f.Metavar != "":
		return f.Metavar
	default:
		return strings.ToUpper(string(f.Name))
	}
}
