// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package codec

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPattern = regexp.MustCompile(`^(\d+(?:\.\d*)?|\.\d+)\s*(ms|s|m|h)?$`)

var durationUnits = map[string]time.Duration{
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
}

// DurationCodec parses time strings like "200ms", "5s", "2m" or "1h".
// Numbers without a unit are interpreted in the configured default unit.
type DurationCodec struct {
	defaultUnit time.Duration
}

// Duration returns a [DurationCodec] which uses defaultUnit for bare numbers.
func Duration(defaultUnit time.Duration) DurationCodec {
	return DurationCodec{defaultUnit: defaultUnit}
}

// InvalidDurationError is returned when the input does not follow the
// "<number>[unit]" grammar or does not fit in a time.Duration.
type InvalidDurationError struct {
	Input string
}

// Error implements the error interface.
func (e InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid time format %q: expected a number optionally followed by one of ms, s, m, h", e.Input)
}

// Parse returns a time.Duration.
func (c DurationCodec) Parse(s string) (any, error) {
	s = strings.TrimSpace(s)
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, InvalidDurationError{Input: s}
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, InvalidDurationError{Input: s}
	}

	unit := c.defaultUnit
	if m[2] != "" {
		unit = durationUnits[m[2]]
	}
	d := n * float64(unit)
	if d >= math.MaxInt64 {
		return nil, InvalidDurationError{Input: s}
	}
	return time.Duration(d), nil
}

// Format renders durations below one second as whole milliseconds and
// everything else as whole seconds.
func (c DurationCodec) Format(v any) (string, error) {
	d, ok := v.(time.Duration)
	if !ok {
		return "", UnexpectedTypeError{Expected: "time.Duration", Value: v}
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds()), nil
	}
	return fmt.Sprintf("%ds", int64(d/time.Second)), nil
}
