// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

// OverrideSource produces the overrides of a single layer e.g. parsed
// command line flags or a config file.
type OverrideSource interface {
	Overrides() (Source, map[string]any, error)
}

// OverrideSourceFunc is a functional implementation of OverrideSource.
type OverrideSourceFunc func() (Source, map[string]any, error)

// Overrides implements the OverrideSource interface.
func (f OverrideSourceFunc) Overrides() (Source, map[string]any, error) {
	return f()
}

// Map is a fixed set of overrides applied at Source.
type Map struct {
	Source Source
	Values map[string]any
}

// Overrides implements the OverrideSource interface.
func (m Map) Overrides() (Source, map[string]any, error) {
	return m.Source, m.Values, nil
}

// Stack layers each source on top of base, in order. Subsequent sources
// become children of previous ones. Either every layer is built or an error
// is returned.
func Stack(base *Layer, srcs ...OverrideSource) (*Layer, error) {
	layer := base
	for _, s := range srcs {
		src, overrides, err := s.Overrides()
		if err != nil {
			return nil, err
		}

		layer, err = layer.With(src, overrides)
		if err != nil {
			return nil, err
		}
	}
	return layer, nil
}
