// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

// DefaultLayer builds the root layer of every configuration chain by
// evaluating each field's global default. String defaults of fields with
// a Codec are parsed by it.
func DefaultLayer(schema *Schema) (*Layer, error) {
	values := make(map[string]any)
	for _, f := range schema.fields {
		if f.Internal {
			continue
		}

		raw := f.Default
		if f.DefaultFunc != nil {
			raw = f.DefaultFunc()
		}
		if raw == nil {
			continue
		}

		s, isString := raw.(string)
		if f.Codec == nil || !isString {
			values[string(f.Name)] = raw
			continue
		}

		v, err := f.Codec.Parse(s)
		if err != nil {
			return nil, InvalidValueError{Field: f.Name, Input: s, Cause: err}
		}
		values[string(f.Name)] = v
	}
	return NewLayer(schema, nil, Default, values)
}
