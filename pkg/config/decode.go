// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"reflect"

	"github.com/z5labs/strata/pkg/config/key"

	"github.com/go-viper/mapstructure/v2"
)

// Decode copies the effective values of l into v, which must be a pointer
// to a struct. Struct fields are matched by their `config` tag.
//
// Values of fields with a Codec convert between their resolved and
// external forms as the struct field requires. A string override is
// parsed by the codec and a resolved value decoded into a string is
// formatted by it.
func (l *Layer) Decode(v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "config",
		Result:     v,
		DecodeHook: fieldValueHookFunc(),
	})
	if err != nil {
		return err
	}

	eff := l.Effective()
	in := make(map[string]any, len(eff))
	for name, value := range eff {
		f, err := l.schema.Field(key.Name(name))
		if err != nil {
			return err
		}
		in[name] = fieldValue{field: f, value: value}
	}
	return dec.Decode(in)
}

// fieldValue carries a resolved value along with the field it belongs to
// until the decode target is known.
type fieldValue struct {
	field Field
	value any
}

var stringType = reflect.TypeOf("")

func fieldValueHookFunc() mapstructure.DecodeHookFuncValue {
	return func(from, to reflect.Value) (any, error) {
		fv, ok := from.Interface().(fieldValue)
		if !ok {
			return from.Interface(), nil
		}

		f, v := fv.field, fv.value
		vt := reflect.TypeOf(v)
		if f.Codec == nil || to.Kind() == reflect.Interface || vt.AssignableTo(to.Type()) {
			return v, nil
		}

		if s, ok := v.(string); ok {
			parsed, err := f.Codec.Parse(s)
			if err != nil {
				return nil, InvalidValueError{Field: f.Name, Input: s, Cause: err}
			}
			return parsed, nil
		}
		if to.Type() == stringType {
			s, err := f.Format(v)
			if err != nil {
				return nil, InvalidValueError{Field: f.Name, Input: v, Cause: err}
			}
			return s, nil
		}
		return v, nil
	}
}
