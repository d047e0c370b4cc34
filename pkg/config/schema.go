// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"strings"

	"github.com/z5labs/strata/pkg/config/key"
)

const (
	// ParentField is the internal field linking a layer to its parent.
	ParentField key.Name = "_parent"

	// SourceField is the internal field holding a layer's Source.
	SourceField key.Name = "_source"
)

// Schema is the immutable, ordered set of fields a configuration consists of.
type Schema struct {
	fields []Field
	index  map[key.Name]int
	groups []string
}

// NewSchema validates the given fields and returns a Schema preserving their
// declaration order. The internal ParentField and SourceField are always
// declared first.
func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields: make([]Field, 0, len(fields)+2),
		index:  make(map[key.Name]int, len(fields)+2),
	}
	s.add(Field{Name: ParentField, Kind: Custom, Internal: true})
	s.add(Field{Name: SourceField, Kind: Custom, Internal: true})

	shorts := make(map[string]key.Name)
	groups := map[string]bool{"": true}
	s.groups = append(s.groups, "")
	for _, f := range fields {
		err := validateField(f)
		if err != nil {
			return nil, err
		}
		if _, exists := s.index[f.Name]; exists {
			return nil, InvalidFieldError{Name: f.Name, Reason: "declared more than once"}
		}
		if f.Short != "" {
			if other, exists := shorts[f.Short]; exists {
				return nil, InvalidFieldError{Name: f.Name, Reason: "short alias already used by " + string(other)}
			}
			shorts[f.Short] = f.Name
		}
		if !groups[f.Group] {
			groups[f.Group] = true
			s.groups = append(s.groups, f.Group)
		}
		s.add(f)
	}
	return s, nil
}

func validateField(f Field) error {
	switch {
	case f.Name == "":
		return InvalidFieldError{Name: f.Name, Reason: "name must not be empty"}
	case strings.HasPrefix(string(f.Name), "_"):
		return InvalidFieldError{Name: f.Name, Reason: "names starting with an underscore are reserved"}
	case f.Internal:
		return InvalidFieldError{Name: f.Name, Reason: "internal fields are reserved"}
	case f.Countable && f.Kind != Int:
		return InvalidFieldError{Name: f.Name, Reason: "countable fields must be of kind int"}
	case len(f.Choices) > 0 && f.Kind != String:
		return InvalidFieldError{Name: f.Name, Reason: "choices are only supported on string fields"}
	case f.Codec != nil && f.Kind != Custom:
		return InvalidFieldError{Name: f.Name, Reason: "fields with a codec must be of kind custom"}
	}
	return nil
}

func (s *Schema) add(f Field) {
	f.Choices = append([]string(nil), f.Choices...)
	s.index[f.Name] = len(s.fields)
	s.fields = append(s.fields, f)
}

// Fields returns every field, including internal ones, in declaration order.
func (s *Schema) Fields() []Field {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}

// Field returns the named field or an UnknownFieldError.
func (s *Schema) Field(name key.Name) (Field, error) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, UnknownFieldError{Name: string(name)}
	}
	return s.fields[i], nil
}

// CodecFor returns the Codec of the named field, if it has one.
func (s *Schema) CodecFor(name key.Name) Codec {
	i, ok := s.index[name]
	if !ok {
		return nil
	}
	return s.fields[i].Codec
}

// Groups returns group names in order of first appearance. The ungrouped
// bucket, "", is always first.
func (s *Schema) Groups() []string {
	return append([]string(nil), s.groups...)
}
