// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"sync"

	"github.com/z5labs/strata/pkg/config/key"
)

// Layer is an immutable set of field values from a single Source, chained
// to a parent layer. A parent may be shared by any number of children.
//
// Layers are safe for concurrent use once constructed.
type Layer struct {
	schema *Schema
	source Source
	values map[key.Name]any
	parent *Layer

	// memo caches Resolve results of declared fields for this layer only
	memo sync.Map
}

type resolution struct {
	value  any
	source Source
}

// NewLayer returns a new Layer holding the given overrides. Keys must name
// non-internal fields of schema and nil values are treated as unset.
func NewLayer(schema *Schema, parent *Layer, src Source, overrides map[string]any) (*Layer, error) {
	if parent != nil && parent.schema != schema {
		return nil, ErrSchemaMismatch
	}

	values := make(map[key.Name]any, len(overrides))
	for k, v := range overrides {
		name := key.Name(k)
		f, err := schema.Field(name)
		if err != nil {
			return nil, err
		}
		if f.Internal {
			return nil, UnknownFieldError{Name: k}
		}
		if v == nil {
			continue
		}

		cv, err := f.Coerce(v)
		if err != nil {
			return nil, InvalidValueError{Field: name, Input: v, Cause: err}
		}
		values[name] = cv
	}

	l := &Layer{
		schema: schema,
		source: src,
		values: values,
		parent: parent,
	}
	return l, nil
}

// With returns a new child of l holding the given overrides.
func (l *Layer) With(src Source, overrides map[string]any) (*Layer, error) {
	return NewLayer(l.schema, l, src, overrides)
}

// Schema returns the Schema l was built from.
func (l *Layer) Schema() *Schema {
	return l.schema
}

// Source returns the Source of l itself.
func (l *Layer) Source() Source {
	return l.source
}

// Parent returns the parent of l, or nil for a root layer.
func (l *Layer) Parent() *Layer {
	return l.parent
}

// Own returns the value l itself holds for the named field.
func (l *Layer) Own(name key.Name) (any, bool) {
	v, ok := l.values[name]
	return v, ok
}

// Resolve walks from l to the root and returns the value of the highest
// precedence layer which set the named field, along with its Source. Of two
// layers with the same Source, the one closer to l wins. A field which is
// set nowhere resolves to (nil, Void).
//
// Returned values are shared with the layer and must not be modified.
func (l *Layer) Resolve(name key.Name) (any, Source) {
	if r, ok := l.memo.Load(name); ok {
		res := r.(resolution)
		return res.value, res.source
	}

	best := resolution{source: Void}
	for cur := l; cur != nil; cur = cur.parent {
		v, ok := cur.values[name]
		if !ok || cur.source <= best.source {
			continue
		}
		best = resolution{value: v, source: cur.source}
	}

	if _, declared := l.schema.index[name]; declared {
		l.memo.Store(name, best)
	}
	return best.value, best.source
}

// Lookup is like Resolve but fails with an UnknownFieldError if the schema
// does not declare the named, user settable field.
func (l *Layer) Lookup(name key.Name) (any, Source, error) {
	f, err := l.schema.Field(name)
	if err != nil {
		return nil, Void, err
	}
	if f.Internal {
		return nil, Void, UnknownFieldError{Name: string(name)}
	}
	v, src := l.Resolve(name)
	return v, src, nil
}

// Effective returns the resolved value of every set, non-internal field.
func (l *Layer) Effective() map[string]any {
	m := make(map[string]any)
	for _, f := range l.schema.fields {
		if f.Internal {
			continue
		}
		v, src := l.Resolve(f.Name)
		if src == Void {
			continue
		}
		m[string(f.Name)] = v
	}
	return m
}
