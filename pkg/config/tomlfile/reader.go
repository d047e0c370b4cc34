// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tomlfile

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/z5labs/strata/internal/try"
	"github.com/z5labs/strata/pkg/config"
	"github.com/z5labs/strata/pkg/config/codec"
	"github.com/z5labs/strata/pkg/config/key"

	"github.com/BurntSushi/toml"
)

// Reader turns config files into layer overrides.
type Reader struct {
	schema  *config.Schema
	section string
}

// NewReader returns a Reader for files configuring the given schema.
func NewReader(schema *config.Schema, opts ...Option) *Reader {
	o := newOptions(opts...)
	return &Reader{
		schema:  schema,
		section: o.section,
	}
}

// ReadFile reads the config file at path. A missing file is an error.
func (r *Reader) ReadFile(path string) (_ map[string]any, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, f)

	return r.read(path, f)
}

// Read reads a config file from rd.
func (r *Reader) Read(rd io.Reader) (map[string]any, error) {
	return r.read("", rd)
}

func (r *Reader) read(path string, rd io.Reader) (map[string]any, error) {
	var doc map[string]any
	md, err := toml.NewDecoder(rd).Decode(&doc)
	if err != nil {
		return nil, SyntaxError{Path: path, Cause: err}
	}

	var order []string
	for _, k := range md.Keys() {
		if slices.Contains(order, k[0]) {
			continue
		}
		order = append(order, k[0])
	}

	overrides, err := r.ParseTables(doc, order)
	if err == nil {
		return overrides, nil
	}
	switch e := err.(type) {
	case FileStructureError:
		e.Path = path
		return nil, e
	case KeyError:
		e.Path = path
		return nil, e
	}
	return nil, err
}

// ParseTables extracts the overrides from an already decoded document.
// The order lists the top-level names in document order for diagnostics.
// Names of doc missing from order are reported after it, sorted.
//
// Hyphenated keys are translated to field names and values of fields with
// a codec are parsed. Unknown keys are passed through for layer
// construction to reject.
func (r *Reader) ParseTables(doc map[string]any, order []string) (map[string]any, error) {
	var missing []string
	for name := range doc {
		if !slices.Contains(order, name) {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	order = append(slices.Clone(order), missing...)

	if len(doc) != 1 {
		return nil, FileStructureError{Section: r.section, Names: order}
	}
	raw, ok := doc[r.section]
	if !ok {
		return nil, FileStructureError{Section: r.section, Names: order}
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, FileStructureError{Section: r.section, Names: []string{r.section}}
	}

	overrides := make(map[string]any, len(table))
	for k, v := range table {
		name := key.FromFlag(k)

		c := r.schema.CodecFor(name)
		if c == nil {
			overrides[string(name)] = v
			continue
		}

		pv, err := parse(name, c, v)
		if err != nil {
			return nil, KeyError{
				Key:   key.Chain{key.Name(r.section), key.Name(k)}.Key(),
				Cause: err,
			}
		}
		overrides[string(name)] = pv
	}
	return overrides, nil
}

func parse(name key.Name, c config.Codec, v any) (any, error) {
	s, ok := external(v)
	if !ok {
		return nil, config.InvalidValueError{
			Field: name,
			Input: v,
			Cause: codec.UnexpectedTypeError{Expected: "string", Value: v},
		}
	}

	pv, err := c.Parse(s)
	if err != nil {
		return nil, config.InvalidValueError{Field: name, Input: s, Cause: err}
	}
	return pv, nil
}

// external renders a decoded TOML value in the textual form codecs parse.
// Arrays are joined with commas.
func external(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int64, float64:
		return fmt.Sprint(x), true
	case []any:
		items := make([]string, len(x))
		for i, item := range x {
			s, ok := external(item)
			if !ok {
				return "", false
			}
			items[i] = s
		}
		return strings.Join(items, ","), true
	default:
		return "", false
	}
}

// File returns an OverrideSource which reads the config file at path.
func File(r *Reader, path string) config.OverrideSource {
	return config.OverrideSourceFunc(func() (config.Source, map[string]any, error) {
		overrides, err := r.ReadFile(path)
		return config.ConfigFile, overrides, err
	})
}
