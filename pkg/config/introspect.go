// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"strings"

	"github.com/z5labs/strata/pkg/config/key"
)

// FieldValue is a single value held by a layer.
type FieldValue struct {
	Name  key.Name
	Value any
}

// LayerValues is the content of a single layer.
type LayerValues struct {
	Source Source
	Values []FieldValue
}

// Layers returns the content of every layer from the root down to l.
// Values within a layer follow schema declaration order.
func (l *Layer) Layers() []LayerValues {
	var chain []*Layer
	for cur := l; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	out := make([]LayerValues, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		cur := chain[i]
		lv := LayerValues{Source: cur.source}
		for _, f := range cur.schema.fields {
			v, ok := cur.values[f.Name]
			if !ok {
				continue
			}
			lv.Values = append(lv.Values, FieldValue{Name: f.Name, Value: v})
		}
		out = append(out, lv)
	}
	return out
}

// Format renders every layer, oldest first, for diagnostics.
//
//	default:
//	  loop: 2
//	config_file:
//	  loop: 4
func (l *Layer) Format() string {
	var sb strings.Builder
	for i, lv := range l.Layers() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s:", lv.Source)
		for _, fv := range lv.Values {
			fmt.Fprintf(&sb, "\n  %s: %s", fv.Name, l.display(fv))
		}
	}
	return sb.String()
}

func (l *Layer) display(fv FieldValue) string {
	f, err := l.schema.Field(fv.Name)
	if err != nil {
		return fmt.Sprintf("%v", fv.Value)
	}
	s, err := f.Format(fv.Value)
	if err != nil {
		return fmt.Sprintf("%v", fv.Value)
	}
	return s
}
