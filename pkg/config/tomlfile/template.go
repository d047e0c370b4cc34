// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tomlfile

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/z5labs/strata/pkg/config"

	"github.com/BurntSushi/toml"
)

const bannerWidth = 80

// WriteTemplate renders the resolved values of layer as a config file.
//
// Fields are grouped as in command line usage. Internal, deprecated and
// NotInFile fields are left out. A field is commented out, showing its
// metavar, when it resolves to nothing or when its default is deferred
// and was not overridden on the command line.
func WriteTemplate(w io.Writer, layer *config.Layer, opts ...Option) error {
	o := newOptions(opts...)
	schema := layer.Schema()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[%s]\n", o.section)

	fields := schema.Fields()
	for _, group := range schema.Groups() {
		wroteBanner := false
		for _, f := range fields {
			if f.Group != group || f.Internal || f.Deprecated || f.NotInFile {
				continue
			}
			if group != "" && !wroteBanner {
				buf.WriteString(banner(group))
				wroteBanner = true
			}

			err := writeField(&buf, layer, f)
			if err != nil {
				return err
			}
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func writeField(buf *bytes.Buffer, layer *config.Layer, f config.Field) error {
	buf.WriteByte('\n')
	if f.Help != "" {
		fmt.Fprintf(buf, "# %s\n", strings.Join(strings.Split(f.Help, ". "), "\n# "))
	}

	name := f.Name.Flag()
	v, src := layer.Resolve(f.Name)
	if src == config.Void || (f.HasDeferredDefault() && src != config.CommandLine) {
		fmt.Fprintf(buf, "# %s = %s\n", name, metavar(f))
		return nil
	}

	if f.Kind == config.Custom {
		s, err := f.Format(v)
		if err != nil {
			return config.InvalidValueError{Field: f.Name, Input: v, Cause: err}
		}
		v = s
	}
	return toml.NewEncoder(buf).Encode(map[string]any{name: v})
}

func metavar(f config.Field) string {
	if f.Metavar != "" {
		return f.Metavar
	}
	return strings.ToUpper(string(f.Name))
}

// banner renders a group title centered in a box of '#'.
func banner(title string) string {
	sep := strings.Repeat("#", bannerWidth)
	pad := max(bannerWidth-4-len(title), 0)
	left := pad / 2
	return fmt.Sprintf(
		"\n%s\n# %s%s%s #\n%s\n",
		sep,
		strings.Repeat(" ", left),
		title,
		strings.Repeat(" ", pad-left),
		sep,
	)
}
