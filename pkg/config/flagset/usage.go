// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package flagset

import (
	"fmt"
	"io"

	"github.com/z5labs/strata/pkg/config"

	"github.com/spf13/pflag"
)

// Usage writes the help text of every flag to w. Ungrouped flags come
// first, followed by one section per group in declaration order.
//
// Deferred defaults are never evaluated here.
func (p *Parser) Usage(w io.Writer) error {
	fs := p.flagSet(&state{out: make(map[string]any)})

	sections := make(map[string]*pflag.FlagSet)
	for _, f := range p.fields {
		sec, ok := sections[f.Group]
		if !ok {
			sec = pflag.NewFlagSet(f.Group, pflag.ContinueOnError)
			sec.SortFlags = false
			sections[f.Group] = sec
		}
		sec.AddFlag(fs.Lookup(f.Name.Flag()))
	}

	_, err := fmt.Fprintf(w, "usage: %s [options]\n", p.program)
	if err != nil {
		return err
	}
	for _, group := range p.schema.Groups() {
		sec, ok := sections[group]
		if !ok {
			continue
		}

		title := group
		if title == "" {
			title = "options"
		}
		_, err = fmt.Fprintf(w, "\n%s:\n%s", title, sec.FlagUsagesWrapped(0))
		if err != nil {
			return err
		}
	}
	return nil
}

func usage(f config.Field) string {
	help := f.Help
	if len(f.Short) > 1 {
		help += fmt.Sprintf(" (alias: -%s)", f.Short)
	}
	if f.Kind == config.Bool || f.Countable {
		return help
	}
	if def, ok := f.DefaultString(); ok {
		help += fmt.Sprintf(" (default: %s)", def)
	}
	return help
}
