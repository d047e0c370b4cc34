// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package flagset compiles a config.Schema into a command line parser.
package flagset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/z5labs/strata/pkg/config"

	"github.com/spf13/pflag"
)

// ErrHelp is returned by Parse when -h or --help is given.
var ErrHelp = pflag.ErrHelp

// UnrecognizedArgumentError occurs when an argument does not name any
// declared flag, or is a stray positional argument.
type UnrecognizedArgumentError struct {
	Arg string
}

// Error implements the error interface.
func (e UnrecognizedArgumentError) Error() string {
	return fmt.Sprintf("unrecognized arguments: %s", e.Arg)
}

// Option configures a Parser.
type Option func(*Parser)

// WithProgramName sets the program name shown in usage output.
func WithProgramName(name string) Option {
	return func(p *Parser) {
		p.program = name
	}
}

// Parser parses command line arguments into layer overrides.
// It is safe for concurrent use.
type Parser struct {
	schema  *config.Schema
	program string
	fields  []config.Field

	// aliases maps multi-letter short aliases, e.g. "-mc", to long flags.
	aliases map[string]string
}

// Compile returns a Parser with one flag per non-internal field of schema.
func Compile(schema *config.Schema, opts ...Option) *Parser {
	p := &Parser{
		schema:  schema,
		program: programName(),
		aliases: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, f := range schema.Fields() {
		if f.Internal {
			continue
		}
		p.fields = append(p.fields, f)
		if len(f.Short) > 1 {
			p.aliases["-"+f.Short] = "--" + f.Name.Flag()
		}
	}
	return p
}

func programName() string {
	if len(os.Args) == 0 {
		return ""
	}
	return filepath.Base(os.Args[0])
}

// Schema returns the Schema p was compiled from.
func (p *Parser) Schema() *config.Schema {
	return p.schema
}

// Parse returns the overrides named by args. Only flags which are present
// in args are included, so absence stays distinguishable from any value.
func (p *Parser) Parse(args []string) (map[string]any, error) {
	st := &state{out: make(map[string]any)}
	fs := p.flagSet(st)

	err := fs.Parse(p.expandAliases(args))
	if st.err != nil {
		return nil, st.err
	}
	if errors.Is(err, pflag.ErrHelp) {
		return nil, ErrHelp
	}
	if err != nil {
		if arg, ok := unknownFlag(err); ok {
			return nil, UnrecognizedArgumentError{Arg: arg}
		}
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, UnrecognizedArgumentError{Arg: strings.Join(fs.Args(), " ")}
	}
	return st.out, nil
}

// Args returns an OverrideSource which parses args with p at src.
func Args(p *Parser, src config.Source, args []string) config.OverrideSource {
	return config.OverrideSourceFunc(func() (config.Source, map[string]any, error) {
		overrides, err := p.Parse(args)
		return src, overrides, err
	})
}

func (p *Parser) flagSet(st *state) *pflag.FlagSet {
	fs := pflag.NewFlagSet(p.program, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	for _, f := range p.fields {
		short := ""
		if len(f.Short) == 1 {
			short = f.Short
		}

		v := &value{field: f, st: st}
		flag := fs.VarPF(v, f.Name.Flag(), short, usage(f))
		switch {
		case f.Kind == config.Bool:
			flag.NoOptDefVal = "true"
		case f.Countable:
			flag.NoOptDefVal = "+1"
		}
	}
	return fs
}

func (p *Parser) expandAliases(args []string) []string {
	if len(p.aliases) == 0 {
		return args
	}

	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		if arg == "--" {
			copy(out[i:], args[i:])
			break
		}

		name, val, hasVal := strings.Cut(arg, "=")
		long, ok := p.aliases[name]
		if !ok {
			continue
		}
		out[i] = long
		if hasVal {
			out[i] = long + "=" + val
		}
	}
	return out
}

func unknownFlag(err error) (string, bool) {
	msg := err.Error()
	if arg, ok := strings.CutPrefix(msg, "unknown flag: "); ok {
		return arg, true
	}
	if strings.HasPrefix(msg, "unknown shorthand flag: ") {
		i := strings.LastIndex(msg, " in ")
		if i >= 0 {
			return msg[i+len(" in "):], true
		}
		return msg, true
	}
	return "", false
}
