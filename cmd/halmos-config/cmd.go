// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/internal/try"
	"github.com/z5labs/strata/pkg/config"
	"github.com/z5labs/strata/pkg/config/flagset"
	"github.com/z5labs/strata/pkg/config/tomlfile"
	"github.com/z5labs/strata/pkg/halmos"
	"github.com/z5labs/strata/pkg/solver"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

func newLogger(w io.Writer, args []string) *zap.Logger {
	level := zapcore.WarnLevel
	if slices.Contains(args, "--debug") {
		level = zapcore.DebugLevel
	}

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// load assembles the halmos configuration for args. Help requests print
// the usage of every option and return a nil Config.
func load(cmd *cobra.Command, args []string) (*strata.Config, error) {
	e := halmos.New(strata.WithLogger(newLogger(cmd.ErrOrStderr(), args)))

	cfg, err := e.Load(args)
	if errors.Is(err, flagset.ErrHelp) {
		return nil, e.Parser().Usage(cmd.OutOrStdout())
	}
	return cfg, err
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:                "halmos-config [options]",
		Short:              "Print a halmos config file for the given options",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			cfg, err := load(cmd, args)
			if err != nil || cfg == nil {
				return err
			}
			return cfg.WriteTemplate(cmd.OutOrStdout())
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(
		newLayersCmd(),
		newLocateCmd(),
		newSolverCommandCmd(),
		newSolversCmd(),
	)
	return cmd
}

type fieldDoc struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type layerDoc struct {
	Source string     `json:"source" yaml:"source"`
	Values []fieldDoc `json:"values" yaml:"values"`
}

func layerDocs(cfg *strata.Config) ([]layerDoc, error) {
	schema := cfg.Layer().Schema()

	var docs []layerDoc
	for _, lv := range cfg.Layers() {
		doc := layerDoc{Source: lv.Source.String(), Values: []fieldDoc{}}
		for _, fv := range lv.Values {
			f, err := schema.Field(fv.Name)
			if err != nil {
				return nil, err
			}
			s, err := f.Format(fv.Value)
			if err != nil {
				return nil, config.InvalidValueError{Field: fv.Name, Input: fv.Value, Cause: err}
			}
			doc.Values = append(doc.Values, fieldDoc{Name: string(fv.Name), Value: s})
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// UnknownFormatError occurs when the layers output format is not supported.
type UnknownFormatError struct {
	Format string
}

// Error implements the error interface.
func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format '%s' (choose from 'text', 'yaml', 'json')", e.Format)
}

func newLayersCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "layers [--format text|yaml|json] [-- options]",
		Short: "Print the values held by each configuration layer",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			cfg, err := load(cmd, args)
			if err != nil || cfg == nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format {
			case "text":
				_, err = fmt.Fprintln(w, cfg.FormatLayers())
				return err
			case "yaml", "json":
			default:
				return UnknownFormatError{Format: format}
			}

			docs, err := layerDocs(cfg)
			if err != nil {
				return err
			}
			if format == "json" {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(docs)
			}

			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			err = enc.Encode(docs)
			if err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, yaml or json")
	return cmd
}

func newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate [-- options]",
		Short: "Print the path of the config file, even if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			paths, err := tomlfile.LocateArgs(args, false, tomlfile.WithFileName(halmos.FileName))
			if err != nil {
				return err
			}
			for _, path := range paths {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newSolverCommandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solver-command [-- options]",
		Short: "Print the command used to invoke the SMT solver",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			cfg, err := load(cmd, args)
			if err != nil || cfg == nil {
				return err
			}

			command, err := cfg.ResolvedSolverCommand(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(command, " "))
			return err
		},
	}
}

func newSolversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solvers",
		Short: "Print which of the known solvers can be found",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			e := halmos.New(strata.WithLogger(newLogger(cmd.ErrOrStderr(), args)))
			r := e.Registry()

			avail, err := solver.Available(cmd.Context(), r, runtime.NumCPU(), r.Names()...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, a := range avail {
				if a.Err != nil {
					_, err = fmt.Fprintf(w, "%s\tunavailable: %s\n", a.Name, a.Err)
				} else {
					_, err = fmt.Fprintf(w, "%s\t%s\n", a.Name, strings.Join(a.Command, " "))
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}
