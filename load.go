// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"github.com/z5labs/strata/pkg/config"
	"github.com/z5labs/strata/pkg/config/flagset"
	"github.com/z5labs/strata/pkg/config/tomlfile"

	"github.com/google/shlex"
	"go.uber.org/zap"
)

// Load assembles the configuration for the given command line arguments.
//
// The config file named by --config, or else the conventional file in
// --root if it exists, is layered on the defaults. The arguments are
// layered on top. Either the whole configuration is built or an error
// is returned.
func (e *Engine) Load(args []string) (*Config, error) {
	defaults, err := e.DefaultLayer()
	if err != nil {
		return nil, err
	}

	paths, err := tomlfile.LocateArgs(args, true, e.fileOptions()...)
	if err != nil {
		return nil, err
	}

	srcs := make([]config.OverrideSource, 0, len(paths)+1)
	for _, path := range paths {
		e.log.Debug("reading config file", zap.String("path", path))
		srcs = append(srcs, e.logged(tomlfile.File(e.FileReader(), path)))
	}
	srcs = append(srcs, e.logged(flagset.Args(e.Parser(), config.CommandLine, args)))

	layer, err := config.Stack(defaults, srcs...)
	if err != nil {
		return nil, err
	}
	return newConfig(e, layer), nil
}

// Annotate layers the options given in an annotation, e.g. the text of a
// contract's or function's @custom:halmos tag, on top of cfg at src.
func (e *Engine) Annotate(cfg *Config, src config.Source, text string) (*Config, error) {
	args, err := shlex.Split(text)
	if err != nil {
		return nil, AnnotationError{Text: text, Cause: err}
	}

	layer, err := config.Stack(cfg.layer, e.logged(flagset.Args(e.Parser(), src, args)))
	if err != nil {
		return nil, AnnotationError{Text: text, Cause: err}
	}
	return newConfig(e, layer), nil
}

func (e *Engine) logged(src config.OverrideSource) config.OverrideSource {
	return config.OverrideSourceFunc(func() (config.Source, map[string]any, error) {
		s, overrides, err := src.Overrides()
		if err != nil {
			return s, nil, err
		}
		e.log.Debug(
			"applying config layer",
			zap.Stringer("source", s),
			zap.Int("values", len(overrides)),
		)
		return s, overrides, nil
	})
}
