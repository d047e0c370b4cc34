// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides layered configuration resolution.
//
// A [Schema] declares every configuration field once: its type, help text,
// global default, command line spelling and optional [Codec]. Values are then
// supplied by any number of immutable [Layer]s, each tagged with the [Source]
// it came from. Layers form a chain from the most specific layer back to the
// root default layer and reads walk that chain, returning the value from the
// highest precedence source which actually set the field.
//
// # Basic Usage
//
//	schema, err := config.NewSchema(
//	    config.Field{Name: "loop", Kind: config.Int, Default: 2},
//	)
//	defaults, err := config.DefaultLayer(schema)
//	cli, err := defaults.With(config.CommandLine, map[string]any{"loop": 4})
//
//	v, src := cli.Resolve("loop") // 4, config.CommandLine
//
// # Absence
//
// A layer which does not set a field has no opinion on it. Absence is
// transparent: adding layers which leave a field unset never changes what
// [Layer.Resolve] returns for that field.
package config
