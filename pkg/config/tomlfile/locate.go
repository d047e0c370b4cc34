// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tomlfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

// Locate returns the config files to read, which is at most one.
//
// An explicit path is returned without checking that it exists, so that a
// missing file fails when read rather than being skipped. Otherwise the
// conventional file within root is returned. When requireExistence is set
// and that file does not exist, no files are returned.
func Locate(root, explicit string, requireExistence bool, opts ...Option) ([]string, error) {
	if explicit != "" {
		return []string{explicit}, nil
	}

	o := newOptions(opts...)
	if root == "" {
		root = o.workingDir
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}

	path := filepath.Join(root, o.fileName)
	if !requireExistence {
		return []string{path}, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return []string{path}, nil
}

// LocateArgs is like Locate but takes root and explicit from the --root and
// --config flags in args. Every other argument is ignored.
func LocateArgs(args []string, requireExistence bool, opts ...Option) ([]string, error) {
	fs := pflag.NewFlagSet("locate", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.ParseErrorsWhitelist.UnknownFlags = true

	root := fs.String("root", "", "")
	explicit := fs.String("config", "", "")

	err := fs.Parse(withoutHelp(args))
	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		return nil, err
	}
	return Locate(*root, *explicit, requireExistence, opts...)
}

func withoutHelp(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if arg == "-h" || arg == "--help" {
			continue
		}
		out = append(out, arg)
	}
	return out
}
