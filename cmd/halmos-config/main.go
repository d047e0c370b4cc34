// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command halmos-config inspects halmos configurations. Run without a
// subcommand it prints a config file for the given options:
//
//	halmos-config --loop 4 --solver z3 > halmos.toml
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/z5labs/strata"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
	}
	return strata.ExitCode(err)
}
