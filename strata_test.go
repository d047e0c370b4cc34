// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/z5labs/strata/pkg/config"
	"github.com/z5labs/strata/pkg/config/codec"
	"github.com/z5labs/strata/pkg/config/flagset"
	"github.com/z5labs/strata/pkg/config/tomlfile"
	"github.com/z5labs/strata/pkg/solver"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testSchema(t *testing.T) *config.Schema {
	t.Helper()

	s, err := config.NewSchema(
		config.Field{Name: "root", Kind: config.String, Metavar: "ROOT", DefaultFunc: func() any { return "/work" }, NotInFile: true},
		config.Field{Name: "config", Kind: config.String, Metavar: "FILE", NotInFile: true},
		config.Field{Name: "loop", Kind: config.Int, Help: "set loop unrolling bounds", Default: 2, Metavar: "MAX_BOUND"},
		config.Field{Name: "depth", Kind: config.Int, Help: "set the maximum path length", Default: 0},
		config.Field{Name: "panic_error_codes", Kind: config.Custom, Default: "0x01", Codec: codec.IntSet()},
		config.Field{Name: "solver", Kind: config.String, Default: "yices", Group: "Solver options"},
		config.Field{Name: "solver_command", Kind: config.String, Default: "", Group: "Solver options"},
	)
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
	return path
}

func fakeRegistry() solver.Registry {
	return solver.Builtin(solver.WithLookPath(func(bin string) (string, error) {
		return "/bin/" + bin, nil
	}))
}

func TestEngine(t *testing.T) {
	t.Run("will build shared state once", func(t *testing.T) {
		e := New(testSchema(t))

		d1, err := e.DefaultLayer()
		require.NoError(t, err)
		d2, err := e.DefaultLayer()
		require.NoError(t, err)

		require.Same(t, d1, d2)
		require.Same(t, e.Parser(), e.Parser())
		require.Same(t, e.FileReader(), e.FileReader())
	})

	t.Run("will not share state between engines", func(t *testing.T) {
		s := testSchema(t)

		d1, err := New(s).DefaultLayer()
		require.NoError(t, err)
		d2, err := New(s).DefaultLayer()
		require.NoError(t, err)

		require.NotSame(t, d1, d2)
	})
}

func TestEngine_Load(t *testing.T) {
	t.Run("will resolve the config file below the command line", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "strata.toml", "[global]\nloop = 4\ndepth = 7\n")

		e := New(testSchema(t), WithFileName("strata.toml"), WithWorkingDir(root))
		cfg, err := e.Load([]string{"--depth", "9"})
		require.NoError(t, err)

		v, src, err := cfg.Resolve("loop")
		require.NoError(t, err)
		require.Equal(t, 4, v)
		require.Equal(t, config.ConfigFile, src)

		v, src, err = cfg.Resolve("depth")
		require.NoError(t, err)
		require.Equal(t, 9, v)
		require.Equal(t, config.CommandLine, src)

		require.Len(t, cfg.Layers(), 3)
	})

	t.Run("will leave a config file unset if there is none", func(t *testing.T) {
		e := New(testSchema(t), WithWorkingDir(t.TempDir()))

		cfg, err := e.Load([]string{"--loop", "5"})
		require.NoError(t, err)

		layers := cfg.Layers()
		require.Len(t, layers, 2)
		require.Equal(t, config.Default, layers[0].Source)
		require.Equal(t, config.CommandLine, layers[1].Source)
	})

	t.Run("will use the section and root given", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, tomlfile.DefaultFileName, "[strata]\nloop = 6\n")

		e := New(testSchema(t), WithSection("strata"))
		cfg, err := e.Load([]string{"--root", root})
		require.NoError(t, err)

		v, err := cfg.Get("loop")
		require.NoError(t, err)
		require.Equal(t, 6, v)

		v, err = cfg.Get("root")
		require.NoError(t, err)
		require.Equal(t, root, v)
	})

	t.Run("will log each applied layer", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		e := New(testSchema(t), WithWorkingDir(t.TempDir()), WithLogger(zap.New(core)))

		_, err := e.Load(nil)
		require.NoError(t, err)
		require.Equal(t, 1, logs.FilterMessage("applying config layer").Len())
	})

	t.Run("will return an error", func(t *testing.T) {
		testCases := []struct {
			Name   string
			File   string
			Args   []string
			Target any
		}{
			{
				Name:   "if an explicit config file does not exist",
				Args:   []string{"--config", "missing.toml"},
				Target: new(*os.PathError),
			},
			{
				Name:   "if the config file has two tables",
				File:   "[global]\n[other]\n",
				Target: new(tomlfile.FileStructureError),
			},
			{
				Name:   "if the config file has an unknown key",
				File:   "[global]\nloops = 1\n",
				Target: new(config.UnknownFieldError),
			},
			{
				Name:   "if an argument is not recognized",
				Args:   []string{"--loops", "1"},
				Target: new(flagset.UnrecognizedArgumentError),
			},
			{
				Name:   "if an argument value is invalid",
				Args:   []string{"--panic-error-codes", ""},
				Target: new(config.InvalidValueError),
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				root := t.TempDir()
				if testCase.File != "" {
					writeFile(t, root, tomlfile.DefaultFileName, testCase.File)
				}

				e := New(testSchema(t), WithWorkingDir(root))
				cfg, err := e.Load(testCase.Args)
				require.Nil(t, cfg)
				require.ErrorAs(t, err, testCase.Target)
				require.Equal(t, 2, ExitCode(err))
			})
		}
	})
}

func TestEngine_Annotate(t *testing.T) {
	e := New(testSchema(t), WithWorkingDir(t.TempDir()))

	cfg, err := e.Load([]string{"--depth", "3"})
	require.NoError(t, err)

	t.Run("will layer annotation options", func(t *testing.T) {
		annotated, err := e.Annotate(cfg, config.ContractAnnotation, "--loop 9 --depth 1")
		require.NoError(t, err)

		v, src, err := annotated.Resolve("loop")
		require.NoError(t, err)
		require.Equal(t, 9, v)
		require.Equal(t, config.ContractAnnotation, src)

		v, src, err = annotated.Resolve("depth")
		require.NoError(t, err)
		require.Equal(t, 3, v)
		require.Equal(t, config.CommandLine, src)
	})

	t.Run("will leave the annotated config unchanged", func(t *testing.T) {
		_, err := e.Annotate(cfg, config.FunctionAnnotation, "--loop 9")
		require.NoError(t, err)

		v, err := cfg.Get("loop")
		require.NoError(t, err)
		require.Equal(t, 2, v)
	})

	t.Run("will return an AnnotationError", func(t *testing.T) {
		t.Run("if the text has unbalanced quotes", func(t *testing.T) {
			_, err := e.Annotate(cfg, config.FunctionAnnotation, `--solver-command "z3`)

			var aerr AnnotationError
			require.ErrorAs(t, err, &aerr)
		})

		t.Run("if an option is not recognized", func(t *testing.T) {
			_, err := e.Annotate(cfg, config.FunctionAnnotation, "--width 3")

			var aerr AnnotationError
			require.ErrorAs(t, err, &aerr)

			var uerr flagset.UnrecognizedArgumentError
			require.ErrorAs(t, err, &uerr)
			require.Equal(t, 2, ExitCode(err))
		})
	})
}

func TestConfig_ResolvedSolverCommand(t *testing.T) {
	t.Run("will be safe for concurrent use", func(t *testing.T) {
		e := New(testSchema(t), WithWorkingDir(t.TempDir()), WithRegistry(fakeRegistry()))

		cfg, err := e.Load([]string{"--solver", "cvc5"})
		require.NoError(t, err)

		var wg sync.WaitGroup
		cmds := make([][]string, 16)
		for i := range cmds {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				cmds[i], _ = cfg.ResolvedSolverCommand(context.Background())
			}(i)
		}
		wg.Wait()

		for _, cmd := range cmds {
			require.Equal(t, []string{"/bin/cvc5", "--produce-models"}, cmd)
		}
	})

	t.Run("will prefer a command from a higher source silently", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		root := t.TempDir()
		writeFile(t, root, tomlfile.DefaultFileName, "[global]\nsolver = \"z3\"\n")

		e := New(testSchema(t), WithWorkingDir(root), WithRegistry(fakeRegistry()), WithLogger(zap.New(core)))
		cfg, err := e.Load([]string{"--solver-command", "bitwuzla -m"})
		require.NoError(t, err)

		cmd, err := cfg.ResolvedSolverCommand(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{"bitwuzla", "-m"}, cmd)
		require.Zero(t, logs.Len())
	})

	t.Run("will return a SolverResolutionError", func(t *testing.T) {
		t.Run("if the solver is unknown", func(t *testing.T) {
			e := New(testSchema(t), WithWorkingDir(t.TempDir()), WithRegistry(fakeRegistry()))

			cfg, err := e.Load([]string{"--solver", "mathsat"})
			require.NoError(t, err)

			_, err = cfg.ResolvedSolverCommand(context.Background())

			var serr solver.SolverResolutionError
			require.ErrorAs(t, err, &serr)
			require.Equal(t, 1, ExitCode(err))
		})
	})
}

func TestExitCode(t *testing.T) {
	testCases := []struct {
		Name string
		Err  error
		Code int
	}{
		{Name: "nil", Err: nil, Code: 0},
		{Name: "help", Err: flagset.ErrHelp, Code: 0},
		{Name: "unknown field", Err: config.UnknownFieldError{Name: "x"}, Code: 2},
		{Name: "wrapped file structure", Err: fmt.Errorf("load: %w", tomlfile.FileStructureError{Section: "global"}), Code: 2},
		{Name: "solver", Err: solver.SolverResolutionError{Solver: "z3", Cause: errors.New("missing")}, Code: 1},
		{Name: "other", Err: errors.New("boom"), Code: 1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			require.Equal(t, testCase.Code, ExitCode(testCase.Err))
		})
	}
}

func ExampleEngine_Load() {
	schema, err := config.NewSchema(
		config.Field{Name: "loop", Kind: config.Int, Default: 2},
		config.Field{Name: "ffi", Kind: config.Bool, Default: false},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	e := New(schema, WithWorkingDir(os.TempDir()), WithFileName("example-does-not-exist.toml"))
	cfg, err := e.Load([]string{"--ffi"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.FormatLayers())
	// Output: default:
	//   loop: 2
	//   ffi: false
	// command_line:
	//   ffi: true
}
