// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/z5labs/strata/pkg/config/codec"
	"github.com/z5labs/strata/pkg/config/key"

	"github.com/stretchr/testify/require"
)

func mustLayer(t *testing.T, parent *Layer, src Source, overrides map[string]any) *Layer {
	t.Helper()

	l, err := parent.With(src, overrides)
	require.NoError(t, err)
	return l
}

func mustDefaults(t *testing.T) *Layer {
	t.Helper()

	l, err := DefaultLayer(testSchema())
	require.NoError(t, err)
	return l
}

func TestNewLayer(t *testing.T) {
	t.Run("will return an UnknownFieldError", func(t *testing.T) {
		t.Run("if an override is not declared by the schema", func(t *testing.T) {
			_, err := NewLayer(testSchema(), nil, CommandLine, map[string]any{"loops": 3})

			var uerr UnknownFieldError
			require.ErrorAs(t, err, &uerr)
			require.Equal(t, "loops", uerr.Name)
			require.Contains(t, uerr.Error(), "loops")
		})

		t.Run("if an override names an internal field", func(t *testing.T) {
			for _, name := range []key.Name{ParentField, SourceField} {
				_, err := NewLayer(testSchema(), nil, CommandLine, map[string]any{string(name): 1})

				var uerr UnknownFieldError
				require.ErrorAs(t, err, &uerr)
			}
		})
	})

	t.Run("will return an InvalidValueError", func(t *testing.T) {
		t.Run("if a value has the wrong type", func(t *testing.T) {
			_, err := NewLayer(testSchema(), nil, ConfigFile, map[string]any{"loop": "four"})

			var verr InvalidValueError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, key.Name("loop"), verr.Field)
			require.Equal(t, "four", verr.Input)
		})

		t.Run("if a value is not one of the choices", func(t *testing.T) {
			_, err := NewLayer(testSchema(), nil, ConfigFile, map[string]any{"storage_layout": "vyper"})

			var cerr InvalidChoiceError
			require.ErrorAs(t, err, &cerr)
		})
	})

	t.Run("will return ErrSchemaMismatch", func(t *testing.T) {
		t.Run("if the parent was built from another schema", func(t *testing.T) {
			parent := mustDefaults(t)

			_, err := NewLayer(testSchema(), parent, CommandLine, nil)
			require.ErrorIs(t, err, ErrSchemaMismatch)
		})
	})

	t.Run("will treat nil values as unset", func(t *testing.T) {
		defaults := mustDefaults(t)
		l := mustLayer(t, defaults, CommandLine, map[string]any{"loop": nil})

		_, ok := l.Own("loop")
		require.False(t, ok)

		v, src := l.Resolve("loop")
		require.Equal(t, 2, v)
		require.Equal(t, Default, src)
	})

	t.Run("will not be affected by later changes to the overrides map", func(t *testing.T) {
		overrides := map[string]any{"loop": 3}
		l, err := NewLayer(testSchema(), nil, CommandLine, overrides)
		require.NoError(t, err)

		overrides["loop"] = 5
		v, _ := l.Resolve("loop")
		require.Equal(t, 3, v)
	})
}

func memoLen(l *Layer) int {
	n := 0
	l.memo.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func TestLayer_Resolve(t *testing.T) {
	t.Run("will only memoize declared fields", func(t *testing.T) {
		cli := mustLayer(t, mustDefaults(t), CommandLine, map[string]any{"loop": 4})

		for i := 0; i < 100; i++ {
			v, src := cli.Resolve(key.Name(fmt.Sprintf("undeclared_%d", i)))
			require.Nil(t, v)
			require.Equal(t, Void, src)
		}
		require.Zero(t, memoLen(cli))

		v, src := cli.Resolve("loop")
		require.Equal(t, 4, v)
		require.Equal(t, CommandLine, src)
		require.Equal(t, 1, memoLen(cli))
	})

	t.Run("will return the command line value", func(t *testing.T) {
		t.Run("if only the command line layer sets the field", func(t *testing.T) {
			defaults := mustDefaults(t)
			file := mustLayer(t, defaults, ConfigFile, map[string]any{"ffi": true})
			cli := mustLayer(t, file, CommandLine, map[string]any{"coverage_output": "cov.txt"})

			v, src := cli.Resolve("coverage_output")
			require.Equal(t, "cov.txt", v)
			require.Equal(t, CommandLine, src)
		})

		t.Run("regardless of what lower layers contain", func(t *testing.T) {
			defaults := mustDefaults(t)
			file := mustLayer(t, defaults, ConfigFile, map[string]any{"loop": 4})
			cli := mustLayer(t, file, CommandLine, map[string]any{"loop": 8})

			v, src := cli.Resolve("loop")
			require.Equal(t, 8, v)
			require.Equal(t, CommandLine, src)
		})
	})

	t.Run("will return (nil, Void)", func(t *testing.T) {
		t.Run("if no layer sets the field", func(t *testing.T) {
			defaults := mustDefaults(t)
			file := mustLayer(t, defaults, ConfigFile, nil)
			cli := mustLayer(t, file, CommandLine, nil)

			v, src := cli.Resolve("coverage_output")
			require.Nil(t, v)
			require.Equal(t, Void, src)
		})
	})

	t.Run("will fall through layers which leave the field unset", func(t *testing.T) {
		defaults := mustDefaults(t)
		file := mustLayer(t, defaults, ConfigFile, map[string]any{"loop": 4})
		cli := mustLayer(t, file, CommandLine, map[string]any{})

		v, src := cli.Resolve("loop")
		require.Equal(t, 4, v)
		require.Equal(t, ConfigFile, src)
	})

	t.Run("will be unaffected by any number of intermediate empty layers", func(t *testing.T) {
		defaults := mustDefaults(t)
		file := mustLayer(t, defaults, ConfigFile, map[string]any{"loop": 4})

		l := file
		for _, src := range []Source{ContractAnnotation, FunctionAnnotation, CommandLine, CommandLine} {
			l = mustLayer(t, l, src, nil)

			v, vsrc := l.Resolve("loop")
			require.Equal(t, 4, v)
			require.Equal(t, ConfigFile, vsrc)
		}
	})

	t.Run("will prefer a higher source even if it is further from the leaf", func(t *testing.T) {
		defaults := mustDefaults(t)
		cli := mustLayer(t, defaults, CommandLine, map[string]any{"loop": 8})
		file := mustLayer(t, cli, ConfigFile, map[string]any{"loop": 4})

		v, src := file.Resolve("loop")
		require.Equal(t, 8, v)
		require.Equal(t, CommandLine, src)
	})

	t.Run("will prefer the layer closer to the leaf when sources tie", func(t *testing.T) {
		defaults := mustDefaults(t)
		first := mustLayer(t, defaults, FunctionAnnotation, map[string]any{"loop": 3})
		second := mustLayer(t, first, FunctionAnnotation, map[string]any{"loop": 5})

		v, src := second.Resolve("loop")
		require.Equal(t, 5, v)
		require.Equal(t, FunctionAnnotation, src)
	})

	t.Run("will never let a void layer win", func(t *testing.T) {
		defaults := mustDefaults(t)
		void := mustLayer(t, defaults, Void, map[string]any{"coverage_output": "x"})

		v, src := void.Resolve("coverage_output")
		require.Nil(t, v)
		require.Equal(t, Void, src)
	})

	t.Run("will not share cached results between layers with equal content", func(t *testing.T) {
		defaults := mustDefaults(t)
		a := mustLayer(t, defaults, ConfigFile, map[string]any{"loop": 4})
		b := mustLayer(t, defaults, ConfigFile, map[string]any{"loop": 4})
		c := mustLayer(t, b, CommandLine, map[string]any{"loop": 6})

		va, _ := a.Resolve("loop")
		vc, _ := c.Resolve("loop")
		vb, _ := b.Resolve("loop")
		require.Equal(t, 4, va)
		require.Equal(t, 4, vb)
		require.Equal(t, 6, vc)
	})

	t.Run("will allow shared parents", func(t *testing.T) {
		defaults := mustDefaults(t)
		contract := mustLayer(t, defaults, ContractAnnotation, map[string]any{"loop": 3})
		fnA := mustLayer(t, contract, FunctionAnnotation, map[string]any{"loop": 7})
		fnB := mustLayer(t, contract, FunctionAnnotation, nil)

		va, _ := fnA.Resolve("loop")
		vb, srcB := fnB.Resolve("loop")
		require.Equal(t, 7, va)
		require.Equal(t, 3, vb)
		require.Equal(t, ContractAnnotation, srcB)
	})

	t.Run("will be safe for concurrent use", func(t *testing.T) {
		defaults := mustDefaults(t)
		cli := mustLayer(t, defaults, CommandLine, map[string]any{"loop": 9})

		var wg sync.WaitGroup
		results := make([]any, 32)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = cli.Resolve("loop")
			}(i)
		}
		wg.Wait()

		for _, v := range results {
			require.Equal(t, 9, v)
		}
	})
}

func TestLayer_Lookup(t *testing.T) {
	defaults := mustDefaults(t)

	t.Run("will return an UnknownFieldError", func(t *testing.T) {
		t.Run("if the field is not declared", func(t *testing.T) {
			_, _, err := defaults.Lookup("nope")

			var uerr UnknownFieldError
			require.ErrorAs(t, err, &uerr)
		})

		t.Run("if the field is internal", func(t *testing.T) {
			_, _, err := defaults.Lookup(SourceField)

			var uerr UnknownFieldError
			require.ErrorAs(t, err, &uerr)
		})
	})

	t.Run("will resolve declared fields", func(t *testing.T) {
		v, src, err := defaults.Lookup("storage_layout")
		require.NoError(t, err)
		require.Equal(t, "solidity", v)
		require.Equal(t, Default, src)
	})
}

func TestDefaultLayer(t *testing.T) {
	t.Run("will evaluate deferred defaults", func(t *testing.T) {
		l := mustDefaults(t)

		v, src := l.Resolve("root")
		require.Equal(t, "/work", v)
		require.Equal(t, Default, src)
		require.Nil(t, l.Parent())
		require.Equal(t, Default, l.Source())
	})

	t.Run("will parse string defaults of fields with a codec", func(t *testing.T) {
		l := mustDefaults(t)

		v, _ := l.Resolve("panic_error_codes")
		require.Equal(t, codec.NewSet(1), v)

		v, _ = l.Resolve("solver_timeout_branching")
		require.Equal(t, time.Millisecond, v)

		v, _ = l.Resolve("array_lengths")
		require.Equal(t, map[string][]int{}, v)
	})

	t.Run("will leave fields without a default unset", func(t *testing.T) {
		l := mustDefaults(t)

		_, ok := l.Own("coverage_output")
		require.False(t, ok)
	})

	t.Run("will return an InvalidValueError", func(t *testing.T) {
		t.Run("if a default does not parse", func(t *testing.T) {
			s, err := NewSchema(Field{Name: "lengths", Kind: Custom, Default: "", Codec: codec.IntList()})
			require.NoError(t, err)

			_, err = DefaultLayer(s)

			var verr InvalidValueError
			require.ErrorAs(t, err, &verr)
			require.ErrorIs(t, err, codec.ErrEmpty)
		})
	})
}

func TestLayer_Effective(t *testing.T) {
	defaults := mustDefaults(t)
	cli := mustLayer(t, defaults, CommandLine, map[string]any{"loop": 4, "coverage_output": "cov"})

	m := cli.Effective()
	require.Equal(t, 4, m["loop"])
	require.Equal(t, "cov", m["coverage_output"])
	require.Equal(t, "solidity", m["storage_layout"])
	require.NotContains(t, m, string(ParentField))
	require.NotContains(t, m, string(SourceField))
}

func TestStack(t *testing.T) {
	t.Run("will layer sources in order", func(t *testing.T) {
		defaults := mustDefaults(t)

		l, err := Stack(
			defaults,
			Map{Source: ConfigFile, Values: map[string]any{"loop": 4}},
			Map{Source: CommandLine, Values: map[string]any{}},
		)
		require.NoError(t, err)

		v, src := l.Resolve("loop")
		require.Equal(t, 4, v)
		require.Equal(t, ConfigFile, src)
		require.Len(t, l.Layers(), 3)
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a source fails", func(t *testing.T) {
			defaults := mustDefaults(t)
			srcErr := UnknownFieldError{Name: "x"}

			l, err := Stack(defaults, OverrideSourceFunc(func() (Source, map[string]any, error) {
				return Void, nil, srcErr
			}))
			require.ErrorIs(t, err, srcErr)
			require.Nil(t, l)
		})

		t.Run("if a layer cannot be built", func(t *testing.T) {
			defaults := mustDefaults(t)

			l, err := Stack(defaults, Map{Source: ConfigFile, Values: map[string]any{"bogus": 1}})

			var uerr UnknownFieldError
			require.ErrorAs(t, err, &uerr)
			require.Nil(t, l)
		})
	})
}

func TestSource(t *testing.T) {
	t.Run("will order sources by precedence", func(t *testing.T) {
		order := []Source{Void, Default, ConfigFile, ContractAnnotation, FunctionAnnotation, CommandLine}
		for i := 1; i < len(order); i++ {
			require.Less(t, order[i-1], order[i])
		}
	})

	t.Run("will round trip its string form", func(t *testing.T) {
		for _, src := range []Source{Void, Default, ConfigFile, ContractAnnotation, FunctionAnnotation, CommandLine} {
			got, ok := ParseSource(src.String())
			require.True(t, ok)
			require.Equal(t, src, got)
		}

		_, ok := ParseSource("environment")
		require.False(t, ok)
	})
}
