// Package starlark provides the Starlark execution context used to evaluate
// template expressions against sample input values.
package starlark

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// SampleInfo describes the sample being rendered.
// Exposed as the "sample" global in Starlark execution.
type SampleInfo struct {
	Language     string
	Dependencies []DependencyInfo
}

// DependencyInfo is one package dependency of a sample.
type DependencyInfo struct {
	Name    string
	Version string
}

// ToStarlark converts SampleInfo to a Starlark struct value.
func (s *SampleInfo) ToStarlark() starlark.Value {
	deps := make([]starlark.Value, len(s.Dependencies))
	for i, d := range s.Dependencies {
		deps[i] = starlarkstruct.FromStringDict(starlark.String("dependency"), starlark.StringDict{
			"name":    starlark.String(d.Name),
			"version": starlark.String(d.Version),
		})
	}
	return starlarkstruct.FromStringDict(starlark.String("sample"), starlark.StringDict{
		"language":     starlark.String(s.Language),
		"dependencies": starlark.NewList(deps),
	})
}

// GoToStarlark converts a Go value to a Starlark value.
// Supported types: string, int, int64, uint64, float64, bool, []string, []any,
// []map[string]any, map[string]any.
// Dict keys are inserted in sorted order so iteration is deterministic.
func GoToStarlark(v any) (starlark.Value, error) {
	if v == nil {
		return starlark.None, nil
	}

	switch val := v.(type) {
	case string:
		return starlark.String(val), nil

	case int:
		return starlark.MakeInt(val), nil

	case int64:
		return starlark.MakeInt64(val), nil

	case uint64:
		return starlark.MakeUint64(val), nil

	case float64:
		return starlark.Float(val), nil

	case bool:
		return starlark.Bool(val), nil

	case []string:
		list := make([]starlark.Value, len(val))
		for i, s := range val {
			list[i] = starlark.String(s)
		}
		return starlark.NewList(list), nil

	case []any:
		list := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := GoToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list[i] = sv
		}
		return starlark.NewList(list), nil

	case []map[string]any:
		list := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := GoToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list[i] = sv
		}
		return starlark.NewList(list), nil

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		dict := starlark.NewDict(len(val))
		for _, k := range keys {
			sv, err := GoToStarlark(val[k])
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", k, err)
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, fmt.Errorf("dict setkey %q: %w", k, err)
			}
		}
		return dict, nil

	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// ToGo converts a Starlark value back to a Go value.
// Returns: string, int64, float64, bool, []any, map[string]any, or nil
func ToGo(v starlark.Value) (any, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil

	case starlark.String:
		return string(val), nil

	case starlark.Int:
		i64, ok := val.Int64()
		if !ok {
			return val.String(), nil
		}
		return i64, nil

	case starlark.Float:
		return float64(val), nil

	case starlark.Bool:
		return bool(val), nil

	case *starlark.List:
		return sequenceToGo(val, "list")

	case starlark.Tuple:
		return sequenceToGo(val, "tuple")

	case *starlark.Dict:
		result := make(map[string]any, val.Len())
		for _, item := range val.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key must be string, got %s", item[0].Type())
			}
			gv, err := ToGo(item[1])
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", key, err)
			}
			result[string(key)] = gv
		}
		return result, nil

	default:
		return val.String(), nil
	}
}

func sequenceToGo(seq starlark.Indexable, kind string) ([]any, error) {
	result := make([]any, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		gv, err := ToGo(seq.Index(i))
		if err != nil {
			return nil, fmt.Errorf("%s index %d: %w", kind, i, err)
		}
		result[i] = gv
	}
	return result, nil
}
