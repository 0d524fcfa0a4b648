package starlark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestNewContext(t *testing.T) {
	ctx, err := NewContext(map[string]any{
		"name":     "Ada",
		"some-key": "x",
	}, WithSample(&SampleInfo{Language: "python"}))
	require.NoError(t, err)

	globals := ctx.Globals()
	for _, key := range []string{"input", "json", "sample", "name"} {
		_, ok := globals[key]
		assert.True(t, ok, "global %q not found", key)
	}
	_, ok := globals["some-key"]
	assert.False(t, ok, "non-identifier keys stay reachable only through input")
}

func TestNewContext_UnsupportedValue(t *testing.T) {
	_, err := NewContext(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestExecutionContext_EvalExpr(t *testing.T) {
	ctx, err := NewContext(map[string]any{
		"name":      "my_sample",
		"count":     int64(3),
		"items":     []any{"a", "b"},
		"nested":    map[string]any{"key": "value"},
		"missing":   nil,
		"with-dash": "dashed",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		expr    string
		want    string
		wantErr bool
	}{
		{name: "simple string", expr: `"hello"`, want: "hello"},
		{name: "top level input", expr: `name`, want: "my_sample"},
		{name: "input dict access", expr: `input["with-dash"]`, want: "dashed"},
		{name: "string concatenation", expr: `"prefix_" + name`, want: "prefix_my_sample"},
		{name: "arithmetic", expr: `count * 2`, want: "6"},
		{name: "list join", expr: `", ".join(items)`, want: "a, b"},
		{name: "nested access", expr: `nested["key"]`, want: "value"},
		{name: "none renders empty", expr: `missing`, want: ""},
		{name: "conditional expression", expr: `"many" if count > 1 else "one"`, want: "many"},
		{name: "json encode", expr: `json.encode(items)`, want: `["a","b"]`},
		{name: "undefined variable", expr: `undefined_var`, wantErr: true},
		{name: "syntax error", expr: `if`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ctx.EvalExprString(tt.expr, "sample.py", 1)

			if tt.wantErr {
				assert.Error(t, err, "expected error")
				return
			}

			require.NoError(t, err, "unexpected error")
			assert.Equal(t, tt.want, result, "EvalExprString()")
		})
	}
}

func TestExecutionContext_EvalExprWithLocals(t *testing.T) {
	ctx, err := NewContext(map[string]any{"x": "global"})
	require.NoError(t, err)

	got, err := ctx.EvalExprStringWithLocals("x", "sample.js", 3, starlark.StringDict{
		"x": starlark.String("local"),
	})
	require.NoError(t, err)
	assert.Equal(t, "local", got, "locals shadow globals")

	got, err = ctx.EvalExprString("x", "sample.js", 4)
	require.NoError(t, err)
	assert.Equal(t, "global", got, "locals do not leak into globals")
}

func TestExecutionContext_SampleGlobal(t *testing.T) {
	ctx, err := NewContext(nil, WithSample(&SampleInfo{
		Language: "go",
		Dependencies: []DependencyInfo{
			{Name: "github.com/google/uuid", Version: "v1.6.0"},
		},
	}))
	require.NoError(t, err)

	got, err := ctx.EvalExprString(`sample.language + ":" + sample.dependencies[0].version`, "go.mod", 1)
	require.NoError(t, err)
	assert.Equal(t, "go:v1.6.0", got)
}

func TestExecutionContext_InputIsFrozen(t *testing.T) {
	ctx, err := NewContext(map[string]any{"items": []any{"a"}})
	require.NoError(t, err)

	_, err = ctx.EvalExpr(`items.append("b")`, "sample.py", 1)
	assert.Error(t, err, "input values are read-only during rendering")
}

func TestEvalError(t *testing.T) {
	tests := []struct {
		name string
		err  *EvalError
		want string
	}{
		{
			name: "with line number",
			err: &EvalError{
				File:    "sample.js",
				Line:    10,
				Expr:    "undefined_var",
				Message: "undefined: undefined_var",
			},
			want: `sample.js:10: error evaluating "undefined_var": undefined: undefined_var`,
		},
		{
			name: "without line number",
			err: &EvalError{
				File:    "sample.js",
				Line:    0,
				Expr:    "bad",
				Message: "syntax error",
			},
			want: `sample.js: error evaluating "bad": syntax error`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
