package starlark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredeclared(t *testing.T) {
	input, err := InputToStarlark(map[string]any{
		"greeting": "hi",
		"for":      "keyword",
		"2fast":    "digit",
		"_private": "ok",
	})
	require.NoError(t, err)

	globals := Predeclared(input, nil)

	assert.Contains(t, globals, "greeting")
	assert.Contains(t, globals, "_private")
	assert.NotContains(t, globals, "for")
	assert.NotContains(t, globals, "2fast")
	assert.NotContains(t, globals, "sample", "sample is only set when info is given")
	assert.Equal(t, input, globals["input"])
}

func TestPredeclared_InputCannotShadowInputDict(t *testing.T) {
	input, err := InputToStarlark(map[string]any{"input": "shadow"})
	require.NoError(t, err)

	globals := Predeclared(input, nil)
	assert.Equal(t, input, globals["input"])
}

func TestInputToStarlark_Nil(t *testing.T) {
	d, err := InputToStarlark(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestIsIdent(t *testing.T) {
	tests := map[string]bool{
		"name":   true,
		"Name_2": true,
		"_":      true,
		"":       false,
		"a-b":    false,
		"9lives": false,
		"lambda": false,
	}
	for in, want := range tests {
		assert.Equal(t, want, isIdent(in), "isIdent(%q)", in)
	}
}
