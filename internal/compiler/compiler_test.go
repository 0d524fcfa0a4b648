package compiler

import (
	"errors"
	"testing"

	"github.com/brandor64/caleuche/internal/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findItem(items []Item, name string) (Item, bool) {
	for _, it := range items {
		if it.FileName == name {
			return it, true
		}
	}
	return Item{}, false
}

func TestCompile_TargetFileNames(t *testing.T) {
	tests := []struct {
		lang sample.Language
		want string
	}{
		{sample.JavaScript, "sample.js"},
		{sample.Python, "sample.py"},
		{sample.CSharp, "Sample.cs"},
		{sample.Java, "Sample.java"},
		{sample.Go, "sample.go"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			s := &sample.Sample{Template: `console.log("Hello");`, Type: tt.lang}
			out, err := New().Compile(s, nil, Options{})
			require.NoError(t, err)
			require.Len(t, out.Items, 1)
			assert.Equal(t, tt.want, out.Items[0].FileName)
			assert.Equal(t, `console.log("Hello");`, out.Items[0].Content)
		})
	}
}

func TestCompile_UnsupportedLanguage(t *testing.T) {
	s := &sample.Sample{Template: "echo hi", Type: "shell"}

	_, err := New().Compile(s, nil, Options{})
	require.Error(t, err)
	assert.EqualError(t, err, "Unsupported language: shell. Cannot generate sample file.")

	_, err = New().Compile(s, nil, Options{Project: true})
	require.Error(t, err)
	var langErr *UnsupportedLanguageError
	require.True(t, errors.As(err, &langErr))
	assert.Equal(t, "project", langErr.File)
}

func TestCompile_InputHandling(t *testing.T) {
	s := &sample.Sample{
		Template: `console.log("Hello, {{ name }}! Port: {{ port }}");`,
		Type:     sample.JavaScript,
		Input: []sample.Input{
			{Name: "name", Type: "string", Required: true},
			{Name: "port", Type: "number", Default: int64(3000)},
		},
	}

	tests := []struct {
		name    string
		input   map[string]any
		want    string
		wantErr string
	}{
		{
			name:  "default for optional input",
			input: map[string]any{"name": "World"},
			want:  `console.log("Hello, World! Port: 3000");`,
		},
		{
			name:  "provided value wins over default",
			input: map[string]any{"name": "World", "port": int64(8080)},
			want:  `console.log("Hello, World! Port: 8080");`,
		},
		{
			name:    "missing required input",
			input:   map[string]any{"port": int64(1)},
			wantErr: "Missing required input: name. Please provide a value for this input.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := New().Compile(s, tt.input, Options{})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Items[0].Content)
		})
	}
}

func TestFillInput(t *testing.T) {
	decls := []sample.Input{
		{Name: "a", Required: true},
		{Name: "b"},
		{Name: "c", Default: "dflt"},
	}

	got, err := FillInput(decls, map[string]any{"a": nil, "undeclared": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": nil, "b": nil, "c": "dflt"}, got)
}

func TestCompile_StatementLinesLeaveNoBlankLines(t *testing.T) {
	s := &sample.Sample{
		Template: `console.log("Before");
{* if True: *}
console.log("Inside");
{* endif *}
console.log("After");
`,
		Type: sample.JavaScript,
	}

	out, err := New().Compile(s, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "console.log(\"Before\");\nconsole.log(\"Inside\");\nconsole.log(\"After\");\n", out.Items[0].Content)
}

func TestCompile_ProjectFiles(t *testing.T) {
	tests := []struct {
		lang        sample.Language
		buildSystem string
		projectFile string
	}{
		{sample.JavaScript, "", "package.json"},
		{sample.Python, "", "requirements.txt"},
		{sample.CSharp, "", "Sample.csproj"},
		{sample.Java, "", "pom.xml"},
		{sample.Java, "gradle", "build.gradle"},
		{sample.Go, "", "go.mod"},
	}

	for _, tt := range tests {
		t.Run(tt.projectFile, func(t *testing.T) {
			s := &sample.Sample{
				Template:     "hello",
				Type:         tt.lang,
				BuildSystem:  tt.buildSystem,
				Dependencies: []sample.Dependency{{Name: "test-dep", Version: "1.0.0"}},
			}

			out, err := New().Compile(s, nil, Options{Project: true})
			require.NoError(t, err)
			require.Len(t, out.Items, 2)
			assert.Equal(t, tt.projectFile, out.Items[0].FileName, "project file comes first")
			assert.Contains(t, out.Items[0].Content, "test-dep")
		})
	}
}

func TestCompile_PackageJSON(t *testing.T) {
	t.Run("empty dependencies", func(t *testing.T) {
		s := &sample.Sample{Template: "x", Type: sample.JavaScript}
		out, err := New().Compile(s, nil, Options{Project: true})
		require.NoError(t, err)

		pkg, ok := findItem(out.Items, "package.json")
		require.True(t, ok)
		assert.Contains(t, pkg.Content, "\"dependencies\": {\n  }")
	})

	t.Run("multiple dependencies", func(t *testing.T) {
		s := &sample.Sample{
			Template: "x",
			Type:     sample.JavaScript,
			Dependencies: []sample.Dependency{
				{Name: "lodash", Version: "^4.17.21"},
				{Name: "axios", Version: "^1.0.0"},
			},
		}
		out, err := New().Compile(s, nil, Options{Project: true})
		require.NoError(t, err)

		pkg, ok := findItem(out.Items, "package.json")
		require.True(t, ok)
		assert.Contains(t, pkg.Content, "    \"lodash\": \"^4.17.21\",\n    \"axios\": \"^1.0.0\"\n  }")
	})
}

func TestCompile_GoMod(t *testing.T) {
	s := &sample.Sample{
		Template:     "package main",
		Type:         sample.Go,
		Dependencies: []sample.Dependency{{Name: "github.com/google/uuid", Version: "v1.6.0"}},
	}

	out, err := New().Compile(s, nil, Options{Project: true})
	require.NoError(t, err)

	mod, ok := findItem(out.Items, "go.mod")
	require.True(t, ok)
	assert.Equal(t, "module sample\n\ngo 1.22\n\nrequire (\n\tgithub.com/google/uuid v1.6.0\n)\n", mod.Content)
}

func TestCompile_RequirementsVersionSpecifiers(t *testing.T) {
	s := &sample.Sample{
		Template: "x",
		Type:     sample.Python,
		Dependencies: []sample.Dependency{
			{Name: "requests", Version: "2.31.0"},
			{Name: "azure-identity", Version: ">=1.15"},
			{Name: "rich", Version: ""},
		},
	}

	out, err := New().Compile(s, nil, Options{Project: true})
	require.NoError(t, err)

	req, ok := findItem(out.Items, "requirements.txt")
	require.True(t, ok)
	assert.Equal(t, "requests==2.31.0\nazure-identity>=1.15\nrich\n", req.Content)
}

func TestCompile_NoProjectFileByDefault(t *testing.T) {
	s := &sample.Sample{
		Template:     `print("Hello")`,
		Type:         sample.Python,
		Dependencies: []sample.Dependency{{Name: "requests", Version: "^2.0.0"}},
	}

	out, err := New().Compile(s, nil, Options{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "sample.py", out.Items[0].FileName)
}

func TestCompile_Tags(t *testing.T) {
	s := &sample.Sample{
		Template: "x",
		Type:     sample.Python,
		Tags:     map[string]any{"tag2": "value2", "tag1": "value1"},
	}

	out, err := New().Compile(s, nil, Options{})
	require.NoError(t, err)

	tags, ok := findItem(out.Items, TagsFileName)
	require.True(t, ok)
	assert.Equal(t, "tag1: value1\ntag2: value2\n", tags.Content)
}

func TestCompile_TestItems(t *testing.T) {
	s := &sample.Sample{
		Template: `endpoint = "{{ endpoint }}"; key = "{{ key }}"`,
		Type:     sample.Python,
		Input: []sample.Input{
			{Name: "endpoint", Required: true},
			{Name: "key", Required: true},
		},
		TestInput:     map[string]any{"endpoint": "https://test", "key": "test-key"},
		TestOverrides: &sample.TestOverrides{Input: map[string]any{"endpoint": "https://override"}},
	}
	input := map[string]any{"endpoint": "https://prod", "key": "prod-key"}

	t.Run("generated when requested", func(t *testing.T) {
		out, err := New().Compile(s, input, Options{GenerateTest: true})
		require.NoError(t, err)

		require.Len(t, out.Items, 1)
		assert.Equal(t, `endpoint = "https://prod"; key = "prod-key"`, out.Items[0].Content)

		require.Len(t, out.TestItems, 1)
		assert.Equal(t, "sample.py", out.TestItems[0].FileName)
		assert.Equal(t, `endpoint = "https://override"; key = "test-key"`, out.TestItems[0].Content)
	})

	t.Run("skipped when not requested", func(t *testing.T) {
		out, err := New().Compile(s, input, Options{})
		require.NoError(t, err)
		assert.Empty(t, out.TestItems)
	})

	t.Run("overrides do not leak into sample", func(t *testing.T) {
		_, err := New().Compile(s, input, Options{GenerateTest: true})
		require.NoError(t, err)
		assert.Equal(t, "https://test", s.TestInput["endpoint"])
	})
}

func TestCompile_RenderError(t *testing.T) {
	s := &sample.Sample{Template: "{{ undefined_name }}", Type: sample.Go}

	_, err := New().Compile(s, nil, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample.go:1:1")
}
