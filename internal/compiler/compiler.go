// Package compiler renders a sample template against concrete input values
// and produces the files of a generated sample project.
package compiler

import (
	"embed"
	"fmt"
	"maps"

	"github.com/brandor64/caleuche/internal/sample"
	starctx "github.com/brandor64/caleuche/internal/starlark"
	"github.com/brandor64/caleuche/internal/template"
	"gopkg.in/yaml.v3"
)

//go:embed project-templates/*.tmpl
var projectTemplates embed.FS

// TagsFileName is the file holding a sample's tags.
const TagsFileName = "tags.yaml"

// MissingInputError is returned when a required input has no value.
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("Missing required input: %s. Please provide a value for this input.", e.Name)
}

// UnsupportedLanguageError is returned for samples with an unknown type.
// File is the kind of file that could not be generated: sample or project.
type UnsupportedLanguageError struct {
	Language sample.Language
	File     string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("Unsupported language: %s. Cannot generate %s file.", e.Language, e.File)
}

// Item is one generated file.
type Item struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

// Output is the result of compiling a sample.
type Output struct {
	Items     []Item `json:"items"`
	TestItems []Item `json:"testItems,omitempty"`
}

// Options controls what Compile generates.
type Options struct {
	// Project adds the language's project file (go.mod, package.json, ...).
	Project bool
	// GenerateTest renders the sample a second time from its testInput.
	GenerateTest bool
}

// Compiler renders samples. The zero value is ready to use.
type Compiler struct{}

// New creates a Compiler.
func New() *Compiler {
	return &Compiler{}
}

// Compile fills the sample's declared inputs from input, renders the sample
// file (and the project file when requested) and adds tags.yaml when the
// sample has tags. With GenerateTest and a testInput, the same files are
// rendered again from testInput overlaid by testOverrides.input into
// TestItems.
func (c *Compiler) Compile(s *sample.Sample, input map[string]any, opts Options) (*Output, error) {
	items, err := c.render(s, input, opts.Project)
	if err != nil {
		return nil, err
	}

	if len(s.Tags) > 0 {
		content, err := yaml.Marshal(s.Tags)
		if err != nil {
			return nil, fmt.Errorf("encoding tags: %w", err)
		}
		items = append(items, Item{FileName: TagsFileName, Content: string(content)})
	}

	out := &Output{Items: items}

	if opts.GenerateTest && s.TestInput != nil {
		testInput := maps.Clone(s.TestInput)
		if s.TestOverrides != nil {
			maps.Copy(testInput, s.TestOverrides.Input)
		}
		out.TestItems, err = c.render(s, testInput, opts.Project)
		if err != nil {
			return nil, fmt.Errorf("test variant: %w", err)
		}
	}

	return out, nil
}

func (c *Compiler) render(s *sample.Sample, input map[string]any, project bool) ([]Item, error) {
	var items []Item

	info := sampleInfo(s)

	if project {
		item, err := renderProjectFile(s, info)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	filled, err := FillInput(s.Input, input)
	if err != nil {
		return nil, err
	}

	fileName, err := TargetFileName(s.Type)
	if err != nil {
		return nil, err
	}

	ctx, err := starctx.NewContext(filled, starctx.WithSample(info))
	if err != nil {
		return nil, err
	}

	content, err := template.RenderString(s.Template, fileName, ctx, template.TrimStatementLines())
	if err != nil {
		return nil, err
	}

	return append(items, Item{FileName: fileName, Content: content}), nil
}

// FillInput builds the template input from the declarations. A provided
// value always wins, a missing optional input gets its default (nil when it
// has none) and a missing required input is an error. Undeclared keys are
// dropped.
func FillInput(decls []sample.Input, input map[string]any) (map[string]any, error) {
	filled := make(map[string]any, len(decls))
	for _, d := range decls {
		if v, ok := input[d.Name]; ok {
			filled[d.Name] = v
			continue
		}
		if !d.Required {
			filled[d.Name] = d.Default
			continue
		}
		return nil, &MissingInputError{Name: d.Name}
	}
	return filled, nil
}

// TargetFileName returns the name of the generated sample file for lang.
func TargetFileName(lang sample.Language) (string, error) {
	switch lang {
	case sample.CSharp:
		return "Sample.cs", nil
	case sample.Go:
		return "sample.go", nil
	case sample.JavaScript:
		return "sample.js", nil
	case sample.Java:
		return "Sample.java", nil
	case sample.Python:
		return "sample.py", nil
	default:
		return "", &UnsupportedLanguageError{Language: lang, File: "sample"}
	}
}

// ProjectFileName returns the project file generated for s.
func ProjectFileName(s *sample.Sample) (string, error) {
	switch s.Type {
	case sample.CSharp:
		return "Sample.csproj", nil
	case sample.Go:
		return "go.mod", nil
	case sample.JavaScript:
		return "package.json", nil
	case sample.Java:
		if s.BuildSystem == "gradle" {
			return "build.gradle", nil
		}
		return "pom.xml", nil
	case sample.Python:
		return "requirements.txt", nil
	default:
		return "", &UnsupportedLanguageError{Language: s.Type, File: "project"}
	}
}

func renderProjectFile(s *sample.Sample, info *starctx.SampleInfo) (Item, error) {
	fileName, err := ProjectFileName(s)
	if err != nil {
		return Item{}, err
	}

	src, err := projectTemplates.ReadFile("project-templates/" + fileName + ".tmpl")
	if err != nil {
		return Item{}, fmt.Errorf("reading project template %s: %w", fileName, err)
	}

	deps := make([]any, len(s.Dependencies))
	for i, d := range s.Dependencies {
		deps[i] = map[string]any{"name": d.Name, "version": d.Version}
	}

	ctx, err := starctx.NewContext(map[string]any{"dependencies": deps}, starctx.WithSample(info))
	if err != nil {
		return Item{}, err
	}

	content, err := template.RenderString(string(src), fileName, ctx, template.TrimStatementLines())
	if err != nil {
		return Item{}, fmt.Errorf("rendering %s: %w", fileName, err)
	}
	return Item{FileName: fileName, Content: content}, nil
}

func sampleInfo(s *sample.Sample) *starctx.SampleInfo {
	info := &starctx.SampleInfo{Language: string(s.Type)}
	for _, d := range s.Dependencies {
		info.Dependencies = append(info.Dependencies, starctx.DependencyInfo{Name: d.Name, Version: d.Version})
	}
	return info
}
