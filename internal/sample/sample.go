// Package sample defines the sample model consumed by the compiler and loads
// sample files from disk.
package sample

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/brandor64/caleuche/internal/definition"
)

// DefaultFileName is the sample file looked up when a sample path is a directory.
const DefaultFileName = "sample.yaml"

// Language identifies the target language of a sample.
type Language string

// Supported target languages.
const (
	CSharp     Language = "csharp"
	Go         Language = "go"
	Java       Language = "java"
	JavaScript Language = "javascript"
	Python     Language = "python"
)

// Dependency is a package the generated project depends on.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Input declares one template input.
type Input struct {
	Name      string `json:"name"`
	Type      string `json:"type"` // string, number, boolean, object, array
	Required  bool   `json:"required"`
	Default   any    `json:"default,omitempty"`
	ItemsType string `json:"itemsType,omitempty"` // element type when Type is array
}

// TestOverrides holds input values that replace testInput keys when the test
// variant of a sample is rendered.
type TestOverrides struct {
	Input map[string]any `json:"input"`
}

// Sample is a template plus its typed input schema and target language.
type Sample struct {
	Template      string         `json:"template"`
	Type          Language       `json:"type"`
	BuildSystem   string         `json:"buildSystem,omitempty"` // java only: maven (default) or gradle
	Dependencies  []Dependency   `json:"dependencies"`
	Input         []Input        `json:"input"`
	Tags          map[string]any `json:"tags,omitempty"`
	TestInput     map[string]any `json:"testInput,omitempty"`
	TestOverrides *TestOverrides `json:"testOverrides,omitempty"`
}

// Clone returns a copy of s whose slices and top-level maps can be replaced or
// modified without affecting s.
func (s *Sample) Clone() *Sample {
	c := *s
	c.Dependencies = slices.Clone(s.Dependencies)
	c.Input = slices.Clone(s.Input)
	c.Tags = maps.Clone(s.Tags)
	c.TestInput = maps.Clone(s.TestInput)
	if s.TestOverrides != nil {
		c.TestOverrides = &TestOverrides{Input: maps.Clone(s.TestOverrides.Input)}
	}
	return &c
}

var (
	// ErrNotFound means the sample path does not lead to a sample file.
	ErrNotFound = errors.New("sample file not found")
	// ErrInvalid means the sample file could not be parsed.
	ErrInvalid = errors.New("failed to parse sample file")
	// ErrTemplate means the template file next to the sample could not be read.
	ErrTemplate = errors.New("error reading template file")
)

// LoadError reports a failure to load a sample. Kind is one of ErrNotFound,
// ErrInvalid or ErrTemplate.
type LoadError struct {
	Path  string
	Kind  error
	Cause error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Path)
}

func (e *LoadError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// ResolveFile maps a sample path to the sample file it names. A directory
// resolves to its sample.yaml.
func ResolveFile(samplePath string) string {
	if definition.IsDirectory(samplePath) {
		return filepath.Join(samplePath, DefaultFileName)
	}
	return samplePath
}

// ResolveTemplate returns the template text for s. The template field is
// joined with the sample directory (samplePath itself when it is a directory,
// else its parent); when that names a file, the file content is the template,
// otherwise the field is an inline template and is returned unchanged.
func ResolveTemplate(samplePath string, s *Sample) (string, error) {
	base := samplePath
	if !definition.IsDirectory(samplePath) {
		base = filepath.Dir(samplePath)
	}

	candidate := filepath.Join(base, s.Template)
	if s.Template == "" || !definition.IsFile(candidate) {
		return s.Template, nil
	}

	data, err := os.ReadFile(candidate)
	if err != nil {
		return "", &LoadError{Path: candidate, Kind: ErrTemplate, Cause: err}
	}
	return string(data), nil
}

// Load reads the sample at samplePath (a sample file or a directory holding
// sample.yaml) and resolves its template.
func Load(samplePath string) (*Sample, error) {
	file := ResolveFile(samplePath)
	if !definition.IsFile(file) {
		return nil, &LoadError{Path: file, Kind: ErrNotFound}
	}

	s, err := definition.Parse[Sample](file)
	if err != nil {
		return nil, &LoadError{Path: file, Kind: ErrInvalid, Cause: err}
	}

	tmpl, err := ResolveTemplate(samplePath, s)
	if err != nil {
		return nil, err
	}
	s.Template = tmpl
	return s, nil
}
