// Package variant resolves variant inputs into concrete input definitions.
//
// A variant input is one of three shapes:
//
//   - a registry reference: a bare string, or {type: reference, value: name}
//   - an inline definition: {type: object, properties: {...}}
//   - a path reference: {type: path, value: relative/file.yaml}
//
// Resolution checks them in that order: reference, then object, then path.
package variant

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/brandor64/caleuche/internal/definition"
)

// Kind discriminates variant input shapes.
type Kind string

// Variant input kinds.
const (
	KindReference Kind = "reference"
	KindObject    Kind = "object"
	KindPath      Kind = "path"
)

var (
	// ErrInvalidType means an input matched none of the known shapes.
	ErrInvalidType = errors.New("invalid variant type")
	// ErrUnresolved means a variant input could not be turned into a definition.
	ErrUnresolved = errors.New("variant could not be resolved")
)

// Input is a parsed variant input. It is implemented by *Definition,
// *PathRef and *Reference.
type Input interface {
	Kind() Kind
	isInput()
}

// Definition is an inline, fully resolved variant input.
type Definition struct {
	Properties map[string]any
}

// PathRef names a definition file relative to the batch file directory.
type PathRef struct {
	Value string
}

// Reference names an entry of the registry.
type Reference struct {
	Name string
}

func (*Definition) Kind() Kind { return KindObject }
func (*PathRef) Kind() Kind    { return KindPath }
func (*Reference) Kind() Kind  { return KindReference }

func (*Definition) isInput() {}
func (*PathRef) isInput()    {}
func (*Reference) isInput()  {}

// ParseInput classifies a raw decoded input value.
func ParseInput(raw any) (Input, error) {
	switch v := raw.(type) {
	case string:
		return &Reference{Name: v}, nil
	case map[string]any:
		tag, _ := v["type"].(string)
		switch Kind(tag) {
		case KindReference:
			name, ok := v["value"].(string)
			if !ok {
				return nil, fmt.Errorf("%w: reference without a string value", ErrInvalidType)
			}
			return &Reference{Name: name}, nil
		case KindObject:
			return definitionFrom(v)
		case KindPath:
			p, ok := v["value"].(string)
			if !ok {
				return nil, fmt.Errorf("%w: path without a string value", ErrInvalidType)
			}
			return &PathRef{Value: p}, nil
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidType, tag)
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidType, raw)
	}
}

func definitionFrom(m map[string]any) (*Definition, error) {
	switch props := m["properties"].(type) {
	case map[string]any:
		return &Definition{Properties: props}, nil
	case nil:
		return &Definition{Properties: map[string]any{}}, nil
	default:
		return nil, fmt.Errorf("%w: properties must be a mapping, got %T", ErrInvalidType, props)
	}
}

// LoadFile reads a definition file and requires it to hold an object-shaped
// definition.
func LoadFile(path string) (*Definition, error) {
	doc, err := definition.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: expected a mapping", path, ErrInvalidType)
	}
	in, err := ParseInput(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	def, ok := in.(*Definition)
	if !ok {
		return nil, fmt.Errorf("%s: %w: file holds a %s input, want %s", path, ErrInvalidType, in.Kind(), KindObject)
	}
	return def, nil
}

// ResolveError reports a variant input that could not be resolved. Ref is the
// reference name or path as written in the batch file, when there is one.
type ResolveError struct {
	Ref string
	Err error
}

func (e *ResolveError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("variant %q could not be resolved: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("variant could not be resolved: %v", e.Err)
}

func (e *ResolveError) Unwrap() []error { return []error{ErrUnresolved, e.Err} }

// Resolve turns a raw variant input into a definition. References are looked
// up in reg, paths are read relative to workingDir, and inline definitions
// are returned without touching the filesystem. The registry is never
// modified.
func Resolve(raw any, reg *Registry, workingDir string) (*Definition, error) {
	in, err := ParseInput(raw)
	if err != nil {
		return nil, &ResolveError{Err: err}
	}

	switch v := in.(type) {
	case *Reference:
		def, ok := reg.Lookup(v.Name)
		if !ok {
			return nil, &ResolveError{Ref: v.Name, Err: errors.New("no registry entry with that name")}
		}
		return def, nil
	case *Definition:
		return v, nil
	case *PathRef:
		full := filepath.Join(workingDir, v.Value)
		if !definition.IsFile(full) {
			return nil, &ResolveError{Ref: v.Value, Err: definition.ErrNotFound}
		}
		def, err := LoadFile(full)
		if err != nil {
			return nil, &ResolveError{Ref: v.Value, Err: err}
		}
		return def, nil
	default:
		return nil, &ResolveError{Err: fmt.Errorf("%w: %T", ErrInvalidType, in)}
	}
}
