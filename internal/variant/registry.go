package variant

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/brandor64/caleuche/internal/definition"
)

// Entry declares a named, reusable variant input in a batch file.
type Entry struct {
	Name  string `json:"name"`
	Input any    `json:"input"`
}

// Registry maps variant names to resolved definitions. It is read-only once
// built and safe for concurrent lookups.
type Registry struct {
	defs map[string]*Definition
}

// RegistryError reports the entry that failed while building a registry.
type RegistryError struct {
	Name string
	Err  error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("failed to load variant definition for key %q: %v", e.Name, e.Err)
}

func (e *RegistryError) Unwrap() error { return e.Err }

// LoadRegistry resolves every entry in declaration order. Entries may be
// inline objects or paths relative to workingDir; references are rejected.
// The first failing entry aborts the build. A later entry with the same name
// replaces an earlier one.
func LoadRegistry(entries []Entry, workingDir string) (*Registry, error) {
	reg := &Registry{defs: make(map[string]*Definition, len(entries))}

	for _, e := range entries {
		def, err := loadEntry(e, workingDir)
		if err != nil {
			return nil, &RegistryError{Name: e.Name, Err: err}
		}
		reg.defs[e.Name] = def
	}
	return reg, nil
}

func loadEntry(e Entry, workingDir string) (*Definition, error) {
	in, err := ParseInput(e.Input)
	if err != nil {
		return nil, err
	}

	switch v := in.(type) {
	case *Definition:
		return v, nil
	case *PathRef:
		full := filepath.Join(workingDir, v.Value)
		if !definition.IsFile(full) {
			return nil, fmt.Errorf("%s: %w", v.Value, definition.ErrNotFound)
		}
		return LoadFile(full)
	default:
		return nil, fmt.Errorf("%w: registry entries must be %s or %s, got %s", ErrInvalidType, KindObject, KindPath, in.Kind())
	}
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	if r == nil {
		return nil, false
	}
	def, ok := r.defs[name]
	return def, ok
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.defs)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
