// Package overrides merges the layered test overrides and tags that apply to
// a single variant.
package overrides

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/brandor64/caleuche/internal/definition"
	"github.com/brandor64/caleuche/internal/sample"
)

// ErrInvalidJSON is returned when command-level overrides are not a JSON object.
var ErrInvalidJSON = errors.New("invalid json")

// ParseCommand parses the raw --test-overrides flag value. An empty string
// means no command-level overrides. The value must be a JSON object and is
// used as-is as the input layer: {"port": 1} overrides the port input.
// Unlike definition files, comments and trailing commas are rejected.
func ParseCommand(raw string) (*sample.TestOverrides, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	doc, err := definition.ParseStrictJSON([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object, got %T", ErrInvalidJSON, doc)
	}
	return &sample.TestOverrides{Input: m}, nil
}

// Merge combines the three override layers key by key with precedence
// variant > sample > command. Values are replaced whole, never merged
// recursively. It returns nil when no layer is present, which downstream
// treats differently from an empty set of overrides.
func Merge(command, sampleLevel, variantLevel *sample.TestOverrides) *sample.TestOverrides {
	if command == nil && sampleLevel == nil && variantLevel == nil {
		return nil
	}

	merged := make(map[string]any)
	for _, layer := range []*sample.TestOverrides{command, sampleLevel, variantLevel} {
		if layer != nil {
			maps.Copy(merged, layer.Input)
		}
	}
	return &sample.TestOverrides{Input: merged}
}

// MergeTags overlays variant tags on sample tags by top-level key. It returns
// nil when both are nil.
func MergeTags(sampleTags, variantTags map[string]any) map[string]any {
	if sampleTags == nil && variantTags == nil {
		return nil
	}
	merged := make(map[string]any, len(sampleTags)+len(variantTags))
	maps.Copy(merged, sampleTags)
	maps.Copy(merged, variantTags)
	return merged
}
