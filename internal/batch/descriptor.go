package batch

import (
	"encoding/json"
	"fmt"

	"github.com/brandor64/caleuche/internal/sample"
	"github.com/brandor64/caleuche/internal/variant"
)

// Descriptor is the root of a batch file.
type Descriptor struct {
	Variants []variant.Entry `json:"variants,omitempty"`
	Samples  []SampleEntry   `json:"samples"`
}

// SampleEntry lists the variants to compile for one sample.
type SampleEntry struct {
	TemplatePath string          `json:"templatePath"`
	Variants     []VariantConfig `json:"variants"`
}

// VariantConfig is one compilation of a sample. Input is kept as decoded
// (string or mapping) and classified by variant.ParseInput.
type VariantConfig struct {
	Output        string                `json:"output"`
	Input         any                   `json:"input"`
	Tags          map[string]any        `json:"tags,omitempty"`
	TestOverrides *sample.TestOverrides `json:"testOverrides,omitempty"`
}

// String renders the variant config as compact JSON, as written in
// diagnostics.
func (v VariantConfig) String() string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", map[string]any{"output": v.Output, "input": v.Input})
	}
	return string(data)
}
