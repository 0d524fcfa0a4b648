// Package definition reads JSON and YAML definition files (batch files,
// sample files, variant files and input data) into generic documents or
// typed values.
//
// The format is selected by file suffix: .yaml and .yml are YAML, anything
// else is JSON. JSON files may carry // and /* */ comments and trailing commas.
package definition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when the path does not name a readable file.
	ErrNotFound = errors.New("file not found")
	// ErrEmpty is returned when a file holds no document (empty or null).
	ErrEmpty = errors.New("empty document")
)

// IsYAML reports whether path selects the YAML parser. The suffix match is
// case-sensitive: sample.YAML is read as JSON.
func IsYAML(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

// ReadDocument reads path and returns its content as a generic document made
// of map[string]any, []any, string, bool, int64/int, float64 and nil.
func ReadDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc any
	if IsYAML(path) {
		doc, err = ParseYAML(data)
	} else {
		doc, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return doc, nil
}

// ParseJSON strips comments and trailing commas from data and decodes it.
// Integral numbers decode as int64, all others as float64.
func ParseJSON(data []byte) (any, error) {
	return ParseStrictJSON(jsonc.ToJSON(data))
}

// ParseStrictJSON decodes data as plain JSON: comments and trailing commas
// are syntax errors. Numbers decode as in ParseJSON.
func ParseStrictJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	if dec.More() {
		return nil, errors.New("parsing json: unexpected data after top-level value")
	}
	return normalize(doc), nil
}

// ParseYAML decodes a single YAML document.
func ParseYAML(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return normalize(doc), nil
}

// Decode converts a generic document into out using the `json` struct tags.
// Scalars are converted weakly, so an unquoted `version: 2.31` fills a string
// field with "2.31".
func Decode(doc any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(doc); err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	return nil
}

// Parse reads path and decodes it into a new T.
func Parse[T any](path string) (*T, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}

	var v T
	if err := Decode(doc, &v); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &v, nil
}

// TryParse is Parse for callers that only care whether a value was produced.
func TryParse[T any](path string) *T {
	v, err := Parse[T](path)
	if err != nil {
		return nil
	}
	return v
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDirectory reports whether path exists and is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// normalize rewrites decoder output into the generic document shape:
// json.Number becomes int64 or float64 and YAML maps with non-string keys
// get string keys.
func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}
