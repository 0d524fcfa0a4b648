// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"regexp"
	"strings"
	"testing"

	"github.com/brandor64/caleuche/internal/testutil"
)

// SetupTestBatch creates a temporary directory holding a batch file
// (batch.yaml) with two JavaScript samples: one referencing a registry
// variant, one using inline and path-referenced variants.
func SetupTestBatch(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	testutil.WriteFiles(t, tmpDir, map[string]string{
		"batch.yaml": `variants:
  - name: default
    input:
      type: object
      properties:
        message: Hello from the registry
samples:
  - templatePath: samples/hello
    variants:
      - output: out/hello/default
        input: default
  - templatePath: samples/hello
    variants:
      - output: out/hello/inline
        input:
          type: object
          properties:
            message: Hello inline
      - output: out/hello/file
        input:
          type: path
          value: variants/file.yaml
`,
		"variants/file.yaml": `type: object
properties:
  message: Hello from a file
`,
		"samples/hello/sample.yaml": `template: sample.js.tmpl
type: javascript
dependencies:
  - name: chalk
    version: ^5.3.0
input:
  - name: message
    type: string
    required: true
`,
		"samples/hello/sample.js.tmpl": "console.log(\"{{ message }}\");\n",
	})

	return tmpDir
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertContains checks that the string contains the expected substring.
func AssertContains(t *testing.T, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("string %q does not contain expected %q", s, expected)
	}
}

// AssertNotContains checks that the string does not contain the substring.
func AssertNotContains(t *testing.T, s, unexpected string) {
	t.Helper()
	if strings.Contains(s, unexpected) {
		t.Errorf("string %q unexpectedly contains %q", s, unexpected)
	}
}
