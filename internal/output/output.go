// Package output writes compiled sample files to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brandor64/caleuche/internal/compiler"
)

// TestDir is the subdirectory holding test items.
const TestDir = "test"

// WriteError reports a failure to write the output of one variant. It does
// not say which file failed.
type WriteError struct {
	Dir string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write output to %s: %v", e.Dir, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Write creates dir if needed and writes every item into it, replacing
// existing files. Test items, when there are any, go to dir/test.
func Write(dir string, items, testItems []compiler.Item) error {
	if err := writeItems(dir, items); err != nil {
		return &WriteError{Dir: dir, Err: err}
	}
	if len(testItems) > 0 {
		if err := writeItems(filepath.Join(dir, TestDir), testItems); err != nil {
			return &WriteError{Dir: dir, Err: err}
		}
	}
	return nil
}

func writeItems(dir string, items []compiler.Item) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, item := range items {
		if err := os.WriteFile(filepath.Join(dir, item.FileName), []byte(item.Content), 0o644); err != nil {
			return err
		}
	}
	return nil
}
