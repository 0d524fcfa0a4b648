package batch

import (
	"context"

	"github.com/brandor64/caleuche/internal/compiler"
	"github.com/brandor64/caleuche/internal/definition"
	"github.com/brandor64/caleuche/internal/output"
)

// Compile compiles one sample with the input read from a data file and writes
// the result to the output directory. Failures are returned as *Error.
func Compile(ctx context.Context, opts CompileOptions) error {
	opts = opts.withDefaults()
	logger := opts.Logger.With("sample", opts.SamplePath)

	if err := ctx.Err(); err != nil {
		return err
	}

	s, err := loadSample(opts.SamplePath)
	if err != nil {
		return err
	}

	doc, err := definition.ReadDocument(opts.DataPath)
	if err != nil {
		return inputErr(err, "Failed to parse input data file: %s", opts.DataPath)
	}
	input, ok := doc.(map[string]any)
	if !ok {
		return inputErr(nil, "Failed to parse input data file: %s", opts.DataPath)
	}
	logger.Debug("loaded input data", "data_file", opts.DataPath, "keys", len(input))

	out, err := safeCompile(opts.Compiler, s, input, compiler.Options{
		Project:      opts.Project,
		GenerateTest: s.TestInput != nil,
	})
	if err != nil {
		return compilationErr(err)
	}

	if err := output.Write(opts.OutputDir, out.Items, out.TestItems); err != nil {
		return &Error{Kind: KindWrite, Message: "Failed to write output to " + opts.OutputDir, Err: err}
	}

	logger.Info("compiled sample", "output_dir", opts.OutputDir, "files", len(out.Items), "test_files", len(out.TestItems))
	return nil
}
