// Package batch drives sample compilation: a single sample with a data file,
// or every variant of every sample declared in a batch file.
package batch

// run.go - Batch orchestration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brandor64/caleuche/internal/compiler"
	"github.com/brandor64/caleuche/internal/definition"
	"github.com/brandor64/caleuche/internal/output"
	"github.com/brandor64/caleuche/internal/overrides"
	"github.com/brandor64/caleuche/internal/sample"
	"github.com/brandor64/caleuche/internal/variant"
)

// loadedBatch is the read-only state shared by every sample of a run.
type loadedBatch struct {
	file       string
	workingDir string
	outputDir  string // absolute, empty when outputs are relative to workingDir
	desc       *Descriptor
	registry   *variant.Registry
	command    *sample.TestOverrides
}

// Run compiles every variant of every sample declared in batchFile and writes
// the outputs. It stops at the first failure; outputs written by earlier
// variants are left in place. Failures are returned as *Error.
func Run(ctx context.Context, batchFile string, opts Options) error {
	opts = opts.withDefaults()
	logger := opts.Logger.With("run_id", uuid.NewString())

	logger.Info("starting batch", "batch_file", batchFile, "jobs", opts.Jobs)

	b, err := loadBatch(batchFile, opts, logger)
	if err != nil {
		logger.Error("batch failed", "error", err.Error())
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)

	for _, entry := range b.desc.Samples {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// A slot frees only after a failing sample has cancelled gctx.
			if err := gctx.Err(); err != nil {
				return err
			}
			return b.processSample(gctx, entry, opts, logger)
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		logger.Error("batch failed", "error", err.Error())
		return err
	}

	logger.Info("batch completed", "samples", len(b.desc.Samples))
	return nil
}

// loadBatch performs every step that precedes sample processing: command
// overrides, the batch file and the variant registry.
func loadBatch(batchFile string, opts Options, logger *slog.Logger) (*loadedBatch, error) {
	command, err := overrides.ParseCommand(opts.TestOverrides)
	if err != nil {
		return nil, inputErr(err, "Failed to parse --test-overrides JSON: %s", opts.TestOverrides)
	}

	if !definition.IsFile(batchFile) {
		return nil, inputErr(definition.ErrNotFound, "Batch file %q does not exist or is not a file.", batchFile)
	}

	abs, err := filepath.Abs(batchFile)
	if err != nil {
		return nil, inputErr(err, "Batch file %q does not exist or is not a file.", batchFile)
	}
	b := &loadedBatch{file: batchFile, workingDir: filepath.Dir(abs), command: command}
	logger.Debug("working directory", "path", b.workingDir)

	if opts.OutputDir != "" {
		b.outputDir, err = filepath.Abs(opts.OutputDir)
		if err != nil {
			return nil, inputErr(err, "Invalid output directory: %s", opts.OutputDir)
		}
	}

	b.desc, err = definition.Parse[Descriptor](batchFile)
	if err != nil {
		return nil, inputErr(err, "Failed to parse batch file: %s", batchFile)
	}

	b.registry, err = variant.LoadRegistry(b.desc.Variants, b.workingDir)
	if err != nil {
		var regErr *variant.RegistryError
		if errors.As(err, &regErr) {
			return nil, resolutionErr(err, "Failed to load variant definition for key %q", regErr.Name)
		}
		return nil, resolutionErr(err, "Failed to load variant definitions")
	}
	logger.Info("loaded variant definitions", "count", b.registry.Len())

	return b, nil
}

func (b *loadedBatch) processSample(ctx context.Context, entry SampleEntry, opts Options, logger *slog.Logger) error {
	logger = logger.With("sample", entry.TemplatePath)
	logger.Info("processing sample")

	s, err := loadSample(filepath.Join(b.workingDir, entry.TemplatePath))
	if err != nil {
		return err
	}

	for i, vc := range entry.Variants {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug("processing variant", "index", i, "output", vc.Output)

		def, err := b.resolve(vc)
		if err != nil {
			return err
		}

		effective := s.Clone()
		effective.Tags = overrides.MergeTags(s.Tags, vc.Tags)
		effective.TestOverrides = overrides.Merge(b.command, s.TestOverrides, vc.TestOverrides)

		out, err := safeCompile(opts.Compiler, effective, maps.Clone(def.Properties), compiler.Options{
			Project:      opts.Project,
			GenerateTest: effective.TestInput != nil,
		})
		if err != nil {
			e := compilationErr(err)
			e.Detail = fmt.Sprintf("Sample: %s, Variant: %s", entry.TemplatePath, vc)
			return e
		}

		dir := b.outputPath(vc.Output)
		if err := output.Write(dir, out.Items, out.TestItems); err != nil {
			return &Error{Kind: KindWrite, Message: "Failed to write output to " + dir, Err: err}
		}
		logger.Info("wrote variant output", "dir", dir, "files", len(out.Items), "test_files", len(out.TestItems))
	}

	return nil
}

func (b *loadedBatch) resolve(vc VariantConfig) (*variant.Definition, error) {
	def, err := variant.Resolve(vc.Input, b.registry, b.workingDir)
	if err == nil {
		return def, nil
	}

	var resErr *variant.ResolveError
	if errors.As(err, &resErr) && resErr.Ref != "" {
		return nil, resolutionErr(err, "Variant %q could not be resolved.", resErr.Ref)
	}
	raw, _ := json.Marshal(vc.Input)
	return nil, resolutionErr(err, "Invalid variant type: %s", raw)
}

func (b *loadedBatch) outputPath(rel string) string {
	if b.outputDir != "" {
		return filepath.Join(b.outputDir, rel)
	}
	return filepath.Join(b.workingDir, rel)
}

// loadSample maps sample loading failures to their diagnostics.
func loadSample(samplePath string) (*sample.Sample, error) {
	s, err := sample.Load(samplePath)
	if err == nil {
		return s, nil
	}

	var loadErr *sample.LoadError
	if !errors.As(err, &loadErr) {
		return nil, inputErr(err, "Failed to parse sample file: %s", samplePath)
	}
	switch {
	case errors.Is(err, sample.ErrNotFound):
		return nil, inputErr(err, "Sample file not found: %s", loadErr.Path)
	case errors.Is(err, sample.ErrTemplate):
		return nil, inputErr(err, "Error reading template file.")
	default:
		return nil, inputErr(err, "Failed to parse sample file: %s", loadErr.Path)
	}
}

// safeCompile calls the compiler and converts a panic into an error. A panic
// value that is not an error becomes an unknownFailure.
func safeCompile(c Compiler, s *sample.Sample, input map[string]any, opts compiler.Options) (out *compiler.Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = &unknownFailure{value: r}
		}
	}()

	out, err = c.Compile(s, input, opts)
	if err == nil && out == nil {
		out = &compiler.Output{}
	}
	return out, err
}
