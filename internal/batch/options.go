package batch

import (
	"log/slog"

	"github.com/brandor64/caleuche/internal/compiler"
	"github.com/brandor64/caleuche/internal/sample"
)

// Compiler renders a sample with a resolved input. *compiler.Compiler
// implements it; tests substitute their own.
type Compiler interface {
	Compile(s *sample.Sample, input map[string]any, opts compiler.Options) (*compiler.Output, error)
}

// Options configures a batch run. Zero values are replaced by the values of
// DefaultOptions, except Project which is taken as given.
type Options struct {
	// OutputDir, when set, is the root under which every variant's output
	// path is placed. Otherwise outputs are relative to the batch file.
	OutputDir string
	// TestOverrides is the raw command-level overrides JSON object.
	TestOverrides string
	// Project adds the language project file to every variant's output.
	Project bool
	// Jobs bounds how many samples are processed at once.
	Jobs int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Compiler defaults to compiler.New().
	Compiler Compiler
}

// DefaultOptions returns the options used by the batch command.
func DefaultOptions() Options {
	return Options{
		Project: true,
		Jobs:    1,
	}
}

func (o Options) withDefaults() Options {
	if o.Jobs < 1 {
		o.Jobs = 1
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Compiler == nil {
		o.Compiler = compiler.New()
	}
	return o
}

// CompileOptions configures a single sample compilation.
type CompileOptions struct {
	SamplePath string
	DataPath   string
	OutputDir  string
	Project    bool
	Logger     *slog.Logger
	Compiler   Compiler
}

func (o CompileOptions) withDefaults() CompileOptions {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Compiler == nil {
		o.Compiler = compiler.New()
	}
	return o
}
