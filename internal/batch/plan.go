package batch

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/brandor64/caleuche/internal/variant"
)

// PlanRow describes one variant a batch run would compile.
type PlanRow struct {
	Sample    string
	Index     int
	InputKind variant.Kind
	Output    string
}

// Plan loads a batch file and resolves every sample and variant without
// compiling or writing anything. It fails on the same inputs Run fails on
// before compilation.
func Plan(ctx context.Context, batchFile string, opts Options) ([]PlanRow, error) {
	opts = opts.withDefaults()
	logger := opts.Logger.With("run_id", uuid.NewString())

	b, err := loadBatch(batchFile, opts, logger)
	if err != nil {
		return nil, err
	}

	var rows []PlanRow
	for _, entry := range b.desc.Samples {
		if _, err := loadSample(filepath.Join(b.workingDir, entry.TemplatePath)); err != nil {
			return nil, err
		}

		for i, vc := range entry.Variants {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if _, err := b.resolve(vc); err != nil {
				return nil, err
			}
			// resolve succeeded, so the input parses
			in, _ := variant.ParseInput(vc.Input)
			rows = append(rows, PlanRow{
				Sample:    entry.TemplatePath,
				Index:     i,
				InputKind: in.Kind(),
				Output:    b.outputPath(vc.Output),
			})
		}
	}

	logger.Debug("planned batch", "variants", len(rows))
	return rows, nil
}
