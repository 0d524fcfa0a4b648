package commands

import (
	"github.com/spf13/cobra"

	"github.com/brandor64/caleuche/internal/batch"
	"github.com/brandor64/caleuche/internal/cli/config"
)

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <batch-file>",
		Short: "Compile every sample variant declared in a batch file",
		Long: `Compile every variant of every sample listed in a batch file.

Variant inputs can reference a named entry of the batch file's variants list,
be written inline as {type: object, properties: {...}}, or point to a
definition file with {type: path, value: file.yaml}. Paths are relative to the
batch file. The first failure stops the batch.`,
		Example: `  # Compile next to the batch file
  caleuche batch samples/batch.yaml

  # Write all outputs under dist/
  caleuche batch samples/batch.yaml --output-dir dist

  # Apply test overrides to every variant's test input
  caleuche batch samples/batch.yaml --test-overrides '{"endpoint": "http://localhost:8080"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := batchOptions(cmd)
			if err != nil {
				return err
			}
			return batch.Run(cmd.Context(), args[0], opts)
		},
	}

	addBatchFlags(cmd)
	cmd.Flags().String("test-overrides", "", "JSON object of test input overrides applied to every variant")
	cmd.Flags().Bool("project", config.DefaultProject, "Generate language project files")
	cmd.Flags().IntP("jobs", "j", config.DefaultJobs, "Number of samples compiled concurrently")

	return cmd
}

// addBatchFlags registers the flags shared by commands that read batch files.
func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-dir", "d", "", "Root directory for all variant outputs")
}

// batchOptions merges the loaded config with flags set on cmd. Flags win so
// the command behaves the same when run without the root command.
func batchOptions(cmd *cobra.Command) (batch.Options, error) {
	cfg := config.GetConfig(cmd.Context())
	flags := cmd.Flags()

	opts := batch.DefaultOptions()
	opts.Logger = config.GetLogger(cmd.Context())
	opts.OutputDir = cfg.OutputDir
	opts.Project = cfg.Project
	opts.Jobs = cfg.Jobs

	var err error
	if flags.Changed("output-dir") {
		if opts.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return opts, err
		}
	}
	if flags.Changed("project") {
		if opts.Project, err = flags.GetBool("project"); err != nil {
			return opts, err
		}
	}
	if flags.Changed("jobs") {
		if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
			return opts, err
		}
	}
	if flags.Lookup("test-overrides") != nil {
		if opts.TestOverrides, err = flags.GetString("test-overrides"); err != nil {
			return opts, err
		}
	}
	return opts, nil
}
