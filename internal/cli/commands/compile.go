package commands

import (
	"github.com/spf13/cobra"

	"github.com/brandor64/caleuche/internal/batch"
	"github.com/brandor64/caleuche/internal/cli/config"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	var project bool

	cmd := &cobra.Command{
		Use:   "compile <sample-path> <data-file> <output-directory>",
		Short: "Compile a single sample with an input data file",
		Long: `Compile one sample and write the generated files to an output directory.

The sample path is a sample file or a directory containing sample.yaml. The
data file is a JSON or YAML object whose keys fill the sample's declared inputs.`,
		Example: `  # Compile a sample directory
  caleuche compile samples/greeting data.json out

  # Include the language project file (package.json, go.mod, ...)
  caleuche compile samples/greeting data.yaml out --project`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return batch.Compile(cmd.Context(), batch.CompileOptions{
				SamplePath: args[0],
				DataPath:   args[1],
				OutputDir:  args[2],
				Project:    project,
				Logger:     config.GetLogger(cmd.Context()),
			})
		},
	}

	cmd.Flags().BoolVarP(&project, "project", "p", false, "Generate the language project file")

	return cmd
}
