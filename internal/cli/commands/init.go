package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brandor64/caleuche/internal/cli/config"
)

// exampleBatchFile is the batch file created by init.
const exampleBatchFile = "batch.yaml"

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Scaffold an example batch with one sample",
		Long: `Create a working example: a batch file, a Python sample with its template,
a shared variant definition file and a caleuche.yaml configuration.

Run 'caleuche batch batch.yaml' in the directory afterwards to compile it.`,
		Example: `  # Initialize in current directory
  caleuche init

  # Initialize in a new directory
  caleuche init my-samples

  # Overwrite an existing example
  caleuche init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	logger := config.GetLogger(cmd.Context())

	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	batchPath := filepath.Join(dir, exampleBatchFile)
	if _, err := os.Stat(batchPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", exampleBatchFile)
	}

	if err := copyTemplate("example", dir, force); err != nil {
		return fmt.Errorf("failed to initialize example: %w", err)
	}
	logger.Debug("copied example template", "dir", dir)

	out := cmd.OutOrStdout()
	files, _ := listTemplateFiles("example")
	for _, f := range files {
		_, _ = fmt.Fprintf(out, "  created %s\n", filepath.ToSlash(f))
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Next steps:")
	_, _ = fmt.Fprintf(out, "  caleuche list %s     Show the variants that will be compiled\n", batchPath)
	_, _ = fmt.Fprintf(out, "  caleuche batch %s    Compile every variant\n", batchPath)

	return nil
}
