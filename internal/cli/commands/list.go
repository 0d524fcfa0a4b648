package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/brandor64/caleuche/internal/batch"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <batch-file>",
		Short: "List the variants a batch file would compile",
		Long: `Resolve a batch file without compiling anything.

Every sample is loaded and every variant input is resolved, so the command
fails on the same input and resolution errors as batch. On success it prints
one row per variant with its input kind and output directory.`,
		Example: `  caleuche list samples/batch.yaml
  caleuche list samples/batch.yaml --output-dir dist`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := batchOptions(cmd)
			if err != nil {
				return err
			}

			rows, err := batch.Plan(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Sample", "Variant", "Input", "Output"})
			for _, r := range rows {
				t.AppendRow(table.Row{r.Sample, r.Index, r.InputKind, r.Output})
			}
			t.Render()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "(%d variants)\n", len(rows))
			return nil
		},
	}

	addBatchFlags(cmd)

	return cmd
}
