// Package cli provides the command-line interface for caleuche.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/brandor64/caleuche/internal/batch"
	"github.com/brandor64/caleuche/internal/cli/commands"
	"github.com/brandor64/caleuche/internal/cli/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "caleuche",
		Short: "Caleuche CLI for compiling samples",
		Long: `Caleuche compiles code sample templates into runnable samples for
several languages (C#, Go, Java, JavaScript, Python).

A sample is a template plus a typed input schema. 'compile' renders one sample
from a data file; 'batch' renders every variant listed in a batch file.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, used, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cfg, cmd.ErrOrStderr())
			if used != "" {
				logger.Debug("using config file", "path", used)
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./caleuche.yaml)")
	rootCmd.PersistentFlags().StringP("log-level", "l", config.DefaultLogLevel, "Log level (silent|info|debug)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.LogLevelSilent, config.LogLevelInfo, config.LogLevelDebug}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.LogFormatText, config.LogFormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewCompileCommand())
	rootCmd.AddCommand(commands.NewBatchCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command with the process arguments. Failures are
// printed to stderr and returned; the caller decides the exit status.
func Execute(ctx context.Context) error {
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the root command with explicit arguments and streams.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(stderr, err)
		return err
	}
	return nil
}

// PrintError writes the diagnostic lines for err. Batch failures print their
// own messages; anything else is prefixed with "Error:".
func PrintError(w io.Writer, err error) {
	var be *batch.Error
	if errors.As(err, &be) {
		for _, line := range be.Diagnostics() {
			_, _ = fmt.Fprintln(w, line)
		}
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for caleuche.

To load completions:

Bash:
  $ source <(caleuche completion bash)

Zsh:
  $ caleuche completion zsh > "${fpath[1]}/_caleuche"

Fish:
  $ caleuche completion fish | source

PowerShell:
  PS> caleuche completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
