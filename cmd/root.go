package cmd

import (
	"fmt"
	"os"

	"github.com/fbz-tec/pgxunload/internal/logger"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	verbose bool
	quiet   bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:   "pgxunload",
		Short: "Build and run Amazon Redshift UNLOAD statements",
		Long: `A CLI tool to build Amazon Redshift UNLOAD statements and run them.
Options are validated before anything reaches the cluster: per-format
exclusions (CSV, PARQUET, JSON), conflicting options and value formats.

Statements can be described with flags or with a YAML job file, printed
as SQL, JSON or YAML, or executed against a cluster.`,
		Example: `  # Print a CSV unload with a header
  pgxunload render -s "SELECT * FROM events" -t s3://bucket/events/ --default-role -f csv --header

  # Bind a parameter and chain two roles
  pgxunload render -s "SELECT * FROM events WHERE day = %(day)s" --param day=2024-01-01 \
    -t s3://bucket/events/ --iam-role 123456789012:Unloader --iam-role 987654321098:Writer

  # Describe the unload in a job file and print it as YAML
  pgxunload render -j events.yaml -p yaml

  # Run it against the cluster configured in .env
  pgxunload run -j events.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if g.verbose && g.quiet {
				return fmt.Errorf("cannot use --verbose and --quiet flags together")
			}
			logger.GetLogger().SetOutput(cmd.ErrOrStderr())
			logger.GetLogger().SetErrorOutput(cmd.ErrOrStderr())
			logger.SetQuiet(g.quiet)
			logger.SetVerbose(g.verbose)
			if g.verbose {
				logger.Debug("Verbose mode enabled")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output with detailed information")
	rootCmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "Enable quiet mode: only display error messages")

	rootCmd.AddCommand(newRenderCmd(), newRunCmd(), newVersionCmd())
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
