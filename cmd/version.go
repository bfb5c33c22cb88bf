package cmd

import (
	"fmt"
	"runtime"

	"github.com/fbz-tec/pgxunload/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pgxunload %s\n", version.AppVersion)
			fmt.Fprintf(out, "  build time: %s\n", version.BuildTime)
			fmt.Fprintf(out, "  git commit: %s\n", version.GitCommit)
			fmt.Fprintf(out, "  go version: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
