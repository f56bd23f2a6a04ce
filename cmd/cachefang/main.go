// Package main provides the entry point for the cachefang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/cachefang/cmd/cachefang/commands"
	"github.com/Sumatoshi-tech/cachefang/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "cachefang",
		Short: "Cachefang compilation cache - translation unit statistics tooling",
		Long: `Cachefang records per-compilation translation unit statistics.

Commands:
  stats     Query, export, and record translation unit statistics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "cachefang %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
