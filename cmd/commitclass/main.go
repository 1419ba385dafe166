// Package main provides the entry point for the commitclass CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitclass/cmd/commitclass/commands"
	"github.com/Sumatoshi-tech/commitclass/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "commitclass",
		Short: "Classify the edits of git commits and report bug-related changes",
		Long: `commitclass walks a repository's history, classifies the variation diff of
every commit and writes a structured commit log plus a message transcript.

Commands:
  analyze   Classify commits and write the reports
  words     Word frequency of a commit message transcript`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewWordsCommand())
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
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "commitclass %s\n", version.String())
		},
	}
}
