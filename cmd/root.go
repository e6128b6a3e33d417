// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repo-report",
	Short: "A CLI tool to report a GitHub user's activity within a repository.",
	Long: `repo-report fetches one user's activity (merged PRs, reviews, issues,
comments, commits) in one repository over a bounded date window and renders it
as text, JSON or a self-contained HTML report. A companion index command
aggregates previously rendered reports into a team dashboard.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// .env is a local-run convenience; a missing file is fine.
	_ = godotenv.Load()

	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
