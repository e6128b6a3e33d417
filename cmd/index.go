package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-report/internal/teamindex"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Builds the team dashboard from previously rendered HTML reports",
	Long: `Scans the reports directory for files named
username-repo_name-yyyy-mm-dd.html, reads the metrics manifest embedded in
each, and writes an index page with a per-user summary and a listing of every
report. Files that do not match the convention are ignored.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().String("reports-dir", filepath.Join("reports", "team"), "Directory containing the HTML reports")
	indexCmd.Flags().String("output", filepath.Join("reports", "index.html"), "Path of the index page to write")
	indexCmd.Flags().String("names", "user_names.json", "Optional username to display-name JSON mapping")
}

func runIndex(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}

	namesPath, _ := cmd.Flags().GetString("names")
	names, err := teamindex.LoadNames(namesPath)
	if err != nil {
		return err
	}

	reportsDir, _ := cmd.Flags().GetString("reports-dir")
	builder := teamindex.NewBuilder(names, logger)
	idx, err := builder.Build(reportsDir)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if dir := filepath.Dir(output); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := builder.WriteIndex(idx, output, reportsDir); err != nil {
		return err
	}
	fmt.Printf("Index written to %s (%d reports, %d users)\n", output, len(idx.Entries), len(idx.Users))
	return nil
}
