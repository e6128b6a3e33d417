package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-report/internal/domain"
	"github.com/naka-gawa/repo-report/internal/gateway"
	"github.com/naka-gawa/repo-report/internal/report"
	"github.com/naka-gawa/repo-report/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report <owner> <repo> <username>",
	Short: "Generates an activity report for one user in one repository",
	Long: `Fetches the user's merged pull requests, code reviews, issues, issue
comments and direct commits within the date window and renders them in the
selected format. A user with no activity still produces a report with all
totals at zero.`,
	Args: cobra.ExactArgs(3),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Int("days", 7, "Number of days to analyze")
	reportCmd.Flags().String("startdate", "", "Window end date (YYYY-MM-DD, default: today)")
	reportCmd.Flags().String("format", "text", "Output format: text, html or json")
	reportCmd.Flags().StringP("output", "o", "", "Output file, or a directory to use the conventional filename (default: stdout)")
	reportCmd.Flags().String("token", "", "GitHub token (or GITHUB_TOKEN / GITHUB_ENTERPRISE_TOKEN env)")
	reportCmd.Flags().String("api-url", "", "GitHub API base URL for Enterprise installs (or GITHUB_API_URL env)")
	reportCmd.Flags().Duration("max-wait", 2*time.Minute, "Maximum wait for a rate-limit reset before failing")
}

func runReport(cmd *cobra.Command, args []string) error {
	owner, repo, username := args[0], args[1], args[2]

	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}

	days, _ := cmd.Flags().GetInt("days")
	startDate, _ := cmd.Flags().GetString("startdate")
	window, err := domain.ParseWindow(days, startDate)
	if err != nil {
		return err
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	apiURL, _ := cmd.Flags().GetString("api-url")
	if apiURL == "" {
		apiURL = os.Getenv("GITHUB_API_URL")
	}
	tokenFlag, _ := cmd.Flags().GetString("token")
	token := resolveToken(tokenFlag, apiURL)
	if token == "" {
		fmt.Fprintln(os.Stderr, "Warning: no GitHub token provided, anonymous rate limits are much lower.")
	}

	maxWait, _ := cmd.Flags().GetDuration("max-wait")
	client, err := gateway.NewClient(gateway.Config{
		Token:            token,
		BaseURL:          apiURL,
		MaxRateLimitWait: maxWait,
	}, logger)
	if err != nil {
		return err
	}

	query := domain.ActivityQuery{Owner: owner, Repo: repo, Username: username, Window: window}
	records, err := usecase.NewCollector(client, logger).Collect(cmd.Context(), query)
	if err != nil {
		return err
	}
	stats := usecase.Aggregate(query, records)

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return report.Render(stats, format, os.Stdout)
	}
	if info, statErr := os.Stat(output); (statErr == nil && info.IsDir()) ||
		strings.HasSuffix(output, string(os.PathSeparator)) {
		output = filepath.Join(output, report.DefaultFilename(stats, format))
	}
	if dir := filepath.Dir(output); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := report.WriteFile(stats, format, output); err != nil {
		return err
	}
	fmt.Printf("Report saved to: %s\n", output)
	return nil
}

// resolveToken applies the credential precedence: an explicit flag always
// wins; enterprise hosts prefer GITHUB_ENTERPRISE_TOKEN over GITHUB_TOKEN;
// the public host only ever uses GITHUB_TOKEN. The two host/credential pairs
// are never mixed the other way around.
func resolveToken(flagToken, apiURL string) string {
	if flagToken != "" {
		return flagToken
	}
	if apiURL != "" {
		if t := os.Getenv("GITHUB_ENTERPRISE_TOKEN"); t != "" {
			return t
		}
	}
	return os.Getenv("GITHUB_TOKEN")
}
