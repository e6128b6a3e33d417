package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/naka-gawa/repo-report/internal/domain"
)

const textRule = 80

// renderText emits the line-oriented terminal report. Field order is fixed so
// output for identical stats is identical.
func renderText(stats *domain.ActivityStats, w io.Writer) error {
	var b strings.Builder
	rule := strings.Repeat("=", textRule)
	sep := strings.Repeat("-", textRule)

	b.WriteString(rule + "\n")
	b.WriteString("Repository Activity Report\n")
	fmt.Fprintf(&b, "Repository: %s\n", stats.FullRepo())
	fmt.Fprintf(&b, "User: @%s\n", stats.Username)
	fmt.Fprintf(&b, "Period: %s to %s (%d days)\n",
		stats.Window.Start.Format(domain.DateLayout),
		stats.Window.End.Format(domain.DateLayout),
		stats.Window.Days())
	b.WriteString(rule + "\n\n")

	t := stats.Totals
	b.WriteString("SUMMARY\n")
	b.WriteString(sep + "\n")
	fmt.Fprintf(&b, "Pull Requests Merged:     %d\n", t.PullRequestsMerged)
	fmt.Fprintf(&b, "Reviews Given:            %d\n", t.ReviewsGiven)
	fmt.Fprintf(&b, "Unique PRs Reviewed:      %d\n", t.UniquePRsReviewed)
	fmt.Fprintf(&b, "Issues Opened:            %d\n", t.IssuesOpened)
	fmt.Fprintf(&b, "Issues Closed:            %d\n", t.IssuesClosed)
	fmt.Fprintf(&b, "Issue Comments:           %d\n", t.IssueComments)
	fmt.Fprintf(&b, "Unique Issues Commented:  %d\n", t.UniqueIssues)
	fmt.Fprintf(&b, "Commits in PRs:           %d\n", t.CommitsInPRs)
	fmt.Fprintf(&b, "Direct Commits:           %d\n", t.DirectCommits)
	fmt.Fprintf(&b, "Total Lines Added:        +%d\n", t.LinesAdded)
	fmt.Fprintf(&b, "Total Lines Deleted:      -%d\n", t.LinesDeleted)
	fmt.Fprintf(&b, "Total Files Changed:      %d\n\n", t.FilesChanged)

	b.WriteString("PULL REQUEST SIZE DISTRIBUTION\n")
	b.WriteString(sep + "\n")
	for _, class := range domain.SizeClasses {
		fmt.Fprintf(&b, "%-4s (%s): %d\n",
			strings.ToUpper(string(class)), domain.SizeDescription(class), stats.SizeHistogram[class])
	}
	if t.PullRequestsMerged > 0 {
		fmt.Fprintf(&b, "Mean changes per PR:   %.1f\n", stats.MeanPRChanges)
		fmt.Fprintf(&b, "Median changes per PR: %.1f\n", stats.MedianPRChanges)
	}
	b.WriteString("\n")

	if len(stats.PullRequests) > 0 {
		fmt.Fprintf(&b, "PULL REQUESTS MERGED (%d)\n%s\n", len(stats.PullRequests), sep)
		for _, pr := range stats.PullRequests {
			fmt.Fprintf(&b, "  [%s] #%d: %s\n", strings.ToUpper(string(pr.Size)), pr.Number, pr.Title)
			fmt.Fprintf(&b, "    URL: %s\n", pr.URL)
			fmt.Fprintf(&b, "    Stats: +%d -%d lines (%d total changes), %d files, %d commits\n",
				pr.Additions, pr.Deletions, pr.TotalChanges(), pr.ChangedFiles, pr.Commits)
			if pr.MergedAt != nil {
				fmt.Fprintf(&b, "    Merged: %s\n", pr.MergedAt.Format(time.RFC3339))
			}
			b.WriteString("\n")
		}
	}

	if len(stats.Reviews) > 0 {
		fmt.Fprintf(&b, "PULL REQUESTS REVIEWED (%d reviews on %d PRs)\n%s\n",
			t.ReviewsGiven, t.UniquePRsReviewed, sep)
		for _, r := range stats.Reviews {
			fmt.Fprintf(&b, "  %s on #%d: %s\n", strings.ToUpper(r.State), r.PRNumber, r.PRTitle)
			fmt.Fprintf(&b, "    URL: %s\n", r.PRURL)
			fmt.Fprintf(&b, "    Submitted: %s\n\n", r.SubmittedAt.Format(time.RFC3339))
		}
	}

	if len(stats.IssuesOpened) > 0 {
		fmt.Fprintf(&b, "ISSUES OPENED (%d)\n%s\n", len(stats.IssuesOpened), sep)
		writeIssues(&b, stats.IssuesOpened)
	}
	if len(stats.IssuesClosed) > 0 {
		fmt.Fprintf(&b, "ISSUES CLOSED (%d)\n%s\n", len(stats.IssuesClosed), sep)
		writeIssues(&b, stats.IssuesClosed)
	}

	if len(stats.Comments) > 0 {
		fmt.Fprintf(&b, "ISSUE COMMENTS (%d comments on %d issues)\n%s\n",
			t.IssueComments, t.UniqueIssues, sep)
		for _, c := range stats.Comments {
			fmt.Fprintf(&b, "  #%d: %s\n", c.IssueNumber, c.IssueTitle)
			fmt.Fprintf(&b, "    URL: %s\n", c.IssueURL)
			fmt.Fprintf(&b, "    Commented: %s\n", c.CreatedAt.Format(time.RFC3339))
			if c.BodyPreview != "" {
				fmt.Fprintf(&b, "    Preview: %s\n", c.BodyPreview)
			}
			b.WriteString("\n")
		}
	}

	if len(stats.Commits) > 0 {
		fmt.Fprintf(&b, "DIRECT COMMITS (%d)\n%s\n", len(stats.Commits), sep)
		b.WriteString("Note: commits inside merged PRs are counted separately above.\n\n")
		for _, c := range stats.Commits {
			fmt.Fprintf(&b, "  %s: %s (+%d -%d)\n", c.SHA, c.Message, c.Additions, c.Deletions)
			fmt.Fprintf(&b, "    %s\n", c.AuthoredAt.Format(time.RFC3339))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeIssues(b *strings.Builder, issues []domain.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(b, "  #%d: %s [%s]\n", issue.Number, issue.Title, issue.State)
		fmt.Fprintf(b, "    URL: %s\n", issue.URL)
		fmt.Fprintf(b, "    Created: %s\n", issue.CreatedAt.Format(time.RFC3339))
		if issue.ClosedAt != nil {
			fmt.Fprintf(b, "    Closed: %s\n", issue.ClosedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(b, "    Comments: %d\n\n", issue.Comments)
	}
}
