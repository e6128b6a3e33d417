// Package domain contains the core data structures and domain logic for the application.
package domain

// Totals holds the headline counters of one report. Field names and order are
// part of the JSON schema and must stay stable across runs.
type Totals struct {
	PullRequestsMerged int `json:"pull_requests_merged"`
	ReviewsGiven       int `json:"reviews_given"`
	UniquePRsReviewed  int `json:"unique_prs_reviewed"`
	IssuesOpened       int `json:"issues_opened"`
	IssuesClosed       int `json:"issues_closed"`
	IssueComments      int `json:"issue_comments"`
	UniqueIssues       int `json:"unique_issues_commented"`
	CommitsInPRs       int `json:"commits_in_prs"`
	DirectCommits      int `json:"direct_commits"`
	LinesAdded         int `json:"lines_added"`
	LinesDeleted       int `json:"lines_deleted"`
	FilesChanged       int `json:"files_changed"`
}

// Add accumulates another report's totals, used when rolling reports up per
// user across repositories.
func (t *Totals) Add(o Totals) {
	t.PullRequestsMerged += o.PullRequestsMerged
	t.ReviewsGiven += o.ReviewsGiven
	t.UniquePRsReviewed += o.UniquePRsReviewed
	t.IssuesOpened += o.IssuesOpened
	t.IssuesClosed += o.IssuesClosed
	t.IssueComments += o.IssueComments
	t.UniqueIssues += o.UniqueIssues
	t.CommitsInPRs += o.CommitsInPRs
	t.DirectCommits += o.DirectCommits
	t.LinesAdded += o.LinesAdded
	t.LinesDeleted += o.LinesDeleted
	t.FilesChanged += o.FilesChanged
}

// ActivityStats is the immutable result of aggregating one user's activity in
// one repository over one window. It is the single schema shared by the text,
// JSON and HTML renderers.
type ActivityStats struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	Username string `json:"username"`
	Window   Window `json:"window"`

	Totals        Totals            `json:"totals"`
	SizeHistogram map[SizeClass]int `json:"pr_sizes"`

	// MeanPRChanges and MedianPRChanges summarize changed lines across merged
	// pull requests; both are zero when nothing was merged.
	MeanPRChanges   float64 `json:"mean_pr_changes"`
	MedianPRChanges float64 `json:"median_pr_changes"`

	PullRequests []PullRequest `json:"pull_requests"`
	Reviews      []Review      `json:"reviews"`
	IssuesOpened []Issue       `json:"issues_opened"`
	IssuesClosed []Issue       `json:"issues_closed"`
	Comments     []Comment     `json:"comments"`
	Commits      []Commit      `json:"commits"`
}

// FullRepo returns the owner-qualified repository name.
func (s *ActivityStats) FullRepo() string {
	return s.Owner + "/" + s.Repo
}
