package domain

import "time"

// PullRequest is one pull request authored by the target user, including the
// line-level detail needed for size classification.
type PullRequest struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	State        string     `json:"state"`
	CreatedAt    time.Time  `json:"created_at"`
	MergedAt     *time.Time `json:"merged_at,omitempty"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	ChangedFiles int        `json:"changed_files"`
	Commits      int        `json:"commits"`
	Size         SizeClass  `json:"size"`
}

// TotalChanges is the changed-line count the size class is derived from.
func (pr PullRequest) TotalChanges() int {
	return pr.Additions + pr.Deletions
}

// Merged reports whether the pull request was merged.
func (pr PullRequest) Merged() bool {
	return pr.MergedAt != nil
}

// Review is one code review the user submitted on a pull request.
type Review struct {
	PRNumber    int       `json:"pr_number"`
	PRTitle     string    `json:"pr_title"`
	PRURL       string    `json:"pr_url"`
	State       string    `json:"state"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Issue is one issue the user opened or closed.
type Issue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	Comments  int        `json:"comments"`
}

// Comment is one issue comment authored by the user. BodyPreview is truncated,
// never the full comment body.
type Comment struct {
	IssueNumber int       `json:"issue_number"`
	IssueTitle  string    `json:"issue_title"`
	IssueURL    string    `json:"issue_url"`
	IssueState  string    `json:"issue_state"`
	CreatedAt   time.Time `json:"created_at"`
	BodyPreview string    `json:"body_preview"`
}

// Commit is one commit authored by the user directly on the repository,
// outside the pull request listings above.
type Commit struct {
	SHA        string    `json:"sha"`
	Message    string    `json:"message"`
	URL        string    `json:"url"`
	AuthoredAt time.Time `json:"authored_at"`
	Additions  int       `json:"additions"`
	Deletions  int       `json:"deletions"`
}

// RecordSet carries the raw, window-filtered records of one collection run
// before aggregation.
type RecordSet struct {
	PullRequests []PullRequest
	Reviews      []Review
	IssuesOpened []Issue
	IssuesClosed []Issue
	Comments     []Comment
	Commits      []Commit
}
