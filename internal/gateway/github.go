// Package gateway provides authenticated, paginated, rate-limit-aware access
// to a GitHub-compatible REST/Search API.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/repo-report/internal/domain"
)

// defaultMaxRateLimitWait bounds a single sleep on a rate-limit signal. Past
// it the call fails fast with ErrRateLimited instead of blocking the run.
const defaultMaxRateLimitWait = 2 * time.Minute

const commentPreviewRunes = 200

// Config is the explicit configuration of one API client. The token and the
// base URL always travel together: an enterprise URL gets the enterprise
// credential, the public host gets the public one, resolved by the caller.
type Config struct {
	// Token is the bearer token. Empty means anonymous access at the far
	// lower unauthenticated quota.
	Token string
	// BaseURL overrides the public API host for enterprise installs,
	// e.g. https://github.corp.example.com/api/v3. Empty means github.com.
	BaseURL string
	// MaxRateLimitWait caps how long a single rate-limit sleep may last.
	// Zero applies defaultMaxRateLimitWait.
	MaxRateLimitWait time.Duration
}

// Fetcher defines the behavior of a gateway for fetching one user's activity
// records from one repository. Every method paginates to exhaustion and
// returns only records whose relevant timestamp falls inside the window.
type Fetcher interface {
	ResolveRepository(ctx context.Context, owner, repo string) error
	MergedPullRequests(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.PullRequest, error)
	Reviews(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Review, error)
	IssuesOpened(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Issue, error)
	IssuesClosed(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Issue, error)
	IssueComments(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Comment, error)
	Commits(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Commit, error)
}

// Client is the concrete Fetcher backed by the go-github REST client.
type Client struct {
	gh     *github.Client
	logger *log.Logger
}

// NewClient builds a Client from an explicit Config. The transport chain is
// oauth2 (when a token is present) over a bounded rate-limit waiter.
func NewClient(cfg Config, logger *log.Logger) (*Client, error) {
	maxWait := cfg.MaxRateLimitWait
	if maxWait <= 0 {
		maxWait = defaultMaxRateLimitWait
	}
	waiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(maxWait, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = waiter
	if cfg.Token != "" {
		transport = &oauth2.Transport{
			Base:   waiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		}
	}
	gh := github.NewClient(&http.Client{Transport: transport})
	if cfg.BaseURL != "" {
		gh, err = gh.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", cfg.BaseURL, err)
		}
	}
	return &Client{gh: gh, logger: logger}, nil
}

// ResolveRepository verifies the target repository exists and is visible.
// A repository that cannot be resolved at all is fatal for the whole run.
func (c *Client) ResolveRepository(ctx context.Context, owner, repo string) error {
	_, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return classify(resp, fmt.Errorf("failed to resolve %s/%s: %w", owner, repo, err))
	}
	return nil
}

// MergedPullRequests fetches pull requests authored by the user and merged
// inside the window, with a second-order detail fetch per PR for line stats.
func (c *Client) MergedPullRequests(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.PullRequest, error) {
	c.logger.Printf("[1/6] Fetching merged PRs by @%s in %s/%s...", user, owner, repo)
	query := fmt.Sprintf("repo:%s/%s is:pr is:merged author:%s merged:%s", owner, repo, user, w)
	issues, err := c.searchIssues(ctx, query)
	if err != nil {
		return nil, err
	}

	var prs []domain.PullRequest
	for _, issue := range issues {
		pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, issue.GetNumber())
		if err != nil {
			return nil, classify(resp, fmt.Errorf("failed to fetch PR #%d: %w", issue.GetNumber(), err))
		}
		mergedAt := timestampPtr(pr.MergedAt)
		if mergedAt == nil || !w.Contains(*mergedAt) {
			continue
		}
		changes := pr.GetAdditions() + pr.GetDeletions()
		prs = append(prs, domain.PullRequest{
			Number:       pr.GetNumber(),
			Title:        pr.GetTitle(),
			URL:          pr.GetHTMLURL(),
			State:        pr.GetState(),
			CreatedAt:    pr.GetCreatedAt().Time,
			MergedAt:     mergedAt,
			ClosedAt:     timestampPtr(pr.ClosedAt),
			Additions:    pr.GetAdditions(),
			Deletions:    pr.GetDeletions(),
			ChangedFiles: pr.GetChangedFiles(),
			Commits:      pr.GetCommits(),
			Size:         domain.ClassifyPRSize(changes),
		})
	}
	c.logger.Printf("Found %d merged PRs", len(prs))
	return prs, nil
}

// Reviews fetches the user's code reviews submitted inside the window. The
// search API cannot filter reviews by submission date, so candidate PRs are
// searched first and each PR's reviews are filtered client-side.
func (c *Client) Reviews(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Review, error) {
	c.logger.Printf("[2/6] Fetching reviews by @%s in %s/%s...", user, owner, repo)
	query := fmt.Sprintf("repo:%s/%s is:pr reviewed-by:%s", owner, repo, user)
	issues, err := c.searchIssues(ctx, query)
	if err != nil {
		return nil, err
	}

	var reviews []domain.Review
	for _, issue := range issues {
		opts := &github.ListOptions{PerPage: 100}
		for {
			page, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, issue.GetNumber(), opts)
			if err != nil {
				return nil, classify(resp, fmt.Errorf("failed to list reviews for PR #%d: %w", issue.GetNumber(), err))
			}
			for _, r := range page {
				if !strings.EqualFold(r.GetUser().GetLogin(), user) {
					continue
				}
				submitted := r.GetSubmittedAt().Time
				if !w.Contains(submitted) {
					continue
				}
				reviews = append(reviews, domain.Review{
					PRNumber:    issue.GetNumber(),
					PRTitle:     issue.GetTitle(),
					PRURL:       issue.GetHTMLURL(),
					State:       r.GetState(),
					SubmittedAt: submitted,
				})
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
	}
	c.logger.Printf("Found %d reviews", len(reviews))
	return reviews, nil
}

// IssuesOpened fetches issues the user created inside the window.
func (c *Client) IssuesOpened(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Issue, error) {
	c.logger.Printf("[3/6] Fetching issues opened by @%s in %s/%s...", user, owner, repo)
	query := fmt.Sprintf("repo:%s/%s is:issue author:%s created:%s", owner, repo, user, w)
	found, err := c.searchIssues(ctx, query)
	if err != nil {
		return nil, err
	}

	var issues []domain.Issue
	for _, issue := range found {
		if !w.Contains(issue.GetCreatedAt().Time) {
			continue
		}
		issues = append(issues, toDomainIssue(issue))
	}
	c.logger.Printf("Found %d issues opened", len(issues))
	return issues, nil
}

// IssuesClosed fetches issues the user closed inside the window. The search
// API has no closed-by qualifier, so each candidate's event timeline is
// checked for a closed event by the user.
func (c *Client) IssuesClosed(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Issue, error) {
	c.logger.Printf("[4/6] Fetching issues closed by @%s in %s/%s...", user, owner, repo)
	query := fmt.Sprintf("repo:%s/%s is:issue is:closed closed:%s", owner, repo, w)
	found, err := c.searchIssues(ctx, query)
	if err != nil {
		return nil, err
	}

	var issues []domain.Issue
	for _, issue := range found {
		closedByUser, err := c.closedByUser(ctx, owner, repo, issue.GetNumber(), user, w)
		if err != nil {
			return nil, err
		}
		if closedByUser {
			issues = append(issues, toDomainIssue(issue))
		}
	}
	c.logger.Printf("Found %d issues closed", len(issues))
	return issues, nil
}

func (c *Client) closedByUser(ctx context.Context, owner, repo string, number int, user string, w domain.Window) (bool, error) {
	opts := &github.ListOptions{PerPage: 100}
	for {
		events, resp, err := c.gh.Issues.ListIssueEvents(ctx, owner, repo, number, opts)
		if err != nil {
			return false, classify(resp, fmt.Errorf("failed to list events for issue #%d: %w", number, err))
		}
		for _, e := range events {
			if e.GetEvent() != "closed" {
				continue
			}
			if strings.EqualFold(e.GetActor().GetLogin(), user) && w.Contains(e.GetCreatedAt().Time) {
				return true, nil
			}
		}
		if resp.NextPage == 0 {
			return false, nil
		}
		opts.Page = resp.NextPage
	}
}

// IssueComments fetches issue comments the user authored inside the window.
func (c *Client) IssueComments(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Comment, error) {
	c.logger.Printf("[5/6] Fetching issue comments by @%s in %s/%s...", user, owner, repo)
	query := fmt.Sprintf("repo:%s/%s is:issue commenter:%s", owner, repo, user)
	issues, err := c.searchIssues(ctx, query)
	if err != nil {
		return nil, err
	}

	var comments []domain.Comment
	for _, issue := range issues {
		opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}
		for {
			page, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, issue.GetNumber(), opts)
			if err != nil {
				return nil, classify(resp, fmt.Errorf("failed to list comments for issue #%d: %w", issue.GetNumber(), err))
			}
			for _, comment := range page {
				if !strings.EqualFold(comment.GetUser().GetLogin(), user) {
					continue
				}
				created := comment.GetCreatedAt().Time
				if !w.Contains(created) {
					continue
				}
				comments = append(comments, domain.Comment{
					IssueNumber: issue.GetNumber(),
					IssueTitle:  issue.GetTitle(),
					IssueURL:    issue.GetHTMLURL(),
					IssueState:  issue.GetState(),
					CreatedAt:   created,
					BodyPreview: truncate(comment.GetBody(), commentPreviewRunes),
				})
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
	}
	c.logger.Printf("Found %d issue comments", len(comments))
	return comments, nil
}

// Commits fetches commits the user authored directly on the default branch
// inside the window, with a second-order detail fetch per commit for line
// stats.
func (c *Client) Commits(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Commit, error) {
	c.logger.Printf("[6/6] Fetching commits by @%s in %s/%s...", user, owner, repo)
	opts := &github.CommitsListOptions{
		Author:      user,
		Since:       w.Start,
		Until:       w.End.AddDate(0, 0, 1),
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var commits []domain.Commit
	for {
		page, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, classify(resp, fmt.Errorf("failed to list commits: %w", err))
		}
		for _, rc := range page {
			date := rc.GetCommit().GetAuthor().GetDate().Time
			if !w.Contains(date) {
				continue
			}
			detail, resp, err := c.gh.Repositories.GetCommit(ctx, owner, repo, rc.GetSHA(), nil)
			if err != nil {
				return nil, classify(resp, fmt.Errorf("failed to fetch commit %s: %w", shortSHA(rc.GetSHA()), err))
			}
			commits = append(commits, domain.Commit{
				SHA:        shortSHA(rc.GetSHA()),
				Message:    firstLine(rc.GetCommit().GetMessage()),
				URL:        rc.GetHTMLURL(),
				AuthoredAt: date,
				Additions:  detail.GetStats().GetAdditions(),
				Deletions:  detail.GetStats().GetDeletions(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	c.logger.Printf("Found %d commits", len(commits))
	return commits, nil
}

// searchIssues runs one search query and returns the union of all result
// pages.
func (c *Client) searchIssues(ctx context.Context, query string) ([]*github.Issue, error) {
	opts := &github.SearchOptions{
		Sort:        "created",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var all []*github.Issue
	for {
		result, resp, err := c.gh.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, classify(resp, fmt.Errorf("search %q failed: %w", query, err))
		}
		all = append(all, result.Issues...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		c.logger.Println("  Fetching next page of search results...")
	}
	return all, nil
}

func toDomainIssue(issue *github.Issue) domain.Issue {
	return domain.Issue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		URL:       issue.GetHTMLURL(),
		State:     issue.GetState(),
		CreatedAt: issue.GetCreatedAt().Time,
		ClosedAt:  timestampPtr(issue.ClosedAt),
		Comments:  issue.GetComments(),
	}
}

func timestampPtr(ts *github.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
