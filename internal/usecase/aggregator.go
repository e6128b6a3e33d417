package usecase

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/repo-report/internal/domain"
)

// Aggregate reduces raw record sets into one ActivityStats. It is a pure
// function: identical inputs produce byte-for-byte identical output, and the
// input record set is not mutated. Record lists come out most-recent-first
// with identifier tie-breaks so rendering is stable.
func Aggregate(q domain.ActivityQuery, records domain.RecordSet) *domain.ActivityStats {
	result := &domain.ActivityStats{
		Owner:         q.Owner,
		Repo:          q.Repo,
		Username:      q.Username,
		Window:        q.Window,
		SizeHistogram: make(map[domain.SizeClass]int, len(domain.SizeClasses)),
		PullRequests:  sortPullRequests(records.PullRequests),
		Reviews:       sortReviews(records.Reviews),
		IssuesOpened:  sortIssues(records.IssuesOpened),
		IssuesClosed:  sortIssuesByClose(records.IssuesClosed),
		Comments:      sortComments(records.Comments),
		Commits:       sortCommits(records.Commits),
	}
	for _, class := range domain.SizeClasses {
		result.SizeHistogram[class] = 0
	}

	t := &result.Totals
	var changes []float64
	for _, pr := range result.PullRequests {
		t.PullRequestsMerged++
		t.CommitsInPRs += pr.Commits
		t.LinesAdded += pr.Additions
		t.LinesDeleted += pr.Deletions
		t.FilesChanged += pr.ChangedFiles
		result.SizeHistogram[pr.Size]++
		changes = append(changes, float64(pr.TotalChanges()))
	}
	if len(changes) > 0 {
		// Mean and Median only fail on empty input, guarded above.
		result.MeanPRChanges, _ = stats.Mean(changes)
		result.MedianPRChanges, _ = stats.Median(changes)
	}

	t.ReviewsGiven = len(result.Reviews)
	t.UniquePRsReviewed = countUnique(result.Reviews, func(r domain.Review) int { return r.PRNumber })
	t.IssuesOpened = len(result.IssuesOpened)
	t.IssuesClosed = len(result.IssuesClosed)
	t.IssueComments = len(result.Comments)
	t.UniqueIssues = countUnique(result.Comments, func(c domain.Comment) int { return c.IssueNumber })

	for _, commit := range result.Commits {
		t.DirectCommits++
		t.LinesAdded += commit.Additions
		t.LinesDeleted += commit.Deletions
	}
	return result
}

func countUnique[T any](items []T, key func(T) int) int {
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		seen[key(item)] = struct{}{}
	}
	return len(seen)
}

func sortPullRequests(prs []domain.PullRequest) []domain.PullRequest {
	sorted := append([]domain.PullRequest(nil), prs...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.MergedAt != nil && b.MergedAt != nil && !a.MergedAt.Equal(*b.MergedAt) {
			return a.MergedAt.After(*b.MergedAt)
		}
		return a.Number > b.Number
	})
	return sorted
}

func sortReviews(reviews []domain.Review) []domain.Review {
	sorted := append([]domain.Review(nil), reviews...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.After(b.SubmittedAt)
		}
		return a.PRNumber > b.PRNumber
	})
	return sorted
}

func sortIssues(issues []domain.Issue) []domain.Issue {
	sorted := append([]domain.Issue(nil), issues...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Number > b.Number
	})
	return sorted
}

func sortIssuesByClose(issues []domain.Issue) []domain.Issue {
	sorted := append([]domain.Issue(nil), issues...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		at, bt := a.CreatedAt, b.CreatedAt
		if a.ClosedAt != nil {
			at = *a.ClosedAt
		}
		if b.ClosedAt != nil {
			bt = *b.ClosedAt
		}
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return a.Number > b.Number
	})
	return sorted
}

func sortComments(comments []domain.Comment) []domain.Comment {
	sorted := append([]domain.Comment(nil), comments...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.IssueNumber > b.IssueNumber
	})
	return sorted
}

func sortCommits(commits []domain.Commit) []domain.Commit {
	sorted := append([]domain.Commit(nil), commits...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.AuthoredAt.Equal(b.AuthoredAt) {
			return a.AuthoredAt.After(b.AuthoredAt)
		}
		return a.SHA > b.SHA
	})
	return sorted
}
