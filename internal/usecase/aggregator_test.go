package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-report/internal/domain"
)

func testQuery(t *testing.T) domain.ActivityQuery {
	t.Helper()
	w, err := domain.ParseWindow(7, "2026-02-02")
	require.NoError(t, err)
	return domain.ActivityQuery{Owner: "acme", Repo: "rocket", Username: "alice", Window: w}
}

func mergedPR(number int, mergedAt string, additions, deletions int) domain.PullRequest {
	t, _ := time.Parse(time.RFC3339, mergedAt)
	return domain.PullRequest{
		Number:    number,
		Title:     "pr",
		MergedAt:  &t,
		Additions: additions,
		Deletions: deletions,
		Commits:   1,
		Size:      domain.ClassifyPRSize(additions + deletions),
	}
}

func TestAggregate(t *testing.T) {
	q := testQuery(t)

	t.Run("two merged PRs land in the right buckets", func(t *testing.T) {
		records := domain.RecordSet{
			PullRequests: []domain.PullRequest{
				mergedPR(1, "2026-01-27T10:00:00Z", 5, 2),
				mergedPR(2, "2026-01-30T10:00:00Z", 300, 50),
			},
		}

		stats := Aggregate(q, records)

		assert.Equal(t, 2, stats.Totals.PullRequestsMerged)
		assert.Equal(t, 1, stats.SizeHistogram[domain.SizeXS])
		assert.Equal(t, 1, stats.SizeHistogram[domain.SizeL])
		assert.Equal(t, 0, stats.SizeHistogram[domain.SizeXXL])
		assert.Equal(t, 305, stats.Totals.LinesAdded)
		assert.Equal(t, 52, stats.Totals.LinesDeleted)
		assert.InDelta(t, 178.5, stats.MeanPRChanges, 0.001)
		assert.InDelta(t, 178.5, stats.MedianPRChanges, 0.001)
	})

	t.Run("zero activity yields all-zero totals", func(t *testing.T) {
		stats := Aggregate(q, domain.RecordSet{})

		assert.Equal(t, domain.Totals{}, stats.Totals)
		assert.Zero(t, stats.MeanPRChanges)
		assert.Empty(t, stats.PullRequests)
		for _, class := range domain.SizeClasses {
			count, ok := stats.SizeHistogram[class]
			assert.True(t, ok, "histogram must carry every class")
			assert.Zero(t, count)
		}
	})

	t.Run("unique counters deduplicate by identifier", func(t *testing.T) {
		now := time.Date(2026, 1, 28, 9, 0, 0, 0, time.UTC)
		records := domain.RecordSet{
			Reviews: []domain.Review{
				{PRNumber: 10, State: "approved", SubmittedAt: now},
				{PRNumber: 10, State: "commented", SubmittedAt: now.Add(time.Hour)},
				{PRNumber: 11, State: "changes_requested", SubmittedAt: now},
			},
			Comments: []domain.Comment{
				{IssueNumber: 5, CreatedAt: now},
				{IssueNumber: 5, CreatedAt: now.Add(time.Minute)},
			},
		}

		stats := Aggregate(q, records)

		assert.Equal(t, 3, stats.Totals.ReviewsGiven)
		assert.Equal(t, 2, stats.Totals.UniquePRsReviewed)
		assert.Equal(t, 2, stats.Totals.IssueComments)
		assert.Equal(t, 1, stats.Totals.UniqueIssues)
	})

	t.Run("direct commits add to line deltas under their own counter", func(t *testing.T) {
		records := domain.RecordSet{
			PullRequests: []domain.PullRequest{mergedPR(1, "2026-01-27T10:00:00Z", 10, 5)},
			Commits: []domain.Commit{
				{SHA: "abc1234", AuthoredAt: time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC), Additions: 7, Deletions: 3},
			},
		}

		stats := Aggregate(q, records)

		assert.Equal(t, 1, stats.Totals.DirectCommits)
		assert.Equal(t, 1, stats.Totals.CommitsInPRs)
		assert.Equal(t, 17, stats.Totals.LinesAdded)
		assert.Equal(t, 8, stats.Totals.LinesDeleted)
	})
}

func TestAggregateOrdering(t *testing.T) {
	q := testQuery(t)
	sameInstant := time.Date(2026, 1, 28, 12, 0, 0, 0, time.UTC)

	records := domain.RecordSet{
		PullRequests: []domain.PullRequest{
			mergedPR(3, "2026-01-27T10:00:00Z", 1, 1),
			mergedPR(1, "2026-01-31T10:00:00Z", 1, 1),
			mergedPR(2, "2026-01-29T10:00:00Z", 1, 1),
		},
		Reviews: []domain.Review{
			{PRNumber: 7, SubmittedAt: sameInstant},
			{PRNumber: 9, SubmittedAt: sameInstant},
			{PRNumber: 8, SubmittedAt: sameInstant},
		},
	}

	stats := Aggregate(q, records)

	// Most recent first.
	assert.Equal(t, []int{1, 2, 3}, []int{
		stats.PullRequests[0].Number, stats.PullRequests[1].Number, stats.PullRequests[2].Number,
	})
	// Equal timestamps fall back to the identifier.
	assert.Equal(t, []int{9, 8, 7}, []int{
		stats.Reviews[0].PRNumber, stats.Reviews[1].PRNumber, stats.Reviews[2].PRNumber,
	})

	// Determinism: identical input produces identical output.
	assert.Equal(t, stats, Aggregate(q, records))
	// The input record set is left untouched.
	assert.Equal(t, 3, records.PullRequests[0].Number)
}

// Splitting a window into non-overlapping parts and aggregating each part
// must account for every record exactly once.
func TestAggregateWindowPartition(t *testing.T) {
	full := testQuery(t)

	firstHalf, err := domain.ParseWindow(4, "2026-01-30")
	require.NoError(t, err)
	secondHalf, err := domain.ParseWindow(2, "2026-02-02")
	require.NoError(t, err)

	records := domain.RecordSet{
		PullRequests: []domain.PullRequest{
			mergedPR(1, "2026-01-27T08:00:00Z", 5, 2),
			mergedPR(2, "2026-01-29T08:00:00Z", 40, 10),
			mergedPR(3, "2026-02-01T08:00:00Z", 300, 50),
		},
	}

	partition := func(w domain.Window) domain.RecordSet {
		var part domain.RecordSet
		for _, pr := range records.PullRequests {
			if pr.MergedAt != nil && w.Contains(*pr.MergedAt) {
				part.PullRequests = append(part.PullRequests, pr)
			}
		}
		return part
	}

	whole := Aggregate(full, records)
	a := Aggregate(domain.ActivityQuery{Owner: full.Owner, Repo: full.Repo, Username: full.Username, Window: firstHalf}, partition(firstHalf))
	b := Aggregate(domain.ActivityQuery{Owner: full.Owner, Repo: full.Repo, Username: full.Username, Window: secondHalf}, partition(secondHalf))

	assert.Equal(t, whole.Totals.PullRequestsMerged, a.Totals.PullRequestsMerged+b.Totals.PullRequestsMerged)
	assert.Equal(t, whole.Totals.LinesAdded, a.Totals.LinesAdded+b.Totals.LinesAdded)
	assert.Equal(t, whole.Totals.LinesDeleted, a.Totals.LinesDeleted+b.Totals.LinesDeleted)
	for _, class := range domain.SizeClasses {
		assert.Equal(t, whole.SizeHistogram[class], a.SizeHistogram[class]+b.SizeHistogram[class],
			"histogram class %s double counted or dropped", class)
	}
}
