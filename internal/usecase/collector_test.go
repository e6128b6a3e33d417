package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-report/internal/domain"
	"github.com/naka-gawa/repo-report/internal/gateway"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It lets us simulate the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ResolveRepository(ctx context.Context, owner, repo string) error {
	args := m.Called(ctx, owner, repo)
	return args.Error(0)
}

func (m *mockFetcher) MergedPullRequests(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.PullRequest, error) {
	args := m.Called(ctx, owner, repo, user, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockFetcher) Reviews(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Review, error) {
	args := m.Called(ctx, owner, repo, user, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockFetcher) IssuesOpened(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Issue, error) {
	args := m.Called(ctx, owner, repo, user, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *mockFetcher) IssuesClosed(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Issue, error) {
	args := m.Called(ctx, owner, repo, user, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *mockFetcher) IssueComments(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Comment, error) {
	args := m.Called(ctx, owner, repo, user, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *mockFetcher) Commits(ctx context.Context, owner, repo, user string, w domain.Window) ([]domain.Commit, error) {
	args := m.Called(ctx, owner, repo, user, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestCollector_Collect(t *testing.T) {
	q := testQuery(t)
	anyArgs := []interface{}{mock.Anything, q.Owner, q.Repo, q.Username, q.Window}

	t.Run("happy path gathers every record kind", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ResolveRepository", mock.Anything, q.Owner, q.Repo).Return(nil)
		fetcher.On("MergedPullRequests", anyArgs...).Return([]domain.PullRequest{{Number: 1}}, nil)
		fetcher.On("Reviews", anyArgs...).Return([]domain.Review{{PRNumber: 2}}, nil)
		fetcher.On("IssuesOpened", anyArgs...).Return([]domain.Issue{{Number: 3}}, nil)
		fetcher.On("IssuesClosed", anyArgs...).Return([]domain.Issue{{Number: 4}}, nil)
		fetcher.On("IssueComments", anyArgs...).Return([]domain.Comment{{IssueNumber: 5}}, nil)
		fetcher.On("Commits", anyArgs...).Return([]domain.Commit{{SHA: "abc1234"}}, nil)

		records, err := NewCollector(fetcher, discardLogger()).Collect(context.Background(), q)

		require.NoError(t, err)
		assert.Len(t, records.PullRequests, 1)
		assert.Len(t, records.Reviews, 1)
		assert.Len(t, records.IssuesOpened, 1)
		assert.Len(t, records.IssuesClosed, 1)
		assert.Len(t, records.Comments, 1)
		assert.Len(t, records.Commits, 1)
		fetcher.AssertExpectations(t)
	})

	t.Run("not found on one query class means empty activity, not failure", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ResolveRepository", mock.Anything, q.Owner, q.Repo).Return(nil)
		fetcher.On("MergedPullRequests", anyArgs...).Return(nil, fmt.Errorf("user: %w", gateway.ErrNotFound))
		fetcher.On("Reviews", anyArgs...).Return([]domain.Review{}, nil)
		fetcher.On("IssuesOpened", anyArgs...).Return([]domain.Issue{}, nil)
		fetcher.On("IssuesClosed", anyArgs...).Return([]domain.Issue{}, nil)
		fetcher.On("IssueComments", anyArgs...).Return([]domain.Comment{}, nil)
		fetcher.On("Commits", anyArgs...).Return([]domain.Commit{}, nil)

		records, err := NewCollector(fetcher, discardLogger()).Collect(context.Background(), q)

		require.NoError(t, err)
		assert.Empty(t, records.PullRequests)
	})

	t.Run("unresolvable repository is fatal", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ResolveRepository", mock.Anything, q.Owner, q.Repo).
			Return(fmt.Errorf("repo: %w", gateway.ErrNotFound))

		_, err := NewCollector(fetcher, discardLogger()).Collect(context.Background(), q)

		assert.ErrorIs(t, err, gateway.ErrNotFound)
		fetcher.AssertNotCalled(t, "MergedPullRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rate limit aborts the run distinctly", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ResolveRepository", mock.Anything, q.Owner, q.Repo).Return(nil)
		fetcher.On("MergedPullRequests", anyArgs...).Return([]domain.PullRequest{}, nil)
		fetcher.On("Reviews", anyArgs...).Return(nil, fmt.Errorf("search: %w", gateway.ErrRateLimited))

		_, err := NewCollector(fetcher, discardLogger()).Collect(context.Background(), q)

		assert.ErrorIs(t, err, gateway.ErrRateLimited)
		assert.False(t, errors.Is(err, gateway.ErrNotFound))
		fetcher.AssertNotCalled(t, "Commits", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
