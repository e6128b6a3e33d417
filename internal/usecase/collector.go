// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/naka-gawa/repo-report/internal/domain"
	"github.com/naka-gawa/repo-report/internal/gateway"
)

// Collector gathers the raw record sets for one activity query. The six
// fetches run sequentially: the API quota is a shared per-credential budget,
// so the engine never multiplies in-flight calls on its own.
type Collector struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, logger *log.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Collect fetches every record kind for the query. An unresolvable repository
// is fatal; a missing or inaccessible user on an individual query class just
// yields an empty record set, so a zero-activity report is still produced.
func (c *Collector) Collect(ctx context.Context, q domain.ActivityQuery) (domain.RecordSet, error) {
	c.logger.Printf("Collecting activity for @%s in %s over %s", q.Username, q.FullRepo(), q.Window)

	if err := c.fetcher.ResolveRepository(ctx, q.Owner, q.Repo); err != nil {
		return domain.RecordSet{}, fmt.Errorf("repository %s: %w", q.FullRepo(), err)
	}

	var records domain.RecordSet
	steps := []struct {
		name string
		run  func() error
	}{
		{"merged pull requests", func() (err error) {
			records.PullRequests, err = c.fetcher.MergedPullRequests(ctx, q.Owner, q.Repo, q.Username, q.Window)
			return err
		}},
		{"reviews", func() (err error) {
			records.Reviews, err = c.fetcher.Reviews(ctx, q.Owner, q.Repo, q.Username, q.Window)
			return err
		}},
		{"issues opened", func() (err error) {
			records.IssuesOpened, err = c.fetcher.IssuesOpened(ctx, q.Owner, q.Repo, q.Username, q.Window)
			return err
		}},
		{"issues closed", func() (err error) {
			records.IssuesClosed, err = c.fetcher.IssuesClosed(ctx, q.Owner, q.Repo, q.Username, q.Window)
			return err
		}},
		{"issue comments", func() (err error) {
			records.Comments, err = c.fetcher.IssueComments(ctx, q.Owner, q.Repo, q.Username, q.Window)
			return err
		}},
		{"commits", func() (err error) {
			records.Commits, err = c.fetcher.Commits(ctx, q.Owner, q.Repo, q.Username, q.Window)
			return err
		}},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				// Missing data on one query class is empty activity, not a
				// failed run.
				c.logger.Printf("No %s found (%v), continuing", step.name, err)
				continue
			}
			return domain.RecordSet{}, fmt.Errorf("collecting %s: %w", step.name, err)
		}
	}
	c.logger.Println("Collection complete.")
	return records, nil
}
