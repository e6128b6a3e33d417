// Package teamindex scans a directory of rendered HTML reports and aggregates
// them into a team dashboard.
package teamindex

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/repo-report/internal/domain"
	"github.com/naka-gawa/repo-report/internal/report"
)

// reportFilePattern is the discovery filter: username-repo_name-yyyy-mm-dd.html.
// The authoritative username/repo/date come from the embedded manifest.
var reportFilePattern = regexp.MustCompile(`^(.+?)-(.+?)-(\d{4}-\d{2}-\d{2})\.html$`)

// parseConcurrency bounds how many report files are read at once.
const parseConcurrency = 8

// Entry is one discovered report.
type Entry struct {
	Username string
	RealName string
	Repo     string
	Date     string
	Totals   domain.Totals
	File     string
}

// UserSummary is the per-user rollup across all of a user's reports.
type UserSummary struct {
	Username string
	RealName string
	// Date is the most recent report date seen for the user.
	Date   string
	Totals domain.Totals
}

// Index is the aggregated result of one scan. It is rebuilt from the
// filesystem on every run; nothing is persisted between runs.
type Index struct {
	Entries   []Entry
	Users     []UserSummary
	RepoCount int
}

// Builder scans report directories and renders the index page.
type Builder struct {
	names  map[string]string
	logger *log.Logger
}

// NewBuilder creates a Builder. names maps usernames to display names and may
// be nil; unmapped users fall back to their raw username.
func NewBuilder(names map[string]string, logger *log.Logger) *Builder {
	return &Builder{names: names, logger: logger}
}

// LoadNames reads an optional username-to-display-name JSON mapping. A
// missing file is not an error.
func LoadNames(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read names file: %w", err)
	}
	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("malformed names file %s: %w", path, err)
	}
	return names, nil
}

// Build scans dir for report files, extracts each report's manifest and
// aggregates per user. Files that do not match the naming convention or do
// not carry a readable manifest are skipped, never fatal. Output ordering is
// deterministic, so rebuilding an unchanged directory yields an identical
// index.
func (b *Builder) Build(dir string) (*Index, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	var mu sync.Mutex
	var entries []Entry
	var g errgroup.Group
	g.SetLimit(parseConcurrency)

	for _, f := range files {
		if f.IsDir() || f.Name() == "index.html" {
			continue
		}
		m := reportFilePattern.FindStringSubmatch(f.Name())
		if m == nil {
			continue
		}
		name, fallbackDate := f.Name(), m[3]
		g.Go(func() error {
			entry, err := b.parseReport(filepath.Join(dir, name), fallbackDate)
			if err != nil {
				b.logger.Printf("Skipping %s: %v", name, err)
				return nil
			}
			entry.File = name
			mu.Lock()
			entries = append(entries, entry)
			mu.Unlock()
			return nil
		})
	}
	// Parse errors are logged and swallowed, so Wait cannot fail; kept for
	// the errgroup contract.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		a, e := entries[i], entries[j]
		if a.Username != e.Username {
			return a.Username < e.Username
		}
		if a.Date != e.Date {
			return a.Date < e.Date
		}
		return a.File < e.File
	})

	b.logger.Printf("Indexed %d reports from %s", len(entries), dir)
	return &Index{
		Entries:   entries,
		Users:     b.summarize(entries),
		RepoCount: countRepos(entries),
	}, nil
}

func (b *Builder) parseReport(path, fallbackDate string) (Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	manifest, err := report.ExtractManifest(f)
	if err != nil {
		return Entry{}, err
	}
	date := manifest.Date
	if date == "" {
		date = fallbackDate
	}
	return Entry{
		Username: manifest.Username,
		RealName: b.displayName(manifest.Username),
		Repo:     manifest.Repo,
		Date:     date,
		Totals:   manifest.Totals,
	}, nil
}

func (b *Builder) displayName(username string) string {
	if name, ok := b.names[username]; ok && name != "" {
		return name
	}
	return username
}

// summarize rolls entries up per user: totals summed, most recent date kept,
// usernames ascending.
func (b *Builder) summarize(entries []Entry) []UserSummary {
	byUser := make(map[string]*UserSummary)
	for _, e := range entries {
		s, ok := byUser[e.Username]
		if !ok {
			s = &UserSummary{Username: e.Username, RealName: e.RealName}
			byUser[e.Username] = s
		}
		s.Totals.Add(e.Totals)
		if e.Date > s.Date {
			s.Date = e.Date
		}
	}

	users := make([]UserSummary, 0, len(byUser))
	for _, s := range byUser {
		users = append(users, *s)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

func countRepos(entries []Entry) int {
	repos := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		repos[e.Repo] = struct{}{}
	}
	return len(repos)
}
