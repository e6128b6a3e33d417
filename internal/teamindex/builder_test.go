package teamindex

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-report/internal/domain"
	"github.com/naka-gawa/repo-report/internal/report"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// writeReport renders a real HTML report into dir, the same way the report
// command does.
func writeReport(t *testing.T, dir, owner, repo, user, endDate string, merged int) string {
	t.Helper()
	w, err := domain.ParseWindow(7, endDate)
	require.NoError(t, err)
	stats := &domain.ActivityStats{
		Owner:    owner,
		Repo:     repo,
		Username: user,
		Window:   w,
		Totals: domain.Totals{
			PullRequestsMerged: merged,
			ReviewsGiven:       1,
			LinesAdded:         merged * 10,
			LinesDeleted:       merged * 2,
		},
		SizeHistogram: map[domain.SizeClass]int{domain.SizeXS: merged},
	}
	name := report.DefaultFilename(stats, report.FormatHTML)
	require.NoError(t, report.WriteFile(stats, report.FormatHTML, filepath.Join(dir, name)))
	return name
}

func TestBuilder_Build(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "acme", "booster", "alice", "2026-01-26", 3)
	writeReport(t, dir, "acme", "rocket", "alice", "2026-02-02", 3)
	writeReport(t, dir, "acme", "rocket", "bob", "2026-02-02", 1)

	names := map[string]string{"alice": "Alice Anderson"}
	idx, err := NewBuilder(names, discardLogger()).Build(dir)
	require.NoError(t, err)

	require.Len(t, idx.Entries, 3)
	assert.Equal(t, 2, idx.RepoCount)

	// Entries sorted by username, then date, then file.
	assert.Equal(t, "alice", idx.Entries[0].Username)
	assert.Equal(t, "2026-01-26", idx.Entries[0].Date)
	assert.Equal(t, "acme/booster", idx.Entries[0].Repo)
	assert.Equal(t, "2026-02-02", idx.Entries[1].Date)
	assert.Equal(t, "bob", idx.Entries[2].Username)

	// Per-user rollup sums totals and keeps the most recent date.
	require.Len(t, idx.Users, 2)
	alice := idx.Users[0]
	assert.Equal(t, "alice", alice.Username)
	assert.Equal(t, "Alice Anderson", alice.RealName)
	assert.Equal(t, 6, alice.Totals.PullRequestsMerged)
	assert.Equal(t, 60, alice.Totals.LinesAdded)
	assert.Equal(t, "2026-02-02", alice.Date)

	bob := idx.Users[1]
	assert.Equal(t, "bob", bob.RealName, "unmapped users fall back to their username")
	assert.Equal(t, 1, bob.Totals.PullRequestsMerged)
}

func TestBuilder_BuildSkipsNonReports(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "acme", "rocket", "alice", "2026-02-02", 2)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a report"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))
	// Matches the naming convention but has no manifest: logged and skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bob-rocket-2026-02-02.html"), []byte("<html></html>"), 0o644))

	idx, err := NewBuilder(nil, discardLogger()).Build(dir)
	require.NoError(t, err)

	require.Len(t, idx.Entries, 1)
	assert.Equal(t, "alice", idx.Entries[0].Username)
}

func TestBuilder_BuildMissingDir(t *testing.T) {
	_, err := NewBuilder(nil, discardLogger()).Build(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestBuilder_WriteIndex(t *testing.T) {
	root := t.TempDir()
	reportsDir := filepath.Join(root, "team")
	require.NoError(t, os.Mkdir(reportsDir, 0o755))
	file := writeReport(t, reportsDir, "acme", "rocket", "alice", "2026-02-02", 3)

	b := NewBuilder(nil, discardLogger())
	idx, err := b.Build(reportsDir)
	require.NoError(t, err)

	indexPath := filepath.Join(root, "index.html")
	require.NoError(t, b.WriteIndex(idx, indexPath, reportsDir))

	first, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	out := string(first)
	assert.Contains(t, out, "Team Activity Reports")
	assert.Contains(t, out, `href="team/`+file+`"`)
	assert.Contains(t, out, "@alice")
	assert.Contains(t, out, "acme/rocket")

	// Rebuilding an unchanged directory yields a byte-identical index.
	idx2, err := b.Build(reportsDir)
	require.NoError(t, err)
	require.NoError(t, b.WriteIndex(idx2, indexPath, reportsDir))
	second, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadNames(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		names, err := LoadNames(filepath.Join(t.TempDir(), "user_names.json"))
		require.NoError(t, err)
		assert.Nil(t, names)
	})

	t.Run("valid mapping", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "user_names.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"alice": "Alice Anderson"}`), 0o644))
		names, err := LoadNames(path)
		require.NoError(t, err)
		assert.Equal(t, "Alice Anderson", names["alice"])
	})

	t.Run("malformed mapping", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "user_names.json")
		require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))
		_, err := LoadNames(path)
		assert.Error(t, err)
	})
}
