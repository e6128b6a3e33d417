package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/naka-gawa/repo-report/internal/domain"
)

// manifestMarker identifies the machine-readable metrics block embedded in
// every HTML report. The team index reads this block instead of scraping the
// rendered markup.
const manifestMarker = `<script type="application/json" id="repo-report-manifest">`

// Manifest is the structured summary embedded in each HTML report. It is the
// source of truth for the team index; the filename convention is only a
// discovery filter.
type Manifest struct {
	Username string        `json:"username"`
	Repo     string        `json:"repo"`
	Date     string        `json:"date"`
	Totals   domain.Totals `json:"totals"`
}

// NewManifest derives the manifest for one report.
func NewManifest(stats *domain.ActivityStats) Manifest {
	return Manifest{
		Username: stats.Username,
		Repo:     stats.FullRepo(),
		Date:     stats.Window.End.Format(domain.DateLayout),
		Totals:   stats.Totals,
	}
}

// ExtractManifest locates and decodes the manifest block of an HTML report.
func ExtractManifest(r io.Reader) (Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read report: %w", err)
	}
	content := string(data)

	start := strings.Index(content, manifestMarker)
	if start < 0 {
		return Manifest{}, fmt.Errorf("no manifest block found")
	}
	content = content[start+len(manifestMarker):]
	end := strings.Index(content, "</script>")
	if end < 0 {
		return Manifest{}, fmt.Errorf("unterminated manifest block")
	}

	var m Manifest
	if err := json.Unmarshal([]byte(content[:end]), &m); err != nil {
		return Manifest{}, fmt.Errorf("malformed manifest block: %w", err)
	}
	if m.Username == "" || m.Repo == "" {
		return Manifest{}, fmt.Errorf("manifest missing username or repo")
	}
	return m, nil
}
