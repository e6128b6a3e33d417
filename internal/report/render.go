// Package report renders ActivityStats into the text, JSON and HTML report
// formats and persists them atomically.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/naka-gawa/repo-report/internal/domain"
)

// Format selects one of the three report encodings. All formats expose the
// same logical schema; only presentation differs.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatHTML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q, expected text, html or json", s)
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// Render writes the report to w.
func Render(stats *domain.ActivityStats, format Format, w io.Writer) error {
	switch format {
	case FormatText:
		return renderText(stats, w)
	case FormatJSON:
		return renderJSON(stats, w)
	case FormatHTML:
		return renderHTML(stats, w)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteFile renders to a buffer first and then persists with a temp-file
// rename, so a failure partway never leaves a partial report on disk.
func WriteFile(stats *domain.ActivityStats, format Format, path string) error {
	var buf bytes.Buffer
	if err := Render(stats, format, &buf); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".repo-report-*")
	if err != nil {
		return fmt.Errorf("failed to create temp report: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to persist report: %w", err)
	}
	return nil
}

// DefaultFilename returns the conventional report filename,
// username-repo_name-yyyy-mm-dd.<ext>, dated by the window end.
func DefaultFilename(stats *domain.ActivityStats, format Format) string {
	return fmt.Sprintf("%s-%s-%s.%s",
		stats.Username, stats.Repo, stats.Window.End.Format(domain.DateLayout), format.Ext())
}
