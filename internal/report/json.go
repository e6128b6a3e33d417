package report

import (
	"encoding/json"
	"io"

	"github.com/naka-gawa/repo-report/internal/domain"
)

// renderJSON emits the full ActivityStats document. The field names and
// nesting come straight from the domain struct tags, so the schema is stable
// across runs for identical input.
func renderJSON(stats *domain.ActivityStats, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
