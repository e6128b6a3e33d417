package teamindex

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// WriteIndex renders the dashboard referencing the individual reports under
// reportsDir and persists it atomically at path. The page embeds no
// generation timestamp: an unchanged reports directory produces a
// byte-identical index.
func (b *Builder) WriteIndex(idx *Index, path, reportsDir string) error {
	rel, err := filepath.Rel(filepath.Dir(path), reportsDir)
	if err != nil {
		rel = reportsDir
	}

	var buf bytes.Buffer
	data := indexData{Index: idx, LinkPrefix: filepath.ToSlash(rel)}
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".team-index-*")
	if err != nil {
		return fmt.Errorf("failed to create temp index: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close index: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to persist index: %w", err)
	}
	b.logger.Printf("Wrote index with %d reports to %s", len(idx.Entries), path)
	return nil
}

type indexData struct {
	*Index
	LinkPrefix string
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Team Activity Reports</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
         background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
         min-height: 100vh; padding: 40px 20px; }
  .container { max-width: 1400px; margin: 0 auto; }
  .header { background: white; border-radius: 16px; padding: 36px; margin-bottom: 28px;
            box-shadow: 0 10px 40px rgba(0,0,0,0.1); }
  .header h1 { font-size: 2.4em; color: #1f2937; margin-bottom: 8px; }
  .header p { font-size: 1.1em; color: #6b7280; }
  .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
           gap: 18px; margin-top: 18px; }
  .stat-card { background: #f3f4f6; padding: 18px; border-radius: 12px; text-align: center; }
  .stat-value { font-size: 2em; font-weight: bold; color: #667eea; }
  .stat-label { font-size: 0.9em; color: #6b7280; margin-top: 4px; }
  .table-container { background: white; border-radius: 16px; padding: 28px;
                     box-shadow: 0 10px 40px rgba(0,0,0,0.1); overflow-x: auto;
                     margin-bottom: 36px; }
  .table-container h2 { margin-bottom: 18px; color: #1f2937; font-size: 1.5em; }
  table { width: 100%; border-collapse: collapse; font-size: 0.95em; }
  th { padding: 14px 10px; text-align: left; font-weight: 600; color: #374151;
       border-bottom: 2px solid #e5e7eb; white-space: nowrap; }
  td { padding: 12px 10px; border-bottom: 1px solid #f3f4f6; color: #1f2937; }
  tbody tr:hover { background: #f9fafb; }
  .username-link { color: #667eea; text-decoration: none; font-weight: 600; }
  .username-link:hover { text-decoration: underline; }
  .metric-cell { text-align: center; font-family: Monaco, monospace; font-size: 0.9em; }
  .repo-cell { font-family: Monaco, monospace; font-size: 0.9em; color: #6b7280; }
  .positive { color: #10b981; }
  .negative { color: #ef4444; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Team Activity Reports</h1>
    <p>Aggregated GitHub repository activity metrics</p>
    <div class="stats">
      <div class="stat-card">
        <div class="stat-value">{{len .Entries}}</div>
        <div class="stat-label">Total Reports</div>
      </div>
      <div class="stat-card">
        <div class="stat-value">{{len .Users}}</div>
        <div class="stat-label">Team Members</div>
      </div>
      <div class="stat-card">
        <div class="stat-value">{{.RepoCount}}</div>
        <div class="stat-label">Repositories</div>
      </div>
    </div>
  </div>

  <div class="table-container">
    <h2>Summary by User</h2>
    <table>
      <thead>
        <tr>
          <th>Date</th>
          <th>Username</th>
          <th>Real Name</th>
          <th>Total PRs Merged</th>
        </tr>
      </thead>
      <tbody>
        {{range .Users}}
        <tr>
          <td>{{.Date}}</td>
          <td>@{{.Username}}</td>
          <td>{{.RealName}}</td>
          <td class="metric-cell">{{.Totals.PullRequestsMerged}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </div>

  <div class="table-container">
    <h2>Individual Reports</h2>
    <table>
      <thead>
        <tr>
          <th>Date</th>
          <th>Username</th>
          <th>Repository</th>
          <th>PRs Merged</th>
          <th>Reviews</th>
          <th>Issues Opened</th>
          <th>Issues Closed</th>
          <th>Comments</th>
          <th>Commits</th>
          <th>Lines +</th>
          <th>Lines -</th>
        </tr>
      </thead>
      <tbody>
        {{$prefix := .LinkPrefix}}
        {{range .Entries}}
        <tr>
          <td>{{.Date}}</td>
          <td><a href="{{$prefix}}/{{.File}}" class="username-link">@{{.Username}}</a></td>
          <td class="repo-cell">{{.Repo}}</td>
          <td class="metric-cell">{{.Totals.PullRequestsMerged}}</td>
          <td class="metric-cell">{{.Totals.ReviewsGiven}}</td>
          <td class="metric-cell">{{.Totals.IssuesOpened}}</td>
          <td class="metric-cell">{{.Totals.IssuesClosed}}</td>
          <td class="metric-cell">{{.Totals.IssueComments}}</td>
          <td class="metric-cell">{{.Totals.DirectCommits}}</td>
          <td class="metric-cell positive">+{{.Totals.LinesAdded}}</td>
          <td class="metric-cell negative">-{{.Totals.LinesDeleted}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </div>
</div>
</body>
</html>
`))
