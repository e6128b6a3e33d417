package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/naka-gawa/repo-report/internal/domain"
)

// renderHTML emits a self-contained document: inline styles, no external
// assets, and the manifest block the team index reads back.
func renderHTML(stats *domain.ActivityStats, w io.Writer) error {
	manifest, err := json.Marshal(NewManifest(stats))
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	sizes := make([]sizeCard, 0, len(domain.SizeClasses))
	for _, class := range domain.SizeClasses {
		sizes = append(sizes, sizeCard{
			Label:       strings.ToUpper(string(class)),
			Class:       string(class),
			Count:       stats.SizeHistogram[class],
			Description: domain.SizeDescription(class),
		})
	}

	return reportTemplate.Execute(w, htmlData{
		Stats:    stats,
		Sizes:    sizes,
		Manifest: template.JS(manifest),
	})
}

type sizeCard struct {
	Label       string
	Class       string
	Count       int
	Description string
}

type htmlData struct {
	Stats    *domain.ActivityStats
	Sizes    []sizeCard
	Manifest template.JS
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
	// day renders both time.Time and the optional *time.Time fields.
	"day": func(v any) string {
		switch t := v.(type) {
		case time.Time:
			return t.Format("January 2, 2006")
		case *time.Time:
			if t == nil {
				return ""
			}
			return t.Format("January 2, 2006")
		default:
			return ""
		}
	},
	"stamp":   func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"sizeTag": func(c domain.SizeClass) string { return strings.ToUpper(string(c)) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Repository Activity Report - @{{.Stats.Username}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
         line-height: 1.6; color: #24292f; background: #f6f8fa; padding: 20px; }
  .container { max-width: 1100px; margin: 0 auto; background: white; border-radius: 12px;
               box-shadow: 0 4px 6px rgba(0,0,0,0.1); overflow: hidden; }
  .header { background: linear-gradient(135deg, #0366d6 0%, #0969da 100%); color: white;
            padding: 36px; text-align: center; }
  .header h1 { font-size: 2.2em; margin-bottom: 8px; }
  .header .repo { font-size: 1.4em; font-family: Monaco, monospace; opacity: 0.95; }
  .header .username { font-size: 1.2em; opacity: 0.9; }
  .header .meta { font-size: 0.95em; opacity: 0.85; margin-top: 8px; }
  .metrics-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
                  gap: 18px; padding: 36px; background: #f8f9fa; }
  .metric-card { background: white; padding: 22px; border-radius: 10px; text-align: center;
                 border: 2px solid #e9ecef; }
  .metric-value { font-size: 2.6em; font-weight: 700; color: #0366d6; }
  .metric-label { color: #6c757d; font-size: 0.9em; text-transform: uppercase;
                  letter-spacing: 1px; font-weight: 600; }
  .metric-detail { font-size: 0.8em; color: #6c757d; }
  .section { padding: 36px; }
  .section-title { font-size: 1.6em; margin-bottom: 20px; color: #1f2937;
                   border-bottom: 3px solid #0366d6; padding-bottom: 8px; }
  .size-chart { display: grid; grid-template-columns: repeat(auto-fit, minmax(130px, 1fr)); gap: 14px; }
  .size-card { background: white; padding: 16px; border-radius: 8px; text-align: center;
               border: 2px solid #e9ecef; }
  .size-label { font-size: 0.85em; color: #6c757d; font-weight: 600; }
  .size-value { font-size: 2.2em; font-weight: 700; }
  .size-desc { font-size: 0.75em; color: #6c757d; }
  .item-card { border: 1px solid #e9ecef; border-radius: 8px; padding: 16px; margin-bottom: 14px; }
  .item-title { font-weight: 600; color: #1f2937; }
  .item-number { color: #0366d6; font-weight: 700; }
  .item-link { color: #0366d6; text-decoration: none; }
  .item-link:hover { text-decoration: underline; }
  .item-stats { display: flex; gap: 18px; margin-top: 10px; font-size: 0.9em;
                color: #4b5563; flex-wrap: wrap; }
  .additions { color: #16a34a; font-weight: 600; }
  .deletions { color: #dc2626; font-weight: 600; }
  .badge { display: inline-block; padding: 3px 10px; border-radius: 12px; font-size: 0.78em;
           font-weight: 600; text-transform: uppercase; background: #e9ecef; color: #374151; }
  .preview { margin-top: 8px; padding: 8px; background: #f8f9fa; border-radius: 4px;
             font-size: 0.9em; color: #495057; }
</style>
</head>
<body>
<script type="application/json" id="repo-report-manifest">{{.Manifest}}</script>
<div class="container">
  <div class="header">
    <h1>Repository Activity Report</h1>
    <div class="repo">{{.Stats.FullRepo}}</div>
    <div class="username">@{{.Stats.Username}}</div>
    <div class="meta">Period: {{day .Stats.Window.Start}} to {{day .Stats.Window.End}} ({{.Stats.Window.Days}} days)</div>
  </div>

  <div class="metrics-grid">
    <div class="metric-card">
      <div class="metric-label">PRs Merged</div>
      <div class="metric-value">{{.Stats.Totals.PullRequestsMerged}}</div>
    </div>
    <div class="metric-card">
      <div class="metric-label">Lines Added</div>
      <div class="metric-value">+{{.Stats.Totals.LinesAdded}}</div>
    </div>
    <div class="metric-card">
      <div class="metric-label">Lines Deleted</div>
      <div class="metric-value">-{{.Stats.Totals.LinesDeleted}}</div>
    </div>
    <div class="metric-card">
      <div class="metric-label">Commits in PRs</div>
      <div class="metric-value">{{.Stats.Totals.CommitsInPRs}}</div>
    </div>
  </div>

  <div class="section">
    <h2 class="section-title">Pull Request Size Distribution</h2>
    <div class="size-chart">
      {{range .Sizes}}
      <div class="size-card">
        <div class="size-label">{{.Label}}</div>
        <div class="size-value">{{.Count}}</div>
        <div class="size-desc">{{.Description}}</div>
      </div>
      {{end}}
    </div>
  </div>

  <div class="section">
    <h2 class="section-title">Collaboration</h2>
    <div class="metrics-grid">
      <div class="metric-card">
        <div class="metric-label">Reviews Given</div>
        <div class="metric-value">{{.Stats.Totals.ReviewsGiven}}</div>
        <div class="metric-detail">{{.Stats.Totals.UniquePRsReviewed}} unique PRs</div>
      </div>
      <div class="metric-card">
        <div class="metric-label">Issues Opened</div>
        <div class="metric-value">{{.Stats.Totals.IssuesOpened}}</div>
      </div>
      <div class="metric-card">
        <div class="metric-label">Issues Closed</div>
        <div class="metric-value">{{.Stats.Totals.IssuesClosed}}</div>
      </div>
      <div class="metric-card">
        <div class="metric-label">Issue Comments</div>
        <div class="metric-value">{{.Stats.Totals.IssueComments}}</div>
        <div class="metric-detail">{{.Stats.Totals.UniqueIssues}} unique issues</div>
      </div>
    </div>
  </div>

  {{if .Stats.PullRequests}}
  <div class="section">
    <h2 class="section-title">Pull Requests Merged ({{len .Stats.PullRequests}})</h2>
    {{range .Stats.PullRequests}}
    <div class="item-card">
      <div class="item-title">
        <span class="item-number">#{{.Number}}</span>
        <a href="{{.URL}}" class="item-link" target="_blank">{{.Title}}</a>
        <span class="badge">{{sizeTag .Size}}</span>
      </div>
      <div class="item-stats">
        <span class="additions">+{{.Additions}}</span>
        <span class="deletions">-{{.Deletions}}</span>
        <span>{{.TotalChanges}} total changes</span>
        <span>{{.ChangedFiles}} files</span>
        <span>{{.Commits}} commits</span>
        {{if .MergedAt}}<span>merged {{day .MergedAt}}</span>{{end}}
      </div>
    </div>
    {{end}}
  </div>
  {{end}}

  {{if .Stats.Reviews}}
  <div class="section">
    <h2 class="section-title">Pull Requests Reviewed ({{.Stats.Totals.ReviewsGiven}} reviews on {{.Stats.Totals.UniquePRsReviewed}} PRs)</h2>
    {{range .Stats.Reviews}}
    <div class="item-card">
      <div class="item-title">
        <span class="item-number">#{{.PRNumber}}</span>
        <a href="{{.PRURL}}" class="item-link" target="_blank">{{.PRTitle}}</a>
        <span class="badge">{{upper .State}}</span>
      </div>
      <div class="item-stats"><span>submitted {{day .SubmittedAt}}</span></div>
    </div>
    {{end}}
  </div>
  {{end}}

  {{if .Stats.IssuesOpened}}
  <div class="section">
    <h2 class="section-title">Issues Opened ({{len .Stats.IssuesOpened}})</h2>
    {{range .Stats.IssuesOpened}}
    <div class="item-card">
      <div class="item-title">
        <span class="item-number">#{{.Number}}</span>
        <a href="{{.URL}}" class="item-link" target="_blank">{{.Title}}</a>
        <span class="badge">{{upper .State}}</span>
      </div>
      <div class="item-stats">
        <span>opened {{day .CreatedAt}}</span>
        <span>{{.Comments}} comments</span>
      </div>
    </div>
    {{end}}
  </div>
  {{end}}

  {{if .Stats.IssuesClosed}}
  <div class="section">
    <h2 class="section-title">Issues Closed ({{len .Stats.IssuesClosed}})</h2>
    {{range .Stats.IssuesClosed}}
    <div class="item-card">
      <div class="item-title">
        <span class="item-number">#{{.Number}}</span>
        <a href="{{.URL}}" class="item-link" target="_blank">{{.Title}}</a>
      </div>
      <div class="item-stats">
        {{if .ClosedAt}}<span>closed {{day .ClosedAt}}</span>{{end}}
        <span>{{.Comments}} comments</span>
      </div>
    </div>
    {{end}}
  </div>
  {{end}}

  {{if .Stats.Comments}}
  <div class="section">
    <h2 class="section-title">Issue Comments ({{.Stats.Totals.IssueComments}} comments on {{.Stats.Totals.UniqueIssues}} issues)</h2>
    {{range .Stats.Comments}}
    <div class="item-card">
      <div class="item-title">
        <span class="item-number">#{{.IssueNumber}}</span>
        <a href="{{.IssueURL}}" class="item-link" target="_blank">{{.IssueTitle}}</a>
      </div>
      <div class="item-stats"><span>commented {{day .CreatedAt}}</span></div>
      {{if .BodyPreview}}<div class="preview">{{.BodyPreview}}</div>{{end}}
    </div>
    {{end}}
  </div>
  {{end}}

  {{if .Stats.Commits}}
  <div class="section">
    <h2 class="section-title">Direct Commits ({{len .Stats.Commits}})</h2>
    {{range .Stats.Commits}}
    <div class="item-card">
      <div class="item-title">
        <a href="{{.URL}}" class="item-link" target="_blank">{{.SHA}}</a>
        {{.Message}}
      </div>
      <div class="item-stats">
        <span class="additions">+{{.Additions}}</span>
        <span class="deletions">-{{.Deletions}}</span>
        <span>{{stamp .AuthoredAt}}</span>
      </div>
    </div>
    {{end}}
  </div>
  {{end}}
</div>
</body>
</html>
`))
