package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/clearops/ticketlens/pkg/models/domain"
)

var kindTitles = map[domain.ReportKind]string{
	domain.ReportExecutiveSummary: "Executive Summary",
	domain.ReportDetailed:         "SLA Performance Report",
	domain.ReportPresentation:     "SLA Performance Presentation",
}

var documentTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct": func(s string) string { return s + "%" },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} — {{.Filename}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #1c2733; }
h1 { border-bottom: 2px solid #2b6cb0; padding-bottom: .4rem; }
h2 { color: #2b6cb0; margin-top: 2rem; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #d4dbe3; padding: .45rem .7rem; text-align: left; }
th { background: #eef3f8; }
.meta { color: #5a6b7b; font-size: .9rem; }
.narrative p { line-height: 1.55; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Source: {{.Filename}} · {{.RowCount}} rows analyzed · Generated {{.GeneratedAt}} · Data quality: {{.Structure.QualityScore}}</p>

<div class="narrative">
{{- range .Paragraphs}}
<p>{{.}}</p>
{{- end}}
</div>

<h2>SLA Compliance</h2>
<table>
<tr><th>SLA</th><th>Tracked</th><th>Violations</th><th>Compliant</th><th>Compliance</th><th>Violation rate</th></tr>
<tr><td>First response</td><td>{{.Analysis.FirstResponseSLA.Total}}</td><td>{{.Analysis.FirstResponseSLA.Violations}}</td><td>{{.Analysis.FirstResponseSLA.Compliance}}</td><td>{{pct .Analysis.FirstResponseSLA.CompliancePercentage}}</td><td>{{pct .Analysis.FirstResponseSLA.ViolationPercentage}}</td></tr>
<tr><td>Resolution</td><td>{{.Analysis.ResolutionSLA.Total}}</td><td>{{.Analysis.ResolutionSLA.Violations}}</td><td>{{.Analysis.ResolutionSLA.Compliance}}</td><td>{{pct .Analysis.ResolutionSLA.CompliancePercentage}}</td><td>{{pct .Analysis.ResolutionSLA.ViolationPercentage}}</td></tr>
</table>

{{- if .Analysis.Insights.TopPerformers}}
<h2>Top Performers</h2>
<table>
<tr><th>Agent</th><th>Tickets</th><th>Compliance</th></tr>
{{- range .Analysis.Insights.TopPerformers}}
<tr><td>{{.Agent}}</td><td>{{.Total}}</td><td>{{pct .ComplianceRate}}</td></tr>
{{- end}}
</table>
{{- end}}

{{- if .Analysis.Insights.ImprovementAreas}}
<h2>Improvement Areas</h2>
<table>
<tr><th>Agent</th><th>Tickets</th><th>Compliance</th></tr>
{{- range .Analysis.Insights.ImprovementAreas}}
<tr><td>{{.Agent}}</td><td>{{.Total}}</td><td>{{pct .ComplianceRate}}</td></tr>
{{- end}}
</table>
{{- end}}

{{- if .Analysis.Insights.CategoryRanking}}
<h2>Categories by Compliance</h2>
<table>
<tr><th>Category</th><th>Tickets</th><th>Compliance</th></tr>
{{- range .Analysis.Insights.CategoryRanking}}
<tr><td>{{.Category}}</td><td>{{.Total}}</td><td>{{pct .CompliancePercentage}}</td></tr>
{{- end}}
</table>
{{- end}}

{{- if .Analysis.Insights.Recommendations}}
<h2>Recommendations</h2>
<ul>
{{- range .Analysis.Insights.Recommendations}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}

{{- if .Structure.Recommendations}}
<h2>Data Quality Notes</h2>
<ul>
{{- range .Structure.Recommendations}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
</body>
</html>
`))

type renderData struct {
	Title       string
	Filename    string
	GeneratedAt string
	RowCount    int
	Structure   *domain.DataStructure
	Analysis    *domain.SLAAnalysis
	Paragraphs  []string
}

// Render produces the final HTML document for a report kind, weaving the
// model narrative between the deterministic metric sections. Narrative text
// goes through template escaping, never raw.
func Render(kind domain.ReportKind, filename string, rowCount int,
	structure *domain.DataStructure, analysis *domain.SLAAnalysis, narrative string) ([]byte, error) {

	title, ok := kindTitles[kind]
	if !ok {
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}

	var paragraphs []string
	for _, p := range strings.Split(narrative, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var buf bytes.Buffer
	err := documentTmpl.Execute(&buf, renderData{
		Title:       title,
		Filename:    filename,
		GeneratedAt: time.Now().Format("2006-01-02 15:04 MST"),
		RowCount:    rowCount,
		Structure:   structure,
		Analysis:    analysis,
		Paragraphs:  paragraphs,
	})
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
