package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/agenthands/parity/internal/config"
	"github.com/agenthands/parity/internal/core/model"
	"github.com/agenthands/parity/internal/explain"
	"github.com/agenthands/parity/internal/llm"
)

// Email is a rendered report email, ready for whatever delivery
// service the deployment uses.
type Email struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// emailData is what the template sees.
type emailData struct {
	Report      model.ComparisonReport
	Explanation *explain.Explanation
	Top         []model.PropertyDifference
	Sections    []Section
}

// Generator renders ComparisonReports into HTML emails. When a ranker
// is configured, the "top differences" block is ordered by estimated
// user impact; otherwise report order is kept.
type Generator struct {
	Config config.EmailConfig
	Ranker llm.RankerClient
}

func NewGenerator(cfg config.EmailConfig, ranker llm.RankerClient) *Generator {
	return &Generator{Config: cfg, Ranker: ranker}
}

// maxTopDifferences caps the headline list; the full set is one click
// away in the dashboard, the email is a digest.
const maxTopDifferences = 5

// Render produces the email for one run. The explanation and extra
// sections (accessibility/performance) are optional.
func (g *Generator) Render(ctx context.Context, report model.ComparisonReport, explanation *explain.Explanation, sections []Section) (Email, error) {
	data := emailData{
		Report:      report,
		Explanation: explanation,
		Top:         g.topDifferences(ctx, report),
		Sections:    sections,
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return Email{}, fmt.Errorf("failed to render report email: %w", err)
	}

	subject := fmt.Sprintf("%s: %s (%s)", g.Config.Subject, report.Meta.PageURL, report.Summary.Status)
	return Email{
		From:    g.Config.From,
		Subject: subject,
		HTML:    buf.String(),
	}, nil
}

func (g *Generator) topDifferences(ctx context.Context, report model.ComparisonReport) []model.PropertyDifference {
	diffs := report.Differences
	if len(diffs) == 0 {
		return nil
	}

	ordered := diffs
	if g.Ranker != nil && len(diffs) > 1 {
		docs := make([]string, len(diffs))
		for i, d := range diffs {
			docs[i] = fmt.Sprintf("%s %s: live=%q stage=%q (%s)", d.Selector, d.Property, d.LiveValue, d.StageValue, d.Severity)
		}
		indices, err := g.Ranker.Rank(ctx, "surface the regressions a visitor would notice first", docs)
		if err == nil && len(indices) > 0 {
			ordered = make([]model.PropertyDifference, 0, len(diffs))
			for _, i := range indices {
				ordered = append(ordered, diffs[i])
			}
			// Anything the model dropped goes at the back.
			picked := make(map[int]bool, len(indices))
			for _, i := range indices {
				picked[i] = true
			}
			for i, d := range diffs {
				if !picked[i] {
					ordered = append(ordered, d)
				}
			}
		}
	}

	if len(ordered) > maxTopDifferences {
		ordered = ordered[:maxTopDifferences]
	}
	return ordered
}

var emailTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222; max-width: 640px; margin: 0 auto;">
  <h1 style="font-size: 20px;">Visual audit: {{.Report.Meta.PageURL}}</h1>
  <p>
    Verdict: <strong style="text-transform: uppercase;">{{.Report.Summary.Status}}</strong>
    &middot; {{.Report.Summary.TotalDifferences}} differences
    &middot; {{.Report.Summary.SystemicCount}} systemic issues
    &middot; {{.Report.VisualDiff.DiffPixelCount}} changed pixels
  </p>

  {{if .Explanation}}
  <h2 style="font-size: 16px;">{{.Explanation.Title}}</h2>
  <p>{{.Explanation.Summary}}</p>
  {{if .Explanation.LikelyCauses}}
  <ul>
    {{range .Explanation.LikelyCauses}}<li>{{.}}</li>{{end}}
  </ul>
  {{end}}
  {{end}}

  {{if .Top}}
  <h2 style="font-size: 16px;">Top differences</h2>
  <table cellpadding="6" cellspacing="0" border="0" style="border-collapse: collapse; width: 100%;">
    <tr style="background: #f4f4f4; text-align: left;">
      <th>Element</th><th>Property</th><th>Live</th><th>Staging</th><th>Severity</th>
    </tr>
    {{range .Top}}
    <tr style="border-bottom: 1px solid #e0e0e0;">
      <td><code>{{.Selector}}</code></td>
      <td>{{.Property}}</td>
      <td>{{.LiveValue}}</td>
      <td>{{.StageValue}}</td>
      <td>{{.Severity}}</td>
    </tr>
    {{end}}
  </table>
  {{end}}

  {{if .Report.SystemicIssues}}
  <h2 style="font-size: 16px;">Design consistency</h2>
  <ul>
    {{range .Report.SystemicIssues}}
    <li><strong>{{.Type}}</strong> ({{.Severity}}): {{.Description}}</li>
    {{end}}
  </ul>
  {{end}}

  {{range .Sections}}
  <h2 style="font-size: 16px;">{{.Title}}</h2>
  <ul>
    {{range .Lines}}<li>{{.}}</li>{{end}}
  </ul>
  {{end}}

  {{if .Report.Summary.AffectedSections}}
  <p style="color: #666;">Affected sections: {{range $i, $s := .Report.Summary.AffectedSections}}{{if $i}}, {{end}}{{$s}}{{end}}</p>
  {{end}}
</body>
</html>
`))
