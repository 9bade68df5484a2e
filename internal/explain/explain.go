package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/parity/internal/core/model"
	"github.com/agenthands/parity/internal/llm"
)

// Explanation is the AI-written digest of a comparison run: a short
// name for the regression, a plain-language summary and the most
// plausible causes to check first.
type Explanation struct {
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	LikelyCauses []string `json:"likely_causes"`
}

// maxPromptDifferences caps how many differences get serialized into
// the prompt; past this the extra ones add tokens, not signal.
const maxPromptDifferences = 25

type Explainer struct {
	LLM llm.LLMClient
}

func NewExplainer(llmClient llm.LLMClient) *Explainer {
	return &Explainer{
		LLM: llmClient,
	}
}

// Explain asks the LLM to name and summarize the run's findings.
func (e *Explainer) Explain(ctx context.Context, report model.ComparisonReport) (Explanation, error) {
	prompt := fmt.Sprintf(`You are reviewing an automated visual audit of a web page.
Verdict: %s. %d property differences, %d systemic design issues, %d changed pixels.

<DIFFERENCES>
%s</DIFFERENCES>

<SYSTEMIC ISSUES>
%s</SYSTEMIC ISSUES>

Instructions:
Explain what likely happened between the live and staging deployments, for a non-technical reviewer.
Return a JSON object with keys "title" (short issue name, max 8 words), "summary" (2-3 sentences) and "likely_causes" (list of strings).

Example JSON:
{
  "title": "Hero typography shrank on staging",
  "summary": "Most headline sizes dropped by 2px...",
  "likely_causes": ["A base font-size change in the theme"]
}
`,
		report.Summary.Status,
		report.Summary.TotalDifferences,
		report.Summary.SystemicCount,
		report.VisualDiff.DiffPixelCount,
		serializeDifferences(report.Differences),
		serializeIssues(report.SystemicIssues))

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return Explanation{}, fmt.Errorf("failed to generate explanation: %w", err)
	}

	result, err := ParseJSON[Explanation](response)
	if err != nil {
		return Explanation{}, fmt.Errorf("failed to parse explanation: %w", err)
	}

	return result, nil
}

func serializeDifferences(diffs []model.PropertyDifference) string {
	var b strings.Builder
	for i, d := range diffs {
		if i == maxPromptDifferences {
			fmt.Fprintf(&b, "... and %d more\n", len(diffs)-i)
			break
		}
		fmt.Fprintf(&b, "- [%s/%s] %s %s: live=%q stage=%q\n", d.Severity, d.Category, d.Selector, d.Property, d.LiveValue, d.StageValue)
	}
	return b.String()
}

func serializeIssues(issues []model.SystemicIssue) string {
	var b strings.Builder
	for _, is := range issues {
		fmt.Fprintf(&b, "- [%s/%s] %s\n", is.Severity, is.Type, is.Description)
	}
	return b.String()
}
