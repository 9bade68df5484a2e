package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// ImpactRanker orders audit findings by likely user impact using the
// LLM, so the email report can lead with what matters. On any LLM
// failure it falls back to the original order rather than erroring.
type ImpactRanker struct {
	LLM LLMClient
}

func NewImpactRanker(client LLMClient) *ImpactRanker {
	return &ImpactRanker{LLM: client}
}

func (r *ImpactRanker) Rank(ctx context.Context, query string, docs []string) ([]int, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if len(docs) == 1 {
		return []int{0}, nil
	}

	docList := ""
	for i, d := range docs {
		// Truncate very long findings
		content := d
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		docList += fmt.Sprintf("[%d] %s\n", i, content)
	}

	prompt := fmt.Sprintf(`You are reviewing visual regression findings for a web page.
Goal: %s

Findings:
%s

Rank the findings above by how much they would hurt a visitor's experience, worst first.
Output ONLY the indices of the findings in order, separated by commas.
Example: 0, 2, 1
Do not output any other text.`, query, docList)

	resp, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		// Fallback to original order on error
		indices := make([]int, len(docs))
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	return parseIndices(resp, len(docs)), nil
}

// parseIndices pulls integer indices out of the model's reply, keeping
// only in-range, first-occurrence values.
func parseIndices(s string, n int) []int {
	re := regexp.MustCompile(`\d+`)
	matches := re.FindAllString(s, -1)
	seen := make(map[int]bool)
	var indices []int
	for _, m := range matches {
		i, err := strconv.Atoi(m)
		if err != nil || i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		indices = append(indices, i)
	}
	return indices
}
