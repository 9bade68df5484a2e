package llm

import (
	"context"
)

// LLMClient generates free-form text from a prompt. Implementations
// wrap one provider SDK each; callers never see provider types.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RankerClient orders documents by relevance to a query, returning
// indices into the input slice, most relevant first.
type RankerClient interface {
	Rank(ctx context.Context, query string, documents []string) ([]int, error)
}
