// Package llm abstracts the remote reasoning services used by the pipeline:
// the entity extractor prompt and the stage-2 validator both go through the
// same provider-agnostic client.
package llm

import (
	"context"
)

// LLMClient generates a completion for a prompt. Implementations must
// respect context cancellation and deadlines.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
