// Package extraction finds person-name mentions in article text. The
// primary path asks the configured entity extractor; a regex heuristic
// covers extractor failures and empty results so the pipeline never
// aborts on extraction.
package extraction

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/mediascreen/internal/core/common"
	"github.com/agenthands/mediascreen/internal/core/model"
	"github.com/agenthands/mediascreen/internal/llm"
)

// PersonExtractor yields person spans for an article, in document order.
type PersonExtractor interface {
	Extract(ctx context.Context, text string) ([]model.ExtractedSpan, error)
}

type extractedPersons struct {
	Persons []string `json:"persons"`
}

// LLMExtractor delegates person NER to the configured LLM.
type LLMExtractor struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewLLMExtractor(client llm.LLMClient, prompt string) *LLMExtractor {
	return &LLMExtractor{
		LLM:    client,
		Prompt: prompt,
	}
}

// Extract asks the extractor for person names and anchors each one at its
// first occurrence in the text. Names the model invents that are not
// present verbatim are discarded. Spans come back in document order.
func (e *LLMExtractor) Extract(ctx context.Context, text string) ([]model.ExtractedSpan, error) {
	prompt := fmt.Sprintf(e.Prompt, text)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to extract persons: %w", err)
	}

	result, err := common.ParseJSON[extractedPersons](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extractor output: %w", err)
	}

	lower := strings.ToLower(text)
	var spans []model.ExtractedSpan
	seen := make(map[string]bool)
	for _, name := range result.Persons {
		name = strings.TrimSpace(name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		idx := strings.Index(lower, strings.ToLower(name))
		if idx < 0 {
			continue
		}
		spans = append(spans, model.ExtractedSpan{
			Text:   text[idx : idx+len(name)],
			Start:  idx,
			End:    idx + len(name),
			Source: model.SourceExtractor,
		})
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans, nil
}
