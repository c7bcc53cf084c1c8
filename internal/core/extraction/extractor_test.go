package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mediascreen/internal/core/model"
)

type mockLLM struct {
	Response string
	Err      error
	Calls    int
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func TestExtractAnchorsSpansInDocumentOrder(t *testing.T) {
	text := "Yesterday Bob Builder met Alice Wonderland at the site."
	mock := &mockLLM{Response: `{"persons": ["Alice Wonderland", "Bob Builder"]}`}
	extractor := NewLLMExtractor(mock, "find persons in: %s")

	spans, err := extractor.Extract(context.Background(), text)

	require.NoError(t, err)
	require.Len(t, spans, 2)
	assert.Equal(t, "Bob Builder", spans[0].Text)
	assert.Equal(t, "Alice Wonderland", spans[1].Text)
	assert.Less(t, spans[0].Start, spans[1].Start)
	assert.Equal(t, model.SourceExtractor, spans[0].Source)
	assert.Equal(t, text[spans[1].Start:spans[1].End], "Alice Wonderland")
}

func TestExtractDiscardsInventedNames(t *testing.T) {
	text := "Alice Wonderland visited the office."
	mock := &mockLLM{Response: `{"persons": ["Alice Wonderland", "Carol Invented"]}`}
	extractor := NewLLMExtractor(mock, "%s")

	spans, err := extractor.Extract(context.Background(), text)

	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "Alice Wonderland", spans[0].Text)
}

func TestExtractTolleratesMarkdownFences(t *testing.T) {
	text := "Alice Wonderland visited."
	mock := &mockLLM{Response: "```json\n{\"persons\": [\"Alice Wonderland\"]}\n```"}
	extractor := NewLLMExtractor(mock, "%s")

	spans, err := extractor.Extract(context.Background(), text)

	require.NoError(t, err)
	assert.Len(t, spans, 1)
}

func TestExtractEmptyResult(t *testing.T) {
	mock := &mockLLM{Response: `{"persons": []}`}
	extractor := NewLLMExtractor(mock, "%s")

	spans, err := extractor.Extract(context.Background(), "No people here.")

	require.NoError(t, err)
	assert.Empty(t, spans)
}

func TestExtractPropagatesClientError(t *testing.T) {
	mock := &mockLLM{Err: errors.New("service down")}
	extractor := NewLLMExtractor(mock, "%s")

	_, err := extractor.Extract(context.Background(), "Alice Wonderland visited.")

	assert.Error(t, err)
}

func TestFallbackSpansFindsCapitalizedSequences(t *testing.T) {
	text := "Witnesses saw John Smith and Mary Jane Watson leave the building."

	spans := FallbackSpans(text)

	require.Len(t, spans, 2)
	assert.Equal(t, "John Smith", spans[0].Text)
	assert.Equal(t, "Mary Jane Watson", spans[1].Text)
	assert.Equal(t, model.SourceRegexFallback, spans[0].Source)
}

func TestFallbackSpansFiltersStopwords(t *testing.T) {
	text := "The Mayor spoke. On Monday nothing happened."

	for _, s := range FallbackSpans(text) {
		assert.NotContains(t, s.Text, "The ")
		assert.NotContains(t, s.Text, "On ")
	}
}

func TestFallbackSpansDeduplicates(t *testing.T) {
	text := "John Smith arrived. John Smith left."

	spans := FallbackSpans(text)

	require.Len(t, spans, 1)
	assert.Equal(t, 0, spans[0].Start, "first occurrence wins")
}
