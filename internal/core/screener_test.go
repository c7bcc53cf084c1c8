package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mediascreen/internal/config"
	"github.com/agenthands/mediascreen/internal/core/conflict"
	"github.com/agenthands/mediascreen/internal/core/filter"
	"github.com/agenthands/mediascreen/internal/core/model"
	"github.com/agenthands/mediascreen/internal/core/validate"
)

type mockExtractor struct {
	Spans []model.ExtractedSpan
	Calls int
}

func (m *mockExtractor) Extract(ctx context.Context, text string) ([]model.ExtractedSpan, error) {
	m.Calls++
	return m.Spans, nil
}

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

func span(name string) model.ExtractedSpan {
	return model.ExtractedSpan{Text: name, Start: 0, End: len(name), Source: model.SourceExtractor}
}

func newTestScreener(extractor *mockExtractor, validatorLLM *mockLLM) *Screener {
	cfg := config.Default()
	detector := conflict.NewDetector(cfg.Thresholds, cfg.Excerpt.ConflictWindow)
	detector.Now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	f := filter.NewFilter(extractor, detector, config.DefaultNicknames(), cfg.Thresholds)
	v := validate.NewValidator(validatorLLM, cfg.Prompts.Validation, cfg.Thresholds.Confidence, 5*time.Second)
	return NewScreener(f, v, validate.NewCache(cfg.Cache.Capacity), VersionsFromConfig(cfg.Versions), cfg.Excerpt.Window)
}

func TestMatchRejectsEmptyInputs(t *testing.T) {
	extractor := &mockExtractor{}
	s := newTestScreener(extractor, &mockLLM{})

	_, err := s.Match(context.Background(), model.Candidate{Name: "  "}, "some article")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = s.Match(context.Background(), model.Candidate{Name: "Jane Smith"}, "   ")
	assert.ErrorIs(t, err, ErrEmptyArticle)

	assert.Zero(t, extractor.Calls, "no pipeline stage may run on invalid input")
}

func TestMatchStrongMatchSkipsValidation(t *testing.T) {
	article := "Jane Smith was charged with fraud on Monday."
	validatorLLM := &mockLLM{}
	s := newTestScreener(&mockExtractor{Spans: []model.ExtractedSpan{span("Jane Smith")}}, validatorLLM)

	resp, err := s.Match(context.Background(), model.Candidate{Name: "Jane Smith"}, article)

	require.NoError(t, err)
	assert.Equal(t, model.DecisionMatch, resp.Decision)
	assert.Equal(t, 1, resp.Stage)
	assert.Nil(t, resp.Confidence)
	assert.Zero(t, validatorLLM.Calls)
	assert.Equal(t, 0, s.Cache.Len())
	assert.NotEmpty(t, resp.RequestID)
}

func TestMatchDeferredCaseRunsValidation(t *testing.T) {
	article := "John Smith attended the fraud trial."
	validatorLLM := &mockLLM{Response: `{"decision": "match", "confidence": 0.9, "evidence_sentence": "John Smith attended the fraud trial.", "reasons": "Profile aligns."}`}
	s := newTestScreener(&mockExtractor{Spans: []model.ExtractedSpan{span("John Smith")}}, validatorLLM)

	resp, err := s.Match(context.Background(), model.Candidate{Name: "Jane Smith"}, article)

	require.NoError(t, err)
	assert.Equal(t, model.DecisionMatch, resp.Decision)
	assert.Equal(t, 2, resp.Stage)
	require.NotNil(t, resp.Confidence)
	assert.InDelta(t, 0.9, *resp.Confidence, 1e-9)
	assert.Equal(t, 1, validatorLLM.Calls)
	assert.Equal(t, 1, s.Cache.Len())
	assert.Equal(t, model.DecisionReview, resp.Details.Stage1.Decision)
}

func TestMatchRepeatedDeferredCaseHitsCache(t *testing.T) {
	article := "John Smith attended the fraud trial."
	validatorLLM := &mockLLM{Response: `{"decision": "no_match", "confidence": 0.95, "reasons": "Different person."}`}
	s := newTestScreener(&mockExtractor{Spans: []model.ExtractedSpan{span("John Smith")}}, validatorLLM)
	candidate := model.Candidate{Name: "Jane Smith"}

	first, err := s.Match(context.Background(), candidate, article)
	require.NoError(t, err)
	second, err := s.Match(context.Background(), candidate, article)
	require.NoError(t, err)

	assert.Equal(t, 1, validatorLLM.Calls, "second request must be served from cache")
	assert.Equal(t, first.Decision, second.Decision)
	assert.Equal(t, *first.Confidence, *second.Confidence)
}

func TestMatchValidationFailureDegradesToReview(t *testing.T) {
	article := "John Smith attended the fraud trial."
	validatorLLM := &mockLLM{Err: errors.New("service unavailable")}
	s := newTestScreener(&mockExtractor{Spans: []model.ExtractedSpan{span("John Smith")}}, validatorLLM)

	resp, err := s.Match(context.Background(), model.Candidate{Name: "Jane Smith"}, article)

	require.NoError(t, err)
	assert.Equal(t, model.DecisionReview, resp.Decision)
	assert.Equal(t, 1, resp.Stage)
	assert.Nil(t, resp.Confidence)
	assert.Contains(t, resp.Explanation, "unavailable")
	assert.Equal(t, 0, s.Cache.Len(), "failed validations are not cached")
}

func TestMatchValidationNeverUpgradesNoMatch(t *testing.T) {
	// Stage 1 rules the pair out; a validator that would say match must
	// never be consulted.
	article := "Bob Builder fixed the fence."
	validatorLLM := &mockLLM{Response: `{"decision": "match", "confidence": 0.99, "reasons": "irrelevant"}`}
	s := newTestScreener(&mockExtractor{Spans: []model.ExtractedSpan{span("Bob Builder")}}, validatorLLM)

	resp, err := s.Match(context.Background(), model.Candidate{Name: "Alice Wonderland"}, article)

	require.NoError(t, err)
	assert.Equal(t, model.DecisionNoMatch, resp.Decision)
	assert.Equal(t, 1, resp.Stage)
	assert.Zero(t, validatorLLM.Calls)
}

func TestMatchLowConfidenceValidationDegrades(t *testing.T) {
	article := "John Smith attended the fraud trial."
	validatorLLM := &mockLLM{Response: `{"decision": "match", "confidence": 0.4, "reasons": "Weak evidence."}`}
	s := newTestScreener(&mockExtractor{Spans: []model.ExtractedSpan{span("John Smith")}}, validatorLLM)

	resp, err := s.Match(context.Background(), model.Candidate{Name: "Jane Smith"}, article)

	require.NoError(t, err)
	assert.Equal(t, model.DecisionNoMatch, resp.Decision)
	assert.Equal(t, 2, resp.Stage)
}

func TestMatchVersionsEchoed(t *testing.T) {
	article := "Jane Smith was charged with fraud."
	s := newTestScreener(&mockExtractor{Spans: []model.ExtractedSpan{span("Jane Smith")}}, &mockLLM{})

	resp, err := s.Match(context.Background(), model.Candidate{Name: "Jane Smith"}, article)

	require.NoError(t, err)
	assert.Equal(t, VersionsFromConfig(config.Default().Versions), resp.Versions)
	assert.NotEmpty(t, resp.Versions.Extractor)
}
