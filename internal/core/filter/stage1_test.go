package filter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mediascreen/internal/config"
	"github.com/agenthands/mediascreen/internal/core/conflict"
	"github.com/agenthands/mediascreen/internal/core/model"
)

type mockExtractor struct {
	Spans []model.ExtractedSpan
	Err   error
	Calls int
}

func (m *mockExtractor) Extract(ctx context.Context, text string) ([]model.ExtractedSpan, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Spans, nil
}

func spanFor(text, name string) model.ExtractedSpan {
	return model.ExtractedSpan{Text: name, Start: 0, End: len(name), Source: model.SourceExtractor}
}

func newTestFilter(extractor *mockExtractor) *Filter {
	cfg := config.Default()
	detector := conflict.NewDetector(cfg.Thresholds, cfg.Excerpt.ConflictWindow)
	detector.Now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return NewFilter(extractor, detector, config.DefaultNicknames(), cfg.Thresholds)
}

func TestRunExactMatch(t *testing.T) {
	article := "John Smith won the regional award on Saturday."
	f := newTestFilter(&mockExtractor{Spans: []model.ExtractedSpan{spanFor(article, "John Smith")}})

	result := f.Run(context.Background(), model.Candidate{Name: "John Smith"}, article)

	assert.Equal(t, model.DecisionMatch, result.Decision)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, "John Smith", result.BestPerson)
	assert.True(t, result.VariantTag.Strict())
	assert.Zero(t, result.Penalty)
}

func TestRunNicknameVariantDefers(t *testing.T) {
	article := "Bill Gates, the Microsoft co-founder, spoke today."
	f := newTestFilter(&mockExtractor{Spans: []model.ExtractedSpan{spanFor(article, "Bill Gates")}})

	result := f.Run(context.Background(), model.Candidate{Name: "William Gates"}, article)

	assert.Equal(t, model.DecisionReview, result.Decision)
	assert.GreaterOrEqual(t, result.Score, 80)
	assert.Equal(t, model.VariantNickname, result.VariantTag)
	assert.Equal(t, "bill gates", result.CandidateVariant)
}

func TestRunHardConflictForcesNoMatch(t *testing.T) {
	article := "John Smith, born in 1990, was arrested downtown."
	f := newTestFilter(&mockExtractor{Spans: []model.ExtractedSpan{spanFor(article, "John Smith")}})

	result := f.Run(context.Background(), model.Candidate{Name: "John Smith", DOB: "1950-01-01"}, article)

	assert.Equal(t, model.DecisionNoMatch, result.Decision)
	require.NotEmpty(t, result.Conflicts)
	assert.True(t, model.HasHard(result.Conflicts))
}

func TestRunSoftConflictPenalizesButMayStillMatch(t *testing.T) {
	// Exact name, occupation family differs: 100 - 20 = 80 stays at the
	// strong threshold, so the match stands with the penalty on record.
	article := "Judge John Smith presided over the hearing."
	f := newTestFilter(&mockExtractor{Spans: []model.ExtractedSpan{spanFor(article, "John Smith")}})

	result := f.Run(context.Background(), model.Candidate{Name: "John Smith", Occupation: "engineer"}, article)

	assert.Equal(t, model.DecisionMatch, result.Decision)
	assert.Equal(t, 80, result.Score)
	assert.Equal(t, 20, result.Penalty)
}

func TestRunSoftConflictBelowThresholdDefers(t *testing.T) {
	// Occupation soft conflict plus decade soft conflict: 100 - 40 = 60.
	article := "Judge John Smith, a man in his 40s, presided over the hearing."
	f := newTestFilter(&mockExtractor{Spans: []model.ExtractedSpan{spanFor(article, "John Smith")}})

	result := f.Run(context.Background(), model.Candidate{Name: "John Smith", DOB: "1950-01-01", Occupation: "engineer"}, article)

	assert.Equal(t, model.DecisionReview, result.Decision)
	assert.Equal(t, 60, result.Score)
	assert.Equal(t, 40, result.Penalty)
}

func TestRunBorderlineBandDefers(t *testing.T) {
	article := "John Smith attended the conference."
	f := newTestFilter(&mockExtractor{Spans: []model.ExtractedSpan{spanFor(article, "John Smith")}})

	result := f.Run(context.Background(), model.Candidate{Name: "Jane Smith"}, article)

	assert.Equal(t, model.DecisionReview, result.Decision)
	assert.GreaterOrEqual(t, result.Score, 60)
	assert.Less(t, result.Score, 80)
}

func TestRunLowScoreNoMatch(t *testing.T) {
	article := "Bob Builder fixed the fence."
	f := newTestFilter(&mockExtractor{Spans: []model.ExtractedSpan{spanFor(article, "Bob Builder")}})

	result := f.Run(context.Background(), model.Candidate{Name: "Alice Wonderland"}, article)

	assert.Equal(t, model.DecisionNoMatch, result.Decision)
}

func TestRunNoPersonsFound(t *testing.T) {
	article := "the quick brown fox jumps over the lazy dog"
	f := newTestFilter(&mockExtractor{})

	result := f.Run(context.Background(), model.Candidate{Name: "Alice Wonderland"}, article)

	assert.Equal(t, model.DecisionNoMatch, result.Decision)
	assert.Zero(t, result.Score)
	assert.Contains(t, result.Reasons, "No person names found")
}

func TestRunExtractorFailureFallsBack(t *testing.T) {
	article := "Witnesses saw John Smith leave the building."
	extractor := &mockExtractor{Err: errors.New("extractor down")}
	f := newTestFilter(extractor)

	result := f.Run(context.Background(), model.Candidate{Name: "John Smith"}, article)

	assert.Equal(t, 1, extractor.Calls)
	assert.Equal(t, model.DecisionMatch, result.Decision)
	assert.Equal(t, "John Smith", result.BestPerson)
}

func TestRunHardConflictNeverMatches(t *testing.T) {
	// Property check across score levels: an explicit incompatible birth
	// year blocks a match no matter how good the name evidence is.
	cases := []struct {
		article string
		mention string
	}{
		{"John Smith, born in 1990, was arrested.", "John Smith"},
		{"John Michael Smith, born in 1992, was arrested.", "John Michael Smith"},
		{"J. Smith, born in 1991, was arrested.", "J. Smith"},
	}
	for _, tc := range cases {
		f := newTestFilter(&mockExtractor{Spans: []model.ExtractedSpan{spanFor(tc.article, tc.mention)}})
		result := f.Run(context.Background(), model.Candidate{Name: "John Michael Smith", DOB: "1950-01-01"}, tc.article)
		assert.NotEqual(t, model.DecisionMatch, result.Decision, "article %q", tc.article)
	}
}
