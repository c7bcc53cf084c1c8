// Package core wires the two-stage screening pipeline: the deterministic
// stage-1 name filter, the cached stage-2 remote validation, and the
// response composer.
package core

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/agenthands/mediascreen/internal/config"
	"github.com/agenthands/mediascreen/internal/core/compose"
	"github.com/agenthands/mediascreen/internal/core/conflict"
	"github.com/agenthands/mediascreen/internal/core/filter"
	"github.com/agenthands/mediascreen/internal/core/model"
	"github.com/agenthands/mediascreen/internal/core/validate"
)

// Input validation errors, rejected before any pipeline stage runs.
var (
	ErrEmptyName    = errors.New("candidate name is required")
	ErrEmptyArticle = errors.New("article text is required")
)

// Screener processes one candidate/article pair end to end. Safe for
// concurrent use; the validation cache is the only shared mutable state.
type Screener struct {
	Filter    *filter.Filter
	Validator *validate.Validator
	Cache     *validate.Cache
	Versions  model.Versions
	Window    int
}

func NewScreener(f *filter.Filter, v *validate.Validator, cache *validate.Cache, versions model.Versions, window int) *Screener {
	return &Screener{
		Filter:    f,
		Validator: v,
		Cache:     cache,
		Versions:  versions,
		Window:    window,
	}
}

// Match runs the pipeline and composes the structured response. Stage 2
// only runs for deferred cases; its failure degrades conservatively to
// the stage-1 review outcome with the failure surfaced in the reasons,
// never to a silent verdict.
func (s *Screener) Match(ctx context.Context, candidate model.Candidate, article string) (model.MatchResponse, error) {
	if strings.TrimSpace(candidate.Name) == "" {
		return model.MatchResponse{}, ErrEmptyName
	}
	if strings.TrimSpace(article) == "" {
		return model.MatchResponse{}, ErrEmptyArticle
	}

	requestID := uuid.New().String()

	stage1 := s.Filter.Run(ctx, candidate, article)
	log.Printf("request %s stage 1: decision=%s score=%d best=%q variant=%q",
		requestID, stage1.Decision, stage1.Score, stage1.BestPerson, stage1.CandidateVariant)

	if stage1.Decision != model.DecisionReview {
		return compose.Response(requestID, s.Versions, stage1, nil), nil
	}

	excerpt := conflict.ContextAround(article, stage1.BestPerson, s.Window)
	key := validate.Key(candidate, excerpt)

	stage2, err := s.Cache.GetOrValidate(key, func() (model.Stage2Result, error) {
		return s.Validator.Validate(ctx, candidate, stage1, excerpt)
	})
	if err != nil {
		log.Printf("request %s stage 2 unavailable: %v", requestID, err)
		degraded := stage1
		degraded.Reasons += " Stage 2 validation was attempted but is unavailable; the case still requires review."
		return compose.Response(requestID, s.Versions, degraded, nil), nil
	}

	log.Printf("request %s stage 2: decision=%s confidence=%.2f", requestID, stage2.Decision, stage2.Confidence)
	return compose.Response(requestID, s.Versions, stage1, &stage2), nil
}

// VersionsFromConfig maps configuration version identifiers into the
// response model.
func VersionsFromConfig(v config.Versions) model.Versions {
	return model.Versions{
		Extractor: v.Extractor,
		Nicknames: v.Nicknames,
		Validator: v.Validator,
	}
}
