// Package filter implements the deterministic stage-1 name filter: extract
// person spans, score them against generated candidate variants, detect
// biographical conflicts and render an immediate decision or defer.
package filter

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/agenthands/mediascreen/internal/config"
	"github.com/agenthands/mediascreen/internal/core/conflict"
	"github.com/agenthands/mediascreen/internal/core/extraction"
	"github.com/agenthands/mediascreen/internal/core/match"
	"github.com/agenthands/mediascreen/internal/core/model"
	"github.com/agenthands/mediascreen/internal/core/names"
)

type Filter struct {
	Extractor  extraction.PersonExtractor
	Detector   *conflict.Detector
	Nicknames  *config.NicknameTable
	Thresholds config.Thresholds
}

func NewFilter(extractor extraction.PersonExtractor, detector *conflict.Detector, nicknames *config.NicknameTable, thresholds config.Thresholds) *Filter {
	return &Filter{
		Extractor:  extractor,
		Detector:   detector,
		Nicknames:  nicknames,
		Thresholds: thresholds,
	}
}

// Run executes stage 1 for a candidate/article pair. It never returns an
// error: extraction failures fall back to the regex heuristic and every
// input maps to match, no_match or review.
func (f *Filter) Run(ctx context.Context, candidate model.Candidate, article string) model.Stage1Result {
	variants := names.Generate(candidate.Name, f.Nicknames)
	allVariants := names.Stringify(variants)

	spans, err := f.Extractor.Extract(ctx, article)
	if err != nil {
		log.Printf("entity extractor failed, using regex fallback: %v", err)
		spans = extraction.FallbackSpans(article)
	} else if len(spans) == 0 {
		spans = extraction.FallbackSpans(article)
	}

	best := f.bestPair(variants, spans)

	if best.score == 0 {
		if !surnameInArticle(candidate.Name, article) {
			return model.Stage1Result{
				Stage:            1,
				Decision:         model.DecisionNoMatch,
				Score:            0,
				CandidateVariant: candidate.Name,
				AllVariants:      allVariants,
				Reasons:          "No person names found in the article that match the candidate.",
			}
		}
		return model.Stage1Result{
			Stage:            1,
			Decision:         model.DecisionNoMatch,
			Score:            0,
			CandidateVariant: candidate.Name,
			AllVariants:      allVariants,
			Reasons:          "The candidate's surname appears in the article but no person mention could be matched against any name variant.",
		}
	}

	conflicts := f.Detector.Detect(candidate, article, best.span.Text)
	penalty := model.CountSoft(conflicts) * f.Thresholds.SoftPenalty
	final := best.score - penalty
	if final < 0 {
		final = 0
	}

	decision, reasons := f.decide(candidate, best, conflicts, final, penalty)

	return model.Stage1Result{
		Stage:            1,
		Decision:         decision,
		Score:            final,
		BestPerson:       best.span.Text,
		CandidateVariant: best.variant.Text,
		VariantTag:       best.variant.Tag,
		AllVariants:      allVariants,
		Penalty:          penalty,
		Conflicts:        conflicts,
		Reasons:          reasons,
	}
}

type pair struct {
	variant model.NameVariant
	span    model.ExtractedSpan
	score   int
}

// bestPair computes the full score matrix and picks the best pair.
// Ties break by variant strictness order, then by span document order;
// both fall out of the iteration order with a strictly-greater comparison.
func (f *Filter) bestPair(variants []model.NameVariant, spans []model.ExtractedSpan) pair {
	var best pair
	for _, v := range variants {
		vTokens := len(names.Tokens(v.Text))
		for _, s := range spans {
			score := match.Score(v.Text, s.Text)
			sTokens := len(names.Tokens(s.Text))

			// A lone token may not claim a longer mention on set
			// containment alone.
			if vTokens == 1 && sTokens >= 2 && score < 85 {
				continue
			}
			if vTokens == 1 && sTokens == 1 && score < 70 {
				continue
			}

			if score > best.score {
				best = pair{variant: v, span: s, score: score}
			}
		}
	}
	return best
}

// decide applies the decision rules in order. The penalty is subtracted
// before any threshold comparison so the rule stays a single arithmetic
// step.
func (f *Filter) decide(candidate model.Candidate, best pair, conflicts []model.Conflict, final, penalty int) (string, string) {
	hard := model.HasHard(conflicts)
	soft := model.CountSoft(conflicts) > 0
	t := f.Thresholds

	if final >= t.Strong && best.variant.Tag.Strict() && !hard {
		reason := fmt.Sprintf("Strong match found: '%s' matches the candidate's name variant '%s' with a score of %d.",
			best.span.Text, best.variant.Text, final)
		if soft {
			reason += fmt.Sprintf(" A %d-point penalty was applied for: %s.", penalty, describeConflicts(conflicts))
		} else {
			reason += " No conflicts detected."
		}
		return model.DecisionMatch, reason
	}

	if hard {
		return model.DecisionNoMatch, fmt.Sprintf(
			"Despite a name score of %d for '%s', a dispositive conflict was detected: %s.",
			best.score, best.span.Text, describeConflicts(conflicts))
	}

	if final >= t.Borderline || soft {
		reason := fmt.Sprintf("Borderline case: '%s' matches '%s' with a score of %d", best.span.Text, best.variant.Text, final)
		switch {
		case !best.variant.Tag.Strict():
			reason += fmt.Sprintf(" via a %s variant, which cannot confirm a match on its own", best.variant.Tag)
		case soft:
			reason += fmt.Sprintf(", with conflicts detected: %s", describeConflicts(conflicts))
		default:
			reason += fmt.Sprintf(", which is between %d and %d", t.Borderline, t.Strong-1)
		}
		reason += ". Sending to stage 2 for further analysis."
		return model.DecisionReview, reason
	}

	return model.DecisionNoMatch, fmt.Sprintf(
		"The best name match found was '%s' with a score of %d, below the %d threshold.",
		best.span.Text, final, t.Borderline)
}

func describeConflicts(conflicts []model.Conflict) string {
	details := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		details = append(details, fmt.Sprintf("%s (%s)", c.Detail, c.Kind))
	}
	return strings.Join(details, "; ")
}

func surnameInArticle(name, article string) bool {
	tokens := names.Tokens(name)
	if len(tokens) == 0 {
		return false
	}
	surname := tokens[len(tokens)-1]
	for _, t := range names.Tokens(article) {
		if t == surname {
			return true
		}
	}
	return false
}
