// Package compose assembles the externally visible response from the
// per-stage results. Pure functions: the response is fully determined by
// its inputs.
package compose

import (
	"fmt"

	"github.com/agenthands/mediascreen/internal/core/model"
)

// Response builds the MatchResponse. The score is always stage 1's
// (possibly penalized) score; stage and confidence reflect whether
// stage 2 ran.
func Response(requestID string, versions model.Versions, stage1 model.Stage1Result, stage2 *model.Stage2Result) model.MatchResponse {
	resp := model.MatchResponse{
		Decision:    stage1.Decision,
		Stage:       1,
		Score:       stage1.Score,
		Explanation: stage1Explanation(stage1),
		RequestID:   requestID,
		Versions:    versions,
		Details:     model.ResponseDetails{Stage1: stage1},
	}

	if stage2 != nil {
		confidence := stage2.Confidence
		resp.Decision = stage2.Decision
		resp.Stage = 2
		resp.Confidence = &confidence
		resp.Explanation = stage2Explanation(stage2)
		resp.Details.Stage2 = stage2
	}

	return resp
}

func stage1Explanation(stage1 model.Stage1Result) string {
	explanation := fmt.Sprintf("Stage 1: %s (score: %d). %s", stage1.Decision, stage1.Score, stage1.Reasons)
	if stage1.Penalty > 0 {
		explanation += fmt.Sprintf(" Penalty applied: %d points.", stage1.Penalty)
	}
	return explanation
}

func stage2Explanation(stage2 *model.Stage2Result) string {
	if stage2.EvidenceSentence != "" {
		return fmt.Sprintf("Stage 2: %s with %.2f confidence. Evidence: %s", stage2.Decision, stage2.Confidence, stage2.EvidenceSentence)
	}
	return fmt.Sprintf("Stage 2: %s with %.2f confidence. %s", stage2.Decision, stage2.Confidence, stage2.Reasons)
}
