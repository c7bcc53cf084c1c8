// Package validate resolves deferred stage-1 cases through the remote
// reasoning service, bounded by a confidence threshold, with an LRU
// memoization cache in front of the remote call.
package validate

import (
	"context"
	"fmt"
	"time"

	"github.com/agenthands/mediascreen/internal/core/common"
	"github.com/agenthands/mediascreen/internal/core/model"
	"github.com/agenthands/mediascreen/internal/llm"
)

// Validator submits a bounded context to the remote reasoning service and
// applies the confidence threshold to its verdict.
type Validator struct {
	LLM        llm.LLMClient
	Prompt     string
	Confidence float64
	Timeout    time.Duration
}

func NewValidator(client llm.LLMClient, prompt string, confidence float64, timeout time.Duration) *Validator {
	return &Validator{
		LLM:        client,
		Prompt:     prompt,
		Confidence: confidence,
		Timeout:    timeout,
	}
}

type serviceReply struct {
	Decision         string  `json:"decision"`
	Confidence       float64 `json:"confidence"`
	EvidenceSentence string  `json:"evidence_sentence"`
	Reasons          string  `json:"reasons"`
}

// Validate builds the stage-2 context and returns the final verdict for a
// deferred case. The confidence threshold only upholds a match: a service
// verdict of no_match is final at any confidence, and a match below the
// threshold degrades to no_match. Errors cover timeouts, transport
// failures and malformed service output.
func (v *Validator) Validate(ctx context.Context, candidate model.Candidate, stage1 model.Stage1Result, excerpt string) (model.Stage2Result, error) {
	ctx, cancel := context.WithTimeout(ctx, v.Timeout)
	defer cancel()

	prompt := v.buildPrompt(candidate, stage1, excerpt)

	response, err := v.LLM.Generate(ctx, prompt)
	if err != nil {
		return model.Stage2Result{}, fmt.Errorf("remote validation failed: %w", err)
	}

	reply, err := common.ParseJSON[serviceReply](response)
	if err != nil {
		return model.Stage2Result{}, fmt.Errorf("malformed validation response: %w", err)
	}
	if reply.Decision != model.DecisionMatch && reply.Decision != model.DecisionNoMatch {
		return model.Stage2Result{}, fmt.Errorf("malformed validation decision: %q", reply.Decision)
	}

	confidence := clamp01(reply.Confidence)
	decision := model.DecisionNoMatch
	if reply.Decision == model.DecisionMatch && confidence >= v.Confidence {
		decision = model.DecisionMatch
	}

	reasons := reply.Reasons
	if reply.Decision == model.DecisionMatch && decision == model.DecisionNoMatch {
		reasons = fmt.Sprintf("Service reported match at %.2f confidence, below the %.2f threshold required to uphold a match. %s",
			confidence, v.Confidence, reply.Reasons)
	}

	return model.Stage2Result{
		Decision:         decision,
		Confidence:       confidence,
		EvidenceSentence: reply.EvidenceSentence,
		Reasons:          reasons,
	}, nil
}

func (v *Validator) buildPrompt(candidate model.Candidate, stage1 model.Stage1Result, excerpt string) string {
	dob := candidate.DOB
	if dob == "" {
		dob = "Not provided"
	}
	occupation := candidate.Occupation
	if occupation == "" {
		occupation = "Not provided"
	}
	conflicts := "None detected"
	if len(stage1.Conflicts) > 0 {
		conflicts = ""
		for i, c := range stage1.Conflicts {
			if i > 0 {
				conflicts += "; "
			}
			conflicts += fmt.Sprintf("%s/%s: %s", c.Kind, c.Severity, c.Detail)
		}
	}

	return fmt.Sprintf(v.Prompt,
		candidate.Name,
		dob,
		occupation,
		stage1.BestPerson,
		stage1.CandidateVariant,
		stage1.VariantTag,
		stage1.AllVariants,
		stage1.Score,
		stage1.Penalty,
		conflicts,
		stage1.Reasons,
		excerpt,
	)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
