package model

// Decision values produced by the pipeline. Stage 1 may also produce
// DecisionReview, which routes the case to stage 2.
const (
	DecisionMatch   = "match"
	DecisionNoMatch = "no_match"
	DecisionReview  = "review"
)

// Stage1Result is the outcome of the deterministic name filter.
// Immutable once produced.
type Stage1Result struct {
	Stage            int        `json:"stage"`
	Decision         string     `json:"decision"` // match, no_match, or review
	Score            int        `json:"score"`    // penalized fuzzy score in [0,100]
	BestPerson       string     `json:"best_person"`
	CandidateVariant string     `json:"candidate_variant"`
	VariantTag       VariantTag `json:"variant_tag"`
	AllVariants      string     `json:"all_variants"`
	Penalty          int        `json:"penalty"`
	Conflicts        []Conflict `json:"conflicts,omitempty"`
	Reasons          string     `json:"reasons"`
}

// Stage2Result is the outcome of the remote validation of a deferred case.
type Stage2Result struct {
	Decision         string  `json:"decision"` // match or no_match
	Confidence       float64 `json:"confidence"`
	EvidenceSentence string  `json:"evidence_sentence"`
	Reasons          string  `json:"reasons"`
}

// Versions identifies the models and tables a decision was produced with,
// echoed into every response for reproducibility.
type Versions struct {
	Extractor string `json:"extractor"`
	Nicknames string `json:"nicknames"`
	Validator string `json:"validator"`
}

// ResponseDetails carries the full per-stage results so the response is
// reconstructable without hidden state.
type ResponseDetails struct {
	Stage1 Stage1Result  `json:"stage1"`
	Stage2 *Stage2Result `json:"stage2,omitempty"`
}

// MatchResponse is the composed, externally visible result.
type MatchResponse struct {
	Decision    string          `json:"decision"`
	Stage       int             `json:"stage"`
	Score       int             `json:"score"`
	Confidence  *float64        `json:"confidence"`
	Explanation string          `json:"explanation"`
	RequestID   string          `json:"request_id"`
	Versions    Versions        `json:"versions"`
	Details     ResponseDetails `json:"details"`
}
