package model

// ConflictKind classifies a biographical contradiction found in the article.
type ConflictKind string

const (
	ConflictDOB        ConflictKind = "dob_mismatch"
	ConflictAge        ConflictKind = "age_mismatch"
	ConflictOccupation ConflictKind = "occupation_mismatch"
)

// ConflictSeverity separates dispositive contradictions from ones that
// merely lower confidence. A hard conflict forces no_match in stage 1;
// a soft conflict penalizes the score and forces deferral short of a
// definitive strong match.
type ConflictSeverity string

const (
	SeverityHard ConflictSeverity = "hard"
	SeveritySoft ConflictSeverity = "soft"
)

// Conflict is one detected contradiction between the candidate profile
// and the article text.
type Conflict struct {
	Kind     ConflictKind     `json:"kind"`
	Severity ConflictSeverity `json:"severity"`
	Detail   string           `json:"detail"`
}

// HasHard reports whether any conflict in the set is hard.
func HasHard(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Severity == SeverityHard {
			return true
		}
	}
	return false
}

// CountSoft returns the number of soft conflicts in the set.
func CountSoft(conflicts []Conflict) int {
	n := 0
	for _, c := range conflicts {
		if c.Severity == SeveritySoft {
			n++
		}
	}
	return n
}
