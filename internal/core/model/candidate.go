package model

import "strconv"

// Candidate is the person profile being screened against an article.
// Immutable for the lifetime of a request.
type Candidate struct {
	Name       string `json:"name"`
	DOB        string `json:"dob,omitempty"`        // YYYY-MM-DD
	Occupation string `json:"occupation,omitempty"`
}

// BirthYear parses the year out of the DOB field. Returns false when
// no date of birth was provided or it does not start with a 4-digit year.
func (c Candidate) BirthYear() (int, bool) {
	if len(c.DOB) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(c.DOB[:4])
	if err != nil || year < 1800 || year > 2200 {
		return 0, false
	}
	return year, true
}

// MatchRequest is the request body accepted at the /match boundary.
type MatchRequest struct {
	Candidate Candidate `json:"candidate"`
	Article   string    `json:"article"`
}
