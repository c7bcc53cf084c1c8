// Package conflict scans article text for biographical statements that
// contradict the candidate profile.
package conflict

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agenthands/mediascreen/internal/config"
	"github.com/agenthands/mediascreen/internal/core/model"
)

var (
	bornYearRe   = regexp.MustCompile(`(?i)\bborn\b[^.!?\n]{0,40}?\b(1[89]\d{2}|20\d{2})\b`)
	bornDecadeRe = regexp.MustCompile(`(?i)\bborn\b[^.!?\n]{0,40}?\bthe\s+(1[89]\d|20\d)0s\b`)
	ageRe        = regexp.MustCompile(`(?i)\b(\d{1,3})[-\s]?years?[-\s]old\b|\baged\s+(\d{1,3})\b|\bage\s+of\s+(\d{1,3})\b`)
	decadeRe     = regexp.MustCompile(`(?i)\bin\s+(?:his|her|their)\s+(\d)0s\b`)
)

// Detector flags contradictions between a candidate profile and article
// text near the matched span. The clock is injectable so age arithmetic is
// testable.
type Detector struct {
	Thresholds config.Thresholds
	Window     int
	Now        func() time.Time
}

func NewDetector(thresholds config.Thresholds, window int) *Detector {
	return &Detector{
		Thresholds: thresholds,
		Window:     window,
		Now:        time.Now,
	}
}

// Detect returns the conflicts found for the candidate against the article.
// Birth statements are explicit enough to be scanned article-wide;
// age and occupation statements only count near the matched span.
func (d *Detector) Detect(candidate model.Candidate, article string, bestPerson string) []model.Conflict {
	var conflicts []model.Conflict
	context := ContextAround(article, bestPerson, d.Window)

	if birthYear, ok := candidate.BirthYear(); ok {
		conflicts = append(conflicts, d.dateConflicts(birthYear, article, context)...)
	}
	if candidate.Occupation != "" {
		if c := d.occupationConflict(candidate.Occupation, context); c != nil {
			conflicts = append(conflicts, *c)
		}
	}
	return conflicts
}

func (d *Detector) dateConflicts(birthYear int, article, context string) []model.Conflict {
	tolerance := d.Thresholds.AgeToleranceYears
	var conflicts []model.Conflict

	// Explicit birth year anywhere in the article is dispositive.
	if m := bornYearRe.FindStringSubmatch(article); m != nil {
		stated, _ := strconv.Atoi(m[1])
		if delta := abs(stated - birthYear); delta >= tolerance {
			conflicts = append(conflicts, model.Conflict{
				Kind:     model.ConflictDOB,
				Severity: model.SeverityHard,
				Detail:   fmt.Sprintf("candidate born %d, article states born %d", birthYear, stated),
			})
			return conflicts
		}
		return nil
	}

	// A fully-stated age implies a birth year at the article-relevant date.
	if m := ageRe.FindStringSubmatch(context); m != nil {
		age := firstGroup(m)
		if age > 0 && age < 130 {
			implied := d.Now().Year() - age
			if delta := abs(implied - birthYear); delta > tolerance {
				conflicts = append(conflicts, model.Conflict{
					Kind:     model.ConflictAge,
					Severity: model.SeverityHard,
					Detail:   fmt.Sprintf("candidate born %d, stated age %d implies born around %d", birthYear, age, implied),
				})
				return conflicts
			}
			return nil
		}
	}

	// Decade phrasing is ambiguous: incompatible values only defer.
	if m := bornDecadeRe.FindStringSubmatch(article); m != nil {
		decade, _ := strconv.Atoi(m[1])
		start := decade * 10
		if birthYear < start-tolerance || birthYear > start+9+tolerance {
			conflicts = append(conflicts, model.Conflict{
				Kind:     model.ConflictDOB,
				Severity: model.SeveritySoft,
				Detail:   fmt.Sprintf("candidate born %d, article suggests the %d0s", birthYear, decade),
			})
		}
		return conflicts
	}
	if m := decadeRe.FindStringSubmatch(context); m != nil {
		tens, _ := strconv.Atoi(m[1])
		year := d.Now().Year()
		oldest := year - (tens*10 + 9)
		youngest := year - tens*10
		if birthYear < oldest-tolerance || birthYear > youngest+tolerance {
			conflicts = append(conflicts, model.Conflict{
				Kind:     model.ConflictAge,
				Severity: model.SeveritySoft,
				Detail:   fmt.Sprintf("candidate born %d, article places the person in their %d0s", birthYear, tens),
			})
		}
	}
	return conflicts
}

// occupationGroups are mutually exclusive profession families. Terms within
// one group are compatible (doctor/cardiologist); terms across groups are
// not (doctor/attorney). A profession absent from every group never
// conflicts.
var occupationGroups = map[string][]string{
	"medical":     {"doctor", "dr", "physician", "surgeon", "cardiologist", "pediatrician", "nurse", "medic", "dentist"},
	"legal":       {"lawyer", "attorney", "prosecutor", "solicitor", "barrister", "counsel", "paralegal"},
	"judiciary":   {"judge", "justice", "magistrate"},
	"education":   {"teacher", "professor", "lecturer", "educator", "instructor", "tutor"},
	"engineering": {"engineer", "programmer", "developer", "technician"},
	"police":      {"police", "officer", "detective", "constable", "sergeant", "investigator"},
	"clergy":      {"priest", "pastor", "rabbi", "imam", "minister", "chaplain"},
}

func (d *Detector) occupationConflict(occupation, context string) *model.Conflict {
	candidateGroup := groupOf(occupation)
	if candidateGroup == "" {
		return nil
	}
	ctxTokens := tokenSet(context)
	for _, group := range groupNames() {
		if group == candidateGroup {
			continue
		}
		for _, term := range occupationGroups[group] {
			if ctxTokens[term] {
				return &model.Conflict{
					Kind:     model.ConflictOccupation,
					Severity: model.SeveritySoft,
					Detail:   fmt.Sprintf("candidate is '%s' but context mentions '%s'", occupation, term),
				}
			}
		}
	}
	return nil
}

func groupOf(occupation string) string {
	tokens := tokenSet(occupation)
	for _, group := range groupNames() {
		for _, term := range occupationGroups[group] {
			if tokens[term] {
				return group
			}
		}
	}
	return ""
}

func groupNames() []string {
	groups := make([]string, 0, len(occupationGroups))
	for g := range occupationGroups {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

func firstGroup(m []string) int {
	for _, g := range m[1:] {
		if g != "" {
			n, err := strconv.Atoi(g)
			if err == nil {
				return n
			}
		}
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(strings.ToLower(s)) {
		set[strings.Trim(t, ".,;:!?'\"()")] = true
	}
	return set
}

// ContextAround returns a window of text centered on the first
// case-insensitive occurrence of person. When person is absent or empty,
// the head of the text is used.
func ContextAround(text, person string, window int) string {
	if window <= 0 || len(text) <= window {
		return text
	}
	idx := -1
	if person != "" {
		idx = strings.Index(strings.ToLower(text), strings.ToLower(person))
	}
	if idx < 0 {
		return text[:window]
	}
	start := idx + len(person)/2 - window/2
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
