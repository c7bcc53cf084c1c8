// Package match computes bounded fuzzy-similarity scores between candidate
// name variants and extracted person spans.
package match

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/agenthands/mediascreen/internal/core/names"
)

// Score computes a token-set similarity in [0,100] between two strings.
// Both operands are normalized first, so the score is insensitive to case,
// diacritics and token order, and tolerant of missing or extra tokens.
// Commutative; identical normalized strings score exactly 100.
func Score(a, b string) int {
	sa := tokenSet(a)
	sb := tokenSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		if len(sa) == 0 && len(sb) == 0 {
			return 100
		}
		return 0
	}

	inter, onlyA, onlyB := partition(sa, sb)

	t0 := strings.Join(inter, " ")
	t1 := joinNonEmpty(t0, strings.Join(onlyA, " "))
	t2 := joinNonEmpty(t0, strings.Join(onlyB, " "))

	// Full token-set containment either way is a perfect set match.
	if len(inter) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	best := ratio(t0, t1)
	if r := ratio(t0, t2); r > best {
		best = r
	}
	if r := ratio(t1, t2); r > best {
		best = r
	}
	return best
}

// ratio is a levenshtein-based similarity in [0,100].
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round((1 - float64(dist)/float64(longest)) * 100))
}

// tokenSet returns the sorted unique normalized tokens of s.
func tokenSet(s string) []string {
	tokens := names.Tokens(s)
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

func partition(sa, sb []string) (inter, onlyA, onlyB []string) {
	inB := make(map[string]bool, len(sb))
	for _, t := range sb {
		inB[t] = true
	}
	inA := make(map[string]bool, len(sa))
	for _, t := range sa {
		inA[t] = true
	}
	for _, t := range sa {
		if inB[t] {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range sb {
		if !inA[t] {
			onlyB = append(onlyB, t)
		}
	}
	return inter, onlyA, onlyB
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}
