package extraction

import (
	"regexp"
	"strings"

	"github.com/agenthands/mediascreen/internal/core/model"
)

var capitalizedSeqRe = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+){1,3}\b`)

// nonNameWords are capitalized tokens that rule a sequence out as a name.
var nonNameWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "new": true, "this": true, "that": true,
}

// FallbackSpans finds capitalized word sequences that look like person
// names. Used when the entity extractor errors or yields nothing.
func FallbackSpans(text string) []model.ExtractedSpan {
	matches := capitalizedSeqRe.FindAllStringIndex(text, -1)
	var spans []model.ExtractedSpan
	seen := make(map[string]bool)
	for _, m := range matches {
		candidate := text[m[0]:m[1]]
		if seen[strings.ToLower(candidate)] {
			continue
		}
		if hasNonNameWord(candidate) {
			continue
		}
		seen[strings.ToLower(candidate)] = true
		spans = append(spans, model.ExtractedSpan{
			Text:   candidate,
			Start:  m[0],
			End:    m[1],
			Source: model.SourceRegexFallback,
		})
	}
	return spans
}

func hasNonNameWord(s string) bool {
	for _, w := range strings.Fields(s) {
		if nonNameWords[strings.ToLower(w)] {
			return true
		}
	}
	return false
}
