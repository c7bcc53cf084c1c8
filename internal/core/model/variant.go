package model

// VariantTag identifies the construction rule a name variant came from.
type VariantTag string

const (
	VariantFull          VariantTag = "full"
	VariantFirstLast     VariantTag = "first_last"
	VariantSurnameFirst  VariantTag = "surname_first"
	VariantInitialsLast  VariantTag = "initials_last"
	VariantMiddleAsGiven VariantTag = "middle_as_given"
	VariantNickname      VariantTag = "nickname"
)

// Strict reports whether the tag is a strict form, i.e. requires no
// nickname substitution or given-name reinterpretation. Only strict
// forms can satisfy the stage-1 match rule on their own.
func (t VariantTag) Strict() bool {
	switch t {
	case VariantFull, VariantFirstLast, VariantSurnameFirst, VariantInitialsLast:
		return true
	}
	return false
}

// NameVariant is one generated name form for a candidate.
type NameVariant struct {
	Text string     `json:"text"`
	Tag  VariantTag `json:"tag"`
}

// SpanSource tells whether a person span came from the entity extractor
// or from the regex fallback heuristic.
type SpanSource string

const (
	SourceExtractor     SpanSource = "extractor"
	SourceRegexFallback SpanSource = "regex_fallback"
)

// ExtractedSpan is a person-name mention found in the article, in
// document order with character offsets into the original text.
type ExtractedSpan struct {
	Text   string     `json:"text"`
	Start  int        `json:"start"`
	End    int        `json:"end"`
	Source SpanSource `json:"source"`
}
