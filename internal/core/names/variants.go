package names

import (
	"fmt"
	"strings"

	"github.com/agenthands/mediascreen/internal/config"
	"github.com/agenthands/mediascreen/internal/core/model"
)

// Generate builds the ordered variant set for a candidate name. The set is
// deterministic: the same input always yields the same ordered slice.
// Strict forms (full, first+last, surname-first, initials+last) come first;
// the ordering doubles as the tie-break when two variants score equally
// against the same span, with the earlier (stricter) variant winning.
func Generate(name string, nicknames *config.NicknameTable) []model.NameVariant {
	tokens := Tokens(name)
	if len(tokens) == 0 {
		return nil
	}

	var variants []model.NameVariant
	seen := make(map[string]bool)
	add := func(text string, tag model.VariantTag) {
		key := Normalize(text)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		variants = append(variants, model.NameVariant{Text: text, Tag: tag})
	}

	full := strings.Join(tokens, " ")
	add(full, model.VariantFull)

	if len(tokens) >= 2 {
		first, last := tokens[0], tokens[len(tokens)-1]
		given := tokens[:len(tokens)-1]

		if len(tokens) >= 3 {
			add(first+" "+last, model.VariantFirstLast)
		}
		add(fmt.Sprintf("%s, %s", last, strings.Join(given, " ")), model.VariantSurnameFirst)

		initials := make([]string, 0, len(given))
		for _, g := range given {
			initials = append(initials, string([]rune(g)[0])+".")
		}
		add(strings.Join(initials, " ")+" "+last, model.VariantInitialsLast)

		if len(tokens) >= 3 {
			add(strings.Join(tokens[1:], " "), model.VariantMiddleAsGiven)
		}

		// Nickname substitutions: one extra variant per table hit on a
		// given-name token, after all strict forms.
		for i, tok := range given {
			for _, equiv := range nicknames.Lookup(tok) {
				swapped := make([]string, len(tokens))
				copy(swapped, tokens)
				swapped[i] = equiv
				add(strings.Join(swapped, " "), model.VariantNickname)
			}
		}
	}

	return variants
}

// Stringify renders the variant set for prompts and audit output.
func Stringify(variants []model.NameVariant) string {
	texts := make([]string, 0, len(variants))
	for _, v := range variants {
		texts = append(texts, v.Text)
	}
	return strings.Join(texts, ", ")
}
