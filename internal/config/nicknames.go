package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// NicknameTable is a bidirectional name-equivalence mapping: a diminutive
// maps to its canonical form and vice versa. Loaded once at process start
// and read-only afterwards.
type NicknameTable struct {
	equivalents map[string][]string
}

// Lookup returns the equivalent forms for a given-name token, or nil.
func (t *NicknameTable) Lookup(token string) []string {
	if t == nil {
		return nil
	}
	return t.equivalents[strings.ToLower(strings.TrimSpace(token))]
}

// Size returns the number of distinct names in the table.
func (t *NicknameTable) Size() int {
	if t == nil {
		return 0
	}
	return len(t.equivalents)
}

func (t *NicknameTable) add(a, b string) {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" || a == b {
		return
	}
	for _, existing := range t.equivalents[a] {
		if existing == b {
			return
		}
	}
	t.equivalents[a] = append(t.equivalents[a], b)
	t.equivalents[b] = append(t.equivalents[b], a)
}

// LoadNicknames reads a curated nickname CSV with header
// name1,name2,relationship, keeping has_nickname rows. Both directions of
// each pair are indexed.
func LoadNicknames(path string) (*NicknameTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open nickname table '%s': %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse nickname table '%s': %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("nickname table '%s' is empty", path)
	}

	header := records[0]
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	n1, ok1 := col["name1"]
	n2, ok2 := col["name2"]
	rel, ok3 := col["relationship"]
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("nickname table '%s' missing name1/name2/relationship columns", path)
	}

	table := &NicknameTable{equivalents: make(map[string][]string)}
	for _, row := range records[1:] {
		if len(row) <= rel {
			continue
		}
		if strings.TrimSpace(row[rel]) != "has_nickname" {
			continue
		}
		table.add(row[n1], row[n2])
	}
	return table, nil
}

// DefaultNicknames is the compiled-in fallback used when no CSV is
// available.
func DefaultNicknames() *NicknameTable {
	pairs := map[string][]string{
		"william":     {"bill", "billy", "will", "willy"},
		"robert":      {"bob", "rob", "robby", "bobby"},
		"michael":     {"mike", "mikey", "mick", "mickey"},
		"james":       {"jim", "jimmy", "jamie"},
		"david":       {"dave", "davey"},
		"richard":     {"rick", "ricky", "dick", "dickie"},
		"thomas":      {"tom", "tommy"},
		"christopher": {"chris", "topher"},
		"daniel":      {"dan", "danny"},
		"matthew":     {"matt", "matty"},
		"elizabeth":   {"liz", "lizzy", "beth", "betty", "lisa"},
		"sarah":       {"sally", "sadie"},
		"margaret":    {"maggie", "meg", "peggy"},
		"jennifer":    {"jen", "jenny"},
		"jessica":     {"jess", "jessie"},
		"ashley":      {"ash"},
		"emily":       {"em", "emmy"},
		"samantha":    {"sam", "sammy"},
		"stephanie":   {"steph", "stephie"},
		"nicole":      {"nikki", "nic"},
	}
	table := &NicknameTable{equivalents: make(map[string][]string)}
	for canonical, nicks := range pairs {
		for _, nick := range nicks {
			table.add(canonical, nick)
		}
	}
	return table
}
