package career

import "strings"

// Gap compares a student's skills against the skills a path requires
type Gap struct {
	Matched  []string `json:"matched"`
	Missing  []string `json:"missing"`
	Coverage float64  `json:"coverage"` // percentage of required skills already held
}

// SkillGap reports which required skills are held and which are missing.
// Comparison ignores case and surrounding space; results keep the order of
// need with duplicates removed. With nothing required, coverage is 100.
func SkillGap(have, need []string) Gap {
	held := make(map[string]bool, len(have))
	for _, h := range have {
		if k := normalizeSkill(h); k != "" {
			held[k] = true
		}
	}

	g := Gap{Matched: []string{}, Missing: []string{}}
	seen := make(map[string]bool, len(need))
	for _, n := range need {
		k := normalizeSkill(n)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		if held[k] {
			g.Matched = append(g.Matched, strings.TrimSpace(n))
		} else {
			g.Missing = append(g.Missing, strings.TrimSpace(n))
		}
	}

	required := len(g.Matched) + len(g.Missing)
	if required == 0 {
		g.Coverage = 100
	} else {
		g.Coverage = float64(len(g.Matched)) / float64(required) * 100
	}
	return g
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var skillTable = [numCategories][]string{
	IT:          {"mathematics", "algorithms", "english", "programming"},
	Engineering: {"mathematics", "physics", "drawing", "english"},
	Medicine:    {"biology", "chemistry", "english"},
	Education:   {"communication", "psychology", "kazakh", "russian"},
	Business:    {"mathematics", "economics", "english", "communication"},
	Law:         {"history", "kazakh", "russian", "writing"},
	Arts:        {"drawing", "portfolio", "history"},
	Science:     {"mathematics", "physics", "chemistry", "biology", "english"},
}

// Skills returns the skills usually required for c
func (c Category) Skills() []string {
	if !c.Valid() {
		return nil
	}
	return append([]string(nil), skillTable[c]...)
}
