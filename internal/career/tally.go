package career

import (
	"sort"

	"github.com/vijay-prabhu/studyhub/internal/scoring"
)

// Tally counts interest-test answers per category
type Tally struct {
	counts [numCategories]int
	total  int
}

// CategoryCount is one row of a tally
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Share    float64  `json:"share"`
}

// NewTally counts answers, ignoring invalid categories
func NewTally(answers []Category) Tally {
	var t Tally
	for _, a := range answers {
		if !a.Valid() {
			continue
		}
		t.counts[a]++
		t.total++
	}
	return t
}

// Count returns the number of answers for c
func (t Tally) Count(c Category) int {
	if !c.Valid() {
		return 0
	}
	return t.counts[c]
}

// Total returns the number of valid answers
func (t Tally) Total() int { return t.total }

// Top returns categories with at least one answer, most answered first.
// Equal counts keep declaration order. n <= 0 returns all of them.
func (t Tally) Top(n int) []CategoryCount {
	var out []CategoryCount
	for _, c := range Categories() {
		if t.counts[c] == 0 {
			continue
		}
		out = append(out, CategoryCount{
			Category: c,
			Count:    t.counts[c],
			Share:    float64(t.counts[c]) / float64(t.total) * 100,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// ProfileFor turns a tally into a keyword profile. Every keyword of a
// category gets weight equal to the category's share of answers (0-100).
// An empty tally yields an empty profile, which triggers the popularity
// fallback when scored.
func ProfileFor(t Tally) scoring.Profile {
	p := make(scoring.Profile)
	for _, cc := range t.Top(0) {
		for _, kw := range keywordTable[cc.Category] {
			p[kw] += cc.Share
		}
	}
	return p
}
