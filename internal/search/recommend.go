package search

import (
	"context"

	"github.com/vijay-prabhu/studyhub/internal/career"
	"github.com/vijay-prabhu/studyhub/internal/scoring"
)

// Recommendation is the outcome of the career interest test
type Recommendation struct {
	Top     []career.CategoryCount `json:"top_categories"`
	Profile scoring.Profile        `json:"profile"`
	Result  *Result                `json:"result"`
}

// Recommend tallies interest-test answers, turns the leading categories
// into a keyword profile and ranks the whole catalog with it. With no
// answers the ranking falls back to popularity.
func (e *Engine) Recommend(ctx context.Context, answers []career.Category, limit int) (*Recommendation, error) {
	tally := career.NewTally(answers)
	profile := career.ProfileFor(tally)

	res, err := e.Search(ctx, Query{Profile: profile, Limit: limit})
	if err != nil {
		return nil, err
	}

	return &Recommendation{
		Top:     tally.Top(0),
		Profile: profile,
		Result:  res,
	}, nil
}
