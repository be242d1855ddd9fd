// Package scoring computes how well catalog records match a weighted keyword profile.
package scoring

import (
	"math"

	"github.com/vijay-prabhu/studyhub/internal/filter"
	"github.com/vijay-prabhu/studyhub/internal/record"
)

const (
	DefaultRelatedFactor = 0.5
	DefaultFallbackScale = 0.01
)

// Config configures the keyword scoring algorithm
type Config struct {
	PrimaryFields   []string // Each matching field adds the full keyword weight
	RelatedFields   []string // Each matching field adds weight * RelatedFactor
	RelatedFactor   float64
	PopularityField string  // Numeric demand signal used by the fallback
	FallbackScale   float64 // Fallback score = popularity * FallbackScale
}

// Tier distinguishes primary-field matches from related-field matches
type Tier string

const (
	TierPrimary Tier = "primary"
	TierRelated Tier = "related"
)

// Match records one keyword found in one field
type Match struct {
	Keyword string  `json:"keyword"`
	Field   string  `json:"field"`
	Tier    Tier    `json:"tier"`
	Weight  float64 `json:"weight"`
}

// Breakdown keeps the score auditable: relevance sub-totals per tier, and the
// popularity fallback kept apart from relevance.
type Breakdown struct {
	Primary         float64 `json:"primary"`
	Related         float64 `json:"related"`
	Fallback        float64 `json:"fallback,omitempty"`
	FallbackApplied bool    `json:"fallback_applied,omitempty"`
	Matches         []Match `json:"matches,omitempty"`
}

// Relevance is the profile-driven part of the score
func (b Breakdown) Relevance() float64 {
	return addCapped(b.Primary, b.Related)
}

// addCapped adds non-negative terms, saturating at math.MaxFloat64 so
// huge weights never produce +Inf
func addCapped(a, b float64) float64 {
	if sum := a + b; !math.IsInf(sum, 0) {
		return sum
	}
	return math.MaxFloat64
}

// Total is the score used for ranking. When the fallback applies the score
// means default popularity, not relevance.
func (b Breakdown) Total() float64 {
	if b.FallbackApplied {
		return b.Fallback
	}
	return b.Relevance()
}

// ScoredRecord pairs a record with its score for the current profile.
// It is rebuilt on every scoring pass.
type ScoredRecord struct {
	Record          record.Record `json:"record"`
	Score           float64       `json:"score"`
	MatchPercentage float64       `json:"match_percentage"`
	Breakdown       Breakdown     `json:"breakdown"`
}

// Scored is the outcome of scoring a candidate set
type Scored struct {
	Records         []ScoredRecord
	MaxScore        float64
	FallbackApplied bool
}

// Scorer calculates relevance scores based on keyword matches
type Scorer struct {
	config Config
}

// NewScorer creates a new Scorer with the given configuration
func NewScorer(config Config) *Scorer {
	if config.RelatedFactor <= 0 {
		config.RelatedFactor = DefaultRelatedFactor
	}
	if config.FallbackScale <= 0 {
		config.FallbackScale = DefaultFallbackScale
	}
	return &Scorer{config: config}
}

// Config returns the effective configuration
func (s *Scorer) Config() Config { return s.config }

// Score computes the relevance breakdown of r against p. For every keyword
// the weight is added once per primary field containing it, and
// weight*RelatedFactor once per related field containing it.
func (s *Scorer) Score(r record.Record, p Profile) Breakdown {
	var b Breakdown

	for _, kw := range p.Keywords() {
		w := p[kw]

		for _, field := range s.config.PrimaryFields {
			if filter.ContainsFold(r, field, kw) {
				b.Primary = addCapped(b.Primary, w)
				b.Matches = append(b.Matches, Match{Keyword: kw, Field: field, Tier: TierPrimary, Weight: w})
			}
		}

		rw := w * s.config.RelatedFactor
		for _, field := range s.config.RelatedFields {
			if filter.ContainsFold(r, field, kw) {
				b.Related = addCapped(b.Related, rw)
				b.Matches = append(b.Matches, Match{Keyword: kw, Field: field, Tier: TierRelated, Weight: rw})
			}
		}
	}

	return b
}

// Popularity returns the record's demand signal, 0 when missing or negative
func (s *Scorer) Popularity(r record.Record) float64 {
	if s.config.PopularityField == "" {
		return 0
	}
	v, ok := r.Number(s.config.PopularityField)
	if !ok || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ScoreAll scores every record and fills match percentages relative to the
// best score in the set.
//
// Fallback: when every record's relevance is 0 (empty profile, or no record
// contains any keyword), each record instead gets
// popularity * FallbackScale and FallbackApplied is set, so the ranking
// becomes a default popularity order.
func (s *Scorer) ScoreAll(records []record.Record, p Profile) Scored {
	out := Scored{Records: make([]ScoredRecord, len(records))}

	anyRelevant := false
	for i, r := range records {
		b := s.Score(r, p)
		if b.Relevance() > 0 {
			anyRelevant = true
		}
		out.Records[i] = ScoredRecord{Record: r, Breakdown: b}
	}

	if !anyRelevant && len(records) > 0 {
		out.FallbackApplied = true
		for i := range out.Records {
			sr := &out.Records[i]
			sr.Breakdown.Fallback = math.Min(s.Popularity(sr.Record)*s.config.FallbackScale, math.MaxFloat64)
			sr.Breakdown.FallbackApplied = true
		}
	}

	for i := range out.Records {
		sr := &out.Records[i]
		sr.Score = sr.Breakdown.Total()
		if sr.Score > out.MaxScore {
			out.MaxScore = sr.Score
		}
	}

	for i := range out.Records {
		sr := &out.Records[i]
		sr.MatchPercentage = Normalize(sr.Score, out.MaxScore)
	}

	return out
}

// Normalize rescales score linearly to [0,100] against maxScore, clamped.
// A maxScore of 0 yields 0 rather than dividing by zero; NaN or infinite
// arguments yield 0.
func Normalize(score, maxScore float64) float64 {
	if !isFinite(score) || !isFinite(maxScore) || maxScore <= 0 || score <= 0 {
		return 0
	}
	if score >= maxScore {
		return 100
	}
	pct := score / maxScore * 100
	if !isFinite(pct) || pct < 0 {
		return 0
	}
	return math.Min(pct, 100)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Explain returns a human-readable explanation of the score
func (s *Scorer) Explain(sr ScoredRecord) string {
	if sr.Breakdown.FallbackApplied {
		return "no profile signal - ordered by popularity"
	}

	switch {
	case sr.Score == 0:
		return "no match"
	case sr.MatchPercentage >= 70:
		return "strong match"
	case sr.MatchPercentage >= 30:
		return "partial match"
	default:
		return "weak match"
	}
}
