package scoring

import (
	"math"
	"testing"

	"github.com/vijay-prabhu/studyhub/internal/record"
)

func scenarioRecords() []record.Record {
	return []record.Record{
		record.New("1", map[string]record.Value{"tags": record.List("math"), "popularity": record.Number(10)}),
		record.New("2", map[string]record.Value{"tags": record.List("law"), "popularity": record.Number(50)}),
		record.New("3", map[string]record.Value{"tags": record.List("math", "science"), "popularity": record.Number(5)}),
	}
}

func scenarioScorer() *Scorer {
	return NewScorer(Config{
		PrimaryFields:   []string{"tags"},
		RelatedFields:   []string{"description"},
		PopularityField: "popularity",
	})
}

func TestScoreAll_NoFallbackWhenAnyMatches(t *testing.T) {
	s := scenarioScorer()
	got := s.ScoreAll(scenarioRecords(), Profile{"math": 20})

	if got.FallbackApplied {
		t.Fatal("fallback must not apply when some record scores > 0")
	}

	want := []float64{20, 0, 20}
	for i, sr := range got.Records {
		if sr.Score != want[i] {
			t.Errorf("record %s score = %v, want %v", sr.Record.ID(), sr.Score, want[i])
		}
		if sr.Breakdown.FallbackApplied {
			t.Errorf("record %s has FallbackApplied", sr.Record.ID())
		}
	}
	if got.MaxScore != 20 {
		t.Errorf("MaxScore = %v, want 20", got.MaxScore)
	}
	if got.Records[0].MatchPercentage != 100 || got.Records[2].MatchPercentage != 100 {
		t.Error("records tied at the max score should both be 100%")
	}
	if got.Records[1].MatchPercentage != 0 {
		t.Errorf("B percentage = %v, want 0", got.Records[1].MatchPercentage)
	}
}

func TestScoreAll_EmptyProfileFallsBackToPopularity(t *testing.T) {
	s := scenarioScorer()
	got := s.ScoreAll(scenarioRecords(), Profile{})

	if !got.FallbackApplied {
		t.Fatal("expected fallback for empty profile")
	}

	want := []float64{0.1, 0.5, 0.05}
	for i, sr := range got.Records {
		if math.Abs(sr.Score-want[i]) > 1e-9 {
			t.Errorf("record %s score = %v, want %v", sr.Record.ID(), sr.Score, want[i])
		}
		if sr.Breakdown.Relevance() != 0 {
			t.Errorf("fallback must not be folded into relevance, got %v", sr.Breakdown.Relevance())
		}
	}
	if got.Records[1].MatchPercentage != 100 {
		t.Errorf("most popular record percentage = %v, want 100", got.Records[1].MatchPercentage)
	}
}

func TestScoreAll_NoKeywordMatchFallsBack(t *testing.T) {
	got := scenarioScorer().ScoreAll(scenarioRecords(), Profile{"medicine": 5})
	if !got.FallbackApplied {
		t.Error("expected fallback when no record contains any keyword")
	}
}

func TestScoreAll_Empty(t *testing.T) {
	got := scenarioScorer().ScoreAll(nil, Profile{"math": 1})
	if got.FallbackApplied || len(got.Records) != 0 || got.MaxScore != 0 {
		t.Errorf("ScoreAll(nil) = %+v", got)
	}
}

func TestScoreAll_SingleRecordIs100(t *testing.T) {
	recs := scenarioRecords()[:1]
	got := scenarioScorer().ScoreAll(recs, Profile{"math": 3})
	if got.Records[0].MatchPercentage != 100 {
		t.Errorf("percentage = %v, want 100", got.Records[0].MatchPercentage)
	}
}

func TestScore_Tiers(t *testing.T) {
	s := scenarioScorer()
	r := record.New("x", map[string]record.Value{
		"tags":        record.List("IT"),
		"description": record.String("Programs in IT and design"),
	})

	b := s.Score(r, Profile{"it": 10, "design": 4})

	if b.Primary != 10 {
		t.Errorf("Primary = %v, want 10", b.Primary)
	}
	// it (10*0.5) + design (4*0.5)
	if b.Related != 7 {
		t.Errorf("Related = %v, want 7", b.Related)
	}
	if len(b.Matches) != 3 {
		t.Fatalf("Matches = %+v", b.Matches)
	}
	if b.Matches[0].Keyword != "design" || b.Matches[0].Tier != TierRelated {
		t.Errorf("matches should be ordered by keyword, got %+v", b.Matches[0])
	}
}

func TestScore_SkipsZeroWeights(t *testing.T) {
	b := scenarioScorer().Score(scenarioRecords()[0], Profile{"math": 0})
	if b.Relevance() != 0 || len(b.Matches) != 0 {
		t.Errorf("zero weight should contribute nothing, got %+v", b)
	}
}

func TestScore_Monotonic(t *testing.T) {
	s := scenarioScorer()
	r := scenarioRecords()[2]

	base := s.Score(r, Profile{"math": 5}).Relevance()
	more := s.Score(r, Profile{"math": 5, "science": 2}).Relevance()
	heavier := s.Score(r, Profile{"math": 8}).Relevance()

	if more < base {
		t.Errorf("adding a keyword lowered the score: %v < %v", more, base)
	}
	if heavier < base {
		t.Errorf("raising a weight lowered the score: %v < %v", heavier, base)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		score, max, want float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{5, -1, 0},
		{10, 20, 50},
		{20, 20, 100},
		{30, 20, 100},
		{-5, 20, 0},
		{math.NaN(), 20, 0},
		{20, math.NaN(), 0},
		{math.Inf(1), math.Inf(1), 0},
		{math.Inf(1), 20, 0},
		{5, math.Inf(1), 0},
		{math.MaxFloat64, math.MaxFloat64, 100},
		{math.MaxFloat64 / 2, math.MaxFloat64, 50},
	}

	for _, tt := range tests {
		if got := Normalize(tt.score, tt.max); got != tt.want {
			t.Errorf("Normalize(%v, %v) = %v, want %v", tt.score, tt.max, got, tt.want)
		}
	}
}

func TestExplain(t *testing.T) {
	s := scenarioScorer()

	tests := []struct {
		sr   ScoredRecord
		want string
	}{
		{ScoredRecord{Score: 0}, "no match"},
		{ScoredRecord{Score: 10, MatchPercentage: 100}, "strong match"},
		{ScoredRecord{Score: 4, MatchPercentage: 40}, "partial match"},
		{ScoredRecord{Score: 1, MatchPercentage: 10}, "weak match"},
		{ScoredRecord{Score: 1, Breakdown: Breakdown{FallbackApplied: true}}, "no profile signal - ordered by popularity"},
	}

	for _, tt := range tests {
		if got := s.Explain(tt.sr); got != tt.want {
			t.Errorf("Explain(%+v) = %q, want %q", tt.sr, got, tt.want)
		}
	}
}

func TestNewScorer_Defaults(t *testing.T) {
	cfg := NewScorer(Config{}).Config()
	if cfg.RelatedFactor != DefaultRelatedFactor {
		t.Errorf("RelatedFactor = %v", cfg.RelatedFactor)
	}
	if cfg.FallbackScale != DefaultFallbackScale {
		t.Errorf("FallbackScale = %v", cfg.FallbackScale)
	}
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]string{"Math=20", "science", "math=5"})
	if err != nil {
		t.Fatalf("ParseProfile: %v", err)
	}
	if p["math"] != 25 {
		t.Errorf("math = %v, want 25", p["math"])
	}
	if p["science"] != 1 {
		t.Errorf("science = %v, want 1", p["science"])
	}

	if _, err := ParseProfile([]string{"math=-1"}); err == nil {
		t.Error("expected error for negative weight")
	}
	if _, err := ParseProfile([]string{"math=lots"}); err == nil {
		t.Error("expected error for non-numeric weight")
	}
}

func TestProfile_IsEmpty(t *testing.T) {
	if !(Profile{}).IsEmpty() {
		t.Error("empty profile should be empty")
	}
	if !(Profile{"math": 0}).IsEmpty() {
		t.Error("all-zero profile should be empty")
	}
	if (Profile{"math": 1}).IsEmpty() {
		t.Error("profile with a positive weight is not empty")
	}
}

func assertPercentagesInRange(t *testing.T, got Scored) {
	t.Helper()
	for _, sr := range got.Records {
		if math.IsNaN(sr.Score) || math.IsInf(sr.Score, 0) {
			t.Errorf("record %s score = %v, want finite", sr.Record.ID(), sr.Score)
		}
		if !(sr.MatchPercentage >= 0 && sr.MatchPercentage <= 100) {
			t.Errorf("record %s percentage = %v, want within [0,100]", sr.Record.ID(), sr.MatchPercentage)
		}
	}
}

func TestScoreAll_HugeWeightsStayFinite(t *testing.T) {
	got := scenarioScorer().ScoreAll(scenarioRecords(), Profile{"math": 1.7e308, "science": 1.7e308})
	assertPercentagesInRange(t, got)

	if got.Records[2].MatchPercentage != 100 {
		t.Errorf("record with both keywords percentage = %v, want 100", got.Records[2].MatchPercentage)
	}
}

func TestScoreAll_InfinitePopularityIgnored(t *testing.T) {
	recs := []record.Record{
		record.New("a", map[string]record.Value{"popularity": record.String("Inf")}),
		record.New("b", map[string]record.Value{"popularity": record.Number(math.Inf(1))}),
		record.New("c", map[string]record.Value{"popularity": record.Number(40)}),
	}
	s := scenarioScorer()
	got := s.ScoreAll(recs, Profile{})
	assertPercentagesInRange(t, got)

	if !got.FallbackApplied {
		t.Fatal("expected fallback")
	}
	if s.Popularity(recs[0]) != 0 || s.Popularity(recs[1]) != 0 {
		t.Error("infinite popularity should count as 0")
	}
	if got.Records[2].MatchPercentage != 100 {
		t.Errorf("c percentage = %v, want 100", got.Records[2].MatchPercentage)
	}
}

func TestNewProfile_RejectsOverflowingSum(t *testing.T) {
	if _, err := NewProfile(map[string]float64{"Law": 1.7e308, "law": 1.7e308}); err == nil {
		t.Error("expected error when colliding weights overflow")
	}
}
