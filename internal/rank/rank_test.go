package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/studyhub/internal/record"
	"github.com/vijay-prabhu/studyhub/internal/scoring"
)

func loaded(t *testing.T) []record.Record {
	t.Helper()
	store := record.NewStore()
	snap, err := store.Load([]record.Record{
		record.New("A", map[string]record.Value{"tags": record.List("math"), "popularity": record.Number(10)}),
		record.New("B", map[string]record.Value{"tags": record.List("law"), "popularity": record.Number(50)}),
		record.New("C", map[string]record.Value{"tags": record.List("math", "science"), "popularity": record.Number(5)}),
	})
	require.NoError(t, err)
	return snap.All()
}

func scorer() *scoring.Scorer {
	return scoring.NewScorer(scoring.Config{PrimaryFields: []string{"tags"}, PopularityField: "popularity"})
}

func TestRank_TieBreakByInsertionOrder(t *testing.T) {
	scored := scorer().ScoreAll(loaded(t), scoring.Profile{"math": 20})

	got := Rank(scored.Records, 2)
	assert.Equal(t, []string{"A", "C"}, IDs(got))
}

func TestRank_TieBreakIgnoresInputOrder(t *testing.T) {
	scored := scorer().ScoreAll(loaded(t), scoring.Profile{"math": 20}).Records
	reversed := []scoring.ScoredRecord{scored[2], scored[1], scored[0]}

	assert.Equal(t, []string{"A", "C", "B"}, IDs(Rank(reversed, 0)))
}

func TestRank_FallbackFollowsPopularity(t *testing.T) {
	scored := scorer().ScoreAll(loaded(t), scoring.Profile{})
	require.True(t, scored.FallbackApplied)

	assert.Equal(t, []string{"B", "A", "C"}, IDs(Rank(scored.Records, 0)))
}

func TestRank_Limit(t *testing.T) {
	scored := scorer().ScoreAll(loaded(t), scoring.Profile{"math": 1}).Records

	tests := []struct {
		limit int
		want  int
	}{
		{-1, 3},
		{0, 3},
		{1, 1},
		{3, 3},
		{10, 3},
	}
	for _, tt := range tests {
		assert.Len(t, Rank(scored, tt.limit), tt.want, "limit %d", tt.limit)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	scored := scorer().ScoreAll(loaded(t), scoring.Profile{"law": 5}).Records
	before := IDs(scored)

	_ = Rank(scored, 1)
	assert.Equal(t, before, IDs(scored))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, 5))
}

func TestRank_SortedDescending(t *testing.T) {
	scored := scorer().ScoreAll(loaded(t), scoring.Profile{"math": 3, "science": 4}).Records
	got := Rank(scored, 0)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	assert.Equal(t, "C", got[0].Record.ID())
}

func TestRank_Deterministic(t *testing.T) {
	store := record.NewStore()
	var recs []record.Record
	for _, id := range []string{"h", "c", "f", "a", "g", "b", "e", "d"} {
		recs = append(recs, record.New(id, map[string]record.Value{
			"tags":       record.List("math"),
			"popularity": record.Number(1),
		}))
	}
	snap, err := store.Load(recs)
	require.NoError(t, err)

	scored := scorer().ScoreAll(snap.All(), scoring.Profile{"math": 20}).Records
	first := Rank(scored, 0)
	second := Rank(scored, 0)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"h", "c", "f", "a", "g", "b", "e", "d"}, IDs(first))
}
