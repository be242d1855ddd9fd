// Package rank orders scored records for display.
package rank

import (
	"sort"

	"github.com/vijay-prabhu/studyhub/internal/scoring"
)

// Rank returns a new slice ordered by score descending. Equal scores keep
// catalog insertion order (record sequence, then input position). A limit
// of zero or less returns everything. The input is not modified.
func Rank(scored []scoring.ScoredRecord, limit int) []scoring.ScoredRecord {
	out := make([]scoring.ScoredRecord, len(scored))
	copy(out, scored)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Record.Seq() < out[j].Record.Seq()
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// IDs returns the record ids in ranked order
func IDs(ranked []scoring.ScoredRecord) []string {
	ids := make([]string, len(ranked))
	for i, sr := range ranked {
		ids[i] = sr.Record.ID()
	}
	return ids
}
