package filter

import (
	"strings"

	"github.com/vijay-prabhu/studyhub/internal/price"
	"github.com/vijay-prabhu/studyhub/internal/record"
)

// All is the neutral facet selection: a facet set to All accepts every record
const All = "all"

func isNeutral(selected string) bool {
	s := strings.TrimSpace(selected)
	return s == "" || strings.EqualFold(s, All)
}

// Text is the free-text facet over a fixed list of searchable fields
type Text struct {
	Query     string
	Fields    []string
	WholeWord bool // "law" must not match "lawn"
}

// Name implements Predicate
func (t Text) Name() string { return "text" }

// Match implements Predicate
func (t Text) Match(r record.Record) bool {
	if t.WholeWord {
		return matchesWholeWord(r, t.Query, t.Fields)
	}
	return MatchesText(r, t.Query, t.Fields)
}

// MatchesText is a case-insensitive substring match of query against
// fields. An empty or whitespace-only query matches every record.
func MatchesText(r record.Record, query string, fields []string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if ContainsFold(r, f, q) {
			return true
		}
	}
	return false
}

func matchesWholeWord(r record.Record, query string, fields []string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		for _, text := range r.Text(f) {
			if containsWord(text, q) {
				return true
			}
		}
	}
	return false
}

// Category matches records whose category field equals Selected
type Category struct {
	Field    string
	Selected string
}

// Name implements Predicate
func (c Category) Name() string { return "category" }

// Match implements Predicate
func (c Category) Match(r record.Record) bool {
	return MatchesCategory(r, c.Field, c.Selected)
}

// MatchesCategory is true when selected is All (or empty) or the record's
// field equals selected, ignoring case. List fields match on any item.
func MatchesCategory(r record.Record, field, selected string) bool {
	if isNeutral(selected) {
		return true
	}
	want := strings.ToLower(strings.TrimSpace(selected))
	for _, v := range r.Text(field) {
		if strings.TrimSpace(v) == want {
			return true
		}
	}
	return false
}

// BucketFunc classifies a record into a bucket label. A non-nil warning
// means the record was placed in the unknown bucket.
type BucketFunc func(r record.Record) (string, *price.UnparseableFieldWarning)

// FieldBucketFunc classifies the given field with b
func FieldBucketFunc(b *price.Bucketer, field string) BucketFunc {
	return func(r record.Record) (string, *price.UnparseableFieldWarning) {
		label, w := b.Classify(r.Str(field))
		if w != nil {
			w.RecordID = r.ID()
			w.Field = field
		}
		return label, w
	}
}

// Bucket matches records whose classified bucket equals Selected
type Bucket struct {
	Selected string
	Classify BucketFunc
}

// Name implements Predicate
func (b Bucket) Name() string { return "bucket" }

// Match implements Predicate
func (b Bucket) Match(r record.Record) bool {
	ok, _ := b.Diagnose(r)
	return ok
}

// Diagnose implements Diagnoser. A neutral selection never classifies,
// so it never warns.
func (b Bucket) Diagnose(r record.Record) (bool, *price.UnparseableFieldWarning) {
	if isNeutral(b.Selected) {
		return true, nil
	}
	if b.Classify == nil {
		return false, nil
	}
	label, w := b.Classify(r)
	return strings.EqualFold(label, strings.TrimSpace(b.Selected)), w
}

// MatchesBucket is true when selected is All or fn places r in selected
func MatchesBucket(r record.Record, selected string, fn BucketFunc) bool {
	return Bucket{Selected: selected, Classify: fn}.Match(r)
}
