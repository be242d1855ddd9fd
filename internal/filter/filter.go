package filter

import (
	"github.com/vijay-prabhu/studyhub/internal/price"
	"github.com/vijay-prabhu/studyhub/internal/record"
)

// Predicate is one facet of the filter pipeline
type Predicate interface {
	Name() string
	Match(r record.Record) bool
}

// Diagnoser is implemented by predicates that can raise a recoverable
// warning while deciding, such as a bucket facet over unparseable prices.
type Diagnoser interface {
	Diagnose(r record.Record) (bool, *price.UnparseableFieldWarning)
}

// Decision is the outcome of running one record through the pipeline
type Decision struct {
	Include bool
	Facet   string // facet that rejected the record, empty when included
	Warning *price.UnparseableFieldWarning
}

// Result holds the records that passed every facet
type Result struct {
	Included []record.Record
	Warnings []price.UnparseableFieldWarning
	Stats    Stats
}

// Stats returns filtering statistics
type Stats struct {
	Total      int            `json:"total"`
	Included   int            `json:"included"`
	RejectedBy map[string]int `json:"rejected_by,omitempty"`
}

// Pipeline ANDs its predicates. It holds no state between calls and is
// re-run in full whenever a facet or the query changes.
type Pipeline struct {
	predicates []Predicate
}

// NewPipeline creates a pipeline; nil predicates are skipped
func NewPipeline(preds ...Predicate) *Pipeline {
	p := &Pipeline{}
	for _, pred := range preds {
		if pred != nil {
			p.predicates = append(p.predicates, pred)
		}
	}
	return p
}

// Predicates returns the active predicates
func (p *Pipeline) Predicates() []Predicate {
	out := make([]Predicate, len(p.predicates))
	copy(out, p.predicates)
	return out
}

// EvaluateAll is the logical AND of preds over r. It stops at the first
// predicate that fails; an empty set accepts everything.
func EvaluateAll(r record.Record, preds []Predicate) bool {
	for _, pred := range preds {
		if !pred.Match(r) {
			return false
		}
	}
	return true
}

// Evaluate runs a record through the pipeline
func (p *Pipeline) Evaluate(r record.Record) Decision {
	var warning *price.UnparseableFieldWarning

	for _, pred := range p.predicates {
		var ok bool
		if d, isDiag := pred.(Diagnoser); isDiag {
			var w *price.UnparseableFieldWarning
			ok, w = d.Diagnose(r)
			if w != nil {
				warning = w
			}
		} else {
			ok = pred.Match(r)
		}

		if !ok {
			return Decision{Include: false, Facet: pred.Name(), Warning: warning}
		}
	}

	return Decision{Include: true, Warning: warning}
}

// Apply filters records, preserving their order
func (p *Pipeline) Apply(records []record.Record) Result {
	res := Result{
		Included: make([]record.Record, 0, len(records)),
		Stats:    Stats{Total: len(records)},
	}

	for _, r := range records {
		d := p.Evaluate(r)
		if d.Warning != nil {
			res.Warnings = append(res.Warnings, *d.Warning)
		}
		if d.Include {
			res.Included = append(res.Included, r)
			continue
		}
		if res.Stats.RejectedBy == nil {
			res.Stats.RejectedBy = make(map[string]int)
		}
		res.Stats.RejectedBy[d.Facet]++
	}

	res.Stats.Included = len(res.Included)
	return res
}
