// Package search composes the record store, facet filters, scorer and
// ranker into one query operation over a consistent catalog snapshot.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/studyhub/internal/filter"
	"github.com/vijay-prabhu/studyhub/internal/logger"
	"github.com/vijay-prabhu/studyhub/internal/metrics"
	"github.com/vijay-prabhu/studyhub/internal/price"
	"github.com/vijay-prabhu/studyhub/internal/rank"
	"github.com/vijay-prabhu/studyhub/internal/record"
	"github.com/vijay-prabhu/studyhub/internal/scoring"
)

// ErrRecordNotFound is returned when an id is not in the current snapshot
var ErrRecordNotFound = errors.New("record not found")

// Options configures an Engine
type Options struct {
	SearchFields  []string // fields the text facet looks at
	CategoryField string
	PriceField    string
	WholeWord     bool
	DefaultLimit  int // used when a query has no limit of its own; <= 0 means unlimited
	Scoring       scoring.Config
	Bucketer      *price.Bucketer
}

// Query is one search request. Zero values are neutral.
type Query struct {
	Text     string          `json:"text,omitempty"`
	Category string          `json:"category,omitempty"`
	Bucket   string          `json:"bucket,omitempty"`
	Profile  scoring.Profile `json:"profile,omitempty"`
	Limit    int             `json:"limit,omitempty"` // 0 uses the engine default, < 0 is unlimited
}

// Clone returns a deep copy of q
func (q Query) Clone() Query {
	cp := q
	if q.Profile != nil {
		cp.Profile = make(scoring.Profile, len(q.Profile))
		for k, v := range q.Profile {
			cp.Profile[k] = v
		}
	}
	return cp
}

// Result is the ranked outcome of a Query
type Result struct {
	Records         []scoring.ScoredRecord          `json:"records"`
	Total           int                             `json:"total"`
	Matched         int                             `json:"matched"`
	FallbackApplied bool                            `json:"fallback_applied"`
	Warnings        []price.UnparseableFieldWarning `json:"warnings,omitempty"`
	Stats           filter.Stats                    `json:"stats"`
	Version         uint64                          `json:"snapshot_version"`
}

// Engine runs searches against a record store
type Engine struct {
	store  *record.Store
	opts   Options
	scorer *scoring.Scorer
}

// NewEngine creates an engine over store
func NewEngine(store *record.Store, opts Options) *Engine {
	if opts.Bucketer == nil {
		opts.Bucketer = &price.Bucketer{}
	}
	return &Engine{
		store:  store,
		opts:   opts,
		scorer: scoring.NewScorer(opts.Scoring),
	}
}

// Store returns the underlying record store
func (e *Engine) Store() *record.Store { return e.store }

// Scorer returns the engine's scorer
func (e *Engine) Scorer() *scoring.Scorer { return e.scorer }

// Bucketer returns the price bucketer used by the bucket facet
func (e *Engine) Bucketer() *price.Bucketer { return e.opts.Bucketer }

// Pipeline builds the facet pipeline for q
func (e *Engine) Pipeline(q Query) *filter.Pipeline {
	return filter.NewPipeline(
		filter.Text{Query: q.Text, Fields: e.opts.SearchFields, WholeWord: e.opts.WholeWord},
		filter.Category{Field: e.opts.CategoryField, Selected: q.Category},
		filter.Bucket{Selected: q.Bucket, Classify: filter.FieldBucketFunc(e.opts.Bucketer, e.opts.PriceField)},
	)
}

// Search filters, scores and ranks the current snapshot. The snapshot is
// read once, so a concurrent Load never produces a mixed result.
func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	log := logger.FromContext(ctx)
	snap := e.store.Current()

	filtered := e.Pipeline(q).Apply(snap.All())
	scored := e.scorer.ScoreAll(filtered.Included, q.Profile)

	limit := q.Limit
	if limit == 0 {
		limit = e.opts.DefaultLimit
	}

	res := &Result{
		Records:         rank.Rank(scored.Records, limit),
		Total:           snap.Len(),
		Matched:         len(filtered.Included),
		FallbackApplied: scored.FallbackApplied,
		Warnings:        filtered.Warnings,
		Stats:           filtered.Stats,
		Version:         snap.Version(),
	}

	for _, w := range res.Warnings {
		metrics.UnparseableFieldsTotal.WithLabelValues(w.Field).Inc()
		log.Warn("unparseable field",
			zap.String("record_id", w.RecordID),
			zap.String("field", w.Field),
			zap.String("raw", w.Raw),
			zap.String("reason", w.Reason),
		)
	}
	if res.FallbackApplied {
		metrics.FallbackTotal.Inc()
		log.Debug("no profile match, ranking by popularity", zap.Int("candidates", res.Matched))
	}

	metrics.SearchRequestsTotal.WithLabelValues(SourceFromContext(ctx)).Inc()
	metrics.SearchResults.Observe(float64(res.Matched))
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	log.Debug("search",
		zap.String("text", q.Text),
		zap.String("category", q.Category),
		zap.String("bucket", q.Bucket),
		zap.Int("matched", res.Matched),
		zap.Int("returned", len(res.Records)),
		zap.Duration("took", time.Since(start)),
	)

	return res, nil
}

// Get returns a record by id from the current snapshot
func (e *Engine) Get(id string) (record.Record, error) {
	r, ok := e.store.Current().Get(id)
	if !ok {
		return record.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return r, nil
}

// FacetCount is the number of records carrying one facet value
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets summarizes the values available for each facet
type Facets struct {
	Total      int          `json:"total"`
	Categories []FacetCount `json:"categories"`
	Buckets    []FacetCount `json:"buckets"`
}

// Facets counts the current snapshot per category and per price bucket.
// Every configured bucket label is listed, including empty ones.
func (e *Engine) Facets() Facets {
	snap := e.store.Current()
	records := snap.All()

	cats := make(map[string]int)
	buckets := make(map[string]int)
	classify := filter.FieldBucketFunc(e.opts.Bucketer, e.opts.PriceField)

	for _, r := range records {
		seen := make(map[string]bool)
		for _, v := range r.Text(e.opts.CategoryField) {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			cats[v]++
		}

		label, _ := classify(r)
		buckets[label]++
	}

	f := Facets{Total: snap.Len(), Categories: []FacetCount{}, Buckets: []FacetCount{}}
	for v, n := range cats {
		f.Categories = append(f.Categories, FacetCount{Value: v, Count: n})
	}
	sort.Slice(f.Categories, func(i, j int) bool { return f.Categories[i].Value < f.Categories[j].Value })

	for _, label := range e.opts.Bucketer.Labels() {
		f.Buckets = append(f.Buckets, FacetCount{Value: label, Count: buckets[label]})
	}
	return f
}

type sourceKey struct{}

// WithSource tags ctx with the surface issuing searches (cli, http, mcp)
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFromContext returns the search source, "unknown" if unset
func SourceFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok && s != "" {
		return s
	}
	return "unknown"
}
