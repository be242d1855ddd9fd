package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/studyhub/internal/career"
	"github.com/vijay-prabhu/studyhub/internal/database"
	"github.com/vijay-prabhu/studyhub/internal/logger"
	"github.com/vijay-prabhu/studyhub/internal/record"
	"github.com/vijay-prabhu/studyhub/internal/scoring"
	"github.com/vijay-prabhu/studyhub/internal/search"
)

func (s *Server) registerHandlers() {
	s.handlers["search_records"] = s.handleSearchRecords
	s.handlers["recommend"] = s.handleRecommend
	s.handlers["get_record"] = s.handleGetRecord
	s.handlers["refine_search"] = s.handleRefineSearch
	s.handlers["get_facets"] = s.handleGetFacets
}

func decodeParams(params json.RawMessage, v any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

type searchRecordsParams struct {
	Text     string             `json:"text"`
	Category string             `json:"category"`
	Bucket   string             `json:"bucket"`
	Profile  map[string]float64 `json:"profile"`
	Limit    int                `json:"limit"`
}

func (s *Server) handleSearchRecords(ctx context.Context, params json.RawMessage) (any, error) {
	var p searchRecordsParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	profile, err := scoring.NewProfile(p.Profile)
	if err != nil {
		return nil, err
	}

	q := search.Query{
		Text:     p.Text,
		Category: p.Category,
		Bucket:   p.Bucket,
		Profile:  profile,
		Limit:    p.Limit,
	}

	res, err := s.engine.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	s.record(ctx, q, res)
	return res, nil
}

type recommendParams struct {
	Answers []string `json:"answers"`
	Limit   int      `json:"limit"`
}

func (s *Server) handleRecommend(ctx context.Context, params json.RawMessage) (any, error) {
	var p recommendParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	answers, err := career.ParseCategories(p.Answers)
	if err != nil {
		return nil, err
	}

	rec, err := s.engine.Recommend(ctx, answers, p.Limit)
	if err != nil {
		return nil, err
	}
	s.record(ctx, search.Query{Profile: rec.Profile, Limit: p.Limit}, rec.Result)
	return rec, nil
}

type getRecordParams struct {
	ID string `json:"id"`
}

func (s *Server) handleGetRecord(_ context.Context, params json.RawMessage) (any, error) {
	var p getRecordParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, errors.New("id is required")
	}

	return s.engine.Get(p.ID)
}

type refineSearchParams struct {
	Reset    bool               `json:"reset"`
	Text     *string            `json:"text"`
	Category *string            `json:"category"`
	Bucket   *string            `json:"bucket"`
	Weights  map[string]float64 `json:"weights"`
	Limit    *int               `json:"limit"`
}

func (s *Server) handleRefineSearch(ctx context.Context, params json.RawMessage) (any, error) {
	var p refineSearchParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	// Validate before touching the session so a bad call changes nothing
	if _, err := scoring.NewProfile(p.Weights); err != nil {
		return nil, err
	}

	if p.Reset {
		s.session.Reset()
	}
	if p.Text != nil {
		s.session.SetText(*p.Text)
	}
	if p.Category != nil {
		s.session.SetCategory(*p.Category)
	}
	if p.Bucket != nil {
		s.session.SetBucket(*p.Bucket)
	}
	if p.Limit != nil {
		s.session.SetLimit(*p.Limit)
	}
	for kw, w := range p.Weights {
		s.session.SetWeight(kw, w)
	}

	res, err := s.session.Run(ctx, s.engine)
	if err != nil {
		return nil, err
	}
	s.record(ctx, s.session.Query(), res)

	return struct {
		Query  search.Query   `json:"query"`
		Result *search.Result `json:"result"`
	}{s.session.Query(), res}, nil
}

func (s *Server) handleGetFacets(_ context.Context, _ json.RawMessage) (any, error) {
	return s.engine.Facets(), nil
}

func (s *Server) record(ctx context.Context, q search.Query, res *search.Result) {
	if s.history == nil {
		return
	}
	if err := s.history.RecordSearch(ctx, database.NewSearchEntry(Source, q, res)); err != nil {
		logger.FromContext(ctx).Warn("failed to record search history", zap.Error(err))
	}
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case resourceSummary:
		return s.getResourceSummary(ctx)
	case resourceFacets:
		return s.getResourceFacets(), nil
	case resourceSession:
		return s.getResourceSession(), nil
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func displayName(r record.Record) string {
	if name := r.Str("name"); name != "" {
		return name
	}
	return r.ID()
}

func (s *Server) getResourceSummary(ctx context.Context) (string, error) {
	snap := s.engine.Store().Current()

	var b strings.Builder
	b.WriteString("Catalog Summary\n===============\n")
	fmt.Fprintf(&b, "Records:          %d\n", snap.Len())
	fmt.Fprintf(&b, "Snapshot version: %d\n", snap.Version())

	if snap.Len() == 0 {
		b.WriteString("\nNo records loaded. Run 'studyhub import <file>' first.\n")
		return b.String(), nil
	}
	fmt.Fprintf(&b, "Loaded at:        %s\n", snap.LoadedAt().Format("2006-01-02 15:04:05"))

	res, err := s.engine.Search(ctx, search.Query{Limit: 5})
	if err != nil {
		return "", err
	}

	b.WriteString("\nMost popular:\n")
	for i, sr := range res.Records {
		fmt.Fprintf(&b, "  %d. %s (%s)\n", i+1, displayName(sr.Record), sr.Record.ID())
	}
	return b.String(), nil
}

func (s *Server) getResourceFacets() string {
	f := s.engine.Facets()

	var b strings.Builder
	b.WriteString("Facets\n======\n")
	fmt.Fprintf(&b, "Total records: %d\n\nCategories:\n", f.Total)
	for _, c := range f.Categories {
		fmt.Fprintf(&b, "  - %s: %d\n", c.Value, c.Count)
	}
	b.WriteString("\nPrice buckets:\n")
	for _, c := range f.Buckets {
		fmt.Fprintf(&b, "  - %s: %d\n", c.Value, c.Count)
	}
	return b.String()
}

func (s *Server) getResourceSession() string {
	q := s.session.Query()

	orAll := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return "all"
		}
		return v
	}

	var b strings.Builder
	b.WriteString("Current Search\n==============\n")
	fmt.Fprintf(&b, "Text:     %q\n", q.Text)
	fmt.Fprintf(&b, "Category: %s\n", orAll(q.Category))
	fmt.Fprintf(&b, "Bucket:   %s\n", orAll(q.Bucket))
	fmt.Fprintf(&b, "Limit:    %d\n", q.Limit)

	kws := q.Profile.Keywords()
	if len(kws) == 0 {
		b.WriteString("Profile:  (empty, ranking by popularity)\n")
		return b.String()
	}
	b.WriteString("Profile:\n")
	for _, kw := range kws {
		fmt.Fprintf(&b, "  - %s: %g\n", kw, q.Profile[kw])
	}
	return b.String()
}
