// Package httpapi exposes the search engine as a JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/studyhub/internal/career"
	"github.com/vijay-prabhu/studyhub/internal/database"
	"github.com/vijay-prabhu/studyhub/internal/logger"
	"github.com/vijay-prabhu/studyhub/internal/metrics"
	"github.com/vijay-prabhu/studyhub/internal/scoring"
	"github.com/vijay-prabhu/studyhub/internal/search"
)

// Source labels searches issued through this API
const Source = "http"

const maxBodyBytes = 1 << 20

// History stores finished searches. It may be nil.
type History interface {
	RecordSearch(ctx context.Context, e *database.SearchEntry) error
}

// Server serves the HTTP API
type Server struct {
	engine  *search.Engine
	history History
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(engine *search.Engine, history History, logger *zap.Logger) *Server {
	return &Server{engine: engine, history: history, logger: logger}
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchRequest is the body of POST /v1/search
type SearchRequest struct {
	Text     string             `json:"text"`
	Category string             `json:"category"`
	Bucket   string             `json:"bucket"`
	Profile  map[string]float64 `json:"profile"`
	Limit    int                `json:"limit"`
}

// RecommendRequest is the body of POST /v1/recommend
type RecommendRequest struct {
	Answers []string `json:"answers"`
	Limit   int      `json:"limit"`
}

// Routes builds the router with middleware and every endpoint
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/facets", s.Facets)
		r.Get("/records", s.ListRecords)
		r.Get("/records/{id}", s.GetRecord)
		r.Post("/search", s.Search)
		r.Post("/recommend", s.Recommend)
	})

	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Store().Current()
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":           "ok",
		"records":          snap.Len(),
		"snapshot_version": snap.Version(),
	})
}

// Facets handles GET /v1/facets.
func (s *Server) Facets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.engine.Facets())
}

// ListRecords handles GET /v1/records.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"records": s.engine.Store().All(),
	})
}

// GetRecord handles GET /v1/records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.engine.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile, err := scoring.NewProfile(req.Profile)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	q := search.Query{
		Text:     req.Text,
		Category: req.Category,
		Bucket:   req.Bucket,
		Profile:  profile,
		Limit:    req.Limit,
	}

	ctx := search.WithSource(r.Context(), Source)
	res, err := s.engine.Search(ctx, q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.record(ctx, q, res)
	writeJSON(w, r, http.StatusOK, res)
}

// Recommend handles POST /v1/recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if !decodeBody(w, r, &req) {
		return
	}

	answers, err := career.ParseCategories(req.Answers)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	ctx := search.WithSource(r.Context(), Source)
	rec, err := s.engine.Recommend(ctx, answers, req.Limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.record(ctx, search.Query{Profile: rec.Profile, Limit: req.Limit}, rec.Result)
	writeJSON(w, r, http.StatusOK, rec)
}

func (s *Server) record(ctx context.Context, q search.Query, res *search.Result) {
	if s.history == nil {
		return
	}
	if err := s.history.RecordSearch(ctx, database.NewSearchEntry(Source, q, res)); err != nil {
		logger.FromContext(ctx).Warn("failed to record search history", zap.Error(err))
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	switch {
	case errors.Is(err, search.ErrRecordNotFound):
		writeError(w, r, http.StatusNotFound, "record_not_found", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Info("request cancelled", zap.Error(err))
		writeError(w, r, http.StatusServiceUnavailable, "cancelled", "request cancelled")
	default:
		log.Error("internal error", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeJSON encodes v before touching the response so an unencodable value
// becomes a 500 instead of a 200 with an empty body
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"internal_error","message":"internal error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, ErrorResponse{Code: code, Message: message})
}
