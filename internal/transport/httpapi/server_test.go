package httpapi

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/studyhub/internal/database"
	"github.com/vijay-prabhu/studyhub/internal/price"
	"github.com/vijay-prabhu/studyhub/internal/record"
	"github.com/vijay-prabhu/studyhub/internal/scoring"
	"github.com/vijay-prabhu/studyhub/internal/search"
)

type fakeHistory struct {
	mu      sync.Mutex
	entries []*database.SearchEntry
}

func (f *fakeHistory) RecordSearch(_ context.Context, e *database.SearchEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeHistory) {
	t.Helper()

	store := record.NewStore()
	_, err := store.Load([]record.Record{
		record.New("kbtu", map[string]record.Value{
			"name":       record.String("KBTU"),
			"city":       record.String("Алматы"),
			"category":   record.String("technical"),
			"tags":       record.List("software"),
			"price":      record.String("2 200 000 ₸"),
			"popularity": record.Number(80),
		}),
		record.New("kaznu", map[string]record.Value{
			"name":       record.String("KazNU"),
			"city":       record.String("Алматы"),
			"category":   record.String("classical"),
			"tags":       record.List("law", "medicine"),
			"price":      record.String("Грант"),
			"popularity": record.Number(95),
		}),
	})
	require.NoError(t, err)

	engine := search.NewEngine(store, search.Options{
		SearchFields:  []string{"name", "city", "tags"},
		CategoryField: "category",
		PriceField:    "price",
		Scoring: scoring.Config{
			PrimaryFields:   []string{"tags"},
			PopularityField: "popularity",
		},
		Bucketer: &price.Bucketer{
			FreeMarkers:     []string{"грант"},
			DefaultCurrency: price.KZT,
			Scales: map[price.Currency]price.Scale{
				price.KZT: {Thresholds: []price.Threshold{{Label: "low", Max: 1000000}}, Overflow: "high"},
			},
		},
	})

	history := &fakeHistory{}
	srv := httptest.NewServer(NewServer(engine, history, zap.NewNop()).Routes())
	t.Cleanup(srv.Close)
	return srv, history
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["records"])
}

func TestSearch(t *testing.T) {
	srv, history := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/search", `{"text": "алматы", "profile": {"Law": 10}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res search.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))

	require.Len(t, res.Records, 2)
	assert.Equal(t, "kaznu", res.Records[0].Record.ID())
	assert.Equal(t, 100.0, res.Records[0].MatchPercentage)
	assert.False(t, res.FallbackApplied)

	require.Len(t, history.entries, 1)
	assert.Equal(t, Source, history.entries[0].Source)
	assert.Equal(t, 10.0, history.entries[0].Profile["law"])
}

func TestSearch_Bucket(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/search", `{"bucket": "high"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res search.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.Len(t, res.Records, 1)
	assert.Equal(t, "kbtu", res.Records[0].Record.ID())
}

func TestSearch_BadRequests(t *testing.T) {
	srv, history := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"text": `},
		{"negative weight", `{"profile": {"law": -1}}`},
		{"unknown field", `{"query": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/v1/search", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var e ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.NotEmpty(t, e.Message)
		})
	}
	assert.Empty(t, history.entries)
}

func TestSearch_HugeWeights(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/search", `{"profile": {"law": 1.7e308, "medicine": 1.7e308}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res search.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))

	require.NotEmpty(t, res.Records)
	assert.Equal(t, "kaznu", res.Records[0].Record.ID())
	for _, sr := range res.Records {
		assert.GreaterOrEqual(t, sr.MatchPercentage, 0.0)
		assert.LessOrEqual(t, sr.MatchPercentage, 100.0)
	}
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	writeJSON(rec, req, http.StatusOK, map[string]float64{"x": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body.Code)
}

func TestRecommend(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/recommend", `{"answers": ["law", "law", "it"], "limit": 1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec search.Recommendation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	require.Len(t, rec.Result.Records, 1)
	assert.Equal(t, "kaznu", rec.Result.Records[0].Record.ID())

	resp = postJSON(t, srv.URL+"/v1/recommend", `{"answers": ["astrology"]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetRecord(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/records/kbtu")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var r record.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	assert.Equal(t, "KBTU", r.Str("name"))

	missing, err := http.Get(srv.URL + "/v1/records/mit")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestFacetsAndRecords(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/facets")
	require.NoError(t, err)
	defer resp.Body.Close()

	var f search.Facets
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	assert.Equal(t, 2, f.Total)
	assert.Len(t, f.Categories, 2)

	list, err := http.Get(srv.URL + "/v1/records")
	require.NoError(t, err)
	defer list.Body.Close()
	assert.Equal(t, http.StatusOK, list.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, ServerConfig{
			Addr:            "127.0.0.1:0",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		}, http.NotFoundHandler(), zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
