package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/studyhub/internal/database"
	"github.com/vijay-prabhu/studyhub/internal/record"
	"github.com/vijay-prabhu/studyhub/internal/scoring"
	"github.com/vijay-prabhu/studyhub/internal/search"
)

type fakeHistory struct {
	entries []*database.SearchEntry
}

func (f *fakeHistory) RecordSearch(_ context.Context, e *database.SearchEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakeHistory) {
	t.Helper()

	store := record.NewStore()
	_, err := store.Load([]record.Record{
		record.New("a", map[string]record.Value{
			"name":       record.String("Alpha University"),
			"category":   record.String("technical"),
			"tags":       record.List("math"),
			"popularity": record.Number(10),
		}),
		record.New("b", map[string]record.Value{
			"name":       record.String("Beta Institute"),
			"category":   record.String("classical"),
			"tags":       record.List("law"),
			"popularity": record.Number(50),
		}),
		record.New("c", map[string]record.Value{
			"name":       record.String("Gamma College"),
			"category":   record.String("technical"),
			"tags":       record.List("math", "science"),
			"popularity": record.Number(5),
		}),
	})
	require.NoError(t, err)

	engine := search.NewEngine(store, search.Options{
		SearchFields:  []string{"name", "tags"},
		CategoryField: "category",
		Scoring: scoring.Config{
			PrimaryFields:   []string{"tags"},
			PopularityField: "popularity",
		},
	})

	history := &fakeHistory{}
	return New(engine, history, "test"), history
}

// call sends one JSON-RPC request through Serve and decodes the response
func call(t *testing.T, s *Server, method string, params any) jsonRPCResponse {
	t.Helper()

	req := map[string]any{"jsonrpc": "2.0", "id": 1, "method": method}
	if params != nil {
		req["params"] = params
	}
	line, err := json.Marshal(req)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, s.Serve(context.Background(), bytes.NewReader(append(line, '\n')), &out))

	var resp jsonRPCResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	return resp
}

// callTool invokes a tool and returns the text content
func callTool(t *testing.T, s *Server, name string, args any) (string, bool) {
	t.Helper()

	resp := call(t, s, "tools/call", map[string]any{"name": name, "arguments": args})
	require.Nil(t, resp.Error)

	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var res callToolResult
	require.NoError(t, json.Unmarshal(raw, &res))
	require.Len(t, res.Content, 1)
	return res.Content[0].Text, res.IsError
}

func TestInitialize(t *testing.T) {
	s, _ := newTestServer(t)
	resp := call(t, s, "initialize", nil)

	require.Nil(t, resp.Error)
	result := resp.Result.(map[string]any)
	assert.Equal(t, protocolVersion, result["protocolVersion"])
	assert.Equal(t, "studyhub", result["serverInfo"].(map[string]any)["name"])
}

func TestServe_Errors(t *testing.T) {
	s, _ := newTestServer(t)

	var out bytes.Buffer
	require.NoError(t, s.Serve(context.Background(), strings.NewReader("not json\n"), &out))
	var resp jsonRPCResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeParseError, resp.Error.Code)

	resp = call(t, s, "does/not/exist", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)

	resp = call(t, s, "tools/call", map[string]any{"name": "nope"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestServe_NotificationHasNoResponse(t *testing.T) {
	s, _ := newTestServer(t)

	var out bytes.Buffer
	in := `{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n"
	require.NoError(t, s.Serve(context.Background(), strings.NewReader(in), &out))
	assert.Empty(t, out.String())
}

func TestToolsList(t *testing.T) {
	s, _ := newTestServer(t)
	resp := call(t, s, "tools/list", nil)
	require.Nil(t, resp.Error)

	tools := resp.Result.(map[string]any)["tools"].([]any)
	assert.Len(t, tools, len(ToolDefinitions))
	for _, tool := range ToolDefinitions {
		_, ok := s.handlers[tool.Name]
		assert.True(t, ok, "no handler for %s", tool.Name)
	}
}

func TestSearchRecords(t *testing.T) {
	s, history := newTestServer(t)

	text, isErr := callTool(t, s, "search_records", map[string]any{
		"category": "technical",
		"profile":  map[string]float64{"math": 20},
	})
	require.False(t, isErr, text)

	var res search.Result
	require.NoError(t, json.Unmarshal([]byte(text), &res))
	require.Len(t, res.Records, 2)
	assert.Equal(t, "a", res.Records[0].Record.ID())
	assert.Equal(t, "c", res.Records[1].Record.ID())

	require.Len(t, history.entries, 1)
	assert.Equal(t, Source, history.entries[0].Source)
}

func TestSearchRecords_NegativeWeight(t *testing.T) {
	s, history := newTestServer(t)

	text, isErr := callTool(t, s, "search_records", map[string]any{
		"profile": map[string]float64{"math": -1},
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "negative")
	assert.Empty(t, history.entries)
}

func TestRecommend(t *testing.T) {
	s, _ := newTestServer(t)

	text, isErr := callTool(t, s, "recommend", map[string]any{"answers": []string{"law"}})
	require.False(t, isErr, text)

	var rec search.Recommendation
	require.NoError(t, json.Unmarshal([]byte(text), &rec))
	require.NotEmpty(t, rec.Result.Records)
	assert.Equal(t, "b", rec.Result.Records[0].Record.ID())

	_, isErr = callTool(t, s, "recommend", map[string]any{"answers": []string{"astrology"}})
	assert.True(t, isErr)
}

func TestGetRecord(t *testing.T) {
	s, _ := newTestServer(t)

	text, isErr := callTool(t, s, "get_record", map[string]any{"id": "b"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Beta Institute")

	text, isErr = callTool(t, s, "get_record", map[string]any{"id": "zzz"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")

	_, isErr = callTool(t, s, "get_record", map[string]any{})
	assert.True(t, isErr)
}

func TestRefineSearch(t *testing.T) {
	s, _ := newTestServer(t)

	type refined struct {
		Query  search.Query   `json:"query"`
		Result *search.Result `json:"result"`
	}
	refine := func(args map[string]any) refined {
		text, isErr := callTool(t, s, "refine_search", args)
		require.False(t, isErr, text)
		var r refined
		require.NoError(t, json.Unmarshal([]byte(text), &r))
		return r
	}

	// Empty session ranks by popularity
	r := refine(map[string]any{})
	assert.True(t, r.Result.FallbackApplied)
	assert.Equal(t, "b", r.Result.Records[0].Record.ID())

	r = refine(map[string]any{"weights": map[string]float64{"math": 20}})
	assert.False(t, r.Result.FallbackApplied)
	assert.Equal(t, "a", r.Result.Records[0].Record.ID())

	// Earlier weights persist across calls
	r = refine(map[string]any{"category": "classical"})
	assert.Equal(t, 20.0, r.Query.Profile["math"])
	require.Len(t, r.Result.Records, 1)
	assert.Equal(t, "b", r.Result.Records[0].Record.ID())

	r = refine(map[string]any{"reset": true})
	assert.Empty(t, r.Query.Category)
	assert.Empty(t, r.Query.Profile)
	assert.Len(t, r.Result.Records, 3)

	// A rejected weight leaves the session untouched
	_, isErr := callTool(t, s, "refine_search", map[string]any{"text": "alpha", "weights": map[string]float64{"law": -2}})
	assert.True(t, isErr)
	assert.Empty(t, s.session.Query().Text)
}

func TestResources(t *testing.T) {
	s, _ := newTestServer(t)

	resp := call(t, s, "resources/list", nil)
	require.Nil(t, resp.Error)

	for _, res := range ResourceDefinitions {
		text, err := s.handleReadResource(context.Background(), res.URI)
		require.NoError(t, err, res.URI)
		assert.NotEmpty(t, text)
	}

	text, err := s.handleReadResource(context.Background(), resourceFacets)
	require.NoError(t, err)
	assert.Contains(t, text, "technical: 2")

	text, err = s.handleReadResource(context.Background(), resourceSummary)
	require.NoError(t, err)
	assert.Contains(t, text, "1. Beta Institute (b)")

	_, err = s.handleReadResource(context.Background(), "studyhub://nope")
	assert.Error(t, err)

	resp = call(t, s, "resources/read", map[string]any{"uri": resourceFacets})
	require.Nil(t, resp.Error)
}
