package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pxls/graphgate/internal/graph"
	"github.com/pxls/graphgate/internal/query"
	"github.com/pxls/graphgate/internal/transform"
)

type testGateway struct {
	handler http.Handler
	client  *graph.MemoryClient
	dials   *int
}

func newTestGateway(dialErr error) testGateway {
	client := graph.NewMemoryClient()
	dials := 0
	holder := graph.NewHolder(func(context.Context) (graph.Client, error) {
		dials++
		if dialErr != nil {
			return nil, dialErr
		}
		return client, nil
	}, zap.NewNop())

	logger := zap.NewNop()
	handlers := NewAPIHandlers(logger, query.NewService(holder, logger), transform.New(logger))
	router := NewRouter(logger, RouterDependencies{API: handlers})

	return testGateway{
		handler: router,
		client:  client,
		dials:   &dials,
	}
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthAlwaysHealthy(t *testing.T) {
	// Health is a liveness probe: it succeeds even when the database is unreachable.
	gw := newTestGateway(&graph.ConnectionError{Err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	gw.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, map[string]string{"status": "healthy"}, payload)
}

func TestQueryReturnsEnvelope(t *testing.T) {
	gw := newTestGateway(nil)
	gw.client.PushResult(graph.Result{Records: []graph.Record{{"x": int64(1)}}})

	rec := postJSON(t, gw.handler, "/api/v1/query", `{"query":"RETURN 1 AS x"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Status   string           `json:"status"`
		Count    int              `json:"count"`
		Results  []map[string]any `json:"results"`
		Metadata struct {
			Query      string         `json:"query"`
			Parameters map[string]any `json:"parameters"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	assert.Equal(t, "success", payload.Status)
	assert.Equal(t, 1, payload.Count)
	require.Len(t, payload.Results, 1)
	assert.Equal(t, float64(1), payload.Results[0]["x"])
	assert.Equal(t, "RETURN 1 AS x", payload.Metadata.Query)
	assert.Equal(t, map[string]any{}, payload.Metadata.Parameters)
}

func TestQueryCountMatchesResults(t *testing.T) {
	gw := newTestGateway(nil)
	gw.client.PushResult(graph.Result{Records: []graph.Record{
		{"name": "Alice"},
		{"name": "Bob"},
		{"name": "Carol"},
	}})

	rec := postJSON(t, gw.handler, "/api/v1/query", `{"query":"MATCH (p:Person) RETURN p.name AS name"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Count   int              `json:"count"`
		Results []map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, len(payload.Results), payload.Count)
	assert.Equal(t, 3, payload.Count)
}

func TestQueryForwardsParameters(t *testing.T) {
	gw := newTestGateway(nil)

	rec := postJSON(t, gw.handler, "/api/v1/query",
		`{"query":"MATCH (p {name: $name}) RETURN p","parameters":{"name":"Alice"}}`)

	require.Equal(t, http.StatusOK, rec.Code)

	calls := gw.client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"name": "Alice"}, calls[0].Params)
}

func TestQueryRejectsEmptyQuery(t *testing.T) {
	gw := newTestGateway(nil)

	rec := postJSON(t, gw.handler, "/api/v1/query", `{"query":""}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var payload errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "error", payload.Status)
	assert.Zero(t, *gw.dials, "validation failures must not contact the executor")
}

func TestQueryRejectsMalformedBody(t *testing.T) {
	gw := newTestGateway(nil)

	rec := postJSON(t, gw.handler, "/api/v1/query", `{"query":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, *gw.dials)
}

func TestQueryConnectionErrorSanitized(t *testing.T) {
	gw := newTestGateway(&graph.ConnectionError{Err: errors.New("dial tcp 10.0.0.5:7687: connection refused")})

	rec := postJSON(t, gw.handler, "/api/v1/query", `{"query":"RETURN 1"}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var payload errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "error", payload.Status)
	assert.Equal(t, "graph database unavailable", payload.Message)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestQueryExecutionErrorSanitized(t *testing.T) {
	gw := newTestGateway(nil)
	gw.client.WithError(&graph.QueryError{Err: errors.New("Neo.ClientError.Statement.SyntaxError: Invalid input")})

	rec := postJSON(t, gw.handler, "/api/v1/query", `{"query":"RETRN 1"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var payload errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "error", payload.Status)
	assert.Equal(t, "query execution failed", payload.Message)
	assert.NotContains(t, rec.Body.String(), "SyntaxError")
}

func TestQueryMethodNotAllowed(t *testing.T) {
	gw := newTestGateway(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/query", nil)
	rec := httptest.NewRecorder()
	gw.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDHeaderEchoed(t *testing.T) {
	gw := newTestGateway(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	gw.handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestTransformEndpoint(t *testing.T) {
	gw := newTestGateway(nil)

	body := `{
		"input_json": [
			{"rel": {"start": {"id": "1", "name": "TP53"}, "end": {"id": "2", "name": "NSCLC"}, "type": "contributes_to", "weight": 3}}
		]
	}`
	rec := postJSON(t, gw.handler, "/api/v1/transform/pxlsviz", body)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Nodes         []map[string]any `json:"nodes"`
		Relationships []map[string]any `json:"relationships"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Nodes, 2)
	require.Len(t, payload.Relationships, 1)
	assert.Equal(t, "1_contributes_to_2", payload.Relationships[0]["id"])
	assert.Equal(t, float64(3), payload.Relationships[0]["weight"])
}

func TestTransformRejectsMissingInput(t *testing.T) {
	gw := newTestGateway(nil)

	rec := postJSON(t, gw.handler, "/api/v1/transform/pxlsviz", `{"parameters":{}}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
