package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/pxls/graphgate/internal/graph"
	"github.com/pxls/graphgate/internal/query"
	"github.com/pxls/graphgate/internal/transform"
)

// APIHandlers exposes HTTP handlers for the REST API. It is the sole
// translation point from internal error kinds to HTTP status codes.
type APIHandlers struct {
	logger      *zap.Logger
	queries     *query.Service
	transformer *transform.Transformer
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *zap.Logger, queries *query.Service, transformer *transform.Transformer) *APIHandlers {
	return &APIHandlers{
		logger:      logger,
		queries:     queries,
		transformer: transformer,
	}
}

func (h *APIHandlers) handleQuery(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}
	if req.Parameters == nil {
		req.Parameters = map[string]any{}
	}

	logger.Info("received query request", zap.String("query", req.Query))

	records, err := h.queries.Run(r.Context(), req.Query, req.Parameters)
	if err != nil {
		h.respondQueryError(w, logger, err)
		return
	}

	results := make([]map[string]any, len(records))
	for i, rec := range records {
		results[i] = rec
	}

	respondJSON(w, http.StatusOK, queryResponse{
		Status:  "success",
		Count:   len(results),
		Results: results,
		Metadata: queryMetadata{
			Query:      req.Query,
			Parameters: req.Parameters,
		},
	})
}

// respondQueryError maps executor failures onto status codes. Driver detail
// is logged but never echoed back to the caller.
func (h *APIHandlers) respondQueryError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var validationErr *query.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	var connErr *graph.ConnectionError
	if errors.As(err, &connErr) {
		logger.Error("graph database unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "graph database unavailable")
		return
	}

	var queryErr *graph.QueryError
	if errors.As(err, &queryErr) {
		logger.Error("query execution failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query execution failed")
		return
	}

	logger.Error("unexpected failure handling query", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func (h *APIHandlers) handleTransform(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)

	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InputJSON == nil {
		writeError(w, http.StatusBadRequest, "input_json must be a list of relationship objects")
		return
	}

	params := transform.ParamsFromMap(req.Parameters)
	graphOut := h.transformer.Transform(req.InputJSON, params)

	logger.Info("transformation executed",
		zap.Int("nodes", len(graphOut.Nodes)),
		zap.Int("relationships", len(graphOut.Relationships)),
	)

	respondJSON(w, http.StatusOK, graphOut)
}

func (h *APIHandlers) requestLogger(r *http.Request) *zap.Logger {
	if id := RequestIDFromContext(r.Context()); id != "" {
		return h.logger.With(zap.String("request_id", id))
	}
	return h.logger
}
