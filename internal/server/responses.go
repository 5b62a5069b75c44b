package server

import (
	"encoding/json"
	"net/http"
)

// queryRequest is the body of POST /api/v1/query.
type queryRequest struct {
	Query      string         `json:"query"`
	Parameters map[string]any `json:"parameters"`
}

// queryResponse is the success envelope for query execution.
type queryResponse struct {
	Status   string           `json:"status"`
	Count    int              `json:"count"`
	Results  []map[string]any `json:"results"`
	Metadata queryMetadata    `json:"metadata"`
}

type queryMetadata struct {
	Query      string         `json:"query"`
	Parameters map[string]any `json:"parameters"`
}

// transformRequest is the body of POST /api/v1/transform/pxlsviz.
type transformRequest struct {
	InputJSON  []map[string]map[string]any `json:"input_json"`
	Parameters map[string]any              `json:"parameters"`
}

// errorResponse is the envelope shared by all failure responses.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{
		Status:  "error",
		Message: message,
	})
}
