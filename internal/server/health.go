package server

import (
	"net/http"
)

// handleHealth is a liveness probe: it reports healthy regardless of graph
// connectivity.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
