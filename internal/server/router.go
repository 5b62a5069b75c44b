package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	API            *APIHandlers
	AllowedOrigins []string
}

// NewRouter wires the HTTP routes exposed by the gateway.
func NewRouter(logger *zap.Logger, deps RouterDependencies) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)

	if deps.API != nil {
		api := r.PathPrefix("/api/v1").Subrouter()
		api.HandleFunc("/query", deps.API.handleQuery).Methods(http.MethodPost)
		api.HandleFunc("/transform/pxlsviz", deps.API.handleTransform).Methods(http.MethodPost)
	}

	handler := requestIDMiddleware(loggingMiddleware(logger, r))
	if len(deps.AllowedOrigins) > 0 {
		handler = corsMiddleware(deps.AllowedOrigins)(handler)
	}
	return handler
}
