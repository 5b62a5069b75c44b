// Package query contains the pass-through executor that runs arbitrary Cypher
// against the shared graph connection and normalizes the result records.
package query

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pxls/graphgate/internal/graph"
)

// ValidationError signals a malformed request rejected before execution.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Service executes Cypher statements through the shared connection holder.
// Queries are forwarded verbatim; no caching, planning or statement reuse
// happens here.
type Service struct {
	holder *graph.Holder
	logger *zap.Logger
}

// NewService constructs a Service around the connection holder.
func NewService(holder *graph.Holder, logger *zap.Logger) *Service {
	return &Service{
		holder: holder,
		logger: logger,
	}
}

// Run executes one Cypher statement with the given parameters and returns the
// normalized records in row order. On failure no partial results are returned.
func (s *Service) Run(ctx context.Context, cypher string, params map[string]any) ([]graph.Record, error) {
	if strings.TrimSpace(cypher) == "" {
		return nil, &ValidationError{Message: "query must not be empty"}
	}
	if params == nil {
		params = map[string]any{}
	}

	client, err := s.holder.Get(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("executing query", zap.String("query", cypher))

	records, err := client.Run(ctx, cypher, params)
	if err != nil {
		var connErr *graph.ConnectionError
		if errors.As(err, &connErr) {
			// Drop the stale handle so the next request re-dials.
			s.holder.Invalidate(ctx)
			return nil, err
		}
		var queryErr *graph.QueryError
		if errors.As(err, &queryErr) {
			return nil, err
		}
		return nil, &graph.QueryError{Err: err}
	}

	normalized := make([]graph.Record, len(records))
	for i, rec := range records {
		normalized[i] = graph.NormalizeRecord(rec)
	}

	s.logger.Info("query executed", zap.Int("result_count", len(normalized)))
	return normalized, nil
}
