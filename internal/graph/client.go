package graph

import (
	"context"
)

// Client defines the minimal contract required to execute Cypher statements
// against the underlying graph database. Connectivity is verified once when
// a client is dialled; afterwards failures surface through Run.
type Client interface {
	Run(ctx context.Context, cypher string, params map[string]any) ([]Record, error)
	Close(ctx context.Context) error
}

// Record is one row of a query result, keyed by field name.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI           string
	Database      string
	Username      string
	Password      string
	MaxResultRows int
}
