package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"go.uber.org/zap"
)

// NewNeo4jClient establishes a Bolt connection using the official Neo4j driver.
// The driver maintains its own connection pool internally; callers share one
// client per process.
func NewNeo4jClient(ctx context.Context, opts Options, logger *zap.Logger) (Client, error) {
	if opts.URI == "" {
		return nil, &ConnectionError{Err: ErrMissingURI}
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth)
	if err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("create neo4j driver: %w", err)}
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, &ConnectionError{Err: fmt.Errorf("verify graph connectivity: %w", err)}
	}

	logger.Info("connected to graph database", zap.String("uri", opts.URI), zap.String("database", opts.Database))

	return &neo4jClient{
		driver:   driver,
		database: opts.Database,
		maxRows:  opts.MaxResultRows,
		logger:   logger,
	}, nil
}

type neo4jClient struct {
	driver   neo4j.DriverWithContext
	database string
	maxRows  int
	logger   *zap.Logger
}

// Run executes a single Cypher statement in an auto-commit transaction and
// eagerly drains all records in row order.
func (c *neo4jClient) Run(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, c.wrapRunError(err)
	}

	records, err := collectRecords(ctx, res, c.maxRows)
	if err != nil {
		var queryErr *QueryError
		if errors.As(err, &queryErr) {
			return nil, err
		}
		return nil, c.wrapRunError(err)
	}
	return records, nil
}

// resultIterator is the slice of neo4j.ResultWithContext needed to drain a
// result set.
type resultIterator interface {
	Next(ctx context.Context) bool
	Record() *db.Record
	Err() error
}

// collectRecords eagerly drains all records in row order. When maxRows is
// positive, a result exceeding it fails the whole query; no partial rows are
// returned.
func collectRecords(ctx context.Context, res resultIterator, maxRows int) ([]Record, error) {
	var records []Record
	for res.Next(ctx) {
		if maxRows > 0 && len(records) >= maxRows {
			return nil, &QueryError{Err: fmt.Errorf("result exceeded %d rows", maxRows)}
		}
		rec := res.Record()
		record := make(Record, len(rec.Keys))
		for _, key := range rec.Keys {
			value, _ := rec.Get(key)
			record[key] = value
		}
		records = append(records, record)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *neo4jClient) wrapRunError(err error) error {
	if neo4j.IsConnectivityError(err) {
		return &ConnectionError{Err: err}
	}
	return &QueryError{Err: err}
}

func (c *neo4jClient) Close(ctx context.Context) error {
	c.logger.Info("closing graph database connection")
	return c.driver.Close(ctx)
}
