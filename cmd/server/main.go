package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/pxls/graphgate/internal/config"
	"github.com/pxls/graphgate/internal/graph"
	"github.com/pxls/graphgate/internal/logging"
	"github.com/pxls/graphgate/internal/query"
	"github.com/pxls/graphgate/internal/server"
	"github.com/pxls/graphgate/internal/transform"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	defer func() {
		_ = logger.Sync()
	}()

	if cfg.Neo4j.URI == "" {
		logger.Warn("NEO4J_URI is not set; query requests will fail until it is configured")
	}

	holder := graph.NewHolder(func(ctx context.Context) (graph.Client, error) {
		return graph.NewNeo4jClient(ctx, graph.Options{
			URI:           cfg.Neo4j.URI,
			Database:      cfg.Neo4j.Database,
			Username:      cfg.Neo4j.Username,
			Password:      cfg.Neo4j.Password,
			MaxResultRows: cfg.Neo4j.MaxResultRows,
		}, logger)
	}, logger)
	defer func() {
		if err := holder.Close(context.Background()); err != nil {
			logger.Warn("closing graph connection failed", zap.Error(err))
		}
	}()

	queries := query.NewService(holder, logger)
	transformer := transform.New(logger)
	apiHandlers := server.NewAPIHandlers(logger, queries, transformer)

	router := server.NewRouter(logger, server.RouterDependencies{
		API:            apiHandlers,
		AllowedOrigins: parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
