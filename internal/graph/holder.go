package graph

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// DialFunc opens a new client connection to the graph database.
type DialFunc func(ctx context.Context) (Client, error)

// Holder owns the process-wide client handle. At most one live client exists
// at a time; all requests share it. The handle is opened lazily on first use
// and reopened on demand after Invalidate.
type Holder struct {
	dial   DialFunc
	logger *zap.Logger

	mu     sync.Mutex
	client Client
}

// NewHolder constructs a Holder around the given dial function.
func NewHolder(dial DialFunc, logger *zap.Logger) *Holder {
	return &Holder{
		dial:   dial,
		logger: logger,
	}
}

// Get returns the live client handle, dialling a new one if none exists.
// Dial failures are not retried here; the next call attempts again.
func (h *Holder) Get(ctx context.Context) (Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		return h.client, nil
	}

	client, err := h.dial(ctx)
	if err != nil {
		h.logger.Error("failed to open graph connection", zap.Error(err))
		return nil, err
	}

	h.client = client
	h.logger.Info("graph connection opened")
	return h.client, nil
}

// Invalidate closes and drops the current handle after a fatal connection
// error so the next Get re-dials.
func (h *Holder) Invalidate(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client == nil {
		return
	}

	if err := h.client.Close(ctx); err != nil {
		h.logger.Warn("closing stale graph connection failed", zap.Error(err))
	}
	h.client = nil
	h.logger.Info("graph connection invalidated")
}

// Close tears down the client handle at process shutdown.
func (h *Holder) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client == nil {
		return nil
	}

	err := h.client.Close(ctx)
	h.client = nil
	return err
}
