package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/daybook-ai/daybook/internal/metrics"
	"github.com/daybook-ai/daybook/internal/registry"
	"github.com/daybook-ai/daybook/internal/store"
	"github.com/daybook-ai/daybook/internal/voice"
)

// ServerContext holds the shared dependencies of one daybook process: the
// provider registry, the account store, the voice session store, and the
// process-wide logger. It owns the shutdown lifecycle.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	registry *registry.Registry
	store    *store.Store
	sessions *voice.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext wires up a server context around the given dependencies.
func NewServerContext(ctx context.Context, reg *registry.Registry, st *store.Store, sessions *voice.Store, m *metrics.Metrics, logger *slog.Logger) *ServerContext {
	if logger == nil {
		logger = slog.Default()
	}
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		registry: reg,
		store:    st,
		sessions: sessions,
		metrics:  m,
		logger:   logger,
	}
}

// Context returns the server's lifecycle context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Registry returns the provider registry.
func (sc *ServerContext) Registry() *registry.Registry {
	return sc.registry
}

// Store returns the account store.
func (sc *ServerContext) Store() *store.Store {
	return sc.store
}

// Sessions returns the voice session store.
func (sc *ServerContext) Sessions() *voice.Store {
	return sc.sessions
}

// Metrics returns the process metrics, or nil when metrics are disabled.
func (sc *ServerContext) Metrics() *metrics.Metrics {
	return sc.metrics
}

// Logger returns the process logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown stops the session sweep, closes the store, and cancels the
// lifecycle context. Safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.shutdown = true

	if sc.sessions != nil {
		sc.sessions.Stop()
	}

	var err error
	if sc.store != nil {
		err = sc.store.Close()
	}

	sc.cancel()
	return err
}
