// Package shutdown is a small registry of named cleanup hooks that must run
// before the process exits: stopping the analytics ticker, force-flushing the
// event buffer, closing the database pool and Redis client. Components
// register against the registry instead of touching os/signal themselves.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"bizcard-backend/pkg/logger"
)

// Hook is a named cleanup function. Hooks run in registration order so that
// producers can be stopped before the sinks they write to are closed.
type Hook struct {
	Name string
	Fn   func(ctx context.Context) error
}

type Registry struct {
	mu    sync.Mutex
	hooks []Hook
	done  bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a hook. Registering after Run has fired is a no-op; the
// process is already on its way out.
func (r *Registry) Register(name string, fn func(ctx context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}
	r.hooks = append(r.hooks, Hook{Name: name, Fn: fn})
}

// Run executes every hook exactly once, in order. A failing hook is logged
// and does not prevent later hooks from running; partial cleanup is better
// than none at exit time.
func (r *Registry) Run(ctx context.Context) {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}
	r.done = true
	hooks := r.hooks
	r.mu.Unlock()

	for _, h := range hooks {
		logger.Info("Running shutdown hook", map[string]interface{}{"hook": h.Name})
		if err := h.Fn(ctx); err != nil {
			logger.ErrorFields("Shutdown hook failed", err, map[string]interface{}{"hook": h.Name})
		}
	}
}

// Notify returns a channel that receives on SIGINT or SIGTERM. The host
// entrypoints block on it and then call Run with a deadline.
func Notify() chan os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return quit
}
