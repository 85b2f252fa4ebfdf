package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"recipefinder/internal/cache"
	"recipefinder/internal/theme"
)

type readyOnce struct {
	done   atomic.Bool
	checks []Readyable
}

func (r *readyOnce) Ready(ctx context.Context) error {
	if r.done.Load() {
		return nil
	}
	for _, check := range r.checks {
		if err := check.Ready(ctx); err != nil {
			return err
		}
	}
	r.done.Store(true)
	return nil
}

type Readyable interface {
	Ready(context.Context) error
}

func (r *readyOnce) Add(f ...Readyable) {
	r.checks = append(r.checks, f...)
}

func (r *readyOnce) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if err := r.Ready(req.Context()); err != nil {
		http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.ErrorContext(req.Context(), "failed to write readiness response", "error", err)
	}
}

// storageCheck passes once preference storage answers a lookup.
type storageCheck struct {
	cache cache.Cache
}

func (s storageCheck) Ready(ctx context.Context) error {
	if _, err := s.cache.Exists(ctx, theme.Key); err != nil {
		return fmt.Errorf("storage unavailable: %w", err)
	}
	return nil
}
