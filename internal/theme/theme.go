package theme

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"recipefinder/internal/cache"
)

const Key = "prefs/theme"

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse maps anything other than "dark" to Light.
func Parse(v string) Theme {
	if strings.EqualFold(strings.TrimSpace(v), string(Dark)) {
		return Dark
	}
	return Light
}

func (t Theme) Toggled() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

type Store struct {
	mu      sync.Mutex
	cache   cache.Cache
	current Theme
}

// Load never fails; unreadable storage means Light.
func Load(ctx context.Context, c cache.Cache) *Store {
	s := &Store{cache: c, current: Light}
	rc, err := c.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			slog.WarnContext(ctx, "ignoring unreadable theme", "error", err)
		}
		return s
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, 64))
	if err != nil {
		slog.WarnContext(ctx, "ignoring unreadable theme", "error", err)
		return s
	}
	s.current = Parse(string(b))
	return s
}

func (s *Store) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set keeps t in memory even when it cannot be written.
func (s *Store) Set(ctx context.Context, t Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(ctx, t)
}

func (s *Store) set(ctx context.Context, t Theme) error {
	s.current = t
	if err := s.cache.Put(ctx, Key, string(t)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

func (s *Store) Toggle(ctx context.Context) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current.Toggled()
	return next, s.set(ctx, next)
}
