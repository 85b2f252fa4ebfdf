package theme

import (
	"context"
	"errors"
	"sync"
	"testing"

	"recipefinder/internal/cache"
)

type failingCache struct {
	cache.Cache
}

func (failingCache) Put(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestParse(t *testing.T) {
	cases := map[string]Theme{
		"dark":    Dark,
		" Dark\n": Dark,
		"light":   Light,
		"":        Light,
		"purple":  Light,
	}
	for in, want := range cases {
		if got := Parse(in); got != want {
			t.Errorf("Parse(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLoadDefaultsToLight(t *testing.T) {
	s := Load(t.Context(), cache.NewInMemoryCache())
	if s.Current() != Light {
		t.Fatalf("expected light, got %s", s.Current())
	}
}

func TestToggleRoundTrip(t *testing.T) {
	c := cache.NewFileCache(t.TempDir())
	s := Load(t.Context(), c)

	next, err := s.Toggle(t.Context())
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if next != Dark {
		t.Fatalf("expected dark after toggle, got %s", next)
	}
	if got := Load(t.Context(), c).Current(); got != Dark {
		t.Fatalf("expected dark after reload, got %s", got)
	}

	if next, _ = s.Toggle(t.Context()); next != Light {
		t.Fatalf("expected light after second toggle, got %s", next)
	}
	if got := Load(t.Context(), c).Current(); got != Light {
		t.Fatalf("expected light after reload, got %s", got)
	}
}

func TestSetFailureKeepsMemory(t *testing.T) {
	s := Load(t.Context(), failingCache{cache.NewInMemoryCache()})
	if err := s.Set(t.Context(), Dark); err == nil {
		t.Fatal("expected write error")
	}
	if s.Current() != Dark {
		t.Fatalf("expected dark in memory, got %s", s.Current())
	}
}

func TestConcurrentTogglesCancelOut(t *testing.T) {
	c := cache.NewInMemoryCache()
	s := Load(t.Context(), c)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Toggle(t.Context()); err != nil {
				t.Errorf("Toggle: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := s.Current(); got != Light {
		t.Fatalf("expected an even number of toggles to end on light, got %s", got)
	}
	if got := Load(t.Context(), c).Current(); got != Light {
		t.Fatalf("expected stored theme light, got %s", got)
	}
}
