package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"recipefinder/internal/cache"
	"recipefinder/internal/enrich"
	"recipefinder/internal/recipes/types"
)

// Key is where the collection lives in durable storage.
const Key = "prefs/favorites"

// ErrNotDurable wraps storage failures. The in-memory change that preceded
// the failure is kept.
var ErrNotDurable = errors.New("favorites not saved")

// Entry is a frozen snapshot of a recipe taken when it was favorited.
type Entry struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Thumbnail string          `json:"thumbnail"`
	CookTime  string          `json:"cook_time"`
	Nutrition types.Nutrition `json:"nutrition"`
	SavedAt   time.Time       `json:"saved_at,omitzero"`
}

// Recipe returns the snapshot as an enriched record carrying the saved cook
// time and nutrition.
func (e Entry) Recipe() *enrich.Enriched {
	return enrich.Restore(types.Recipe{
		ID:        e.ID,
		Name:      e.Name,
		Thumbnail: e.Thumbnail,
	}, e.CookTime, e.Nutrition)
}

func entryFor(r *enrich.Enriched, now time.Time) Entry {
	return Entry{
		ID:        r.ID,
		Name:      r.Name,
		Thumbnail: r.Thumbnail,
		CookTime:  r.CookTime(),
		Nutrition: r.Nutrition(),
		SavedAt:   now,
	}
}

// Store is the ordered, id-unique favorites collection, newest first. Every
// mutation is written through to storage before it returns.
type Store struct {
	mu       sync.Mutex
	cache    cache.Cache
	enricher *enrich.Enricher
	entries  []Entry
	now      func() time.Time
}

// Load reads the collection from storage. A missing or unreadable value
// yields an empty store; Load never fails.
func Load(ctx context.Context, c cache.Cache, enricher *enrich.Enricher) *Store {
	s := &Store{
		cache:    c,
		enricher: enricher,
		now:      time.Now,
	}
	entries, err := read(ctx, c)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			slog.WarnContext(ctx, "ignoring unreadable favorites", "key", Key, "error", err)
		}
		return s
	}
	s.entries = entries
	slog.InfoContext(ctx, "loaded favorites", "count", len(entries))
	return s
}

func read(ctx context.Context, c cache.Cache) ([]Entry, error) {
	rc, err := c.Get(ctx, Key)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close favorites reader", "error", err)
		}
	}()

	var entries []Entry
	if err := json.NewDecoder(rc).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	// hand edited storage can break uniqueness; first occurrence wins
	entries = lo.Filter(entries, func(e Entry, _ int) bool {
		return strings.TrimSpace(e.ID) != ""
	})
	return lo.UniqBy(entries, func(e Entry) string { return e.ID }), nil
}

// persist writes the full collection. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	b := lo.Must(json.Marshal(entries))
	if err := s.cache.Put(ctx, Key, string(b)); err != nil {
		slog.ErrorContext(ctx, "failed to persist favorites", "count", len(entries), "error", err)
		return fmt.Errorf("%w: %w", ErrNotDurable, err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	_, idx, _ := lo.FindIndexOf(s.entries, func(e Entry) bool { return e.ID == id })
	return idx
}

func (s *Store) IsFavorited(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Get returns the saved snapshot for id.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.entries[idx], true
	}
	return Entry{}, false
}

// Add puts r at the front. An id that is already saved is left untouched.
func (s *Store) Add(ctx context.Context, r *enrich.Enriched) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(ctx, r)
}

func (s *Store) add(ctx context.Context, r *enrich.Enriched) error {
	if r == nil || r.ID == "" {
		return errors.New("favorite needs a recipe id")
	}
	if s.indexOf(r.ID) >= 0 {
		return nil
	}
	s.enricher.Ensure(r)
	s.entries = append([]Entry{entryFor(r, s.now())}, s.entries...)
	slog.InfoContext(ctx, "added favorite", "id", r.ID, "name", r.Name)
	return s.persist(ctx)
}

// Remove drops id if present. Storage is rewritten either way.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ctx, id)
}

func (s *Store) remove(ctx context.Context, id string) error {
	before := len(s.entries)
	s.entries = lo.Reject(s.entries, func(e Entry, _ int) bool { return e.ID == id })
	if len(s.entries) != before {
		slog.InfoContext(ctx, "removed favorite", "id", id)
	}
	return s.persist(ctx)
}

// Toggle removes r if saved and adds it otherwise. It returns whether r is
// saved afterwards, which holds even when the write to storage failed.
func (s *Store) Toggle(ctx context.Context, r *enrich.Enriched) (bool, error) {
	if r == nil {
		return false, errors.New("favorite needs a recipe")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(r.ID) >= 0 {
		return false, s.remove(ctx, r.ID)
	}
	err := s.add(ctx, r)
	return s.indexOf(r.ID) >= 0, err
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// List returns a copy, front to back.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}
