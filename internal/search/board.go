package search

import (
	"sync"

	"github.com/samber/lo"

	"recipefinder/internal/enrich"
)

// View is what the results area shows.
type View struct {
	Heading string
	Outcome Outcome
	Message string
	Recipes []*enrich.Enriched
}

// Board holds the current result list. Each request takes a generation from
// Begin; Publish only accepts the newest one, so a slow response cannot
// replace the list a later request already put up.
type Board struct {
	mu        sync.RWMutex
	next      uint64
	published uint64
	view      *View
	pinned    map[string]*enrich.Enriched
}

func NewBoard() *Board {
	return &Board{pinned: map[string]*enrich.Enriched{}}
}

func (b *Board) Begin() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	return b.next
}

// Publish installs v if gen is the most recent generation handed out.
func (b *Board) Publish(gen uint64, v View) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.next || gen <= b.published {
		return false
	}
	b.published = gen
	b.view = &v
	clear(b.pinned)
	return true
}

// Current returns the latest published view, or false before the first one.
func (b *Board) Current() (View, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.view == nil {
		return View{}, false
	}
	return *b.view, true
}

// Pin keeps a record opened outside the current list so it renders the same
// way until the list is replaced.
func (b *Board) Pin(e *enrich.Enriched) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pinned[e.ID] = e
}

func (b *Board) Find(id string) (*enrich.Enriched, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.view != nil {
		if e, ok := lo.Find(b.view.Recipes, func(e *enrich.Enriched) bool { return e.ID == id }); ok {
			return e, true
		}
	}
	e, ok := b.pinned[id]
	return e, ok
}
