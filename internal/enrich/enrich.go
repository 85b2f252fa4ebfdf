// Package enrich attaches generated cook time and nutrition to recipe records.
//
// An Enriched record is distinct from the raw types.Recipe. Its derived fields
// are unexported and only ever written while unset, so a record keeps the
// values it was first stamped with for as long as it lives.
package enrich

import (
	"recipefinder/internal/recipes/types"
)

type Source interface {
	CookTime() string
	Nutrition() types.Nutrition
}

type Enriched struct {
	types.Recipe
	cookTime  string
	nutrition types.Nutrition
}

func (e *Enriched) CookTime() string {
	return e.cookTime
}

func (e *Enriched) Nutrition() types.Nutrition {
	return e.nutrition
}

// Stamped reports whether both derived fields are set.
func (e *Enriched) Stamped() bool {
	return e.cookTime != "" && !e.nutrition.IsZero()
}

type Enricher struct {
	src Source
}

func New(src Source) *Enricher {
	return &Enricher{src: src}
}

// Enrich wraps a raw record and stamps it.
func (en *Enricher) Enrich(r types.Recipe) *Enriched {
	return en.Ensure(&Enriched{Recipe: r})
}

// Ensure stamps whichever derived fields are unset and returns e. Calling it
// on an already stamped record changes nothing.
func (en *Enricher) Ensure(e *Enriched) *Enriched {
	if e.cookTime == "" {
		e.cookTime = en.src.CookTime()
	}
	if e.nutrition.IsZero() {
		e.nutrition = en.src.Nutrition()
	}
	return e
}

// All enriches each record in order.
func (en *Enricher) All(rs []types.Recipe) []*Enriched {
	out := make([]*Enriched, 0, len(rs))
	for _, r := range rs {
		out = append(out, en.Enrich(r))
	}
	return out
}

// Restore rebuilds an enriched record from previously generated values, for
// example a saved favorite. Blank values stay unset so Ensure can fill them.
func Restore(r types.Recipe, cookTime string, n types.Nutrition) *Enriched {
	return &Enriched{Recipe: r, cookTime: cookTime, nutrition: n}
}
