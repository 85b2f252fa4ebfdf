// Package mockdata generates placeholder cook times and nutrition values for
// recipes that do not carry them. None of it is computed from the recipe.
package mockdata

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"recipefinder/internal/recipes/types"
)

// Inclusive bounds for generated values.
const (
	MinCookMinutes = 15
	MaxCookMinutes = 90

	MinCalories = 180
	MaxCalories = 900
	MinProtein  = 5
	MaxProtein  = 50
	MinFat      = 3
	MaxFat      = 40
	MinCarbs    = 10
	MaxCarbs    = 120
)

// Generator is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New() *Generator {
	now := uint64(time.Now().UnixNano())
	return NewSeeded(now, now>>32)
}

// NewSeeded returns a generator with a deterministic sequence.
func NewSeeded(seed1, seed2 uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// between returns a uniform int in [lo, hi]. Callers hold g.mu.
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// CookTime returns "<N> min".
func (g *Generator) CookTime() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("%d min", g.between(MinCookMinutes, MaxCookMinutes))
}

func (g *Generator) Nutrition() types.Nutrition {
	g.mu.Lock()
	defer g.mu.Unlock()
	return types.Nutrition{
		Calories: g.between(MinCalories, MaxCalories),
		Protein:  g.between(MinProtein, MaxProtein),
		Fat:      g.between(MinFat, MaxFat),
		Carbs:    g.between(MinCarbs, MaxCarbs),
	}
}

// Perm returns a random permutation of [0, n).
func (g *Generator) Perm(n int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Perm(n)
}
