package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"recipefinder/internal/enrich"
	"recipefinder/internal/recipes/types"
)

// Source is the remote recipe service.
type Source interface {
	Search(ctx context.Context, term string) ([]types.Recipe, error)
	Random(ctx context.Context) (*types.Recipe, error)
	Lookup(ctx context.Context, id string) (*types.Recipe, error)
}

type Outcome int

const (
	Found Outcome = iota
	NoMatches
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NoMatches:
		return "no_matches"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result keeps "nothing matched" apart from "could not ask".
type Result struct {
	Outcome Outcome
	Recipes []types.Recipe
	Err     error
}

type shuffler interface {
	Perm(n int) []int
}

type Aggregator struct {
	source   Source
	enricher *enrich.Enricher
	shuffle  shuffler
}

func New(source Source, enricher *enrich.Enricher, shuffle shuffler) *Aggregator {
	return &Aggregator{source: source, enricher: enricher, shuffle: shuffle}
}

// Search returns raw records; enriching them is up to the caller.
func (a *Aggregator) Search(ctx context.Context, term string) Result {
	recipes, err := a.source.Search(ctx, term)
	if err != nil {
		slog.ErrorContext(ctx, "recipe search failed", "term", term, "error", err)
		return Result{Outcome: Failed, Err: err}
	}
	if len(recipes) == 0 {
		return Result{Outcome: NoMatches, Recipes: []types.Recipe{}}
	}
	return Result{Outcome: Found, Recipes: recipes}
}

// AggregateFeatured searches sampleSize distinct terms at once, merges the
// hits in term order, drops repeated ids and returns at most resultLimit
// enriched records. Failed searches add nothing; this never errors.
func (a *Aggregator) AggregateFeatured(ctx context.Context, terms []string, sampleSize, resultLimit int) []*enrich.Enriched {
	picks := a.pick(terms, sampleSize)
	perTerm := make([][]types.Recipe, len(picks))

	var g errgroup.Group
	for i, term := range picks {
		g.Go(func() error {
			res := a.Search(ctx, term)
			if res.Outcome == Found {
				perTerm[i] = res.Recipes
			}
			return nil
		})
	}
	_ = g.Wait()

	merged := lo.UniqBy(lo.Flatten(perTerm), func(r types.Recipe) string { return r.ID })
	if resultLimit >= 0 && len(merged) > resultLimit {
		merged = merged[:resultLimit]
	}
	slog.InfoContext(ctx, "aggregated featured recipes", "terms", picks, "count", len(merged))
	return a.enricher.All(merged)
}

// pick returns up to n terms in random order without repeats.
func (a *Aggregator) pick(terms []string, n int) []string {
	terms = lo.Filter(lo.Uniq(terms), func(t string, _ int) bool { return strings.TrimSpace(t) != "" })
	n = min(max(n, 0), len(terms))
	out := make([]string, 0, n)
	for _, idx := range a.shuffle.Perm(len(terms))[:n] {
		out = append(out, terms[idx])
	}
	return out
}

// FetchRandom returns nil when the service fails or sends nothing.
func (a *Aggregator) FetchRandom(ctx context.Context) *types.Recipe {
	r, err := a.source.Random(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "random recipe failed", "error", err)
		return nil
	}
	return r
}

func (a *Aggregator) Lookup(ctx context.Context, id string) (*types.Recipe, error) {
	return a.source.Lookup(ctx, id)
}
