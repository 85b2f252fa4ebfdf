package recipes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"recipefinder/internal/config"
	"recipefinder/internal/enrich"
	"recipefinder/internal/favorites"
	"recipefinder/internal/mealdb"
	"recipefinder/internal/search"
	"recipefinder/internal/theme"
)

const noticeParam = "notice"

var titler = cases.Title(language.English)

// Server serves recipe browsing, favorites and theme pages.
type Server struct {
	agg      *search.Aggregator
	board    *search.Board
	enricher *enrich.Enricher
	favs     *favorites.Store
	theme    *theme.Store
	featured config.FeaturedConfig
}

// NewHandler returns the recipe browsing, favorites and theme endpoints.
func NewHandler(agg *search.Aggregator, board *search.Board, enricher *enrich.Enricher, favs *favorites.Store, th *theme.Store, featured config.FeaturedConfig) *Server {
	return &Server{
		agg:      agg,
		board:    board,
		enricher: enricher,
		favs:     favs,
		theme:    th,
		featured: featured,
	}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /featured", s.handleFeatured)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /random", s.handleRandom)
	mux.HandleFunc("GET /recipe/{id}", s.handleRecipe)
	mux.HandleFunc("GET /recipe/{id}/share", s.handleShare)
	mux.HandleFunc("GET /favorites", s.handleFavorites)
	mux.HandleFunc("POST /favorites", s.handleToggleFavorite)
	mux.HandleFunc("POST /favorites/{id}/remove", s.handleRemoveFavorite)
	mux.HandleFunc("POST /theme", s.handleTheme)
}

func (s *Server) page(r *http.Request, query string) Page {
	var notice string
	if r.URL.Query().Get(noticeParam) == "unsaved" {
		notice = unsavedNotice
	}
	return newPage(s.theme.Current(), s.favs.Count(), notice, query, r.URL.RequestURI())
}

func (s *Server) cards(list []*enrich.Enriched) []Card {
	return lo.Map(list, func(e *enrich.Enriched, _ int) Card {
		return CardFor(e, s.favs.IsFavorited(e.ID))
	})
}

func (s *Server) renderBoard(w http.ResponseWriter, r *http.Request, query string) {
	view, _ := s.board.Current()
	FormatHomeHTML(w, s.page(r, query), view.Heading, view.Message, s.cards(view.Recipes))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.board.Current(); !ok {
		s.loadFeatured(r.Context())
	}
	s.renderBoard(w, r, "")
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	s.loadFeatured(r.Context())
	s.renderBoard(w, r, "")
}

func (s *Server) loadFeatured(ctx context.Context) {
	gen := s.board.Begin()
	list := s.agg.AggregateFeatured(ctx, s.featured.Terms, s.featured.SampleSize, s.featured.ResultLimit)
	view := search.View{Heading: "Featured recipes", Outcome: search.Found, Recipes: list}
	if len(list) == 0 {
		view.Outcome = search.NoMatches
		view.Message = noMatchMessage
	}
	s.publish(ctx, gen, view)
}

func (s *Server) publish(ctx context.Context, gen uint64, view search.View) {
	if !s.board.Publish(gen, view) {
		slog.InfoContext(ctx, "dropping stale results", "generation", gen, "heading", view.Heading)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	gen := s.board.Begin()
	res := s.agg.Search(ctx, q)
	view := search.View{
		Heading: fmt.Sprintf("%s recipes", titler.String(q)),
		Outcome: res.Outcome,
	}
	switch res.Outcome {
	case search.Found:
		view.Recipes = s.enricher.All(res.Recipes)
	case search.NoMatches:
		view.Message = noMatchMessage
	case search.Failed:
		view.Message = searchFailedMessage
	}
	slog.InfoContext(ctx, "searched recipes", "q", q, "outcome", res.Outcome.String(), "count", len(view.Recipes))
	s.publish(ctx, gen, view)
	s.renderBoard(w, r, q)
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	gen := s.board.Begin()
	view := search.View{Heading: "Random recipe", Outcome: search.Found}
	if rec := s.agg.FetchRandom(ctx); rec != nil {
		view.Recipes = []*enrich.Enriched{s.enricher.Enrich(*rec)}
	} else {
		view.Outcome = search.Failed
		view.Message = randomFailedMessage
	}
	s.publish(ctx, gen, view)
	s.renderBoard(w, r, "")
}

var errRecipeNotFound = errors.New("recipe not found")

// resolve finds the record for id. The listed record wins so cards and the
// detail view agree; a looked-up favorite keeps its saved cook time and
// nutrition; a favorite snapshot stands in when the service is unreachable.
func (s *Server) resolve(ctx context.Context, id string) (*enrich.Enriched, error) {
	if e, ok := s.board.Find(id); ok {
		return e, nil
	}
	entry, favorited := s.favs.Get(id)

	rec, err := s.agg.Lookup(ctx, id)
	if err == nil {
		var e *enrich.Enriched
		if favorited {
			e = s.enricher.Ensure(enrich.Restore(*rec, entry.CookTime, entry.Nutrition))
		} else {
			e = s.enricher.Enrich(*rec)
		}
		s.board.Pin(e)
		return e, nil
	}
	if favorited {
		slog.WarnContext(ctx, "using saved favorite for recipe", "id", id, "error", err)
		return entry.Recipe(), nil
	}
	if errors.Is(err, mealdb.ErrNotFound) {
		return nil, errRecipeNotFound
	}
	return nil, err
}

func (s *Server) resolveOrError(w http.ResponseWriter, r *http.Request) (*enrich.Enriched, bool) {
	ctx := r.Context()
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "missing recipe id", http.StatusBadRequest)
		return nil, false
	}
	e, err := s.resolve(ctx, id)
	if err != nil {
		if errors.Is(err, errRecipeNotFound) {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return nil, false
		}
		slog.ErrorContext(ctx, "failed to load recipe", "id", id, "error", err)
		http.Error(w, searchFailedMessage, http.StatusBadGateway)
		return nil, false
	}
	return e, true
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	e, ok := s.resolveOrError(w, r)
	if !ok {
		return
	}
	detail := DetailFor(e, s.favs.IsFavorited(e.ID), pageURL(r, e.ID))
	FormatRecipeHTML(w, s.page(r, ""), detail)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	e, ok := s.resolveOrError(w, r)
	if !ok {
		return
	}
	if err := writeText(w, ShareText(e, pageURL(r, e.ID))); err != nil {
		slog.ErrorContext(r.Context(), "failed to write share text", "id", e.ID, "error", err)
	}
}

func pageURL(r *http.Request, id string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd == "https" || fwd == "http" {
		scheme = fwd
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: "/recipe/" + id}
	return u.String()
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	cards := lo.Map(s.favs.List(), func(entry favorites.Entry, _ int) Card {
		return CardFor(entry.Recipe(), true)
	})
	FormatFavoritesHTML(w, s.page(r, ""), cards)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := strings.TrimSpace(r.PostForm.Get("id"))
	if id == "" {
		http.Error(w, "missing recipe id", http.StatusBadRequest)
		return
	}

	e, err := s.toggleTarget(ctx, id)
	if err != nil {
		if errors.Is(err, errRecipeNotFound) {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "failed to load recipe to favorite", "id", id, "error", err)
		http.Error(w, searchFailedMessage, http.StatusBadGateway)
		return
	}
	saved, err := s.favs.Toggle(ctx, e)
	slog.InfoContext(ctx, "toggled favorite", "id", id, "saved", saved)
	s.redirectBack(w, r, err)
}

// toggleTarget is the record a toggle acts on. A saved id only needs its
// snapshot; anything else is resolved so it can be added.
func (s *Server) toggleTarget(ctx context.Context, id string) (*enrich.Enriched, error) {
	if entry, ok := s.favs.Get(id); ok {
		return entry.Recipe(), nil
	}
	return s.resolve(ctx, id)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "missing recipe id", http.StatusBadRequest)
		return
	}
	s.redirectBack(w, r, s.favs.Remove(r.Context(), id))
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	next, err := s.theme.Toggle(r.Context())
	slog.InfoContext(r.Context(), "toggled theme", "theme", string(next))
	s.redirectBack(w, r, err)
}

// redirectBack returns the user to the page they acted from. A failed save
// still redirects, carrying a notice for that page.
func (s *Server) redirectBack(w http.ResponseWriter, r *http.Request, saveErr error) {
	target := returnPath(r.FormValue("return"))
	if saveErr != nil {
		slog.ErrorContext(r.Context(), "preference change not saved", "error", saveErr)
		target = withNotice(target)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// returnPath accepts only paths on this site.
func returnPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	q := u.Query()
	q.Del(noticeParam)
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.RequestURI()
}

func withNotice(path string) string {
	u, err := url.Parse(path)
	if err != nil {
		return "/?" + noticeParam + "=unsaved"
	}
	q := u.Query()
	q.Set(noticeParam, "unsaved")
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
