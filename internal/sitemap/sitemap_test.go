package sitemap

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipefinder/internal/favorites"
)

type fixedList []favorites.Entry

func (f fixedList) List() []favorites.Entry { return f }

func TestHandleSitemapListsFavoritedRecipes(t *testing.T) {
	server := New(fixedList{
		{ID: "52772", Name: "Teriyaki Chicken Casserole", SavedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "52959", Name: "Baked salmon"},
	})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://recipes.example/sitemap.xml", nil)
	server.handleSitemap(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); !strings.Contains(got, "application/xml") {
		t.Fatalf("expected XML content type, got %q", got)
	}

	var parsed urlSet
	if err := xml.Unmarshal(rr.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("expected valid XML sitemap, got error: %v\nbody: %s", err, rr.Body.String())
	}

	want := []urlEntry{
		{Loc: "http://recipes.example/"},
		{Loc: "http://recipes.example/favorites"},
		{Loc: "http://recipes.example/recipe/52772", LastMod: "2026-10-01"},
		{Loc: "http://recipes.example/recipe/52959"},
	}
	if len(parsed.URLs) != len(want) {
		t.Fatalf("expected %d sitemap urls, got %d: %s", len(want), len(parsed.URLs), rr.Body.String())
	}
	for i, w := range want {
		if parsed.URLs[i] != w {
			t.Fatalf("url %d: got %+v want %+v", i, parsed.URLs[i], w)
		}
	}
}

func TestHandleRobotsPointsAtSitemap(t *testing.T) {
	server := New(fixedList{})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://recipes.example/robots.txt", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	server.handleRobots(rr, req)

	if !strings.Contains(rr.Body.String(), "Sitemap: https://recipes.example/sitemap.xml") {
		t.Fatalf("robots.txt missing sitemap line: %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Disallow: /search") {
		t.Fatalf("robots.txt should keep crawlers off search: %s", rr.Body.String())
	}
}
