package sitemap

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"recipefinder/internal/favorites"
)

// lister is the part of the favorites store the sitemap reads.
type lister interface {
	List() []favorites.Entry
}

type Server struct {
	favorites lister
}

const robots = `# Allow all search engines to crawl the site
User-agent: *
Allow: /
Disallow: /search
Disallow: /random

# Sitemap location
Sitemap: %s/sitemap.xml
`

func New(l lister) *Server {
	return &Server{favorites: l}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)
	mux.HandleFunc("GET /robots.txt", s.handleRobots)
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// origin is scheme://host of the request, honoring a proxy's forwarded scheme.
func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd == "https" || fwd == "http" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}

// handleSitemap lists the browse pages plus every favorited recipe, which
// are the only recipe pages this instance knows to be worth revisiting.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	base := origin(r)
	saved := s.favorites.List()
	entries := make([]urlEntry, 0, len(saved)+2)
	entries = append(entries, urlEntry{Loc: base + "/"}, urlEntry{Loc: base + "/favorites"})
	for _, e := range saved {
		entry := urlEntry{Loc: base + "/recipe/" + url.PathEscape(e.ID)}
		if !e.SavedAt.IsZero() {
			entry.LastMod = e.SavedAt.UTC().Format("2006-01-02")
		}
		entries = append(entries, entry)
	}
	slog.InfoContext(r.Context(), "serving sitemap", "count", len(entries))

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		slog.ErrorContext(r.Context(), "failed to write sitemap header", "error", err)
		return
	}
	if err := xml.NewEncoder(w).Encode(urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  entries,
	}); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode sitemap", "error", err)
	}
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := fmt.Fprintf(w, robots, origin(r)); err != nil {
		slog.ErrorContext(r.Context(), "failed to write robots.txt", "error", err)
	}
}
