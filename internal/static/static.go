package static

import (
	"crypto/sha256"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
)

//go:embed app.css
var appCSS []byte

// StylesheetPath carries a content hash so the stylesheet can be cached forever.
var StylesheetPath string

func Init() {
	hash := fmt.Sprintf("%x", sha256.Sum256(appCSS))
	StylesheetPath = fmt.Sprintf("/static/app.%s.css", hash[:12])
}

// Register serves static assets. Init must run first.
func Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+StylesheetPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		if _, err := w.Write(appCSS); err != nil {
			slog.ErrorContext(r.Context(), "failed to write stylesheet", "error", err)
		}
	})

	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}
