package recipes

import (
	"bytes"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"recipefinder/internal/enrich"
	"recipefinder/internal/recipes/types"
	"recipefinder/internal/templates"
	"recipefinder/internal/theme"
)

const (
	noMatchMessage      = "No recipes found. Try other keywords."
	searchFailedMessage = "Could not reach the recipe service. Try again."
	randomFailedMessage = "Could not load a random recipe. Try again."
	unsavedNotice       = "Your change could not be saved and will be lost on restart."

	shareTagline = "Try it on Recipe Finder!"
	placeholder  = "—"
)

// Card is one entry in a result grid or the favorites panel.
type Card struct {
	ID        string
	Name      string
	Thumbnail string
	CookTime  string
	Favorited bool
}

func CardFor(e *enrich.Enriched, favorited bool) Card {
	return Card{
		ID:        e.ID,
		Name:      e.Name,
		Thumbnail: e.Thumbnail,
		CookTime:  e.CookTime(),
		Favorited: favorited,
	}
}

// Detail is the full recipe view.
type Detail struct {
	ID           string
	Name         string
	Thumbnail    string
	Category     string
	Area         string
	CookTime     string
	Ingredients  []string
	Instructions string
	Nutrition    types.Nutrition
	VideoURL     string
	Share        string
	Favorited    bool
}

// DetailFor builds the detail view. pageURL is the address of the recipe
// page, used by the share text when the record has no links of its own.
func DetailFor(e *enrich.Enriched, favorited bool, pageURL string) Detail {
	ingredients := make([]string, 0, len(e.Ingredients))
	for _, ing := range e.ListedIngredients() {
		ingredients = append(ingredients, ing.String())
	}
	return Detail{
		ID:           e.ID,
		Name:         e.Name,
		Thumbnail:    e.Thumbnail,
		Category:     orPlaceholder(e.Category),
		Area:         orPlaceholder(e.Area),
		CookTime:     e.CookTime(),
		Ingredients:  ingredients,
		Instructions: orPlaceholder(e.Instructions),
		Nutrition:    e.Nutrition(),
		VideoURL:     strings.TrimSpace(e.YouTube),
		Share:        ShareText(e, pageURL),
		Favorited:    favorited,
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// ShareText is the message a user copies to share a recipe: title, cook
// time, video link when there is one, a tagline, then ShareURL.
func ShareText(e *enrich.Enriched, pageURL string) string {
	var video string
	if yt := strings.TrimSpace(e.YouTube); yt != "" {
		video = "YouTube: " + yt
	}
	lines := []string{
		e.Name,
		"Cooking time: " + e.CookTime(),
		video,
		"",
		shareTagline,
		ShareURL(e, pageURL),
	}
	return strings.Join(lines, "\n")
}

// ShareURL prefers the recipe's source, then its video, then pageURL.
func ShareURL(e *enrich.Enriched, pageURL string) string {
	for _, u := range []string{e.Source, e.YouTube} {
		if u = strings.TrimSpace(u); u != "" {
			return u
		}
	}
	return pageURL
}

// Page carries the chrome every page shares.
type Page struct {
	Dark     bool
	FavCount int
	Notice   string
	Query    string
	Return   string
}

func newPage(t theme.Theme, favCount int, notice, query, ret string) Page {
	return Page{
		Dark:     t == theme.Dark,
		FavCount: favCount,
		Notice:   notice,
		Query:    query,
		Return:   ret,
	}
}

func FormatHomeHTML(w http.ResponseWriter, page Page, heading, message string, cards []Card) {
	data := struct {
		Page    Page
		Heading string
		Message string
		Cards   []Card
	}{
		Page:    page,
		Heading: heading,
		Message: message,
		Cards:   cards,
	}
	render(w, templates.Home, data)
}

func FormatRecipeHTML(w http.ResponseWriter, page Page, detail Detail) {
	data := struct {
		Page   Page
		Detail Detail
	}{
		Page:   page,
		Detail: detail,
	}
	render(w, templates.Recipe, data)
}

func FormatFavoritesHTML(w http.ResponseWriter, page Page, cards []Card) {
	data := struct {
		Page  Page
		Cards []Card
	}{
		Page:  page,
		Cards: cards,
	}
	render(w, templates.Favorites, data)
}

// render buffers the page; a failed execute writes only the error.
func render(w http.ResponseWriter, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("failed to render page", "template", tmpl.Name(), "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "template", tmpl.Name(), "error", err)
	}
}

func writeText(w http.ResponseWriter, text string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := io.WriteString(w, text)
	return err
}
