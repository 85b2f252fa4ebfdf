package templates

import (
	"embed"
	"errors"
	"html/template"
)

//go:embed *.html
var htmlFiles embed.FS

var Home,
	Recipe,
	Favorites *template.Template

// Init parses the embedded pages. stylesheetPath is where the stylesheet is
// served from.
func Init(stylesheetPath string) error {
	funcs := template.FuncMap{
		"dict":           dict,
		"StylesheetPath": func() string { return stylesheetPath },
	}
	tmpls, err := template.New("all").Funcs(funcs).ParseFS(htmlFiles, "*.html")
	if err != nil {
		return err
	}
	Home = ensure(tmpls, "home.html")
	Recipe = ensure(tmpls, "recipe.html")
	Favorites = ensure(tmpls, "favorites.html")
	return nil
}

func ensure(templates *template.Template, name string) *template.Template {
	tmpl := templates.Lookup(name)
	if tmpl == nil {
		panic("template " + name + " not found")
	}
	return tmpl
}

// dict builds a map from alternating keys and values so partials can take
// more than one argument.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict needs an even number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, errors.New("dict keys must be strings")
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
