package types

import (
	"fmt"
	"strings"
)

// MaxIngredients is how many ingredient/measure pairs a record can carry.
const MaxIngredients = 20

type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

// String renders "name — measure"; the measure may be blank.
func (i Ingredient) String() string {
	return fmt.Sprintf("%s — %s", strings.TrimSpace(i.Name), strings.TrimSpace(i.Measure))
}

// Recipe is a record as returned by the recipe source. Fields are copied
// verbatim; nothing here is generated locally.
type Recipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Thumbnail    string       `json:"thumbnail"`
	Category     string       `json:"category,omitempty"`
	Area         string       `json:"area,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	Ingredients  []Ingredient `json:"ingredients,omitempty"`
	YouTube      string       `json:"youtube,omitempty"`
	Source       string       `json:"source,omitempty"`
}

// ListedIngredients drops pairs whose name is blank.
func (r Recipe) ListedIngredients() []Ingredient {
	out := make([]Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		out = append(out, ing)
	}
	return out
}

type Nutrition struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Fat      int `json:"fat"`
	Carbs    int `json:"carbs"`
}

// IsZero reports whether no nutrition has been attached. Generated values
// are never all zero.
func (n Nutrition) IsZero() bool {
	return n == Nutrition{}
}
