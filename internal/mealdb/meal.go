package mealdb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"recipefinder/internal/recipes/types"
)

// ErrMalformed means the service answered with something that is not a meal
// list.
var ErrMalformed = errors.New("malformed meal response")

// ParseMeals decodes a {"meals": [...]} document. {"meals": null} is the
// service's way of saying nothing matched and decodes to an empty slice.
func ParseMeals(body []byte) ([]types.Recipe, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	meals := gjson.GetBytes(body, "meals")
	switch {
	case !meals.Exists():
		return nil, fmt.Errorf("%w: no meals field", ErrMalformed)
	case meals.Type == gjson.Null:
		return []types.Recipe{}, nil
	case !meals.IsArray():
		return nil, fmt.Errorf("%w: meals is %s", ErrMalformed, meals.Type)
	}

	items := meals.Array()
	out := make([]types.Recipe, 0, len(items))
	for i, m := range items {
		if !m.IsObject() {
			return nil, fmt.Errorf("%w: meal %d is %s", ErrMalformed, i, m.Type)
		}
		r := parseMeal(m)
		if r.ID == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func parseMeal(m gjson.Result) types.Recipe {
	r := types.Recipe{
		ID:           strings.TrimSpace(m.Get("idMeal").String()),
		Name:         m.Get("strMeal").String(),
		Thumbnail:    m.Get("strMealThumb").String(),
		Category:     m.Get("strCategory").String(),
		Area:         m.Get("strArea").String(),
		Instructions: m.Get("strInstructions").String(),
		YouTube:      strings.TrimSpace(m.Get("strYoutube").String()),
		Source:       strings.TrimSpace(m.Get("strSource").String()),
	}
	for i := 1; i <= types.MaxIngredients; i++ {
		name := m.Get(fmt.Sprintf("strIngredient%d", i)).String()
		measure := m.Get(fmt.Sprintf("strMeasure%d", i)).String()
		if strings.TrimSpace(name) == "" && strings.TrimSpace(measure) == "" {
			continue
		}
		r.Ingredients = append(r.Ingredients, types.Ingredient{
			Name:    strings.TrimSpace(name),
			Measure: strings.TrimSpace(measure),
		})
	}
	return r
}
