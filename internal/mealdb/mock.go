package mealdb

import (
	"context"
	"strings"

	"recipefinder/internal/recipes/types"
)

// Mock is an offline stand-in for the recipe API with a fixed catalog.
type Mock struct {
	Meals []types.Recipe
}

func NewMock() *Mock {
	return &Mock{Meals: mockMeals}
}

func (m *Mock) Search(_ context.Context, term string) ([]types.Recipe, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	out := []types.Recipe{}
	for _, meal := range m.Meals {
		if strings.Contains(strings.ToLower(meal.Name), term) || strings.EqualFold(meal.Category, term) {
			out = append(out, meal)
		}
	}
	return out, nil
}

// Random always picks the first meal so pages are reproducible.
func (m *Mock) Random(_ context.Context) (*types.Recipe, error) {
	if len(m.Meals) == 0 {
		return nil, nil
	}
	meal := m.Meals[0]
	return &meal, nil
}

func (m *Mock) Lookup(_ context.Context, id string) (*types.Recipe, error) {
	for _, meal := range m.Meals {
		if meal.ID == id {
			return &meal, nil
		}
	}
	return nil, ErrNotFound
}

var mockMeals = []types.Recipe{
	{
		ID:           "52772",
		Name:         "Teriyaki Chicken Casserole",
		Thumbnail:    "https://www.themealdb.com/images/media/meals/wvpsxx1468256321.jpg",
		Category:     "Chicken",
		Area:         "Japanese",
		Instructions: "Preheat oven to 350F. Combine soy sauce, water, brown sugar, ginger and garlic in a saucepan and simmer. Bake the chicken with the sauce and vegetables for 35 minutes.",
		Ingredients: []types.Ingredient{
			{Name: "soy sauce", Measure: "3/4 cup"},
			{Name: "water", Measure: "1/2 cup"},
			{Name: "brown sugar", Measure: "1/4 cup"},
			{Name: "chicken breasts", Measure: "2"},
			{Name: "stir-fry vegetables", Measure: "1 (12 oz.)"},
			{Name: "brown rice", Measure: "3 cups"},
		},
		YouTube: "https://www.youtube.com/watch?v=4aZr5hZXP_s",
	},
	{
		ID:           "52959",
		Name:         "Baked salmon with fennel & tomatoes",
		Thumbnail:    "https://www.themealdb.com/images/media/meals/1548772327.jpg",
		Category:     "Seafood",
		Area:         "British",
		Instructions: "Heat oven to 180C. Trim the fennel and roast with the tomatoes, then lay the salmon on top and bake for 15 minutes.",
		Ingredients: []types.Ingredient{
			{Name: "Fennel", Measure: "2 medium"},
			{Name: "Parsley", Measure: "2 tbs chopped"},
			{Name: "Lemon", Measure: "Juice of 1"},
			{Name: "Cherry Tomatoes", Measure: "175g"},
			{Name: "Olive Oil", Measure: "1 tbs"},
			{Name: "Salmon", Measure: "350g"},
		},
		Source: "https://www.bbcgoodfood.com/recipes/7745/baked-salmon-with-fennel-and-tomatoes",
	},
	{
		ID:           "52982",
		Name:         "Spaghetti alla Carbonara",
		Thumbnail:    "https://www.themealdb.com/images/media/meals/llcbn01574260722.jpg",
		Category:     "Pasta",
		Area:         "Italian",
		Instructions: "Boil the spaghetti. Fry the pancetta, whisk eggs with cheese, and toss everything off the heat.",
		Ingredients: []types.Ingredient{
			{Name: "Spaghetti", Measure: "320g"},
			{Name: "Egg Yolks", Measure: "6"},
			{Name: "Salt", Measure: "As required"},
			{Name: "Bacon", Measure: "150g"},
			{Name: "Pecorino", Measure: "50g"},
			{Name: "Black Pepper", Measure: "to taste"},
		},
		YouTube: "https://www.youtube.com/watch?v=_T6jkRvUDKk",
	},
	{
		ID:           "52874",
		Name:         "Beef and Mustard Pie",
		Thumbnail:    "https://www.themealdb.com/images/media/meals/sytuqu1511553755.jpg",
		Category:     "Beef",
		Area:         "British",
		Instructions: "Brown the beef, add mustard and stock, simmer until tender, then top with pastry and bake.",
		Ingredients: []types.Ingredient{
			{Name: "Beef", Measure: "1kg"},
			{Name: "Plain Flour", Measure: "2 tbs"},
			{Name: "Dijon Mustard", Measure: "2 tbsp"},
			{Name: "Beef Stock", Measure: "500ml"},
			{Name: "Puff Pastry", Measure: "400g"},
		},
	},
	{
		ID:           "52893",
		Name:         "Apple & Blackberry Crumble",
		Thumbnail:    "https://www.themealdb.com/images/media/meals/xvsurr1511719182.jpg",
		Category:     "Dessert",
		Area:         "British",
		Instructions: "Cook the apples with sugar, add blackberries, cover with crumble and bake until golden.",
		Ingredients: []types.Ingredient{
			{Name: "Plain Flour", Measure: "120g"},
			{Name: "Caster Sugar", Measure: "60g"},
			{Name: "Butter", Measure: "60g"},
			{Name: "Braeburn Apples", Measure: "300g"},
			{Name: "Blackberries", Measure: "120g"},
		},
	},
}
