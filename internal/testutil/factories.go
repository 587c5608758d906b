// Package testutil 提供測試用的資料工廠
package testutil

import (
	"fmt"
	"strings"

	"meal-planner/internal/core/recipe"

	"github.com/brianvoe/gofakeit/v6"
)

var units = []string{"cup", "cups", "tbsp", "tsp", "g", "oz", "lb"}

// RecipeFactory 以固定種子產生可重現的食譜
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory 創建食譜工廠
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Raw 產生一筆原始格式的食譜
func (f *RecipeFactory) Raw() recipe.RawRecipe {
	n := f.faker.Number(2, 5)
	ingredients := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		ingredients = append(ingredients, fmt.Sprintf("%d %s %s",
			f.faker.Number(1, 4),
			f.faker.RandomString(units),
			strings.ToLower(f.faker.Vegetable()),
		))
	}

	return recipe.RawRecipe{
		ID:           f.faker.UUID(),
		Title:        f.faker.Dinner(),
		Description:  f.faker.Sentence(8),
		TotalTime:    f.faker.Number(10, 90),
		Calories:     f.faker.Number(150, 900),
		Servings:     f.faker.Number(1, 6),
		Ingredients:  ingredients,
		Instructions: []interface{}{"prepare the " + strings.ToLower(f.faker.Fruit()), "cook and serve"},
		Nutrition:    map[string]any{"protein": fmt.Sprintf("%dg", f.faker.Number(5, 40))},
		Tags:         []string{f.faker.RandomString([]string{"Breakfast", "Lunch", "Dinner", "Snack"})},
	}
}

// Recipe 產生一筆正規化後的食譜
func (f *RecipeFactory) Recipe() recipe.Recipe {
	return recipe.Normalize(f.Raw())
}

// Pool 產生 n 筆 ID 不重複的食譜
func (f *RecipeFactory) Pool(n int) []recipe.Recipe {
	pool := make([]recipe.Recipe, n)
	for i := range pool {
		pool[i] = f.Recipe()
	}
	return pool
}

// WithIngredients 產生指定食材與份量的食譜
func (f *RecipeFactory) WithIngredients(servings int, ingredients ...string) recipe.Recipe {
	r := f.Recipe()
	r.Servings = servings
	r.Ingredients = append([]string{}, ingredients...)
	return r
}
