package mealplan

import (
	"testing"

	"meal-planner/internal/core/recipe"

	"github.com/stretchr/testify/assert"
)

func meal(calories, servings int, protein string) recipe.Recipe {
	return recipe.Recipe{
		Calories:  calories,
		Servings:  servings,
		Nutrition: recipe.Nutrition{Protein: protein, Carbs: "0g", Fat: "0g", Fiber: "0g"},
	}
}

func TestAggregateNutritionUsesPerServingValues(t *testing.T) {
	days := []Day{
		{Day: "Day 1", Meals: Meals{
			Breakfast: meal(300, 1, "10g"),
			Lunch:     meal(600, 2, "40g"),
			Dinner:    meal(900, 3, "30g"),
			Snacks:    []recipe.Recipe{meal(5000, 1, "500g")},
		}},
		{Day: "Day 2", Meals: Meals{
			Breakfast: meal(500, 0, "20g"),
			Lunch:     meal(700, 1, "35g"),
			Dinner:    meal(200, 1, "5g"),
		}},
	}

	total, average := AggregateNutrition(days)

	assert.Equal(t, NutritionSummary{Calories: "2300", Protein: "100g", Carbs: "0g", Fat: "0g"}, total)
	assert.Equal(t, NutritionSummary{Calories: "1150", Protein: "50g", Carbs: "0g", Fat: "0g"}, average)
}

func TestAggregateNutritionEmptyPlan(t *testing.T) {
	total, average := AggregateNutrition(nil)
	assert.Equal(t, "0", total.Calories)
	assert.Equal(t, "0g", average.Protein)
}

func TestScaleNutrition(t *testing.T) {
	n := recipe.Nutrition{Protein: "10g", Carbs: "25g", Fat: "7.5g", Fiber: "abc"}

	got := ScaleNutrition(n, 2, 4)
	assert.Equal(t, recipe.Nutrition{Protein: "5g", Carbs: "13g", Fat: "4g", Fiber: "abc"}, got)

	assert.Equal(t, n, ScaleNutrition(n, 0, 4))
	assert.Equal(t, "0g", ScaleNutrition(recipe.Nutrition{}, 2, 1).Protein)
}
