package mealplan

import (
	"math"
	"strconv"
	"strings"

	"meal-planner/internal/core/recipe"
)

type macroTotals struct {
	calories float64
	protein  float64
	carbs    float64
	fat      float64
}

func (t macroTotals) add(o macroTotals) macroTotals {
	return macroTotals{
		calories: t.calories + o.calories,
		protein:  t.protein + o.protein,
		carbs:    t.carbs + o.carbs,
		fat:      t.fat + o.fat,
	}
}

// perServing 每份營養值，份量小於 1 時視為 1
func perServing(r recipe.Recipe) macroTotals {
	servings := float64(r.Servings)
	if servings < 1 {
		servings = 1
	}
	return macroTotals{
		calories: float64(r.Calories) / servings,
		protein:  recipe.ParseGrams(r.Nutrition.Protein) / servings,
		carbs:    recipe.ParseGrams(r.Nutrition.Carbs) / servings,
		fat:      recipe.ParseGrams(r.Nutrition.Fat) / servings,
	}
}

// AggregateNutrition 加總計畫中必要餐點的每份營養值，並計算每日平均
func AggregateNutrition(days []Day) (total, average NutritionSummary) {
	var sum macroTotals
	for _, day := range days {
		sum = sum.add(perServing(day.Meals.Breakfast))
		sum = sum.add(perServing(day.Meals.Lunch))
		sum = sum.add(perServing(day.Meals.Dinner))
	}

	total = summarize(sum, 1)
	if len(days) == 0 {
		return total, summarize(macroTotals{}, 1)
	}
	return total, summarize(sum, float64(len(days)))
}

// ApplyNutrition 重新計算計畫的總營養與每日目標
func ApplyNutrition(plan *MealPlan) {
	total, average := AggregateNutrition(plan.Days)
	plan.TotalNutrition = &total
	plan.NutritionGoals = average
}

func summarize(t macroTotals, divisor float64) NutritionSummary {
	return NutritionSummary{
		Calories: strconv.Itoa(int(math.Round(t.calories / divisor))),
		Protein:  strconv.Itoa(int(math.Round(t.protein/divisor))) + "g",
		Carbs:    strconv.Itoa(int(math.Round(t.carbs/divisor))) + "g",
		Fat:      strconv.Itoa(int(math.Round(t.fat/divisor))) + "g",
	}
}

// ScaleNutrition 依份量比例調整營養值；無法解析的值原樣保留
func ScaleNutrition(n recipe.Nutrition, target, native int) recipe.Nutrition {
	if target <= 0 || native <= 0 {
		return n
	}
	ratio := float64(target) / float64(native)
	return recipe.Nutrition{
		Protein: scaleGrams(n.Protein, ratio),
		Carbs:   scaleGrams(n.Carbs, ratio),
		Fat:     scaleGrams(n.Fat, ratio),
		Fiber:   scaleGrams(n.Fiber, ratio),
	}
}

func scaleGrams(value string, ratio float64) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "0g"
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(value, "g")), 64)
	if err != nil {
		return value
	}
	return strconv.Itoa(int(math.Round(v*ratio))) + "g"
}
