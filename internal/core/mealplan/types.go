// Package mealplan 餐點計畫的生成、營養彙總與生命週期
package mealplan

import (
	"time"

	"meal-planner/internal/core/recipe"
)

// MealsPerDay 每天必要的餐數（早餐、午餐、晚餐）
const MealsPerDay = 3

// 計畫來源
const (
	SourceLocal = "local"
	SourceAI    = "ai"
)

// Meals 一天的餐點，必要餐別各一道食譜，點心可有多道
type Meals struct {
	Breakfast recipe.Recipe   `json:"breakfast"`
	Lunch     recipe.Recipe   `json:"lunch"`
	Dinner    recipe.Recipe   `json:"dinner"`
	Snacks    []recipe.Recipe `json:"snacks"`
}

// Day 計畫中的一天
type Day struct {
	Day   string `json:"day"`
	Meals Meals  `json:"meals"`
}

// NutritionSummary 營養摘要，熱量不帶單位，其餘帶 "g"
type NutritionSummary struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// Feedback 使用者回饋與完成進度
type Feedback struct {
	Rating         int    `json:"rating"`
	Comments       string `json:"comments"`
	CompletedMeals int    `json:"completed_meals"`
	TotalMeals     int    `json:"total_meals"`
}

// MealPlan 餐點計畫，內嵌的食譜為值拷貝
type MealPlan struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Days           []Day             `json:"days"`
	NutritionGoals NutritionSummary  `json:"nutrition_goals"`
	TotalNutrition *NutritionSummary `json:"total_nutrition,omitempty"`
	StartDate      *time.Time        `json:"start_date,omitempty"`
	Feedback       *Feedback         `json:"feedback,omitempty"`
	Source         string            `json:"source"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Clone 深拷貝計畫
func (p MealPlan) Clone() MealPlan {
	c := p
	c.Days = make([]Day, len(p.Days))
	for i, day := range p.Days {
		c.Days[i] = Day{
			Day: day.Day,
			Meals: Meals{
				Breakfast: day.Meals.Breakfast.Clone(),
				Lunch:     day.Meals.Lunch.Clone(),
				Dinner:    day.Meals.Dinner.Clone(),
				Snacks:    make([]recipe.Recipe, len(day.Meals.Snacks)),
			},
		}
		for j, snack := range day.Meals.Snacks {
			c.Days[i].Meals.Snacks[j] = snack.Clone()
		}
	}
	if p.TotalNutrition != nil {
		total := *p.TotalNutrition
		c.TotalNutrition = &total
	}
	if p.StartDate != nil {
		start := *p.StartDate
		c.StartDate = &start
	}
	if p.Feedback != nil {
		feedback := *p.Feedback
		c.Feedback = &feedback
	}
	return c
}

// Recipes 依序回傳計畫中所有食譜（含點心）
func (p MealPlan) Recipes() []recipe.Recipe {
	var out []recipe.Recipe
	for _, day := range p.Days {
		out = append(out, day.Meals.Breakfast, day.Meals.Lunch, day.Meals.Dinner)
		out = append(out, day.Meals.Snacks...)
	}
	return out
}

// NutritionTargets 每日營養目標
type NutritionTargets struct {
	Calories int `json:"calories" validate:"gte=0"`
	Protein  int `json:"protein" validate:"gte=0"`
	Carbs    int `json:"carbs" validate:"gte=0"`
	Fat      int `json:"fat" validate:"gte=0"`
}

// DefaultNutritionTargets 未指定時的每日營養目標
var DefaultNutritionTargets = NutritionTargets{Calories: 2000, Protein: 100, Carbs: 250, Fat: 70}

// GenerateRequest 生成計畫的請求
type GenerateRequest struct {
	Days           int               `json:"days" validate:"gte=1"`
	Preferences    []string          `json:"preferences"`
	FamilySize     int               `json:"family_size" validate:"gte=0"`
	NutritionGoals *NutritionTargets `json:"nutrition_goals,omitempty"`
	UseAI          bool              `json:"use_ai"`
}
