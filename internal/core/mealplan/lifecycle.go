package mealplan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"
)

// 餐別代號，點心以 "snack:N" 指定第 N 道（從 0 起算）
const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotDinner    = "dinner"
	slotSnack     = "snack:"
)

// SetMealStatus 更新指定餐點狀態，回傳更新後的副本並重算完成數
func SetMealStatus(plan MealPlan, dayIndex int, slot string, status recipe.MealStatus) (MealPlan, error) {
	if status != recipe.StatusPending && status != recipe.StatusCompleted {
		return plan, common.NewValidationError(fmt.Sprintf("invalid meal status %q", status))
	}
	if dayIndex < 0 || dayIndex >= len(plan.Days) {
		return plan, common.NewValidationError(fmt.Sprintf("day index %d out of range", dayIndex))
	}

	updated := plan.Clone()
	meals := &updated.Days[dayIndex].Meals

	slot = strings.ToLower(strings.TrimSpace(slot))
	switch {
	case slot == SlotBreakfast:
		meals.Breakfast.Status = status
	case slot == SlotLunch:
		meals.Lunch.Status = status
	case slot == SlotDinner:
		meals.Dinner.Status = status
	case strings.HasPrefix(slot, slotSnack):
		i, err := strconv.Atoi(strings.TrimPrefix(slot, slotSnack))
		if err != nil || i < 0 || i >= len(meals.Snacks) {
			return plan, common.NewValidationError(fmt.Sprintf("invalid snack slot %q", slot))
		}
		meals.Snacks[i].Status = status
	default:
		return plan, common.NewValidationError(fmt.Sprintf("invalid meal slot %q", slot))
	}

	if updated.Feedback == nil {
		updated.Feedback = &Feedback{}
	}
	updated.Feedback.CompletedMeals = completedRequired(updated)
	updated.Feedback.TotalMeals = len(updated.Days) * MealsPerDay
	return updated, nil
}

// AllRequiredCompleted 是否所有必要餐點皆已完成
func AllRequiredCompleted(plan MealPlan) bool {
	if len(plan.Days) == 0 {
		return false
	}
	return completedRequired(plan) == len(plan.Days)*MealsPerDay
}

// ContinuePlan 複製計畫開始新一輪：新 ID、起始日為 now，所有餐點重設為 pending
func ContinuePlan(plan MealPlan, now time.Time, newID string) MealPlan {
	next := plan.Clone()
	next.ID = newID
	start := now
	next.StartDate = &start
	next.CreatedAt = now

	for i := range next.Days {
		meals := &next.Days[i].Meals
		meals.Breakfast.Status = recipe.StatusPending
		meals.Lunch.Status = recipe.StatusPending
		meals.Dinner.Status = recipe.StatusPending
		for j := range meals.Snacks {
			meals.Snacks[j].Status = recipe.StatusPending
		}
	}

	next.Feedback = &Feedback{
		Rating:         0,
		Comments:       "",
		CompletedMeals: 0,
		TotalMeals:     len(next.Days) * MealsPerDay,
	}
	return next
}

func completedRequired(plan MealPlan) int {
	n := 0
	for _, day := range plan.Days {
		for _, meal := range []recipe.Recipe{day.Meals.Breakfast, day.Meals.Lunch, day.Meals.Dinner} {
			if meal.Status == recipe.StatusCompleted {
				n++
			}
		}
	}
	return n
}
