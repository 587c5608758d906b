package mealplan

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aiResponse = "Here is your plan:\n```json\n" + `{
  "title": "Mediterranean Week",
  "description": "Fresh and light",
  "days": [
    {"day": "Monday", "meals": {
      "breakfast": {"title": "greek yogurt bowl", "calories": 300, "servings": 1, "ingredients": ["1 cup yogurt"], "nutrition": {"protein": "20g"}},
      "lunch": {"title": "Falafel Wrap", "calories": 600, "servings": 2, "ingredients": ["4 falafel"]},
      "dinner": {"title": "Baked Cod", "calories": 450, "servings": 1, "ingredients": ["1 lb cod"], "prep_time": 25},
      "snacks": [{"title": "Almonds", "calories": 150}]
    }},
    {"breakfast": {"title": "Oats"}, "lunch": {"title": "Salad"}, "dinner": {"title": "Soup"}}
  ]
}` + "\n```"

func fixedIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestParsePlanDocument(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	plan, err := ParsePlanDocument(aiResponse, 2, now, fixedIDs())
	require.NoError(t, err)

	assert.Equal(t, "Mediterranean Week", plan.Title)
	assert.Equal(t, SourceAI, plan.Source)
	assert.Equal(t, now, plan.CreatedAt)
	require.Len(t, plan.Days, 2)

	monday := plan.Days[0]
	assert.Equal(t, "Monday", monday.Day)
	assert.Equal(t, "greek yogurt bowl", monday.Meals.Breakfast.Title)
	assert.Equal(t, recipe.StatusPending, monday.Meals.Breakfast.Status)
	assert.NotEmpty(t, monday.Meals.Breakfast.ID)
	assert.Equal(t, "25m", monday.Meals.Dinner.Time)
	require.Len(t, monday.Meals.Snacks, 1)

	assert.Equal(t, "Day 2", plan.Days[1].Day)
	assert.Equal(t, "Soup", plan.Days[1].Meals.Dinner.Title)
	assert.Equal(t, recipe.DefaultServings, plan.Days[1].Meals.Dinner.Servings)

	assert.Equal(t, "1050", plan.TotalNutrition.Calories)
	assert.Equal(t, 6, plan.Feedback.TotalMeals)
}

func TestParsePlanDocumentTrimsExtraDays(t *testing.T) {
	plan, err := ParsePlanDocument(aiResponse, 1, time.Now(), fixedIDs())
	require.NoError(t, err)
	assert.Len(t, plan.Days, 1)
}

func TestParsePlanDocumentAcceptsUnquotedKeys(t *testing.T) {
	content := `{title: "Quick Week", description: "d", days: [{meals: {breakfast: {title: "Oats"}, lunch: {title: "Salad"}, dinner: {title: "Soup", calories: 400}}}]}`

	plan, err := ParsePlanDocument(content, 1, time.Now(), fixedIDs())
	require.NoError(t, err)
	assert.Equal(t, "Quick Week", plan.Title)
	assert.Equal(t, "Soup", plan.Days[0].Meals.Dinner.Title)
	assert.Equal(t, 400, plan.Days[0].Meals.Dinner.Calories)
}

func TestParsePlanDocumentRejectsInvalidPlans(t *testing.T) {
	cases := map[string]string{
		"no json":         "I cannot help with that.",
		"broken json":     `{"title": "x", "days": [}`,
		"missing title":   `{"description": "d", "days": [{"meals": {"breakfast": {}, "lunch": {}, "dinner": {}}}]}`,
		"no days":         `{"title": "t", "description": "d", "days": []}`,
		"missing dinner":  `{"title": "t", "description": "d", "days": [{"meals": {"breakfast": {}, "lunch": {}}}]}`,
		"too few days":    `{"title": "t", "description": "d", "days": [{"meals": {"breakfast": {}, "lunch": {}, "dinner": {}}}]}`,
		"missing summary": `{"title": "t", "days": [{"meals": {"breakfast": {}, "lunch": {}, "dinner": {}}}]}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			days := 1
			if name == "too few days" {
				days = 2
			}
			_, err := ParsePlanDocument(content, days, time.Now(), fixedIDs())
			assert.ErrorIs(t, err, common.ErrInvalidAIPlan)
		})
	}
}

func TestPlanPrompt(t *testing.T) {
	prompt := PlanPrompt(GenerateRequest{Days: 3, FamilySize: 4, Preferences: []string{"Vegetarian", "Quick"}})
	assert.Contains(t, prompt, "3-day meal plan for a family of 4")
	assert.Contains(t, prompt, "Vegetarian, Quick")
	assert.Contains(t, prompt, "Protein: 100g")

	custom := PlanPrompt(GenerateRequest{Days: 1, NutritionGoals: &NutritionTargets{Calories: 1800}})
	assert.Contains(t, custom, "family of 1")
	assert.Contains(t, custom, "Calories: 1800")
}

type stubGenerator struct {
	content string
	err     error
	prompts []string
}

func (s *stubGenerator) GenerateChecked(_ context.Context, _ string, prompt string, accept func(string) error) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if err := accept(s.content); err != nil {
		return "", err
	}
	return s.content, nil
}

func TestAIPlanner(t *testing.T) {
	gen := &stubGenerator{content: aiResponse}
	planner := NewAIPlanner(gen)

	plan, err := planner.Plan(context.Background(), GenerateRequest{Days: 2})
	require.NoError(t, err)
	assert.Equal(t, SourceAI, plan.Source)
	assert.Len(t, gen.prompts, 1)

	gen.err = errors.New("provider down")
	_, err = planner.Plan(context.Background(), GenerateRequest{Days: 2})
	assert.Error(t, err)

	gen.err = nil
	gen.content = `{"title": "only a title"}`
	_, err = planner.Plan(context.Background(), GenerateRequest{Days: 2})
	assert.ErrorIs(t, err, common.ErrInvalidAIPlan)
}
