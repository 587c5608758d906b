package mealplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

const plannerSystemPrompt = "You are a professional nutritionist and meal planner. " +
	"Generate detailed, healthy meal plans that match the user's requirements."

// TextGenerator 文字生成介面，由 AI 服務實作
type TextGenerator interface {
	// GenerateChecked 只回傳並快取通過 accept 的內容
	GenerateChecked(ctx context.Context, system, prompt string, accept func(content string) error) (string, error)
}

// Planner 產生計畫的替代來源
type Planner interface {
	Plan(ctx context.Context, req GenerateRequest) (*MealPlan, error)
}

// PlanPrompt 組出生成計畫的提示詞
func PlanPrompt(req GenerateRequest) string {
	goals := DefaultNutritionTargets
	if req.NutritionGoals != nil {
		goals = *req.NutritionGoals
	}
	familySize := req.FamilySize
	if familySize < 1 {
		familySize = 1
	}
	preferences := "none"
	if len(req.Preferences) > 0 {
		preferences = strings.Join(req.Preferences, ", ")
	}

	return fmt.Sprintf(`Generate a %d-day meal plan for a family of %d with the following preferences: %s.

Daily nutrition goals:
- Calories: %d
- Protein: %dg
- Carbs: %dg
- Fat: %dg

For each day, provide:
1. Breakfast
2. Lunch
3. Dinner
4. Optional snacks

Each meal should include:
- title
- description
- prep_time (minutes)
- calories
- servings
- ingredients (list of strings, each starting with a quantity and unit)
- instructions (list of strings)
- tags (e.g., Vegetarian, High Protein)

Format the response as a JSON object:
{"title": "...", "description": "...", "days": [{"day": "Day 1", "meals": {"breakfast": {...}, "lunch": {...}, "dinner": {...}, "snacks": []}}]}`,
		req.Days, familySize, preferences,
		goals.Calories, goals.Protein, goals.Carbs, goals.Fat)
}

// PlanDocument LLM 回傳的計畫文件
type PlanDocument struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Days        []DayDocument `json:"days"`
}

// DayDocument 計畫文件中的一天
type DayDocument struct {
	Day       string             `json:"day"`
	Meals     *MealsDocument     `json:"meals"`
	Breakfast *recipe.RawRecipe  `json:"breakfast"`
	Lunch     *recipe.RawRecipe  `json:"lunch"`
	Dinner    *recipe.RawRecipe  `json:"dinner"`
	Snacks    []recipe.RawRecipe `json:"snacks"`
}

// MealsDocument 一天的餐點
type MealsDocument struct {
	Breakfast *recipe.RawRecipe  `json:"breakfast"`
	Lunch     *recipe.RawRecipe  `json:"lunch"`
	Dinner    *recipe.RawRecipe  `json:"dinner"`
	Snacks    []recipe.RawRecipe `json:"snacks"`
}

// meals 餐點可放在 meals 物件內或直接放在 day 上
func (d DayDocument) meals() MealsDocument {
	m := MealsDocument{}
	if d.Meals != nil {
		m = *d.Meals
	}
	if m.Breakfast == nil {
		m.Breakfast = d.Breakfast
	}
	if m.Lunch == nil {
		m.Lunch = d.Lunch
	}
	if m.Dinner == nil {
		m.Dinner = d.Dinner
	}
	if len(m.Snacks) == 0 {
		m.Snacks = d.Snacks
	}
	return m
}

func invalidPlan(msg string, err error) error {
	return common.WithDetail(common.ErrInvalidAIPlan, msg, err)
}

// ValidatePlanDocument 檢查必要欄位
func ValidatePlanDocument(doc PlanDocument, days int) error {
	if strings.TrimSpace(doc.Title) == "" {
		return invalidPlan("AI plan is missing a title", nil)
	}
	if strings.TrimSpace(doc.Description) == "" {
		return invalidPlan("AI plan is missing a description", nil)
	}
	if len(doc.Days) == 0 {
		return invalidPlan("AI plan has no days", nil)
	}
	if len(doc.Days) < days {
		return invalidPlan(fmt.Sprintf("AI plan has %d days, want %d", len(doc.Days), days), nil)
	}
	for i, day := range doc.Days[:days] {
		m := day.meals()
		if m.Breakfast == nil || m.Lunch == nil || m.Dinner == nil {
			return invalidPlan(fmt.Sprintf("AI plan day %d is missing a required meal", i+1), nil)
		}
	}
	return nil
}

// ParsePlanDocument 解析 LLM 回應為計畫，多出的天數會被截掉
func ParsePlanDocument(content string, days int, now time.Time, newID func() string) (*MealPlan, error) {
	raw, ok := common.ExtractJSONObject(content)
	if !ok {
		return nil, invalidPlan("AI response contains no JSON object", nil)
	}

	var doc PlanDocument
	if err := common.ParseJSON(raw, &doc); err != nil {
		// 部分模型會輸出未加引號的鍵
		doc = PlanDocument{}
		if retryErr := common.ParseJSON(common.QuoteJSONKeys(raw), &doc); retryErr != nil {
			return nil, invalidPlan("AI response is not a valid plan document", err)
		}
	}
	if err := ValidatePlanDocument(doc, days); err != nil {
		return nil, err
	}

	planDays := make([]Day, days)
	for i, day := range doc.Days[:days] {
		m := day.meals()
		label := strings.TrimSpace(day.Day)
		if label == "" {
			label = DayLabel(i)
		}
		snacks := make([]recipe.Recipe, 0, len(m.Snacks))
		for _, s := range m.Snacks {
			snacks = append(snacks, aiRecipe(s, newID))
		}
		planDays[i] = Day{
			Day: label,
			Meals: Meals{
				Breakfast: aiRecipe(*m.Breakfast, newID),
				Lunch:     aiRecipe(*m.Lunch, newID),
				Dinner:    aiRecipe(*m.Dinner, newID),
				Snacks:    snacks,
			},
		}
	}

	plan := &MealPlan{
		ID:          newID(),
		Title:       strings.TrimSpace(doc.Title),
		Description: strings.TrimSpace(doc.Description),
		Days:        planDays,
		Feedback:    &Feedback{TotalMeals: days * MealsPerDay},
		Source:      SourceAI,
		CreatedAt:   now,
	}
	ApplyNutrition(plan)
	return plan, nil
}

func aiRecipe(raw recipe.RawRecipe, newID func() string) recipe.Recipe {
	r := recipe.Normalize(raw)
	if r.ID == "" {
		r.ID = newID()
	}
	r.Status = recipe.StatusPending
	return r
}

// AIPlanner 透過 LLM 產生計畫
type AIPlanner struct {
	gen   TextGenerator
	now   func() time.Time
	newID func() string
}

// NewAIPlanner 創建 AI 計畫來源
func NewAIPlanner(gen TextGenerator) *AIPlanner {
	return &AIPlanner{
		gen:   gen,
		now:   time.Now,
		newID: common.GenerateUUID,
	}
}

// Plan 呼叫 LLM 並解析回應，無效的計畫文件不會進入快取
func (p *AIPlanner) Plan(ctx context.Context, req GenerateRequest) (*MealPlan, error) {
	var plan *MealPlan
	_, err := p.gen.GenerateChecked(ctx, plannerSystemPrompt, PlanPrompt(req), func(content string) error {
		common.LogDebug("AI 回應內容 (meal-plan/generate)",
			zap.Int("ai_response_length", len(content)),
		)
		parsed, err := ParsePlanDocument(content, req.Days, p.now(), p.newID)
		if err != nil {
			return err
		}
		plan = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}
