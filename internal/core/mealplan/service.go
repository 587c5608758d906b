package mealplan

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// MealStatusUpdate 更新餐點狀態的請求
type MealStatusUpdate struct {
	Day    int               `json:"day" validate:"gte=0"`
	Slot   string            `json:"slot" validate:"required"`
	Status recipe.MealStatus `json:"status" validate:"required,oneof=pending completed"`
}

// FeedbackRequest 計畫回饋
type FeedbackRequest struct {
	Rating   int    `json:"rating" validate:"gte=0,lte=5"`
	Comments string `json:"comments" validate:"max=2000"`
}

// Service 餐點計畫服務
type Service struct {
	recipes   recipe.Repository
	store     PlanStore
	generator *Generator
	planner   Planner
	cfg       config.PlanConfig
	validate  *validator.Validate
	metrics   *metrics.Collector
	now       func() time.Time
	newID     func() string
}

// NewService 創建餐點計畫服務，planner 為 nil 時只使用本地生成
func NewService(recipes recipe.Repository, store PlanStore, generator *Generator, planner Planner, cfg config.PlanConfig, collector *metrics.Collector) *Service {
	return &Service{
		recipes:   recipes,
		store:     store,
		generator: generator,
		planner:   planner,
		cfg:       cfg,
		validate:  validator.New(),
		metrics:   collector,
		now:       time.Now,
		newID:     common.GenerateUUID,
	}
}

func (s *Service) storePolicy() common.RetryPolicy {
	return common.RetryPolicy{Attempts: s.cfg.StoreRetries, Delay: s.cfg.StoreDelay}
}

func (s *Service) check(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		return common.NewValidationError("invalid parameter: " + err.Error())
	}
	return nil
}

// FetchLimit 本地生成時從目錄取出的候選數量，上限不低於填滿每一餐所需的數量
func (s *Service) FetchLimit(days int) int {
	limit := days * MealsPerDay * 2
	if s.cfg.FetchLimitCap > 0 && limit > s.cfg.FetchLimitCap {
		limit = s.cfg.FetchLimitCap
	}
	return max(limit, days*MealsPerDay)
}

// Generate 生成新計畫：先嘗試 AI，失敗時改用本地目錄
func (s *Service) Generate(ctx context.Context, userID string, req GenerateRequest) (*MealPlan, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if s.cfg.MaxDays > 0 && req.Days > s.cfg.MaxDays {
		return nil, common.NewValidationError(fmt.Sprintf("invalid parameter: days must be at most %d", s.cfg.MaxDays))
	}

	count, err := s.store.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxPlans > 0 && count >= int64(s.cfg.MaxPlans) {
		return nil, common.WithDetail(common.ErrPlanLimitReached,
			fmt.Sprintf("you can keep at most %d meal plans, delete one first", s.cfg.MaxPlans), nil)
	}

	var plan *MealPlan
	if req.UseAI && s.planner != nil {
		plan, err = s.planner.Plan(ctx, req)
		if err != nil {
			common.LogWarn("AI 計畫生成失敗，改用本地生成",
				zap.String("user_id", userID),
				zap.Int("days", req.Days),
				zap.Error(err),
			)
			plan = nil
		}
	}
	if plan == nil {
		plan, err = s.generateLocal(ctx, req.Days)
		if err != nil {
			return nil, err
		}
	}

	if err := common.Retry(ctx, s.storePolicy(), "plan.create", func(ctx context.Context) error {
		return s.store.Create(ctx, userID, plan)
	}); err != nil {
		return nil, err
	}

	s.metrics.PlanGenerated(plan.Source)
	common.LogInfo("餐點計畫已生成",
		zap.String("user_id", userID),
		zap.String("plan_id", plan.ID),
		zap.String("source", plan.Source),
		zap.Int("days", len(plan.Days)),
	)
	return plan, nil
}

func (s *Service) generateLocal(ctx context.Context, days int) (*MealPlan, error) {
	var pool []recipe.Recipe
	err := common.Retry(ctx, s.storePolicy(), "recipes.candidates", func(ctx context.Context) error {
		var err error
		pool, err = s.recipes.Candidates(ctx, s.FetchLimit(days))
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, common.WithDetail(common.ErrEmptyCatalog, "no recipes available, import recipes first", nil)
	}

	for i := range pool {
		pool[i] = recipe.NormalizeRecipe(pool[i])
	}
	return s.generator.Generate(days, pool)
}

// List 取得使用者的計畫，最新的在前
func (s *Service) List(ctx context.Context, userID string) ([]MealPlan, error) {
	return s.store.List(ctx, userID)
}

// Get 取得計畫
func (s *Service) Get(ctx context.Context, userID, id string) (*MealPlan, error) {
	if strings.TrimSpace(id) == "" {
		return nil, common.NewValidationError("meal plan id is required")
	}
	return s.store.Get(ctx, userID, id)
}

// Delete 刪除計畫
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return common.NewValidationError("meal plan id is required")
	}
	return s.store.Delete(ctx, userID, id)
}

// UpdateMealStatus 更新餐點狀態；全部必要餐點完成時另存一份新一輪計畫並一併回傳
func (s *Service) UpdateMealStatus(ctx context.Context, userID, id string, update MealStatusUpdate) (*MealPlan, *MealPlan, error) {
	if err := s.check(update); err != nil {
		return nil, nil, err
	}
	plan, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	updated, err := SetMealStatus(*plan, update.Day, update.Slot, update.Status)
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.Update(ctx, userID, &updated); err != nil {
		return nil, nil, err
	}

	if AllRequiredCompleted(*plan) || !AllRequiredCompleted(updated) {
		return &updated, nil, nil
	}

	next := ContinuePlan(updated, s.now(), s.newID())
	if err := common.Retry(ctx, s.storePolicy(), "plan.continue", func(ctx context.Context) error {
		return s.store.Create(ctx, userID, &next)
	}); err != nil {
		return nil, nil, err
	}

	common.LogInfo("計畫全部完成，已建立新一輪計畫",
		zap.String("user_id", userID),
		zap.String("plan_id", updated.ID),
		zap.String("next_plan_id", next.ID),
	)
	return &updated, &next, nil
}

// SubmitFeedback 儲存評分與意見
func (s *Service) SubmitFeedback(ctx context.Context, userID, id string, req FeedbackRequest) (*MealPlan, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	plan, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated := plan.Clone()
	if updated.Feedback == nil {
		updated.Feedback = &Feedback{TotalMeals: len(updated.Days) * MealsPerDay}
	}
	updated.Feedback.Rating = req.Rating
	updated.Feedback.Comments = strings.TrimSpace(req.Comments)
	updated.Feedback.CompletedMeals = completedRequired(updated)

	if err := s.store.Update(ctx, userID, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RecipesForPlan 計畫內所有食譜（含點心）
func (s *Service) RecipesForPlan(ctx context.Context, userID, planID string) ([]recipe.Recipe, error) {
	plan, err := s.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	return plan.Recipes(), nil
}

// ScaleRecipe 將食譜換算為 target 人份，食材與營養一併調整
func ScaleRecipe(r recipe.Recipe, target int) (recipe.Recipe, error) {
	if target < 1 {
		return r, common.NewValidationError("invalid parameter: servings must be at least 1")
	}
	native := r.Servings
	if native < 1 {
		native = recipe.DefaultServings
	}

	scaled := r.Clone()
	for i, line := range scaled.Ingredients {
		scaled.Ingredients[i] = shopping.ScaleIngredient(line, native, target)
	}
	scaled.Nutrition = ScaleNutrition(r.Nutrition, target, native)
	scaled.Calories = int(math.Round(float64(r.Calories) * float64(target) / float64(native)))
	scaled.Servings = target
	return scaled, nil
}

// ScaleCatalogRecipe 取得目錄中的食譜並換算份量
func (s *Service) ScaleCatalogRecipe(ctx context.Context, recipeID string, target int) (*recipe.Recipe, error) {
	r, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	scaled, err := ScaleRecipe(*r, target)
	if err != nil {
		return nil, err
	}
	return &scaled, nil
}
