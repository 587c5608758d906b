package shopping

import (
	"context"
	"strings"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// PlanRecipes 取得計畫內所有食譜
type PlanRecipes interface {
	RecipesForPlan(ctx context.Context, userID, planID string) ([]recipe.Recipe, error)
}

// FromPlanRequest 由計畫產生購物清單的請求
type FromPlanRequest struct {
	PlanID   string       `json:"plan_id" validate:"required"`
	Servings int          `json:"servings" validate:"gte=0"`
	Pantry   []PantryItem `json:"pantry" validate:"dive"`
}

// Service 購物清單服務
type Service struct {
	store Store
	plans PlanRecipes
}

// NewService 創建購物清單服務
func NewService(store Store, plans PlanRecipes) *Service {
	return &Service{store: store, plans: plans}
}

// List 取得清單
func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	return s.store.List(ctx, userID)
}

// AddFromPlan 把計畫的食材（換算份量、扣除庫存）併入清單
func (s *Service) AddFromPlan(ctx context.Context, userID string, req FromPlanRequest) ([]Item, error) {
	if strings.TrimSpace(req.PlanID) == "" {
		return nil, common.NewValidationError("plan_id is required")
	}
	if req.Servings < 0 {
		return nil, common.NewValidationError("servings must not be negative")
	}

	recipes, err := s.plans.RecipesForPlan(ctx, userID, req.PlanID)
	if err != nil {
		return nil, err
	}

	scaled := make([]ScaledRecipe, len(recipes))
	for i, r := range recipes {
		scaled[i] = ScaledRecipe{Recipe: r, TargetServings: req.Servings}
	}
	items := BuildList(scaled, req.Pantry)

	saved, err := s.store.MergeItems(ctx, userID, items)
	if err != nil {
		return nil, err
	}

	common.LogInfo("購物清單已由計畫產生",
		zap.String("user_id", userID),
		zap.String("plan_id", req.PlanID),
		zap.Int("recipes", len(recipes)),
		zap.Int("items", len(saved)),
	)
	return saved, nil
}

// AddItem 解析並加入單一項目
func (s *Service) AddItem(ctx context.Context, userID, text string) (*Item, error) {
	parsed, ok := ParseIngredient(text)
	if !ok {
		return nil, common.NewValidationError("item name is required")
	}

	saved, err := s.store.MergeItems(ctx, userID, []Item{{
		Name:     parsed.Name,
		Quantity: parsed.Quantity,
		Unit:     parsed.Unit,
		Category: Categorize(parsed.Name),
	}})
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

// Toggle 切換完成狀態
func (s *Service) Toggle(ctx context.Context, userID, id string) (*Item, error) {
	return s.store.Toggle(ctx, userID, id)
}

// Delete 刪除項目
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.store.Delete(ctx, userID, id)
}

// ClearCompleted 清除已完成項目
func (s *Service) ClearCompleted(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.ClearCompleted(ctx, userID)
	if err != nil {
		return 0, err
	}
	common.LogDebug("已清除完成項目", zap.String("user_id", userID), zap.Int64("count", n))
	return n, nil
}
