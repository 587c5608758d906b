package tracking

import (
	"context"
	"time"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// RecipeLookup 確認食譜存在
type RecipeLookup interface {
	FindByID(ctx context.Context, id string) (*recipe.Recipe, error)
}

// Service 烹調紀錄服務
type Service struct {
	store    Store
	recipes  RecipeLookup
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// NewService 創建烹調紀錄服務，recipes 為 nil 時不檢查食譜是否存在
func NewService(store Store, recipes RecipeLookup) *Service {
	return &Service{
		store:    store,
		recipes:  recipes,
		validate: validator.New(),
		now:      time.Now,
		newID:    common.GenerateUUID,
	}
}

// Track 記錄一次烹調
func (s *Service) Track(ctx context.Context, userID string, req TrackRequest) (*PreparedMeal, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, common.NewValidationError("invalid parameter: " + err.Error())
	}
	if s.recipes != nil {
		if _, err := s.recipes.FindByID(ctx, req.RecipeID); err != nil {
			return nil, err
		}
	}

	used := req.IngredientsUsed
	if used == nil {
		used = []IngredientUsage{}
	}
	meal := &PreparedMeal{
		ID:              s.newID(),
		RecipeID:        req.RecipeID,
		Date:            s.now().UTC(),
		ServingsMade:    req.ServingsMade,
		IngredientsUsed: used,
		Notes:           req.Notes,
	}
	if err := s.store.Create(ctx, userID, meal); err != nil {
		return nil, err
	}

	common.LogInfo("烹調紀錄已新增",
		zap.String("user_id", userID),
		zap.String("recipe_id", meal.RecipeID),
		zap.Int("servings", meal.ServingsMade),
	)
	return meal, nil
}

// MealsBetween 取得區間內的紀錄
func (s *Service) MealsBetween(ctx context.Context, userID string, start, end time.Time) ([]PreparedMeal, error) {
	if end.Before(start) {
		return nil, common.NewValidationError("invalid parameter: end must not be before start")
	}
	return s.store.Between(ctx, userID, start, end)
}

// UsageStats 食材使用統計
func (s *Service) UsageStats(ctx context.Context, userID string) (UsageStats, error) {
	meals, err := s.store.All(ctx, userID)
	if err != nil {
		return UsageStats{}, err
	}
	return ComputeUsageStats(meals), nil
}

// WeekStats 最近一週統計
func (s *Service) WeekStats(ctx context.Context, userID string) (WeekStats, error) {
	now := s.now().UTC()
	meals, err := s.store.Between(ctx, userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		return WeekStats{}, err
	}
	return ComputeWeekStats(meals, now), nil
}
