package recipe

import (
	"context"
	"strings"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜查詢、最愛與書籤服務
type Service struct {
	repo  Repository
	marks MarkStore
}

// NewService 創建食譜服務
func NewService(repo Repository, marks MarkStore) *Service {
	return &Service{
		repo:  repo,
		marks: marks,
	}
}

// Search 依標題（不分大小寫）與任一標籤搜尋
func (s *Service) Search(ctx context.Context, filter Filter) ([]Recipe, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	recipes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	common.LogDebug("食譜搜尋完成",
		zap.String("query", filter.Query),
		zap.Strings("tags", filter.Tags),
		zap.Int("results", len(recipes)),
	)
	return recipes, nil
}

// Get 取得單一食譜
func (s *Service) Get(ctx context.Context, id string) (*Recipe, error) {
	if strings.TrimSpace(id) == "" {
		return nil, common.NewValidationError("recipe id is required")
	}
	return s.repo.FindByID(ctx, id)
}

// ToggleFavorite 切換最愛狀態
func (s *Service) ToggleFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	return s.toggle(ctx, userID, recipeID, MarkFavorite)
}

// ToggleBookmark 切換書籤狀態
func (s *Service) ToggleBookmark(ctx context.Context, userID, recipeID string) (bool, error) {
	return s.toggle(ctx, userID, recipeID, MarkBookmark)
}

// Favorites 取得使用者的最愛食譜
func (s *Service) Favorites(ctx context.Context, userID string) ([]Recipe, error) {
	ids, err := s.marks.MarkedIDs(ctx, userID, MarkFavorite)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByIDs(ctx, ids)
}

// Bookmarks 取得使用者的書籤食譜
func (s *Service) Bookmarks(ctx context.Context, userID string) ([]Recipe, error) {
	ids, err := s.marks.MarkedIDs(ctx, userID, MarkBookmark)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByIDs(ctx, ids)
}

func (s *Service) toggle(ctx context.Context, userID, recipeID string, kind MarkKind) (bool, error) {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return false, err
	}

	marked, err := s.marks.ToggleMark(ctx, userID, recipeID, kind)
	if err != nil {
		return false, err
	}

	common.LogInfo("食譜標記已更新",
		zap.String("user_id", userID),
		zap.String("recipe_id", recipeID),
		zap.String("kind", string(kind)),
		zap.Bool("marked", marked),
	)
	return marked, nil
}
