package tracking

import (
	"context"
	"time"

	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"

	"gorm.io/gorm"
)

// Store 烹調紀錄存取介面
type Store interface {
	Create(ctx context.Context, userID string, meal *PreparedMeal) error
	Between(ctx context.Context, userID string, start, end time.Time) ([]PreparedMeal, error)
	All(ctx context.Context, userID string) ([]PreparedMeal, error)
}

// MealModel 烹調紀錄資料表
type MealModel struct {
	ID              string                                 `gorm:"primaryKey;size:36"`
	UserID          string                                 `gorm:"index;size:64;not null"`
	RecipeID        string                                 `gorm:"index;size:64"`
	Date            time.Time                              `gorm:"index"`
	ServingsMade    int
	IngredientsUsed database.JSONColumn[[]IngredientUsage] `gorm:"type:json"`
	Notes           string                                 `gorm:"type:text"`
	CreatedAt       time.Time
}

// TableName 資料表名稱
func (MealModel) TableName() string {
	return "prepared_meals"
}

// Models 需要遷移的資料表
func Models() []interface{} {
	return []interface{}{&MealModel{}}
}

func (m MealModel) toMeal() PreparedMeal {
	used := m.IngredientsUsed.Data
	if used == nil {
		used = []IngredientUsage{}
	}
	return PreparedMeal{
		ID:              m.ID,
		RecipeID:        m.RecipeID,
		Date:            m.Date,
		ServingsMade:    m.ServingsMade,
		IngredientsUsed: used,
		Notes:           m.Notes,
	}
}

// GormStore 以 gorm 實作的烹調紀錄儲存
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 創建儲存
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create 新增紀錄
func (s *GormStore) Create(ctx context.Context, userID string, meal *PreparedMeal) error {
	model := MealModel{
		ID:              meal.ID,
		UserID:          userID,
		RecipeID:        meal.RecipeID,
		Date:            meal.Date.UTC(),
		ServingsMade:    meal.ServingsMade,
		IngredientsUsed: database.NewJSONColumn(meal.IngredientsUsed),
		Notes:           meal.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return common.WithDetail(common.ErrStoreUnavailable, "failed to save prepared meal", err)
	}
	return nil
}

// Between 取得 [start, end] 之間的紀錄
func (s *GormStore) Between(ctx context.Context, userID string, start, end time.Time) ([]PreparedMeal, error) {
	return s.find(s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start.UTC(), end.UTC()))
}

// All 取得使用者所有紀錄
func (s *GormStore) All(ctx context.Context, userID string) ([]PreparedMeal, error) {
	return s.find(s.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (s *GormStore) find(query *gorm.DB) ([]PreparedMeal, error) {
	var models []MealModel
	if err := query.Order("date ASC").Find(&models).Error; err != nil {
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to load prepared meals", err)
	}
	meals := make([]PreparedMeal, len(models))
	for i, m := range models {
		meals[i] = m.toMeal()
	}
	return meals, nil
}
