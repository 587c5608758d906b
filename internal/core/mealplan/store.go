package mealplan

import (
	"context"
	"errors"
	"time"

	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"

	"gorm.io/gorm"
)

// PlanStore 餐點計畫存取介面
type PlanStore interface {
	Create(ctx context.Context, userID string, plan *MealPlan) error
	Update(ctx context.Context, userID string, plan *MealPlan) error
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (*MealPlan, error)
	List(ctx context.Context, userID string) ([]MealPlan, error)
	Count(ctx context.Context, userID string) (int64, error)
}

// PlanModel 計畫資料表，完整計畫以 JSON 文件儲存
type PlanModel struct {
	ID        string                        `gorm:"primaryKey;size:36"`
	UserID    string                        `gorm:"index;size:64;not null"`
	Title     string                        `gorm:"size:255"`
	Document  database.JSONColumn[MealPlan] `gorm:"type:json"`
	CreatedAt time.Time                     `gorm:"index"`
	UpdatedAt time.Time
}

// TableName 資料表名稱
func (PlanModel) TableName() string {
	return "meal_plans"
}

// Models 需要遷移的資料表
func Models() []interface{} {
	return []interface{}{&PlanModel{}}
}

// GormPlanStore 以 gorm 實作的計畫儲存
type GormPlanStore struct {
	db *gorm.DB
}

// NewGormPlanStore 創建計畫儲存
func NewGormPlanStore(db *gorm.DB) *GormPlanStore {
	return &GormPlanStore{db: db}
}

// Create 新增計畫
func (s *GormPlanStore) Create(ctx context.Context, userID string, plan *MealPlan) error {
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}
	model := PlanModel{
		ID:        plan.ID,
		UserID:    userID,
		Title:     plan.Title,
		Document:  database.NewJSONColumn(*plan),
		CreatedAt: plan.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return common.WithDetail(common.ErrStoreUnavailable, "failed to save meal plan", err)
	}
	return nil
}

// Update 更新計畫內容
func (s *GormPlanStore) Update(ctx context.Context, userID string, plan *MealPlan) error {
	result := s.db.WithContext(ctx).Model(&PlanModel{}).
		Where("id = ? AND user_id = ?", plan.ID, userID).
		Updates(map[string]interface{}{
			"title":      plan.Title,
			"document":   database.NewJSONColumn(*plan),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return common.WithDetail(common.ErrStoreUnavailable, "failed to update meal plan", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.WithDetail(common.ErrNotFound, "meal plan not found", nil)
	}
	return nil
}

// Delete 刪除計畫
func (s *GormPlanStore) Delete(ctx context.Context, userID, id string) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&PlanModel{})
	if result.Error != nil {
		return common.WithDetail(common.ErrStoreUnavailable, "failed to delete meal plan", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.WithDetail(common.ErrNotFound, "meal plan not found", nil)
	}
	return nil
}

// Get 取得計畫
func (s *GormPlanStore) Get(ctx context.Context, userID, id string) (*MealPlan, error) {
	var model PlanModel
	err := s.db.WithContext(ctx).First(&model, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.WithDetail(common.ErrNotFound, "meal plan not found", nil)
		}
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to load meal plan", err)
	}
	plan := model.Document.Data
	return &plan, nil
}

// List 取得使用者所有計畫，最新的在前
func (s *GormPlanStore) List(ctx context.Context, userID string) ([]MealPlan, error) {
	var models []PlanModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to list meal plans", err)
	}

	plans := make([]MealPlan, len(models))
	for i := range models {
		plans[i] = models[i].Document.Data
	}
	return plans, nil
}

// Count 使用者的計畫數量
func (s *GormPlanStore) Count(ctx context.Context, userID string) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&PlanModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, common.WithDetail(common.ErrStoreUnavailable, "failed to count meal plans", err)
	}
	return total, nil
}
