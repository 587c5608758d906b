package shopping

import (
	"context"
	"errors"
	"time"

	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"

	"gorm.io/gorm"
)

// Store 購物清單存取介面
type Store interface {
	List(ctx context.Context, userID string) ([]Item, error)
	MergeItems(ctx context.Context, userID string, items []Item) ([]Item, error)
	Toggle(ctx context.Context, userID, id string) (*Item, error)
	Delete(ctx context.Context, userID, id string) error
	ClearCompleted(ctx context.Context, userID string) (int64, error)
}

// ItemModel 購物清單資料表
type ItemModel struct {
	ID        string              `gorm:"primaryKey;size:36"`
	UserID    string              `gorm:"index:idx_shopping_user_key;size:64;not null"`
	ItemKey   string              `gorm:"index:idx_shopping_user_key;size:255"`
	Name      string              `gorm:"size:255;not null"`
	Quantity  float64             `gorm:"not null"`
	Unit      string              `gorm:"size:32"`
	Category  string              `gorm:"size:32"`
	Completed bool                `gorm:"not null;default:false"`
	RecipeIDs database.StringList `gorm:"type:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 資料表名稱
func (ItemModel) TableName() string {
	return "shopping_items"
}

// Models 需要遷移的資料表
func Models() []interface{} {
	return []interface{}{&ItemModel{}}
}

func (m ItemModel) toItem() Item {
	return Item{
		ID:        m.ID,
		Name:      m.Name,
		Quantity:  m.Quantity,
		Unit:      m.Unit,
		Category:  m.Category,
		Completed: m.Completed,
		RecipeIDs: []string(m.RecipeIDs),
	}
}

// GormStore 以 gorm 實作的購物清單儲存
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 創建購物清單儲存
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// List 取得使用者的清單，依分類與名稱排序
func (s *GormStore) List(ctx context.Context, userID string) ([]Item, error) {
	var models []ItemModel
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&models).Error; err != nil {
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to list shopping items", err)
	}
	items := make([]Item, len(models))
	for i := range models {
		items[i] = models[i].toItem()
	}
	SortItems(items)
	return items, nil
}

// MergeItems 併入未完成且 (名稱, 單位) 相同的項目，否則新增
func (s *GormStore) MergeItems(ctx context.Context, userID string, items []Item) ([]Item, error) {
	saved := make([]Item, 0, len(items))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			var existing ItemModel
			err := tx.Where("user_id = ? AND item_key = ? AND completed = ?", userID, it.Key(), false).
				First(&existing).Error
			switch {
			case err == nil:
				existing.Quantity = roundQuantity(existing.Quantity + clampQuantity(it.Quantity))
				existing.RecipeIDs = unionIDs(existing.RecipeIDs, it.RecipeIDs)
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				saved = append(saved, existing.toItem())
			case errors.Is(err, gorm.ErrRecordNotFound):
				model := ItemModel{
					ID:        common.GenerateUUID(),
					UserID:    userID,
					ItemKey:   it.Key(),
					Name:      it.Name,
					Quantity:  clampQuantity(it.Quantity),
					Unit:      normalizeUnit(it.Unit),
					Category:  it.Category,
					RecipeIDs: database.StringList(it.RecipeIDs),
				}
				if model.Category == "" {
					model.Category = Categorize(it.Name)
				}
				if err := tx.Create(&model).Error; err != nil {
					return err
				}
				saved = append(saved, model.toItem())
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to save shopping items", err)
	}
	return saved, nil
}

// Toggle 切換完成狀態
func (s *GormStore) Toggle(ctx context.Context, userID, id string) (*Item, error) {
	var model ItemModel
	err := s.db.WithContext(ctx).First(&model, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.WithDetail(common.ErrNotFound, "shopping item not found", nil)
		}
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to load shopping item", err)
	}

	model.Completed = !model.Completed
	if err := s.db.WithContext(ctx).Model(&model).Update("completed", model.Completed).Error; err != nil {
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to update shopping item", err)
	}
	item := model.toItem()
	return &item, nil
}

// Delete 刪除項目
func (s *GormStore) Delete(ctx context.Context, userID, id string) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&ItemModel{})
	if result.Error != nil {
		return common.WithDetail(common.ErrStoreUnavailable, "failed to delete shopping item", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.WithDetail(common.ErrNotFound, "shopping item not found", nil)
	}
	return nil
}

// ClearCompleted 清除已完成的項目
func (s *GormStore) ClearCompleted(ctx context.Context, userID string) (int64, error) {
	result := s.db.WithContext(ctx).Where("user_id = ? AND completed = ?", userID, true).Delete(&ItemModel{})
	if result.Error != nil {
		return 0, common.WithDetail(common.ErrStoreUnavailable, "failed to clear shopping items", result.Error)
	}
	return result.RowsAffected, nil
}
