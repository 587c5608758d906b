package recipe

import (
	"context"
	"errors"
	"strings"
	"time"

	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// MarkKind 使用者對食譜的標記種類
type MarkKind string

const (
	MarkFavorite MarkKind = "favorite"
	MarkBookmark MarkKind = "bookmark"
)

// Repository 食譜目錄存取介面
type Repository interface {
	FindByID(ctx context.Context, id string) (*Recipe, error)
	FindByIDs(ctx context.Context, ids []string) ([]Recipe, error)
	List(ctx context.Context, filter Filter) ([]Recipe, error)
	Candidates(ctx context.Context, limit int) ([]Recipe, error)
	Upsert(ctx context.Context, recipes []Recipe) (int, error)
	Count(ctx context.Context) (int64, error)
}

// MarkStore 最愛與書籤的存取介面
type MarkStore interface {
	ToggleMark(ctx context.Context, userID, recipeID string, kind MarkKind) (bool, error)
	MarkedIDs(ctx context.Context, userID string, kind MarkKind) ([]string, error)
}

// RecipeModel 食譜資料表
type RecipeModel struct {
	ID           string                         `gorm:"primaryKey;size:36"`
	ExternalID   *string                        `gorm:"uniqueIndex;size:512"`
	Title        string                         `gorm:"index;not null"`
	Description  string                         `gorm:"type:text"`
	ImageURL     string                         `gorm:"size:512"`
	TotalTime    string                         `gorm:"size:32"`
	PrepTime     int                            `gorm:"default:0"`
	Calories     int                            `gorm:"index;default:0"`
	Servings     int                            `gorm:"default:4"`
	Ingredients  database.StringList            `gorm:"type:json"`
	Instructions database.StringList            `gorm:"type:json"`
	Nutrition    database.JSONColumn[Nutrition] `gorm:"type:json"`
	Tags         database.StringList            `gorm:"type:json"`
	Cuisine      string                         `gorm:"size:64"`
	DietType     database.StringList            `gorm:"type:json"`
	Equipment    database.StringList            `gorm:"type:json"`
	Difficulty   string                         `gorm:"size:32"`
	Rating       float64
	CreatedAt    time.Time                      `gorm:"index"`
	UpdatedAt    time.Time
}

// TableName 資料表名稱
func (RecipeModel) TableName() string {
	return "recipes"
}

// RecipeMarkModel 使用者最愛與書籤
type RecipeMarkModel struct {
	UserID    string `gorm:"primaryKey;size:64"`
	RecipeID  string `gorm:"primaryKey;size:36"`
	Kind      string `gorm:"primaryKey;size:16"`
	CreatedAt time.Time
}

// TableName 資料表名稱
func (RecipeMarkModel) TableName() string {
	return "recipe_marks"
}

// Models 需要遷移的資料表
func Models() []interface{} {
	return []interface{}{&RecipeModel{}, &RecipeMarkModel{}}
}

// GormRepository 以 gorm 實作的食譜目錄
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository 創建食譜目錄
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// FindByID 依 ID 取得食譜
func (r *GormRepository) FindByID(ctx context.Context, id string) (*Recipe, error) {
	var model RecipeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.WithDetail(common.ErrNotFound, "recipe not found", nil)
		}
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to load recipe", err)
	}
	recipe := modelToRecipe(&model)
	return &recipe, nil
}

// FindByIDs 依 ID 清單取得食譜，保留輸入順序並略過不存在者
func (r *GormRepository) FindByIDs(ctx context.Context, ids []string) ([]Recipe, error) {
	if len(ids) == 0 {
		return []Recipe{}, nil
	}

	var models []RecipeModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to load recipes", err)
	}

	byID := make(map[string]Recipe, len(models))
	for i := range models {
		byID[models[i].ID] = modelToRecipe(&models[i])
	}
	recipes := make([]Recipe, 0, len(ids))
	for _, id := range ids {
		if recipe, ok := byID[id]; ok {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, nil
}

// List 依標題關鍵字與標籤查詢，任一標籤符合即可
func (r *GormRepository) List(ctx context.Context, filter Filter) ([]Recipe, error) {
	query := r.db.WithContext(ctx).Model(&RecipeModel{})

	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	if len(filter.Tags) > 0 {
		var conds []string
		var args []interface{}
		for _, tag := range filter.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			conds = append(conds, "LOWER(CAST(tags AS TEXT)) LIKE ?")
			args = append(args, `%"`+strings.ToLower(tag)+`"%`)
		}
		if len(conds) > 0 {
			query = query.Where(strings.Join(conds, " OR "), args...)
		}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var models []RecipeModel
	if err := query.Order("created_at DESC").Order("id").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to list recipes", err)
	}
	return modelsToRecipes(models), nil
}

// Candidates 取得可用於生成計畫的食譜：有標題、有食材且熱量大於 0，最新的優先
func (r *GormRepository) Candidates(ctx context.Context, limit int) ([]Recipe, error) {
	if limit <= 0 {
		return []Recipe{}, nil
	}

	var models []RecipeModel
	err := r.db.WithContext(ctx).
		Where("title <> ''").
		Where("calories > 0").
		Where("ingredients IS NOT NULL AND CAST(ingredients AS TEXT) <> '[]'").
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to fetch candidate recipes", err)
	}
	return modelsToRecipes(models), nil
}

// Upsert 寫入食譜，external_id 重複者略過，回傳實際新增筆數
func (r *GormRepository) Upsert(ctx context.Context, recipes []Recipe) (int, error) {
	if len(recipes) == 0 {
		return 0, nil
	}

	models := make([]RecipeModel, len(recipes))
	for i, recipe := range recipes {
		models[i] = recipeToModel(recipe)
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "external_id"}}, DoNothing: true}).
		Create(&models)
	if result.Error != nil {
		return 0, common.WithDetail(common.ErrStoreUnavailable, "failed to upsert recipes", result.Error)
	}
	return int(result.RowsAffected), nil
}

// Count 食譜總數
func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RecipeModel{}).Count(&total).Error; err != nil {
		return 0, common.WithDetail(common.ErrStoreUnavailable, "failed to count recipes", err)
	}
	return total, nil
}

// ToggleMark 切換標記，回傳切換後的狀態
func (r *GormRepository) ToggleMark(ctx context.Context, userID, recipeID string, kind MarkKind) (bool, error) {
	var marked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, string(kind)).
			Delete(&RecipeMarkModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			marked = false
			return nil
		}
		marked = true
		return tx.Create(&RecipeMarkModel{UserID: userID, RecipeID: recipeID, Kind: string(kind)}).Error
	})
	if err != nil {
		return false, common.WithDetail(common.ErrStoreUnavailable, "failed to update recipe mark", err)
	}
	return marked, nil
}

// MarkedIDs 取得使用者標記的食譜 ID，最新標記的優先
func (r *GormRepository) MarkedIDs(ctx context.Context, userID string, kind MarkKind) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&RecipeMarkModel{}).
		Where("user_id = ? AND kind = ?", userID, string(kind)).
		Order("created_at DESC").
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to load recipe marks", err)
	}
	return ids, nil
}

func recipeToModel(recipe Recipe) RecipeModel {
	id := recipe.ID
	if id == "" {
		id = uuid.New().String()
	}
	var externalID *string
	if recipe.ExternalID != "" {
		ext := recipe.ExternalID
		externalID = &ext
	}
	return RecipeModel{
		ID:           id,
		ExternalID:   externalID,
		Title:        recipe.Title,
		Description:  recipe.Description,
		ImageURL:     recipe.Image,
		TotalTime:    recipe.Time,
		PrepTime:     recipe.PrepTime,
		Calories:     recipe.Calories,
		Servings:     recipe.Servings,
		Ingredients:  database.StringList(recipe.Ingredients),
		Instructions: database.StringList(recipe.Instructions),
		Nutrition:    database.NewJSONColumn(recipe.Nutrition),
		Tags:         database.StringList(recipe.Tags),
		Cuisine:      recipe.Cuisine,
		DietType:     database.StringList(recipe.DietType),
		Equipment:    database.StringList(recipe.Equipment),
		Difficulty:   recipe.Difficulty,
		Rating:       recipe.Rating,
	}
}

func modelToRecipe(model *RecipeModel) Recipe {
	externalID := ""
	if model.ExternalID != nil {
		externalID = *model.ExternalID
	}
	return Recipe{
		ID:           model.ID,
		ExternalID:   externalID,
		Title:        model.Title,
		Description:  model.Description,
		Image:        model.ImageURL,
		Time:         model.TotalTime,
		PrepTime:     model.PrepTime,
		Calories:     model.Calories,
		Servings:     model.Servings,
		Ingredients:  nonNil(model.Ingredients),
		Instructions: nonNil(model.Instructions),
		Nutrition:    model.Nutrition.Data,
		Tags:         nonNil(model.Tags),
		Cuisine:      model.Cuisine,
		DietType:     nonNil(model.DietType),
		Equipment:    nonNil(model.Equipment),
		Difficulty:   model.Difficulty,
		Rating:       model.Rating,
	}
}

func modelsToRecipes(models []RecipeModel) []Recipe {
	recipes := make([]Recipe, len(models))
	for i := range models {
		recipes[i] = modelToRecipe(&models[i])
	}
	return recipes
}

func nonNil(list database.StringList) []string {
	if list == nil {
		return []string{}
	}
	return []string(list)
}
