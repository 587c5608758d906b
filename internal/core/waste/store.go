package waste

import (
	"context"
	"time"

	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 減廢紀錄存取介面
type Store interface {
	Logs(ctx context.Context, userID string) ([]Log, error)
	Achievements(ctx context.Context, userID string) ([]Achievement, error)
	SaveLog(ctx context.Context, userID string, log Log, achievements []Achievement) error
}

// LogModel 減廢紀錄資料表
type LogModel struct {
	ID          string              `gorm:"primaryKey;size:36"`
	UserID      string              `gorm:"index;size:64;not null"`
	Date        time.Time           `gorm:"index"`
	SavedItems  database.StringList `gorm:"type:json"`
	WastedItems database.StringList `gorm:"type:json"`
	MealPlanID  string              `gorm:"size:36"`
	CO2Saved    float64
	WaterSaved  float64
	MoneySaved  float64
	CreatedAt   time.Time
}

// TableName 資料表名稱
func (LogModel) TableName() string {
	return "waste_logs"
}

// AchievementModel 使用者成就狀態
type AchievementModel struct {
	UserID        string `gorm:"primaryKey;size:64"`
	AchievementID string `gorm:"primaryKey;size:16"`
	Progress      float64
	Completed     bool
	DateCompleted *time.Time
	UpdatedAt     time.Time
}

// TableName 資料表名稱
func (AchievementModel) TableName() string {
	return "waste_achievements"
}

// Models 需要遷移的資料表
func Models() []interface{} {
	return []interface{}{&LogModel{}, &AchievementModel{}}
}

func (m LogModel) toLog() Log {
	return Log{
		ID:          m.ID,
		Date:        m.Date,
		SavedItems:  []string(m.SavedItems),
		WastedItems: []string(m.WastedItems),
		MealPlanID:  m.MealPlanID,
		Impact: Impact{
			CO2Saved:   m.CO2Saved,
			WaterSaved: m.WaterSaved,
			MoneySaved: m.MoneySaved,
		},
	}
}

// GormStore 以 gorm 實作的減廢紀錄儲存
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 創建儲存
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Logs 取得使用者所有紀錄，依日期排序
func (s *GormStore) Logs(ctx context.Context, userID string) ([]Log, error) {
	var models []LogModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&models).Error
	if err != nil {
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to load waste logs", err)
	}

	logs := make([]Log, len(models))
	for i, m := range models {
		logs[i] = m.toLog()
	}
	return logs, nil
}

// Achievements 取得使用者已儲存的成就狀態
func (s *GormStore) Achievements(ctx context.Context, userID string) ([]Achievement, error) {
	var models []AchievementModel
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&models).Error; err != nil {
		return nil, common.WithDetail(common.ErrStoreUnavailable, "failed to load achievements", err)
	}

	achievements := make([]Achievement, len(models))
	for i, m := range models {
		achievements[i] = Achievement{
			ID:            m.AchievementID,
			Progress:      m.Progress,
			Completed:     m.Completed,
			DateCompleted: m.DateCompleted,
		}
	}
	return achievements, nil
}

// SaveLog 在同一交易中寫入紀錄並更新成就
func (s *GormStore) SaveLog(ctx context.Context, userID string, log Log, achievements []Achievement) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := LogModel{
			ID:          log.ID,
			UserID:      userID,
			Date:        log.Date,
			SavedItems:  database.StringList(log.SavedItems),
			WastedItems: database.StringList(log.WastedItems),
			MealPlanID:  log.MealPlanID,
			CO2Saved:    log.Impact.CO2Saved,
			WaterSaved:  log.Impact.WaterSaved,
			MoneySaved:  log.Impact.MoneySaved,
		}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}

		if len(achievements) == 0 {
			return nil
		}
		rows := make([]AchievementModel, len(achievements))
		for i, a := range achievements {
			rows[i] = AchievementModel{
				UserID:        userID,
				AchievementID: a.ID,
				Progress:      a.Progress,
				Completed:     a.Completed,
				DateCompleted: a.DateCompleted,
			}
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"progress", "completed", "date_completed", "updated_at"}),
		}).Create(&rows).Error
	})
	if err != nil {
		return common.WithDetail(common.ErrStoreUnavailable, "failed to save waste log", err)
	}
	return nil
}
