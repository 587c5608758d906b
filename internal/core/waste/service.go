package waste

import (
	"context"
	"sync"
	"time"

	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// LogResult 新增紀錄的結果
type LogResult struct {
	Log      Log           `json:"log"`
	Unlocked []Achievement `json:"unlocked_achievements"`
	Totals   Totals        `json:"totals"`
}

// Service 減廢追蹤服務
type Service struct {
	store    Store
	validate *validator.Validate
	metrics  *metrics.Collector
	now      func() time.Time
	newID    func() string

	// 同一使用者的讀取-更新-寫入需序列化
	mu sync.Mutex
}

// NewService 創建減廢追蹤服務
func NewService(store Store, collector *metrics.Collector) *Service {
	return &Service{
		store:    store,
		validate: validator.New(),
		metrics:  collector,
		now:      time.Now,
		newID:    common.GenerateUUID,
	}
}

// load 由儲存還原使用者的追蹤器
func (s *Service) load(ctx context.Context, userID string) (*Tracker, error) {
	logs, err := s.store.Logs(ctx, userID)
	if err != nil {
		return nil, err
	}
	achievements, err := s.store.Achievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	t := RestoreTracker(logs, achievements)
	t.now = s.now
	t.newID = s.newID
	return t, nil
}

// AddLog 新增減廢紀錄並更新成就
func (s *Service) AddLog(ctx context.Context, userID string, in LogInput) (*LogResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, common.NewValidationError("invalid parameter: " + err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tracker, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	log, unlocked := tracker.AddLog(in)
	if err := s.store.SaveLog(ctx, userID, log, tracker.Achievements()); err != nil {
		return nil, err
	}

	s.metrics.WasteLogged(len(unlocked))
	for _, a := range unlocked {
		common.LogInfo("成就解鎖",
			zap.String("user_id", userID),
			zap.String("achievement", a.Title),
		)
	}

	return &LogResult{Log: log, Unlocked: unlocked, Totals: tracker.Totals()}, nil
}

// Logs 取得所有紀錄
func (s *Service) Logs(ctx context.Context, userID string) ([]Log, error) {
	return s.store.Logs(ctx, userID)
}

// Totals 取得累計效益
func (s *Service) Totals(ctx context.Context, userID string) (Totals, error) {
	tracker, err := s.load(ctx, userID)
	if err != nil {
		return Totals{}, err
	}
	return tracker.Totals(), nil
}

// Achievements 取得成就狀態
func (s *Service) Achievements(ctx context.Context, userID string) ([]Achievement, error) {
	tracker, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tracker.Achievements(), nil
}

// WeeklyStats 最近 7 天統計
func (s *Service) WeeklyStats(ctx context.Context, userID string) (WeeklyStats, error) {
	tracker, err := s.load(ctx, userID)
	if err != nil {
		return WeeklyStats{}, err
	}
	return tracker.WeeklyStats(s.now()), nil
}

// MonthlyProgress 最近 30 天進度
func (s *Service) MonthlyProgress(ctx context.Context, userID string) (MonthlyProgress, error) {
	tracker, err := s.load(ctx, userID)
	if err != nil {
		return MonthlyProgress{}, err
	}
	return tracker.MonthlyProgress(s.now()), nil
}
