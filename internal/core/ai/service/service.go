// Package service AI 文字生成服務：快取、重試與指標
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// SecondLevelCache 二級快取介面
type SecondLevelCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Service AI 服務
type Service struct {
	provider provider.Provider
	memory   *cache.CacheManager
	remote   SecondLevelCache
	config   config.AIConfig
	metrics  *metrics.Collector
}

// NewService 創建 AI 服務，memory 與 remote 皆可為 nil
func NewService(p provider.Provider, memory *cache.CacheManager, remote SecondLevelCache, cfg config.AIConfig, collector *metrics.Collector) *Service {
	return &Service{
		provider: p,
		memory:   memory,
		remote:   remote,
		config:   cfg,
		metrics:  collector,
	}
}

// Generate 先查快取，未命中時呼叫提供者並寫回兩級快取
func (s *Service) Generate(ctx context.Context, system, prompt string) (string, error) {
	return s.GenerateChecked(ctx, system, prompt, nil)
}

// GenerateChecked 與 Generate 相同，但只有通過 accept 的內容才會被回傳與快取
func (s *Service) GenerateChecked(ctx context.Context, system, prompt string, accept func(content string) error) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", common.NewValidationError("prompt is required")
	}

	key := cache.Key(system, prompt)
	if val, fromRemote, ok := s.cached(ctx, key); ok {
		err := check(accept, val)
		if err == nil {
			if fromRemote {
				s.memory.Set(key, val)
			}
			return val, nil
		}
		common.LogWarn("快取內容未通過檢查，重新呼叫 AI", zap.Error(err))
	}

	var content string
	err := common.Retry(ctx, common.RetryPolicy{Attempts: s.config.Retries, Delay: s.config.RetryDelay}, "ai.generate",
		func(ctx context.Context) error {
			var err error
			content, err = s.call(ctx, system, prompt)
			return err
		})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", common.WithDetail(common.ErrGatewayTimeout, "AI provider timed out", err)
		}
		return "", common.WithDetail(common.ErrAIServiceError, "AI provider request failed", err)
	}
	if err := check(accept, content); err != nil {
		return "", err
	}

	s.memory.Set(key, content)
	if s.remote != nil {
		if err := s.remote.Set(ctx, key, content); err != nil {
			common.LogWarn("Redis 快取寫入失敗", zap.Error(err))
		}
	}
	return content, nil
}

// cached 依序查詢記憶體與 Redis 快取
func (s *Service) cached(ctx context.Context, key string) (val string, fromRemote, ok bool) {
	if val, ok := s.memory.Get(key); ok {
		return val, false, true
	}
	if s.remote == nil {
		return "", false, false
	}
	val, ok, err := s.remote.Get(ctx, key)
	switch {
	case err != nil:
		common.LogWarn("Redis 快取讀取失敗", zap.Error(err))
		return "", false, false
	case ok:
		common.LogCacheHit("redis")
		return val, true, true
	default:
		common.LogCacheMiss("redis")
		return "", false, false
	}
}

func check(accept func(content string) error, content string) error {
	if accept == nil {
		return nil
	}
	return accept(content)
}

// call 單次呼叫提供者
func (s *Service) call(ctx context.Context, system, prompt string) (string, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	req := provider.NewRequest(system, prompt)
	req.JSONMode = true

	start := time.Now()
	resp, err := s.provider.Generate(ctx, req)
	if err == nil && strings.TrimSpace(resp.Content) == "" {
		err = errors.New("empty AI response")
	}

	common.LogAICall(s.provider.Name(), time.Since(start), err)
	s.metrics.AIRequest(s.provider.Name(), err)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Close 關閉提供者與記憶體快取
func (s *Service) Close() error {
	memErr := s.memory.Close()
	if err := s.provider.Close(); err != nil {
		return err
	}
	return memErr
}
