// Package ai 依設定建立 LLM 提供者
package ai

import (
	"context"
	"fmt"
	"strings"

	"meal-planner/internal/core/ai/gemini"
	"meal-planner/internal/core/ai/openrouter"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"
)

// NewProvider 依 ai.provider 建立提供者
func NewProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	switch strings.ToLower(cfg.AI.Provider) {
	case "", openrouter.Name:
		if cfg.OpenRouter.APIKey == "" {
			return nil, fmt.Errorf("openrouter api key is not configured")
		}
		return openrouter.NewClient(cfg.OpenRouter, cfg.AI.Timeout), nil
	case gemini.Name:
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("gemini api key is not configured")
		}
		return gemini.NewClient(ctx, cfg.Gemini)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}
