// Package openrouter 以 resty 呼叫 OpenRouter chat completions API
package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Name 提供者名稱
const Name = "openrouter"

const defaultBaseURL = "https://openrouter.ai/api/v1"

type chatRequest struct {
	Model          string             `json:"model"`
	Messages       []provider.Message `json:"messages"`
	MaxTokens      int                `json:"max_tokens,omitempty"`
	Temperature    float64            `json:"temperature,omitempty"`
	ResponseFormat *responseFormat    `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// Client OpenRouter 客戶端
type Client struct {
	client    *resty.Client
	model     string
	maxTokens int
}

// NewClient 創建 OpenRouter 客戶端
func NewClient(cfg config.OpenRouterConfig, timeout time.Duration) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://meal-planner.local").
		SetHeader("X-Title", "Meal Planner")

	return &Client{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Name 提供者名稱
func (c *Client) Name() string {
	return Name
}

// Generate 送出對話並回傳第一個選項的內容
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = c.maxTokens
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var result chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogDebug("OpenRouter 回應錯誤",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", truncate(resp.String(), 200)),
		)
		return nil, fmt.Errorf("OpenRouter API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in OpenRouter response")
	}

	return &provider.Response{
		Content: result.Choices[0].Message.Content,
		Usage:   result.Usage,
	}, nil
}

// Close 釋放資源
func (c *Client) Close() error {
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
