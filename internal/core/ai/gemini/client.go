// Package gemini 以 Google Gemini 作為 LLM 提供者
package gemini

import (
	"context"
	"fmt"
	"strings"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Name 提供者名稱
const Name = "gemini"

const defaultModel = "gemini-1.5-flash"

// Client Gemini 客戶端
type Client struct {
	client *genai.Client
	model  string
}

// NewClient 創建 Gemini 客戶端
func NewClient(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{client: client, model: model}, nil
}

// Name 提供者名稱
func (c *Client) Name() string {
	return Name
}

// Generate 系統訊息放入 SystemInstruction，其餘訊息合併為單一提示
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	model := c.client.GenerativeModel(c.model)
	if req.JSONMode {
		model.ResponseMIMEType = "application/json"
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.Temperature > 0 {
		model.SetTemperature(float32(req.Temperature))
	}

	var system, user []string
	for _, msg := range req.Messages {
		if msg.Role == provider.RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		user = append(user, msg.Content)
	}
	if len(system) > 0 {
		model.SystemInstruction = genai.NewUserContent(genai.Text(strings.Join(system, "\n")))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(strings.Join(user, "\n\n")))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("generated content is not text")
	}

	out := &provider.Response{Content: string(text)}
	if resp.UsageMetadata != nil {
		out.Usage = provider.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

// Close 關閉 Gemini 客戶端
func (c *Client) Close() error {
	return c.client.Close()
}
