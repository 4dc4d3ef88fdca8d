package openai

import (
	"context"
	"fmt"
	"net/http"

	"recipe-globe/internal/core/ai/provider"
	"recipe-globe/internal/infrastructure/config"
	"recipe-globe/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OpenAI 客戶端，同時提供文字與圖片生成
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建 OpenAI 客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL("https://api.openai.com/v1").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenAI.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.OpenAI.Timeout)

	return &Client{
		config: cfg,
		client: client,
	}
}

// Model 獲取當前使用的模型名稱
func (c *Client) Model() string {
	return c.config.OpenAI.Model
}

// Chat 呼叫 chat completions 產生文字回應
func (c *Client) Chat(ctx context.Context, req *provider.ChatRequest) (string, error) {
	if c.config.OpenAI.APIKey == "" {
		return "", fmt.Errorf("missing OPENAI_API_KEY")
	}

	// 構建請求
	body := map[string]interface{}{
		"model": c.config.OpenAI.Model,
		"messages": []map[string]string{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.User},
		},
		"temperature": req.Temperature,
		"max_tokens":  c.config.OpenAI.MaxTokens,
	}
	if req.JSONMode {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	// 發送請求
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenAI: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenAI API returned error: %s", resp.String())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	content := result.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("OpenAI returned an empty response")
	}

	common.LogDebug("OpenAI chat 回應",
		zap.Int("content_length", len(content)),
		zap.String("model", c.config.OpenAI.Model),
	)

	return content, nil
}

// CreateImage 呼叫 images API 產生一張圖片
func (c *Client) CreateImage(ctx context.Context, req *provider.ImageRequest) (*provider.ImageResult, error) {
	if c.config.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	body := map[string]interface{}{
		"model":  c.config.OpenAI.ImageModel,
		"prompt": req.Prompt,
		"size":   req.Size,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/images/generations")

	if err != nil {
		return nil, fmt.Errorf("failed to send request to OpenAI: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("OpenAI image API returned error: %s", resp.String())
	}

	var result struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
			URL     string `json:"url"`
		} `json:"data"`
	}

	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI image response: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no data in OpenAI image response")
	}

	return &provider.ImageResult{
		B64JSON: result.Data[0].B64JSON,
		URL:     result.Data[0].URL,
	}, nil
}
