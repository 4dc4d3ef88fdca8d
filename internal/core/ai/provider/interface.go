package provider

import (
	"context"
)

// ChatRequest 表示發送到文字生成提供者的請求
type ChatRequest struct {
	System      string  `json:"system"`
	User        string  `json:"user"`
	Temperature float64 `json:"temperature"`
	JSONMode    bool    `json:"json_mode"`
}

// ImageRequest 表示發送到圖片生成提供者的請求
type ImageRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

// ImageResult 圖片生成結果，內嵌 base64 或可取回的 URL 至少有一項
type ImageResult struct {
	B64JSON string `json:"b64_json,omitempty"`
	URL     string `json:"url,omitempty"`
}

// TextProvider 定義文字生成提供者介面
type TextProvider interface {
	// Chat 產生一段文字回應
	Chat(ctx context.Context, req *ChatRequest) (string, error)

	// Model 獲取當前使用的模型名稱
	Model() string
}

// ImageProvider 定義圖片生成提供者介面
type ImageProvider interface {
	// CreateImage 產生一張圖片
	CreateImage(ctx context.Context, req *ImageRequest) (*ImageResult, error)
}
