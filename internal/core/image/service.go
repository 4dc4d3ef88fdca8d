package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	_ "image/gif"  // 支援 GIF
	_ "image/jpeg" // 支援 JPEG
	_ "image/png"  // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP

	"recipe-globe/internal/core/ai/provider"
	"recipe-globe/internal/infrastructure/config"
	"recipe-globe/internal/pkg/common"

	"go.uber.org/zap"
)

// Generator 圖片生成介面
type Generator interface {
	GenerateImage(ctx context.Context, req *provider.ImageRequest) (*provider.ImageResult, error)
}

// Service 料理圖片生成服務：呼叫圖片模型並把結果統一為單一
// image source 字串（base64 包成 data URI，URL 原樣通過）
type Service struct {
	generator    Generator
	size         string
	maxSizeBytes int64
}

// NewService 創建圖片生成服務
func NewService(generator Generator, cfg *config.Config) *Service {
	return &Service{
		generator:    generator,
		size:         cfg.Image.Size,
		maxSizeBytes: cfg.Image.MaxSizeBytes,
	}
}

// Generate 依提示詞生成料理圖片，回傳 data URI 或 URL。回應缺少圖片
// 資料是硬錯誤，不回傳佔位圖
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", common.NewValidationError("prompt is required")
	}

	result, err := s.generator.GenerateImage(ctx, &provider.ImageRequest{
		Prompt: prompt,
		Size:   s.size,
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	src, err := s.normalizeSource(result)
	if err != nil {
		return "", err
	}

	common.LogInfo("圖片生成成功",
		zap.Int("prompt_length", len(prompt)),
		zap.String("source_type", sourceType(src)),
	)

	return src, nil
}

// normalizeSource 將模型回應統一為單一 image source 字串
func (s *Service) normalizeSource(result *provider.ImageResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("image response missing data")
	}

	if result.B64JSON != "" {
		if err := s.validateEncoded(result.B64JSON); err != nil {
			return "", err
		}
		return fmt.Sprintf("data:image/png;base64,%s", result.B64JSON), nil
	}

	if strings.HasPrefix(result.URL, "http://") || strings.HasPrefix(result.URL, "https://") {
		return result.URL, nil
	}

	return "", fmt.Errorf("image response missing data")
}

// validateEncoded 檢查 base64 圖片可解碼且未超過大小限制
func (s *Service) validateEncoded(encoded string) error {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("failed to decode base64 image data: %w", err)
	}

	if int64(len(decoded)) > s.maxSizeBytes {
		return fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
	}

	if _, _, err := image.Decode(bytes.NewReader(decoded)); err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	return nil
}

// sourceType 判斷 image source 類型（用於日誌記錄）
func sourceType(src string) string {
	if strings.HasPrefix(src, "data:image/") {
		return "data_uri"
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return "url"
	}
	return "unknown"
}
