package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-globe/internal/core/ai/cache"
	"recipe-globe/internal/core/ai/provider"
	"recipe-globe/internal/infrastructure/config"
	"recipe-globe/internal/pkg/common"
)

// Response AI 回應結構
type Response struct {
	Content  string
	CacheHit bool
}

// Service AI 服務，在提供者外包一層快取
type Service struct {
	config *config.Config
	text   provider.TextProvider
	image  provider.ImageProvider
	store  cache.Store
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, text provider.TextProvider, image provider.ImageProvider, store cache.Store) (*Service, error) {
	if text == nil || image == nil {
		return nil, fmt.Errorf("ai providers are required")
	}

	return &Service{
		config: cfg,
		text:   text,
		image:  image,
		store:  store,
	}, nil
}

// GenerateText 產生文字回應，相同請求命中快取時不再呼叫上游
func (s *Service) GenerateText(ctx context.Context, req *provider.ChatRequest) (*Response, error) {
	// 統一 prompt 空白，確保快取 key 一致
	key := cache.Key(
		"chat",
		s.text.Model(),
		canonicalPrompt(req.System),
		canonicalPrompt(req.User),
		fmt.Sprintf("%.2f", req.Temperature),
	)

	if s.store != nil {
		if val, err := s.store.Get(ctx, key); err == nil && val != "" {
			return &Response{Content: val, CacheHit: true}, nil
		}
	}

	start := time.Now()
	content, err := s.text.Chat(ctx, req)
	common.LogUpstreamCall("openai_chat", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		_ = s.store.Set(ctx, key, content)
	}

	return &Response{Content: content}, nil
}

// GenerateImage 產生圖片；圖片生成不走快取，重複的 prompt 本來就該得到新圖
func (s *Service) GenerateImage(ctx context.Context, req *provider.ImageRequest) (*provider.ImageResult, error) {
	start := time.Now()
	result, err := s.image.CreateImage(ctx, req)
	common.LogUpstreamCall("openai_image", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// canonicalPrompt 去除多餘空白與換行
func canonicalPrompt(prompt string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(prompt)), " ")
}
