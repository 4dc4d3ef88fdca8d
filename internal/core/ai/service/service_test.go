package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-globe/internal/core/ai/cache"
	"recipe-globe/internal/core/ai/provider"
	"recipe-globe/internal/infrastructure/config"
	"recipe-globe/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	common.Logger = zap.NewNop()
}

// stubText 測試用文字提供者
type stubText struct {
	content string
	err     error
	calls   int
}

func (s *stubText) Chat(ctx context.Context, req *provider.ChatRequest) (string, error) {
	s.calls++
	return s.content, s.err
}

func (s *stubText) Model() string { return "test-model" }

// stubImage 測試用圖片提供者
type stubImage struct {
	result *provider.ImageResult
	err    error
	calls  int
}

func (s *stubImage) CreateImage(ctx context.Context, req *provider.ImageRequest) (*provider.ImageResult, error) {
	s.calls++
	return s.result, s.err
}

func newTestStore(t *testing.T) cache.Store {
	t.Helper()
	store, err := cache.New(&config.Config{Cache: config.CacheConfig{
		Enabled:         true,
		Backend:         "memory",
		MaxSize:         100,
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	}})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGenerateText(t *testing.T) {
	ctx := context.Background()
	req := &provider.ChatRequest{System: "system", User: "user", Temperature: 0.7, JSONMode: true}

	t.Run("requires providers", func(t *testing.T) {
		_, err := NewService(&config.Config{}, nil, &stubImage{}, nil)
		assert.Error(t, err)
		_, err = NewService(&config.Config{}, &stubText{}, nil, nil)
		assert.Error(t, err)
	})

	t.Run("works without a store", func(t *testing.T) {
		text := &stubText{content: "hello"}
		svc, err := NewService(&config.Config{}, text, &stubImage{}, nil)
		require.NoError(t, err)

		resp, err := svc.GenerateText(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "hello", resp.Content)
		assert.False(t, resp.CacheHit)
		assert.Equal(t, 1, text.calls)
	})

	t.Run("repeated request hits the cache", func(t *testing.T) {
		text := &stubText{content: "cached answer"}
		svc, err := NewService(&config.Config{}, text, &stubImage{}, newTestStore(t))
		require.NoError(t, err)

		first, err := svc.GenerateText(ctx, req)
		require.NoError(t, err)
		assert.False(t, first.CacheHit)

		second, err := svc.GenerateText(ctx, req)
		require.NoError(t, err)
		assert.True(t, second.CacheHit)
		assert.Equal(t, "cached answer", second.Content)
		assert.Equal(t, 1, text.calls)
	})

	t.Run("prompt whitespace does not split the cache key", func(t *testing.T) {
		text := &stubText{content: "answer"}
		svc, err := NewService(&config.Config{}, text, &stubImage{}, newTestStore(t))
		require.NoError(t, err)

		_, err = svc.GenerateText(ctx, &provider.ChatRequest{System: "sys", User: "give me  a\nrecipe", Temperature: 0.7})
		require.NoError(t, err)

		resp, err := svc.GenerateText(ctx, &provider.ChatRequest{System: "sys", User: "  give me a recipe ", Temperature: 0.7})
		require.NoError(t, err)
		assert.True(t, resp.CacheHit)
		assert.Equal(t, 1, text.calls)
	})

	t.Run("different temperature misses the cache", func(t *testing.T) {
		text := &stubText{content: "answer"}
		svc, err := NewService(&config.Config{}, text, &stubImage{}, newTestStore(t))
		require.NoError(t, err)

		_, err = svc.GenerateText(ctx, &provider.ChatRequest{User: "u", Temperature: 0.7})
		require.NoError(t, err)
		_, err = svc.GenerateText(ctx, &provider.ChatRequest{User: "u", Temperature: 0.4})
		require.NoError(t, err)
		assert.Equal(t, 2, text.calls)
	})

	t.Run("upstream error propagates and is not cached", func(t *testing.T) {
		text := &stubText{err: errors.New("OpenAI API returned error")}
		svc, err := NewService(&config.Config{}, text, &stubImage{}, newTestStore(t))
		require.NoError(t, err)

		_, err = svc.GenerateText(ctx, req)
		require.Error(t, err)
		_, err = svc.GenerateText(ctx, req)
		require.Error(t, err)
		assert.Equal(t, 2, text.calls)
	})
}

func TestGenerateImage(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to the image provider", func(t *testing.T) {
		image := &stubImage{result: &provider.ImageResult{URL: "http://x/y.png"}}
		svc, err := NewService(&config.Config{}, &stubText{}, image, nil)
		require.NoError(t, err)

		result, err := svc.GenerateImage(ctx, &provider.ImageRequest{Prompt: "a red apple", Size: "1024x1024"})
		require.NoError(t, err)
		assert.Equal(t, "http://x/y.png", result.URL)
	})

	t.Run("image generation bypasses the cache", func(t *testing.T) {
		image := &stubImage{result: &provider.ImageResult{URL: "http://x/y.png"}}
		svc, err := NewService(&config.Config{}, &stubText{}, image, newTestStore(t))
		require.NoError(t, err)

		req := &provider.ImageRequest{Prompt: "a red apple", Size: "1024x1024"}
		_, err = svc.GenerateImage(ctx, req)
		require.NoError(t, err)
		_, err = svc.GenerateImage(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 2, image.calls)
	})

	t.Run("provider error propagates", func(t *testing.T) {
		image := &stubImage{err: errors.New("OpenAI image API returned error")}
		svc, err := NewService(&config.Config{}, &stubText{}, image, nil)
		require.NoError(t, err)

		_, err = svc.GenerateImage(ctx, &provider.ImageRequest{Prompt: "a red apple"})
		assert.Error(t, err)
	})
}
