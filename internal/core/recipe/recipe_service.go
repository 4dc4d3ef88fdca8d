package recipe

import (
	"context"
	"fmt"
	"math"

	"recipe-globe/internal/core/ai/provider"
	"recipe-globe/internal/core/ai/service"
	"recipe-globe/internal/core/geo"
	"recipe-globe/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	// fetchTemperature 首次生成取較高溫度，重視多樣性
	fetchTemperature = 0.7
	// substituteTemperature 替換屬於編輯，取較低溫度重視一致性
	substituteTemperature = 0.4
)

// systemPrompt 固定的系統框架：只回 JSON，不夾雜說明文字
const systemPrompt = "You are a culinary guide. Respond ONLY with minified JSON and no extra commentary. Keep recipes approachable and culturally authentic."

// Geocoder 反向地理編碼介面
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*geo.GeocodeResult, error)
}

// TextGenerator 文字生成介面
type TextGenerator interface {
	GenerateText(ctx context.Context, req *provider.ChatRequest) (*service.Response, error)
}

// Service 依地點生成食譜的服務
type Service struct {
	geocoder  Geocoder
	generator TextGenerator
}

// NewService 創建食譜生成服務
func NewService(geocoder Geocoder, generator TextGenerator) *Service {
	return &Service{
		geocoder:  geocoder,
		generator: generator,
	}
}

// FetchRecipe 依經緯度生成在地食譜：反向地理編碼 → 組 prompt → 呼叫
// 模型 → 強制轉型 → 回填地點預設值
func (s *Service) FetchRecipe(ctx context.Context, lat, lng float64) (*Recipe, error) {
	// 驗證先於任何下游呼叫
	if !isFinite(lat) || !isFinite(lng) {
		return nil, common.NewValidationError("lat and lng must be finite numbers")
	}

	geocoded, err := s.geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode failed: %w", err)
	}
	location := geocoded.Label()

	common.LogInfo("開始生成在地食譜",
		zap.Float64("lat", lat),
		zap.Float64("lng", lng),
		zap.String("location", location),
	)

	prompt := fmt.Sprintf(
		"Give me a traditional popular recipe from %s. "+
			"Return JSON with recipeName, description, ingredients, steps, culturalBackground, imagePrompt, substitutions. "+
			"Ingredients should be short bullet-ready strings that include quantity and unit. "+
			"Steps should be concise, ordered actions. "+
			"substitutions should map ingredient names to 2-3 common pantry-friendly swaps. "+
			"Avoid alcohol unless it is central to the dish.",
		location,
	)

	resp, err := s.generator.GenerateText(ctx, &provider.ChatRequest{
		System:      systemPrompt,
		User:        prompt,
		Temperature: fetchTemperature,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("AI service error: %w", err)
	}

	result, err := ParseModelRecipe(resp.Content)
	if err != nil {
		return nil, err
	}
	result.ApplyLocationDefaults(location)

	common.LogInfo("食譜生成成功",
		zap.String("recipe_name", result.Name),
		zap.String("location", location),
		zap.Bool("cache_hit", resp.CacheHit),
	)

	return result, nil
}

// isFinite 檢查是否為有限實數
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
