package recipe

import (
	"context"
	"fmt"
	"strings"

	"recipe-globe/internal/core/ai/provider"
	"recipe-globe/internal/pkg/common"

	"go.uber.org/zap"
)

// SubstituteService 食材替換服務
type SubstituteService struct {
	generator TextGenerator
}

// NewSubstituteService 創建食材替換服務
func NewSubstituteService(generator TextGenerator) *SubstituteService {
	return &SubstituteService{
		generator: generator,
	}
}

// Substitute 將食譜中的一項食材換成另一項，回傳調整後的新食譜；原
// 食譜不會被就地修改，模型漏掉的欄位以原食譜欄位回填
func (s *SubstituteService) Substitute(ctx context.Context, original *Recipe, replaceIngredient, newIngredient string) (*Recipe, error) {
	// 驗證先於任何下游呼叫
	if original == nil || len(original.Ingredients) == 0 || len(original.Steps) == 0 {
		return nil, common.NewValidationError("recipe with ingredients and steps is required")
	}
	replaceIngredient = strings.TrimSpace(replaceIngredient)
	newIngredient = strings.TrimSpace(newIngredient)
	if replaceIngredient == "" || newIngredient == "" {
		return nil, common.NewValidationError("replaceIngredient and newIngredient are required")
	}

	serialized, err := common.ToJSON(original)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize recipe: %w", err)
	}

	common.LogInfo("開始處理食材替換",
		zap.String("recipe_name", original.Name),
		zap.String("replace", replaceIngredient),
		zap.String("with", newIngredient),
	)

	prompt := fmt.Sprintf(
		"You are adapting a recipe to swap one ingredient. "+
			"Original recipe JSON: %s "+
			"Swap %q with %q. "+
			"Return JSON with recipeName, description, ingredients (include quantities/units), steps, culturalBackground, imagePrompt, location, substitutions. "+
			"Preserve the spirit of the dish and adjust steps or amounts as needed for the substitution. "+
			"Respond with minified JSON only.",
		serialized, replaceIngredient, newIngredient,
	)

	resp, err := s.generator.GenerateText(ctx, &provider.ChatRequest{
		System:      "You are a helpful culinary adapter. Respond ONLY with valid JSON matching the requested fields. Keep quantities realistic and steps concise.",
		User:        prompt,
		Temperature: substituteTemperature,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("AI service error: %w", err)
	}

	adapted, err := ParseModelRecipe(resp.Content)
	if err != nil {
		return nil, err
	}
	adapted.ApplyRecipeDefaults(original)

	common.LogInfo("食材替換成功",
		zap.String("recipe_name", adapted.Name),
		zap.Bool("cache_hit", resp.CacheHit),
	)

	return adapted, nil
}
