package recipe

import (
	"fmt"
	"strings"

	"recipe-globe/internal/pkg/common"

	"go.uber.org/zap"
)

// ParseModelRecipe 將模型輸出強制轉為 Recipe。非法 JSON 或空內容是硬
// 錯誤；合法 JSON 但欄位缺漏只會留下零值，由呼叫端決定回填策略。
func ParseModelRecipe(content string) (*Recipe, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty model response")
	}

	// 模型偶爾在 JSON 前後夾雜文字或漏掉鍵的引號，先修補再嚴格解析
	cleaned := common.ExtractJSONObject(content)

	var payload modelRecipePayload
	if err := common.ParseJSON(cleaned, &payload); err != nil {
		if retryErr := common.ParseJSON(common.QuoteJSONKeys(cleaned), &payload); retryErr != nil {
			common.LogDebug("模型輸出無法解析",
				zap.Int("content_length", len(content)),
				zap.Error(err),
			)
			return nil, fmt.Errorf("failed to parse model response: %w", err)
		}
	}

	return &Recipe{
		Name:               strings.TrimSpace(string(payload.RecipeName)),
		Description:        strings.TrimSpace(string(payload.Description)),
		Ingredients:        payload.Ingredients.strings(),
		Steps:              payload.Steps,
		CulturalBackground: strings.TrimSpace(string(payload.CulturalBackground)),
		ImagePrompt:        strings.TrimSpace(string(payload.ImagePrompt)),
		Location:           strings.TrimSpace(string(payload.Location)),
		Substitutions:      normalizeSubstitutions(payload.Substitutions),
	}, nil
}

// normalizeSubstitutions 將替換映射的鍵通過 NormalizeIngredientKey，
// 與查找時使用同一個函數，否則比對會默默失敗。空鍵或空值整條丟棄。
func normalizeSubstitutions(raw map[string]swapList) map[string][]string {
	if len(raw) == 0 {
		return nil
	}

	out := make(map[string][]string, len(raw))
	for rawKey, swaps := range raw {
		key := NormalizeIngredientKey(rawKey)
		if key == "" || len(swaps) == 0 {
			continue
		}
		out[key] = swaps
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SubstitutionsFor 以正規化鍵查找某食材顯示字串的替換建議；無比對回傳 nil
func (r *Recipe) SubstitutionsFor(rawIngredient string) []string {
	if r == nil || len(r.Substitutions) == 0 {
		return nil
	}
	key := NormalizeIngredientKey(rawIngredient)
	if key == "" {
		return nil
	}
	return r.Substitutions[key]
}

// ApplyLocationDefaults 為缺漏欄位套上以地點為底的模板預設值（首次生成用）
func (r *Recipe) ApplyLocationDefaults(location string) {
	if r.Name == "" {
		r.Name = "Regional Dish"
	}
	if r.Description == "" {
		r.Description = fmt.Sprintf("A staple dish from %s.", location)
	}
	if r.CulturalBackground == "" {
		r.CulturalBackground = fmt.Sprintf("A taste of %s.", location)
	}
	r.Location = location
}

// ApplyRecipeDefaults 以原始食譜回填缺漏欄位（替換操作用，與首次生成的
// 模板回填不同：這裡是編輯，缺漏代表模型沒動到該欄位）
func (r *Recipe) ApplyRecipeDefaults(original *Recipe) {
	location := original.Location
	if location == "" {
		location = "this region"
	}

	if r.Name == "" {
		name := original.Name
		if name == "" {
			name = "Recipe"
		}
		r.Name = fmt.Sprintf("%s (adapted)", name)
	}
	if r.Description == "" {
		r.Description = original.Description
	}
	if len(r.Ingredients) == 0 {
		r.Ingredients = original.Ingredients
	}
	if len(r.Steps) == 0 {
		r.Steps = original.Steps
	}
	if r.CulturalBackground == "" {
		r.CulturalBackground = original.CulturalBackground
		if r.CulturalBackground == "" {
			r.CulturalBackground = fmt.Sprintf("Adapted from %s", location)
		}
	}
	if r.ImagePrompt == "" {
		r.ImagePrompt = original.ImagePrompt
	}
	if r.Location == "" {
		r.Location = location
	}
	if len(r.Substitutions) == 0 {
		r.Substitutions = original.Substitutions
	}
}
