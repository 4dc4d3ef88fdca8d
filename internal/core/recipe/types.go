package recipe

import (
	"encoding/json"
	"strings"
)

// Recipe 食譜傳輸物件，每次請求重新生成，後端不保存狀態
type Recipe struct {
	Name               string              `json:"recipeName"`
	Description        string              `json:"description"`
	Ingredients        []string            `json:"ingredients"`
	Steps              []string            `json:"steps"`
	CulturalBackground string              `json:"culturalBackground"`
	ImagePrompt        string              `json:"imagePrompt,omitempty"`
	Location           string              `json:"location,omitempty"`
	Substitutions      map[string][]string `json:"substitutions,omitempty"`
}

// modelRecipePayload 模型回傳的原始食譜，欄位形狀不可信
type modelRecipePayload struct {
	RecipeName         flexString          `json:"recipeName"`
	Description        flexString          `json:"description"`
	Ingredients        ingredientList      `json:"ingredients"`
	Steps              stepList            `json:"steps"`
	CulturalBackground flexString          `json:"culturalBackground"`
	ImagePrompt        flexString          `json:"imagePrompt"`
	Location           flexString          `json:"location"`
	Substitutions      map[string]swapList `json:"substitutions"`
}

// flexString 寬鬆字串欄位：接受字串或數字，其他形狀視為缺漏
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = flexString(num.String())
		return nil
	}
	*s = ""
	return nil
}

// ingredientEntry 食材項的兩種形狀：純字串，或帶別名欄位的物件。
// 物件欄位別名：品項 ingredient|name|item、數量 amount|quantity、單位 unit。
type ingredientEntry struct {
	display string
}

// ingredientObject 物件型食材的別名表
type ingredientObject struct {
	Ingredient flexString `json:"ingredient"`
	Name       flexString `json:"name"`
	Item       flexString `json:"item"`
	Amount     flexString `json:"amount"`
	Quantity   flexString `json:"quantity"`
	Unit       flexString `json:"unit"`
}

func (e *ingredientEntry) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		e.display = strings.TrimSpace(str)
		return nil
	}

	var obj ingredientObject
	if err := json.Unmarshal(data, &obj); err != nil {
		// 非字串也非物件的項目直接丟棄
		e.display = ""
		return nil
	}

	item := firstNonEmpty(string(obj.Ingredient), string(obj.Name), string(obj.Item))
	quantity := firstNonEmpty(string(obj.Amount), string(obj.Quantity))
	unit := string(obj.Unit)

	// 只串接存在的部分，以單一空格分隔
	var parts []string
	for _, p := range []string{quantity, unit, item} {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	e.display = strings.Join(parts, " ")
	return nil
}

// ingredientList 食材序列；欄位整體不是陣列時視為缺漏
type ingredientList []ingredientEntry

func (l *ingredientList) UnmarshalJSON(data []byte) error {
	var entries []ingredientEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		*l = nil
		return nil
	}
	*l = entries
	return nil
}

// strings 轉為顯示字串序列，保序並丟棄空項
func (l ingredientList) strings() []string {
	var out []string
	for _, entry := range l {
		if entry.display != "" {
			out = append(out, entry.display)
		}
	}
	return out
}

// stepList 步驟序列；順序有意義，元素逐一轉字串，空項丟棄
type stepList []string

func (l *stepList) UnmarshalJSON(data []byte) error {
	var entries []flexString
	if err := json.Unmarshal(data, &entries); err != nil {
		*l = nil
		return nil
	}
	var out []string
	for _, entry := range entries {
		step := strings.TrimSpace(string(entry))
		if step != "" {
			out = append(out, step)
		}
	}
	*l = out
	return nil
}

// swapList 替換建議：接受單一值或序列，統一為非空字串序列
type swapList []string

func (l *swapList) UnmarshalJSON(data []byte) error {
	var single flexString
	if err := json.Unmarshal(data, &single); err == nil {
		// 先修剪再判空，純空白的單一值視同缺漏
		if swap := strings.TrimSpace(string(single)); swap != "" {
			*l = []string{swap}
			return nil
		}
	}

	var entries []flexString
	if err := json.Unmarshal(data, &entries); err != nil {
		*l = nil
		return nil
	}
	var out []string
	for _, entry := range entries {
		swap := strings.TrimSpace(string(entry))
		if swap != "" {
			out = append(out, swap)
		}
	}
	*l = out
	return nil
}

// firstNonEmpty 依序回傳第一個非空字串
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
