package recipe

import (
	"regexp"
	"strings"
)

// unitWords 數量單位與常見修飾詞的封閉集合，正規化時整詞移除
var unitWords = map[string]struct{}{
	"cup": {}, "cups": {},
	"tablespoon": {}, "tablespoons": {}, "tbsp": {},
	"teaspoon": {}, "teaspoons": {}, "tsp": {},
	"kg": {}, "g": {}, "gram": {}, "grams": {},
	"ml": {}, "l": {}, "liter": {}, "liters": {},
	"pound": {}, "pounds": {}, "lb": {}, "lbs": {},
	"ounce": {}, "ounces": {}, "oz": {},
	"pinch": {}, "dash": {},
	"medium": {}, "large": {}, "small": {},
	"clove": {}, "cloves": {},
	"piece": {}, "pieces": {},
	"can": {}, "cans": {},
	"slice": {}, "slices": {},
}

var (
	quantityPattern  = regexp.MustCompile(`[\d/.,-]+`)
	nonLetterPattern = regexp.MustCompile(`[^a-z\s]`)
)

// NormalizeIngredientKey 將食材字串正規化為比對鍵：小寫、去除數量與
// 單位詞、僅保留字母、空白收斂為單一空格。結果可能為空字串，呼叫端
// 需將空鍵視為「無法比對」。
//
// 正規化是刻意粗粒度的："large onion" 與 "small onion" 都會落在
// "onion"，不同食材共用同一鍵時以整鍵覆蓋處理。
func NormalizeIngredientKey(input string) string {
	key := strings.ToLower(input)
	key = quantityPattern.ReplaceAllString(key, " ")
	key = nonLetterPattern.ReplaceAllString(key, " ")

	words := strings.Fields(key)
	kept := words[:0]
	for _, word := range words {
		if _, isUnit := unitWords[word]; isUnit {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
