package shopping

import (
	"strconv"
	"strings"
)

// FormatQuantity 保留一位小數並去掉多餘的 ".0"
func FormatQuantity(q float64) string {
	s := strconv.FormatFloat(q, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// ScaleIngredient 依份量比例換算食材字串的數量
//
// 比例為 1、份量無效或字串沒有開頭數量時原樣回傳。
func ScaleIngredient(ingredient string, from, to int) string {
	if from <= 0 || to <= 0 || from == to {
		return ingredient
	}

	trimmed := strings.TrimSpace(ingredient)
	qty, rest, ok := splitQuantity(trimmed)
	if !ok {
		return ingredient
	}

	scaled := FormatQuantity(qty * float64(to) / float64(from))
	if rest == "" {
		return scaled
	}
	return scaled + " " + rest
}

// ScaleQuantity 依份量比例換算數量
func ScaleQuantity(q float64, from, to int) float64 {
	if from <= 0 || to <= 0 {
		return q
	}
	return q * float64(to) / float64(from)
}
