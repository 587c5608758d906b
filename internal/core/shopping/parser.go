// Package shopping 食材解析、份量換算、分類與購物清單彙整
package shopping

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultUnit 沒有可辨識單位時使用的單位
const DefaultUnit = "unit"

// Parsed 解析後的食材
type Parsed struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Name     string  `json:"name"`
}

var (
	leadingQuantity = regexp.MustCompile(`^(\d+\s+\d+/\d+|\d+\s*[½⅓⅔¼¾⅛]|\d+/\d+|\d*\.\d+|\d+|[½⅓⅔¼¾⅛])\s*`)
	spaceRun        = regexp.MustCompile(`\s+`)
)

var glyphValues = map[rune]float64{
	'½': 1.0 / 2,
	'⅓': 1.0 / 3,
	'⅔': 2.0 / 3,
	'¼': 1.0 / 4,
	'¾': 3.0 / 4,
	'⅛': 1.0 / 8,
}

var knownUnits = map[string]struct{}{}

func init() {
	for _, u := range []string{
		"cup", "cups", "c",
		"tbsp", "tbsps", "tbs", "tablespoon", "tablespoons",
		"tsp", "tsps", "teaspoon", "teaspoons",
		"oz", "ounce", "ounces", "fl oz",
		"lb", "lbs", "pound", "pounds",
		"g", "gram", "grams", "kg", "kilogram", "kilograms",
		"ml", "milliliter", "milliliters", "l", "liter", "liters", "litre", "litres",
		"quart", "quarts", "qt", "pint", "pints", "pt", "gallon", "gallons",
		"clove", "cloves", "can", "cans", "jar", "jars", "bottle", "bottles",
		"pinch", "pinches", "dash", "dashes",
		"slice", "slices", "piece", "pieces", "stick", "sticks",
		"package", "packages", "pkg", "bunch", "bunches",
		"head", "heads", "sprig", "sprigs", "handful", "handfuls",
	} {
		knownUnits[u] = struct{}{}
	}
}

// IsUnit 是否為已知的烹飪單位
func IsUnit(s string) bool {
	_, ok := knownUnits[strings.TrimSuffix(strings.ToLower(s), ".")]
	return ok
}

// ParseIngredient 解析 "[數量] [單位] 名稱"；只有空白輸入回傳 false
//
// 缺少數量時數量為 1、單位為 "unit"；有數量但單位不在表中時單位為 "unit"。
func ParseIngredient(s string) (Parsed, bool) {
	s = strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
	if s == "" {
		return Parsed{}, false
	}

	qty, rest, ok := splitQuantity(s)
	if !ok {
		return Parsed{Quantity: 1, Unit: DefaultUnit, Name: s}, true
	}
	if rest == "" {
		return Parsed{Quantity: qty, Unit: DefaultUnit, Name: s}, true
	}

	unit := DefaultUnit
	name := rest
	token, after, _ := strings.Cut(rest, " ")
	if IsUnit(token) && strings.TrimSpace(after) != "" {
		unit = strings.TrimSuffix(strings.ToLower(token), ".")
		name = strings.TrimSpace(after)
	}
	name = strings.TrimSpace(strings.TrimPrefix(name, "of "))
	if name == "" {
		name = rest
	}

	return Parsed{Quantity: qty, Unit: unit, Name: name}, true
}

// splitQuantity 取出開頭的數量，回傳數量與剩餘字串
func splitQuantity(s string) (float64, string, bool) {
	loc := leadingQuantity.FindStringSubmatchIndex(s)
	if loc == nil {
		return 0, s, false
	}
	qty, ok := parseQuantity(strings.TrimSpace(s[loc[2]:loc[3]]))
	if !ok {
		return 0, s, false
	}
	return qty, strings.TrimSpace(s[loc[1]:]), true
}

func parseQuantity(s string) (float64, bool) {
	var total float64
	for _, r := range s {
		if v, ok := glyphValues[r]; ok {
			total += v
			s = strings.TrimSpace(strings.ReplaceAll(s, string(r), ""))
		}
	}

	for _, field := range strings.Fields(s) {
		if num, den, found := strings.Cut(field, "/"); found {
			n, err1 := strconv.ParseFloat(num, 64)
			d, err2 := strconv.ParseFloat(den, 64)
			if err1 != nil || err2 != nil || d == 0 {
				return 0, false
			}
			total += n / d
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, false
		}
		total += v
	}
	return total, true
}
