package recipe

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MacroRatios 由熱量推估營養素的比例
//
// 這是顯示用的估算值，不代表實際營養成分。
type MacroRatios struct {
	ProteinShare       float64
	CarbShare          float64
	FatShare           float64
	ProteinKcalPerGram float64
	CarbKcalPerGram    float64
	FatKcalPerGram     float64
	FiberShareOfCarbs  float64
}

// DefaultMacroRatios 30/40/30 熱量分配，蛋白質與碳水 4 kcal/g、脂肪 9 kcal/g，纖維為碳水的 10%
var DefaultMacroRatios = MacroRatios{
	ProteinShare:       0.30,
	CarbShare:          0.40,
	FatShare:           0.30,
	ProteinKcalPerGram: 4,
	CarbKcalPerGram:    4,
	FatKcalPerGram:     9,
	FiberShareOfCarbs:  0.10,
}

var (
	unicodeEscape  = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)
	compoundSep    = regexp.MustCompile(`"\s*,\s*"`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	fractionText   = regexp.MustCompile(`\b(1/2|1/3|2/3|1/4|3/4|1/8)\b`)
	clockDuration  = regexp.MustCompile(`^(\d+):(\d{1,2})(?::(\d{1,2}))?$`)
	leadingNumber  = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)`)
	displayMinutes = regexp.MustCompile(`^(?:(\d+)\s*h)?\s*(?:(\d+)\s*m)?$`)
	escapedBreaks  = strings.NewReplacer(`\r\n`, "\n", `\n`, "\n", `\r`, "\n", `\t`, " ")
	artifactStrip  = strings.NewReplacer("[", "", "]", "", `"`, "", `\`, "")
	fractionGlyphs = map[string]string{
		"1/2": "½",
		"1/3": "⅓",
		"2/3": "⅔",
		"1/4": "¼",
		"3/4": "¾",
		"1/8": "⅛",
	}
)

// Normalize 將來源格式不確定的紀錄轉為標準 Recipe，任何欄位解析失敗都回退為預設值
func Normalize(raw RawRecipe) Recipe {
	calories := toInt(raw.Calories)
	if calories < 0 {
		calories = 0
	}

	servings := toInt(raw.Servings)
	if servings <= 0 {
		servings = DefaultServings
	}

	title := collapseSpace(raw.Title)
	if title == "" {
		title = DefaultTitle
	}

	image := strings.TrimSpace(raw.ImageURL)
	if image == "" {
		image = DefaultImage
	}

	timeSource := raw.TotalTime
	if isBlank(timeSource) {
		timeSource = raw.PrepTime
	}

	rating, _ := toFloat(raw.Rating)
	if rating < 0 {
		rating = 0
	}

	return Recipe{
		ID:           strings.TrimSpace(raw.ID),
		ExternalID:   strings.TrimSpace(raw.ExternalID),
		Title:        title,
		Description:  collapseSpace(raw.Description),
		Image:        image,
		Time:         FormatDuration(timeSource),
		PrepTime:     parseMinutes(raw.PrepTime),
		Calories:     calories,
		Servings:     servings,
		Ingredients:  CleanLines(raw.Ingredients),
		Instructions: CleanLines(raw.Instructions),
		Nutrition:    EstimateNutrition(raw.Nutrition, calories, DefaultMacroRatios),
		Tags:         uniqueTrimmed(raw.Tags),
		Cuisine:      strings.TrimSpace(raw.Cuisine),
		DietType:     uniqueTrimmed(raw.DietType),
		Equipment:    uniqueTrimmed(raw.Equipment),
		Difficulty:   strings.TrimSpace(raw.Difficulty),
		Rating:       rating,
		Status:       parseStatus(raw.Status),
	}
}

// NormalizeRecipe 重新正規化一筆已存在的食譜
func NormalizeRecipe(r Recipe) Recipe {
	return Normalize(ToRaw(r))
}

// CleanLines 將食材或步驟欄位整理為乾淨的字串清單，結果不會是 nil
func CleanLines(v interface{}) []string {
	out := []string{}
	for _, line := range rawLines(v) {
		for _, row := range strings.Split(escapedBreaks.Replace(line), "\n") {
			for _, part := range compoundSep.Split(row, -1) {
				if cleaned := CleanLine(part); cleaned != "" {
					out = append(out, cleaned)
				}
			}
		}
	}
	return out
}

// CleanLine 清理單行文字：還原 unicode 跳脫、去除序列化殘留符號、合併空白、轉換分數符號並將首字大寫
func CleanLine(s string) string {
	s = unicodeEscape.ReplaceAllStringFunc(s, func(m string) string {
		code, err := strconv.ParseUint(m[2:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
	s = escapedBreaks.Replace(s)
	s = artifactStrip.Replace(s)
	s = collapseSpace(s)
	s = fractionText.ReplaceAllStringFunc(s, func(m string) string {
		return fractionGlyphs[m]
	})
	return capitalize(s)
}

// EstimateNutrition 解析營養值，缺少或為零的項目在有熱量時依比例推估
func EstimateNutrition(values map[string]any, calories int, ratios MacroRatios) Nutrition {
	protein, _ := parseGrams(values["protein"])
	carbs, _ := parseGrams(values["carbs"])
	fat, _ := parseGrams(values["fat"])
	fiber, _ := parseGrams(values["fiber"])

	if calories > 0 {
		cal := float64(calories)
		if protein <= 0 {
			protein = math.Round(cal * ratios.ProteinShare / ratios.ProteinKcalPerGram)
		}
		if carbs <= 0 {
			carbs = math.Round(cal * ratios.CarbShare / ratios.CarbKcalPerGram)
		}
		if fat <= 0 {
			fat = math.Round(cal * ratios.FatShare / ratios.FatKcalPerGram)
		}
		if fiber <= 0 {
			fiber = math.Round(carbs * ratios.FiberShareOfCarbs)
		}
	}

	return Nutrition{
		Protein: FormatGrams(protein),
		Carbs:   FormatGrams(carbs),
		Fat:     FormatGrams(fat),
		Fiber:   FormatGrams(fiber),
	}
}

// FormatGrams 格式化為帶 "g" 的顯示字串
func FormatGrams(v float64) string {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "0g"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "g"
}

// ParseGrams 解析 "12g" 之類的顯示字串
func ParseGrams(s string) float64 {
	v, _ := parseGrams(s)
	return v
}

// FormatDuration 將時間欄位轉為 "Xh Ym" 或 "Xm" 顯示格式
//
// 數字視為分鐘，"HH:MM:SS" 轉為總分鐘，其他已是顯示格式的字串原樣保留。
func FormatDuration(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return FormatMinutes(0)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return FormatMinutes(0)
		}
		if m, ok := clockMinutes(s); ok {
			return FormatMinutes(m)
		}
		if n, err := strconv.Atoi(s); err == nil {
			return FormatMinutes(n)
		}
		return collapseSpace(s)
	default:
		if f, ok := toFloat(v); ok {
			return FormatMinutes(int(math.Round(f)))
		}
		return FormatMinutes(0)
	}
}

// FormatMinutes 分鐘數轉顯示字串
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

func clockMinutes(s string) (int, bool) {
	match := clockDuration.FindStringSubmatch(s)
	if match == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	return hours*60 + minutes, true
}

// displayDurationMinutes 解析 "1h 30m"、"2h"、"45m" 形式
func displayDurationMinutes(s string) (int, bool) {
	match := displayMinutes.FindStringSubmatch(s)
	if match == nil || (match[1] == "" && match[2] == "") {
		return 0, false
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	return hours*60 + minutes, true
}

func parseMinutes(v interface{}) int {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if m, ok := clockMinutes(s); ok {
			return m
		}
		if m, ok := displayDurationMinutes(s); ok {
			return m
		}
	}
	n := toInt(v)
	if n < 0 {
		return 0
	}
	return n
}

func rawLines(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case []interface{}:
		lines := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			lines = append(lines, fmt.Sprint(item))
		}
		return lines
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "[") {
			var decoded []string
			if err := json.Unmarshal([]byte(s), &decoded); err == nil {
				return decoded
			}
			return []string{s}
		}
		return strings.Split(s, "\n")
	default:
		return []string{fmt.Sprint(t)}
	}
}

func parseGrams(v interface{}) (float64, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "g"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return toFloat(v)
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		match := leadingNumber.FindStringSubmatch(t)
		if match == nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(match[1], 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(v interface{}) int {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}

func isBlank(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

func parseStatus(s string) MealStatus {
	switch MealStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending
	case StatusCompleted:
		return StatusCompleted
	default:
		return ""
	}
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func uniqueTrimmed(in []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = collapseSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
