// Package tracking 記錄實際烹調的餐點與食材使用情形
package tracking

import (
	"sort"
	"strings"
	"time"
)

const topN = 5

// IngredientUsage 烹調時實際使用的食材
type IngredientUsage struct {
	Name            string  `json:"name" validate:"required"`
	Amount          float64 `json:"amount" validate:"gte=0"`
	Unit            string  `json:"unit"`
	WasSubstituted  bool    `json:"was_substituted"`
	SubstitutedWith string  `json:"substituted_with,omitempty" validate:"required_if=WasSubstituted true"`
}

// PreparedMeal 一次烹調紀錄
type PreparedMeal struct {
	ID              string            `json:"id"`
	RecipeID        string            `json:"recipe_id"`
	Date            time.Time         `json:"date"`
	ServingsMade    int               `json:"servings_made"`
	IngredientsUsed []IngredientUsage `json:"ingredients_used"`
	Notes           string            `json:"notes,omitempty"`
}

// TrackRequest 新增烹調紀錄的請求
type TrackRequest struct {
	RecipeID        string            `json:"recipe_id" validate:"required"`
	ServingsMade    int               `json:"servings_made" validate:"gte=1"`
	IngredientsUsed []IngredientUsage `json:"ingredients_used" validate:"dive"`
	Notes           string            `json:"notes" validate:"max=2000"`
}

// Substitution 常見替代
type Substitution struct {
	Original   string `json:"original"`
	Substitute string `json:"substitute"`
	Count      int    `json:"count"`
}

// UsageStats 食材使用統計
type UsageStats struct {
	MostUsed              []string       `json:"most_used"`
	FrequentSubstitutions []Substitution `json:"frequent_substitutions"`
}

// WeekStats 最近一週的烹調統計
type WeekStats struct {
	MealsCooked     int `json:"meals_cooked"`
	IngredientsUsed int `json:"ingredients_used"`
	WasteReduced    int `json:"waste_reduced"`
}

// MealsBetween 篩選日期落在 [start, end] 的紀錄
func MealsBetween(meals []PreparedMeal, start, end time.Time) []PreparedMeal {
	out := make([]PreparedMeal, 0)
	for _, m := range meals {
		if m.Date.Before(start) || m.Date.After(end) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ComputeUsageStats 統計最常用的食材與替代，次數相同時依名稱排序
func ComputeUsageStats(meals []PreparedMeal) UsageStats {
	counts := make(map[string]int)
	subs := make(map[[2]string]int)
	for _, m := range meals {
		for _, ing := range m.IngredientsUsed {
			name := strings.TrimSpace(ing.Name)
			if name == "" {
				continue
			}
			counts[name]++
			if ing.WasSubstituted && strings.TrimSpace(ing.SubstitutedWith) != "" {
				subs[[2]string{name, strings.TrimSpace(ing.SubstitutedWith)}]++
			}
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > topN {
		names = names[:topN]
	}

	substitutions := make([]Substitution, 0, len(subs))
	for pair, n := range subs {
		substitutions = append(substitutions, Substitution{Original: pair[0], Substitute: pair[1], Count: n})
	}
	sort.Slice(substitutions, func(i, j int) bool {
		a, b := substitutions[i], substitutions[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Original != b.Original {
			return a.Original < b.Original
		}
		return a.Substitute < b.Substitute
	})
	if len(substitutions) > topN {
		substitutions = substitutions[:topN]
	}

	return UsageStats{MostUsed: names, FrequentSubstitutions: substitutions}
}

// ComputeWeekStats 統計 [now-7d, now] 的烹調次數、食材數與替代數
func ComputeWeekStats(meals []PreparedMeal, now time.Time) WeekStats {
	var s WeekStats
	for _, m := range MealsBetween(meals, now.AddDate(0, 0, -7), now) {
		s.MealsCooked++
		s.IngredientsUsed += len(m.IngredientsUsed)
		for _, ing := range m.IngredientsUsed {
			if ing.WasSubstituted {
				s.WasteReduced++
			}
		}
	}
	return s
}
