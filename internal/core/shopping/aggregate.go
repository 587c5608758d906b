package shopping

import (
	"math"
	"sort"
	"strings"

	"meal-planner/internal/core/recipe"
)

// Item 購物清單項目
type Item struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Quantity  float64  `json:"quantity"`
	Unit      string   `json:"unit"`
	Category  string   `json:"category"`
	Completed bool     `json:"completed"`
	RecipeIDs []string `json:"recipe_ids"`
}

// Key 合併用的鍵 (名稱, 單位)
func (i Item) Key() string {
	return itemKey(i.Name, i.Unit)
}

// Display 顯示字串，例如 "1.5 cups flour"
func (i Item) Display() string {
	if i.Unit == DefaultUnit {
		return FormatQuantity(i.Quantity) + " " + i.Name
	}
	return FormatQuantity(i.Quantity) + " " + i.Unit + " " + i.Name
}

// ScaledRecipe 要換算成指定份量的食譜
type ScaledRecipe struct {
	Recipe         recipe.Recipe
	TargetServings int
}

// PantryItem 庫存食材
type PantryItem struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

func itemKey(name, unit string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + normalizeUnit(unit)
}

// ItemsFromRecipe 解析食譜的食材，必要時換算份量
func ItemsFromRecipe(r recipe.Recipe, target int) []Item {
	native := r.Servings
	if native <= 0 {
		native = recipe.DefaultServings
	}
	if target <= 0 {
		target = native
	}

	items := make([]Item, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		parsed, ok := ParseIngredient(line)
		if !ok {
			continue
		}
		var refs []string
		if r.ID != "" {
			refs = []string{r.ID}
		}
		items = append(items, Item{
			Name:      parsed.Name,
			Quantity:  ScaleQuantity(parsed.Quantity, native, target),
			Unit:      parsed.Unit,
			Category:  Categorize(parsed.Name),
			RecipeIDs: refs,
		})
	}
	return items
}

// Merge 合併相同 (名稱, 單位) 的項目並排序，結果與輸入順序無關
func Merge(lists ...[]Item) []Item {
	merged := make(map[string]*Item)
	for _, list := range lists {
		for _, it := range list {
			it.Quantity = clampQuantity(it.Quantity)
			it.Unit = normalizeUnit(it.Unit)
			key := it.Key()
			existing, ok := merged[key]
			if !ok {
				copied := it
				copied.RecipeIDs = unionIDs(nil, it.RecipeIDs)
				if copied.Category == "" {
					copied.Category = Categorize(copied.Name)
				}
				merged[key] = &copied
				continue
			}
			existing.Quantity += it.Quantity
			if it.Name < existing.Name {
				existing.Name = it.Name
			}
			existing.RecipeIDs = unionIDs(existing.RecipeIDs, it.RecipeIDs)
		}
	}

	out := make([]Item, 0, len(merged))
	for _, it := range merged {
		it.Quantity = roundQuantity(it.Quantity)
		out = append(out, *it)
	}
	SortItems(out)
	return out
}

// SubtractPantry 扣除庫存數量，歸零的項目移除
func SubtractPantry(items []Item, pantry []PantryItem) []Item {
	if len(pantry) == 0 {
		return items
	}
	stock := make(map[string]float64, len(pantry))
	for _, p := range pantry {
		stock[itemKey(p.Name, p.Unit)] += clampQuantity(p.Quantity)
	}

	out := items[:0]
	for _, it := range items {
		if have, ok := stock[it.Key()]; ok {
			it.Quantity -= have
			if it.Quantity <= 0 {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// BuildList 由多份食譜建立購物清單
func BuildList(recipes []ScaledRecipe, pantry []PantryItem) []Item {
	lists := make([][]Item, 0, len(recipes))
	for _, sr := range recipes {
		lists = append(lists, ItemsFromRecipe(sr.Recipe, sr.TargetServings))
	}
	return SubtractPantry(Merge(lists...), pantry)
}

// SortItems 依分類、名稱、單位排序
func SortItems(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		ra, rb := categoryRank(items[a].Category), categoryRank(items[b].Category)
		if ra != rb {
			return ra < rb
		}
		na, nb := strings.ToLower(items[a].Name), strings.ToLower(items[b].Name)
		if na != nb {
			return na < nb
		}
		return items[a].Unit < items[b].Unit
	})
}

func normalizeUnit(unit string) string {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		return DefaultUnit
	}
	return unit
}

// roundQuantity 去除浮點加總順序造成的誤差
func roundQuantity(q float64) float64 {
	return math.Round(q*quantityPrecision) / quantityPrecision
}

const quantityPrecision = 1e6

func clampQuantity(q float64) float64 {
	if q < 0 {
		return 0
	}
	return q
}

func unionIDs(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, id := range list {
			if _, ok := seen[id]; ok || id == "" {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
