package shopping

import "strings"

// 購物清單分類
const (
	CategoryProduce = "Produce"
	CategoryMeat    = "Meat"
	CategoryDairy   = "Dairy"
	CategoryPantry  = "Pantry"
	CategoryCanned  = "Canned Goods"
	CategoryOther   = "Other"
)

type categoryRule struct {
	category string
	keywords []string
}

// 依序比對，第一個命中的分類勝出
var categoryRules = []categoryRule{
	{CategoryProduce, []string{
		"eggplant", "tomato", "onion", "garlic", "lettuce", "spinach", "cucumber", "carrot",
		"bell pepper", "potato", "lemon", "lime", "apple", "banana", "berries", "berry",
		"basil", "parsley", "cilantro", "avocado", "celery", "broccoli", "mushroom", "kale",
		"zucchini", "ginger", "scallion", "cabbage", "fruit", "vegetable", "herb",
	}},
	{CategoryMeat, []string{
		"chicken", "beef", "pork", "lamb", "turkey", "bacon", "sausage", "ham",
		"fish", "salmon", "shrimp", "steak", "prawn", "cod",
	}},
	{CategoryDairy, []string{
		"milk", "cheese", "butter", "cream", "yogurt", "egg", "feta", "parmesan", "mozzarella",
	}},
	{CategoryPantry, []string{
		"flour", "sugar", "salt", "pepper", "oil", "vinegar", "rice", "pasta", "noodle",
		"oats", "spice", "honey", "baking", "bread", "sauce", "cumin", "paprika", "cinnamon",
		"quinoa", "lentil", "nut",
	}},
	{CategoryCanned, []string{
		"canned", "can ", "beans", "olives", "broth", "stock", "chickpeas",
	}},
}

// Categorize 以關鍵字判斷食材分類，無法判斷時回傳 Other
func Categorize(name string) string {
	lower := strings.ToLower(name) + " "
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// categoryRank 分類在清單中的排序位置
func categoryRank(category string) int {
	for i, rule := range categoryRules {
		if rule.category == category {
			return i
		}
	}
	return len(categoryRules)
}
