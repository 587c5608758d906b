package recipe

import (
	"fmt"
	"regexp"
	"strings"
)

// RandSource 可注入的亂數來源，測試時可提供固定序列
type RandSource interface {
	Intn(n int) int
}

type pattern struct {
	name string
	re   *regexp.Regexp
}

var cuisinePatterns = []pattern{
	{"Italian", regexp.MustCompile(`\b(pasta|pizza|risotto|parmesan|mozzarella|italian)\b`)},
	{"Mexican", regexp.MustCompile(`\b(tortilla|taco|enchilada|salsa|guacamole|mexican)\b`)},
	{"Chinese", regexp.MustCompile(`\b(soy sauce|ginger|sesame|wok|stir.?fry|chinese)\b`)},
	{"Japanese", regexp.MustCompile(`\b(sushi|miso|wasabi|teriyaki|japanese)\b`)},
	{"Indian", regexp.MustCompile(`\b(curry|masala|turmeric|cumin|coriander|indian)\b`)},
	{"Mediterranean", regexp.MustCompile(`\b(olive oil|feta|hummus|pita|tahini|mediterranean)\b`)},
	{"Thai", regexp.MustCompile(`\b(coconut milk|thai curry|fish sauce|lemongrass|thai)\b`)},
	{"French", regexp.MustCompile(`\b(baguette|croissant|ratatouille|french)\b`)},
	{"American", regexp.MustCompile(`\b(burger|hot dog|mac and cheese|american)\b`)},
}

var equipmentPatterns = []pattern{
	{"Oven", regexp.MustCompile(`\b(oven|bake|roast)\b`)},
	{"Stovetop", regexp.MustCompile(`\b(stove|pan|pot|skillet)\b`)},
	{"Mixing Bowl", regexp.MustCompile(`\b(bowl|mix|whisk|combine)\b`)},
	{"Blender", regexp.MustCompile(`\b(blend|puree|smoothie)\b`)},
	{"Food Processor", regexp.MustCompile(`\b(process|pulse|grind)\b`)},
	{"Knife", regexp.MustCompile(`\b(chop|dice|slice|cut)\b`)},
	{"Cutting Board", regexp.MustCompile(`\b(chop|dice|slice|cut)\b`)},
	{"Measuring Cups", regexp.MustCompile(`\b(cup|tablespoon|teaspoon|measure)\b`)},
	{"Baking Sheet", regexp.MustCompile(`\b(baking sheet|sheet pan|tray)\b`)},
	{"Grater", regexp.MustCompile(`\b(grate|shred)\b`)},
	{"Colander", regexp.MustCompile(`\b(drain|strain|rinse)\b`)},
	{"Whisk", regexp.MustCompile(`\b(whisk|beat|whip)\b`)},
}

var (
	meatWords      = regexp.MustCompile(`\b(meat|chicken|beef|pork|fish)\b`)
	animalProducts = regexp.MustCompile(`\b(egg|milk|cheese|cream|butter|honey)\b`)
	glutenWords    = regexp.MustCompile(`\b(wheat|flour|bread|pasta)\b`)
	dairyWords     = regexp.MustCompile(`\b(milk|cheese|cream|yogurt)\b`)
	wholeGrain     = regexp.MustCompile(`\b(quinoa|brown rice|oats|whole grain)\b`)
	sugarWords     = regexp.MustCompile(`\b(sugar|sweet|dessert)\b`)
)

// 依序比對，ner 來源的烹調方式標籤
var methodTags = []pattern{
	{"Baked", regexp.MustCompile(`\b(bake|roast|oven)\b`)},
	{"Grilled", regexp.MustCompile(`\b(grill|barbecue|bbq)\b`)},
	{"Fried", regexp.MustCompile(`\b(fry|pan-fry|saute)\b|\bsauté`)},
	{"No-Cook", regexp.MustCompile(`\b(no.?bake|raw)\b`)},
	{"Slow-Cooked", regexp.MustCompile(`\b(slow.?cook|simmer|braise)\b`)},
}

// 食材來源的餐別與健康標籤
var ingredientTags = []pattern{
	{"Breakfast", regexp.MustCompile(`\b(breakfast|cereal|pancake|waffle)\b`)},
	{"Lunch", regexp.MustCompile(`\b(sandwich|wrap|salad)\b`)},
	{"Dinner", regexp.MustCompile(`\b(dinner|roast|steak|curry)\b`)},
	{"Dessert", regexp.MustCompile(`\b(cookie|cake|dessert|sweet)\b`)},
	{"Snack", regexp.MustCompile(`\b(snack|popcorn|chips)\b`)},
	{"High Protein", regexp.MustCompile(`\b(protein|chicken breast|fish|tofu|lentils)\b`)},
	{"Healthy", regexp.MustCompile(`\b(vegetables|salad|greens)\b`)},
}

// DietTags 屬於飲食類型的標籤
var DietTags = []string{"Vegetarian", "Vegan", "Gluten-Free", "Dairy-Free"}

// DifficultyTags 難度標籤
var DifficultyTags = []string{"Easy", "Medium", "Advanced"}

// EstimateCalories 依食材推估熱量，基礎 200 kcal 加上每項食材的權重與 [-50, 50) 的隨機擾動
func EstimateCalories(ingredients []string, rng RandSource) int {
	calories := 200
	for _, ingredient := range ingredients {
		lower := strings.ToLower(ingredient)
		switch {
		case containsAny(lower, "meat", "chicken", "fish"):
			calories += 150
		case containsAny(lower, "oil", "butter"):
			calories += 100
		case containsAny(lower, "sugar", "honey"):
			calories += 50
		case containsAny(lower, "vegetable", "fruit"):
			calories += 30
		default:
			calories += 40
		}
	}
	if rng != nil {
		calories += rng.Intn(100) - 50
	}
	return calories
}

// EstimatePrepTime 依步驟推估準備時間（分鐘），範圍 10 到 120
func EstimatePrepTime(instructions []string) int {
	minutes := 10
	for _, step := range instructions {
		lower := strings.ToLower(step)
		switch {
		case containsAny(lower, "bake", "roast"):
			minutes += 30
		case containsAny(lower, "simmer", "boil"):
			minutes += 20
		case containsAny(lower, "chop", "dice"):
			minutes += 5
		case strings.Contains(lower, "marinate"):
			minutes += 60
		default:
			minutes += 5
		}
	}
	if minutes < 10 {
		return 10
	}
	if minutes > 120 {
		return 120
	}
	return minutes
}

// ExtractTags 從食材與 NER 實體推斷飲食、烹調方式、餐別、健康與難度標籤
func ExtractTags(ingredients, ner []string) []string {
	ingredientsText := strings.ToLower(strings.Join(ingredients, " "))
	nerText := strings.ToLower(strings.Join(ner, " "))

	var tags []string
	if meatWords.MatchString(ingredientsText) {
		tags = append(tags, "Non-Vegetarian")
	} else {
		tags = append(tags, "Vegetarian")
		if !animalProducts.MatchString(ingredientsText) {
			tags = append(tags, "Vegan")
		}
	}
	if !glutenWords.MatchString(ingredientsText) {
		tags = append(tags, "Gluten-Free")
	}
	if !dairyWords.MatchString(ingredientsText) {
		tags = append(tags, "Dairy-Free")
	}
	if wholeGrain.MatchString(ingredientsText) {
		tags = append(tags, "Whole Grain")
	}
	for _, p := range methodTags {
		if p.re.MatchString(nerText) {
			tags = append(tags, p.name)
		}
	}
	for _, p := range ingredientTags {
		if p.re.MatchString(ingredientsText) {
			tags = append(tags, p.name)
		}
	}
	if !sugarWords.MatchString(ingredientsText) {
		tags = append(tags, "Low Sugar")
	}

	switch complexity := len(ingredients) + len(ner); {
	case complexity < 8:
		tags = append(tags, "Easy")
	case complexity < 15:
		tags = append(tags, "Medium")
	default:
		tags = append(tags, "Advanced")
	}
	return tags
}

// DetectCuisine 依標題與食材判斷菜系，無符合時為 International
func DetectCuisine(ingredients []string, title string) string {
	text := strings.ToLower(title + " " + strings.Join(ingredients, " "))
	for _, p := range cuisinePatterns {
		if p.re.MatchString(text) {
			return p.name
		}
	}
	return "International"
}

// DetectEquipment 依步驟判斷所需器具
func DetectEquipment(instructions []string) []string {
	text := strings.ToLower(strings.Join(instructions, " "))
	equipment := []string{}
	for _, p := range equipmentPatterns {
		if p.re.MatchString(text) {
			equipment = append(equipment, p.name)
		}
	}
	return equipment
}

// GenerateDescription 以標題與前三項主要食材產生描述
func GenerateDescription(title string, ingredients []string) string {
	lowerTitle := strings.ToLower(title)
	if len(ingredients) == 0 {
		return fmt.Sprintf("A delicious %s recipe.", lowerTitle)
	}

	n := len(ingredients)
	if n > 3 {
		n = 3
	}
	main := make([]string, 0, n)
	for _, ingredient := range ingredients[:n] {
		name := strings.SplitN(ingredient, ",", 2)[0]
		name = strings.SplitN(name, "(", 2)[0]
		main = append(main, strings.ToLower(strings.TrimSpace(name)))
	}

	suffix := ""
	if len(ingredients) > 3 {
		suffix = " and more"
	}
	return fmt.Sprintf("A delicious %s recipe made with %s%s.", lowerTitle, strings.Join(main, ", "), suffix)
}

// FilterTags 取出屬於指定集合的標籤
func FilterTags(tags, allowed []string) []string {
	out := []string{}
	for _, tag := range tags {
		for _, a := range allowed {
			if tag == a {
				out = append(out, tag)
				break
			}
		}
	}
	return out
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
