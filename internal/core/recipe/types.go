package recipe

// MealStatus 餐點狀態
type MealStatus string

const (
	StatusPending   MealStatus = "pending"
	StatusCompleted MealStatus = "completed"
)

// DefaultImage 沒有圖片時使用的預設圖片
const DefaultImage = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c"

// DefaultServings 預設份量
const DefaultServings = 4

// DefaultTitle 缺少標題時的顯示名稱
const DefaultTitle = "Untitled Recipe"

// Nutrition 營養資訊，皆為帶 "g" 單位的顯示字串
type Nutrition struct {
	Protein string `json:"protein" yaml:"protein"`
	Carbs   string `json:"carbs" yaml:"carbs"`
	Fat     string `json:"fat" yaml:"fat"`
	Fiber   string `json:"fiber" yaml:"fiber"`
}

// Recipe 正規化後的食譜
type Recipe struct {
	ID           string     `json:"id"`
	ExternalID   string     `json:"external_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Image        string     `json:"image"`
	Time         string     `json:"time"`
	PrepTime     int        `json:"prep_time"`
	Calories     int        `json:"calories"`
	Servings     int        `json:"servings"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	Nutrition    Nutrition  `json:"nutrition"`
	Tags         []string   `json:"tags"`
	Cuisine      string     `json:"cuisine,omitempty"`
	DietType     []string   `json:"diet_type,omitempty"`
	Equipment    []string   `json:"equipment,omitempty"`
	Difficulty   string     `json:"difficulty,omitempty"`
	Rating       float64    `json:"rating"`
	Status       MealStatus `json:"status,omitempty"`
}

// Clone 深拷貝食譜，計畫內嵌的食譜與目錄互不影響
func (r Recipe) Clone() Recipe {
	c := r
	c.Ingredients = cloneStrings(r.Ingredients)
	c.Instructions = cloneStrings(r.Instructions)
	c.Tags = cloneStrings(r.Tags)
	c.DietType = cloneStrings(r.DietType)
	c.Equipment = cloneStrings(r.Equipment)
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// RawRecipe 來源格式不確定的食譜紀錄
//
// 食材與步驟可能是字串陣列、JSON 字串或單一字串；時間、熱量與營養值可能是字串或數字。
type RawRecipe struct {
	ID           string         `json:"id" yaml:"id"`
	ExternalID   string         `json:"external_id" yaml:"external_id"`
	Title        string         `json:"title" yaml:"title"`
	Description  string         `json:"description" yaml:"description"`
	ImageURL     string         `json:"image_url" yaml:"image_url"`
	TotalTime    interface{}    `json:"total_time" yaml:"total_time"`
	PrepTime     interface{}    `json:"prep_time" yaml:"prep_time"`
	Calories     interface{}    `json:"calories" yaml:"calories"`
	Servings     interface{}    `json:"servings" yaml:"servings"`
	Ingredients  interface{}    `json:"ingredients" yaml:"ingredients"`
	Instructions interface{}    `json:"instructions" yaml:"instructions"`
	Nutrition    map[string]any `json:"nutrition" yaml:"nutrition"`
	Tags         []string       `json:"tags" yaml:"tags"`
	Cuisine      string         `json:"cuisine_type" yaml:"cuisine_type"`
	DietType     []string       `json:"diet_type" yaml:"diet_type"`
	Equipment    []string       `json:"equipment" yaml:"equipment"`
	Difficulty   string         `json:"difficulty_level" yaml:"difficulty_level"`
	Rating       interface{}    `json:"rating" yaml:"rating"`
	Status       string         `json:"status" yaml:"status"`
}

// ToRaw 將已正規化的食譜轉回原始格式
func ToRaw(r Recipe) RawRecipe {
	return RawRecipe{
		ID:           r.ID,
		ExternalID:   r.ExternalID,
		Title:        r.Title,
		Description:  r.Description,
		ImageURL:     r.Image,
		TotalTime:    r.Time,
		PrepTime:     r.PrepTime,
		Calories:     r.Calories,
		Servings:     r.Servings,
		Ingredients:  cloneStrings(r.Ingredients),
		Instructions: cloneStrings(r.Instructions),
		Nutrition: map[string]any{
			"protein": r.Nutrition.Protein,
			"carbs":   r.Nutrition.Carbs,
			"fat":     r.Nutrition.Fat,
			"fiber":   r.Nutrition.Fiber,
		},
		Tags:       cloneStrings(r.Tags),
		Cuisine:    r.Cuisine,
		DietType:   cloneStrings(r.DietType),
		Equipment:  cloneStrings(r.Equipment),
		Difficulty: r.Difficulty,
		Rating:     r.Rating,
		Status:     string(r.Status),
	}
}

// Filter 食譜查詢條件
type Filter struct {
	Query  string
	Tags   []string
	Limit  int
	Offset int
}
