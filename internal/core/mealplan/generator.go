package mealplan

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"
)

// RandSource 可注入的亂數來源
type RandSource interface {
	Intn(n int) int
}

// Generator 以隨機抽樣從食譜池產生計畫
type Generator struct {
	rng     RandSource
	maxDays int
	now     func() time.Time
	newID   func() string
}

// lockedRand 可供多個請求同時使用的亂數來源
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// NewGenerator 創建計畫生成器，rng 為 nil 時使用以時間為種子的亂數
func NewGenerator(rng RandSource, maxDays int) *Generator {
	if rng == nil {
		rng = &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
	}
	return &Generator{
		rng:     rng,
		maxDays: maxDays,
		now:     time.Now,
		newID:   common.GenerateUUID,
	}
}

// Generate 洗牌食譜池後每三道依序分配為早、午、晚餐
func (g *Generator) Generate(days int, pool []recipe.Recipe) (*MealPlan, error) {
	if days < 1 {
		return nil, common.NewValidationError("invalid parameter: days must be at least 1")
	}
	if g.maxDays > 0 && days > g.maxDays {
		return nil, common.NewValidationError(fmt.Sprintf("invalid parameter: days must be at most %d", g.maxDays))
	}

	need := days * MealsPerDay
	if len(pool) < need {
		return nil, common.WithDetail(common.ErrInsufficientRecipes,
			fmt.Sprintf("not enough recipes: need %d for a %d-day meal plan, have %d (short by %d)",
				need, days, len(pool), need-len(pool)),
			nil)
	}

	shuffled := make([]recipe.Recipe, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	planDays := make([]Day, days)
	for d := range planDays {
		triple := shuffled[d*MealsPerDay : d*MealsPerDay+MealsPerDay]
		planDays[d] = Day{
			Day: DayLabel(d),
			Meals: Meals{
				Breakfast: pendingCopy(triple[0]),
				Lunch:     pendingCopy(triple[1]),
				Dinner:    pendingCopy(triple[2]),
				Snacks:    []recipe.Recipe{},
			},
		}
	}

	plan := &MealPlan{
		ID:          g.newID(),
		Title:       fmt.Sprintf("%d-Day Meal Plan", days),
		Description: fmt.Sprintf("A balanced meal plan for %d days", days),
		Days:        planDays,
		Feedback:    &Feedback{TotalMeals: days * MealsPerDay},
		Source:      SourceLocal,
		CreatedAt:   g.now(),
	}
	ApplyNutrition(plan)
	return plan, nil
}

// DayLabel 第 index 天（從 0 起算）的標籤
func DayLabel(index int) string {
	return fmt.Sprintf("Day %d", index+1)
}

func pendingCopy(r recipe.Recipe) recipe.Recipe {
	c := r.Clone()
	c.Status = recipe.StatusPending
	return c
}
