// Package waste 食物減廢紀錄、環境效益與成就
package waste

import "time"

// ImpactConstants 每件保存食材換算的效益
type ImpactConstants struct {
	CO2PerItem   float64
	WaterPerItem float64
	MoneyPerItem float64
}

// DefaultImpactConstants 每件食材：2.5 kg CO2、1000 L 水、5 元
var DefaultImpactConstants = ImpactConstants{CO2PerItem: 2.5, WaterPerItem: 1000, MoneyPerItem: 5}

// Impact 環境效益
type Impact struct {
	CO2Saved   float64 `json:"co2_saved"`
	WaterSaved float64 `json:"water_saved"`
	MoneySaved float64 `json:"money_saved"`
}

// Calculate 依保存的食材數計算效益
func (c ImpactConstants) Calculate(saved []string) Impact {
	n := float64(len(saved))
	return Impact{
		CO2Saved:   n * c.CO2PerItem,
		WaterSaved: n * c.WaterPerItem,
		MoneySaved: n * c.MoneyPerItem,
	}
}

// CalculateImpact 以預設常數計算效益
func CalculateImpact(saved []string) Impact {
	return DefaultImpactConstants.Calculate(saved)
}

// Log 一筆減廢紀錄，建立後不再修改
type Log struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	SavedItems  []string  `json:"saved_items"`
	WastedItems []string  `json:"wasted_items"`
	MealPlanID  string    `json:"meal_plan_id,omitempty"`
	Impact      Impact    `json:"impact"`
}

// LogInput 新增紀錄的輸入
type LogInput struct {
	Date        time.Time `json:"date" validate:"required"`
	SavedItems  []string  `json:"saved_items" validate:"dive,required"`
	WastedItems []string  `json:"wasted_items" validate:"dive,required"`
	MealPlanID  string    `json:"meal_plan_id"`
}

// Totals 累計效益
type Totals struct {
	CO2Saved     float64 `json:"co2_saved"`
	WaterSaved   float64 `json:"water_saved"`
	MoneySaved   float64 `json:"money_saved"`
	MealsTracked int     `json:"meals_tracked"`
	WasteReduced int     `json:"waste_reduced"`
}

// Achievement 成就
type Achievement struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Icon          string     `json:"icon"`
	Progress      float64    `json:"progress"`
	Target        float64    `json:"target"`
	Completed     bool       `json:"completed"`
	DateCompleted *time.Time `json:"date_completed,omitempty"`
}

// 成就代號
const (
	AchievementWasteWarrior    = "1"
	AchievementClimateChampion = "2"
	AchievementWaterGuardian   = "3"
	AchievementMoneySaver      = "4"
	AchievementConsistencyKing = "5"
)

// DefaultAchievements 預設成就清單
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: AchievementWasteWarrior, Title: "Waste Warrior", Description: "Track your food waste for 7 consecutive days", Icon: "🎯", Target: 7},
		{ID: AchievementClimateChampion, Title: "Climate Champion", Description: "Save 25kg of CO2 emissions", Icon: "🌍", Target: 25},
		{ID: AchievementWaterGuardian, Title: "Water Guardian", Description: "Save 10,000L of water through waste reduction", Icon: "💧", Target: 10000},
		{ID: AchievementMoneySaver, Title: "Money Saver", Description: "Save $100 through reduced food waste", Icon: "💰", Target: 100},
		{ID: AchievementConsistencyKing, Title: "Consistency King", Description: "Log waste reduction for 30 consecutive days", Icon: "👑", Target: 30},
	}
}

// WeeklyStats 最近 7 天的統計
type WeeklyStats struct {
	SavedItems  int     `json:"saved_items"`
	WastedItems int     `json:"wasted_items"`
	CO2Saved    float64 `json:"co2_saved"`
	WaterSaved  float64 `json:"water_saved"`
	MoneySaved  float64 `json:"money_saved"`
}

// MonthlyProgress 最近 30 天的進度
type MonthlyProgress struct {
	TotalLogs             int     `json:"total_logs"`
	ConsistencyPercentage float64 `json:"consistency_percentage"`
	Improvement           float64 `json:"improvement"`
}
