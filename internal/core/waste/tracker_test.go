package waste

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseDate = time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

func newTestTracker() *Tracker {
	t := NewTracker()
	n := 0
	t.newID = func() string {
		n++
		return fmt.Sprintf("log-%d", n)
	}
	t.now = func() time.Time { return baseDate }
	return t
}

func fourItems() []string {
	return []string{"spinach", "bread", "milk", "apples"}
}

func findAchievement(t *testing.T, list []Achievement, id string) Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	require.FailNow(t, "achievement not found", id)
	return Achievement{}
}

func TestCalculateImpact(t *testing.T) {
	impact := CalculateImpact(fourItems())
	assert.Equal(t, Impact{CO2Saved: 10, WaterSaved: 4000, MoneySaved: 20}, impact)
	assert.Equal(t, Impact{}, CalculateImpact(nil))
}

func TestTrackerAddLogUpdatesTotals(t *testing.T) {
	tracker := newTestTracker()

	log, unlocked := tracker.AddLog(LogInput{
		Date:        baseDate,
		SavedItems:  fourItems(),
		WastedItems: []string{"lettuce"},
		MealPlanID:  "plan-1",
	})

	assert.Equal(t, "log-1", log.ID)
	assert.Equal(t, 10.0, log.Impact.CO2Saved)
	assert.Equal(t, "plan-1", log.MealPlanID)
	assert.Empty(t, unlocked)

	totals := tracker.Totals()
	assert.Equal(t, Totals{CO2Saved: 10, WaterSaved: 4000, MoneySaved: 20, MealsTracked: 1, WasteReduced: 4}, totals)
	assert.Len(t, tracker.Logs(), 1)
}

func TestClimateChampionCompletesOnce(t *testing.T) {
	tracker := newTestTracker()

	tracker.AddLog(LogInput{Date: baseDate, SavedItems: fourItems()})
	_, unlocked := tracker.AddLog(LogInput{Date: baseDate, SavedItems: fourItems()})
	assert.Empty(t, unlocked)
	climate := findAchievement(t, tracker.Achievements(), AchievementClimateChampion)
	assert.Equal(t, 20.0, climate.Progress)
	assert.False(t, climate.Completed)

	_, unlocked = tracker.AddLog(LogInput{Date: baseDate, SavedItems: fourItems()})
	require.Len(t, unlocked, 1)
	assert.Equal(t, "Climate Champion", unlocked[0].Title)
	climate = findAchievement(t, tracker.Achievements(), AchievementClimateChampion)
	assert.Equal(t, 30.0, climate.Progress)
	assert.True(t, climate.Completed)
	require.NotNil(t, climate.DateCompleted)
	assert.Equal(t, baseDate, *climate.DateCompleted)

	tracker.now = func() time.Time { return baseDate.Add(time.Hour) }
	_, unlocked = tracker.AddLog(LogInput{Date: baseDate, SavedItems: fourItems()})
	assert.Empty(t, unlocked)
	climate = findAchievement(t, tracker.Achievements(), AchievementClimateChampion)
	assert.Equal(t, 40.0, climate.Progress)
	assert.Equal(t, baseDate, *climate.DateCompleted)
}

func TestStreakAchievementsUseLongestRun(t *testing.T) {
	tracker := newTestTracker()
	for i := 0; i < 7; i++ {
		tracker.AddLog(LogInput{Date: baseDate.AddDate(0, 0, i)})
	}

	warrior := findAchievement(t, tracker.Achievements(), AchievementWasteWarrior)
	assert.True(t, warrior.Completed)
	assert.Equal(t, 7.0, warrior.Progress)

	king := findAchievement(t, tracker.Achievements(), AchievementConsistencyKing)
	assert.False(t, king.Completed)
	assert.Equal(t, 7.0, king.Progress)
}

func TestLongestStreak(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC) }

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"no logs", nil, 0},
		{"single log", []time.Time{day(1)}, 1},
		{"same day twice", []time.Time{day(1), day(1).Add(5 * time.Hour)}, 1},
		{"unordered run", []time.Time{day(3), day(1), day(2)}, 3},
		{"gap keeps longest", []time.Time{day(1), day(2), day(5), day(6), day(7)}, 3},
		{"month boundary", []time.Time{time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 1, 0, 0, 0, time.UTC)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongestStreak(tt.dates))
		})
	}
}

func TestRestoreTrackerKeepsProgress(t *testing.T) {
	completedAt := baseDate.AddDate(0, -1, 0)
	logs := []Log{
		{ID: "a", Date: baseDate, SavedItems: fourItems(), Impact: CalculateImpact(fourItems())},
	}
	saved := []Achievement{
		{ID: AchievementMoneySaver, Progress: 120, Completed: true, DateCompleted: &completedAt},
	}

	tracker := RestoreTracker(logs, saved)
	assert.Equal(t, 1, tracker.Totals().MealsTracked)

	money := findAchievement(t, tracker.Achievements(), AchievementMoneySaver)
	assert.Equal(t, "Money Saver", money.Title)
	assert.True(t, money.Completed)

	tracker.now = func() time.Time { return baseDate }
	tracker.AddLog(LogInput{Date: baseDate, SavedItems: []string{"rice"}})
	money = findAchievement(t, tracker.Achievements(), AchievementMoneySaver)
	assert.Equal(t, 120.0, money.Progress)
	assert.Equal(t, completedAt, *money.DateCompleted)
}

func TestWeeklyStats(t *testing.T) {
	tracker := newTestTracker()
	tracker.AddLog(LogInput{Date: baseDate.AddDate(0, 0, -2), SavedItems: fourItems(), WastedItems: []string{"kale"}})
	tracker.AddLog(LogInput{Date: baseDate.AddDate(0, 0, -6), SavedItems: []string{"rice"}})
	tracker.AddLog(LogInput{Date: baseDate.AddDate(0, 0, -9), SavedItems: []string{"beans"}})
	tracker.AddLog(LogInput{Date: baseDate.AddDate(0, 0, 1), SavedItems: []string{"future"}})

	stats := tracker.WeeklyStats(baseDate)
	assert.Equal(t, WeeklyStats{
		SavedItems:  5,
		WastedItems: 1,
		CO2Saved:    12.5,
		WaterSaved:  5000,
		MoneySaved:  25,
	}, stats)
}

func TestMonthlyProgress(t *testing.T) {
	t.Run("no previous month", func(t *testing.T) {
		tracker := newTestTracker()
		tracker.AddLog(LogInput{Date: baseDate, SavedItems: fourItems()})
		tracker.AddLog(LogInput{Date: baseDate.Add(-time.Hour), SavedItems: []string{"rice"}})
		tracker.AddLog(LogInput{Date: baseDate.AddDate(0, 0, -3), SavedItems: []string{"beans"}})

		p := tracker.MonthlyProgress(baseDate)
		assert.Equal(t, 3, p.TotalLogs)
		assert.InDelta(t, 2.0/30*100, p.ConsistencyPercentage, 1e-9)
		assert.Equal(t, 100.0, p.Improvement)
	})

	t.Run("compares against previous month", func(t *testing.T) {
		tracker := newTestTracker()
		tracker.AddLog(LogInput{Date: baseDate.AddDate(0, 0, -40), SavedItems: fourItems()})
		tracker.AddLog(LogInput{Date: baseDate.AddDate(0, 0, -5), SavedItems: []string{"rice", "beans"}})

		p := tracker.MonthlyProgress(baseDate)
		assert.Equal(t, 1, p.TotalLogs)
		assert.Equal(t, -50.0, p.Improvement)
	})
}
