package waste

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.OpenInMemory(Models()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	svc := NewService(NewGormStore(db), nil)
	svc.now = func() time.Time { return baseDate }
	return svc
}

func TestServiceAddLogPersistsAchievements(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := svc.AddLog(ctx, "u1", LogInput{Date: baseDate.AddDate(0, 0, -i), SavedItems: fourItems()})
		require.NoError(t, err)
		assert.Empty(t, res.Unlocked)
	}

	res, err := svc.AddLog(ctx, "u1", LogInput{Date: baseDate.AddDate(0, 0, -2), SavedItems: fourItems()})
	require.NoError(t, err)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, AchievementClimateChampion, res.Unlocked[0].ID)
	assert.Equal(t, 30.0, res.Totals.CO2Saved)

	achievements, err := svc.Achievements(ctx, "u1")
	require.NoError(t, err)
	climate := findAchievement(t, achievements, AchievementClimateChampion)
	assert.True(t, climate.Completed)
	require.NotNil(t, climate.DateCompleted)
	warrior := findAchievement(t, achievements, AchievementWasteWarrior)
	assert.Equal(t, 3.0, warrior.Progress)

	totals, err := svc.Totals(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, totals.MealsTracked)
	assert.Equal(t, 12, totals.WasteReduced)

	logs, err := svc.Logs(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, fourItems(), logs[0].SavedItems)
	assert.Empty(t, logs[0].WastedItems)

	other, err := svc.Totals(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, Totals{}, other)
}

func TestServiceStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddLog(ctx, "u1", LogInput{Date: baseDate.AddDate(0, 0, -1), SavedItems: []string{"rice"}, WastedItems: []string{"kale"}})
	require.NoError(t, err)

	weekly, err := svc.WeeklyStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, weekly.SavedItems)
	assert.Equal(t, 1, weekly.WastedItems)

	monthly, err := svc.MonthlyProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, monthly.TotalLogs)
}

func TestServiceAddLogValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddLog(ctx, "u1", LogInput{SavedItems: []string{"rice"}})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.AddLog(ctx, "u1", LogInput{Date: baseDate, SavedItems: []string{"rice", ""}})
	assert.True(t, common.IsValidationError(err))
}
