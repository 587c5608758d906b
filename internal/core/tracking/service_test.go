package tracking

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecipes map[string]bool

func (s stubRecipes) FindByID(_ context.Context, id string) (*recipe.Recipe, error) {
	if !s[id] {
		return nil, common.WithDetail(common.ErrNotFound, "recipe not found", nil)
	}
	return &recipe.Recipe{ID: id}, nil
}

func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	db, err := database.OpenInMemory(Models()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	clock := now
	svc := NewService(NewGormStore(db), stubRecipes{"r1": true, "r2": true})
	svc.now = func() time.Time { return clock }
	return svc, &clock
}

func TestServiceTrackAndQuery(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	*clock = now.AddDate(0, 0, -10)
	_, err := svc.Track(ctx, "u1", TrackRequest{RecipeID: "r1", ServingsMade: 2, IngredientsUsed: []IngredientUsage{use("rice")}})
	require.NoError(t, err)

	*clock = now.AddDate(0, 0, -2)
	tracked, err := svc.Track(ctx, "u1", TrackRequest{
		RecipeID:        "r2",
		ServingsMade:    4,
		IngredientsUsed: []IngredientUsage{use("rice"), sub("butter", "ghee")},
		Notes:           "extra spicy",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tracked.ID)

	*clock = now
	meals, err := svc.MealsBetween(ctx, "u1", now.AddDate(0, 0, -3), now)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "r2", meals[0].RecipeID)
	assert.Equal(t, "extra spicy", meals[0].Notes)
	assert.Equal(t, tracked.IngredientsUsed, meals[0].IngredientsUsed)

	week, err := svc.WeekStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, WeekStats{MealsCooked: 1, IngredientsUsed: 2, WasteReduced: 1}, week)

	usage, err := svc.UsageStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"rice", "butter"}, usage.MostUsed)

	others, err := svc.UsageStats(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, others.MostUsed)
}

func TestServiceTrackValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Track(ctx, "u1", TrackRequest{RecipeID: "r1", ServingsMade: 0})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.Track(ctx, "u1", TrackRequest{RecipeID: "r1", ServingsMade: 1, IngredientsUsed: []IngredientUsage{{Name: "butter", WasSubstituted: true}}})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.Track(ctx, "u1", TrackRequest{RecipeID: "missing", ServingsMade: 1})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.MealsBetween(ctx, "u1", now, now.AddDate(0, 0, -1))
	assert.True(t, common.IsValidationError(err))
}
