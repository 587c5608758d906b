package recipe

import (
	"context"
	"testing"

	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *GormRepository {
	t.Helper()
	db, err := database.OpenInMemory(Models()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return NewGormRepository(db)
}

func sampleRecipe(externalID, title string, calories int, tags ...string) Recipe {
	return Normalize(RawRecipe{
		ExternalID:  externalID,
		Title:       title,
		Calories:    calories,
		Ingredients: []string{"1 cup rice", "2 eggs"},
		Tags:        tags,
	})
}

func TestGormRepositoryUpsertIgnoresDuplicates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	n, err := repo.Upsert(ctx, []Recipe{
		sampleRecipe("ext-1", "Fried Rice", 500),
		sampleRecipe("ext-2", "Egg Salad", 300),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.Upsert(ctx, []Recipe{
		sampleRecipe("ext-1", "Fried Rice Again", 500),
		sampleRecipe("ext-3", "Pancakes", 450),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestGormRepositoryFindByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	r := sampleRecipe("ext-1", "Fried Rice", 500, "Dinner")
	r.ID = "recipe-1"
	_, err := repo.Upsert(ctx, []Recipe{r})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "recipe-1")
	require.NoError(t, err)
	assert.Equal(t, "Fried Rice", got.Title)
	assert.Equal(t, []string{"1 cup rice", "2 eggs"}, got.Ingredients)
	assert.Equal(t, r.Nutrition, got.Nutrition)
	assert.Equal(t, []string{"Dinner"}, got.Tags)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGormRepositoryListFiltersByTitleAndAnyTag(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, []Recipe{
		sampleRecipe("a", "Chicken Curry", 600, "Dinner", "Indian"),
		sampleRecipe("b", "Chicken Salad", 350, "Lunch"),
		sampleRecipe("c", "Berry Smoothie", 200, "Breakfast"),
	})
	require.NoError(t, err)

	byTitle, err := repo.List(ctx, Filter{Query: "CHICKEN"})
	require.NoError(t, err)
	assert.Len(t, byTitle, 2)

	byTags, err := repo.List(ctx, Filter{Tags: []string{"breakfast", "Lunch"}})
	require.NoError(t, err)
	titles := make([]string, 0, len(byTags))
	for _, r := range byTags {
		titles = append(titles, r.Title)
	}
	assert.ElementsMatch(t, []string{"Chicken Salad", "Berry Smoothie"}, titles)

	both, err := repo.List(ctx, Filter{Query: "chicken", Tags: []string{"Dinner"}})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Chicken Curry", both[0].Title)

	paged, err := repo.List(ctx, Filter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, paged, 1)
}

func TestGormRepositoryCandidatesSkipIncompleteRecords(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	noIngredients := Normalize(RawRecipe{ExternalID: "x", Title: "Water", Calories: 10})
	_, err := repo.Upsert(ctx, []Recipe{
		sampleRecipe("a", "Omelette", 300),
		sampleRecipe("b", "Zero Cal", 0),
		noIngredients,
	})
	require.NoError(t, err)

	got, err := repo.Candidates(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Omelette", got[0].Title)

	none, err := repo.Candidates(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormRepositoryToggleMark(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	on, err := repo.ToggleMark(ctx, "u1", "r1", MarkFavorite)
	require.NoError(t, err)
	assert.True(t, on)

	_, err = repo.ToggleMark(ctx, "u1", "r1", MarkBookmark)
	require.NoError(t, err)

	ids, err := repo.MarkedIDs(ctx, "u1", MarkFavorite)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids)

	off, err := repo.ToggleMark(ctx, "u1", "r1", MarkFavorite)
	require.NoError(t, err)
	assert.False(t, off)

	ids, err = repo.MarkedIDs(ctx, "u1", MarkFavorite)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = repo.MarkedIDs(ctx, "u1", MarkBookmark)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids)
}
