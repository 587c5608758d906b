package recipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogFixture = `
- title: Veggie Omelette
  calories: 320
  servings: 2
  total_time: "00:15:00"
  ingredients:
    - 3 eggs
    - 1/2 cup spinach
  instructions:
    - whisk the eggs
    - cook in a pan
  nutrition:
    protein: 21g
  tags: [Breakfast, Vegetarian]
- title: Lentil Soup
  calories: 410
  ingredients: ["1 cup lentils", "1 onion"]
  instructions: ["simmer 30 minutes"]
`

func TestParseCatalog(t *testing.T) {
	raws, err := ParseCatalog([]byte(catalogFixture))
	require.NoError(t, err)
	require.Len(t, raws, 2)

	omelette := Normalize(raws[0])
	assert.Equal(t, "Veggie Omelette", omelette.Title)
	assert.Equal(t, 2, omelette.Servings)
	assert.Equal(t, "15m", omelette.Time)
	assert.Equal(t, []string{"3 eggs", "½ cup spinach"}, omelette.Ingredients)
	assert.Equal(t, "21g", omelette.Nutrition.Protein)
	assert.Equal(t, "32g", omelette.Nutrition.Carbs)
	assert.Equal(t, []string{"Breakfast", "Vegetarian"}, omelette.Tags)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeedOnlyFillsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogFixture), 0o644))

	raws, err := LoadCatalog(path)
	require.NoError(t, err)

	repo := newTestRepository(t)
	ctx := context.Background()

	n, err := Seed(ctx, repo, raws)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Seed(ctx, repo, raws)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestServiceToggleFavorite(t *testing.T) {
	repo := newTestRepository(t)
	svc := NewService(repo, repo)
	ctx := context.Background()

	r := sampleRecipe("ext-1", "Fried Rice", 500)
	r.ID = "recipe-1"
	_, err := repo.Upsert(ctx, []Recipe{r})
	require.NoError(t, err)

	on, err := svc.ToggleFavorite(ctx, "u1", "recipe-1")
	require.NoError(t, err)
	assert.True(t, on)

	favorites, err := svc.Favorites(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Fried Rice", favorites[0].Title)

	others, err := svc.Favorites(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, others)

	_, err = svc.ToggleBookmark(ctx, "u1", "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.Get(ctx, " ")
	assert.True(t, common.IsValidationError(err))
}

func TestServiceSearchTrimsQuery(t *testing.T) {
	repo := new(mockRepository)
	repo.On("List", context.Background(), Filter{Query: "soup", Tags: []string{"Dinner"}}).
		Return([]Recipe{{Title: "Soup"}}, nil)

	svc := NewService(repo, nil)
	got, err := svc.Search(context.Background(), Filter{Query: "  soup ", Tags: []string{"Dinner"}})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestBundledCatalogIsValid(t *testing.T) {
	raws, err := LoadCatalog(filepath.Join("..", "..", "..", "configs", "recipes.yaml"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raws), 21)

	slots := map[string]int{}
	for _, raw := range raws {
		r := Normalize(raw)
		assert.NotEqual(t, DefaultTitle, r.Title)
		assert.Positive(t, r.Calories, r.Title)
		assert.NotEmpty(t, r.Ingredients, r.Title)
		for _, tag := range r.Tags {
			slots[tag]++
		}
	}
	assert.GreaterOrEqual(t, slots["Breakfast"], 7)
	assert.GreaterOrEqual(t, slots["Lunch"], 7)
	assert.GreaterOrEqual(t, slots["Dinner"], 7)
}
