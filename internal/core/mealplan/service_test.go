package mealplan

import (
	"context"
	"errors"
	"testing"
	"time"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecipeRepository struct {
	mock.Mock
}

func (m *mockRecipeRepository) FindByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*recipe.Recipe); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecipeRepository) FindByIDs(ctx context.Context, ids []string) ([]recipe.Recipe, error) {
	args := m.Called(ctx, ids)
	if r, ok := args.Get(0).([]recipe.Recipe); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecipeRepository) List(ctx context.Context, filter recipe.Filter) ([]recipe.Recipe, error) {
	args := m.Called(ctx, filter)
	if r, ok := args.Get(0).([]recipe.Recipe); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecipeRepository) Candidates(ctx context.Context, limit int) ([]recipe.Recipe, error) {
	args := m.Called(ctx, limit)
	if r, ok := args.Get(0).([]recipe.Recipe); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecipeRepository) Upsert(ctx context.Context, recipes []recipe.Recipe) (int, error) {
	args := m.Called(ctx, recipes)
	return args.Int(0), args.Error(1)
}

func (m *mockRecipeRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type stubPlanner struct {
	plan *MealPlan
	err  error
}

func (s stubPlanner) Plan(context.Context, GenerateRequest) (*MealPlan, error) {
	return s.plan, s.err
}

var testPlanConfig = config.PlanConfig{
	MaxPlans:      2,
	MaxDays:       14,
	FetchLimitCap: 21,
	StoreRetries:  2,
	StoreDelay:    time.Millisecond,
}

func newTestService(t *testing.T, repo recipe.Repository, planner Planner, cfg config.PlanConfig) *Service {
	t.Helper()
	svc := NewService(repo, newTestPlanStore(t), NewGenerator(identityRand{}, cfg.MaxDays), planner, cfg, nil)
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	return svc
}

func TestServiceFetchLimit(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, testPlanConfig, nil)
	assert.Equal(t, 6, svc.FetchLimit(1))
	assert.Equal(t, 18, svc.FetchLimit(3))
	assert.Equal(t, 21, svc.FetchLimit(7))
	assert.Equal(t, 24, svc.FetchLimit(8))
	assert.Equal(t, 30, svc.FetchLimit(10))
	assert.Equal(t, 42, svc.FetchLimit(14))
}

func TestServiceGenerateLongPlanBeyondFetchCap(t *testing.T) {
	pool := testutil.NewRecipeFactory(3).Pool(24)
	repo := new(mockRecipeRepository)
	repo.On("Candidates", mock.Anything, 24).Return(pool, nil)

	svc := newTestService(t, repo, nil, testPlanConfig)
	plan, err := svc.Generate(context.Background(), "u1", GenerateRequest{Days: 8})
	require.NoError(t, err)
	assert.Len(t, plan.Days, 8)
	repo.AssertExpectations(t)
}

func TestServiceGenerateLocal(t *testing.T) {
	pool := testutil.NewRecipeFactory(1).Pool(9)
	repo := new(mockRecipeRepository)
	repo.On("Candidates", mock.Anything, 18).Return(pool, nil)

	svc := newTestService(t, repo, nil, testPlanConfig)
	ctx := context.Background()

	plan, err := svc.Generate(ctx, "u1", GenerateRequest{Days: 3})
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, plan.Source)
	assert.Len(t, plan.Days, 3)

	plans, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, plan.ID, plans[0].ID)
	repo.AssertExpectations(t)
}

func TestServiceGenerateRetriesTransientCatalogErrors(t *testing.T) {
	pool := testutil.NewRecipeFactory(2).Pool(3)
	repo := new(mockRecipeRepository)
	repo.On("Candidates", mock.Anything, 6).Return(nil, common.ErrStoreUnavailable).Once()
	repo.On("Candidates", mock.Anything, 6).Return(pool, nil).Once()

	svc := newTestService(t, repo, nil, testPlanConfig)
	_, err := svc.Generate(context.Background(), "u1", GenerateRequest{Days: 1})
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Candidates", 2)
}

func TestServiceGenerateErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty catalog", func(t *testing.T) {
		repo := new(mockRecipeRepository)
		repo.On("Candidates", mock.Anything, 6).Return([]recipe.Recipe{}, nil)
		_, err := newTestService(t, repo, nil, testPlanConfig).Generate(ctx, "u1", GenerateRequest{Days: 1})
		assert.ErrorIs(t, err, common.ErrEmptyCatalog)
	})

	t.Run("insufficient recipes", func(t *testing.T) {
		repo := new(mockRecipeRepository)
		repo.On("Candidates", mock.Anything, 12).Return(testutil.NewRecipeFactory(3).Pool(4), nil)
		_, err := newTestService(t, repo, nil, testPlanConfig).Generate(ctx, "u1", GenerateRequest{Days: 2})
		assert.ErrorIs(t, err, common.ErrInsufficientRecipes)
	})

	t.Run("invalid request", func(t *testing.T) {
		svc := newTestService(t, new(mockRecipeRepository), nil, testPlanConfig)
		for _, req := range []GenerateRequest{
			{Days: 0},
			{Days: 15},
			{Days: 2, FamilySize: -1},
			{Days: 2, NutritionGoals: &NutritionTargets{Calories: -5}},
		} {
			_, err := svc.Generate(ctx, "u1", req)
			assert.True(t, common.IsValidationError(err), "%+v", req)
		}
	})

	t.Run("plan limit", func(t *testing.T) {
		repo := new(mockRecipeRepository)
		repo.On("Candidates", mock.Anything, 6).Return(testutil.NewRecipeFactory(4).Pool(3), nil)
		svc := newTestService(t, repo, nil, testPlanConfig)

		for i := 0; i < testPlanConfig.MaxPlans; i++ {
			_, err := svc.Generate(ctx, "u1", GenerateRequest{Days: 1})
			require.NoError(t, err)
		}
		_, err := svc.Generate(ctx, "u1", GenerateRequest{Days: 1})
		assert.ErrorIs(t, err, common.ErrPlanLimitReached)

		_, err = svc.Generate(ctx, "u2", GenerateRequest{Days: 1})
		assert.NoError(t, err)
	})
}

func TestServiceGenerateWithAI(t *testing.T) {
	ctx := context.Background()
	aiPlan, err := ParsePlanDocument(aiResponse, 2, time.Now(), fixedIDs())
	require.NoError(t, err)

	t.Run("uses planner result", func(t *testing.T) {
		repo := new(mockRecipeRepository)
		svc := newTestService(t, repo, stubPlanner{plan: aiPlan}, testPlanConfig)

		plan, err := svc.Generate(ctx, "u1", GenerateRequest{Days: 2, UseAI: true})
		require.NoError(t, err)
		assert.Equal(t, SourceAI, plan.Source)
		repo.AssertNotCalled(t, "Candidates", mock.Anything, mock.Anything)
	})

	t.Run("falls back to catalog", func(t *testing.T) {
		repo := new(mockRecipeRepository)
		repo.On("Candidates", mock.Anything, 12).Return(testutil.NewRecipeFactory(5).Pool(6), nil)
		svc := newTestService(t, repo, stubPlanner{err: errors.New("provider down")}, testPlanConfig)

		plan, err := svc.Generate(ctx, "u1", GenerateRequest{Days: 2, UseAI: true})
		require.NoError(t, err)
		assert.Equal(t, SourceLocal, plan.Source)
	})
}

func TestServiceCompletingPlanStartsNextCycle(t *testing.T) {
	repo := new(mockRecipeRepository)
	repo.On("Candidates", mock.Anything, 6).Return(testutil.NewRecipeFactory(6).Pool(3), nil)

	cfg := testPlanConfig
	cfg.MaxPlans = 1
	svc := newTestService(t, repo, nil, cfg)
	ctx := context.Background()

	plan, err := svc.Generate(ctx, "u1", GenerateRequest{Days: 1})
	require.NoError(t, err)

	var next *MealPlan
	for _, slot := range []string{SlotBreakfast, SlotLunch, SlotDinner} {
		var updated *MealPlan
		updated, next, err = svc.UpdateMealStatus(ctx, "u1", plan.ID, MealStatusUpdate{Day: 0, Slot: slot, Status: recipe.StatusCompleted})
		require.NoError(t, err)
		assert.Equal(t, plan.ID, updated.ID)
		if slot != SlotDinner {
			assert.Nil(t, next)
		}
	}
	require.NotNil(t, next)
	assert.NotEqual(t, plan.ID, next.ID)
	assert.Equal(t, 0, next.Feedback.CompletedMeals)

	plans, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, next.ID, plans[0].ID)
	assert.Equal(t, 3, plans[1].Feedback.CompletedMeals)

	_, again, err := svc.UpdateMealStatus(ctx, "u1", plan.ID, MealStatusUpdate{Day: 0, Slot: SlotLunch, Status: recipe.StatusCompleted})
	require.NoError(t, err)
	assert.Nil(t, again)

	_, _, err = svc.UpdateMealStatus(ctx, "u1", plan.ID, MealStatusUpdate{Day: 0, Slot: SlotLunch, Status: "done"})
	assert.True(t, common.IsValidationError(err))
}

func TestServiceSubmitFeedback(t *testing.T) {
	repo := new(mockRecipeRepository)
	repo.On("Candidates", mock.Anything, 6).Return(testutil.NewRecipeFactory(7).Pool(3), nil)
	svc := newTestService(t, repo, nil, testPlanConfig)
	ctx := context.Background()

	plan, err := svc.Generate(ctx, "u1", GenerateRequest{Days: 1})
	require.NoError(t, err)

	_, err = svc.SubmitFeedback(ctx, "u1", plan.ID, FeedbackRequest{Rating: 6})
	assert.True(t, common.IsValidationError(err))

	updated, err := svc.SubmitFeedback(ctx, "u1", plan.ID, FeedbackRequest{Rating: 4, Comments: " tasty "})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Feedback.Rating)
	assert.Equal(t, "tasty", updated.Feedback.Comments)

	recipes, err := svc.RecipesForPlan(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.Len(t, recipes, 3)

	_, err = svc.RecipesForPlan(ctx, "u2", plan.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestScaleRecipe(t *testing.T) {
	r := recipe.Recipe{
		Servings:    4,
		Calories:    800,
		Ingredients: []string{"2 cups cherry tomatoes", "salt to taste"},
		Nutrition:   recipe.Nutrition{Protein: "20g", Carbs: "60g", Fat: "10g", Fiber: "8g"},
	}

	scaled, err := ScaleRecipe(r, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, scaled.Servings)
	assert.Equal(t, 400, scaled.Calories)
	assert.Equal(t, []string{"1 cups cherry tomatoes", "salt to taste"}, scaled.Ingredients)
	assert.Equal(t, "10g", scaled.Nutrition.Protein)
	assert.Equal(t, "2 cups cherry tomatoes", r.Ingredients[0])

	same, err := ScaleRecipe(r, 4)
	require.NoError(t, err)
	assert.Equal(t, r, same)

	_, err = ScaleRecipe(r, 0)
	assert.True(t, common.IsValidationError(err))
}

func TestServiceScaleCatalogRecipe(t *testing.T) {
	repo := new(mockRecipeRepository)
	repo.On("FindByID", mock.Anything, "r1").Return(&recipe.Recipe{ID: "r1", Servings: 2, Calories: 500}, nil)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, common.WithDetail(common.ErrNotFound, "recipe not found", nil))

	svc := newTestService(t, repo, nil, testPlanConfig)
	got, err := svc.ScaleCatalogRecipe(context.Background(), "r1", 4)
	require.NoError(t, err)
	assert.Equal(t, 1000, got.Calories)

	_, err = svc.ScaleCatalogRecipe(context.Background(), "missing", 4)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
