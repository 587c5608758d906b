package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIngredient(t *testing.T) {
	tests := []struct {
		in   string
		want Parsed
	}{
		{"2 cups cherry tomatoes", Parsed{2, "cups", "cherry tomatoes"}},
		{"1 1/2 cups flour", Parsed{1.5, "cups", "flour"}},
		{"1/2 tsp salt", Parsed{0.5, "tsp", "salt"}},
		{"0.25 lb butter", Parsed{0.25, "lb", "butter"}},
		{"1 ½ cups milk", Parsed{1.5, "cups", "milk"}},
		{"¼ cup sugar", Parsed{0.25, "cup", "sugar"}},
		{"3 Tbsp. olive oil", Parsed{3, "tbsp", "olive oil"}},
		{"2 cups of rice", Parsed{2, "cups", "rice"}},
		{"2 eggs", Parsed{2, DefaultUnit, "eggs"}},
		{"salt to taste", Parsed{1, DefaultUnit, "salt to taste"}},
		{"  fresh   basil ", Parsed{1, DefaultUnit, "fresh basil"}},
		{"1/0 cup water", Parsed{1, DefaultUnit, "1/0 cup water"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseIngredient(tt.in)
			assert.True(t, ok)
			assert.Equal(t, tt.want.Unit, got.Unit)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.InDelta(t, tt.want.Quantity, got.Quantity, 1e-9)
		})
	}
}

func TestParseIngredientRejectsBlank(t *testing.T) {
	_, ok := ParseIngredient("   ")
	assert.False(t, ok)
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "1", FormatQuantity(1))
	assert.Equal(t, "1.5", FormatQuantity(1.5))
	assert.Equal(t, "0.3", FormatQuantity(1.0/3))
	assert.Equal(t, "2", FormatQuantity(1.96))
}

func TestScaleIngredient(t *testing.T) {
	assert.Equal(t, "1 cups cherry tomatoes", ScaleIngredient("2 cups cherry tomatoes", 4, 2))
	assert.Equal(t, "3 cups flour", ScaleIngredient("1 1/2 cups flour", 2, 4))
	assert.Equal(t, "1.5 cup milk", ScaleIngredient("½ cup milk", 1, 3))
	assert.Equal(t, "salt to taste", ScaleIngredient("salt to taste", 2, 6))
	assert.Equal(t, "2 eggs", ScaleIngredient("2 eggs", 0, 4))
	assert.Equal(t, "2 eggs", ScaleIngredient("2 eggs", 4, 4))
	assert.Equal(t, "2 eggs", ScaleIngredient("2 eggs", 4, -1))
}

func TestCategorize(t *testing.T) {
	tests := map[string]string{
		"cherry tomatoes": CategoryProduce,
		"eggplant":        CategoryProduce,
		"chicken breast":  CategoryMeat,
		"whole milk":      CategoryDairy,
		"eggs":            CategoryDairy,
		"olive oil":       CategoryPantry,
		"black pepper":    CategoryPantry,
		"black beans":     CategoryCanned,
		"paper towels":    CategoryOther,
	}
	for name, want := range tests {
		assert.Equal(t, want, Categorize(name), name)
	}
}
