package handlers

import (
	"net/http"
	"strings"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/recipe"

	"github.com/gin-gonic/gin"
)

// RecipeHandler 食譜目錄處理器
type RecipeHandler struct {
	recipes *recipe.Service
	plans   *mealplan.Service
}

// NewRecipeHandler 創建食譜處理器
func NewRecipeHandler(recipes *recipe.Service, plans *mealplan.Service) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, plans: plans}
}

// ScaleRequest 份量換算請求
type ScaleRequest struct {
	Servings int `json:"servings" binding:"required,gte=1"`
}

// Search GET /recipes
func (h *RecipeHandler) Search(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		WriteError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		WriteError(c, err)
		return
	}

	var tags []string
	for _, t := range strings.Split(c.Query("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	recipes, err := h.recipes.Search(c.Request.Context(), recipe.Filter{
		Query:  c.Query("q"),
		Tags:   tags,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

// Get GET /recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	r, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ToggleFavorite POST /recipes/:id/favorite
func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	on, err := h.recipes.ToggleFavorite(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe_id": c.Param("id"), "favorite": on})
}

// ToggleBookmark POST /recipes/:id/bookmark
func (h *RecipeHandler) ToggleBookmark(c *gin.Context) {
	on, err := h.recipes.ToggleBookmark(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe_id": c.Param("id"), "bookmarked": on})
}

// Favorites GET /recipes/favorites
func (h *RecipeHandler) Favorites(c *gin.Context) {
	recipes, err := h.recipes.Favorites(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

// Bookmarks GET /recipes/bookmarks
func (h *RecipeHandler) Bookmarks(c *gin.Context) {
	recipes, err := h.recipes.Bookmarks(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

// Scale POST /recipes/:id/scale
func (h *RecipeHandler) Scale(c *gin.Context) {
	var req ScaleRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.plans.ScaleCatalogRecipe(c.Request.Context(), c.Param("id"), req.Servings)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
