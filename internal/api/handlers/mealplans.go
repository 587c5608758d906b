package handlers

import (
	"net/http"

	"meal-planner/internal/core/mealplan"

	"github.com/gin-gonic/gin"
)

// MealPlanHandler 餐點計畫處理器
type MealPlanHandler struct {
	plans *mealplan.Service
}

// NewMealPlanHandler 創建餐點計畫處理器
func NewMealPlanHandler(plans *mealplan.Service) *MealPlanHandler {
	return &MealPlanHandler{plans: plans}
}

// Generate POST /meal-plans
func (h *MealPlanHandler) Generate(c *gin.Context) {
	var req mealplan.GenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.plans.Generate(c.Request.Context(), UserID(c), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// List GET /meal-plans
func (h *MealPlanHandler) List(c *gin.Context) {
	plans, err := h.plans.List(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal_plans": plans, "count": len(plans)})
}

// Get GET /meal-plans/:id
func (h *MealPlanHandler) Get(c *gin.Context) {
	plan, err := h.plans.Get(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Delete DELETE /meal-plans/:id
func (h *MealPlanHandler) Delete(c *gin.Context) {
	if err := h.plans.Delete(c.Request.Context(), UserID(c), c.Param("id")); err != nil {
		WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateMeal PUT /meal-plans/:id/meals
func (h *MealPlanHandler) UpdateMeal(c *gin.Context) {
	var req mealplan.MealStatusUpdate
	if !bindJSON(c, &req) {
		return
	}
	updated, next, err := h.plans.UpdateMealStatus(c.Request.Context(), UserID(c), c.Param("id"), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal_plan": updated, "next_plan": next})
}

// Feedback PUT /meal-plans/:id/feedback
func (h *MealPlanHandler) Feedback(c *gin.Context) {
	var req mealplan.FeedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.plans.SubmitFeedback(c.Request.Context(), UserID(c), c.Param("id"), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
