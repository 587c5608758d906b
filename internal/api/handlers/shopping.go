package handlers

import (
	"net/http"

	"meal-planner/internal/core/shopping"

	"github.com/gin-gonic/gin"
)

// ShoppingHandler 購物清單處理器
type ShoppingHandler struct {
	lists *shopping.Service
}

// NewShoppingHandler 創建購物清單處理器
func NewShoppingHandler(lists *shopping.Service) *ShoppingHandler {
	return &ShoppingHandler{lists: lists}
}

// AddItemRequest 手動新增項目
type AddItemRequest struct {
	Text string `json:"text" binding:"required"`
}

// List GET /shopping-list
func (h *ShoppingHandler) List(c *gin.Context) {
	items, err := h.lists.List(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// FromPlan POST /shopping-list/from-plan
func (h *ShoppingHandler) FromPlan(c *gin.Context) {
	var req shopping.FromPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	items, err := h.lists.AddFromPlan(c.Request.Context(), UserID(c), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// AddItem POST /shopping-list/items
func (h *ShoppingHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.lists.AddItem(c.Request.Context(), UserID(c), req.Text)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Toggle PATCH /shopping-list/items/:id/toggle
func (h *ShoppingHandler) Toggle(c *gin.Context) {
	item, err := h.lists.Toggle(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete DELETE /shopping-list/items/:id
func (h *ShoppingHandler) Delete(c *gin.Context) {
	if err := h.lists.Delete(c.Request.Context(), UserID(c), c.Param("id")); err != nil {
		WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearCompleted DELETE /shopping-list/completed
func (h *ShoppingHandler) ClearCompleted(c *gin.Context) {
	n, err := h.lists.ClearCompleted(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}
