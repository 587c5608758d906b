package handlers

import (
	"net/http"

	"meal-planner/internal/core/waste"

	"github.com/gin-gonic/gin"
)

// WasteHandler 減廢追蹤處理器
type WasteHandler struct {
	waste *waste.Service
}

// NewWasteHandler 創建減廢追蹤處理器
func NewWasteHandler(svc *waste.Service) *WasteHandler {
	return &WasteHandler{waste: svc}
}

// AddLog POST /waste/logs
func (h *WasteHandler) AddLog(c *gin.Context) {
	var req waste.LogInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.waste.AddLog(c.Request.Context(), UserID(c), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Logs GET /waste/logs
func (h *WasteHandler) Logs(c *gin.Context) {
	logs, err := h.waste.Logs(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}

// Impact GET /waste/impact
func (h *WasteHandler) Impact(c *gin.Context) {
	totals, err := h.waste.Totals(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// Achievements GET /waste/achievements
func (h *WasteHandler) Achievements(c *gin.Context) {
	achievements, err := h.waste.Achievements(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// Weekly GET /waste/weekly
func (h *WasteHandler) Weekly(c *gin.Context) {
	stats, err := h.waste.WeeklyStats(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Monthly GET /waste/monthly
func (h *WasteHandler) Monthly(c *gin.Context) {
	progress, err := h.waste.MonthlyProgress(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
