package handlers

import (
	"net/http"
	"strings"
	"time"

	"meal-planner/internal/core/tracking"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// TrackingHandler 烹調紀錄處理器
type TrackingHandler struct {
	tracking *tracking.Service
	now      func() time.Time
}

// NewTrackingHandler 創建烹調紀錄處理器
func NewTrackingHandler(svc *tracking.Service) *TrackingHandler {
	return &TrackingHandler{tracking: svc, now: time.Now}
}

// Track POST /tracking/meals
func (h *TrackingHandler) Track(c *gin.Context) {
	var req tracking.TrackRequest
	if !bindJSON(c, &req) {
		return
	}
	meal, err := h.tracking.Track(c.Request.Context(), UserID(c), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// Meals GET /tracking/meals?from=&to=，預設為最近 7 天
func (h *TrackingHandler) Meals(c *gin.Context) {
	now := h.now().UTC()
	from, err := parseTime(c.Query("from"), now.AddDate(0, 0, -7))
	if err != nil {
		WriteError(c, err)
		return
	}
	to, err := parseTime(c.Query("to"), now)
	if err != nil {
		WriteError(c, err)
		return
	}

	meals, err := h.tracking.MealsBetween(c.Request.Context(), UserID(c), from, to)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals, "count": len(meals)})
}

// Stats GET /tracking/stats
func (h *TrackingHandler) Stats(c *gin.Context) {
	usage, err := h.tracking.UsageStats(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	week, err := h.tracking.WeekStats(c.Request.Context(), UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage, "week": week})
}

// parseTime 接受 RFC3339 或 YYYY-MM-DD
func parseTime(raw string, def time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, common.NewValidationError("invalid parameter: time must be RFC3339 or YYYY-MM-DD")
}
