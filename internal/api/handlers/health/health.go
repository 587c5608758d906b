package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	AI        bool                   `json:"ai_enabled"`
}

// PingFunc 檢查外部依賴是否可用
type PingFunc func(ctx context.Context) error

// Handler 健康檢查處理器
type Handler struct {
	version   string
	aiEnabled bool
	ping      PingFunc
}

// NewHandler 創建健康檢查處理器，ping 用於就緒檢查
func NewHandler(version string, aiEnabled bool, ping PingFunc) *Handler {
	return &Handler{version: version, aiEnabled: aiEnabled, ping: ping}
}

// HealthCheck GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		AI:        h.aiEnabled,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	})
}

// ReadinessCheck GET /ready，資料庫無法連線時回 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			common.LogWarn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  "database unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// LivenessCheck GET /live
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
