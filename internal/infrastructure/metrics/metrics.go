// Package metrics 提供 Prometheus 指標收集
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector 指標收集器，每個實例使用獨立的 registry
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	plansGenerated       *prometheus.CounterVec
	aiRequests           *prometheus.CounterVec
	wasteLogs            prometheus.Counter
	achievementsUnlocked prometheus.Counter
	recipesImported      prometheus.Counter
}

// New 創建指標收集器
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		plansGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plans_generated_total",
				Help: "Total number of meal plans generated",
			},
			[]string{"source"},
		),
		aiRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_requests_total",
				Help: "Total number of AI provider requests",
			},
			[]string{"provider", "status"},
		),
		wasteLogs: factory.NewCounter(prometheus.CounterOpts{
			Name: "waste_logs_total",
			Help: "Total number of waste logs recorded",
		}),
		achievementsUnlocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Total number of achievements unlocked",
		}),
		recipesImported: factory.NewCounter(prometheus.CounterOpts{
			Name: "recipes_imported_total",
			Help: "Total number of recipes imported into the catalog",
		}),
	}
}

// Registry 回傳底層 registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler 回傳 /metrics 處理器
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware 記錄 HTTP 請求指標
func (c *Collector) Middleware() gin.HandlerFunc {
	if c == nil {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(ctx.Writer.Status())
		c.httpRequestsTotal.WithLabelValues(ctx.Request.Method, path, status).Inc()
		c.httpRequestDuration.WithLabelValues(ctx.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// PlanGenerated 記錄計畫生成來源 (local | ai)
func (c *Collector) PlanGenerated(source string) {
	if c == nil {
		return
	}
	c.plansGenerated.WithLabelValues(source).Inc()
}

// AIRequest 記錄 AI 請求結果
func (c *Collector) AIRequest(provider string, err error) {
	if c == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.aiRequests.WithLabelValues(provider, status).Inc()
}

// WasteLogged 記錄新增的減廢紀錄與解鎖成就數
func (c *Collector) WasteLogged(unlocked int) {
	if c == nil {
		return
	}
	c.wasteLogs.Inc()
	c.achievementsUnlocked.Add(float64(unlocked))
}

// RecipesImported 記錄匯入筆數
func (c *Collector) RecipesImported(n int) {
	if c == nil {
		return
	}
	c.recipesImported.Add(float64(n))
}
