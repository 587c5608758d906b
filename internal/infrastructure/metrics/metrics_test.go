package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestCollectorCounters(t *testing.T) {
	c := New()

	c.PlanGenerated("local")
	c.PlanGenerated("local")
	c.PlanGenerated("ai")
	c.AIRequest("openrouter", nil)
	c.AIRequest("openrouter", errors.New("timeout"))
	c.RecipesImported(5)
	c.WasteLogged(2)

	assert.Equal(t, 2.0, counterValue(t, c.plansGenerated.WithLabelValues("local")))
	assert.Equal(t, 1.0, counterValue(t, c.plansGenerated.WithLabelValues("ai")))
	assert.Equal(t, 5.0, counterValue(t, c.recipesImported))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.PlanGenerated("local")
		c.AIRequest("gemini", nil)
		c.WasteLogged(1)
		c.RecipesImported(1)
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/metrics", gin.WrapH(c.Handler()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := New()
	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, 1.0, counterValue(t, c.httpRequestsTotal.WithLabelValues("GET", "/ping", "200")))
}
