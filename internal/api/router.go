// Package api 組裝 HTTP 路由與中間件
package api

import (
	"time"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/handlers/health"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/recipe"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/core/tracking"
	"meal-planner/internal/core/waste"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services 路由需要的領域服務
type Services struct {
	Recipes  *recipe.Service
	Plans    *mealplan.Service
	Shopping *shopping.Service
	Waste    *waste.Service
	Tracking *tracking.Service
	Metrics  *metrics.Collector
	Ping     health.PingFunc
}

// SetupRouter 設置路由，回傳的 Deduplicator 需在關閉時呼叫 Close
func SetupRouter(cfg *config.Config, svc Services) (*gin.Engine, *middleware.Deduplicator) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.UserIDHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	router.Use(middleware.Deduplication(dedup))
	router.Use(svc.Metrics.Middleware())
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, cfg.AI.Enabled, svc.Ping)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(svc.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		recipes := handlers.NewRecipeHandler(svc.Recipes, svc.Plans)
		recipeGroup := v1.Group("/recipes")
		{
			recipeGroup.GET("", recipes.Search)
			recipeGroup.GET("/favorites", recipes.Favorites)
			recipeGroup.GET("/bookmarks", recipes.Bookmarks)
			recipeGroup.GET("/:id", recipes.Get)
			recipeGroup.POST("/:id/favorite", recipes.ToggleFavorite)
			recipeGroup.POST("/:id/bookmark", recipes.ToggleBookmark)
			recipeGroup.POST("/:id/scale", recipes.Scale)
		}

		plans := handlers.NewMealPlanHandler(svc.Plans)
		planGroup := v1.Group("/meal-plans")
		{
			planGroup.POST("", plans.Generate)
			planGroup.GET("", plans.List)
			planGroup.GET("/:id", plans.Get)
			planGroup.DELETE("/:id", plans.Delete)
			planGroup.PUT("/:id/meals", plans.UpdateMeal)
			planGroup.PUT("/:id/feedback", plans.Feedback)
		}

		lists := handlers.NewShoppingHandler(svc.Shopping)
		shoppingGroup := v1.Group("/shopping-list")
		{
			shoppingGroup.GET("", lists.List)
			shoppingGroup.POST("/from-plan", lists.FromPlan)
			shoppingGroup.POST("/items", lists.AddItem)
			shoppingGroup.PATCH("/items/:id/toggle", lists.Toggle)
			shoppingGroup.DELETE("/items/:id", lists.Delete)
			shoppingGroup.DELETE("/completed", lists.ClearCompleted)
		}

		wasteHandler := handlers.NewWasteHandler(svc.Waste)
		wasteGroup := v1.Group("/waste")
		{
			wasteGroup.POST("/logs", wasteHandler.AddLog)
			wasteGroup.GET("/logs", wasteHandler.Logs)
			wasteGroup.GET("/impact", wasteHandler.Impact)
			wasteGroup.GET("/achievements", wasteHandler.Achievements)
			wasteGroup.GET("/weekly", wasteHandler.Weekly)
			wasteGroup.GET("/monthly", wasteHandler.Monthly)
		}

		trackingHandler := handlers.NewTrackingHandler(svc.Tracking)
		trackingGroup := v1.Group("/tracking")
		{
			trackingGroup.POST("/meals", trackingHandler.Track)
			trackingGroup.GET("/meals", trackingHandler.Meals)
			trackingGroup.GET("/stats", trackingHandler.Stats)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Duration("dedup_window", cfg.DedupWindow),
	)

	return router, dedup
}
