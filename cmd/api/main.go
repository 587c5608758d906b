package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-planner/internal/api"
	"meal-planner/internal/core/ai"
	"meal-planner/internal/core/ai/cache"
	aiservice "meal-planner/internal/core/ai/service"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/recipe"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/core/tracking"
	"meal-planner/internal/core/waste"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	ctx := context.Background()

	db, err := database.Open(cfg.Database, allModels()...)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	repo := recipe.NewGormRepository(db)
	seedCatalog(ctx, repo, cfg.Catalog.SeedFile)

	collector := metrics.New()

	planner, closeAI := setupPlanner(ctx, cfg, collector)
	defer closeAI()

	plans := mealplan.NewService(repo, mealplan.NewGormPlanStore(db),
		mealplan.NewGenerator(nil, cfg.Plan.MaxDays), planner, cfg.Plan, collector)

	router, dedup := api.SetupRouter(cfg, api.Services{
		Recipes:  recipe.NewService(repo, repo),
		Plans:    plans,
		Shopping: shopping.NewService(shopping.NewGormStore(db), plans),
		Waste:    waste.NewService(waste.NewGormStore(db), collector),
		Tracking: tracking.NewService(tracking.NewGormStore(db), repo),
		Metrics:  collector,
		Ping:     func(ctx context.Context) error { return database.Ping(ctx, db) },
	})
	defer dedup.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("ai_enabled", planner != nil),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

func allModels() []interface{} {
	var models []interface{}
	models = append(models, recipe.Models()...)
	models = append(models, mealplan.Models()...)
	models = append(models, shopping.Models()...)
	models = append(models, waste.Models()...)
	models = append(models, tracking.Models()...)
	return models
}

// seedCatalog 目錄為空時寫入種子食譜，失敗只記錄警告
func seedCatalog(ctx context.Context, repo recipe.Repository, path string) {
	if path == "" {
		return
	}
	raws, err := recipe.LoadCatalog(path)
	if err != nil {
		common.LogWarn("無法載入種子食譜", zap.String("path", path), zap.Error(err))
		return
	}
	if _, err := recipe.Seed(ctx, repo, raws); err != nil {
		common.LogWarn("種子食譜寫入失敗", zap.Error(err))
	}
}

// setupPlanner 建立 AI 計畫生成器，未啟用或初始化失敗時回傳 nil 並只使用本地生成
func setupPlanner(ctx context.Context, cfg *config.Config, collector *metrics.Collector) (mealplan.Planner, func()) {
	noop := func() {}
	if !cfg.AI.Enabled {
		return nil, noop
	}

	p, err := ai.NewProvider(ctx, cfg)
	if err != nil {
		common.LogWarn("AI provider 初始化失敗，只使用本地生成", zap.Error(err))
		return nil, noop
	}

	memory := cache.NewManager(cfg.Cache)

	var remote *cache.RedisCache
	if cfg.Redis.Enabled {
		remote, err = cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			common.LogWarn("Redis 無法連線，只使用記憶體快取", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			remote = nil
		}
	}

	// 避免將 nil 指標包成非 nil 介面
	var svc *aiservice.Service
	if remote != nil {
		svc = aiservice.NewService(p, memory, remote, cfg.AI, collector)
	} else {
		svc = aiservice.NewService(p, memory, nil, cfg.AI, collector)
	}

	common.LogInfo("AI 備援生成已啟用",
		zap.String("provider", p.Name()),
		zap.Bool("memory_cache", memory != nil),
		zap.Bool("redis_cache", remote != nil),
	)

	return mealplan.NewAIPlanner(svc), func() {
		if err := svc.Close(); err != nil {
			common.LogWarn("AI service close failed", zap.Error(err))
		}
		if remote != nil {
			_ = remote.Close()
		}
	}
}
