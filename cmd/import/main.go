package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "path to a JSON array of recipe records")
	chunkSize := flag.Int("chunk-size", 0, "records per batch (overrides import.chunk_size)")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: import -file recipes.json [-chunk-size 50]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *chunkSize > 0 {
		cfg.Import.ChunkSize = *chunkSize
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database, recipe.Models()...)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	f, err := os.Open(*file)
	if err != nil {
		common.LogFatal("無法開啟匯入檔案", zap.String("file", *file), zap.Error(err))
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	importer := recipe.NewImporter(recipe.NewGormRepository(db), cfg.Import, rng, metrics.New())

	stats, err := importer.Run(ctx, bufio.NewReader(f))
	if err != nil {
		common.LogFatal("匯入失敗", zap.String("file", *file), zap.Error(err))
	}

	fmt.Printf("imported %d of %d records (skipped %d, errors %d) in %s\n",
		stats.Imported, stats.Total, stats.Skipped, stats.Errors, stats.Duration.Round(time.Millisecond))
}
