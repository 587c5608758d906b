// Package database 建立 gorm 連線與資料表遷移
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 依設定開啟資料庫並執行 AutoMigrate
func Open(cfg config.DatabaseConfig, models ...interface{}) (*gorm.DB, error) {
	var dialector gorm.Dialector
	memory := false
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = ":memory:"
		}
		memory = strings.Contains(dsn, ":memory:")
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 記憶體資料庫每條連線各自獨立，限制為單一連線
	if memory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	common.LogInfo("資料庫已連線",
		zap.String("driver", cfg.Driver),
		zap.Int("models", len(models)),
	)

	return db, nil
}

// OpenInMemory 開啟 sqlite 記憶體資料庫，供測試使用
func OpenInMemory(models ...interface{}) (*gorm.DB, error) {
	return Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"}, models...)
}

// Ping 檢查資料庫連線
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close 關閉資料庫連線
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}
