package cache

import (
	"context"
	"fmt"
	"time"

	"meal-planner/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// RedisCache 以 Redis 作為二級快取
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache 連線 Redis 並確認可用
func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

// Get 取得快取值，未命中時回傳 false
func (s *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cache: %w", err)
	}
	return val, true, nil
}

// Set 設置快取值
func (s *RedisCache) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Ping 檢查連線
func (s *RedisCache) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *RedisCache) Close() error {
	return s.client.Close()
}
