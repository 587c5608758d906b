package common

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RetryPolicy 固定次數、線性退避的重試設定
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// Retry 依照 RetryPolicy 執行 fn，第 n 次失敗後等待 n*Delay
func Retry(ctx context.Context, policy RetryPolicy, op string, fn func(ctx context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if IsValidationError(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		LogWarn("操作失敗，準備重試",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * policy.Delay):
		}
	}
	return err
}
