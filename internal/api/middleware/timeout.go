package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// UserIDHeader 識別使用者的請求標頭
const UserIDHeader = "X-User-ID"

// Timeout 為請求上下文設置逾時，逾時錯誤由各處理器回應
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
