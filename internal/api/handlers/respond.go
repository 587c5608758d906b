// Package handlers HTTP 處理器
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"meal-planner/internal/api/middleware"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnonymousUser 未帶使用者標頭時的預設使用者
const AnonymousUser = "anonymous"

// UserID 從標頭取得使用者 ID
func UserID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(middleware.UserIDHeader)); id != "" {
		return id
	}
	return AnonymousUser
}

// WriteError 將錯誤轉為統一的錯誤回應
func WriteError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		if _, ok := common.AsCustomError(err); !ok {
			err = common.WithDetail(common.ErrGatewayTimeout, "request timed out", err)
		}
	}

	status, code := common.HTTPStatus(err)
	message := err.Error()
	if ce, ok := common.AsCustomError(err); ok {
		message = ce.Message
	}
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestid.Get(c)),
			zap.String("code", code),
			zap.Error(err),
		)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, common.ErrorResponse{Code: code, Message: message})
}

// bindJSON 解析請求體，失敗時回應 400
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		WriteError(c, common.NewValidationError("invalid request body: "+err.Error()))
		return false
	}
	return true
}

// queryInt 讀取整數查詢參數，空值時回傳預設值
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, common.NewValidationError("invalid parameter: " + key + " must be a non-negative integer")
	}
	return n, nil
}
