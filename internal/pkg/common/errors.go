package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"error"`             // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 WithDetail 產生的副本仍可與預定義錯誤比對
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// WithDetail 以預定義錯誤為基礎，附上具體訊息與原始錯誤
func WithDetail(base *CustomError, message string, err error) *CustomError {
	if message == "" {
		message = base.Message
	}
	return &CustomError{
		Code:    base.Code,
		Message: message,
		Status:  base.Status,
		Err:     err,
	}
}

// AsCustomError 取出錯誤鏈中的 CustomError
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeNotFound         = "NOT_FOUND"          // 404
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429
	ErrCodePlanLimitReached = "PLAN_LIMIT_REACHED" // 409

	// 資料不足 (422)
	ErrCodeInsufficientRecipes = "INSUFFICIENT_RECIPES"
	ErrCodeEmptyCatalog        = "EMPTY_CATALOG"

	// 服務器錯誤 (5xx)
	ErrCodeInternalError    = "INTERNAL_ERROR"    // 500
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE" // 503
	ErrCodeAIService        = "AI_SERVICE_ERROR"  // 503
	ErrCodeInvalidAIPlan    = "INVALID_AI_PLAN"   // 502
	ErrCodeGatewayTimeout   = "GATEWAY_TIMEOUT"   // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrNotFound         = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrPlanLimitReached = NewError(ErrCodePlanLimitReached, "meal plan limit reached", http.StatusConflict, nil)

	// 資料不足
	ErrInsufficientRecipes = NewError(ErrCodeInsufficientRecipes, "not enough recipes", http.StatusUnprocessableEntity, nil)
	ErrEmptyCatalog        = NewError(ErrCodeEmptyCatalog, "no recipes found in the catalog", http.StatusUnprocessableEntity, nil)

	// 服務器錯誤
	ErrStoreUnavailable = NewError(ErrCodeStoreUnavailable, "data store unavailable", http.StatusServiceUnavailable, nil)
	ErrAIServiceError   = NewError(ErrCodeAIService, "AI service error", http.StatusServiceUnavailable, nil)
	ErrInvalidAIPlan    = NewError(ErrCodeInvalidAIPlan, "AI plan document is invalid", http.StatusBadGateway, nil)
	ErrGatewayTimeout   = NewError(ErrCodeGatewayTimeout, "gateway timeout", http.StatusGatewayTimeout, nil)
)

// HTTPStatus 將錯誤對應到 HTTP 狀態碼與錯誤代碼
func HTTPStatus(err error) (int, string) {
	if IsValidationError(err) {
		return http.StatusBadRequest, ErrCodeInvalidRequest
	}
	if ce, ok := AsCustomError(err); ok {
		return ce.Status, ce.Code
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}
