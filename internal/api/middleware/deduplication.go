package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meal-planner/internal/pkg/common"
)

// DefaultDedupWindow 預設去重時間窗
const DefaultDedupWindow = time.Second

// Deduplicator 記錄近期 POST 請求指紋
type Deduplicator struct {
	mu       sync.Mutex
	requests map[string]time.Time
	window   time.Duration
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
}

// NewDeduplicator 創建去重器並啟動清理 goroutine，使用完需呼叫 Close
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	d := &Deduplicator{
		requests: make(map[string]time.Time),
		window:   window,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go d.cleanupLoop(10 * window)
	return d
}

func (d *Deduplicator) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.cleanup()
		case <-d.done:
			return
		}
	}
}

func (d *Deduplicator) cleanup() {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, t := range d.requests {
		if now.Sub(t) > d.window {
			delete(d.requests, k)
		}
	}
}

// Close 停止清理 goroutine
func (d *Deduplicator) Close() {
	d.once.Do(func() { close(d.done) })
}

// Seen 記錄指紋，若在時間窗內已出現過則回傳 true
func (d *Deduplicator) Seen(fingerprint string) bool {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Forget 移除指紋，讓相同請求可以立即重送
func (d *Deduplicator) Forget(fingerprint string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.requests, fingerprint)
}

// Fingerprint 以方法、路徑、使用者與請求體雜湊組成指紋
func Fingerprint(method, path, userID string, body []byte) string {
	hash := sha256.Sum256(body)
	return method + ":" + path + ":" + userID + ":" + hex.EncodeToString(hash[:])
}

// Deduplication 請求去重中間件，只處理 POST；伺服器錯誤或 panic 的請求不佔用時間窗
func Deduplication(d *Deduplicator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
					Code:    common.ErrCodeInvalidRequest,
					Message: "failed to read request body",
				})
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		fingerprint := Fingerprint(c.Request.Method, c.Request.URL.Path, c.GetHeader(UserIDHeader), body)
		if d.Seen(fingerprint) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: "duplicate request",
			})
			return
		}

		defer func() {
			if r := recover(); r != nil {
				d.Forget(fingerprint)
				panic(r)
			}
		}()
		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			d.Forget(fingerprint)
		}
	}
}
