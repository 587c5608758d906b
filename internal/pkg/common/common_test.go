package common

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Attempts: 3, Delay: time.Millisecond}, "test", func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Attempts: 3, Delay: time.Millisecond}, "test", func(ctx context.Context) error {
		calls++
		return errors.New("down")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.EqualError(t, err, "down")
}

func TestRetryDoesNotRetryValidationErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Attempts: 5, Delay: time.Millisecond}, "test", func(ctx context.Context) error {
		calls++
		return NewValidationError("bad input")
	})

	assert.True(t, IsValidationError(err))
	assert.Equal(t, 1, calls)
}

func TestRetryHonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, RetryPolicy{Attempts: 3, Delay: time.Hour}, "test", func(ctx context.Context) error {
		return errors.New("down")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithDetailKeepsIdentity(t *testing.T) {
	cause := errors.New("disk full")
	err := WithDetail(ErrStoreUnavailable, "failed to save plan", cause)

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)

	status, code := HTTPStatus(err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, ErrCodeStoreUnavailable, code)
}

func TestHTTPStatusForValidationError(t *testing.T) {
	status, code := HTTPStatus(NewValidationError("days must be at least 1"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, ErrCodeInvalidRequest, code)

	status, code = HTTPStatus(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrCodeInternalError, code)
}

func TestExtractJSONObject(t *testing.T) {
	got, ok := ExtractJSONObject("Here is your plan:\n```json\n{\"title\": \"x\", \"days\": [{}]}\n```")
	require.True(t, ok)
	assert.Equal(t, `{"title": "x", "days": [{}]}`, got)

	_, ok = ExtractJSONObject("no json here")
	assert.False(t, ok)
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	assert.Error(t, ParseJSON(`{"a":1} {"b":2}`, &v))
	assert.NoError(t, ParseJSON(`{"a":1}`, &v))
}

func TestQuoteJSONKeys(t *testing.T) {
	got := QuoteJSONKeys(`{title: "Oats", meals: [{day_1: 1}], "ok": "a: b"}`)
	assert.Equal(t, `{"title": "Oats", "meals": [{"day_1": 1}], "ok": "a: b"}`, got)
}
