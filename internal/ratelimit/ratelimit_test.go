// File: internal/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(maxRequests int, window time.Duration) *MemoryRateLimiter {
	return NewMemoryRateLimiter(&Config{
		WindowSize:    window,
		MaxRequests:   maxRequests,
		CleanupPeriod: time.Hour,
	})
}

func TestAllowWithinBudget(t *testing.T) {
	limiter := newTestLimiter(3, time.Minute)
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("10.0.0.1")
		assert.True(t, allowed)
		assert.Equal(t, 3-i-1, info.Remaining)
	}

	allowed, info := limiter.Allow("10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestIdentifiersAreIndependent(t *testing.T) {
	limiter := newTestLimiter(1, time.Minute)
	defer limiter.Close()

	allowed, _ := limiter.Allow("10.0.0.1")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("10.0.0.2")
	assert.True(t, allowed, "a second client has its own window")
}

func TestWindowResets(t *testing.T) {
	limiter := newTestLimiter(1, 30*time.Millisecond)
	defer limiter.Close()

	allowed, _ := limiter.Allow("10.0.0.1")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1")
	require.False(t, allowed)

	time.Sleep(50 * time.Millisecond)

	allowed, _ = limiter.Allow("10.0.0.1")
	assert.True(t, allowed, "budget is restored after the window elapses")
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:1234"
	assert.Equal(t, "192.168.1.5", GetClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 192.168.1.5")
	assert.Equal(t, "203.0.113.9", GetClientIP(req))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", GetClientIP(req))
}
