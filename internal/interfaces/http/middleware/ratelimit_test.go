package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/promoerp/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRateLimiter returns a limiter whose clock only moves when advance is called
func newTestRateLimiter(t *testing.T, perSecond float64, burst int) (*RateLimiter, func(time.Duration)) {
	t.Helper()

	rl := NewRateLimiter(perSecond, burst)
	t.Cleanup(rl.Stop)

	var mu sync.Mutex
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	return rl, func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows burst then blocks", func(t *testing.T) {
		rl, _ := newTestRateLimiter(t, 1, 3)

		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("client"), "request %d should be allowed", i+1)
		}
		assert.False(t, rl.Allow("client"))
	})

	t.Run("separate buckets per client", func(t *testing.T) {
		rl, _ := newTestRateLimiter(t, 1, 1)

		assert.True(t, rl.Allow("clientA"))
		assert.False(t, rl.Allow("clientA"))
		assert.True(t, rl.Allow("clientB"))
	})

	t.Run("refills over time", func(t *testing.T) {
		rl, advance := newTestRateLimiter(t, 2, 1)

		assert.True(t, rl.Allow("client"))
		assert.False(t, rl.Allow("client"))

		advance(500 * time.Millisecond)
		assert.True(t, rl.Allow("client"))
	})

	t.Run("remaining", func(t *testing.T) {
		rl, _ := newTestRateLimiter(t, 1, 5)

		assert.Equal(t, 5, rl.Remaining("new"))
		rl.Allow("new")
		rl.Allow("new")
		assert.Equal(t, 3, rl.Remaining("new"))
	})

	t.Run("evicts idle clients", func(t *testing.T) {
		rl, advance := newTestRateLimiter(t, 1, 1)

		rl.Allow("idle")
		advance(rl.idleTTL + time.Second)
		rl.evictIdle()

		assert.Empty(t, rl.clients)
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		rl, _ := newTestRateLimiter(t, 1, 100)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if rl.Allow("concurrent") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 1, 2)

	router := gin.New()
	router.Use(RequestID(), RateLimit(rl))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		router.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/test", nil))
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))

	var resp dto.Response
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeRateLimited, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}
