package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/transit-pass/internal/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func hitOnce(t *testing.T, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/tickets", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c))
	return rec
}

func TestTokenBucket_BlocksWhenDrained(t *testing.T) {
	_, client := newTestRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
	mw := NewTokenBucket(cfg, client)

	assert.Equal(t, http.StatusOK, hitOnce(t, mw).Code)
	assert.Equal(t, http.StatusOK, hitOnce(t, mw).Code)

	rec := hitOnce(t, mw)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestTokenBucket_RefillsOverTime(t *testing.T) {
	_, client := newTestRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
	mw := NewTokenBucket(cfg, client)

	assert.Equal(t, http.StatusOK, hitOnce(t, mw).Code)
	assert.Equal(t, http.StatusTooManyRequests, hitOnce(t, mw).Code)

	// The script refills from the wall-clock timestamps it is handed, so
	// a fresh token appears once the interval elapses in real time.
	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hitOnce(t, mw).Code)
}

func TestTokenBucket_DisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hitOnce(t, mw).Code)
	}
}

func TestBuildRateKey_Strategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/tickets", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/tickets")
	c.Set("user_id", uint64(7))

	base := config.RateLimitConfig{Prefix: "rl"}

	base.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(base, c))

	base.KeyStrategy = "user"
	assert.Equal(t, "rl:user:7", buildRateKey(base, c))

	base.KeyStrategy = "user_route"
	assert.Equal(t, "rl:user:7:route:GET /v1/tickets", buildRateKey(base, c))
}
