package http_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/cache"
	apphttp "github.com/jhoicas/inventario-admin/internal/interfaces/http"
)

func newLimitedAPI(t *testing.T, capacity int) (*testAPI, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	bucket := cache.NewTokenBucket(rdb, cache.BucketConfig{
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		Prefix:         "rl:login",
	})
	return newTestAPI(t, apphttp.RouterDeps{LoginLimiter: bucket}), mr
}

func TestRateLimit_LoginBloqueadoAlAgotarTokens(t *testing.T) {
	api, _ := newLimitedAPI(t, 2)
	bad := dto.LoginRequest{Username: "admin", Password: "incorrecta"}

	for i := 0; i < 2; i++ {
		resp, _ := api.do(t, http.MethodPost, "/api/auth/login", "", bad)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	}

	resp, body := api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: testPassword})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, body))
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestRateLimit_SoloAfectaLogin(t *testing.T) {
	api, _ := newLimitedAPI(t, 1)
	tok := api.login(t, "admin")

	for i := 0; i < 3; i++ {
		resp, _ := api.do(t, http.MethodGet, "/api/auth/me", tok, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestRateLimit_RedisCaidoNoBloquea(t *testing.T) {
	api, mr := newLimitedAPI(t, 1)
	mr.Close()

	for i := 0; i < 2; i++ {
		api.login(t, "staff")
	}
}
