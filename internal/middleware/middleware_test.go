package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"awesomeblog/internal/models"
)

func TestChain_Order(t *testing.T) {
	var calls []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "handler")
	}), mark("inner"), mark("outer"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, calls)
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/blogs", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/blogs", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.EqualValues(t, 5, fields["bytes"])
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := Recovery(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal:error","data":"","message":""}`, rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	t.Run("disabled", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://a.example")
		rec := httptest.NewRecorder()
		CORS(nil)(ok).ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://a.example")
		rec := httptest.NewRecorder()
		CORS([]string{"http://a.example"})(ok).ServeHTTP(rec, req)
		assert.Equal(t, "http://a.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

type stubAuthenticator map[string]*models.User

func (s stubAuthenticator) UserFromCookie(_ context.Context, token string) *models.User {
	return s[token]
}

func TestAuth(t *testing.T) {
	admin := models.NewUser(map[string]any{"id": "u1", "email": "admin@example.com", "admin": true})
	reader := models.NewUser(map[string]any{"id": "u2", "email": "reader@example.com", "admin": false})
	auth := stubAuthenticator{"admin-token": admin, "reader-token": reader}

	var seen *models.User
	h := Auth(auth, "awesession", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		path     string
		cookie   string
		wantCode int
		wantUser *models.User
	}{
		{name: "anonymous page", path: "/", wantCode: http.StatusOK},
		{name: "signed in", path: "/", cookie: "reader-token", wantCode: http.StatusOK, wantUser: reader},
		{name: "bad cookie is anonymous", path: "/", cookie: "garbage", wantCode: http.StatusOK},
		{name: "manage anonymous", path: "/manage/blogs", wantCode: http.StatusFound},
		{name: "manage non admin", path: "/manage/", cookie: "reader-token", wantCode: http.StatusFound},
		{name: "manage admin", path: "/manage/users", cookie: "admin-token", wantCode: http.StatusOK, wantUser: admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "awesession", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusFound {
				assert.Equal(t, "/signin", rec.Header().Get("Location"))
			}
			if tt.wantUser == nil {
				assert.Nil(t, seen)
			} else {
				assert.Same(t, tt.wantUser, seen)
			}
		})
	}
}

func TestCurrentUser_Nil(t *testing.T) {
	assert.Nil(t, CurrentUser(nil))
	assert.Nil(t, CurrentUser(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestNewRedisRateLimiter_InvalidConfig(t *testing.T) {
	client, _ := setupTestRedis(t)

	_, err := NewRedisRateLimiter(nil, 1, time.Minute)
	assert.EqualError(t, err, "redis client is required")
	_, err = NewRedisRateLimiter(client, 0, time.Minute)
	assert.EqualError(t, err, "limit must be greater than 0")
	_, err = NewRedisRateLimiter(client, 1, 0)
	assert.EqualError(t, err, "window must be greater than 0")
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	client, _ := setupTestRedis(t)
	limiter, err := NewRedisRateLimiter(client, 2, time.Minute)
	require.NoError(t, err)

	info, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, info.Allowed)
	assert.Equal(t, 1, info.Remaining)

	info, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, info.Allowed)
	assert.Zero(t, info.Remaining)

	info, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, info.Allowed)

	info, err = limiter.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, info.Allowed)

	require.NoError(t, limiter.Reset(ctx, "1.2.3.4"))
	info, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, info.Allowed)
}

func TestRedisRateLimiter_WindowSlides(t *testing.T) {
	ctx := context.Background()
	client, _ := setupTestRedis(t)
	limiter, err := NewRedisRateLimiter(client, 1, time.Minute)
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	limiter.now = func() time.Time { return now }

	info, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, info.Allowed)

	info, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, info.Allowed)

	now = now.Add(time.Minute + time.Second)
	info, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, info.Allowed)
}

func TestRedisRateLimiter_SameInstant(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	limiter, err := NewRedisRateLimiter(client, 2, time.Minute)
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		info, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, info.Allowed)
	}
	members, err := mr.ZMembers("awesomeblog:ratelimit:k")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	info, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, info.Allowed)
	assert.Zero(t, info.Remaining)
}

func TestRateLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter, err := NewRedisRateLimiter(client, 1, time.Minute)
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RateLimit(limiter, zap.NewNop(), "/api/authenticate")(ok)

	post := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := post("/api/authenticate")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := post("/api/authenticate")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.JSONEq(t, `{"error":"ratelimit:exceeded","data":"","message":"Too many requests."}`, second.Body.String())
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, post("/api/blogs").Code)
}

func TestRateLimit_IgnoresForwardedFor(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter, err := NewRedisRateLimiter(client, 2, time.Minute)
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RateLimit(limiter, zap.NewNop(), "/api/authenticate")(ok)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/authenticate", strings.NewReader("{}"))
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("1.2.3.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if i < 2 {
			assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code, "request %d", i)
		}
	}
}

func TestRateLimit_BehindRealIP(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter, err := NewRedisRateLimiter(client, 1, time.Minute)
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := Chain(ok, RateLimit(limiter, zap.NewNop(), "/api/authenticate"), chimw.RealIP)

	post := func(fwd string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/authenticate", strings.NewReader("{}"))
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, post("203.0.113.7"))
	assert.Equal(t, http.StatusOK, post("203.0.113.8"))
}

func TestRateLimit_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { client.Close() })
	limiter, err := NewRedisRateLimiter(client, 1, time.Minute)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RateLimit(limiter, zap.New(core), "/api/users")(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("rate limiter unavailable").Len())
}

func TestRateLimit_Disabled(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RateLimit(nil, zap.NewNop(), "/api/authenticate")(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/authenticate", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
