// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/playerone/storefront/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("reuses well formed id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(RequestIDHeader, "trace-123_abc.1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if seen != "trace-123_abc.1" || w.Header().Get(RequestIDHeader) != seen {
			t.Fatalf("id = %q, header = %q", seen, w.Header().Get(RequestIDHeader))
		}
	})

	t.Run("replaces unsafe id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(RequestIDHeader, "bad id\r\ninjected")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if strings.Contains(seen, " ") || len(seen) != 36 {
			t.Fatalf("id = %q, want generated uuid", seen)
		}
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(RequestIDHeader, strings.Repeat("a", 65))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if len(seen) != 36 {
			t.Fatalf("id = %q, want generated uuid", seen)
		}
	})
}

func TestSecurityHeaders(t *testing.T) {
	for _, prod := range []bool{false, true} {
		w := httptest.NewRecorder()
		SecurityHeaders(prod)(okHandler()).ServeHTTP(
			w, httptest.NewRequest(http.MethodGet, "/", nil),
		)

		if w.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("prod=%v: missing nosniff", prod)
		}
		hsts := w.Header().Get("Strict-Transport-Security") != ""
		if hsts != prod {
			t.Errorf("prod=%v: hsts present = %v", prod, hsts)
		}
	}
}

func TestCORS(t *testing.T) {
	cfg := config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	h := CORS(cfg)(okHandler())

	t.Run("preflight from allowed origin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/v1/cart", nil)
		r.Header.Set("Origin", "http://localhost:5173")
		r.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
			t.Errorf("allow origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
		}
		if w.Header().Get("Access-Control-Allow-Methods") != "GET, POST" {
			t.Errorf("allow methods = %q", w.Header().Get("Access-Control-Allow-Methods"))
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("credentials header missing")
		}
	})

	t.Run("unknown origin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
		r.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("unknown origin received CORS headers")
		}
	})
}

func TestFromConfig(t *testing.T) {
	limit := FromConfig(config.RateLimitConfig{Requests: 10})
	if limit.Period != time.Minute || limit.Burst != 10 || limit.Rate != 10 {
		t.Fatalf("limit = %+v", limit)
	}

	limit = FromConfig(config.RateLimitConfig{Requests: 5, Burst: 2, Window: time.Second})
	if limit.Period != time.Second || limit.Burst != 2 {
		t.Fatalf("limit = %+v", limit)
	}
}

func TestKeyByIPAndEndpoint(t *testing.T) {
	r := httptest.NewRequest(
		http.MethodPut,
		"/v1/cart/items/6f1c1f0e-8a43-4c1b-9b7e-1f5a2c3d4e5f",
		nil,
	)
	r.RemoteAddr = "10.0.0.7:5555"

	want := "ratelimit:ip:10.0.0.7:endpoint:/v1/cart/items/{id}"
	if got := KeyByIPAndEndpoint(r); got != want {
		t.Errorf("key = %q, want %q", got, want)
	}
}

func TestAuthRateLimiterFallsBackWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	h := AuthRateLimiter(client, config.RateLimitConfig{
		Requests: 2,
		Burst:    2,
		Window:   time.Minute,
	})(okHandler())

	codes := make([]int, 0, 3)
	for range 3 {
		r := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("first requests = %v, want allowed", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", codes[2])
	}
}

func TestRateLimiterRejectsWithEnvelope(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := NewRateLimiter(client, RateLimitConfig{
		Limit: FromConfig(config.RateLimitConfig{Requests: 1, Window: time.Minute}),
	}).Handler(okHandler())

	var w *httptest.ResponseRecorder
	for range 2 {
		r := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
		r.RemoteAddr = "198.51.100.4:4000"
		w = httptest.NewRecorder()
		h.ServeHTTP(w, r)
	}

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "1" {
		t.Errorf("X-RateLimit-Limit = %q", got)
	}
	if !strings.Contains(w.Body.String(), `"RATE_LIMITED"`) {
		t.Errorf("body = %s", w.Body.String())
	}

	r := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	r.RemoteAddr = "198.51.100.5:4000"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", w.Code)
	}
}
