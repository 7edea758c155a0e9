package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guruqool/gurukul/internal/infrastructure/configs"
	"github.com/guruqool/gurukul/internal/infrastructure/logging"
	"github.com/guruqool/gurukul/internal/infrastructure/ratelimiter"
)

type nopLogger struct{}

func (nopLogger) Init() {}
func (nopLogger) Debug(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Debugf(string, ...any)                                                         {}
func (nopLogger) Info(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any)  {}
func (nopLogger) Infof(string, ...any)                                                          {}
func (nopLogger) Warn(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any)  {}
func (nopLogger) Warnf(string, ...any)                                                          {}
func (nopLogger) Error(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Errorf(string, ...any)                                                         {}
func (nopLogger) Fatal(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Fatalf(string, ...any)                                                         {}

func newTestApplication(cfg configs.Config, rl ratelimiter.Limiter) *Application {
	if rl == nil {
		rl = ratelimiter.New(ratelimiter.Options{})
	}

	return NewApplication(cfg, nil, nil, nil, nil, nopLogger{}, rl)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"https://guruqool.vercel.app", "http://localhost:3000/"}

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://guruqool.vercel.app", true},
		{"https://guruqool.vercel.app/", true},
		{"http://localhost:3000", true},
		{"https://evil.example.com", false},
		{"https://guruqool.vercel.app.evil.com", false},
		{"http://guruqool.vercel.app", false},
	}

	for _, tt := range tests {
		if got := originAllowed(tt.origin, allowed); got != tt.want {
			t.Errorf("originAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestCorsAllowsListedOrigin(t *testing.T) {
	app := newTestApplication(configs.Config{
		HTTP: configs.HTTPConfig{
			AllowedOrigins: []string{"https://guruqool.vercel.app"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
	}, nil)

	handler := app.enableCors(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
	req.Header.Set("Origin", "https://guruqool.vercel.app")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://guruqool.vercel.app" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want the request origin", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary = %q, want Origin", got)
	}
}

func TestCorsOmitsHeaderForUnlistedOrigin(t *testing.T) {
	app := newTestApplication(configs.Config{
		HTTP: configs.HTTPConfig{
			AllowedOrigins: []string{"https://guruqool.vercel.app"},
		},
	}, nil)

	handler := app.enableCors(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("Access-Control-Allow-Origin = %q for an unlisted origin, want empty", got)
	}
}

func TestCorsRejectsUnlistedPreflight(t *testing.T) {
	app := newTestApplication(configs.Config{
		HTTP: configs.HTTPConfig{
			AllowedOrigins: []string{"https://guruqool.vercel.app"},
		},
	}, nil)

	handler := app.enableCors(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/payment/create-order", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("preflight status = %d, want 403", rec.Code)
	}
}

func TestCorsPassesRequestsWithoutOrigin(t *testing.T) {
	app := newTestApplication(configs.Config{
		HTTP: configs.HTTPConfig{
			AllowedOrigins: []string{"https://guruqool.vercel.app"},
		},
	}, nil)

	called := false
	handler := app.enableCors(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("request without Origin header was blocked")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q for a same-origin request, want empty", got)
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := ratelimiter.New(ratelimiter.Options{
		Window:      time.Minute,
		MaxRequests: 2,
	})
	app := newTestApplication(configs.Config{}, rl)

	handler := app.rateLimiterMiddleware(okHandler())

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}
	if got := first.Header().Get("X-RateLimit-Limit"); got != "2" {
		t.Errorf("X-RateLimit-Limit = %q, want 2", got)
	}
	if got := first.Header().Get("X-RateLimit-Remaining"); got != "1" {
		t.Errorf("X-RateLimit-Remaining = %q, want 1", got)
	}

	send()

	third := send()
	if third.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", third.Code)
	}
	if got := third.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", got)
	}
	if got := third.Header().Get("Retry-After"); got == "" {
		t.Error("Retry-After header missing on 429")
	}
}

func TestSecurityHeaders(t *testing.T) {
	app := newTestApplication(configs.Config{}, nil)

	handler := app.securityHeaders(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	want := map[string]string{
		"X-Content-Type-Options":       "nosniff",
		"X-Frame-Options":              "DENY",
		"Referrer-Policy":              "no-referrer",
		"Cross-Origin-Resource-Policy": "cross-origin",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}
