package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "adsales_backend/internal/http"
	"adsales_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type stubConfig struct {
	secret  string
	origins []string
}

func (s stubConfig) GetHTTPAddr() string        { return ":0" }
func (s stubConfig) GetCORSAllowAll() bool      { return false }
func (s stubConfig) GetCORSOrigins() []string   { return s.origins }
func (s stubConfig) GetCORSAllowCreds() bool    { return false }
func (s stubConfig) GetRateLimitPerMinute() int { return 100 }
func (s stubConfig) GetCronSecret() string      { return s.secret }

type stubHealth struct{ err error }

func (s stubHealth) Ping(context.Context) error { return s.err }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Triggered.POST("/automations/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

func newApp(secret string, health apphttp.HealthChecker) *apphttp.App {
	gin.SetMode(gin.TestMode)
	return &apphttp.App{
		Config:  stubConfig{secret: secret, origins: []string{"http://localhost:5173"}},
		Logger:  logger.Nop(),
		Health:  health,
		Modules: []apphttp.Module{pingModule{}},
	}
}

func TestHealthReportsDatabaseOutage(t *testing.T) {
	engine := New(newApp("", stubHealth{err: errors.New("connection refused")}))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHealthOK(t *testing.T) {
	engine := New(newApp("", stubHealth{}))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTriggeredRoutesRequireCronSecret(t *testing.T) {
	engine := New(newApp("topsecret", stubHealth{}))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/automations/ping", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without secret, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/automations/ping", nil)
	req.Header.Set("x-cron-secret", "topsecret")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with secret, got %d", rec.Code)
	}
}

func TestPreflightAnsweredForAllowedOrigin(t *testing.T) {
	engine := New(newApp("topsecret", stubHealth{}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/automations/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allow-origin header, got %q", got)
	}
}
