package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/wearable-companion/server/domain/capabilities"
	"github.com/wearable-companion/server/internal/audio"
	"github.com/wearable-companion/server/internal/metrics"
	"github.com/wearable-companion/server/internal/registry"
	"github.com/wearable-companion/server/internal/websocket"
	"github.com/wearable-companion/server/usecase"
)

func newTestEcho(t *testing.T, staticDir string) *echo.Echo {
	t.Helper()

	logger := zap.NewNop()
	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)
	audioConfig := capabilities.AudioConfig{SampleRate: 16000, Encoding: "LINEAR16", Language: "en-US"}
	pipeline := usecase.NewEnrichmentPipeline(usecase.Capabilities{}, audioConfig, "persona", time.Second, m, logger)
	hub := websocket.NewHub(registry.New(), audio.NewAccumulator(100), pipeline, m, logger)

	e := echo.New()
	e.HideBanner = true
	InitRoutes(e, hub, pipeline, promRegistry, staticDir, logger)
	return e
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestEcho(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("Invalid health payload: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("Expected status ok, got %q", health.Status)
	}
	if health.Timestamp == "" {
		t.Error("Expected a timestamp")
	}
	// No capabilities were wired in; every flag reports false.
	for _, name := range []string{"responder", "transcriber", "speaker"} {
		if up, present := health.Services[name]; !present || up {
			t.Errorf("Expected services[%q] = false, got %v (present=%v)", name, up, present)
		}
	}
}

func TestViewerPage_FallbackWhenMissing(t *testing.T) {
	e := newTestEcho(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Frontend files not found") {
		t.Errorf("Expected fallback page, got %q", rec.Body.String())
	}
}

func TestViewerPage_ServesIndexWhenPresent(t *testing.T) {
	staticDir := t.TempDir()
	page := filepath.Join(staticDir, "index.html")
	if err := os.WriteFile(page, []byte("<h1>viewer</h1>"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	e := newTestEcho(t, staticDir)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<h1>viewer</h1>") {
		t.Errorf("Expected index.html contents, got %q", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestEcho(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "companion_active_connections") {
		t.Error("Expected exposition to include the active connections gauge")
	}
}
