package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wearable-companion/server/internal/websocket"
	"github.com/wearable-companion/server/usecase"
)

const fallbackPage = `<h1>Wearable AI Companion</h1><p>Frontend files not found. Please ensure frontend/index.html exists.</p>`

// InitRoutes initializes all API routes.
func InitRoutes(
	e *echo.Echo,
	hub *websocket.Hub,
	pipeline *usecase.EnrichmentPipeline,
	gatherer prometheus.Gatherer,
	staticDir string,
	logger *zap.Logger,
) {
	// Viewer page
	e.GET("/", func(c echo.Context) error {
		page := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(page); err != nil {
			return c.HTML(http.StatusOK, fallbackPage)
		}
		return c.File(page)
	})
	e.Static("/static", staticDir)

	// Health check with capability availability flags
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Services:  pipeline.Flags(),
		})
	})

	// Prometheus exposition
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// WebSocket endpoint, one connection per client id
	e.GET("/ws/:client_id", func(c echo.Context) error {
		clientID := c.Param("client_id")
		if clientID == "" {
			logger.Warn("WebSocket connection rejected: missing client id")
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "missing_client_id",
				Message: "A client id is required in the path",
			})
		}
		return websocket.ServeClient(hub, c, clientID)
	})
}
