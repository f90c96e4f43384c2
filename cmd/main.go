package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/wearable-companion/server/adapters/llm"
	"github.com/wearable-companion/server/adapters/stt"
	"github.com/wearable-companion/server/adapters/tts"
	"github.com/wearable-companion/server/domain/capabilities"
	"github.com/wearable-companion/server/internal/api"
	"github.com/wearable-companion/server/internal/audio"
	"github.com/wearable-companion/server/internal/config"
	"github.com/wearable-companion/server/internal/metrics"
	"github.com/wearable-companion/server/internal/registry"
	"github.com/wearable-companion/server/internal/websocket"
	"github.com/wearable-companion/server/usecase"
)

func main() {
	godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Metrics
	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	// Capabilities are decided once here; anything left nil runs on its
	// pipeline fallback.
	caps := buildCapabilities(context.Background(), cfg, logger)
	logger.Info("Capabilities configured",
		zap.Bool("responder", caps.Responder != nil),
		zap.Bool("transcriber", caps.Transcriber != nil),
		zap.Bool("speaker", caps.Speaker != nil))

	audioConfig := capabilities.AudioConfig{
		SampleRate: cfg.AudioSampleRate,
		Encoding:   "LINEAR16",
		Language:   cfg.AudioLanguage,
	}
	pipeline := usecase.NewEnrichmentPipeline(caps, audioConfig, cfg.PersonaPrompt, cfg.CapabilityTimeout, m, logger)

	accumulator := audio.NewAccumulator(audio.FlushThreshold(cfg.AudioSampleRate, cfg.AudioBufferSeconds))
	hub := websocket.NewHub(registry.New(), accumulator, pipeline, m, logger)

	// Initialize API routes
	api.InitRoutes(e, hub, pipeline, promRegistry, cfg.StaticDir, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Interaction server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// buildCapabilities wires concrete adapters from configuration. Missing
// keys leave a capability absent rather than failing startup.
func buildCapabilities(ctx context.Context, cfg config.Config, logger *zap.Logger) usecase.Capabilities {
	if cfg.MockCapabilities {
		logger.Info("Using mock capabilities")
		return usecase.Capabilities{
			Responder:   llm.NewMockResponder(),
			Transcriber: stt.NewMockTranscriber(logger),
			Speaker:     tts.NewMockSpeaker(logger),
		}
	}

	var caps usecase.Capabilities

	if cfg.GeminiAPIKey != "" {
		responder, err := llm.NewGeminiResponder(ctx, llm.NewGeminiConfigFromEnv(), logger)
		if err != nil {
			logger.Warn("Gemini responder unavailable", zap.Error(err))
		} else {
			caps.Responder = responder
		}
	}

	if cfg.GoogleSpeechSTT {
		caps.Transcriber = stt.NewGoogleTranscriber()
	}

	if cfg.ElevenLabsAPIKey != "" {
		speaker, err := tts.NewElevenLabsSpeaker(tts.NewElevenLabsConfigFromEnv(), logger)
		if err != nil {
			logger.Warn("ElevenLabs speaker unavailable", zap.Error(err))
		} else {
			caps.Speaker = speaker
		}
	}

	return caps
}
