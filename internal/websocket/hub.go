package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wearable-companion/server/internal/audio"
	"github.com/wearable-companion/server/internal/metrics"
	"github.com/wearable-companion/server/internal/registry"
	"github.com/wearable-companion/server/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next message or pong from the peer; doubles
	// as the idle timeout for a silent connection.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks

	// Per-connection outbound buffer; a peer that falls this far behind is
	// treated as gone.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub composes the connection registry, the audio accumulator, and the
// enrichment pipeline, and fans enriched events out to every client.
type Hub struct {
	registry    *registry.Registry
	accumulator *audio.Accumulator
	pipeline    *usecase.EnrichmentPipeline

	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(
	reg *registry.Registry,
	accumulator *audio.Accumulator,
	pipeline *usecase.EnrichmentPipeline,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		registry:    reg,
		accumulator: accumulator,
		pipeline:    pipeline,
		metrics:     m,
		logger:      logger,
	}
}

// Registry exposes the hub's connection registry.
func (h *Hub) Registry() *registry.Registry {
	return h.registry
}

// ServeClient upgrades the request and runs the session for one client. A
// duplicate client id is rejected and the new connection closed; the
// original stays registered and reachable.
func ServeClient(hub *Hub, c echo.Context, clientID string) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		hub.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := newClient(hub, conn, clientID)

	if err := hub.registry.Register(clientID, client); err != nil {
		hub.metrics.ConnectionsRejected.Inc()
		hub.logger.Warn("Rejecting connection",
			zap.String("clientID", clientID),
			zap.Error(err))
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "client id already connected"),
			time.Now().Add(writeWait))
		conn.Close()
		return nil
	}

	hub.accumulator.Create(clientID)
	hub.metrics.ConnectionsAccepted.Inc()
	hub.metrics.ActiveConnections.Inc()
	hub.logger.Info("Client connected", zap.String("clientID", clientID))

	go client.writePump()
	go client.readPump()

	return nil
}

// drop runs the unconditional session cleanup: unregister, discard the
// audio buffer, close the connection. Idempotent so the read loop's defer
// and a broadcast failure can both trigger it.
func (h *Hub) drop(id string, conn registry.Connection) {
	h.registry.Unregister(id)
	h.accumulator.Remove(id)
	conn.Close()
}
