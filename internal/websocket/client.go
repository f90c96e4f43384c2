package websocket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wearable-companion/server/domain"
)

// Client is one connected peer: a websocket connection, its outbound
// queue, and the session state machine around them. A single goroutine
// reads, a single goroutine writes.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of outbound payloads.
	send chan []byte

	// Closed exactly once when the session ends.
	done      chan struct{}
	closeOnce sync.Once

	clientID string
	logger   *zap.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, clientID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		clientID: clientID,
		logger:   hub.logger.With(zap.String("clientID", clientID)),
	}
}

// Deliver enqueues one serialized payload without blocking. A closed
// session or a full buffer is a delivery failure for the broadcaster to
// handle.
func (c *Client) Deliver(payload []byte) error {
	select {
	case <-c.done:
		return fmt.Errorf("client %s: connection closed", c.clientID)
	default:
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return fmt.Errorf("client %s: outbound buffer full", c.clientID)
	}
}

// Close marks the session closed. The write pump notices and shuts the
// transport down; repeated calls are no-ops.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.hub.metrics.ActiveConnections.Dec()
	})
	return nil
}

// readPump pumps messages from the websocket connection into the dispatch
// path. Cleanup runs unconditionally on exit, whatever ended the loop.
func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c.clientID, c)
		c.conn.Close()
		c.logger.Info("Client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.dispatch(message)
	}
}

// writePump pumps queued payloads to the websocket connection and keeps
// the peer alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch parses one inbound frame and routes it. Malformed messages are
// logged and skipped; the session continues.
func (c *Client) dispatch(raw []byte) {
	ev, err := domain.ParseInbound(raw)
	if err != nil {
		c.hub.metrics.MalformedMessages.Inc()
		c.logger.Warn("Skipping malformed message", zap.Error(err))
		return
	}

	c.hub.metrics.EventsReceived.WithLabelValues(string(ev.Kind)).Inc()

	switch ev.Kind {
	case domain.InboundAudio:
		c.dispatchAudio(ev.Audio)
	default:
		// Enrichment hits slow external providers; run it off the read
		// loop so a stuck provider never delays this peer's close.
		go c.enrich(ev)
	}
}

// dispatchAudio appends to the accumulator in the read loop, keeping
// per-connection arrival order, and hands a drained utterance to the
// pipeline in its own goroutine. Only the goroutine that observed
// ready=true drains, so drains for one connection never race.
func (c *Client) dispatchAudio(chunk []byte) {
	ready, err := c.hub.accumulator.Append(c.clientID, chunk)
	if err != nil {
		// Buffers are created at session start; this is a bug.
		c.logger.Error("Audio append failed", zap.Error(err))
		return
	}
	if !ready {
		return
	}

	pcm, err := c.hub.accumulator.DrainAndClear(c.clientID)
	if err != nil {
		c.logger.Error("Audio drain failed", zap.Error(err))
		return
	}

	go c.enrichVoice(pcm)
}

func (c *Client) enrich(ev domain.InboundEvent) {
	event, err := c.hub.pipeline.Enrich(context.Background(), ev)
	if err != nil {
		c.logger.Error("Enrichment failed", zap.String("kind", string(ev.Kind)), zap.Error(err))
		return
	}
	c.hub.Broadcast(event)
}

// enrichVoice may complete after this client has disconnected; the result
// still goes to whoever is in the registry at that moment.
func (c *Client) enrichVoice(pcm []byte) {
	event, err := c.hub.pipeline.EnrichVoice(context.Background(), pcm)
	if err != nil {
		c.logger.Error("Voice enrichment failed", zap.Error(err))
		return
	}
	if event == nil {
		// Nothing recognized in this cycle.
		return
	}
	c.hub.Broadcast(event)
}
