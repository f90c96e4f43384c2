package websocket

import (
	"go.uber.org/zap"

	"github.com/wearable-companion/server/domain"
)

// DeliveryResult records the outcome of one recipient's delivery within a
// broadcast. A nil Err means the payload was queued for that client.
type DeliveryResult struct {
	ClientID string
	Err      error
}

// Broadcast serializes the event once and delivers the same payload to
// every connection in the current registry snapshot. Delivery is
// best-effort and at-most-once per connection: a failed recipient is
// logged and dropped, and delivery continues to the rest.
func (h *Hub) Broadcast(event *domain.EnrichedEvent) []DeliveryResult {
	payload, err := event.MarshalPayload()
	if err != nil {
		h.logger.Error("Failed to serialize enriched event",
			zap.String("kind", string(event.Kind)),
			zap.Error(err))
		return nil
	}

	snapshot := h.registry.Snapshot()
	results := make([]DeliveryResult, 0, len(snapshot))

	for _, entry := range snapshot {
		deliverErr := entry.Conn.Deliver(payload)
		results = append(results, DeliveryResult{ClientID: entry.ID, Err: deliverErr})

		if deliverErr != nil {
			h.metrics.BroadcastsFailed.Inc()
			h.logger.Warn("Broadcast delivery failed, dropping client",
				zap.String("clientID", entry.ID),
				zap.Error(deliverErr))
			h.drop(entry.ID, entry.Conn)
			continue
		}
		h.metrics.BroadcastsDelivered.Inc()
	}

	return results
}
