package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the interaction server.
type Metrics struct {
	// Connection metrics
	ActiveConnections   prometheus.Gauge
	ConnectionsAccepted prometheus.Counter
	ConnectionsRejected prometheus.Counter

	// Inbound event metrics
	EventsReceived    *prometheus.CounterVec
	MalformedMessages prometheus.Counter

	// Broadcast metrics
	BroadcastsDelivered prometheus.Counter
	BroadcastsFailed    prometheus.Counter

	// Enrichment metrics
	CapabilityFailures *prometheus.CounterVec
	EnrichmentDuration prometheus.Histogram
	AudioFlushes       prometheus.Counter
	AudioFlushBytes    prometheus.Histogram
}

// New creates and registers all metrics on the given registerer. Tests pass
// a fresh prometheus.NewRegistry so repeated setup never collides.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "companion_active_connections",
			Help: "Current number of connected clients",
		}),
		ConnectionsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "companion_connections_accepted_total",
			Help: "Total number of accepted client connections",
		}),
		ConnectionsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "companion_connections_rejected_total",
			Help: "Total number of rejected client connections (duplicate id)",
		}),
		EventsReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "companion_events_received_total",
			Help: "Total number of inbound events by type",
		}, []string{"type"}),
		MalformedMessages: factory.NewCounter(prometheus.CounterOpts{
			Name: "companion_malformed_messages_total",
			Help: "Total number of inbound messages skipped as malformed",
		}),
		BroadcastsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "companion_broadcasts_delivered_total",
			Help: "Total number of per-recipient broadcast deliveries that succeeded",
		}),
		BroadcastsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "companion_broadcasts_failed_total",
			Help: "Total number of per-recipient broadcast deliveries that failed",
		}),
		CapabilityFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "companion_capability_failures_total",
			Help: "Total number of capability call failures by capability",
		}, []string{"capability"}),
		EnrichmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "companion_enrichment_duration_seconds",
			Help:    "Time spent enriching one inbound event",
			Buckets: prometheus.DefBuckets,
		}),
		AudioFlushes: factory.NewCounter(prometheus.CounterOpts{
			Name: "companion_audio_flushes_total",
			Help: "Total number of audio buffer drains handed to transcription",
		}),
		AudioFlushBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "companion_audio_flush_bytes",
			Help:    "Size in bytes of drained audio buffers",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}
}
