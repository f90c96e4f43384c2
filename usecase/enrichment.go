package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wearable-companion/server/domain"
	"github.com/wearable-companion/server/domain/capabilities"
	"github.com/wearable-companion/server/internal/metrics"
)

// Reply texts used when the Responder cannot produce one. The first covers
// an absent capability, the second a failed or timed-out call.
const (
	fallbackReply = "I'm listening!"
	troubleReply  = "I'm having trouble understanding."
)

// voiceAnimation is the animation for voice responses, which carry no
// gesture context to look up in the intent table.
const voiceAnimation = "nod"

// Capabilities bundles the external services the pipeline consumes. A nil
// field means the capability is absent and its fallback applies. The set is
// fixed at construction; nothing is probed per call.
type Capabilities struct {
	Responder   capabilities.Responder
	Transcriber capabilities.Transcriber
	Speaker     capabilities.Speaker
}

// Flags reports capability availability for the health endpoint.
func (c Capabilities) Flags() map[string]bool {
	return map[string]bool{
		"responder":   c.Responder != nil,
		"transcriber": c.Transcriber != nil,
		"speaker":     c.Speaker != nil,
	}
}

// EnrichmentPipeline turns raw inbound events into enriched outbound events:
// an AI reply, an emotion tag, and an animation tag. Capability failures
// never propagate; every path degrades to a documented fallback.
type EnrichmentPipeline struct {
	caps        Capabilities
	audioConfig capabilities.AudioConfig
	persona     string
	timeout     time.Duration
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// NewEnrichmentPipeline creates the pipeline. timeout bounds every
// capability call so one slow provider cannot stall a connection's flush
// path; on timeout the pipeline falls back as on provider failure.
func NewEnrichmentPipeline(
	caps Capabilities,
	audioConfig capabilities.AudioConfig,
	persona string,
	timeout time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *EnrichmentPipeline {
	return &EnrichmentPipeline{
		caps:        caps,
		audioConfig: audioConfig,
		persona:     persona,
		timeout:     timeout,
		logger:      logger,
		metrics:     m,
	}
}

// Flags exposes capability availability, see Capabilities.Flags.
func (p *EnrichmentPipeline) Flags() map[string]bool {
	return p.caps.Flags()
}

// Enrich handles gesture and button events. Audio arrives chunked and goes
// through the session's accumulator instead; drained utterances come in via
// EnrichVoice.
func (p *EnrichmentPipeline) Enrich(ctx context.Context, ev domain.InboundEvent) (*domain.EnrichedEvent, error) {
	start := time.Now()
	defer func() {
		p.metrics.EnrichmentDuration.Observe(time.Since(start).Seconds())
	}()

	switch ev.Kind {
	case domain.InboundGesture:
		return p.enrichGesture(ctx, ev.Gesture), nil
	case domain.InboundButton:
		return p.enrichButton(ev.Button), nil
	default:
		return nil, fmt.Errorf("enrich: unsupported inbound kind %q", ev.Kind)
	}
}

// EnrichVoice transcribes a drained audio buffer and builds a voice
// response. A transcript-less buffer (silence, unrecognized speech, or no
// transcriber) yields (nil, nil): a silent no-op, not an error. Synthesis
// failure degrades to a text-only event.
func (p *EnrichmentPipeline) EnrichVoice(ctx context.Context, pcm []byte) (*domain.EnrichedEvent, error) {
	start := time.Now()
	defer func() {
		p.metrics.EnrichmentDuration.Observe(time.Since(start).Seconds())
	}()

	p.metrics.AudioFlushes.Inc()
	p.metrics.AudioFlushBytes.Observe(float64(len(pcm)))

	transcript := p.transcribe(ctx, pcm)
	if transcript == "" {
		p.logger.Debug("No speech recognized, skipping response",
			zap.Int("audioBytes", len(pcm)))
		return nil, nil
	}

	reply := p.complete(ctx, transcript)
	synthesized := p.synthesize(ctx, reply)

	return &domain.EnrichedEvent{
		Kind:        domain.EnrichedVoice,
		Transcribed: transcript,
		ReplyText:   reply,
		Emotion:     detectEmotion(reply),
		Animation:   voiceAnimation,
		Audio:       synthesized,
		Timestamp:   time.Now().UTC(),
	}, nil
}

func (p *EnrichmentPipeline) enrichGesture(ctx context.Context, label string) *domain.EnrichedEvent {
	intent := domain.LookupGesture(label)
	prompt := fmt.Sprintf("User made a %s gesture", label)
	reply := p.complete(ctx, prompt)

	// Animation comes from the intent table, emotion from the reply text.
	// The two can disagree; that is accepted.
	return &domain.EnrichedEvent{
		Kind:      domain.EnrichedGesture,
		Gesture:   label,
		ReplyText: reply,
		Emotion:   detectEmotion(reply),
		Animation: intent.Animation,
		Timestamp: time.Now().UTC(),
	}
}

func (p *EnrichmentPipeline) enrichButton(id string) *domain.EnrichedEvent {
	reply := domain.LookupButton(id)

	return &domain.EnrichedEvent{
		Kind:      domain.EnrichedButton,
		Button:    id,
		ReplyText: reply.Text,
		Emotion:   "happy",
		Animation: reply.Animation,
		Timestamp: time.Now().UTC(),
	}
}

// complete calls the Responder under the pipeline's timeout. It always
// returns usable reply text.
func (p *EnrichmentPipeline) complete(ctx context.Context, prompt string) string {
	if p.caps.Responder == nil {
		return fallbackReply
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	reply, err := p.caps.Responder.Complete(ctx, prompt, p.persona)
	if err != nil {
		p.metrics.CapabilityFailures.WithLabelValues("responder").Inc()
		p.logger.Warn("Responder call failed, using fallback reply",
			zap.String("prompt", prompt),
			zap.Error(err))
		return troubleReply
	}
	if strings.TrimSpace(reply) == "" {
		p.logger.Warn("Responder returned empty reply, using fallback")
		return troubleReply
	}
	return reply
}

// transcribe returns the recognized text, or "" when there is none to act
// on. Transcriber errors are logged and treated as silence.
func (p *EnrichmentPipeline) transcribe(ctx context.Context, pcm []byte) string {
	if p.caps.Transcriber == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	transcript, err := p.caps.Transcriber.Transcribe(ctx, pcm, p.audioConfig)
	if err != nil {
		p.metrics.CapabilityFailures.WithLabelValues("transcriber").Inc()
		p.logger.Warn("Transcription failed, dropping audio cycle",
			zap.Int("audioBytes", len(pcm)),
			zap.Error(err))
		return ""
	}
	return strings.TrimSpace(transcript)
}

// synthesize returns reply audio, or nil when the Speaker is absent or
// failing; the voice response then goes out text-only.
func (p *EnrichmentPipeline) synthesize(ctx context.Context, text string) []byte {
	if p.caps.Speaker == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	synthesized, err := p.caps.Speaker.Synthesize(ctx, text)
	if err != nil {
		p.metrics.CapabilityFailures.WithLabelValues("speaker").Inc()
		p.logger.Warn("Speech synthesis failed, sending text-only response",
			zap.Error(err))
		return nil
	}
	return synthesized
}

// Emotion keyword taxonomy, first match wins, case-insensitive substring
// match over the reply text. A heuristic, not sentiment analysis.
var emotionKeywords = []struct {
	emotion  string
	keywords []string
}{
	{"happy", []string{"happy", "great", "wonderful", "excellent", "!"}},
	{"sad", []string{"sad", "sorry", "unfortunate"}},
	{"confused", []string{"confused", "what", "?"}},
	{"angry", []string{"angry", "wrong", "bad"}},
}

func detectEmotion(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range emotionKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.emotion
			}
		}
	}
	return "neutral"
}
