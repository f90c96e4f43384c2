package tts

import (
	"context"

	"go.uber.org/zap"

	"github.com/wearable-companion/server/domain/capabilities"
)

// MockSpeaker is a placeholder Speaker for offline runs.
type MockSpeaker struct {
	logger *zap.Logger
}

var _ capabilities.Speaker = (*MockSpeaker)(nil)

func NewMockSpeaker(logger *zap.Logger) *MockSpeaker {
	return &MockSpeaker{logger: logger}
}

// Synthesize returns a short silent PCM buffer sized to the text, enough
// for clients to exercise their playback path.
func (m *MockSpeaker) Synthesize(ctx context.Context, text string) ([]byte, error) {
	m.logger.Info("Generating mock speech", zap.Int("textLength", len(text)))

	// 20ms of 16 kHz 16-bit silence per character.
	return make([]byte, len(text)*640), nil
}
