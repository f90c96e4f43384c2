package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/wearable-companion/server/domain/capabilities"
)

// MockTranscriber is a placeholder Transcriber for offline runs.
type MockTranscriber struct {
	logger *zap.Logger
}

var _ capabilities.Transcriber = (*MockTranscriber)(nil)

func NewMockTranscriber(logger *zap.Logger) *MockTranscriber {
	return &MockTranscriber{logger: logger}
}

// Transcribe returns a canned transcript keyed on buffer size. Tiny buffers
// come back empty, like silence would.
func (m *MockTranscriber) Transcribe(ctx context.Context, pcm []byte, config capabilities.AudioConfig) (string, error) {
	m.logger.Info("Processing mock transcription",
		zap.Int("audioSize", len(pcm)),
		zap.Int("sampleRate", config.SampleRate))

	switch {
	case len(pcm) > 100000:
		return "Hey, what are you up to today?", nil
	case len(pcm) > 10000:
		return "Hello, can you hear me?", nil
	case len(pcm) > 1000:
		return "Hi!", nil
	default:
		return "", nil
	}
}
