package capabilities

import "context"

// AudioConfig describes the PCM stream handed to a Transcriber.
type AudioConfig struct {
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
}

// Transcriber abstracts speech recognition over a complete utterance.
type Transcriber interface {
	// Transcribe converts audio bytes to text. An empty string with a nil
	// error means no speech was recognized; it is not a failure.
	Transcribe(ctx context.Context, pcm []byte, config AudioConfig) (string, error)
}
