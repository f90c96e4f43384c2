package capabilities

import "context"

// Speaker abstracts text-to-speech synthesis.
type Speaker interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
