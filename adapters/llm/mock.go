package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/wearable-companion/server/domain/capabilities"
)

// MockResponder is a canned Responder for offline runs and tests.
type MockResponder struct{}

var _ capabilities.Responder = (*MockResponder)(nil)

func NewMockResponder() *MockResponder {
	return &MockResponder{}
}

// Complete returns a deterministic reply shaped by the prompt.
func (m *MockResponder) Complete(ctx context.Context, prompt string, persona string) (string, error) {
	switch {
	case strings.Contains(prompt, "wave"):
		return "Hello there! Great to see you!", nil
	case strings.Contains(prompt, "gesture"):
		return fmt.Sprintf("I noticed that! %s, got it.", prompt), nil
	default:
		return fmt.Sprintf("That's wonderful! Tell me more about %q.", prompt), nil
	}
}
