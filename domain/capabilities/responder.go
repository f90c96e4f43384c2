// Package capabilities declares the external service contracts consumed by
// the enrichment pipeline. Each capability is decided once at startup:
// either a concrete implementation is wired in, or the pipeline uses its
// documented fallback. Nothing probes for availability per call.
package capabilities

import "context"

// Responder abstracts any chat/completion provider.
type Responder interface {
	// Complete generates a reply for the prompt under the given persona.
	Complete(ctx context.Context, prompt string, persona string) (string, error)
}
