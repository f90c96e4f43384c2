package domain

import "errors"

// Sentinel errors for the interaction server. Callers match these with
// errors.Is; the wrapping message carries the offending client id or payload.
var (
	// ErrDuplicateClient is returned when a client id is already registered.
	// The new connection is rejected and closed; the original stays live.
	ErrDuplicateClient = errors.New("client id already registered")

	// ErrUnknownConnection indicates an audio operation on a connection that
	// has no buffer. Buffers are created at session start, so this is a bug,
	// not a runtime condition.
	ErrUnknownConnection = errors.New("no audio buffer for connection")

	// ErrMalformedMessage marks an inbound frame that could not be parsed.
	// The message is skipped; the session continues.
	ErrMalformedMessage = errors.New("malformed inbound message")
)
