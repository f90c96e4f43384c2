// Package audio accumulates raw PCM per connection until enough has arrived
// to be worth transcribing. Accumulate-then-flush trades latency for
// transcription accuracy and keeps the call volume to the transcriber down.
package audio

import (
	"fmt"
	"sync"

	"github.com/wearable-companion/server/domain"
)

// BytesPerSample is fixed by the device protocol: 16-bit mono PCM.
const BytesPerSample = 2

// FlushThreshold computes the byte count that triggers a drain.
func FlushThreshold(sampleRate, seconds int) int {
	return sampleRate * seconds * BytesPerSample
}

// buffer holds one connection's pending audio. Each buffer has its own
// lock so unrelated connections never serialize on each other.
type buffer struct {
	mu   sync.Mutex
	data []byte
}

// Accumulator owns the per-connection audio buffers. The map is guarded by
// its own lock for create/lookup/remove; appends and drains lock only the
// individual buffer.
type Accumulator struct {
	threshold int

	mu      sync.RWMutex
	buffers map[string]*buffer
}

func NewAccumulator(threshold int) *Accumulator {
	return &Accumulator{
		threshold: threshold,
		buffers:   make(map[string]*buffer),
	}
}

// Create allocates an empty buffer for a connection. Called once when the
// session opens, before any Append.
func (a *Accumulator) Create(connID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buffers[connID] = &buffer{}
}

// Remove discards a connection's buffer, dropping any pending audio.
// Removing an absent buffer is a no-op.
func (a *Accumulator) Remove(connID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.buffers, connID)
}

// Append adds a chunk to the connection's buffer and reports whether the
// buffer has reached the flush threshold. When ready is true the caller
// must drain before appending more from that connection; sessions have a
// single reader per connection, so only the goroutine that observed
// ready=true performs the drain.
func (a *Accumulator) Append(connID string, chunk []byte) (ready bool, err error) {
	buf, err := a.lookup(connID)
	if err != nil {
		return false, err
	}

	buf.mu.Lock()
	defer buf.mu.Unlock()
	buf.data = append(buf.data, chunk...)
	return len(buf.data) >= a.threshold, nil
}

// DrainAndClear returns the accumulated bytes and resets the buffer to
// empty in one atomic step.
func (a *Accumulator) DrainAndClear(connID string) ([]byte, error) {
	buf, err := a.lookup(connID)
	if err != nil {
		return nil, err
	}

	buf.mu.Lock()
	defer buf.mu.Unlock()
	drained := buf.data
	buf.data = nil
	return drained, nil
}

// Pending reports the buffered byte count for a connection.
func (a *Accumulator) Pending(connID string) (int, error) {
	buf, err := a.lookup(connID)
	if err != nil {
		return 0, err
	}

	buf.mu.Lock()
	defer buf.mu.Unlock()
	return len(buf.data), nil
}

func (a *Accumulator) lookup(connID string) (*buffer, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	buf, ok := a.buffers[connID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownConnection, connID)
	}
	return buf, nil
}
