// Package registry tracks live client connections by id. It owns the only
// map of connections in the process; components that need to reach clients
// hold a *Registry, never a package-level map.
package registry

import (
	"fmt"
	"sync"

	"github.com/wearable-companion/server/domain"
)

// Connection is the registry's view of one connected peer. The concrete
// type is the websocket client; tests register fakes.
type Connection interface {
	// Deliver enqueues one serialized payload for the peer. It must not
	// block; a full outbound buffer is a delivery failure.
	Deliver(payload []byte) error
	Close() error
}

// Entry pairs a client id with its connection in a snapshot.
type Entry struct {
	ID   string
	Conn Connection
}

// Registry is safe for concurrent use by all connection goroutines.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Connection
	order []string // insertion order for snapshots
}

func New() *Registry {
	return &Registry{
		conns: make(map[string]Connection),
	}
}

// Register inserts a connection under id. It fails with
// domain.ErrDuplicateClient if the id is already live; the existing
// connection is untouched.
func (r *Registry) Register(id string, conn Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[id]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateClient, id)
	}
	r.conns[id] = conn
	r.order = append(r.order, id)
	return nil
}

// Unregister removes the entry for id. Removing an absent id is a no-op so
// concurrent error paths can both run cleanup.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[id]; !ok {
		return
	}
	delete(r.conns, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns the live connections in insertion order, taken under one
// read lock so a broadcast never observes a half-mutated registry. The
// returned slice is the caller's to iterate; it does not track later
// mutation.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		entries = append(entries, Entry{ID: id, Conn: r.conns[id]})
	}
	return entries
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
