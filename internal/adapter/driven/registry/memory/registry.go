package memory

import (
	"fmt"
	"sync"

	"github.com/Wyydra/callbridge/internal/core/domain"
	"github.com/Wyydra/callbridge/internal/core/port"
)

// CallRegistry is the in-memory implementation of port.CallRegistry. Every
// operation holds the mutex for a single short critical section; the slow
// network work around registry mutations happens in the callers.
type CallRegistry struct {
	mu      sync.Mutex
	entries map[string]port.MediaSession
}

func NewCallRegistry() *CallRegistry {
	return &CallRegistry{
		entries: make(map[string]port.MediaSession),
	}
}

func (r *CallRegistry) Register(callID string, session port.MediaSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[callID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateSession, callID)
	}
	r.entries[callID] = session
	return nil
}

func (r *CallRegistry) Lookup(callID string) (port.MediaSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.entries[callID]
	return session, ok
}

func (r *CallRegistry) Remove(callID string) (port.MediaSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.entries[callID]
	if ok {
		delete(r.entries, callID)
	}
	return session, ok
}

func (r *CallRegistry) DrainAll() []port.RegistryEntry {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]port.MediaSession)
	r.mu.Unlock()

	drained := make([]port.RegistryEntry, 0, len(entries))
	for callID, session := range entries {
		drained = append(drained, port.RegistryEntry{CallID: callID, Session: session})
	}
	return drained
}
