package port

// RegistryEntry pairs a call id with its registered media session.
type RegistryEntry struct {
	CallID  string
	Session MediaSession
}

// CallRegistry maps call ids to live media sessions. Implementations must be
// safe under concurrent webhook handlers; it is the only shared mutable state
// of the call core. A call id is present exactly while its session has been
// created and not yet disconnected by terminate handling or bulk shutdown.
type CallRegistry interface {
	// Register inserts the session, or returns domain.ErrDuplicateSession if
	// the call id already has a live entry.
	Register(callID string, session MediaSession) error

	Lookup(callID string) (MediaSession, bool)

	// Remove deletes and returns the entry if present.
	Remove(callID string) (MediaSession, bool)

	// DrainAll atomically empties the registry and returns the prior entries.
	DrainAll() []RegistryEntry
}
