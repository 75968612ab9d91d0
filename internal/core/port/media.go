package port

import (
	"context"

	"github.com/Wyydra/callbridge/internal/core/domain"
)

// MediaSession is a live peer connection answering a single call.
type MediaSession interface {
	ID() string

	// Answer returns the local SDP answer negotiated from the caller's offer.
	Answer() string

	// Disconnect releases the underlying media and ICE resources. It is
	// idempotent; repeated calls return nil.
	Disconnect() error

	// OnClosed registers a one-shot notification fired when the peer side
	// closes on its own. It does not fire for a local Disconnect.
	OnClosed(func())
}

// MediaEngine creates initialized media sessions from inbound offers.
type MediaEngine interface {
	Connect(ctx context.Context, offer domain.SessionDescription) (MediaSession, error)
}
