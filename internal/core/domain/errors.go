package domain

import (
	"errors"
)

var (
	// ErrMediaInit means the local peer connection could not be created or
	// initialized from the inbound offer. Nothing was registered and no
	// provider call was made.
	ErrMediaInit = errors.New("media session initialization failed")

	// ErrPreAcceptRejected and ErrAcceptRejected mean the provider refused
	// the corresponding handshake step; the media session is already torn
	// down when they are returned.
	ErrPreAcceptRejected = errors.New("provider rejected pre_accept")
	ErrAcceptRejected    = errors.New("provider rejected accept")

	// ErrDuplicateSession means a live session already exists for the call id.
	ErrDuplicateSession = errors.New("duplicate call session")

	// ErrUnsupportedEvent means no entry in the webhook carried a call event
	// this service knows how to handle.
	ErrUnsupportedEvent = errors.New("no supported call event in webhook")
)
