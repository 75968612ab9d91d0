package port

import (
	"context"

	"github.com/Wyydra/callbridge/internal/core/domain"
)

// SignalingGateway is the provider's call control API.
type SignalingGateway interface {
	// AnswerCall sends one handshake step (pre_accept or accept) with the
	// local SDP answer. A non-success provider response is an error.
	AnswerCall(ctx context.Context, callID string, action domain.CallAction, sdpAnswer, to string) error

	// TerminateCall asks the provider to end the call.
	TerminateCall(ctx context.Context, callID string) error
}
