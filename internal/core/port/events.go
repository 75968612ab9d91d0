package port

import (
	"context"

	"github.com/Wyydra/callbridge/internal/core/domain"
)

// EventSink receives call lifecycle updates for observers. Publishing is
// best-effort; a sink must never block call handling.
type EventSink interface {
	Publish(ctx context.Context, update domain.CallUpdate) error
}
