package ws

import "github.com/Wyydra/callbridge/internal/core/domain"

type Client interface {
	ID() string
	SendUpdate(update domain.CallUpdate) error
	Close() error
}
