package ws

import (
	"context"

	"github.com/Wyydra/callbridge/internal/core/domain"
	"github.com/rs/zerolog/log"
)

// Hub fans call lifecycle updates out to connected websocket clients. It
// implements port.EventSink.
type Hub struct {
	clients    map[Client]bool
	updates    chan domain.CallUpdate
	register   chan Client
	unregister chan Client
	quit       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[Client]bool),
		updates:    make(chan domain.CallUpdate, 16),
		register:   make(chan Client),
		unregister: make(chan Client),
		quit:       make(chan struct{}),
	}
}

// Publish never blocks call handling: updates beyond the channel capacity are
// dropped with a warning.
func (h *Hub) Publish(ctx context.Context, update domain.CallUpdate) error {
	select {
	case h.updates <- update:
	default:
		log.Warn().Str("call_id", update.CallID).Msg("Update channel full, dropping call update")
	}
	return nil
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			log.Info().Str("client_id", client.ID()).Msg("Event client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
				log.Info().Str("client_id", client.ID()).Msg("Event client unregistered")
			}

		case update := <-h.updates:
			for client := range h.clients {
				if err := client.SendUpdate(update); err != nil {
					log.Error().Err(err).Str("client_id", client.ID()).Msg("Error sending call update")
					client.Close()
					delete(h.clients, client)
				}
			}
		}
	}
}

func (h *Hub) Register(c Client) {
	h.register <- c
}

func (h *Hub) Unregister(c Client) {
	h.unregister <- c
}

func (h *Hub) Stop() {
	close(h.quit)
}
