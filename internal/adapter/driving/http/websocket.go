package http

import (
	"net/http"
	"sync"

	"github.com/Wyydra/callbridge/internal/core/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSClient is a connected event stream subscriber.
type WSClient struct {
	id   string
	conn *websocket.Conn

	mu sync.Mutex // serializes writes
}

func (c *WSClient) ID() string {
	return c.id
}

func (c *WSClient) SendUpdate(update domain.CallUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(update)
}

func (c *WSClient) Close() error {
	return c.conn.Close()
}

// ServeWS upgrades the connection and streams call updates until the
// subscriber goes away.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := &WSClient{
		id:   uuid.NewString(),
		conn: conn,
	}

	l := log.With().Str("client_id", client.id).Logger()
	l.Info().Msg("Event client connected")

	h.Hub.Register(client)

	defer func() {
		l.Info().Msg("Event client disconnected")
		h.Hub.Unregister(client)
	}()

	// Subscribers only listen; the read loop just detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("Unexpected close error")
			}
			return
		}
	}
}
