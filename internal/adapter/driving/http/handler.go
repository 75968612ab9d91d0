package http

import (
	"net/http"

	"github.com/Wyydra/callbridge/internal/adapter/driven/events/ws"
	"github.com/Wyydra/callbridge/internal/core/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	CallService *service.CallService
	Hub         *ws.Hub

	verifyToken string
	appSecret   string
}

func NewHandler(callService *service.CallService, hub *ws.Hub, verifyToken, appSecret string) *Handler {
	return &Handler{
		CallService: callService,
		Hub:         hub,
		verifyToken: verifyToken,
		appSecret:   appSecret,
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/webhook", h.VerifyWebhook)
	r.Post("/webhook", h.ReceiveWebhook)

	r.Get("/ws", h.ServeWS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	return r
}
