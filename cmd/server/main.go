package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Wyydra/callbridge/internal/adapter/driven/events/ws"
	"github.com/Wyydra/callbridge/internal/adapter/driven/gateway/whatsapp"
	"github.com/Wyydra/callbridge/internal/adapter/driven/media/pion"
	"github.com/Wyydra/callbridge/internal/adapter/driven/registry/memory"
	handler "github.com/Wyydra/callbridge/internal/adapter/driving/http"
	"github.com/Wyydra/callbridge/internal/config"
	"github.com/Wyydra/callbridge/internal/core/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	w := zerolog.ConsoleWriter{Out: os.Stdout}
	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	registry := memory.NewCallRegistry()
	hub := ws.NewHub()
	gateway := whatsapp.NewClient(cfg.GraphAPIBaseURL, cfg.WhatsAppToken, cfg.PhoneNumberID, cfg.GatewayTimeout)

	engine, err := pion.NewEngine(cfg.STUNServers)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create media engine")
	}

	callService := service.NewCallService(engine, gateway, registry, hub)
	h := handler.NewHandler(callService, hub, cfg.VerifyToken, cfg.AppSecret)

	go hub.Run()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: h.NewRouter(),
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	callService.TerminateAll(ctx)
	hub.Stop()
	log.Info().Msg("Server exited")
}
