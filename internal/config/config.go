package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`

	GraphAPIBaseURL string `env:"GRAPH_API_BASE_URL" envDefault:"https://graph.facebook.com/v23.0"`
	WhatsAppToken   string `env:"WHATSAPP_TOKEN,required"`
	PhoneNumberID   string `env:"PHONE_NUMBER_ID,required"`

	VerifyToken string `env:"VERIFY_TOKEN"`
	AppSecret   string `env:"WHATSAPP_APP_SECRET"`

	STUNServers []string `env:"STUN_SERVERS" envDefault:"stun:stun.l.google.com:19302"`

	GatewayTimeout  time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads configuration from the environment, seeded from a .env file when
// one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
