package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port               string `envconfig:"PORT" default:"3333"`
	DatabaseURL        string `envconfig:"DATABASE_URL" required:"true"`
	ClerkSecretKey     string `envconfig:"CLERK_SECRET_KEY" required:"true"`
	ClerkWebhookSecret string `envconfig:"CLERK_WEBHOOK_SECRET"`
	MetricsUser        string `envconfig:"METRICS_USER"`
	MetricsPass        string `envconfig:"METRICS_PASS"`
	PprofSecret        string `envconfig:"PPROF_SECRET"`
	RateLimitRPS       int    `envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst     int    `envconfig:"RATE_LIMIT_BURST" default:"30"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
