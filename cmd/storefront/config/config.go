package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	BridgeWebApp  = "webapp"
	BridgeWebhook = "webhook"
	BridgeNone    = "none"
)

var ErrBadConfig = errors.New("bad config")

type Config struct {
	ServiceAddress string        `env:"RUN_ADDRESS"`
	CatalogPath    string        `env:"CATALOG_PATH"`
	BridgeMode     string        `env:"BRIDGE_MODE"`
	WebhookURL     string        `env:"BOT_WEBHOOK_URL"`
	Key            string        `env:"KEY"`
	VisitTTL       time.Duration `env:"VISIT_TTL"`
	LogLevel       string        `env:"LOG_LEVEL"`
	DebugMode      bool
}

// BuildConfig reads flags first and lets the environment override them.
func BuildConfig(args []string) (Config, error) {
	var cfg Config
	if err := cfg.buildFromFlags(args); err != nil {
		return cfg, err
	}
	if err := cfg.buildFromEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (cfg *Config) buildFromFlags(args []string) error {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.StringVar(&cfg.ServiceAddress, "a", "127.0.0.1:8080", "service address")
	fs.StringVar(&cfg.CatalogPath, "c", "", "path to catalog yaml, built-in price table if empty")
	fs.StringVar(&cfg.BridgeMode, "b", BridgeWebApp, "host bridge: webapp, webhook or none")
	fs.StringVar(&cfg.WebhookURL, "w", "", "bot webhook url for webhook bridge")
	fs.StringVar(&cfg.Key, "k", "1337qwerty", "key for cookie and webhook signatures")
	fs.DurationVar(&cfg.VisitTTL, "t", time.Hour, "how long an idle visit keeps its draft")
	fs.StringVar(&cfg.LogLevel, "l", "info", "log level")
	fs.BoolVar(&cfg.DebugMode, "deb", false, "is debug mode enabled")
	return fs.Parse(args)
}

func (cfg *Config) buildFromEnv() error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: env parsing: %w", err)
	}
	return nil
}

func (cfg *Config) validate() error {
	switch cfg.BridgeMode {
	case BridgeWebApp, BridgeNone:
	case BridgeWebhook:
		if cfg.WebhookURL == "" {
			return fmt.Errorf("%w: webhook bridge needs BOT_WEBHOOK_URL", ErrBadConfig)
		}
	default:
		return fmt.Errorf("%w: unknown bridge mode '%s'", ErrBadConfig, cfg.BridgeMode)
	}
	if cfg.VisitTTL <= 0 {
		return fmt.Errorf("%w: visit ttl must be positive", ErrBadConfig)
	}
	return nil
}
