package main

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

type config struct {
	CatalogPath string `env:"CATALOG_PATH"`
	OutPath     string `env:"ORDER_OUT"`
	LogLevel    string `env:"LOG_LEVEL"`
	DryRun      bool
}

func newConfig(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("storefront-cli", flag.ContinueOnError)
	fs.StringVar(&cfg.CatalogPath, "c", "", "path to catalog yaml, built-in price table if empty")
	fs.StringVar(&cfg.OutPath, "out", "", "file to append order payloads to, stdout if empty")
	fs.StringVar(&cfg.LogLevel, "l", "info", "log level")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "run without a bridge, orders are only logged")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: env parsing: %w", err)
	}
	return cfg, nil
}
