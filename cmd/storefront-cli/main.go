package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/nivanov045/gamestore/cmd/storefront-cli/menu"
	"github.com/nivanov045/gamestore/cmd/storefront-cli/prompt"
	"github.com/nivanov045/gamestore/internal/bridge"
	"github.com/nivanov045/gamestore/internal/catalog"
	storelog "github.com/nivanov045/gamestore/internal/log"
	"github.com/nivanov045/gamestore/internal/storefront"
)

func main() {
	cfg, err := newConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("cli::main: config")
	}
	if err := storelog.Init(cfg.LogLevel, true); err != nil {
		log.Fatal().Err(err).Msg("cli::main: logger")
	}
	logger := storelog.Logger()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			storelog.Panic(err)
		}
	}

	b := bridge.Absent()
	if !cfg.DryRun {
		var out io.Writer = os.Stdout
		if cfg.OutPath != "" {
			file, err := os.OpenFile(cfg.OutPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				storelog.Panic(err)
			}
			defer file.Close()
			out = file
		}
		b = bridge.Present(bridge.NewWriter(out, logger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	form := storefront.New(cat, b, storefront.WithLogger(logger))
	if err := menu.Run(ctx, form, prompt.NewSurveyDriver(os.Stdout)); err != nil {
		storelog.Error(err)
	}
}
