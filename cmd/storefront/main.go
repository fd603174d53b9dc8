package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nivanov045/gamestore/cmd/storefront/api"
	"github.com/nivanov045/gamestore/cmd/storefront/botwebhook"
	"github.com/nivanov045/gamestore/cmd/storefront/config"
	"github.com/nivanov045/gamestore/cmd/storefront/crypto"
	"github.com/nivanov045/gamestore/cmd/storefront/service"
	"github.com/nivanov045/gamestore/cmd/storefront/storage"
	"github.com/nivanov045/gamestore/cmd/storefront/visitor"
	"github.com/nivanov045/gamestore/internal/catalog"
	storelog "github.com/nivanov045/gamestore/internal/log"
)

func main() {
	cfg, err := config.BuildConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("service::main: config")
	}
	if err := storelog.Init(cfg.LogLevel, cfg.DebugMode); err != nil {
		log.Fatal().Err(err).Msg("service::main: logger")
	}
	logger := storelog.Logger()
	logger.Info().
		Str("address", cfg.ServiceAddress).
		Str("bridge", cfg.BridgeMode).
		Str("catalog", cfg.CatalogPath).
		Dur("visit_ttl", cfg.VisitTTL).
		Msg("service::main: cfg")

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			storelog.Panic(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	signer := crypto.New(cfg.Key)
	hookCtx, stopHook := context.WithCancel(context.Background())
	defer stopHook()
	wg := sync.WaitGroup{}
	var bridges service.BridgeFactory
	switch cfg.BridgeMode {
	case config.BridgeWebhook:
		hook := botwebhook.New(cfg.WebhookURL, signer, logger)
		wg.Add(1)
		go func() {
			hook.Run(hookCtx, runtime.NumCPU())
			wg.Done()
		}()
		bridges = service.SharedBridge(hook)
	case config.BridgeNone:
		bridges = service.NoBridge()
	default:
		bridges = service.PageBridge()
	}

	serv := service.New(storage.New(), cat, bridges, cfg.VisitTTL, logger)
	go serv.RunSweeper(ctx, time.Minute)

	myapi, err := api.New(serv, visitor.New(signer, cfg.DebugMode), api.DefaultPage(), cfg.VisitTTL, logger)
	if err != nil {
		storelog.Panic(err)
	}

	err = myapi.Run(ctx, cfg.ServiceAddress)
	// the webhook stops only after the api has finished its requests
	stopHook()
	wg.Wait()
	if err != nil {
		storelog.Panic(err)
	}
	logger.Info().Msg("service::main: stopped")
}
