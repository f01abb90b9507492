package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"

	"travel-assistant/internal/app"
	"travel-assistant/internal/config"
	"travel-assistant/internal/httpserver"
	"travel-assistant/internal/logger"
	"travel-assistant/internal/tracing"
)

// The dev server mounts whichever handlers have a valid configuration, so a
// partial .env is enough to exercise one of them.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Service: "travel-devserver"})

	shutdown, err := tracing.Setup(ctx, tracing.Config{Service: "travel-devserver", Endpoint: cfg.Tracing.Endpoint})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}
	defer func() { _ = shutdown(context.Background()) }()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS config")
	}
	deps := app.Deps{Config: cfg, AWS: awsCfg, Log: log}
	srvCfg := httpserver.Config{Port: cfg.Dev.Port, Mode: cfg.Dev.GinMode}

	if err := cfg.ValidateWebhook(); err != nil {
		log.Warn().Err(err).Msg("webhook route disabled")
	} else if h, err := app.Webhook(ctx, deps); err != nil {
		log.Warn().Err(err).Msg("webhook route disabled")
	} else {
		srvCfg.Webhook = h
	}

	if err := cfg.ValidateActions(); err != nil {
		log.Warn().Err(err).Msg("actions route disabled")
	} else if h, err := app.Actions(ctx, deps); err != nil {
		log.Warn().Err(err).Msg("actions route disabled")
	} else {
		srvCfg.Actions = h
	}

	if err := cfg.ValidateMemory(); err != nil {
		log.Warn().Err(err).Msg("memory route disabled")
	} else if h, err := app.Memory(ctx, deps); err != nil {
		log.Warn().Err(err).Msg("memory route disabled")
	} else {
		srvCfg.Memory = h
	}

	srv, err := httpserver.New(log, srvCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create dev server")
	}
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("dev server stopped")
	}
}
