package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"

	"travel-assistant/internal/app"
	"travel-assistant/internal/config"
	"travel-assistant/internal/logger"
	"travel-assistant/internal/tracing"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Service: "travel-actions"})
	if err := cfg.ValidateActions(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	shutdown, err := tracing.Setup(ctx, tracing.Config{Service: "travel-actions", Endpoint: cfg.Tracing.Endpoint})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}
	defer func() { _ = shutdown(context.Background()) }()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS config")
	}

	h, err := app.Actions(ctx, app.Deps{Config: cfg, AWS: awsCfg, Log: log})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build handler")
	}

	lambda.Start(h.Handle)
}
