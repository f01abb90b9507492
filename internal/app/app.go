// Package app builds each Lambda's handler from configuration. Clients are
// created once per process and injected.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"travel-assistant/handler"
	"travel-assistant/internal/config"
	"travel-assistant/internal/integrations/bedrockagent"
	"travel-assistant/internal/integrations/googlemaps"
	"travel-assistant/internal/integrations/line"
	"travel-assistant/internal/integrations/objectstore"
	"travel-assistant/internal/integrations/openweather"
	"travel-assistant/internal/integrations/paramstore"
	"travel-assistant/internal/integrations/pdf"
	"travel-assistant/internal/integrations/timezone"
	"travel-assistant/internal/integrations/tripadvisor"
	"travel-assistant/internal/integrations/vendorhttp"
	"travel-assistant/internal/repository"
	"travel-assistant/internal/signature"
	"travel-assistant/internal/usecase"
)

// Parameter Store names, relative to PARAM_PREFIX.
const (
	paramChannelSecret      = "channel_secret"
	paramChannelAccessToken = "channel_access_token"
	paramGoogleAPIKey       = "google_api_key"
	paramOpenWeatherAPIKey  = "openweather_api_key"
	paramTripAdvisorAPIKey  = "tripadvisor_api_key"
)

// Deps carries what every builder needs.
type Deps struct {
	Config *config.Config
	AWS    aws.Config
	Log    zerolog.Logger
}

func (d Deps) getter() (paramstore.Getter, error) {
	if d.Config.ParamPrefix == "" {
		return nil, nil
	}
	c, err := paramstore.New(ssm.NewFromConfig(d.AWS), d.Config.ParamPrefix)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (d Deps) vendorHTTP() *vendorhttp.Client {
	return vendorhttp.New(vendorhttp.WithTimeout(d.Config.HTTPTimeout))
}

func (d Deps) lineClient(getter paramstore.Getter) (*line.Client, error) {
	token := paramstore.Resolve(d.Config.LINE.ChannelAccessToken, getter, paramChannelAccessToken)
	return line.New(token, line.WithHTTP(d.vendorHTTP()))
}

// Webhook builds the messaging webhook handler. The channel secret is
// resolved here so a misconfigured deployment fails at cold start.
func Webhook(ctx context.Context, d Deps) (*handler.WebhookHandler, error) {
	getter, err := d.getter()
	if err != nil {
		return nil, fmt.Errorf("app: parameter store: %w", err)
	}
	secret, err := paramstore.Resolve(d.Config.LINE.ChannelSecret, getter, paramChannelSecret).Key(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: channel secret: %w", err)
	}

	replier, err := d.lineClient(getter)
	if err != nil {
		return nil, fmt.Errorf("app: line client: %w", err)
	}
	agent, err := bedrockagent.New(bedrockagentruntime.NewFromConfig(d.AWS), d.Config.Agent.ID, d.Config.Agent.AliasID)
	if err != nil {
		return nil, fmt.Errorf("app: agent client: %w", err)
	}
	chat, err := usecase.NewChatService(agent, replier, d.Log)
	if err != nil {
		return nil, err
	}
	return handler.NewWebhookHandler(signature.New(secret), chat, d.Log)
}

// Actions builds the travel action group handler.
func Actions(_ context.Context, d Deps) (*handler.ActionHandler, error) {
	getter, err := d.getter()
	if err != nil {
		return nil, fmt.Errorf("app: parameter store: %w", err)
	}
	cfg := d.Config
	vh := d.vendorHTTP()

	maps, err := googlemaps.New(paramstore.Resolve(cfg.Vendors.GoogleAPIKey, getter, paramGoogleAPIKey), googlemaps.WithHTTP(vh))
	if err != nil {
		return nil, fmt.Errorf("app: maps client: %w", err)
	}
	weather, err := openweather.New(paramstore.Resolve(cfg.Vendors.OpenWeatherAPIKey, getter, paramOpenWeatherAPIKey), openweather.WithHTTP(vh))
	if err != nil {
		return nil, fmt.Errorf("app: weather client: %w", err)
	}
	hotels, err := tripadvisor.New(paramstore.Resolve(cfg.Vendors.TripAdvisorAPIKey, getter, paramTripAdvisorAPIKey), tripadvisor.WithHTTP(vh))
	if err != nil {
		return nil, fmt.Errorf("app: hotel client: %w", err)
	}

	var travelOpts []usecase.TravelOption
	if locator, err := timezone.New(); err != nil {
		d.Log.Warn().Err(err).Msg("time zone lookup disabled")
	} else {
		travelOpts = append(travelOpts, usecase.WithTimeLocator(locator))
	}
	travel, err := usecase.NewTravelService(maps, weather, hotels, travelOpts...)
	if err != nil {
		return nil, err
	}

	renderer, err := pdf.New(pdf.WithFontFile(cfg.Storage.PDFFontPath))
	if err != nil {
		return nil, fmt.Errorf("app: pdf renderer: %w", err)
	}
	if !renderer.HasUnicodeFont() {
		return nil, errors.New("app: pdf renderer: PDF_FONT_PATH is not set")
	}
	store, err := objectstore.NewFromClient(s3.NewFromConfig(d.AWS), cfg.Storage.Bucket, cfg.Storage.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("app: object store: %w", err)
	}

	itinOpts := []usecase.ItineraryOption{
		usecase.WithCoverImageKey(cfg.Storage.CoverImageKey),
		usecase.WithItineraryLogger(d.Log),
	}
	if cfg.LINE.ChannelAccessToken != "" || cfg.ParamPrefix != "" {
		pusher, err := d.lineClient(getter)
		if err != nil {
			return nil, fmt.Errorf("app: line client: %w", err)
		}
		itinOpts = append(itinOpts, usecase.WithPusher(pusher))
	}
	itinerary, err := usecase.NewItineraryService(renderer, store, itinOpts...)
	if err != nil {
		return nil, err
	}

	return handler.NewActionHandler(handler.NewTravelRegistry(travel, itinerary), d.Log)
}

// Memory builds the conversation memory API handler.
func Memory(_ context.Context, d Deps) (*handler.MemoryHandler, error) {
	store, err := MemoryStore(d)
	if err != nil {
		return nil, err
	}
	memory, err := usecase.NewMemoryService(store, time.Now)
	if err != nil {
		return nil, err
	}
	return handler.NewMemoryHandler(handler.NewMemoryRegistry(memory), d.Log)
}

// MemoryStore selects the conversation store backend.
func MemoryStore(d Deps) (repository.ConversationStore, error) {
	cfg := d.Config.Memory
	switch cfg.Backend {
	case config.MemoryBackendDynamoDB:
		return repository.New(dynamodb.NewFromConfig(d.AWS), cfg.Table)
	case config.MemoryBackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("app: parse REDIS_URL: %w", err)
		}
		return repository.NewRedisStore(redis.NewClient(opts), cfg.RedisTTL)
	default:
		return nil, fmt.Errorf("app: unsupported memory backend %q", cfg.Backend)
	}
}
