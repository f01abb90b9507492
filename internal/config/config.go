// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	MemoryBackendDynamoDB = "dynamodb"
	MemoryBackendRedis    = "redis"
)

// DefaultPDFFontPath is where the font layer mounts a Traditional Chinese
// font inside the Lambda runtime.
const DefaultPDFFontPath = "/opt/fonts/NotoSansTC-Regular.ttf"

// Config is the full process configuration. Each binary validates only
// the parts it uses.
type Config struct {
	Environment string
	ParamPrefix string
	HTTPTimeout time.Duration

	Log     LogConfig
	LINE    LINEConfig
	Agent   AgentConfig
	Vendors VendorConfig
	Storage StorageConfig
	Memory  MemoryConfig
	Dev     DevConfig
	Tracing TracingConfig
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type LINEConfig struct {
	ChannelSecret      string
	ChannelAccessToken string
}

type AgentConfig struct {
	ID      string
	AliasID string
}

// VendorConfig holds API keys. A blank key is looked up in Parameter Store
// under ParamPrefix when one is configured.
type VendorConfig struct {
	GoogleAPIKey      string
	OpenWeatherAPIKey string
	TripAdvisorAPIKey string
}

type StorageConfig struct {
	Bucket        string
	CoverImageKey string
	PresignTTL    time.Duration
	PDFFontPath   string
}

type MemoryConfig struct {
	Backend  string
	Table    string
	RedisURL string
	RedisTTL time.Duration
}

// TracingConfig enables OTLP export of vendor call spans when Endpoint is set.
type TracingConfig struct {
	Endpoint string
}

type DevConfig struct {
	Port    int
	GinMode string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "production")
	v.SetDefault("http_timeout", "8s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("cover_image_key", "assets/cover.jpg")
	v.SetDefault("presign_ttl", "1h")
	v.SetDefault("pdf_font_path", DefaultPDFFontPath)
	v.SetDefault("memory_backend", MemoryBackendDynamoDB)
	v.SetDefault("memory_table", "TravelAgentMemory")
	v.SetDefault("redis_ttl", "0s")
	v.SetDefault("dev_port", 8080)
	v.SetDefault("gin_mode", "debug")
}

// Load reads every setting from environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Environment: v.GetString("environment"),
		ParamPrefix: strings.TrimRight(strings.TrimSpace(v.GetString("param_prefix")), "/"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Pretty: v.GetBool("log_pretty"),
		},
		LINE: LINEConfig{
			ChannelSecret:      v.GetString("channel_secret"),
			ChannelAccessToken: v.GetString("channel_access_token"),
		},
		Agent: AgentConfig{
			ID:      v.GetString("agent_id"),
			AliasID: v.GetString("agent_alias_id"),
		},
		Vendors: VendorConfig{
			GoogleAPIKey:      v.GetString("google_api_key"),
			OpenWeatherAPIKey: v.GetString("openweather_api_key"),
			TripAdvisorAPIKey: v.GetString("tripadvisor_api_key"),
		},
		Storage: StorageConfig{
			Bucket:        v.GetString("s3_ap_alias"),
			CoverImageKey: v.GetString("cover_image_key"),
			PresignTTL:    v.GetDuration("presign_ttl"),
			PDFFontPath:   strings.TrimSpace(v.GetString("pdf_font_path")),
		},
		Memory: MemoryConfig{
			Backend:  strings.ToLower(strings.TrimSpace(v.GetString("memory_backend"))),
			Table:    v.GetString("memory_table"),
			RedisURL: v.GetString("redis_url"),
			RedisTTL: v.GetDuration("redis_ttl"),
		},
		Dev: DevConfig{
			Port:    v.GetInt("dev_port"),
			GinMode: v.GetString("gin_mode"),
		},
		Tracing: TracingConfig{
			Endpoint: v.GetString("otel_exporter_otlp_endpoint"),
		},
	}

	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("config: HTTP_TIMEOUT must be positive, got %q", v.GetString("http_timeout"))
	}
	if cfg.Storage.PresignTTL <= 0 {
		return nil, fmt.Errorf("config: PRESIGN_TTL must be positive, got %q", v.GetString("presign_ttl"))
	}
	return cfg, nil
}

// secretOrPrefix reports whether a credential is available either directly
// or through Parameter Store.
func (c *Config) secretOrPrefix(value string) bool {
	return strings.TrimSpace(value) != "" || c.ParamPrefix != ""
}

// ValidateWebhook checks the settings needed by the webhook binary.
func (c *Config) ValidateWebhook() error {
	var errs []error
	if !c.secretOrPrefix(c.LINE.ChannelSecret) {
		errs = append(errs, errors.New("CHANNEL_SECRET (or PARAM_PREFIX) is required"))
	}
	if !c.secretOrPrefix(c.LINE.ChannelAccessToken) {
		errs = append(errs, errors.New("CHANNEL_ACCESS_TOKEN (or PARAM_PREFIX) is required"))
	}
	if c.Agent.ID == "" || c.Agent.AliasID == "" {
		errs = append(errs, errors.New("AGENT_ID and AGENT_ALIAS_ID are required"))
	}
	return wrap("webhook", errs)
}

// ValidateActions checks the settings needed by the travel action binary.
func (c *Config) ValidateActions() error {
	var errs []error
	if !c.secretOrPrefix(c.Vendors.GoogleAPIKey) {
		errs = append(errs, errors.New("GOOGLE_API_KEY (or PARAM_PREFIX) is required"))
	}
	if !c.secretOrPrefix(c.Vendors.OpenWeatherAPIKey) {
		errs = append(errs, errors.New("OPENWEATHER_API_KEY (or PARAM_PREFIX) is required"))
	}
	if !c.secretOrPrefix(c.Vendors.TripAdvisorAPIKey) {
		errs = append(errs, errors.New("TRIPADVISOR_API_KEY (or PARAM_PREFIX) is required"))
	}
	if c.Storage.Bucket == "" {
		errs = append(errs, errors.New("S3_AP_ALIAS is required"))
	}
	if c.Storage.PDFFontPath == "" {
		errs = append(errs, errors.New("PDF_FONT_PATH is required to render Chinese itineraries"))
	}
	return wrap("actions", errs)
}

// ValidateMemory checks the settings needed by the memory binary.
func (c *Config) ValidateMemory() error {
	var errs []error
	switch c.Memory.Backend {
	case MemoryBackendDynamoDB:
		if c.Memory.Table == "" {
			errs = append(errs, errors.New("MEMORY_TABLE is required"))
		}
	case MemoryBackendRedis:
		if c.Memory.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("MEMORY_BACKEND %q is not supported", c.Memory.Backend))
	}
	return wrap("memory", errs)
}

func wrap(binary string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %s: %w", binary, errors.Join(errs...))
}
