// Package config provides configuration management for the content poller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// IDPlaceholder is replaced by the article id in detail and media URL templates.
const IDPlaceholder = "{id}"

// Sink types.
const (
	SinkStdout  = "stdout"
	SinkFile    = "file"
	SinkRedis   = "redis"
	SinkWebhook = "webhook"
)

// Default endpoints of the content provider.
const (
	DefaultListURL   = "https://mapping-test.fra1.digitaloceanspaces.com/data/list.json"
	DefaultDetailURL = "https://mapping-test.fra1.digitaloceanspaces.com/data/articles/{id}.json"
	DefaultMediaURL  = "https://mapping-test.fra1.digitaloceanspaces.com/data/media/{id}.json"
)

// Configuration validation errors.
var (
	ErrInvalidInterval       = errors.New("poller.interval must be non-negative")
	ErrInvalidMaxCycles      = errors.New("poller.max_cycles must be non-negative")
	ErrMissingListURL        = errors.New("endpoints.list_url is required")
	ErrDetailURLPlaceholder  = errors.New("endpoints.detail_url must contain {id}")
	ErrMediaURLPlaceholder   = errors.New("endpoints.media_url must contain {id}")
	ErrInvalidTimeout        = errors.New("http.timeout must be non-negative")
	ErrInvalidBufferSize     = errors.New("http.buffer_size_kb must be at least 1")
	ErrInvalidSinkType       = errors.New("sink.type must be one of: stdout, file, redis, webhook")
	ErrMissingSinkPath       = errors.New("sink.path is required for the file sink")
	ErrMissingRedisAddress   = errors.New("sink.redis.address is required for the redis sink")
	ErrMissingRedisStream    = errors.New("sink.redis.stream is required for the redis sink")
	ErrMissingWebhookURL     = errors.New("sink.webhook.url is required for the webhook sink")
	ErrMissingMetricsAddress = errors.New("metrics.address is required when metrics are enabled")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat      = errors.New("logging.format must be 'text' or 'json'")
)

// Config represents the complete poller configuration.
type Config struct {
	Endpoints EndpointsConfig `yaml:"endpoints"`
	Sink      SinkConfig      `yaml:"sink"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
	HTTP      HTTPConfig      `yaml:"http"`
	Poller    PollerConfig    `yaml:"poller"`
}

// PollerConfig controls the cycle schedule.
type PollerConfig struct {
	Interval  time.Duration `yaml:"interval"   env:"POLLER_INTERVAL"`
	MaxCycles int           `yaml:"max_cycles" env:"POLLER_MAX_CYCLES"`
}

// EndpointsConfig holds the three content endpoints. DetailURL and MediaURL
// are templates containing IDPlaceholder.
type EndpointsConfig struct {
	ListURL   string `yaml:"list_url"   env:"POLLER_LIST_URL"`
	DetailURL string `yaml:"detail_url" env:"POLLER_DETAIL_URL"`
	MediaURL  string `yaml:"media_url"  env:"POLLER_MEDIA_URL"`
}

// HTTPConfig configures the transport used for every fetch.
type HTTPConfig struct {
	UserAgent    string        `yaml:"user_agent"     env:"POLLER_USER_AGENT"`
	Timeout      time.Duration `yaml:"timeout"        env:"POLLER_HTTP_TIMEOUT"`
	BufferSizeKb int           `yaml:"buffer_size_kb" env:"POLLER_HTTP_BUFFER_KB"`
}

// SinkConfig selects where canonical articles are handed off.
type SinkConfig struct {
	Type    string        `yaml:"type" env:"POLLER_SINK_TYPE"`
	Path    string        `yaml:"path" env:"POLLER_SINK_PATH"`
	Webhook WebhookConfig `yaml:"webhook"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig configures the Redis stream sink.
type RedisConfig struct {
	Address  string `yaml:"address"  env:"POLLER_REDIS_ADDRESS"`
	Password string `yaml:"password" env:"POLLER_REDIS_PASSWORD"`
	Stream   string `yaml:"stream"   env:"POLLER_REDIS_STREAM"`
	DB       int    `yaml:"db"       env:"POLLER_REDIS_DB"`
}

// WebhookConfig configures the webhook sink.
type WebhookConfig struct {
	URL           string `yaml:"url"            env:"POLLER_WEBHOOK_URL"`
	APIKey        string `yaml:"api_key"        env:"POLLER_WEBHOOK_API_KEY"`
	SigningSecret string `yaml:"signing_secret" env:"POLLER_WEBHOOK_SECRET"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Address string `yaml:"address" env:"POLLER_METRICS_ADDRESS"`
	Enabled bool   `yaml:"enabled" env:"POLLER_METRICS_ENABLED"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"  env:"POLLER_LOG_LEVEL"`
	Format string `yaml:"format" env:"POLLER_LOG_FORMAT"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Poller: PollerConfig{
			Interval: 5 * time.Minute,
		},
		Endpoints: EndpointsConfig{
			ListURL:   DefaultListURL,
			DetailURL: DefaultDetailURL,
			MediaURL:  DefaultMediaURL,
		},
		HTTP: HTTPConfig{
			UserAgent:    "contentpoller/1.0",
			Timeout:      30 * time.Second,
			BufferSizeKb: 1024,
		},
		Sink: SinkConfig{
			Type: SinkStdout,
		},
		Metrics: MetricsConfig{
			Address: ":9090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults,
// then applies .env files and environment overrides. An empty path skips the file.
func LoadConfig(filepath string) (*Config, error) {
	cfg := Default()

	if filepath != "" {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Poller.Interval < 0 {
		return ErrInvalidInterval
	}

	if c.Poller.MaxCycles < 0 {
		return ErrInvalidMaxCycles
	}

	if c.Endpoints.ListURL == "" {
		return ErrMissingListURL
	}

	if !strings.Contains(c.Endpoints.DetailURL, IDPlaceholder) {
		return ErrDetailURLPlaceholder
	}

	if !strings.Contains(c.Endpoints.MediaURL, IDPlaceholder) {
		return ErrMediaURLPlaceholder
	}

	if c.HTTP.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.HTTP.BufferSizeKb < 1 {
		return ErrInvalidBufferSize
	}

	if err := c.Sink.validate(); err != nil {
		return err
	}

	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return ErrMissingMetricsAddress
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

func (s *SinkConfig) validate() error {
	switch s.Type {
	case SinkStdout:
		return nil
	case SinkFile:
		if s.Path == "" {
			return ErrMissingSinkPath
		}
	case SinkRedis:
		if s.Redis.Address == "" {
			return ErrMissingRedisAddress
		}

		if s.Redis.Stream == "" {
			return ErrMissingRedisStream
		}
	case SinkWebhook:
		if s.Webhook.URL == "" {
			return ErrMissingWebhookURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSinkType, s.Type)
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Interval: %s, List: %s, Sink: %s, Metrics: %t}",
		c.Poller.Interval,
		c.Endpoints.ListURL,
		c.Sink.Type,
		c.Metrics.Enabled,
	)
}
