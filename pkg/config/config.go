// Package config provides the runtime configuration for pling.
//
// Values come from PLING_* environment variables with functional options
// layered on top. Channel settings are not part of Config; each channel
// discovers its own variables.
package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/errors"
	"github.com/kart-io/pling/pkg/logger"
)

// Version is the pling release reported in the default User-Agent.
const Version = "0.1.0"

// DefaultUserAgent is sent with every HTTP request unless overridden.
const DefaultUserAgent = "pling/" + Version + " https://github.com/kart-io/pling"

// Config represents the unified configuration structure
type Config struct {
	// Timeout applied to each outgoing HTTP request
	HTTPTimeout time.Duration `env:"PLING_HTTP_TIMEOUT" envDefault:"30s"`
	UserAgent   string        `env:"PLING_USER_AGENT"`

	LogLevel  string `env:"PLING_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"PLING_LOG_FORMAT" envDefault:"console"`

	// Optional YAML or JSON notifier document
	File string `env:"PLING_CONFIG"`

	Telemetry TelemetryConfig `envPrefix:"PLING_OTEL_"`
}

// TelemetryConfig configures tracing and metrics export.
type TelemetryConfig struct {
	Enabled     bool    `env:"ENABLED"`
	Endpoint    string  `env:"ENDPOINT" envDefault:"localhost:4318"`
	ServiceName string  `env:"SERVICE_NAME" envDefault:"pling"`
	SampleRate  float64 `env:"SAMPLE_RATE" envDefault:"1.0"`
	Insecure    bool    `env:"INSECURE" envDefault:"true"`
}

// Option defines a functional option for configuration
type Option func(*Config) error

// New creates a configuration from defaults and the given options.
func New(opts ...Option) (*Config, error) {
	return Load(environ.Env{}, opts...)
}

// Load reads configuration from e, then applies opts and validates.
func Load(e environ.Env, opts ...Option) (*Config, error) {
	cfg := &Config{}
	if err := environ.Decode(e, cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoadFailed, "failed to read configuration")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.HTTPTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.UserAgent, validation.Required),
		validation.Field(&c.LogLevel, validation.Required, validation.By(validLevel)),
		validation.Field(&c.LogFormat, validation.Required, validation.In("console", "json")),
	)
	if err == nil {
		err = c.Telemetry.Validate()
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidConfig, "invalid configuration")
	}
	return nil
}

// Validate checks the telemetry settings. Endpoint is only required when
// export is enabled.
func (t TelemetryConfig) Validate() error {
	var required []validation.Rule
	if t.Enabled {
		required = append(required, validation.Required)
	}
	return validation.ValidateStruct(&t,
		validation.Field(&t.Endpoint, required...),
		validation.Field(&t.ServiceName, required...),
		validation.Field(&t.SampleRate, validation.Min(0.0), validation.Max(1.0)),
	)
}

func validLevel(value interface{}) error {
	s, _ := value.(string)
	_, err := logger.ParseLevel(s)
	return err
}

// Level returns the parsed log level. Validate guarantees it parses.
func (c *Config) Level() logger.LogLevel {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.Warn
	}
	return level
}

// NewLogger builds the zap-backed logger described by the configuration.
func (c *Config) NewLogger() (logger.Logger, error) {
	if c.Level() == logger.Silent {
		return logger.Discard, nil
	}
	return logger.NewZapProduction(c.LogFormat, c.Level())
}
