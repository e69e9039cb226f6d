// Functional options for pling configuration
package config

import (
	"time"
)

// WithHTTPTimeout sets the per-request HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		c.HTTPTimeout = timeout
		return nil
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Config) error {
		c.UserAgent = ua
		return nil
	}
}

// WithLogLevel sets the log level by name
func WithLogLevel(level string) Option {
	return func(c *Config) error {
		c.LogLevel = level
		return nil
	}
}

// WithLogFormat selects "console" or "json" output
func WithLogFormat(format string) Option {
	return func(c *Config) error {
		c.LogFormat = format
		return nil
	}
}

// WithFile sets the notifier document path
func WithFile(path string) Option {
	return func(c *Config) error {
		c.File = path
		return nil
	}
}

// WithTelemetry enables OTLP export to endpoint
func WithTelemetry(endpoint, serviceName string) Option {
	return func(c *Config) error {
		c.Telemetry.Enabled = true
		c.Telemetry.Endpoint = endpoint
		c.Telemetry.ServiceName = serviceName
		return nil
	}
}

// WithTestDefaults applies test-friendly defaults
func WithTestDefaults() Option {
	return func(c *Config) error {
		c.HTTPTimeout = 5 * time.Second
		c.LogLevel = "debug"
		c.Telemetry.Enabled = false
		return nil
	}
}
