// Package config loads greeting-service runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents the runtime configuration for the greeting service.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"greeting-service"`
	HTTPPort    int    `envconfig:"HTTP_PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogOutput   string `envconfig:"LOG_OUTPUT" default:"stdout"`

	// Timezone names the IANA location the wall clock is read in.
	Timezone string `envconfig:"TIMEZONE" default:"Local"`

	// Rate limiting for /api routes. Zero RPS disables the limiter.
	RateLimitRPS   int `envconfig:"RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst int `envconfig:"RATE_LIMIT_BURST" default:"0"`

	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"2s"`

	// Telemetry. An empty endpoint keeps tracing in no-op mode.
	TelemetryEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:""`
	TelemetryProtocol string `envconfig:"OTEL_EXPORTER_OTLP_PROTOCOL" default:"grpc"`
	TelemetryHeaders  string `envconfig:"OTEL_EXPORTER_OTLP_HEADERS" default:""`
	TelemetryInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.TelemetryProtocol = strings.ToLower(strings.TrimSpace(cfg.TelemetryProtocol))
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field combinations envconfig cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return errors.New("SERVICE_NAME must be provided")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return errors.New("ENVIRONMENT must be one of: development, staging, production")
	}
	if c.TelemetryProtocol != "grpc" && c.TelemetryProtocol != "http" {
		return fmt.Errorf("unsupported OTLP protocol %q", c.TelemetryProtocol)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// Location resolves Timezone. "Local" and the empty string map to time.Local.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

// Burst returns the limiter burst, defaulting to twice the RPS.
func (c *Config) Burst() int {
	if c.RateLimitBurst > 0 {
		return c.RateLimitBurst
	}
	return c.RateLimitRPS * 2
}

// Headers parses OTEL_EXPORTER_OTLP_HEADERS ("k1=v1,k2=v2").
func (c *Config) Headers() map[string]string {
	headers := map[string]string{}
	for _, pair := range strings.Split(c.TelemetryHeaders, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		headers[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return headers
}
