package config

import (
	"os"
	"testing"
	"time"
)

var managedKeys = []string{
	"SERVICE_NAME", "HTTP_PORT", "ENVIRONMENT", "LOG_LEVEL", "LOG_OUTPUT",
	"TIMEZONE", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"SHUTDOWN_TIMEOUT", "READ_HEADER_TIMEOUT",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_PROTOCOL",
	"OTEL_EXPORTER_OTLP_HEADERS", "OTEL_EXPORTER_OTLP_INSECURE",
}

func TestLoadDefaults(t *testing.T) {
	defer snapshotEnv(t, managedKeys)()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServiceName != "greeting-service" {
		t.Fatalf("expected default service name, got %s", cfg.ServiceName)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.Address())
	}
	if cfg.Environment != "development" {
		t.Fatalf("expected development environment, got %s", cfg.Environment)
	}
	if cfg.TelemetryEndpoint != "" {
		t.Fatalf("expected telemetry disabled by default")
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected limiter disabled by default")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Fatalf("expected time.Local, got %v (%v)", loc, err)
	}
}

func TestLoadCustom(t *testing.T) {
	defer snapshotEnv(t, managedKeys)()

	os.Setenv("SERVICE_NAME", "greeter")
	os.Setenv("HTTP_PORT", "9090")
	os.Setenv("ENVIRONMENT", "Production")
	os.Setenv("TIMEZONE", "UTC")
	os.Setenv("RATE_LIMIT_RPS", "5")
	os.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "HTTP")
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-token=abc, x-team = shared ,broken")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServiceName != "greeter" || cfg.Address() != ":9090" {
		t.Fatalf("expected overrides applied, got %+v", cfg)
	}
	if cfg.Environment != "production" {
		t.Fatalf("expected normalized environment, got %s", cfg.Environment)
	}
	if cfg.TelemetryProtocol != "http" {
		t.Fatalf("expected protocol http, got %s", cfg.TelemetryProtocol)
	}
	if cfg.Burst() != 10 {
		t.Fatalf("expected burst to default to 2x rps, got %d", cfg.Burst())
	}
	headers := cfg.Headers()
	if headers["x-token"] != "abc" || headers["x-team"] != "shared" || len(headers) != 2 {
		t.Fatalf("unexpected headers %v", headers)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("expected UTC location, got %v (%v)", loc, err)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"empty service name", "SERVICE_NAME", " "},
		{"bad port", "HTTP_PORT", "70000"},
		{"unknown environment", "ENVIRONMENT", "qa"},
		{"unknown protocol", "OTEL_EXPORTER_OTLP_PROTOCOL", "ws"},
		{"negative rps", "RATE_LIMIT_RPS", "-1"},
		{"unknown timezone", "TIMEZONE", "Mars/Olympus_Mons"},
		{"unparsable port", "HTTP_PORT", "eighty"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer snapshotEnv(t, managedKeys)()
			os.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.val)
			}
		})
	}
}

func TestBurstExplicit(t *testing.T) {
	cfg := Config{RateLimitRPS: 3, RateLimitBurst: 7}
	if cfg.Burst() != 7 {
		t.Fatalf("expected explicit burst, got %d", cfg.Burst())
	}
}

// snapshotEnv clears keys and restores their previous values on return.
func snapshotEnv(t *testing.T, keys []string) func() {
	t.Helper()
	saved := make(map[string]*string, len(keys))
	for _, key := range keys {
		if val, ok := os.LookupEnv(key); ok {
			v := val
			saved[key] = &v
		} else {
			saved[key] = nil
		}
		os.Unsetenv(key)
	}
	return func() {
		for key, val := range saved {
			if val == nil {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, *val)
			}
		}
	}
}
