package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	provider, err := Init(context.Background(), Config{ServiceName: "svc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !provider.Fallback() {
		t.Fatalf("expected no-op provider when endpoint empty")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Fatalf("expected no-op shutdown: %v", err)
	}
}

func TestInitUnsupportedProtocolFallsBack(t *testing.T) {
	TelemetryExporterFailures().Reset()

	provider, err := Init(context.Background(), Config{
		ServiceName: "svc",
		Endpoint:    "collector:4317",
		Protocol:    "ws",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !provider.Fallback() {
		t.Fatalf("expected fallback provider")
	}
	if v := testutil.ToFloat64(TelemetryExporterFailures().WithLabelValues("ws")); v < 1 {
		t.Fatalf("expected ws failure count >= 1, got %f", v)
	}
	if v := testutil.ToFloat64(TelemetryExporterFailures().WithLabelValues("degraded")); v < 1 {
		t.Fatalf("expected degraded failure count >= 1, got %f", v)
	}
}

func TestInitHTTPProvider(t *testing.T) {
	ctx := context.Background()
	provider, err := Init(ctx, Config{
		ServiceName: "svc",
		Environment: "test",
		Endpoint:    "collector:4318",
		Protocol:    "http",
		Headers:     map[string]string{"authorization": "Bearer value"},
		Insecure:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Fallback() {
		t.Fatalf("expected real provider for http exporter")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := provider.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestNewExporterVariants(t *testing.T) {
	ctx := context.Background()
	for _, cfg := range []Config{
		{ServiceName: "svc", Endpoint: "collector:4317", Protocol: "grpc", Headers: map[string]string{"x-test": "value"}, Insecure: true},
		{Endpoint: "collector:4318", Protocol: "http", Insecure: true},
	} {
		exporter, err := newExporter(ctx, cfg)
		if err != nil {
			t.Fatalf("unexpected %s exporter error: %v", cfg.Protocol, err)
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
		_ = exporter.Shutdown(shutdownCtx)
		cancel()
	}

	if _, err := newExporter(ctx, Config{Protocol: "carrier-pigeon"}); err == nil {
		t.Fatalf("expected error for unknown protocol")
	}
}

func TestExporterAttempts(t *testing.T) {
	tests := map[string][]string{
		"":     {"grpc", "http"},
		"grpc": {"grpc", "http"},
		"http": {"http"},
		"ws":   {"ws"},
	}
	for protocol, want := range tests {
		got := exporterAttempts(protocol)
		if len(got) != len(want) {
			t.Fatalf("exporterAttempts(%q) = %v, want %v", protocol, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("exporterAttempts(%q) = %v, want %v", protocol, got, want)
			}
		}
	}
}

func TestProviderShutdownNil(t *testing.T) {
	var provider *Provider
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil provider shutdown to be no-op: %v", err)
	}
	if provider.Fallback() {
		t.Fatalf("nil provider should not report fallback")
	}
}
