package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/api"
	"github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/config"
	"github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/health"
	"github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/logging"
	"github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/observability"
	"github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/server"
	"github.com/otherjamesbrown/ai-aas/services/greeting-service/pkg/greeting"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = ""
	buildTime = ""
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		OutputPath:  cfg.LogOutput,
	})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Close() }()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("greeting-service exited with error", zap.Error(err))
		_ = logger.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	headers := cfg.Headers()
	telemetry, err := observability.Init(ctx, observability.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.TelemetryEndpoint,
		Protocol:    cfg.TelemetryProtocol,
		Headers:     headers,
		Insecure:    cfg.TelemetryInsecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to shutdown telemetry", zap.Error(err))
		}
	}()
	logger.Info("telemetry initialized",
		zap.String("endpoint", cfg.TelemetryEndpoint),
		zap.String("protocol", cfg.TelemetryProtocol),
		logging.Headers("headers", headers),
		zap.Bool("noop", telemetry.Fallback()))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := greeting.SystemClock{Location: loc}

	registry := health.NewRegistry(logger.Logger, health.BuildMetadata{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	})
	registry.Register("clock", health.ClockProbe(clock))

	handler := api.NewHandler(greeting.NewGreeter(clock), logger)

	srv := server.New(server.Options{
		Addr:              cfg.Address(),
		ServiceName:       cfg.ServiceName,
		Logger:            logger,
		Health:            registry,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		RateLimitRPS:      cfg.RateLimitRPS,
		RateLimitBurst:    cfg.Burst(),
		RegisterAPI:       handler.RegisterRoutes,
	})

	logger.Info("greeting-service starting",
		zap.String("addr", srv.Addr),
		zap.String("timezone", loc.String()),
		zap.String("version", version))

	return server.Run(ctx, srv, logger, cfg.ShutdownTimeout)
}
