// Package logging builds the zap logger shared by the greeting service.
package logging

import (
	"context"
	"io"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger initialization.
type Config struct {
	// ServiceName identifies the service emitting logs.
	ServiceName string

	// Environment is the deployment environment (development, staging, production).
	Environment string

	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string

	// OutputPath is stdout, stderr or a file path. Ignored when Writer is set.
	OutputPath string

	// Writer overrides OutputPath, mostly for tests.
	Writer io.Writer
}

// Logger wraps zap.Logger with service fields and trace correlation.
type Logger struct {
	*zap.Logger
	close func()
}

// New creates a JSON logger for cfg. Call Close to release a file output.
func New(cfg Config) (*Logger, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "greeting-service"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	var (
		sink    zapcore.WriteSyncer
		closeFn func()
	)
	if cfg.Writer != nil {
		sink = zapcore.AddSync(cfg.Writer)
	} else {
		path := cfg.OutputPath
		if path == "" {
			path = "stdout"
		}
		var err error
		sink, closeFn, err = zap.Open(path)
		if err != nil {
			return nil, err
		}
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig(cfg.Environment == "development")),
		sink,
		parseLevel(cfg.Level),
	)

	logger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("service", cfg.ServiceName),
			zap.String("environment", cfg.Environment),
		),
	)

	return &Logger{Logger: logger, close: closeFn}, nil
}

// FromZap wraps an existing zap logger. A nil logger becomes a no-op.
func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{Logger: z}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return FromZap(nil)
}

// WithContext returns a logger carrying trace_id and span_id when ctx holds a
// valid span.
func (l *Logger) WithContext(ctx context.Context) *zap.Logger {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return l.Logger
	}
	return l.Logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

// WithRequestID returns a child logger with a request_id field. An empty id
// returns l unchanged.
func (l *Logger) WithRequestID(requestID string) *Logger {
	if requestID == "" {
		return l
	}
	return &Logger{Logger: l.Logger.With(zap.String("request_id", requestID))}
}

// Close flushes buffered entries and releases the output file, if any.
func (l *Logger) Close() error {
	err := l.Sync()
	if l.close != nil {
		l.close()
	}
	return err
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoderConfig(development bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	if development {
		cfg = zap.NewDevelopmentEncoderConfig()
	}
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}
