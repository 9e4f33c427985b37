// Package server assembles the HTTP router and server for the greeting service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	sharederrors "github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/errors"
	"github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/health"
	"github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/logging"
	"github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/observability"
)

// Options configure the HTTP server instance.
type Options struct {
	Addr              string
	ServiceName       string
	Logger            *logging.Logger
	Health            *health.Registry
	ReadHeaderTimeout time.Duration

	// RateLimitRPS throttles /api routes. Zero disables the limiter.
	RateLimitRPS   int
	RateLimitBurst int

	// RegisterAPI mounts routes under /api.
	RegisterAPI func(chi.Router)
}

// NewRouter builds the chi router with middleware, health, metrics and API routes.
func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Health == nil {
		opts.Health = health.NewRegistry(opts.Logger.Logger, health.BuildMetadata{})
	}
	logger := opts.Logger

	router := chi.NewRouter()
	router.Use(observability.RequestContextMiddleware)
	router.Use(middleware.RealIP)
	router.Use(middleware.GetHead)
	router.Use(accessLog(logger))
	router.Use(observability.MetricsMiddleware)
	router.Use(recoverer(logger))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		requestLogger(logger, r).Warn("route not found",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		writeError(w, r, sharederrors.CodeNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		requestLogger(logger, r).Warn("method not allowed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		writeError(w, r, sharederrors.CodeMethodNotAllowed, "method not allowed")
	})

	router.Get("/healthz", opts.Health.Healthz)
	router.Get("/readyz", opts.Health.Readyz)
	router.Handle("/metrics", promhttp.Handler())

	if opts.RegisterAPI != nil {
		router.Route("/api", func(r chi.Router) {
			if opts.RateLimitRPS > 0 {
				burst := opts.RateLimitBurst
				if burst <= 0 {
					burst = opts.RateLimitRPS * 2
				}
				r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)))
			}
			opts.RegisterAPI(r)
		})
	}

	return router
}

// New constructs an http.Server with tracing around the router.
func New(opts Options) *http.Server {
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 2 * time.Second
	}
	name := opts.ServiceName
	if name == "" {
		name = "greeting-service"
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           otelhttp.NewHandler(NewRouter(opts), name),
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves srv until ctx is cancelled, then shuts down within timeout.
func Run(ctx context.Context, srv *http.Server, logger *logging.Logger, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// requestLogger tags entries with the request ID and the active trace.
func requestLogger(logger *logging.Logger, r *http.Request) *zap.Logger {
	requestID, _ := observability.RequestIDFromContext(r.Context())
	return logger.WithRequestID(requestID).WithContext(r.Context())
}

func accessLog(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			requestLogger(logger, r).Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr))
		})
	}
}

func recoverer(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				requestLogger(logger, r).Error("panic serving request",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()))
				writeError(w, r, sharederrors.CodeInternal, "internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, r, sharederrors.CodeRateLimited, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, code, message string) {
	opts := []sharederrors.Option{
		sharederrors.WithDetail(r.Method + " " + r.URL.Path),
	}
	if id, ok := observability.RequestIDFromContext(r.Context()); ok {
		opts = append(opts, sharederrors.WithRequestID(id))
	}
	if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
		opts = append(opts, sharederrors.WithTraceID(sc.TraceID().String()))
	}
	sharederrors.Write(w, sharederrors.New(code, message, opts...))
}
