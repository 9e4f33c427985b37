// Package api serves the public greeting endpoints.
package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/logging"
	"github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/observability"
	"github.com/otherjamesbrown/ai-aas/services/greeting-service/pkg/greeting"
)

const tracerName = "github.com/otherjamesbrown/ai-aas/services/greeting-service/internal/api"

// Handler serves /api/greeting and /api/time_now.
type Handler struct {
	greeter *greeting.Greeter
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewHandler builds a Handler around greeter.
func NewHandler(greeter *greeting.Greeter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		greeter: greeter,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// RegisterRoutes mounts the greeting endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/greeting", h.Greeting)
	r.Get("/time_now", h.TimeNow)
}

// Greeting handles GET /api/greeting.
func (h *Handler) Greeting(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "greeting.static")
	defer span.End()

	observability.RecordGreeting("greeting", "")
	h.writeText(w, h.greeter.Welcome())
}

// TimeNow handles GET /api/time_now.
func (h *Handler) TimeNow(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "greeting.time_now")
	defer span.End()

	now, period, body := h.greeter.TimeNow()
	span.SetAttributes(
		attribute.String("greeting.period", string(period)),
		attribute.String("greeting.local_time", now.Format("15:04:05")),
	)
	observability.RecordGreeting("time_now", string(period))

	requestID, _ := observability.RequestIDFromContext(ctx)
	h.logger.WithRequestID(requestID).WithContext(ctx).
		Debug("time greeting served", zap.String("period", string(period)))
	h.writeText(w, body)
}

func (h *Handler) writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		h.logger.Warn("failed to write response body", zap.Error(err))
	}
}
