// Package health provides liveness and readiness endpoints backed by named probes.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/greeting-service/pkg/greeting"
)

// Probe returns an error when the checked component is unhealthy.
type Probe func(ctx context.Context) error

// Status holds the evaluation result for a probe.
type Status struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// BuildMetadata holds build-time information.
type BuildMetadata struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

// LivenessResponse is the /healthz body.
type LivenessResponse struct {
	Status    string         `json:"status"`
	Build     *BuildMetadata `json:"build,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// ReadinessResponse is the /readyz body.
type ReadinessResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]Status `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

// Registry maintains a set of named probes and evaluates them on demand.
type Registry struct {
	mu      sync.RWMutex
	probes  map[string]Probe
	timeout time.Duration
	build   BuildMetadata
	logger  *zap.Logger
}

// NewRegistry initializes an empty registry. A nil logger is replaced by a no-op.
func NewRegistry(logger *zap.Logger, build BuildMetadata) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		probes:  map[string]Probe{},
		timeout: 2 * time.Second,
		build:   build,
		logger:  logger,
	}
}

// Register adds or replaces a probe.
func (r *Registry) Register(name string, probe Probe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probes[name] = probe
}

// Evaluate runs every probe and reports whether all passed. Probes run
// against a snapshot taken under the lock, so they may call Register.
func (r *Registry) Evaluate(ctx context.Context) (map[string]Status, bool) {
	r.mu.RLock()
	probes := make(map[string]Probe, len(r.probes))
	for name, probe := range r.probes {
		probes[name] = probe
	}
	r.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	healthy := true
	checks := make(map[string]Status, len(probes))
	for name, probe := range probes {
		start := time.Now()
		err := probe(ctx)
		status := Status{
			Healthy: err == nil,
			Latency: time.Since(start).String(),
		}
		if err != nil {
			status.Error = err.Error()
			healthy = false
		}
		checks[name] = status
	}
	return checks, healthy
}

// Healthz handles GET /healthz. It never consults probes.
func (r *Registry) Healthz(w http.ResponseWriter, _ *http.Request) {
	resp := LivenessResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if r.build.Version != "" {
		build := r.build
		resp.Build = &build
	}
	r.writeJSON(w, http.StatusOK, resp)
}

// Readyz handles GET /readyz.
func (r *Registry) Readyz(w http.ResponseWriter, req *http.Request) {
	checks, healthy := r.Evaluate(req.Context())
	resp := ReadinessResponse{
		Status:    "ready",
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if !healthy {
		resp.Status = "not_ready"
		status = http.StatusServiceUnavailable
		r.logger.Warn("readiness check failed", zap.Any("checks", checks))
	}
	r.writeJSON(w, status, resp)
}

func (r *Registry) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.logger.Error("failed to encode health response", zap.Error(err))
	}
}

// ClockProbe fails when clock reports the zero time.
func ClockProbe(clock greeting.Clock) Probe {
	return func(context.Context) error {
		if clock.Now().IsZero() {
			return errors.New("clock returned zero time")
		}
		return nil
	}
}
