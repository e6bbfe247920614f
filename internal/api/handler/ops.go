package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/api/models"
	"github.com/nomadtravel/nomad/internal/api/response"
	"github.com/nomadtravel/nomad/internal/planner"
	"github.com/nomadtravel/nomad/internal/provider/resilience"
	"github.com/nomadtravel/nomad/internal/session"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// OpsConfig holds configuration for the operational endpoints.
type OpsConfig struct {
	Version   string
	BuildTime string

	// Providers reports provider client health (optional).
	Providers *resilience.Registry

	// Workspaces reports the caller's in-flight calls (optional).
	Workspaces *planner.Registry

	// Checks gate readiness, keyed by dependency name (optional).
	Checks map[string]ReadinessCheck

	Logger zerolog.Logger
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	cfg OpsConfig
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{cfg: cfg}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.cfg.Version,
			"buildTime": h.cfg.BuildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	failed := map[string]any{}
	for name, check := range h.cfg.Checks {
		if err := check(ctx); err != nil {
			h.cfg.Logger.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		health.Status = models.HealthStatusFail
		health.Details = failed
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider health and the caller's workspace.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		Providers: []models.ProviderStatus{},
	}

	if h.cfg.Providers != nil {
		for _, p := range h.cfg.Providers.GetAllHealth() {
			ps := toProviderStatus(p)
			status.Providers = append(status.Providers, ps)
			status.Status = worst(status.Status, ps.Status)
		}
	}

	if s, ok := session.FromContext(r.Context()); ok && h.cfg.Workspaces != nil {
		ws := h.cfg.Workspaces.For(s.UserID).Status()
		status.Workspace = &models.WorkspaceStatus{
			Search: ws.Search.String(),
			Detail: ws.Detail.String(),
			Chat:   ws.Chat.String(),
			Route:  ws.Route.String(),
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func toProviderStatus(p *resilience.ProviderHealth) models.ProviderStatus {
	ps := models.ProviderStatus{
		Provider:      p.Name,
		CircuitState:  p.CircuitState.String(),
		LastSuccessAt: models.TimestampPtr(p.LastSuccessAt),
		LastFailureAt: models.TimestampPtr(p.LastFailureAt),
	}
	switch p.Status() {
	case resilience.StatusHealthy:
		ps.Status = models.HealthStatusOK
	case resilience.StatusDegraded:
		ps.Status = models.HealthStatusDegraded
	default:
		ps.Status = models.HealthStatusFail
	}
	if p.LastError != "" {
		msg := p.LastError
		ps.Message = &msg
	}
	return ps
}

// worst returns the more severe status. A failing provider only degrades the service.
func worst(current, provider models.HealthStatus) models.HealthStatus {
	if provider != models.HealthStatusOK && current == models.HealthStatusOK {
		return models.HealthStatusDegraded
	}
	return current
}
