package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/api/models"
	"github.com/nomadtravel/nomad/internal/api/response"
	"github.com/nomadtravel/nomad/internal/places"
	"github.com/nomadtravel/nomad/internal/planner"
)

// RouteHandler handles route optimization.
type RouteHandler struct {
	workspaces *planner.Registry
	logger     zerolog.Logger
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(workspaces *planner.Registry, logger zerolog.Logger) *RouteHandler {
	return &RouteHandler{workspaces: workspaces, logger: logger}
}

// Optimize handles POST /v1/routes:optimize - order the candidates into a route.
// An empty body or no candidates uses the caller's last search results.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input models.OptimizeRouteRequest
	if err := response.DecodeJSON(w, r, &input); err != nil && !errors.Is(err, response.ErrEmptyBody) {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	var candidates []places.Candidate
	if len(input.Candidates) > 0 {
		candidates = fromPlaces(input.Candidates)
	}

	result, err := h.workspaces.For(s.UserID).OptimizeRoute(r.Context(), candidates)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toRoute(result))
}
