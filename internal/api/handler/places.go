package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/api/models"
	"github.com/nomadtravel/nomad/internal/api/response"
	"github.com/nomadtravel/nomad/internal/planner"
)

// PlacesHandler handles place search and detail endpoints.
type PlacesHandler struct {
	workspaces *planner.Registry
	logger     zerolog.Logger
}

// NewPlacesHandler creates a new PlacesHandler.
func NewPlacesHandler(workspaces *planner.Registry, logger zerolog.Logger) *PlacesHandler {
	return &PlacesHandler{workspaces: workspaces, logger: logger}
}

// Search handles POST /v1/places:search - free-text place search.
// The results become the candidates for the next route optimization.
func (h *PlacesHandler) Search(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input models.SearchPlacesRequest
	if err := response.DecodeJSON(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	results, err := h.workspaces.For(s.UserID).Search(r.Context(), input.Query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.SearchPlacesResponse{Results: toPlaces(results)})
}

// GetPlace handles GET /v1/places/{placeId} - details with a review summary.
func (h *PlacesHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	placeID := chi.URLParam(r, "placeId")
	if placeID == "" {
		response.BadRequest(w, r, "placeId is required", nil)
		return
	}

	insight, err := h.workspaces.For(s.UserID).Detail(r.Context(), placeID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toPlaceDetail(insight))
}
