package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/api/response"
	"github.com/nomadtravel/nomad/internal/itinerary"
	"github.com/nomadtravel/nomad/internal/planner"
)

// SessionHandler handles the end of a planning session.
type SessionHandler struct {
	trips      *itinerary.Trips
	workspaces *planner.Registry
	logger     zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(trips *itinerary.Trips, workspaces *planner.Registry, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{trips: trips, workspaces: workspaces, logger: logger}
}

// EndSession handles DELETE /v1/session - tear down the caller's workspace and trip.
// Calls still in flight finish but their results are discarded.
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	h.workspaces.Release(s.UserID)
	h.trips.Release(s.UserID)

	h.logger.Info().Str("user_id", s.UserID).Msg("session ended")
	response.NoContent(w, r)
}
