// Package handler provides HTTP handlers for the Nomad API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/api/models"
	"github.com/nomadtravel/nomad/internal/api/response"
	"github.com/nomadtravel/nomad/internal/itinerary"
)

// ItineraryHandler handles itinerary endpoints.
type ItineraryHandler struct {
	trips  *itinerary.Trips
	logger zerolog.Logger
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(trips *itinerary.Trips, logger zerolog.Logger) *ItineraryHandler {
	return &ItineraryHandler{trips: trips, logger: logger}
}

// GetItinerary handles GET /v1/itinerary - the caller's trip with every day.
func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.trip(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, toItinerary(trip))
}

// CreateActivity handles POST /v1/itinerary/days/{dayId}/activities - append an activity.
func (h *ItineraryHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.trip(w, r)
	if !ok {
		return
	}

	var input models.CreateActivityRequest
	if err := response.DecodeJSON(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	dayID := chi.URLParam(r, "dayId")
	activity, err := trip.Store.AddActivity(dayID, toDraft(input))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	location := "/v1/itinerary/days/" + dayID + "/activities/" + activity.ID
	response.Created(w, r, location, toActivity(activity))
}

// ReorderDay handles PUT /v1/itinerary/days/{dayId}/order - apply a drag-and-drop result.
// The body must list every activity of the day exactly once.
func (h *ItineraryHandler) ReorderDay(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.trip(w, r)
	if !ok {
		return
	}

	var input models.ReorderRequest
	if err := response.DecodeJSON(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	if input.IDs == nil {
		response.BadRequest(w, r, "ids is required", []models.FieldError{
			{Field: "ids", Message: "must list every activity of the day", Code: "REQUIRED"},
		})
		return
	}

	dayID := chi.URLParam(r, "dayId")
	if err := trip.Reorder.OnReorderComplete(dayID, input.IDs); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	for _, day := range trip.Store.Snapshot() {
		if day.Day.ID == dayID {
			response.JSON(w, r, http.StatusOK, toDay(day))
			return
		}
	}
	writeError(w, r, h.logger, &itinerary.NotFoundError{DayID: dayID})
}

func (h *ItineraryHandler) trip(w http.ResponseWriter, r *http.Request) (*itinerary.Trip, bool) {
	s, ok := requireSession(w, r)
	if !ok {
		return nil, false
	}
	trip, err := h.trips.For(s.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return nil, false
	}
	return trip, true
}
