package nomadai

import "errors"

// Sentinel errors for backend calls.
var (
	// ErrBackendUnavailable indicates the backend is down or the circuit breaker is open.
	ErrBackendUnavailable = errors.New("nomad backend unavailable")
	// ErrInvalidRequest indicates the backend rejected the request body.
	ErrInvalidRequest = errors.New("invalid backend request")
	// ErrMalformedResponse indicates a 200 answer that could not be decoded.
	ErrMalformedResponse = errors.New("malformed backend response")
)

// Error provides detailed error information from the backend.
type Error struct {
	Endpoint string // Backend path, e.g. "/chat"
	Code     string // Error code, e.g. "HTTP_422"
	Status   int    // HTTP status, zero for transport failures
	Message  string // Human-readable error message
	Err      error  // Underlying sentinel
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the backend HTTP status.
func (e *Error) StatusCode() int {
	return e.Status
}

// IsRetryable returns true if the error is transient.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrBackendUnavailable)
}

type buildItineraryRequest struct {
	StartLat     float64          `json:"start_lat"`
	StartLng     float64          `json:"start_lng"`
	Candidates   []placeCandidate `json:"candidates"`
	MaxStops     int              `json:"max_stops"`
	DwellMinutes int              `json:"dwell_minutes"`
	StartTime    string           `json:"start_time"`
}

type placeCandidate struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	Rating          *float64 `json:"rating,omitempty"`
	UserRatingCount *int     `json:"userRatingCount,omitempty"`
}

type buildItineraryResponse struct {
	Ordered []itineraryStop `json:"ordered"`
}

type itineraryStop struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	ETAFromPrevMin int     `json:"eta_from_prev_min"`
	PlannedStart   string  `json:"planned_start"`
	PlannedEnd     string  `json:"planned_end"`
}

type summarizeRequest struct {
	PlaceName string   `json:"placeName"`
	Reviews   []review `json:"reviews"`
}

type review struct {
	Author *string  `json:"author,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
	Text   string   `json:"text"`
}

type summarizeResponse struct {
	WhatPeopleSay []string `json:"what_people_say"`
	Pros          []string `json:"pros"`
	Cons          []string `json:"cons"`
	BestFor       []string `json:"best_for"`
}

type chatRequest struct {
	Messages []chatMessage  `json:"messages"`
	Context  map[string]any `json:"context,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// errorResponse is the backend's error envelope. Detail is a string or a list of
// validation issues.
type errorResponse struct {
	Detail any `json:"detail"`
}
