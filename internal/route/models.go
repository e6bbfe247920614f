// Package route turns selected place candidates into an optimized, scheduled stop
// sequence and a multi-waypoint navigation link.
package route

import (
	"context"
	"errors"
)

// Policy defaults for optimization requests.
const (
	DefaultDwellMinutes = 60
	DefaultStartTime    = "09:00"
)

// Errors returned by the orchestrator.
var (
	// ErrNeedTwoStops is returned without contacting the optimizer when fewer than
	// two candidates are supplied.
	ErrNeedTwoStops = errors.New("need at least 2 places with lat/lng to optimize")
	// ErrEmptyRoute is returned when the optimizer answers with no stops.
	ErrEmptyRoute = errors.New("optimizer returned no stops")
	// ErrCandidateNotRoutable is returned when a candidate lacks coordinates.
	ErrCandidateNotRoutable = errors.New("candidate has no coordinates")
)

// Candidate is a routable place sent to the optimizer.
type Candidate struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	Rating          *float64 `json:"rating,omitempty"`
	UserRatingCount *int     `json:"userRatingCount,omitempty"`
}

// Request asks the optimizer to order and schedule the candidates.
type Request struct {
	StartLat     float64
	StartLng     float64
	Candidates   []Candidate
	MaxStops     int
	DwellMinutes int
	// StartTime is the HH:MM departure time.
	StartTime string
}

// Stop is one scheduled visit. Planned times are HH:MM.
type Stop struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	ETAFromPrevMin int     `json:"etaFromPrevMin"`
	PlannedStart   string  `json:"plannedStart"`
	PlannedEnd     string  `json:"plannedEnd"`
}

// Response is the optimizer's answer. Stop order is authoritative and the last
// stop is the final destination.
type Response struct {
	Stops []Stop
}

// Optimizer orders and schedules candidates.
type Optimizer interface {
	BuildItinerary(ctx context.Context, req Request) (*Response, error)
}

// URLOpener hands a navigation link to whatever displays it.
type URLOpener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to URLOpener.
type OpenerFunc func(ctx context.Context, url string) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}

// Result is a completed optimization.
type Result struct {
	URL   string `json:"url"`
	Stops []Stop `json:"stops"`
}
