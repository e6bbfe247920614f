// Package places provides place search and detail lookups and selects the places
// that can be sent to the route optimizer.
package places

import (
	"context"
	"errors"
)

// DefaultRouteCap is the maximum number of candidates sent for route optimization.
const DefaultRouteCap = 5

// UnnamedPlace is the display name used when the provider returns none.
const UnnamedPlace = "(no name)"

// Sentinel errors for place operations.
var (
	// ErrProviderUnavailable indicates the places provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("places provider unavailable")
	// ErrRateLimitExceeded indicates the API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrPlaceNotFound indicates the place ID is unknown to the provider.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrInvalidQuery indicates an empty or malformed search query or place ID.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrTooFewCandidates indicates fewer than two search results carry coordinates.
	ErrTooFewCandidates = errors.New("at least two places with coordinates are needed")
)

// Provider is a place search backend.
type Provider interface {
	// SearchText runs a free-text search.
	SearchText(ctx context.Context, query string) ([]Candidate, error)
	// PlaceDetails fetches one place including its reviews.
	PlaceDetails(ctx context.Context, placeID string) (*Details, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Candidate is one search result. Address, coordinates and rating data are optional.
type Candidate struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         *string  `json:"address,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	UserRatingCount *int     `json:"userRatingCount,omitempty"`
}

// Routable reports whether both coordinates are present.
func (c Candidate) Routable() bool {
	return c.Lat != nil && c.Lng != nil
}

// Coordinate returns the candidate's location. ok is false when it is not routable.
func (c Candidate) Coordinate() (coord Coordinate, ok bool) {
	if !c.Routable() {
		return Coordinate{}, false
	}
	return Coordinate{Lat: *c.Lat, Lng: *c.Lng}, true
}

// Review is a single user review of a place.
type Review struct {
	Author *string  `json:"author,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
	Text   string   `json:"text"`
}

// Details is a place with its reviews.
type Details struct {
	Candidate
	Reviews []Review `json:"reviews,omitempty"`
}

// Error provides detailed error information from the places provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code, e.g. "RATE_LIMIT"
	Status   int    // HTTP status from the provider, zero for transport failures
	Message  string // Human-readable error message
	Err      error  // Underlying sentinel
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the provider HTTP status.
func (e *Error) StatusCode() int {
	return e.Status
}

// IsRetryable returns true if the error is transient.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
