package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/api/middleware"
	"github.com/nomadtravel/nomad/internal/api/models"
	"github.com/nomadtravel/nomad/internal/api/response"
	"github.com/nomadtravel/nomad/internal/assistant"
	"github.com/nomadtravel/nomad/internal/gateway"
	"github.com/nomadtravel/nomad/internal/itinerary"
	"github.com/nomadtravel/nomad/internal/nomadai"
	"github.com/nomadtravel/nomad/internal/places"
	"github.com/nomadtravel/nomad/internal/provider/resilience"
	"github.com/nomadtravel/nomad/internal/route"
)

// writeError maps a domain error to a problem response.
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	var (
		validation *itinerary.ValidationError
		notFound   *itinerary.NotFoundError
		violation  *itinerary.InvariantViolation
		remote     *gateway.RemoteCallError
	)

	switch {
	case errors.As(err, &validation):
		response.BadRequest(w, r, validation.Error(), []models.FieldError{
			{Field: validation.Field, Message: validation.Message, Code: "REQUIRED"},
		})
	case errors.As(err, &notFound):
		response.NotFound(w, r, notFound.Error())
	case errors.As(err, &violation):
		response.OrderMismatch(w, r, violation.Error())
	case errors.Is(err, gateway.ErrBusy):
		response.RequestInProgress(w, r, "a request of this kind is already in progress")
	case errors.Is(err, gateway.ErrClosed):
		response.ServiceUnavailable(w, r, "session is shutting down")
	case errors.Is(err, route.ErrNeedTwoStops):
		response.BadRequest(w, r, route.ErrNeedTwoStops.Error(), nil)
	case errors.Is(err, assistant.ErrInvalidMessages),
		errors.Is(err, places.ErrInvalidQuery):
		detail := err.Error()
		if errors.As(err, &remote) {
			detail = remote.Message
		}
		response.BadRequest(w, r, detail, nil)
	case errors.As(err, &remote):
		writeRemoteError(w, r, log, remote)
	default:
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("unhandled error")
		response.InternalError(w, r, "an unexpected error occurred")
	}
}

// writeRemoteError maps a settled gateway failure. The detail is the message
// shown inline to the traveller.
func writeRemoteError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, rce *gateway.RemoteCallError) {
	log.Warn().
		Err(rce.Err).
		Str("call", rce.Kind).
		Int("remote_status", rce.Status).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Msg("remote call failed")

	switch {
	case errors.Is(rce, places.ErrPlaceNotFound):
		response.NotFound(w, r, rce.Message)
	case rce.Status == http.StatusTooManyRequests, errors.Is(rce, places.ErrRateLimitExceeded):
		response.TooManyRequests(w, r, rce.Message, 0)
	case rce.Status == 0 && (errors.Is(rce, resilience.ErrCircuitOpen) ||
		errors.Is(rce, nomadai.ErrBackendUnavailable) ||
		errors.Is(rce, places.ErrProviderUnavailable)):
		response.ServiceUnavailable(w, r, rce.Message)
	default:
		response.BadGateway(w, r, rce.Message)
	}
}
