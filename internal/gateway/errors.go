package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// GenericFailureMessage is shown when a failure carries no usable message.
const GenericFailureMessage = "Something went wrong. Please try again."

// StatusCoder is implemented by provider errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// RemoteCallError is the settled error of a Call.
type RemoteCallError struct {
	// Kind is the call that failed.
	Kind string
	// Status is the remote HTTP status, or zero for network and local failures.
	Status int
	// Message is suitable for inline display.
	Message string
	// Err is the underlying failure.
	Err error
}

func (e *RemoteCallError) Error() string {
	return e.Message
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// toRemoteCallError derives the display message from the failure:
// its own message, then the status text, then the fallback.
func toRemoteCallError(kind, fallback string, err error) *RemoteCallError {
	var rce *RemoteCallError
	if errors.As(err, &rce) {
		return rce
	}

	status := 0
	var sc StatusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	var msg string
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
	case errors.Is(err, context.Canceled):
		msg = "request canceled"
	default:
		msg = strings.TrimSpace(err.Error())
	}
	if msg == "" && status > 0 {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fallback
	}

	return &RemoteCallError{
		Kind:    kind,
		Status:  status,
		Message: msg,
		Err:     err,
	}
}
