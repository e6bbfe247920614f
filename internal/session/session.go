// Package session carries the authenticated traveller through a request.
//
// Sign-in is handled by the identity provider in front of the API. The API only
// verifies bearer tokens and derives a Session from them, which is passed
// explicitly to everything that needs the caller's identity.
package session

import (
	"context"
	"time"
)

// Session is the authenticated caller.
type Session struct {
	// UserID identifies the traveller. Each user owns one trip workspace.
	UserID string

	// TokenID is the token's jti claim, used in logs.
	TokenID string

	// ExpiresAt is when the bearer token stops being accepted.
	ExpiresAt time.Time
}

type sessionKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
