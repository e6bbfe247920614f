package handler

import (
	"net/http"

	"github.com/nomadtravel/nomad/internal/api/response"
	"github.com/nomadtravel/nomad/internal/session"
)

// requireSession returns the caller's session or writes a 401. The auth
// middleware guarantees a session on authenticated routes, so a miss means the
// route was mounted without it.
func requireSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok || s.UserID == "" {
		response.Unauthorized(w, r, "authentication required")
		return session.Session{}, false
	}
	return s, true
}
