package planner

import (
	"sync"
)

// Registry keeps one workspace per user.
type Registry struct {
	cfg Config

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewRegistry creates an empty registry whose workspaces share cfg.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:        cfg,
		workspaces: make(map[string]*Workspace),
	}
}

// For returns the user's workspace, creating it on first access.
func (r *Registry) For(userID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.workspaces[userID]; ok {
		return w
	}

	cfg := r.cfg
	cfg.Logger = r.cfg.Logger.With().Str("user_id", userID).Logger()
	w := NewWorkspace(cfg)
	r.workspaces[userID] = w
	return w
}

// Release closes and forgets the user's workspace.
func (r *Registry) Release(userID string) {
	r.mu.Lock()
	w, ok := r.workspaces[userID]
	delete(r.workspaces, userID)
	r.mu.Unlock()

	if ok {
		w.Close()
	}
}

// Close closes every workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.workspaces
	r.workspaces = make(map[string]*Workspace)
	r.mu.Unlock()

	for _, w := range all {
		w.Close()
	}
}

// Count returns the number of live workspaces.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
