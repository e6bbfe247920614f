// Package planner holds the per-user planning state: the search, detail and chat
// gateways, the route orchestrator, and the last search results.
package planner

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/assistant"
	"github.com/nomadtravel/nomad/internal/gateway"
	"github.com/nomadtravel/nomad/internal/places"
	"github.com/nomadtravel/nomad/internal/route"
)

// PlaceLookup finds places and their details.
type PlaceLookup interface {
	Search(ctx context.Context, query string) ([]places.Candidate, error)
	Details(ctx context.Context, placeID string) (*places.Details, error)
}

// InsightBuilder turns place details into a PlaceInsight.
type InsightBuilder interface {
	Build(ctx context.Context, details *places.Details) (*assistant.PlaceInsight, error)
}

// Config holds the collaborators shared by every workspace.
type Config struct {
	// Places serves search and detail lookups (required).
	Places PlaceLookup

	// Insights summarizes place reviews (required).
	Insights InsightBuilder

	// Chatter answers the travel chat (required).
	Chatter assistant.Chatter

	// Optimizer orders route stops (required).
	Optimizer route.Optimizer

	// Opener receives route deep links (optional).
	Opener route.URLOpener

	// MaxCandidates, DwellMinutes and StartTime tune route requests (optional).
	MaxCandidates int
	DwellMinutes  int
	StartTime     string

	// Provider names for metrics.
	PlacesProvider    string
	AssistantProvider string
	OptimizerProvider string

	// Recorder for call metrics (optional).
	Recorder gateway.Recorder

	// Logger for workspace events.
	Logger zerolog.Logger
}

// Workspace is one user's planning screen state. Each kind of call has its own
// gateway, so a search in flight does not block a chat reply.
type Workspace struct {
	places   PlaceLookup
	insights InsightBuilder
	chatter  assistant.Chatter
	logger   zerolog.Logger

	search *gateway.Call[[]places.Candidate]
	detail *gateway.Call[*assistant.PlaceInsight]
	chat   *gateway.Call[string]
	route  *route.Orchestrator

	mu      sync.RWMutex
	results []places.Candidate
	closed  bool
}

// NewWorkspace creates an idle workspace.
func NewWorkspace(cfg Config) *Workspace {
	return &Workspace{
		places:   cfg.Places,
		insights: cfg.Insights,
		chatter:  cfg.Chatter,
		logger:   cfg.Logger,
		search: gateway.New[[]places.Candidate](gateway.Config{
			Kind:     "search",
			Provider: cfg.PlacesProvider,
			Logger:   cfg.Logger,
			Recorder: cfg.Recorder,
		}),
		detail: gateway.New[*assistant.PlaceInsight](gateway.Config{
			Kind:     "detail",
			Provider: cfg.PlacesProvider,
			Logger:   cfg.Logger,
			Recorder: cfg.Recorder,
		}),
		chat: gateway.New[string](gateway.Config{
			Kind:     "chat",
			Provider: cfg.AssistantProvider,
			Logger:   cfg.Logger,
			Recorder: cfg.Recorder,
		}),
		route: route.NewOrchestrator(route.OrchestratorConfig{
			Optimizer:     cfg.Optimizer,
			Opener:        cfg.Opener,
			MaxCandidates: cfg.MaxCandidates,
			DwellMinutes:  cfg.DwellMinutes,
			StartTime:     cfg.StartTime,
			Provider:      cfg.OptimizerProvider,
			Recorder:      cfg.Recorder,
			Logger:        cfg.Logger,
		}),
	}
}

// Search runs a place search and remembers the results for OptimizeRoute. The
// results are stored while the call still holds the gateway, so a later search
// cannot be overwritten by an earlier one. A failed search clears them; a
// suppressed one leaves them alone.
func (w *Workspace) Search(ctx context.Context, query string) ([]places.Candidate, error) {
	return w.search.Invoke(ctx, func(ctx context.Context) ([]places.Candidate, error) {
		results, err := w.places.Search(ctx, query)
		w.setResults(results, err)
		return results, err
	})
}

func (w *Workspace) setResults(results []places.Candidate, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if err != nil {
		w.results = nil
		return
	}
	w.results = append([]places.Candidate(nil), results...)
}

// Results returns a copy of the last search results. It is empty after a failed search.
func (w *Workspace) Results() []places.Candidate {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]places.Candidate{}, w.results...)
}

// Detail fetches a place and summarizes its reviews.
func (w *Workspace) Detail(ctx context.Context, placeID string) (*assistant.PlaceInsight, error) {
	return w.detail.Invoke(ctx, func(ctx context.Context) (*assistant.PlaceInsight, error) {
		details, err := w.places.Details(ctx, placeID)
		if err != nil {
			return nil, err
		}
		return w.insights.Build(ctx, details)
	})
}

// Chat sends the history to the assistant. An invalid history is rejected before
// the gateway is touched.
func (w *Workspace) Chat(ctx context.Context, messages []assistant.Message, chatContext map[string]any) (string, error) {
	if err := assistant.ValidateMessages(messages); err != nil {
		return "", err
	}
	return w.chat.Invoke(ctx, func(ctx context.Context) (string, error) {
		return w.chatter.Chat(ctx, messages, chatContext)
	})
}

// OptimizeRoute selects the routable candidates and optimizes them. A nil
// candidate list means the last search results.
func (w *Workspace) OptimizeRoute(ctx context.Context, candidates []places.Candidate) (*route.Result, error) {
	if candidates == nil {
		candidates = w.Results()
	}
	return w.route.OptimizeResults(ctx, candidates)
}

// Status reports the state of each gateway.
func (w *Workspace) Status() Status {
	routeState := gateway.StateIdle
	if w.route.Busy() {
		routeState = gateway.StateBusy
	} else if _, ok := w.route.Last(); ok {
		routeState = gateway.StateSettled
	}
	return Status{
		Search: w.search.State(),
		Detail: w.detail.State(),
		Chat:   w.chat.State(),
		Route:  routeState,
	}
}

// Close tears the workspace down. Results still in flight are discarded.
func (w *Workspace) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.search.Close()
	w.detail.Close()
	w.chat.Close()
	w.route.Close()
}

// Status is a snapshot of a workspace's gateway states.
type Status struct {
	Search gateway.State
	Detail gateway.State
	Chat   gateway.State
	Route  gateway.State
}
