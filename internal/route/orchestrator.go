package route

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/gateway"
	"github.com/nomadtravel/nomad/internal/places"
)

// OrchestratorConfig holds configuration for the route orchestrator.
type OrchestratorConfig struct {
	// Optimizer orders the stops (required).
	Optimizer Optimizer

	// Opener receives the deep link (optional).
	Opener URLOpener

	// MaxCandidates caps the selection from search results (default: places.DefaultRouteCap).
	MaxCandidates int

	// DwellMinutes is the time spent at each stop (default: 60).
	DwellMinutes int

	// StartTime is the HH:MM departure time (default: "09:00").
	StartTime string

	// Provider names the optimizer for metrics.
	Provider string

	// Recorder for call metrics (optional).
	Recorder gateway.Recorder

	// Logger for orchestration events.
	Logger zerolog.Logger
}

// Orchestrator runs route optimizations for one session. At most one optimization
// is in flight at a time.
type Orchestrator struct {
	optimizer     Optimizer
	opener        URLOpener
	maxCandidates int
	dwellMinutes  int
	startTime     string
	logger        zerolog.Logger
	call          *gateway.Call[*Result]
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = places.DefaultRouteCap
	}
	dwell := cfg.DwellMinutes
	if dwell <= 0 {
		dwell = DefaultDwellMinutes
	}
	start := cfg.StartTime
	if start == "" {
		start = DefaultStartTime
	}

	return &Orchestrator{
		optimizer:     cfg.Optimizer,
		opener:        cfg.Opener,
		maxCandidates: maxCandidates,
		dwellMinutes:  dwell,
		startTime:     start,
		logger:        cfg.Logger,
		call: gateway.New[*Result](gateway.Config{
			Kind:     "route",
			Provider: cfg.Provider,
			Logger:   cfg.Logger,
			Recorder: cfg.Recorder,
		}),
	}
}

// OptimizeResults selects the routable search results and optimizes them.
func (o *Orchestrator) OptimizeResults(ctx context.Context, results []places.Candidate) (*Result, error) {
	selected, err := places.SelectRoutable(results, o.maxCandidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNeedTwoStops, err)
	}
	return o.OptimizeRoute(ctx, selected)
}

// OptimizeRoute sends the candidates to the optimizer. The first candidate is the
// origin and is also part of the candidate set. With fewer than two candidates no
// request is made. On success the deep link is built and handed to the opener.
// Returns gateway.ErrBusy while another optimization is in flight.
func (o *Orchestrator) OptimizeRoute(ctx context.Context, candidates []places.Candidate) (*Result, error) {
	if len(candidates) < 2 {
		return nil, ErrNeedTwoStops
	}

	req, err := o.buildRequest(candidates)
	if err != nil {
		return nil, err
	}

	return o.call.Invoke(ctx, func(ctx context.Context) (*Result, error) {
		resp, err := o.optimizer.BuildItinerary(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp == nil || len(resp.Stops) == 0 {
			return nil, ErrEmptyRoute
		}

		link, err := BuildDeepLink(resp.Stops)
		if err != nil {
			return nil, err
		}

		o.logger.Info().
			Int("candidate_count", len(req.Candidates)).
			Int("stop_count", len(resp.Stops)).
			Msg("route optimized")

		if o.opener != nil {
			if err := o.opener.Open(ctx, link); err != nil {
				return nil, fmt.Errorf("opening route link: %w", err)
			}
		}

		return &Result{URL: link, Stops: resp.Stops}, nil
	})
}

// Busy reports whether an optimization is in flight.
func (o *Orchestrator) Busy() bool {
	return o.call.Busy()
}

// Last returns the last settled optimization.
func (o *Orchestrator) Last() (gateway.Outcome[*Result], bool) {
	return o.call.Settled()
}

// Close discards any optimization still in flight and rejects new ones.
func (o *Orchestrator) Close() {
	o.call.Close()
}

func (o *Orchestrator) buildRequest(candidates []places.Candidate) (Request, error) {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		coord, ok := c.Coordinate()
		if !ok {
			return Request{}, fmt.Errorf("%w: %s", ErrCandidateNotRoutable, c.ID)
		}
		out = append(out, Candidate{
			ID:              c.ID,
			Name:            c.Name,
			Lat:             coord.Lat,
			Lng:             coord.Lng,
			Rating:          c.Rating,
			UserRatingCount: c.UserRatingCount,
		})
	}

	return Request{
		StartLat:     out[0].Lat,
		StartLng:     out[0].Lng,
		Candidates:   out,
		MaxStops:     len(out),
		DwellMinutes: o.dwellMinutes,
		StartTime:    o.startTime,
	}, nil
}
