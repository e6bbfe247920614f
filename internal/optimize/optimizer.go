// Package optimize orders and schedules route candidates in process. It answers the
// same contract as the remote itinerary builder and is used when no backend is
// configured.
package optimize

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/route"
)

const (
	// DefaultSpeedKmh is the assumed average travel speed.
	DefaultSpeedKmh  = 30.0
	minTravelMinutes = 3
	clockLayout      = "15:04"
	improvementEps   = 1e-9
)

// Config holds configuration for the local optimizer.
type Config struct {
	// SpeedKmh is the travel speed used for ETAs (default: 30).
	SpeedKmh float64

	// Logger for optimizer runs.
	Logger zerolog.Logger
}

// Optimizer implements route.Optimizer with nearest-neighbour construction followed
// by 2-opt improvement. The start point is fixed and is not itself a stop.
type Optimizer struct {
	speedKmh float64
	logger   zerolog.Logger
}

// New creates a local optimizer.
func New(cfg Config) *Optimizer {
	speed := cfg.SpeedKmh
	if speed <= 0 {
		speed = DefaultSpeedKmh
	}
	return &Optimizer{speedKmh: speed, logger: cfg.Logger}
}

// BuildItinerary orders at most req.MaxStops candidates and schedules them from
// req.StartTime, adding travel time then dwell time for each stop.
func (o *Optimizer) BuildItinerary(ctx context.Context, req route.Request) (*route.Response, error) {
	clock, err := time.Parse(clockLayout, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start time %q: %w", req.StartTime, err)
	}

	candidates := req.Candidates
	if req.MaxStops >= 0 && req.MaxStops < len(candidates) {
		candidates = candidates[:req.MaxStops]
	}

	start := point{lat: req.StartLat, lng: req.StartLng}
	points := make([]point, len(candidates))
	for i, c := range candidates {
		points[i] = point{lat: c.Lat, lng: c.Lng}
	}

	order := twoOpt(ctx, nearestNeighbour(start, points), points, start)

	dwell := time.Duration(req.DwellMinutes) * time.Minute
	stops := make([]route.Stop, 0, len(order))
	prev := start
	for _, idx := range order {
		c := candidates[idx]
		eta := travelMinutes(haversineKm(prev, points[idx]), o.speedKmh)

		clock = clock.Add(time.Duration(eta) * time.Minute)
		plannedStart := clock.Format(clockLayout)
		clock = clock.Add(dwell)

		stops = append(stops, route.Stop{
			ID:             c.ID,
			Name:           c.Name,
			Lat:            c.Lat,
			Lng:            c.Lng,
			ETAFromPrevMin: eta,
			PlannedStart:   plannedStart,
			PlannedEnd:     clock.Format(clockLayout),
		})
		prev = points[idx]
	}

	o.logger.Debug().
		Int("candidate_count", len(req.Candidates)).
		Int("stop_count", len(stops)).
		Msg("local route built")

	return &route.Response{Stops: stops}, nil
}

// nearestNeighbour visits the closest unvisited point each step. Ties go to the
// lower index.
func nearestNeighbour(start point, points []point) []int {
	visited := make([]bool, len(points))
	order := make([]int, 0, len(points))
	curr := start

	for len(order) < len(points) {
		best := -1
		bestDist := 0.0
		for i, p := range points {
			if visited[i] {
				continue
			}
			d := haversineKm(curr, p)
			if best == -1 || d < bestDist {
				best, bestDist = i, d
			}
		}
		visited[best] = true
		order = append(order, best)
		curr = points[best]
	}
	return order
}

// twoOpt reverses segments while that shortens the open path from start. It restarts
// after each improvement and stops early if ctx is done.
func twoOpt(ctx context.Context, order []int, points []point, start point) []int {
	best := append([]int(nil), order...)
	bestDist := pathLength(best, points, start)

	for improved := true; improved; {
		improved = false
		if ctx.Err() != nil {
			return best
		}
	search:
		for i := 0; i < len(best)-1; i++ {
			for k := i + 1; k < len(best); k++ {
				candidate := reversed(best, i, k)
				if d := pathLength(candidate, points, start); d+improvementEps < bestDist {
					best, bestDist = candidate, d
					improved = true
					break search
				}
			}
		}
	}
	return best
}

func pathLength(order []int, points []point, start point) float64 {
	total := 0.0
	curr := start
	for _, idx := range order {
		total += haversineKm(curr, points[idx])
		curr = points[idx]
	}
	return total
}

// reversed returns a copy of order with order[i..k] reversed.
func reversed(order []int, i, k int) []int {
	out := append([]int(nil), order...)
	for l, r := i, k; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}
