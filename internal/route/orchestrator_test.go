package route_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadtravel/nomad/internal/gateway"
	"github.com/nomadtravel/nomad/internal/places"
	"github.com/nomadtravel/nomad/internal/route"
)

func f64(v float64) *float64 { return &v }

func candidate(id string, lat, lng float64) places.Candidate {
	return places.Candidate{ID: id, Name: "Place " + id, Lat: f64(lat), Lng: f64(lng)}
}

// reverseOptimizer returns the candidates in reverse order.
type reverseOptimizer struct {
	mu       sync.Mutex
	requests []route.Request
	err      error
	block    chan struct{}
}

func (o *reverseOptimizer) BuildItinerary(_ context.Context, req route.Request) (*route.Response, error) {
	o.mu.Lock()
	o.requests = append(o.requests, req)
	o.mu.Unlock()

	if o.block != nil {
		<-o.block
	}
	if o.err != nil {
		return nil, o.err
	}

	stops := make([]route.Stop, 0, len(req.Candidates))
	for i := len(req.Candidates) - 1; i >= 0; i-- {
		c := req.Candidates[i]
		stops = append(stops, route.Stop{ID: c.ID, Name: c.Name, Lat: c.Lat, Lng: c.Lng})
	}
	return &route.Response{Stops: stops}, nil
}

func (o *reverseOptimizer) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.requests)
}

type recordingOpener struct {
	urls []string
}

func (r *recordingOpener) Open(_ context.Context, u string) error {
	r.urls = append(r.urls, u)
	return nil
}

func newOrchestrator(opt route.Optimizer, opener route.URLOpener) *route.Orchestrator {
	return route.NewOrchestrator(route.OrchestratorConfig{
		Optimizer: opt,
		Opener:    opener,
		Logger:    zerolog.Nop(),
	})
}

func TestOrchestrator_FewerThanTwoSendsNothing(t *testing.T) {
	opt := &reverseOptimizer{}
	opener := &recordingOpener{}
	o := newOrchestrator(opt, opener)

	for _, cands := range [][]places.Candidate{nil, {candidate("a", 1, 1)}} {
		_, err := o.OptimizeRoute(context.Background(), cands)
		assert.ErrorIs(t, err, route.ErrNeedTwoStops)
	}

	assert.Zero(t, opt.count())
	assert.Empty(t, opener.urls)
}

func TestOrchestrator_BuildsRequestFromCandidates(t *testing.T) {
	opt := &reverseOptimizer{}
	o := newOrchestrator(opt, nil)

	cands := []places.Candidate{candidate("a", 0, 0), candidate("b", 1, 1), candidate("c", 2, 2)}
	cands[1].Rating = f64(4.5)

	_, err := o.OptimizeRoute(context.Background(), cands)
	require.NoError(t, err)
	require.Equal(t, 1, opt.count())

	req := opt.requests[0]
	assert.Equal(t, 0.0, req.StartLat)
	assert.Equal(t, 0.0, req.StartLng)
	require.Len(t, req.Candidates, 3)
	assert.Equal(t, "a", req.Candidates[0].ID, "origin stays in the candidate set")
	assert.Equal(t, 3, req.MaxStops)
	assert.Equal(t, route.DefaultDwellMinutes, req.DwellMinutes)
	assert.Equal(t, route.DefaultStartTime, req.StartTime)
	require.NotNil(t, req.Candidates[1].Rating)
	assert.InDelta(t, 4.5, *req.Candidates[1].Rating, 1e-9)
}

func TestOrchestrator_OpensDeepLinkInResponseOrder(t *testing.T) {
	opt := &reverseOptimizer{}
	opener := &recordingOpener{}
	o := newOrchestrator(opt, opener)

	result, err := o.OptimizeRoute(context.Background(), []places.Candidate{
		candidate("a", 0, 0), candidate("b", 1, 1), candidate("c", 2, 2),
	})
	require.NoError(t, err)

	require.Len(t, opener.urls, 1)
	assert.Equal(t, result.URL, opener.urls[0])

	u, err := url.Parse(result.URL)
	require.NoError(t, err)
	assert.Equal(t, "0,0", u.Query().Get("destination"))
	assert.Equal(t, "2,2|1,1|0,0", u.Query().Get("waypoints"))
	assert.Equal(t, "c", result.Stops[0].ID)
}

func TestOrchestrator_FailureOpensNothing(t *testing.T) {
	opt := &reverseOptimizer{err: errors.New("backend unreachable")}
	opener := &recordingOpener{}
	o := newOrchestrator(opt, opener)

	_, err := o.OptimizeRoute(context.Background(), []places.Candidate{candidate("a", 0, 0), candidate("b", 1, 1)})

	var rce *gateway.RemoteCallError
	require.ErrorAs(t, err, &rce)
	assert.Equal(t, "backend unreachable", rce.Message)
	assert.Empty(t, opener.urls)

	outcome, ok := o.Last()
	require.True(t, ok)
	assert.Error(t, outcome.Err)
	assert.False(t, o.Busy())
}

type emptyOptimizer struct{}

func (emptyOptimizer) BuildItinerary(context.Context, route.Request) (*route.Response, error) {
	return &route.Response{}, nil
}

func TestOrchestrator_EmptyResponse(t *testing.T) {
	opener := &recordingOpener{}
	o := newOrchestrator(emptyOptimizer{}, opener)

	_, err := o.OptimizeRoute(context.Background(), []places.Candidate{candidate("a", 0, 0), candidate("b", 1, 1)})
	assert.ErrorIs(t, err, route.ErrEmptyRoute)
	assert.Empty(t, opener.urls)
}

func TestOrchestrator_BusySuppressesSecondRequest(t *testing.T) {
	opt := &reverseOptimizer{block: make(chan struct{})}
	o := newOrchestrator(opt, nil)
	cands := []places.Candidate{candidate("a", 0, 0), candidate("b", 1, 1)}

	done := make(chan error, 1)
	go func() {
		_, err := o.OptimizeRoute(context.Background(), cands)
		done <- err
	}()

	require.Eventually(t, o.Busy, time.Second, time.Millisecond)

	_, err := o.OptimizeRoute(context.Background(), cands)
	assert.ErrorIs(t, err, gateway.ErrBusy)

	close(opt.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, opt.count())
}

func TestOrchestrator_OptimizeResultsSelectsRoutable(t *testing.T) {
	opt := &reverseOptimizer{}
	o := route.NewOrchestrator(route.OrchestratorConfig{
		Optimizer:     opt,
		MaxCandidates: 2,
		DwellMinutes:  45,
		StartTime:     "10:30",
		Logger:        zerolog.Nop(),
	})

	results := []places.Candidate{
		{ID: "no-coords"},
		candidate("a", 0, 0),
		candidate("b", 1, 1),
		candidate("c", 2, 2),
	}

	_, err := o.OptimizeResults(context.Background(), results)
	require.NoError(t, err)

	req := opt.requests[0]
	require.Len(t, req.Candidates, 2)
	assert.Equal(t, "a", req.Candidates[0].ID)
	assert.Equal(t, 45, req.DwellMinutes)
	assert.Equal(t, "10:30", req.StartTime)
}

func TestOrchestrator_OptimizeResultsTooFew(t *testing.T) {
	opt := &reverseOptimizer{}
	o := newOrchestrator(opt, nil)

	_, err := o.OptimizeResults(context.Background(), []places.Candidate{candidate("a", 0, 0), {ID: "x"}})
	assert.ErrorIs(t, err, route.ErrNeedTwoStops)
	assert.ErrorIs(t, err, places.ErrTooFewCandidates)
	assert.Zero(t, opt.count())
}

func TestOrchestrator_RejectsUnroutableCandidate(t *testing.T) {
	opt := &reverseOptimizer{}
	o := newOrchestrator(opt, nil)

	_, err := o.OptimizeRoute(context.Background(), []places.Candidate{candidate("a", 0, 0), {ID: "x"}})
	assert.ErrorIs(t, err, route.ErrCandidateNotRoutable)
	assert.Zero(t, opt.count())
}

func TestOrchestrator_CloseRejectsNewRequests(t *testing.T) {
	opt := &reverseOptimizer{}
	o := newOrchestrator(opt, nil)
	o.Close()

	_, err := o.OptimizeRoute(context.Background(), []places.Candidate{candidate("a", 0, 0), candidate("b", 1, 1)})
	assert.ErrorIs(t, err, gateway.ErrClosed)
	assert.Zero(t, opt.count())
}
