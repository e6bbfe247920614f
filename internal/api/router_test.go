package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadtravel/nomad/internal/api"
	"github.com/nomadtravel/nomad/internal/api/models"
	"github.com/nomadtravel/nomad/internal/assistant"
	"github.com/nomadtravel/nomad/internal/itinerary"
	"github.com/nomadtravel/nomad/internal/optimize"
	"github.com/nomadtravel/nomad/internal/places"
	"github.com/nomadtravel/nomad/internal/planner"
	"github.com/nomadtravel/nomad/internal/provider/resilience"
	"github.com/nomadtravel/nomad/internal/session"
)

func f64(v float64) *float64 { return &v }

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) SearchText(_ context.Context, _ string) ([]places.Candidate, error) {
	return []places.Candidate{
		{ID: "griffith", Name: "Griffith Observatory", Lat: f64(34.1184), Lng: f64(-118.3004)},
		{ID: "getty", Name: "Getty Center", Lat: f64(34.0780), Lng: f64(-118.4741)},
		{ID: "pier", Name: "Santa Monica Pier", Lat: f64(34.0100), Lng: f64(-118.4962)},
	}, nil
}

func (stubProvider) PlaceDetails(_ context.Context, placeID string) (*places.Details, error) {
	return &places.Details{Candidate: places.Candidate{ID: placeID, Name: "Getty Center"}}, nil
}

type stubChatter struct{}

func (stubChatter) Chat(_ context.Context, _ []assistant.Message, _ map[string]any) (string, error) {
	return "Start early to beat the traffic.", nil
}

type stubSummarizer struct{}

func (stubSummarizer) SummarizeReviews(_ context.Context, _ string, _ []assistant.ReviewInput) (*assistant.ReviewSummary, error) {
	return &assistant.ReviewSummary{}, nil
}

type testServer struct {
	handler  http.Handler
	verifier *session.Verifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	verifier, err := session.NewVerifier(session.VerifierConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.nomad.travel",
		Audience:   "nomad-api",
	})
	require.NoError(t, err)

	service := places.NewService(places.ServiceConfig{Provider: stubProvider{}, Logger: zerolog.Nop()})
	workspaces := planner.NewRegistry(planner.Config{
		Places:    service,
		Insights:  assistant.NewInsights(stubSummarizer{}, zerolog.Nop()),
		Chatter:   stubChatter{},
		Optimizer: optimize.New(optimize.Config{Logger: zerolog.Nop()}),
		Logger:    zerolog.Nop(),
	})
	t.Cleanup(workspaces.Close)

	router := api.NewRouter(api.RouterConfig{
		Version:    "test",
		BuildTime:  "now",
		Logger:     zerolog.Nop(),
		Verifier:   verifier,
		Trips:      itinerary.NewTrips(itinerary.TripsConfig{Logger: zerolog.Nop()}),
		Workspaces: workspaces,
		Providers:  resilience.NewRegistry(),
	})
	return &testServer{handler: router, verifier: verifier}
}

func (s *testServer) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, _, err := s.verifier.Issue(userID, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthCheck(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/ops/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var health models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/ops/ready", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SystemStatusRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/ops/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v1/ops/status", "usr_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.NotNil(t, status.Workspace)
	assert.Equal(t, "idle", status.Workspace.Chat)
}

func TestRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/itinerary"},
		{http.MethodPost, "/v1/itinerary/days/sat-321/activities"},
		{http.MethodPut, "/v1/itinerary/days/sat-321/order"},
		{http.MethodPost, "/v1/places:search"},
		{http.MethodGet, "/v1/places/getty"},
		{http.MethodPost, "/v1/routes:optimize"},
		{http.MethodPost, "/v1/assistant/chat"},
		{http.MethodDelete, "/v1/session"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := srv.do(t, rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_ReorderSaturday(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/v1/itinerary/days/sat-321/order", "usr_1",
		models.ReorderRequest{IDs: []string{"2", "1", "3", "4"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v1/itinerary", "usr_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var trip models.Itinerary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trip))
	require.Len(t, trip.Days, 4)

	sat := trip.Days[0]
	require.Equal(t, "sat-321", sat.ID)
	require.Len(t, sat.Activities, 4)
	assert.Equal(t, "McWay Falls", sat.Activities[0].Title)
	assert.Equal(t, "Big Sur", sat.Activities[1].Title)
	assert.Equal(t, "Get photo of bridge!", sat.Activities[1].Description, "reorder never edits activity fields")

	sun := trip.Days[1]
	require.Len(t, sun.Activities, 2)
	assert.Equal(t, "Point Lobos", sun.Activities[0].Title, "other days are untouched")
}

func TestRouter_ReorderRejectsForeignID(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/v1/itinerary/days/sat-321/order", "usr_1",
		models.ReorderRequest{IDs: []string{"1", "2", "3", "5"}})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRouter_AddActivityThenReorder(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/itinerary/days/mon-323/activities", "usr_1",
		models.CreateActivityRequest{Title: "Monterey Bay Aquarium", Time: "1:00 PM"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var added models.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))

	rec = srv.do(t, http.MethodPut, "/v1/itinerary/days/mon-323/order", "usr_1",
		models.ReorderRequest{IDs: []string{added.ID, "7"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var day models.ItineraryDay
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
	require.Len(t, day.Activities, 2)
	assert.Equal(t, "Monterey Bay Aquarium", day.Activities[0].Title)
	assert.Equal(t, "17-Mile Drive", day.Activities[1].Title)
}

func TestRouter_SearchThenOptimize(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/places:search", "usr_1", models.SearchPlacesRequest{Query: "los angeles"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v1/routes:optimize", "usr_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var route models.OptimizeRouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &route))
	require.Len(t, route.Stops, 3)
	assert.Equal(t, "griffith", route.Stops[0].ID)
	assert.NotEmpty(t, route.URL)

	// Another user has no search results to optimize.
	rec = srv.do(t, http.MethodPost, "/v1/routes:optimize", "usr_2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_EndSessionResetsPlanningState(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/v1/itinerary/days/sat-321/order", "usr_1",
		models.ReorderRequest{IDs: []string{"2", "1", "3", "4"}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodPost, "/v1/places:search", "usr_1", models.SearchPlacesRequest{Query: "los angeles"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/v1/session", "usr_1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v1/routes:optimize", "usr_1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "search results go with the session")

	rec = srv.do(t, http.MethodGet, "/v1/itinerary", "usr_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var trip models.Itinerary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trip))
	assert.Equal(t, "Big Sur", trip.Days[0].Activities[0].Title, "the trip is reseeded")
}

func TestRouter_Chat(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/assistant/chat", "usr_1", models.ChatRequest{
		Messages: []models.ChatMessage{{Role: "user", Content: "Any tips?"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var reply models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "Start early to beat the traffic.", reply.Reply)
}

func TestRouter_RejectsNonJSONBody(t *testing.T) {
	srv := newTestServer(t)

	token, _, err := srv.verifier.Issue("usr_1", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/places:search", bytes.NewBufferString("query=la"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/nonexistent", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
