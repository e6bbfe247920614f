package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadtravel/nomad/internal/api/handler"
	"github.com/nomadtravel/nomad/internal/api/models"
	"github.com/nomadtravel/nomad/internal/places"
)

func TestRouteHandler_OptimizeExplicitCandidates(t *testing.T) {
	h := handler.NewRouteHandler(newWorkspaces(&fakeLookup{}, nil), zerolog.Nop())

	body := `{"candidates":[
		{"id":"a","name":"Santa Monica Pier","lat":34.0100,"lng":-118.4962},
		{"id":"b","name":"Venice Beach","lat":33.9850,"lng":-118.4695},
		{"id":"c","name":"Getty Center","lat":34.0780,"lng":-118.4741}
	]}`
	rec := httptest.NewRecorder()
	h.Optimize(rec, newRequest(http.MethodPost, "/v1/routes:optimize", body, nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.OptimizeRouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Stops, 3)
	assert.Equal(t, "a", got.Stops[0].ID, "the first candidate is the origin")
	assert.True(t, strings.HasPrefix(got.URL, "https://www.google.com/maps/dir/"), got.URL)
}

func TestRouteHandler_OptimizeLastSearchResults(t *testing.T) {
	lookup := &fakeLookup{results: []places.Candidate{
		{ID: "a", Name: "A", Lat: f64(34.0522), Lng: f64(-118.2437)},
		{ID: "x", Name: "No coordinates"},
		{ID: "b", Name: "B", Lat: f64(34.1016), Lng: f64(-118.3267)},
	}}
	workspaces := newWorkspaces(lookup, nil)

	search := handler.NewPlacesHandler(workspaces, zerolog.Nop())
	rec := httptest.NewRecorder()
	search.Search(rec, newRequest(http.MethodPost, "/v1/places:search", `{"query":"la"}`, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	h := handler.NewRouteHandler(workspaces, zerolog.Nop())
	rec = httptest.NewRecorder()
	h.Optimize(rec, newRequest(http.MethodPost, "/v1/routes:optimize", "", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.OptimizeRouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Stops, 2)
	for _, s := range got.Stops {
		assert.NotEqual(t, "x", s.ID)
	}
}

func TestRouteHandler_OptimizeNeedsTwoStops(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no search results", ""},
		{"one routable candidate", `{"candidates":[{"id":"a","name":"A","lat":1,"lng":2},{"id":"b","name":"B"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewRouteHandler(newWorkspaces(&fakeLookup{}, nil), zerolog.Nop())

			rec := httptest.NewRecorder()
			h.Optimize(rec, newRequest(http.MethodPost, "/v1/routes:optimize", tt.body, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeProblem(t, rec).Detail, "need at least 2 places")
		})
	}
}
