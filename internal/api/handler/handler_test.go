package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nomadtravel/nomad/internal/api/models"
	"github.com/nomadtravel/nomad/internal/assistant"
	"github.com/nomadtravel/nomad/internal/optimize"
	"github.com/nomadtravel/nomad/internal/places"
	"github.com/nomadtravel/nomad/internal/planner"
	"github.com/nomadtravel/nomad/internal/session"
)

const testUser = "usr_1"

func f64(v float64) *float64 { return &v }

type fakeLookup struct {
	results []places.Candidate
	details *places.Details
	err     error
	block   chan struct{}
	started chan struct{}
}

func (f *fakeLookup) Search(_ context.Context, _ string) ([]places.Candidate, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.results, f.err
}

func (f *fakeLookup) Details(_ context.Context, _ string) (*places.Details, error) {
	return f.details, f.err
}

type fakeSummarizer struct{}

func (fakeSummarizer) SummarizeReviews(_ context.Context, _ string, reviews []assistant.ReviewInput) (*assistant.ReviewSummary, error) {
	return &assistant.ReviewSummary{WhatPeopleSay: []string{reviews[0].Text}, Pros: []string{"views"}}, nil
}

type fakeChatter struct {
	reply string
	err   error
}

func (f *fakeChatter) Chat(_ context.Context, _ []assistant.Message, _ map[string]any) (string, error) {
	return f.reply, f.err
}

func newWorkspaces(lookup *fakeLookup, chatter *fakeChatter) *planner.Registry {
	if chatter == nil {
		chatter = &fakeChatter{reply: "hi"}
	}
	return planner.NewRegistry(planner.Config{
		Places:    lookup,
		Insights:  assistant.NewInsights(fakeSummarizer{}, zerolog.Nop()),
		Chatter:   chatter,
		Optimizer: optimize.New(optimize.Config{Logger: zerolog.Nop()}),
		Logger:    zerolog.Nop(),
	})
}

// newRequest builds an authenticated request with optional chi URL params.
func newRequest(method, target, body string, params map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	ctx := session.NewContext(req.Context(), session.Session{UserID: testUser})
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	var p models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}
