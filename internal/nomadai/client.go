// Package nomadai is the client for the Nomad AI backend: itinerary building,
// review summaries and chat.
package nomadai

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/assistant"
	"github.com/nomadtravel/nomad/internal/provider/resilience"
	"github.com/nomadtravel/nomad/internal/route"
)

const (
	// ProviderName identifies the backend in metrics and health output.
	ProviderName = "nomad-backend"

	// DefaultBaseURL is the local development backend.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout covers model-backed endpoints, which can be slow.
	DefaultTimeout = 90 * time.Second

	maxErrorBodyLen = 512
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the per-attempt timeout (optional, defaults to 90s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client talks to the Nomad AI backend. It implements route.Optimizer,
// assistant.Summarizer and assistant.Chatter.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new backend client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := transportConfig(cfg.Timeout)
		clientCfg.Registry = cfg.Registry
		clientCfg.Logger = cfg.Logger
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// CallBudget is the longest a single backend call can take with the given
// per-attempt timeout, retries included. Server write deadlines must cover it.
func CallBudget(timeout time.Duration) time.Duration {
	return transportConfig(timeout).MaxDuration()
}

func transportConfig(timeout time.Duration) resilience.ClientConfig {
	cfg := resilience.DefaultClientConfig(ProviderName)
	cfg.Timeout = cmp.Or(timeout, DefaultTimeout)
	cfg.MaxRetries = 1
	return cfg
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// BuildItinerary orders and schedules candidates via POST /build-itinerary.
func (c *Client) BuildItinerary(ctx context.Context, req route.Request) (*route.Response, error) {
	body := buildItineraryRequest{
		StartLat:     req.StartLat,
		StartLng:     req.StartLng,
		Candidates:   make([]placeCandidate, 0, len(req.Candidates)),
		MaxStops:     req.MaxStops,
		DwellMinutes: req.DwellMinutes,
		StartTime:    req.StartTime,
	}
	for _, cand := range req.Candidates {
		body.Candidates = append(body.Candidates, placeCandidate(cand))
	}

	var resp buildItineraryResponse
	if err := c.post(ctx, "/build-itinerary", body, &resp); err != nil {
		return nil, err
	}

	stops := make([]route.Stop, 0, len(resp.Ordered))
	for _, s := range resp.Ordered {
		stops = append(stops, route.Stop(s))
	}

	c.logger.Debug().
		Int("candidate_count", len(req.Candidates)).
		Int("stop_count", len(stops)).
		Msg("received itinerary from backend")

	return &route.Response{Stops: stops}, nil
}

// SummarizeReviews summarizes reviews via POST /summarize-reviews.
func (c *Client) SummarizeReviews(ctx context.Context, placeName string, reviews []assistant.ReviewInput) (*assistant.ReviewSummary, error) {
	body := summarizeRequest{PlaceName: placeName, Reviews: make([]review, 0, len(reviews))}
	for _, r := range reviews {
		body.Reviews = append(body.Reviews, review(r))
	}

	var resp summarizeResponse
	if err := c.post(ctx, "/summarize-reviews", body, &resp); err != nil {
		return nil, err
	}

	return &assistant.ReviewSummary{
		WhatPeopleSay: resp.WhatPeopleSay,
		Pros:          resp.Pros,
		Cons:          resp.Cons,
		BestFor:       resp.BestFor,
	}, nil
}

// Chat sends the history and optional context via POST /chat and returns the reply.
func (c *Client) Chat(ctx context.Context, messages []assistant.Message, chatContext map[string]any) (string, error) {
	body := chatRequest{Messages: make([]chatMessage, 0, len(messages)), Context: chatContext}
	for _, m := range messages {
		body.Messages = append(body.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat", body, &resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Reply), nil
}

// post sends body as JSON to path and decodes a 2xx answer into dst.
func (c *Client) post(ctx context.Context, path string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", path).Msg("backend request failed")
		return &Error{
			Endpoint: path,
			Code:     "REQUEST_FAILED",
			Message:  fmt.Sprintf("POST %s failed: %v", path, err),
			Err:      ErrBackendUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debug().
		Str("endpoint", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(path, resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, dst); err != nil {
		return &Error{
			Endpoint: path,
			Code:     "MALFORMED_RESPONSE",
			Status:   resp.StatusCode,
			Message:  fmt.Sprintf("POST %s returned an unreadable body", path),
			Err:      fmt.Errorf("%w: %w", ErrMalformedResponse, err),
		}
	}
	return nil
}

// handleErrorResponse maps a non-2xx answer to an Error. The message carries the
// status and the backend's detail text.
func handleErrorResponse(path string, status int, body []byte) error {
	detail := strings.TrimSpace(string(body))
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch d := envelope.Detail.(type) {
		case string:
			detail = d
		case nil:
		default:
			if raw, err := json.Marshal(d); err == nil {
				detail = string(raw)
			}
		}
	}
	if len(detail) > maxErrorBodyLen {
		detail = detail[:maxErrorBodyLen]
	}

	sentinel := ErrBackendUnavailable
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		sentinel = ErrInvalidRequest
	}

	msg := fmt.Sprintf("POST %s failed: %d", path, status)
	if detail != "" {
		msg += " " + detail
	}

	return &Error{
		Endpoint: path,
		Code:     fmt.Sprintf("HTTP_%d", status),
		Status:   status,
		Message:  msg,
		Err:      sentinel,
	}
}
