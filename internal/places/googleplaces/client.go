// Package googleplaces provides a client for the Google Places API (New).
package googleplaces

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/places"
	"github.com/nomadtravel/nomad/internal/provider/resilience"
)

const (
	// ProviderName identifies this places provider.
	ProviderName = "google-places"

	// DefaultBaseURL is the Places API base URL.
	DefaultBaseURL = "https://places.googleapis.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	searchFieldMask  = "places.id,places.displayName,places.formattedAddress,places.location,places.rating,places.userRatingCount"
	detailsFieldMask = "id,displayName,formattedAddress,location,rating,userRatingCount,reviews"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Google Places client.
type ClientConfig struct {
	// APIKey is the Places API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Places API client. It implements places.Provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Google Places client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		clientCfg.Registry = cfg.Registry
		clientCfg.Logger = cfg.Logger
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// SearchText runs places:searchText and maps the results in provider order.
func (c *Client) SearchText(ctx context.Context, query string) ([]places.Candidate, error) {
	body, err := json.Marshal(searchRequest{TextQuery: query})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq, searchFieldMask)

	c.logger.Debug().
		Str("query", query).
		Msg("searching places")

	var resp searchResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}

	results := make([]places.Candidate, 0, len(resp.Places))
	for i := range resp.Places {
		results = append(results, toCandidate(&resp.Places[i]))
	}

	c.logger.Debug().
		Int("result_count", len(results)).
		Msg("received place search results")

	return results, nil
}

// PlaceDetails fetches one place with its reviews.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*places.Details, error) {
	endpoint := c.baseURL + "/v1/places/" + url.PathEscape(placeID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.authorize(httpReq, detailsFieldMask)

	var p place
	if err := c.do(httpReq, &p); err != nil {
		return nil, err
	}

	details := &places.Details{Candidate: toCandidate(&p)}
	for _, r := range p.Reviews {
		review := places.Review{Rating: r.Rating}
		if r.Text != nil {
			review.Text = r.Text.Text
		}
		if r.AuthorAttribution != nil && r.AuthorAttribution.DisplayName != "" {
			name := r.AuthorAttribution.DisplayName
			review.Author = &name
		}
		details.Reviews = append(details.Reviews, review)
	}

	c.logger.Debug().
		Str("place_id", placeID).
		Int("review_count", len(details.Reviews)).
		Msg("received place details")

	return details, nil
}

func (c *Client) authorize(req *http.Request, fieldMask string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)
}

// do executes req and decodes a 200 body into dst.
func (c *Client) do(req *http.Request, dst any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &places.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach places provider",
			Err:      places.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return handleErrorResponse(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, dst); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// handleErrorResponse maps Places API error responses to domain errors.
func handleErrorResponse(statusCode int, body []byte) error {
	message := ""
	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		message = apiErr.Error.Message
	}

	switch {
	case statusCode == http.StatusTooManyRequests:
		return &places.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Status:   statusCode,
			Message:  "places quota exceeded, please try again later",
			Err:      places.ErrRateLimitExceeded,
		}
	case statusCode == http.StatusNotFound:
		return &places.Error{
			Provider: ProviderName,
			Code:     "NOT_FOUND",
			Status:   statusCode,
			Message:  "place not found",
			Err:      places.ErrPlaceNotFound,
		}
	case statusCode == http.StatusBadRequest:
		if message == "" {
			message = "invalid places request"
		}
		return &places.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Status:   statusCode,
			Message:  message,
			Err:      places.ErrInvalidQuery,
		}
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &places.Error{
			Provider: ProviderName,
			Code:     "FORBIDDEN",
			Status:   statusCode,
			Message:  "places access denied - check API key configuration",
			Err:      places.ErrProviderUnavailable,
		}
	case statusCode >= 500:
		return &places.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Status:   statusCode,
			Message:  "places provider is temporarily unavailable",
			Err:      places.ErrProviderUnavailable,
		}
	default:
		if message == "" {
			message = fmt.Sprintf("places provider returned status %d", statusCode)
		}
		return &places.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Status:   statusCode,
			Message:  message,
			Err:      places.ErrProviderUnavailable,
		}
	}
}

func toCandidate(p *place) places.Candidate {
	c := places.Candidate{
		ID:              p.ID,
		Name:            places.UnnamedPlace,
		Address:         p.FormattedAddress,
		Rating:          p.Rating,
		UserRatingCount: p.UserRatingCount,
	}
	if p.DisplayName != nil && p.DisplayName.Text != "" {
		c.Name = p.DisplayName.Text
	}
	if p.Location != nil {
		lat, lng := p.Location.Latitude, p.Location.Longitude
		c.Lat = &lat
		c.Lng = &lng
	}
	return c
}
