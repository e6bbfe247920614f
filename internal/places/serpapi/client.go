// Package serpapi provides a places.Provider backed by SerpApi's Google Maps
// engines: google_maps for local results and google_maps_reviews for details.
package serpapi

import (
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
	ProviderName = "serpapi"

	// DefaultBaseURL is the SerpApi base URL.
	DefaultBaseURL = "https://serpapi.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second

	// noResults is returned with a 200 when Google has nothing for the query.
	noResults = "hasn't returned any results"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the SerpApi client.
type ClientConfig struct {
	// APIKey is the SerpApi key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// Language and Country set the hl and gl parameters (default: "en", "us").
	Language string
	Country  string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 15s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a SerpApi client. It implements places.Provider.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	country    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new SerpApi client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	country := cfg.Country
	if country == "" {
		country = "us"
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
		language:   language,
		country:    country,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// SearchText runs a google_maps search and maps the local results in order.
func (c *Client) SearchText(ctx context.Context, query string) ([]places.Candidate, error) {
	params := url.Values{}
	params.Set("engine", "google_maps")
	params.Set("q", query)

	c.logger.Debug().
		Str("query", query).
		Msg("searching places")

	var resp searchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		if strings.Contains(resp.Error, noResults) {
			return []places.Candidate{}, nil
		}
		return nil, invalidQuery(resp.Error)
	}

	local := resp.LocalResults
	if len(local) == 0 && resp.PlaceResults != nil {
		local = []localResult{*resp.PlaceResults}
	}

	results := make([]places.Candidate, 0, len(local))
	for i := range local {
		results = append(results, toCandidate(&local[i]))
	}

	c.logger.Debug().
		Int("result_count", len(results)).
		Msg("received place search results")

	return results, nil
}

// PlaceDetails fetches a place summary and its reviews from google_maps_reviews.
// The reviews engine carries no coordinates, so the result is never routable.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*places.Details, error) {
	params := url.Values{}
	params.Set("engine", "google_maps_reviews")
	params.Set("place_id", placeID)

	var resp reviewsResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		if strings.Contains(resp.Error, noResults) {
			return nil, &places.Error{
				Provider: ProviderName,
				Code:     "NOT_FOUND",
				Message:  "place not found",
				Err:      places.ErrPlaceNotFound,
			}
		}
		return nil, invalidQuery(resp.Error)
	}

	details := &places.Details{Candidate: places.Candidate{ID: placeID, Name: places.UnnamedPlace}}
	if info := resp.PlaceInfo; info != nil {
		if info.Title != "" {
			details.Name = info.Title
		}
		details.Address = info.Address
		details.Rating = info.Rating
		details.UserRatingCount = info.Reviews
	}
	for _, r := range resp.Reviews {
		rv := places.Review{Rating: r.Rating, Text: r.Snippet}
		if r.User != nil && r.User.Name != "" {
			name := r.User.Name
			rv.Author = &name
		}
		details.Reviews = append(details.Reviews, rv)
	}

	c.logger.Debug().
		Str("place_id", placeID).
		Int("review_count", len(details.Reviews)).
		Msg("received place details")

	return details, nil
}

// get issues GET /search.json with params and decodes a 200 body into dst.
func (c *Client) get(ctx context.Context, params url.Values, dst any) error {
	params.Set("hl", c.language)
	params.Set("gl", c.country)
	params.Set("api_key", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
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

// handleErrorResponse maps SerpApi error responses to domain errors.
func handleErrorResponse(statusCode int, body []byte) error {
	var apiErr errorResponse
	_ = json.Unmarshal(body, &apiErr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return &places.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Status:   statusCode,
			Message:  "search quota exceeded, please try again later",
			Err:      places.ErrRateLimitExceeded,
		}
	case statusCode == http.StatusBadRequest:
		e := invalidQuery(apiErr.Error)
		e.Status = statusCode
		return e
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &places.Error{
			Provider: ProviderName,
			Code:     "FORBIDDEN",
			Status:   statusCode,
			Message:  "places access denied - check API key configuration",
			Err:      places.ErrProviderUnavailable,
		}
	default:
		return &places.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Status:   statusCode,
			Message:  "places provider is temporarily unavailable",
			Err:      places.ErrProviderUnavailable,
		}
	}
}

func invalidQuery(message string) *places.Error {
	if message == "" {
		message = "invalid places request"
	}
	return &places.Error{
		Provider: ProviderName,
		Code:     "BAD_REQUEST",
		Message:  message,
		Err:      places.ErrInvalidQuery,
	}
}

func toCandidate(r *localResult) places.Candidate {
	c := places.Candidate{
		ID:              r.PlaceID,
		Name:            places.UnnamedPlace,
		Address:         r.Address,
		Rating:          r.Rating,
		UserRatingCount: r.Reviews,
	}
	if r.Title != "" {
		c.Name = r.Title
	}
	if r.GPSCoordinates != nil {
		lat, lng := r.GPSCoordinates.Latitude, r.GPSCoordinates.Longitude
		c.Lat = &lat
		c.Lng = &lng
	}
	return c
}
