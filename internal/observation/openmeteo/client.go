// Package openmeteo provides a client for the Open-Meteo API with a
// primary/fallback endpoint strategy.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyreport/skyreport/internal/observation"
	"github.com/skyreport/skyreport/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "openmeteo"

	// DefaultPrimaryURL is the region-specific MeteoSwiss endpoint.
	DefaultPrimaryURL = "https://api.open-meteo.com/v1/meteoswiss"

	// DefaultFallbackURL is the general-purpose forecast endpoint.
	DefaultFallbackURL = "https://api.open-meteo.com/v1/forecast"

	// hourlyVariables are the requested hourly variables.
	hourlyVariables = "temperature_2m,relative_humidity_2m"

	// hourlyTimeLayout is Open-Meteo's hourly timestamp layout.
	hourlyTimeLayout = "2006-01-02T15:04"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// PrimaryURL is the primary endpoint (defaults to DefaultPrimaryURL).
	PrimaryURL string

	// FallbackURL is the fallback endpoint (defaults to DefaultFallbackURL).
	FallbackURL string

	// HTTPClient is the HTTP client to use.
	// If nil, a default resilient client with a 30s timeout is created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 30s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches hourly observation series from Open-Meteo.
type Client struct {
	primaryURL  string
	fallbackURL string
	httpClient  HTTPDoer
	logger      zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	primaryURL := cfg.PrimaryURL
	if primaryURL == "" {
		primaryURL = DefaultPrimaryURL
	}

	fallbackURL := cfg.FallbackURL
	if fallbackURL == "" {
		fallbackURL = DefaultFallbackURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      2,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		primaryURL:  primaryURL,
		fallbackURL: fallbackURL,
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// hourlyResponse mirrors Open-Meteo's hourly payload. The three arrays
// are positionally aligned; values may be numbers, strings, or null, so
// they are decoded raw and coerced explicitly.
type hourlyResponse struct {
	Hourly struct {
		Time             []json.RawMessage `json:"time"`
		Temperature      []json.RawMessage `json:"temperature_2m"`
		RelativeHumidity []json.RawMessage `json:"relative_humidity_2m"`
	} `json:"hourly"`
}

// FetchSeries fetches the trailing hourly series for a coordinate.
// The primary endpoint is tried first; on HTTP failure the fallback
// endpoint is tried with a trailing-48-hours window. An empty hourly
// payload yields an empty slice, not an error.
func (c *Client) FetchSeries(ctx context.Context, lat, lon float64) ([]observation.Observation, error) {
	resp, err := c.get(ctx, c.primaryURL, primaryParams(lat, lon))
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp != nil {
			resp.Body.Close()
		}
		c.logger.Warn().
			Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("primary endpoint failed, trying fallback")

		resp, err = c.get(ctx, c.fallbackURL, fallbackParams(lat, lon))
		if err != nil {
			return nil, fmt.Errorf("%w: fallback request: %v", observation.ErrUpstream, err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d from provider", observation.ErrUpstream, resp.StatusCode)
	}

	var payload hourlyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode hourly payload: %v", observation.ErrMalformedResponse, err)
	}

	return parseSeries(payload, lat, lon)
}

// get issues a single GET request with encoded query parameters.
func (c *Client) get(ctx context.Context, baseURL string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.httpClient.Do(req)
}

// primaryParams requests the trailing 2 days from the regional endpoint.
func primaryParams(lat, lon float64) url.Values {
	values := coordinateParams(lat, lon)
	values.Set("past_days", "2")
	return values
}

// fallbackParams requests the trailing 48 hours from the forecast endpoint.
func fallbackParams(lat, lon float64) url.Values {
	values := coordinateParams(lat, lon)
	values.Set("past_hours", "48")
	return values
}

func coordinateParams(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("hourly", hourlyVariables)
	values.Set("timezone", "UTC")
	return values
}

// parseSeries assembles observations from the positional hourly arrays,
// dropping rows with a missing timestamp, temperature, or humidity, and
// returns them sorted ascending by timestamp.
func parseSeries(payload hourlyResponse, lat, lon float64) ([]observation.Observation, error) {
	times := payload.Hourly.Time
	temps := payload.Hourly.Temperature
	hums := payload.Hourly.RelativeHumidity

	if len(times) != len(temps) || len(times) != len(hums) {
		return nil, fmt.Errorf("%w: hourly arrays misaligned (time=%d temperature=%d humidity=%d)",
			observation.ErrMalformedResponse, len(times), len(temps), len(hums))
	}

	series := make([]observation.Observation, 0, len(times))
	for i := range times {
		ts, ok := parseTimestamp(times[i])
		if !ok {
			continue
		}
		temp, ok := parseNumeric(temps[i])
		if !ok {
			continue
		}
		hum, ok := parseNumeric(hums[i])
		if !ok {
			continue
		}

		series = append(series, observation.Observation{
			Timestamp:   ts,
			Latitude:    lat,
			Longitude:   lon,
			Temperature: temp,
			Humidity:    hum,
		})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	return series, nil
}

// parseTimestamp decodes a raw hourly timestamp in UTC. Accepts the
// Open-Meteo minute layout and RFC3339.
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return time.Time{}, false
	}

	if ts, err := time.Parse(hourlyTimeLayout, s); err == nil {
		return ts.UTC(), true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), true
	}
	return time.Time{}, false
}

// parseNumeric coerces a raw hourly value to float64, reporting false
// for null, non-numeric strings, or other shapes.
func parseNumeric(raw json.RawMessage) (float64, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
