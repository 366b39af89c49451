// Package openmeteo is a minimal HTTP client for the Open-Meteo forecast and
// ERA5 archive APIs. It performs exactly one attempt per call: resilience
// beyond the client timeout is deliberately out of scope for this adapter.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/matt-the-ogre/mcp-server-weather/internal/metrics"
)

const (
	// DefaultAPIBase is the Open-Meteo forecast API base URL.
	DefaultAPIBase = "https://api.open-meteo.com/v1"
	// DefaultArchiveAPIBase is the Open-Meteo ERA5 archive API base URL.
	DefaultArchiveAPIBase = "https://archive-api.open-meteo.com/v1"
	// DefaultUserAgent identifies this adapter to the upstream service.
	DefaultUserAgent = "weather-app/1.0"
)

var (
	errNoHTTPClient = errors.New("http client not configured")
	// ErrStatus wraps non-2xx upstream responses.
	ErrStatus = errors.New("unexpected status code")
)

// Config holds the upstream endpoints and client identity. Zero values fall
// back to the production defaults; tests point the bases at a local stub.
type Config struct {
	APIBase        string
	ArchiveAPIBase string
	UserAgent      string
}

// Client calls the Open-Meteo APIs and decodes JSON responses.
type Client struct {
	httpClient  *http.Client
	apiBase     string
	archiveBase string
	userAgent   string
	collector   *metrics.Collector
}

// NewClient creates a Client. The collector may be nil.
func NewClient(httpClient *http.Client, cfg Config, collector *metrics.Collector) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.ArchiveAPIBase == "" {
		cfg.ArchiveAPIBase = DefaultArchiveAPIBase
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &Client{
		httpClient:  httpClient,
		apiBase:     cfg.APIBase,
		archiveBase: cfg.ArchiveAPIBase,
		userAgent:   cfg.UserAgent,
		collector:   collector,
	}
}

// Forecast queries the forecast endpoint with the given parameters.
func (c *Client) Forecast(ctx context.Context, params url.Values) (map[string]any, error) {
	return c.get(ctx, "forecast", c.apiBase+"/forecast", params)
}

// Archive queries the ERA5 archive endpoint with the given parameters.
func (c *Client) Archive(ctx context.Context, params url.Values) (map[string]any, error) {
	return c.get(ctx, "archive", c.archiveBase+"/era5", params)
}

// CheckForecast probes the forecast endpoint with a minimal query.
func (c *Client) CheckForecast(ctx context.Context) error {
	_, err := c.Forecast(ctx, probeParams())
	return err
}

// CheckArchive probes the archive endpoint with a minimal query.
func (c *Client) CheckArchive(ctx context.Context) error {
	params := probeParams()
	day := time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02")
	params.Set("start_date", day)
	params.Set("end_date", day)
	params.Set("daily", "temperature_2m_max")
	_, err := c.Archive(ctx, params)
	return err
}

func probeParams() url.Values {
	params := url.Values{}
	params.Set("latitude", "0")
	params.Set("longitude", "0")
	return params
}

// get performs a single GET request and decodes the JSON body. Any network
// failure, non-2xx status, or malformed body surfaces as an error; there is
// no retry.
func (c *Client) get(ctx context.Context, endpoint, baseURL string, params url.Values) (map[string]any, error) {
	if c.httpClient == nil {
		return nil, errNoHTTPClient
	}

	u := fmt.Sprintf("%s?%s", baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.collector.ObserveUpstream(endpoint, time.Since(start), err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
		c.collector.ObserveUpstream(endpoint, time.Since(start), err)
		return nil, err
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		err = fmt.Errorf("decoding response: %w", err)
		c.collector.ObserveUpstream(endpoint, time.Since(start), err)
		return nil, err
	}
	if payload == nil {
		// A bare JSON null decodes without error but leaves the map nil.
		err := fmt.Errorf("decoding response: empty payload")
		c.collector.ObserveUpstream(endpoint, time.Since(start), err)
		return nil, err
	}

	c.collector.ObserveUpstream(endpoint, time.Since(start), nil)
	return payload, nil
}
