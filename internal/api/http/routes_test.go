package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/matt-the-ogre/mcp-server-weather/internal/weather"
	"github.com/matt-the-ogre/mcp-server-weather/internal/weather/openmeteo"
)

// newTestApp builds a Fiber app whose service talks to the given stub
// upstream handler.
func newTestApp(t *testing.T, upstream http.HandlerFunc) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client := openmeteo.NewClient(srv.Client(), openmeteo.Config{
		APIBase:        srv.URL,
		ArchiveAPIBase: srv.URL,
	}, nil)
	svc := weather.NewService(client, nil)

	app := fiber.New()
	RegisterRoutes(app, svc)
	return app
}

func okUpstream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"current": {"weather_code": 0, "temperature_2m": 21.4}}`))
}

// TestCoordinateValidation verifies that missing or out-of-range coordinates
// return 400 before any upstream traffic.
func TestCoordinateValidation(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call: %s", r.URL)
	})

	urls := []string{
		"/api/v1/weather/current",
		"/api/v1/weather/current?latitude=49.0",
		"/api/v1/weather/current?latitude=abc&longitude=0",
		"/api/v1/weather/current?latitude=91&longitude=0",
		"/api/v1/weather/current?latitude=NaN&longitude=0",
		"/api/v1/weather/current?latitude=0&longitude=Inf",
		"/api/v1/weather/forecast?latitude=0&longitude=-200",
		"/api/v1/weather/historical?latitude=91&longitude=0&start_date=2024-01-01&end_date=2024-01-02",
	}

	for _, u := range urls {
		req := httptest.NewRequest(http.MethodGet, u, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", u, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected status %d for %s, got %d", http.StatusBadRequest, u, resp.StatusCode)
		}
	}
}

func TestCurrentWeatherSuccess(t *testing.T) {
	app := newTestApp(t, okUpstream)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?latitude=49.0&longitude=-122.05", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("decoding body: %v", err)
	}

	current, ok := doc["current"].(map[string]any)
	if !ok {
		t.Fatalf("expected current block in response, got %s", body)
	}
	if current["weather_description"] != "Clear sky" {
		t.Fatalf("expected weather_description %q, got %v", "Clear sky", current["weather_description"])
	}
	if doc["generated_at"] == nil {
		t.Fatal("expected generated_at in response")
	}
}

// TestHistoricalInvertedRange verifies that an inverted date range surfaces
// as a validation error with both dates in the details.
func TestHistoricalInvertedRange(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call: %s", r.URL)
	})

	u := "/api/v1/weather/historical?latitude=49.0&longitude=-122.05&start_date=2024-01-01&end_date=2023-01-01"
	req := httptest.NewRequest(http.MethodGet, u, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var werr weather.Error
	if err := json.Unmarshal(body, &werr); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if werr.Kind != weather.KindValidation {
		t.Fatalf("expected %q, got %q", weather.KindValidation, werr.Kind)
	}
	if werr.Details["start_date"] != "2024-01-01" || werr.Details["end_date"] != "2023-01-01" {
		t.Fatalf("expected both dates in details, got %v", werr.Details)
	}
}

// TestUpstreamFailureMapsTo503 verifies the api_error to 503 mapping.
func TestUpstreamFailureMapsTo503(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast?latitude=49.0&longitude=-122.05", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var werr weather.Error
	if err := json.Unmarshal(body, &werr); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if werr.Kind != weather.KindAPI {
		t.Fatalf("expected %q, got %q", weather.KindAPI, werr.Kind)
	}
}
