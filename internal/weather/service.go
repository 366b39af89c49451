package weather

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/matt-the-ogre/mcp-server-weather/internal/metrics"
	"github.com/matt-the-ogre/mcp-server-weather/internal/weather/openmeteo"
)

// Field selections sent to the upstream endpoints. Fixed per operation.
const (
	currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,is_day," +
		"precipitation,rain,showers,snowfall,weather_code,cloud_cover,pressure_msl," +
		"surface_pressure,wind_speed_10m,wind_direction_10m,wind_gusts_10m"

	forecastHourlyFields = "temperature_2m,relative_humidity_2m,precipitation_probability," +
		"precipitation,weather_code,pressure_msl,wind_speed_10m,wind_direction_10m,uv_index"

	forecastDailyFields = "weather_code,temperature_2m_max,temperature_2m_min,sunrise,sunset," +
		"uv_index_max,precipitation_sum,precipitation_probability_max,wind_speed_10m_max," +
		"wind_gusts_10m_max,wind_direction_10m_dominant"

	historicalDailyFields = "weather_code,temperature_2m_max,temperature_2m_min," +
		"temperature_2m_mean,precipitation_sum,rain_sum,snowfall_sum,wind_speed_10m_max," +
		"wind_gusts_10m_max"

	historicalHourlyFields = "temperature_2m,relative_humidity_2m,precipitation,rain," +
		"snowfall,weather_code"
)

// Service is the weather query core: validate, build the upstream query,
// perform one call, enrich the payload. It holds no per-request state.
type Service struct {
	client    *openmeteo.Client
	collector *metrics.Collector

	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewService creates a Service. The collector may be nil.
func NewService(client *openmeteo.Client, collector *metrics.Collector) *Service {
	return &Service{
		client:    client,
		collector: collector,
		now:       time.Now,
	}
}

// CurrentWeather returns instantaneous conditions for the given coordinates.
func (s *Service) CurrentWeather(ctx context.Context, latitude, longitude float64) (Document, *Error) {
	start := time.Now()
	doc, werr := s.currentWeather(ctx, latitude, longitude)
	s.collector.ObserveRequest("current_weather", outcome(werr), time.Since(start))
	return doc, werr
}

func (s *Service) currentWeather(ctx context.Context, latitude, longitude float64) (Document, *Error) {
	if werr := validateCoordinates(latitude, longitude); werr != nil {
		return nil, werr
	}

	params := coordParams(latitude, longitude)
	params.Set("current", currentFields)
	params.Set("timezone", "auto")

	payload, err := s.client.Forecast(ctx, params)
	if err != nil {
		log.Printf("current weather fetch failed for (%v, %v): %v", latitude, longitude, err)
		return nil, newAPIError(
			"unable to fetch current weather data for this location",
			apiDetails(latitude, longitude, err),
		)
	}

	doc := Document(payload)
	enrich(doc, s.now())
	return doc, nil
}

// Forecast returns a multi-day forecast with hourly and daily series.
func (s *Service) Forecast(ctx context.Context, latitude, longitude float64) (Document, *Error) {
	start := time.Now()
	doc, werr := s.forecast(ctx, latitude, longitude)
	s.collector.ObserveRequest("forecast", outcome(werr), time.Since(start))
	return doc, werr
}

func (s *Service) forecast(ctx context.Context, latitude, longitude float64) (Document, *Error) {
	if werr := validateCoordinates(latitude, longitude); werr != nil {
		return nil, werr
	}

	params := coordParams(latitude, longitude)
	params.Set("hourly", forecastHourlyFields)
	params.Set("daily", forecastDailyFields)
	params.Set("timezone", "auto")

	payload, err := s.client.Forecast(ctx, params)
	if err != nil {
		log.Printf("forecast fetch failed for (%v, %v): %v", latitude, longitude, err)
		return nil, newAPIError(
			"unable to fetch forecast data for this location",
			apiDetails(latitude, longitude, err),
		)
	}

	doc := Document(payload)
	enrich(doc, s.now())
	return doc, nil
}

// HistoricalWeather returns archived (ERA5) weather for a past date range.
func (s *Service) HistoricalWeather(ctx context.Context, latitude, longitude float64, startDate, endDate string) (Document, *Error) {
	start := time.Now()
	doc, werr := s.historicalWeather(ctx, latitude, longitude, startDate, endDate)
	s.collector.ObserveRequest("historical_weather", outcome(werr), time.Since(start))
	return doc, werr
}

func (s *Service) historicalWeather(ctx context.Context, latitude, longitude float64, startDate, endDate string) (Document, *Error) {
	if werr := validateCoordinates(latitude, longitude); werr != nil {
		return nil, werr
	}
	if werr := validateDateRange(startDate, endDate, s.now()); werr != nil {
		return nil, werr
	}

	params := coordParams(latitude, longitude)
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)
	params.Set("daily", historicalDailyFields)
	params.Set("hourly", historicalHourlyFields)
	params.Set("timezone", "auto")

	payload, err := s.client.Archive(ctx, params)
	if err != nil {
		log.Printf("historical fetch failed for (%v, %v) %s..%s: %v", latitude, longitude, startDate, endDate, err)
		details := apiDetails(latitude, longitude, err)
		details["start_date"] = startDate
		details["end_date"] = endDate
		return nil, newAPIError(
			"unable to fetch historical weather data for this location and date range",
			details,
		)
	}

	doc := Document(payload)
	enrich(doc, s.now())
	return doc, nil
}

func coordParams(latitude, longitude float64) url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	return params
}

func apiDetails(latitude, longitude float64, err error) map[string]any {
	return map[string]any{
		"latitude":  latitude,
		"longitude": longitude,
		"cause":     err.Error(),
	}
}

func outcome(werr *Error) string {
	if werr == nil {
		return "success"
	}
	return string(werr.Kind)
}
