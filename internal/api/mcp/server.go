// Package mcpapi exposes the weather service as MCP tools for agent callers.
package mcpapi

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matt-the-ogre/mcp-server-weather/internal/weather"
)

// NewServer builds the MCP server with the three weather tools registered.
// The caller picks the transport (stdio or streamable HTTP).
func NewServer(service *weather.Service, version string) *mcp.Server {
	h := handlers{service: service}

	server := mcp.NewServer(&mcp.Implementation{Name: "mcp-server-weather", Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_current_weather",
		Description: "Get current weather conditions for a location by coordinates",
	}, h.getCurrentWeather)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_forecast",
		Description: "Get a multi-day weather forecast (hourly and daily series) for a location by coordinates",
	}, h.getForecast)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_historical_weather",
		Description: "Get historical (ERA5 archive) weather for a location and past date range",
	}, h.getHistoricalWeather)

	return server
}

type handlers struct {
	service *weather.Service
}

type CoordinateInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"latitude of the location (-90 to 90)"`
	Longitude float64 `json:"longitude" jsonschema:"longitude of the location (-180 to 180)"`
}

type HistoricalInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"latitude of the location (-90 to 90)"`
	Longitude float64 `json:"longitude" jsonschema:"longitude of the location (-180 to 180)"`
	StartDate string  `json:"start_date" jsonschema:"start date in YYYY-MM-DD format"`
	EndDate   string  `json:"end_date" jsonschema:"end date in YYYY-MM-DD format"`
}

func (h handlers) getCurrentWeather(ctx context.Context, _ *mcp.CallToolRequest, in CoordinateInput) (*mcp.CallToolResult, weather.Document, error) {
	doc, werr := h.service.CurrentWeather(ctx, in.Latitude, in.Longitude)
	if werr != nil {
		return nil, nil, toolError(werr)
	}
	return nil, doc, nil
}

func (h handlers) getForecast(ctx context.Context, _ *mcp.CallToolRequest, in CoordinateInput) (*mcp.CallToolResult, weather.Document, error) {
	doc, werr := h.service.Forecast(ctx, in.Latitude, in.Longitude)
	if werr != nil {
		return nil, nil, toolError(werr)
	}
	return nil, doc, nil
}

func (h handlers) getHistoricalWeather(ctx context.Context, _ *mcp.CallToolRequest, in HistoricalInput) (*mcp.CallToolResult, weather.Document, error) {
	doc, werr := h.service.HistoricalWeather(ctx, in.Latitude, in.Longitude, in.StartDate, in.EndDate)
	if werr != nil {
		return nil, nil, toolError(werr)
	}
	return nil, doc, nil
}

// toolError renders the structured error as the tool-error payload. The SDK
// turns a handler error into an IsError result carrying this text.
func toolError(werr *weather.Error) error {
	body, err := json.Marshal(werr)
	if err != nil {
		return werr
	}
	return errors.New(string(body))
}
