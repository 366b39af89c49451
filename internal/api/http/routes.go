package httpapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/matt-the-ogre/mcp-server-weather/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		q, err := parseCoordinateQuery(c)
		if err != nil {
			return badRequest(c, err)
		}

		doc, werr := service.CurrentWeather(c.UserContext(), *q.Latitude, *q.Longitude)
		if werr != nil {
			return renderError(c, werr)
		}
		return c.JSON(doc)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		q, err := parseCoordinateQuery(c)
		if err != nil {
			return badRequest(c, err)
		}

		doc, werr := service.Forecast(c.UserContext(), *q.Latitude, *q.Longitude)
		if werr != nil {
			return renderError(c, werr)
		}
		return c.JSON(doc)
	})

	v1.Get("/weather/historical", func(c *fiber.Ctx) error {
		q, err := parseCoordinateQuery(c)
		if err != nil {
			return badRequest(c, err)
		}

		// Date presence and range rules are the service's concern; the
		// raw strings pass through untouched.
		doc, werr := service.HistoricalWeather(
			c.UserContext(),
			*q.Latitude, *q.Longitude,
			c.Query("start_date"), c.Query("end_date"),
		)
		if werr != nil {
			return renderError(c, werr)
		}
		return c.JSON(doc)
	})
}

// coordinateQuery holds the parsed latitude/longitude query parameters.
// Range checks live in the weather package; this only covers presence and
// numeric parsing.
type coordinateQuery struct {
	Latitude  *float64 `validate:"required"`
	Longitude *float64 `validate:"required"`
}

func parseCoordinateQuery(c *fiber.Ctx) (coordinateQuery, error) {
	var q coordinateQuery

	if raw := c.Query("latitude"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, &weather.Error{
				Kind:    weather.KindValidation,
				Message: "latitude must be a number",
				Details: map[string]any{"parameter": "latitude", "value": raw},
			}
		}
		q.Latitude = &v
	}
	if raw := c.Query("longitude"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, &weather.Error{
				Kind:    weather.KindValidation,
				Message: "longitude must be a number",
				Details: map[string]any{"parameter": "longitude", "value": raw},
			}
		}
		q.Longitude = &v
	}

	if err := validate.Struct(q); err != nil {
		return q, &weather.Error{
			Kind:    weather.KindValidation,
			Message: "latitude and longitude query parameters are required",
			Details: map[string]any{"parameters": []string{"latitude", "longitude"}},
		}
	}

	return q, nil
}

// renderError maps the service's tagged error onto an HTTP response:
// validation errors are the caller's fault (400), upstream failures surface
// as service unavailability (503).
func renderError(c *fiber.Ctx, werr *weather.Error) error {
	status := fiber.StatusServiceUnavailable
	if werr.Kind == weather.KindValidation {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(werr)
}

func badRequest(c *fiber.Ctx, err error) error {
	if werr, ok := err.(*weather.Error); ok {
		return renderError(c, werr)
	}
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}
