package weather

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

const (
	dateLayout   = "2006-01-02"
	maxRangeDays = 730
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validateCoordinates checks geographic bounds. Out-of-range or non-finite
// values are a validation error naming the offending parameter; values are
// never clamped.
func validateCoordinates(latitude, longitude float64) *Error {
	if werr := checkCoordinate("latitude", latitude, -90, 90); werr != nil {
		return werr
	}
	return checkCoordinate("longitude", longitude, -180, 180)
}

func checkCoordinate(name string, value, min, max float64) *Error {
	validRange := fmt.Sprintf("[%g, %g]", min, max)

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return newValidationError(
			fmt.Sprintf("invalid %s %v: must be a finite number between %g and %g degrees", name, value, min, max),
			map[string]any{
				"parameter": name,
				// NaN and infinities are not representable in JSON.
				"value":       fmt.Sprintf("%v", value),
				"valid_range": validRange,
			},
		)
	}
	if value < min || value > max {
		return newValidationError(
			fmt.Sprintf("invalid %s %v: must be between %g and %g degrees", name, value, min, max),
			map[string]any{
				"parameter":   name,
				"value":       value,
				"valid_range": validRange,
			},
		)
	}
	return nil
}

// validateDateRange checks presence, format, parseability and the range
// invariants for a historical query, short-circuiting on the first failure.
// Invariant order: start <= end, no future dates, span <= maxRangeDays.
func validateDateRange(startDate, endDate string, now time.Time) *Error {
	if startDate == "" || endDate == "" {
		return newValidationError(
			"both start_date and end_date are required in YYYY-MM-DD format",
			map[string]any{
				"parameters": []string{"start_date", "end_date"},
				"start_date": startDate,
				"end_date":   endDate,
			},
		)
	}

	for _, d := range []struct{ name, value string }{
		{"start_date", startDate},
		{"end_date", endDate},
	} {
		if !datePattern.MatchString(d.value) {
			return newValidationError(
				fmt.Sprintf("invalid %s %q: expected YYYY-MM-DD format", d.name, d.value),
				map[string]any{
					"parameter":       d.name,
					"value":           d.value,
					"expected_format": "YYYY-MM-DD",
				},
			)
		}
	}

	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return newValidationError(
			fmt.Sprintf("invalid start_date %q: %v", startDate, err),
			map[string]any{"parameter": "start_date", "value": startDate},
		)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return newValidationError(
			fmt.Sprintf("invalid end_date %q: %v", endDate, err),
			map[string]any{"parameter": "end_date", "value": endDate},
		)
	}

	if start.After(end) {
		return newValidationError(
			"start_date must not be after end_date",
			map[string]any{"start_date": startDate, "end_date": endDate},
		)
	}

	nowUTC := now.UTC()
	today := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 0, 0, 0, 0, time.UTC)
	if start.After(today) || end.After(today) {
		return newValidationError(
			"dates must not be in the future",
			map[string]any{
				"start_date": startDate,
				"end_date":   endDate,
				"today":      today.Format(dateLayout),
			},
		)
	}

	if days := int(end.Sub(start).Hours() / 24); days > maxRangeDays {
		return newValidationError(
			fmt.Sprintf("date range spans %d days; maximum is %d", days, maxRangeDays),
			map[string]any{
				"requested_days": days,
				"max_days":       maxRangeDays,
			},
		)
	}

	return nil
}
