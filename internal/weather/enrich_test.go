package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enrichNow = time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)

func TestEnrichCurrentScalar(t *testing.T) {
	doc := Document{
		"current": map[string]any{
			"weather_code":   float64(0),
			"temperature_2m": 21.4,
		},
	}

	enrich(doc, enrichNow)

	current := doc["current"].(map[string]any)
	assert.Equal(t, "Clear sky", current["weather_description"])
	assert.Equal(t, "2024-06-15T12:30:00Z", doc["generated_at"])
}

func TestEnrichLegacyCodeKey(t *testing.T) {
	doc := Document{
		"current": map[string]any{"weathercode": float64(61)},
	}

	enrich(doc, enrichNow)

	current := doc["current"].(map[string]any)
	assert.Equal(t, "Rain: Slight intensity", current["weather_description"])
}

func TestEnrichSeriesParallel(t *testing.T) {
	doc := Document{
		"daily": map[string]any{
			"time":         []any{"2024-06-13", "2024-06-14", "2024-06-15"},
			"weather_code": []any{float64(0), float64(61), float64(9999)},
		},
		"hourly": map[string]any{
			"weather_code": []any{float64(3), float64(95)},
		},
	}

	enrich(doc, enrichNow)

	daily := doc["daily"].(map[string]any)
	descs, ok := daily["weather_description"].([]any)
	require.True(t, ok)
	require.Len(t, descs, 3)
	assert.Equal(t, "Clear sky", descs[0])
	assert.Equal(t, "Rain: Slight intensity", descs[1])
	assert.Equal(t, "Unknown weather code: 9999", descs[2])

	hourly := doc["hourly"].(map[string]any)
	hourlyDescs, ok := hourly["weather_description"].([]any)
	require.True(t, ok)
	require.Len(t, hourlyDescs, 2)
	assert.Equal(t, "Overcast", hourlyDescs[0])
	assert.Equal(t, "Thunderstorm: Slight or moderate", hourlyDescs[1])
}

func TestEnrichLenientOnMissingFields(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{"empty payload", Document{}},
		{"current without code", Document{"current": map[string]any{"temperature_2m": 12.0}}},
		{"daily without code", Document{"daily": map[string]any{"time": []any{"2024-06-15"}}}},
		{"current is not an object", Document{"current": "nope"}},
		{"code is not an array", Document{"hourly": map[string]any{"weather_code": "nope"}}},
		{"code array has junk", Document{"daily": map[string]any{"weather_code": []any{float64(0), "x"}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enrich(tc.doc, enrichNow)

			// Never a description, never a panic; timestamp still added.
			assert.Equal(t, "2024-06-15T12:30:00Z", tc.doc["generated_at"])
			if current, ok := tc.doc["current"].(map[string]any); ok {
				assert.NotContains(t, current, "weather_description")
			}
			for _, series := range []string{"daily", "hourly"} {
				if block, ok := tc.doc[series].(map[string]any); ok {
					assert.NotContains(t, block, "weather_description")
				}
			}
		})
	}
}
