package weather

import "time"

// Document is an upstream JSON payload decoded into a generic mapping.
// The adapter passes it through unchanged apart from enrichment.
type Document map[string]any

// Keys the upstream uses for the weather-code field across API versions.
var codeKeys = []string{"weather_code", "weathercode"}

// enrich augments a payload in place: a scalar weather_description inside the
// "current" block and parallel weather_description arrays inside "daily" and
// "hourly", plus a top-level generated_at timestamp. Missing or oddly shaped
// fields are skipped without error.
func enrich(doc Document, now time.Time) {
	if current, ok := doc["current"].(map[string]any); ok {
		describeScalar(current)
	}
	for _, series := range []string{"daily", "hourly"} {
		if block, ok := doc[series].(map[string]any); ok {
			describeSeries(block)
		}
	}
	doc["generated_at"] = now.UTC().Format(time.RFC3339)
}

func describeScalar(block map[string]any) {
	for _, key := range codeKeys {
		if code, ok := asCode(block[key]); ok {
			block["weather_description"] = DescribeCode(code)
			return
		}
	}
}

func describeSeries(block map[string]any) {
	for _, key := range codeKeys {
		codes, ok := block[key].([]any)
		if !ok {
			continue
		}
		descriptions := make([]any, 0, len(codes))
		for _, v := range codes {
			code, ok := asCode(v)
			if !ok {
				// Non-numeric entry; leave the series untouched.
				return
			}
			descriptions = append(descriptions, DescribeCode(code))
		}
		block["weather_description"] = descriptions
		return
	}
}

// asCode extracts an integer weather code from a decoded JSON value.
func asCode(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
