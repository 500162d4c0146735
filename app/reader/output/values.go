package output

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// normalizeValue turns bin values into something encodable as JSON:
// maps keyed by arbitrary values get string keys, NaN and infinities become
// the strings "NaN", "+Inf" and "-Inf".
func normalizeValue(v any) any {
	switch t := v.(type) {
	case float64:
		return normalizeFloat(t)
	case float32:
		return normalizeFloat(float64(t))
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}

		return out
	case map[string]any:
		return normalizeBins(t)
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}

		return out
	default:
		return v
	}
}

func normalizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	return f
}

func normalizeBins(bins map[string]any) map[string]any {
	if bins == nil {
		return nil
	}

	out := make(map[string]any, len(bins))
	for k, v := range bins {
		out[k] = normalizeValue(v)
	}

	return out
}

func marshalValue(v any) (string, error) {
	data, err := json.Marshal(normalizeValue(v))
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}

	return string(data), nil
}
