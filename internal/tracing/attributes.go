package tracing

import (
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
)

// Attributes converts loosely typed fields to span attributes, sorted by key.
// Values without a native attribute type are rendered with %v.
func Attributes(fields map[string]any) []attribute.KeyValue {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		switch v := fields[k].(type) {
		case string:
			out = append(out, attribute.String(k, v))
		case bool:
			out = append(out, attribute.Bool(k, v))
		case int:
			out = append(out, attribute.Int(k, v))
		case int64:
			out = append(out, attribute.Int64(k, v))
		case float64:
			out = append(out, attribute.Float64(k, v))
		case fmt.Stringer:
			out = append(out, attribute.String(k, v.String()))
		default:
			out = append(out, attribute.String(k, fmt.Sprintf("%v", v)))
		}
	}
	return out
}
