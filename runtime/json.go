package pruntime

import (
	"encoding/json"
	"math"
)

// EncodeJSON renders v as compact JSON with object keys sorted.
func EncodeJSON(v Value) string {
	b, err := json.Marshal(toNative(v))
	if err != nil {
		return "null"
	}
	return string(b)
}

// ToNative converts v into plain Go values (nil, bool, int64, float64,
// string, []any, map[string]any).
func ToNative(v Value) any {
	return toNative(v)
}

func toNative(v Value) any {
	switch v.Kind() {
	case BoolKind:
		return v.Truthy()
	case IntKind:
		return v.AsInt()
	case FloatKind:
		f := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case StringKind:
		return v.String()
	case ListKind:
		out := make([]any, len(v.Items()))
		for i, it := range v.Items() {
			out[i] = toNative(it)
		}
		return out
	case ObjectKind:
		out := make(map[string]any, len(v.Fields()))
		for k, it := range v.Fields() {
			out[k] = toNative(it)
		}
		return out
	default:
		return nil
	}
}
