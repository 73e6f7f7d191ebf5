package sandbox

import (
	"fmt"

	"go.starlark.net/starlark"
)

// Conversions between native Go values and Starlark values. Both directions
// are total: anything outside the representable set degrades to its string
// form, mirroring the wire codec's fallback policy so a value never fails to
// cross the boundary.

// toStarlark converts a native value (as produced by wire.Decode or returned
// by a host callable) into a Starlark value.
func toStarlark(v any) starlark.Value {
	switch val := v.(type) {
	case nil:
		return starlark.None
	case string:
		return starlark.String(val)
	case bool:
		return starlark.Bool(val)
	case int:
		return starlark.MakeInt(val)
	case int32:
		return starlark.MakeInt64(int64(val))
	case int64:
		return starlark.MakeInt64(val)
	case float32:
		return starlark.Float(float64(val))
	case float64:
		return starlark.Float(val)
	case []any:
		elems := make([]starlark.Value, len(val))
		for i, item := range val {
			elems[i] = toStarlark(item)
		}
		return starlark.NewList(elems)
	case []string:
		elems := make([]starlark.Value, len(val))
		for i, item := range val {
			elems[i] = starlark.String(item)
		}
		return starlark.NewList(elems)
	case map[string]any:
		dict := starlark.NewDict(len(val))
		for key, item := range val {
			// SetKey only fails for unhashable keys; strings always hash.
			_ = dict.SetKey(starlark.String(key), toStarlark(item))
		}
		return dict
	default:
		return starlark.String(fmt.Sprintf("%v", val))
	}
}

// fromStarlark converts a Starlark value back into a native value.
func fromStarlark(v starlark.Value) any {
	switch val := v.(type) {
	case nil, starlark.NoneType:
		return nil
	case starlark.String:
		return string(val)
	case starlark.Bool:
		return bool(val)
	case starlark.Int:
		i, ok := val.Int64()
		if !ok {
			// Arbitrary-precision value outside int64 — keep the digits as text
			// rather than silently truncating.
			return val.String()
		}
		return i
	case starlark.Float:
		return float64(val)
	case *starlark.List:
		out := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			out[i] = fromStarlark(val.Index(i))
		}
		return out
	case starlark.Tuple:
		out := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			out[i] = fromStarlark(val.Index(i))
		}
		return out
	case *starlark.Dict:
		out := make(map[string]any, val.Len())
		for _, item := range val.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				// Non-string keys can't cross the wire format; stringify them.
				out[item[0].String()] = fromStarlark(item[1])
				continue
			}
			out[key.GoString()] = fromStarlark(item[1])
		}
		return out
	default:
		// Functions, sets, ranges and friends have no wire representation.
		return v.String()
	}
}
