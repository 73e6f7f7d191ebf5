package wire

import "fmt"

// Decode converts a wire Value into its native Go equivalent:
//
//	string → string
//	int    → int64 (never a float — precision must survive the boundary)
//	float  → float64
//	bool   → bool
//	null   → nil
//	list   → []any (recursive)
//	map    → map[string]any (recursive)
//
// A Value with an unknown or missing Kind decodes to nil rather than failing:
// one malformed field degrades to null instead of taking down the request.
func Decode(v Value) any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	case KindList:
		out := make([]any, len(v.List))
		for i, elem := range v.List {
			out[i] = Decode(elem)
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.Map))
		for k, elem := range v.Map {
			out[k] = Decode(elem)
		}
		return out
	default:
		// null, or a tag this version doesn't know about
		return nil
	}
}

// DecodeMap decodes every entry of a wire map. Used for request contexts.
func DecodeMap(m map[string]Value) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Decode(v)
	}
	return out
}

// Encode converts a native Go value into a wire Value. It is total: any type
// outside the core set falls back to its fmt text form rather than failing.
//
// The bool case sits before the numeric cases deliberately. Go's type switch
// would not confuse them, but the dispatch order documents the contract the
// format demands of every implementation: a boolean must never come out as
// integer 0/1.
func Encode(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case string:
		return String(val)
	case bool:
		return Bool(val)
	case int:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case []any:
		elems := make([]Value, len(val))
		for i, item := range val {
			elems[i] = Encode(item)
		}
		return Value{Kind: KindList, List: elems}
	case []string:
		elems := make([]Value, len(val))
		for i, item := range val {
			elems[i] = String(item)
		}
		return Value{Kind: KindList, List: elems}
	case map[string]any:
		fields := make(map[string]Value, len(val))
		for k, item := range val {
			fields[k] = Encode(item)
		}
		return Value{Kind: KindMap, Map: fields}
	default:
		return String(fmt.Sprintf("%v", val))
	}
}
