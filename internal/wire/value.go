// Package wire defines the self-describing value format exchanged with
// clients, and the codec between that format and native Go values.
//
// WHY A TAGGED UNION INSTEAD OF RAW JSON?
// Plain JSON cannot distinguish an integer from a float (both are "number"),
// and we need that distinction to survive the round trip into the script
// sandbox and back. Every Value therefore carries an explicit Kind tag, and
// exactly one payload field is meaningful at a time. New kinds can be added
// later without breaking old clients — unknown tags decode to null.
package wire

// Kind identifies which variant of the union a Value holds.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindNull   Kind = "null"
	KindList   Kind = "list"
	KindMap    Kind = "map"
)

// Value is one wire value. Exactly one payload field is set, selected by Kind.
// Lists and maps nest to arbitrary depth; freshly decoded values are acyclic
// by construction.
//
// JSON examples:
//
//	{"kind":"int","int":42}
//	{"kind":"list","list":[{"kind":"string","str":"a"}]}
//	{"kind":"null"}
type Value struct {
	Kind  Kind             `json:"kind"`
	Str   string           `json:"str,omitempty"`
	Int   int64            `json:"int,omitempty"`
	Float float64          `json:"float,omitempty"`
	Bool  bool             `json:"bool,omitempty"`
	List  []Value          `json:"list,omitempty"`
	Map   map[string]Value `json:"map,omitempty"`
}

// Constructors. Prefer these over struct literals so the Kind tag and its
// payload field can never disagree.

func String(s string) Value { return Value{Kind: KindString, Str: s} }

func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func Null() Value { return Value{Kind: KindNull} }

func List(elems ...Value) Value { return Value{Kind: KindList, List: elems} }

func Map(fields map[string]Value) Value { return Value{Kind: KindMap, Map: fields} }

// IsNull reports whether v is the null variant. A zero Value (empty Kind)
// also counts as null — it is what an absent or unknown tag decodes to.
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == ""
}
