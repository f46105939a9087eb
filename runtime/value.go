package pruntime

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

type ValueKind int

const (
	NullKind ValueKind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	ListKind
	ObjectKind
)

const floatEpsilon = 2.220446049250313e-16

// Value is the dynamic value manipulated by the evaluator and interpreter.
// The zero Value is Null.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	obj  map[string]Value
}

func Null() Value {
	return Value{}
}

func Bool(v bool) Value {
	return Value{kind: BoolKind, b: v}
}

func Int(v int64) Value {
	return Value{kind: IntKind, i: v}
}

func Float(v float64) Value {
	return Value{kind: FloatKind, f: v}
}

func Str(v string) Value {
	return Value{kind: StringKind, s: v}
}

// List wraps items without copying.
func List(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: ListKind, list: items}
}

// Object wraps fields without copying.
func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: ObjectKind, obj: fields}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == NullKind
}

func (v Value) IsNumber() bool {
	return v.kind == IntKind || v.kind == FloatKind
}

// Items returns the list payload, or nil for non-lists.
func (v Value) Items() []Value {
	if v.kind != ListKind {
		return nil
	}
	return v.list
}

// Fields returns the object payload, or nil for non-objects.
func (v Value) Fields() map[string]Value {
	if v.kind != ObjectKind {
		return nil
	}
	return v.obj
}

// Clone copies lists and objects deeply so in-place edits never alias
// a value still held elsewhere.
func (v Value) Clone() Value {
	switch v.kind {
	case ListKind:
		out := make([]Value, len(v.list))
		for i, it := range v.list {
			out[i] = it.Clone()
		}
		return List(out)
	case ObjectKind:
		out := make(map[string]Value, len(v.obj))
		for k, it := range v.obj {
			out[k] = it.Clone()
		}
		return Object(out)
	default:
		return v
	}
}

func (v Value) TypeName() string {
	switch v.kind {
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case ListKind:
		return "list"
	case ObjectKind:
		return "object"
	default:
		return "null"
	}
}

func (v Value) Truthy() bool {
	switch v.kind {
	case BoolKind:
		return v.b
	case IntKind:
		return v.i != 0
	case FloatKind:
		return v.f != 0
	case StringKind:
		return v.s != ""
	case ListKind:
		return len(v.list) > 0
	case ObjectKind:
		return len(v.obj) > 0
	default:
		return false
	}
}

// Equal is structural; floats compare within an epsilon and int/float never
// compare equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case NullKind:
		return true
	case BoolKind:
		return v.b == o.b
	case IntKind:
		return v.i == o.i
	case FloatKind:
		return math.Abs(v.f-o.f) < floatEpsilon
	case StringKind:
		return v.s == o.s
	case ListKind:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case ObjectKind:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, a := range v.obj {
			b, ok := o.obj[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case BoolKind:
		return strconv.FormatBool(v.b)
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return formatFloat(v.f)
	case StringKind:
		return v.s
	case ListKind:
		parts := make([]string, len(v.list))
		for i, it := range v.list {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ObjectKind:
		keys := sortedKeys(v.obj)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.obj[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (v Value) AsInt() int64 {
	switch v.kind {
	case BoolKind:
		if v.b {
			return 1
		}
		return 0
	case IntKind:
		return v.i
	case FloatKind:
		return int64(v.f)
	case StringKind:
		n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0
		}
		return n
	case ListKind:
		return int64(len(v.list))
	default:
		return 0
	}
}

func (v Value) AsFloat() float64 {
	switch v.kind {
	case BoolKind:
		if v.b {
			return 1
		}
		return 0
	case IntKind:
		return float64(v.i)
	case FloatKind:
		return v.f
	case StringKind:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0
		}
		return f
	case ListKind:
		return float64(len(v.list))
	default:
		return 0
	}
}

// AsList turns strings into their runes and wraps scalars in a one-item list.
func (v Value) AsList() []Value {
	switch v.kind {
	case ListKind:
		return v.list
	case NullKind:
		return nil
	case StringKind:
		out := make([]Value, 0, utf8.RuneCountInString(v.s))
		for _, r := range v.s {
			out = append(out, Str(string(r)))
		}
		return out
	default:
		return []Value{v}
	}
}

// Len is the rune count for strings, the item count for lists and objects.
func (v Value) Len() int {
	switch v.kind {
	case StringKind:
		return utf8.RuneCountInString(v.s)
	case ListKind:
		return len(v.list)
	case ObjectKind:
		return len(v.obj)
	default:
		return 0
	}
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
