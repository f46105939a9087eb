package pruntime

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// CallMethod dispatches on (receiver kind, name). Unmatched pairs yield Null.
func CallMethod(recv Value, name string, args []Value) Value {
	if name == "to_string" {
		return Str(recv.String())
	}
	switch recv.Kind() {
	case StringKind:
		return stringMethod(recv.String(), name, args)
	case ListKind:
		return listMethod(recv.Items(), name, args)
	case ObjectKind:
		return objectMethod(recv.Fields(), name, args)
	case IntKind:
		if name == "abs" {
			n := recv.AsInt()
			if n < 0 {
				n = -n
			}
			return Int(n)
		}
	case FloatKind:
		if name == "abs" {
			f := recv.AsFloat()
			if f < 0 {
				f = -f
			}
			return Float(f)
		}
	}
	return Null()
}

func stringMethod(s, name string, args []Value) Value {
	switch name {
	case "upper":
		return Str(upperCaser.String(s))
	case "lower":
		return Str(lowerCaser.String(s))
	case "trim":
		return Str(strings.TrimSpace(s))
	case "trim_start":
		return Str(strings.TrimLeftFunc(s, unicode.IsSpace))
	case "trim_end":
		return Str(strings.TrimRightFunc(s, unicode.IsSpace))
	case "len", "chars":
		return Int(int64(utf8.RuneCountInString(s)))
	case "split":
		sep := " "
		if len(args) > 0 {
			sep = args[0].String()
		}
		var parts []string
		if sep == "" {
			parts = strings.Split(s, "")
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = Str(p)
		}
		return List(out)
	case "join":
		if len(args) == 0 || args[0].Kind() != ListKind {
			return Str(s)
		}
		return Str(joinValues(args[0].Items(), s))
	case "replace":
		if len(args) < 2 {
			return Str(s)
		}
		return Str(strings.ReplaceAll(s, args[0].String(), args[1].String()))
	case "starts_with":
		return Bool(strings.HasPrefix(s, arg(args, 0).String()))
	case "ends_with":
		return Bool(strings.HasSuffix(s, arg(args, 0).String()))
	case "contains":
		return Bool(strings.Contains(s, arg(args, 0).String()))
	case "slice":
		rs := []rune(s)
		lo, hi := sliceBounds(args, len(rs))
		return Str(string(rs[lo:hi]))
	case "repeat":
		n := int64(1)
		if len(args) > 0 {
			n = args[0].AsInt()
		}
		return repeat(s, n)
	case "pad_start", "pad_end":
		width := arg(args, 0).AsInt()
		pad := ' '
		if len(args) > 1 {
			if r, _ := utf8.DecodeRuneInString(args[1].String()); r != utf8.RuneError {
				pad = r
			}
		}
		n := width - int64(utf8.RuneCountInString(s))
		if n <= 0 {
			return Str(s)
		}
		fill := repeat(string(pad), n).String()
		if name == "pad_start" {
			return Str(fill + s)
		}
		return Str(s + fill)
	}
	return Null()
}

func listMethod(items []Value, name string, args []Value) Value {
	switch name {
	case "len":
		return Int(int64(len(items)))
	case "first":
		if len(items) == 0 {
			return Null()
		}
		return items[0]
	case "last":
		if len(items) == 0 {
			return Null()
		}
		return items[len(items)-1]
	case "get":
		i, ok := wrapIndex(arg(args, 0).AsInt(), len(items))
		if !ok {
			return Null()
		}
		return items[i]
	case "slice":
		lo, hi := sliceBounds(args, len(items))
		return List(append([]Value(nil), items[lo:hi]...))
	case "contains":
		return Bool(contains(List(items), arg(args, 0)))
	case "index_of":
		item := arg(args, 0)
		for i, it := range items {
			if it.Equal(item) {
				return Int(int64(i))
			}
		}
		return Int(-1)
	case "join":
		sep := ","
		if len(args) > 0 {
			sep = args[0].String()
		}
		return Str(joinValues(items, sep))
	case "reverse":
		out := make([]Value, len(items))
		for i, it := range items {
			out[len(items)-1-i] = it
		}
		return List(out)
	case "sort":
		out := append([]Value(nil), items...)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].AsFloat() < out[j].AsFloat()
		})
		return List(out)
	case "unique":
		out := []Value{}
		for _, it := range items {
			if !contains(List(out), it) {
				out = append(out, it)
			}
		}
		return List(out)
	case "flatten":
		out := []Value{}
		for _, it := range items {
			if it.Kind() == ListKind {
				out = append(out, it.Items()...)
				continue
			}
			out = append(out, it)
		}
		return List(out)
	case "sum":
		var sum float64
		for _, it := range items {
			sum += it.AsFloat()
		}
		if sum == float64(int64(sum)) {
			return Int(int64(sum))
		}
		return Float(sum)
	case "min", "max":
		if len(items) == 0 {
			return Null()
		}
		best := items[0]
		for _, it := range items[1:] {
			if (name == "min" && it.AsFloat() < best.AsFloat()) || (name == "max" && it.AsFloat() > best.AsFloat()) {
				best = it
			}
		}
		return best
	case "avg":
		if len(items) == 0 {
			return Null()
		}
		var sum float64
		for _, it := range items {
			sum += it.AsFloat()
		}
		return Float(sum / float64(len(items)))
	}
	return Null()
}

func objectMethod(fields map[string]Value, name string, args []Value) Value {
	switch name {
	case "keys":
		keys := sortedKeys(fields)
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = Str(k)
		}
		return List(out)
	case "values":
		keys := sortedKeys(fields)
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = fields[k]
		}
		return List(out)
	case "entries":
		keys := sortedKeys(fields)
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = List([]Value{Str(k), fields[k]})
		}
		return List(out)
	case "has":
		_, ok := fields[arg(args, 0).String()]
		return Bool(ok)
	case "get":
		if v, ok := fields[arg(args, 0).String()]; ok {
			return v
		}
		return arg(args, 1)
	case "len":
		return Int(int64(len(fields)))
	}
	return Null()
}

func sliceBounds(args []Value, n int) (int, int) {
	lo := int(max(arg(args, 0).AsInt(), 0))
	hi := n
	if len(args) > 1 {
		hi = int(max(args[1].AsInt(), 0))
	}
	hi = min(hi, n)
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

func joinValues(items []Value, sep string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, sep)
}
