package pruntime

import (
	"math"
	"strings"
)

func unaryOp(op string, v Value) Value {
	switch op {
	case "not", "!":
		return Bool(!v.Truthy())
	case "-":
		switch v.Kind() {
		case IntKind:
			return Int(-v.AsInt())
		case FloatKind:
			return Float(-v.AsFloat())
		default:
			return Int(-v.AsInt())
		}
	case "+":
		if v.IsNumber() {
			return v
		}
		return Int(v.AsInt())
	case "typeof":
		return Str(v.TypeName())
	case "len":
		return Int(int64(v.Len()))
	default:
		return Null()
	}
}

func binaryOp(op string, l, r Value) Value {
	switch op {
	case "+":
		return add(l, r)
	case "-", "*", "/", "%", "**":
		return arith(op, l, r)
	case "++":
		return Str(l.String() + r.String())
	case "==":
		return Bool(l.Equal(r))
	case "!=":
		return Bool(!l.Equal(r))
	case "<":
		return Bool(l.AsFloat() < r.AsFloat())
	case "<=":
		return Bool(l.AsFloat() <= r.AsFloat())
	case ">":
		return Bool(l.AsFloat() > r.AsFloat())
	case ">=":
		return Bool(l.AsFloat() >= r.AsFloat())
	case "in":
		return Bool(contains(r, l))
	case "not in":
		return Bool(!contains(r, l))
	case "and", "&&":
		return Bool(l.Truthy() && r.Truthy())
	case "or", "||":
		return Bool(l.Truthy() || r.Truthy())
	default:
		return Null()
	}
}

func add(l, r Value) Value {
	switch {
	case l.Kind() == IntKind && r.Kind() == IntKind:
		return Int(l.AsInt() + r.AsInt())
	case l.IsNumber() && r.IsNumber():
		return Float(l.AsFloat() + r.AsFloat())
	case l.Kind() == StringKind || r.Kind() == StringKind:
		return Str(l.String() + r.String())
	case l.Kind() == ListKind && r.Kind() == ListKind:
		out := make([]Value, 0, len(l.Items())+len(r.Items()))
		out = append(out, l.Items()...)
		out = append(out, r.Items()...)
		return List(out)
	default:
		return Int(l.AsInt() + r.AsInt())
	}
}

func arith(op string, l, r Value) Value {
	if op == "*" {
		if l.Kind() == StringKind && r.Kind() == IntKind {
			return repeat(l.String(), r.AsInt())
		}
		if l.Kind() == IntKind && r.Kind() == StringKind {
			return repeat(r.String(), l.AsInt())
		}
	}
	if l.Kind() == IntKind && r.Kind() == IntKind {
		a, b := l.AsInt(), r.AsInt()
		switch op {
		case "-":
			return Int(a - b)
		case "*":
			return Int(a * b)
		case "/":
			if b == 0 {
				return Int(0)
			}
			return Int(a / b)
		case "%":
			if b == 0 {
				return Int(0)
			}
			return Int(a % b)
		case "**":
			if b < 0 {
				return Float(math.Pow(float64(a), float64(b)))
			}
			return Int(ipow(a, b))
		}
	}
	if l.IsNumber() && r.IsNumber() {
		a, b := l.AsFloat(), r.AsFloat()
		switch op {
		case "-":
			return Float(a - b)
		case "*":
			return Float(a * b)
		case "/":
			if b == 0 {
				return Int(0)
			}
			return Float(a / b)
		case "%":
			if b == 0 {
				return Int(0)
			}
			return Float(math.Mod(a, b))
		case "**":
			return Float(math.Pow(a, b))
		}
	}
	// Non-numeric operands fall back to integer coercion.
	return arith(op, Int(l.AsInt()), Int(r.AsInt()))
}

func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func repeat(s string, n int64) Value {
	if n <= 0 || s == "" {
		return Str("")
	}
	if n > maxRangeLen/int64(len(s)) {
		n = maxRangeLen / int64(len(s))
	}
	return Str(strings.Repeat(s, int(n)))
}

func contains(container, item Value) bool {
	switch container.Kind() {
	case ListKind:
		for _, it := range container.Items() {
			if it.Equal(item) {
				return true
			}
		}
		return false
	case StringKind:
		return strings.Contains(container.String(), item.String())
	case ObjectKind:
		_, ok := container.Fields()[item.String()]
		return ok
	default:
		return false
	}
}
