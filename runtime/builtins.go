package pruntime

import (
	"math"
)

type builtinFunc func(args []Value) Value

var builtins map[string]builtinFunc

func init() {
	builtins = map[string]builtinFunc{
		"abs": func(args []Value) Value {
			if len(args) == 0 {
				return Null()
			}
			if args[0].Kind() == FloatKind {
				return Float(math.Abs(args[0].AsFloat()))
			}
			n := args[0].AsInt()
			if n < 0 {
				n = -n
			}
			return Int(n)
		},
		"min": func(args []Value) Value {
			if len(args) < 2 {
				return Null()
			}
			return Float(math.Min(args[0].AsFloat(), args[1].AsFloat()))
		},
		"max": func(args []Value) Value {
			if len(args) < 2 {
				return Null()
			}
			return Float(math.Max(args[0].AsFloat(), args[1].AsFloat()))
		},
		"floor": roundWith(math.Floor),
		"ceil":  roundWith(math.Ceil),
		"round": roundWith(math.Round),
		"sqrt": func(args []Value) Value {
			if len(args) == 0 {
				return Null()
			}
			return Float(math.Sqrt(args[0].AsFloat()))
		},
		"pow": func(args []Value) Value {
			if len(args) < 2 {
				return Null()
			}
			return arith("**", args[0], args[1])
		},
		"clamp": func(args []Value) Value {
			if len(args) < 3 {
				return Null()
			}
			if args[0].Kind() == IntKind && args[1].Kind() == IntKind && args[2].Kind() == IntKind {
				return Int(min(max(args[0].AsInt(), args[1].AsInt()), args[2].AsInt()))
			}
			return Float(math.Min(math.Max(args[0].AsFloat(), args[1].AsFloat()), args[2].AsFloat()))
		},
		"len": func(args []Value) Value {
			if len(args) == 0 {
				return Null()
			}
			return Int(int64(args[0].Len()))
		},
		"str": func(args []Value) Value {
			if len(args) == 0 {
				return Null()
			}
			return Str(args[0].String())
		},
		"int": func(args []Value) Value {
			if len(args) == 0 {
				return Null()
			}
			return Int(args[0].AsInt())
		},
		"float": func(args []Value) Value {
			if len(args) == 0 {
				return Null()
			}
			return Float(args[0].AsFloat())
		},
		"bool": func(args []Value) Value {
			if len(args) == 0 {
				return Null()
			}
			return Bool(args[0].Truthy())
		},
		"type": func(args []Value) Value {
			return Str(arg(args, 0).TypeName())
		},
		"is_null":   isKind(NullKind),
		"is_list":   isKind(ListKind),
		"is_object": isKind(ObjectKind),
		"is_string": isKind(StringKind),
		"is_number": func(args []Value) Value {
			return Bool(arg(args, 0).IsNumber())
		},
		"list": func(args []Value) Value {
			return List(append([]Value(nil), args...))
		},
		"range": func(args []Value) Value {
			switch len(args) {
			case 0:
				return Null()
			case 1:
				return rangeList(0, args[0].AsInt(), 1)
			case 2:
				return rangeList(args[0].AsInt(), args[1].AsInt(), 1)
			default:
				step := args[2].AsInt()
				if step <= 0 {
					return List(nil)
				}
				return rangeList(args[0].AsInt(), args[1].AsInt(), step)
			}
		},
		"keys": func(args []Value) Value {
			if arg(args, 0).Kind() != ObjectKind {
				return List(nil)
			}
			return CallMethod(args[0], "keys", nil)
		},
		"values": func(args []Value) Value {
			if arg(args, 0).Kind() != ObjectKind {
				return List(nil)
			}
			return CallMethod(args[0], "values", nil)
		},
		"json_encode": func(args []Value) Value {
			if len(args) == 0 {
				return Null()
			}
			return Str(EncodeJSON(args[0]))
		},
	}
}

func HasBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// CallBuiltin invokes a free function; unknown names yield Null.
func CallBuiltin(name string, args []Value) Value {
	fn, ok := builtins[name]
	if !ok {
		return Null()
	}
	return fn(args)
}

func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Null()
}

func roundWith(f func(float64) float64) builtinFunc {
	return func(args []Value) Value {
		if len(args) == 0 {
			return Null()
		}
		return Int(int64(f(args[0].AsFloat())))
	}
}

func isKind(k ValueKind) builtinFunc {
	return func(args []Value) Value {
		return Bool(arg(args, 0).Kind() == k)
	}
}
