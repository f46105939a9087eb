package pruntime

import (
	"strings"

	"github.com/gosuda/prism/ast"
)

// maxRangeLen caps the number of elements a range may produce.
const maxRangeLen = 1_000_000

// Eval evaluates expr against env. It never fails: unknown names, type
// mismatches and out-of-range access all degrade to Null.
func Eval(e ast.Expr, env Env) Value {
	switch ex := e.(type) {
	case nil:
		return Null()
	case ast.NullLit:
		return Null()
	case ast.BoolLit:
		return Bool(ex.Value)
	case ast.IntLit:
		return Int(ex.Value)
	case ast.FloatLit:
		return Float(ex.Value)
	case ast.StringLit:
		return Str(ex.Value)
	case ast.VarRef:
		if env == nil {
			return Null()
		}
		v, _ := env.Lookup(ex.Name)
		return v
	case ast.PropertyExpr:
		obj := Eval(ex.Object, env)
		return property(obj, ex.Name)
	case ast.IndexExpr:
		return index(Eval(ex.Object, env), Eval(ex.Index, env))
	case ast.UnaryExpr:
		return unaryOp(ex.Op, Eval(ex.Expr, env))
	case ast.BinaryExpr:
		switch ex.Op {
		case "and", "&&":
			if !Eval(ex.Left, env).Truthy() {
				return Bool(false)
			}
			return Bool(Eval(ex.Right, env).Truthy())
		case "or", "||":
			if Eval(ex.Left, env).Truthy() {
				return Bool(true)
			}
			return Bool(Eval(ex.Right, env).Truthy())
		}
		return binaryOp(ex.Op, Eval(ex.Left, env), Eval(ex.Right, env))
	case ast.TernaryExpr:
		if Eval(ex.Cond, env).Truthy() {
			return Eval(ex.True, env)
		}
		return Eval(ex.False, env)
	case ast.CallExpr:
		return CallBuiltin(ex.Name, evalArgs(ex.Args, env))
	case ast.MethodCallExpr:
		return CallMethod(Eval(ex.Object, env), ex.Method, evalArgs(ex.Args, env))
	case ast.ListLit:
		items := make([]Value, 0, len(ex.Items))
		for _, it := range ex.Items {
			if sp, ok := it.(ast.SpreadExpr); ok {
				inner := Eval(sp.Expr, env)
				if inner.Kind() == ListKind {
					items = append(items, inner.Items()...)
					continue
				}
				items = append(items, inner)
				continue
			}
			items = append(items, Eval(it, env))
		}
		return List(items)
	case ast.ObjectLit:
		fields := make(map[string]Value, len(ex.Fields))
		for _, f := range ex.Fields {
			fields[f.Key] = Eval(f.Value, env)
		}
		return Object(fields)
	case ast.InterpExpr:
		var b strings.Builder
		for _, part := range ex.Parts {
			if part.Expr != nil {
				b.WriteString(Eval(part.Expr, env).String())
				continue
			}
			b.WriteString(part.Text)
		}
		return Str(b.String())
	case ast.LambdaExpr:
		return Null()
	case ast.RangeExpr:
		start := Eval(ex.Start, env).AsInt()
		end := Eval(ex.End, env).AsInt()
		if ex.Inclusive {
			end++
		}
		return rangeList(start, end, 1)
	case ast.SpreadExpr:
		return Eval(ex.Expr, env)
	case ast.PipeExpr:
		return pipe(Eval(ex.Value, env), ex.Transform, env)
	case ast.CoalesceExpr:
		v := Eval(ex.Value, env)
		if v.IsNull() {
			return Eval(ex.Default, env)
		}
		return v
	default:
		return Null()
	}
}

func evalArgs(args []ast.Expr, env Env) []Value {
	out := make([]Value, len(args))
	for i, a := range args {
		out[i] = Eval(a, env)
	}
	return out
}

// pipe feeds v as the first argument of the transform: a call gets it
// prepended, a bare name is tried as a builtin and then as a method.
func pipe(v Value, transform ast.Expr, env Env) Value {
	switch t := transform.(type) {
	case ast.CallExpr:
		args := append([]Value{v}, evalArgs(t.Args, env)...)
		if HasBuiltin(t.Name) {
			return CallBuiltin(t.Name, args)
		}
		return CallMethod(v, t.Name, args[1:])
	case ast.VarRef:
		if HasBuiltin(t.Name) {
			return CallBuiltin(t.Name, []Value{v})
		}
		return CallMethod(v, t.Name, nil)
	case ast.MethodCallExpr:
		return CallMethod(Eval(t.Object, env), t.Method, append([]Value{v}, evalArgs(t.Args, env)...))
	default:
		return v
	}
}

func property(obj Value, name string) Value {
	switch obj.Kind() {
	case ObjectKind:
		if v, ok := obj.Fields()[name]; ok {
			return v
		}
		return Null()
	case ListKind, StringKind:
		if name == "len" || name == "length" {
			return Int(int64(obj.Len()))
		}
	}
	return Null()
}

func index(obj, idx Value) Value {
	switch obj.Kind() {
	case ListKind:
		if !idx.IsNumber() {
			return Null()
		}
		items := obj.Items()
		i, ok := wrapIndex(idx.AsInt(), len(items))
		if !ok {
			return Null()
		}
		return items[i]
	case StringKind:
		if !idx.IsNumber() {
			return Null()
		}
		rs := []rune(obj.String())
		i, ok := wrapIndex(idx.AsInt(), len(rs))
		if !ok {
			return Null()
		}
		return Str(string(rs[i]))
	case ObjectKind:
		if v, ok := obj.Fields()[idx.String()]; ok {
			return v
		}
	}
	return Null()
}

// wrapIndex maps negative indices from the end and reports range validity.
func wrapIndex(i int64, n int) (int, bool) {
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, false
	}
	return int(i), true
}

func rangeList(start, end, step int64) Value {
	if step == 0 {
		return List(nil)
	}
	items := []Value{}
	if step > 0 {
		for i := start; i < end && len(items) < maxRangeLen; i += step {
			items = append(items, Int(i))
		}
	} else {
		for i := start; i > end && len(items) < maxRangeLen; i += step {
			items = append(items, Int(i))
		}
	}
	return List(items)
}
