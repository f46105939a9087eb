package render

import (
	"fmt"

	"github.com/gosuda/prism/ast"
	pruntime "github.com/gosuda/prism/runtime"
)

// prop resolves a property to a value. Node content is reachable as
// "content" whether it was written inline or as a property.
func (e *Engine) prop(n *ast.ViewNode, name string, env pruntime.Env) (pruntime.Value, bool) {
	if name == "content" && n.Content != nil {
		return propToValue(*n.Content, env), true
	}
	p, ok := n.Prop(name)
	if !ok {
		return pruntime.Null(), false
	}
	return propToValue(p, env), true
}

func propToValue(p ast.PropValue, env pruntime.Env) pruntime.Value {
	switch p.Kind {
	case ast.PropStatic:
		return pruntime.Eval(p.Static, env)
	case ast.PropExpr:
		return pruntime.Eval(p.Expr, env)
	case ast.PropColor:
		return pruntime.Str(fmt.Sprintf("#%06x", p.Color.U32()))
	default:
		return pruntime.Str(p.Handler)
	}
}

func (e *Engine) intProp(n *ast.ViewNode, name string, env pruntime.Env, def int) int {
	v, ok := e.prop(n, name, env)
	if !ok {
		return def
	}
	return int(v.AsInt())
}

func (e *Engine) floatProp(n *ast.ViewNode, name string, env pruntime.Env, def float64) float64 {
	v, ok := e.prop(n, name, env)
	if !ok {
		return def
	}
	return v.AsFloat()
}

func (e *Engine) stringProp(n *ast.ViewNode, name string, env pruntime.Env, def string) string {
	v, ok := e.prop(n, name, env)
	if !ok {
		return def
	}
	return v.String()
}

func (e *Engine) boolProp(n *ast.ViewNode, name string, env pruntime.Env, def bool) bool {
	v, ok := e.prop(n, name, env)
	if !ok {
		return def
	}
	return v.Truthy()
}

// colorProp accepts a color literal or any value that parses as one.
func (e *Engine) colorProp(n *ast.ViewNode, name string, env pruntime.Env, def ast.Color) ast.Color {
	p, ok := n.Prop(name)
	if !ok {
		return def
	}
	if p.Kind == ast.PropColor {
		return p.Color
	}
	if c, ok := ast.ParseColor(propToValue(p, env).String()); ok {
		return c
	}
	return def
}

// sizeProp is a non-negative integer property.
func (e *Engine) sizeProp(n *ast.ViewNode, name string, env pruntime.Env, def int) int {
	return max(e.intProp(n, name, env, def), 0)
}

func (e *Engine) visible(n *ast.ViewNode, env pruntime.Env) bool {
	return e.boolProp(n, "visible", env, true)
}

// handler returns the action bound to a handler property with its arguments
// evaluated now.
func (e *Engine) handler(n *ast.ViewNode, name string, env pruntime.Env) (string, []pruntime.Value, bool) {
	p, ok := n.Prop(name)
	if !ok {
		return "", nil, false
	}
	switch p.Kind {
	case ast.PropHandler:
		return p.Handler, nil, p.Handler != ""
	case ast.PropEventHandler:
		args := make([]pruntime.Value, len(p.Args))
		for i, a := range p.Args {
			args[i] = pruntime.Eval(a, env)
		}
		return p.Handler, args, p.Handler != ""
	case ast.PropStatic, ast.PropExpr:
		s := propToValue(p, env).String()
		return s, nil, s != ""
	default:
		return "", nil, false
	}
}

func (e *Engine) binding(n *ast.ViewNode, env pruntime.Env) string {
	name, _, _ := e.handler(n, "bind", env)
	return name
}

func (e *Engine) bound(env pruntime.Env, binding string) string {
	if binding == "" || env == nil {
		return ""
	}
	v, _ := env.Lookup(binding)
	return v.String()
}
