package render

import (
	"github.com/gosuda/prism/ast"
	pruntime "github.com/gosuda/prism/runtime"
)

// eachItem calls fn once per element of the node's items list with the item
// and its index bound over env.
func (e *Engine) eachItem(n *ast.ViewNode, env pruntime.Env, fn func(pruntime.Env)) {
	items, _ := e.prop(n, "items", env)
	as := e.stringProp(n, "as", env, "item")
	index := e.stringProp(n, "index", env, "index")
	for i, it := range items.AsList() {
		fn(pruntime.Overlay{Parent: env, Vars: map[string]pruntime.Value{
			as:    it,
			index: pruntime.Int(int64(i)),
		}})
	}
}

// enterComponent resolves a component use site. A defined component expands
// to its declared children, with the use-site properties bound as variables
// and the use-site children available to slot nodes. An undefined one
// forwards its own children.
func (e *Engine) enterComponent(n *ast.ViewNode, env pruntime.Env) ([]*ast.ViewNode, pruntime.Env, bool) {
	if e.depth >= maxComponentDepth {
		return nil, env, false
	}
	e.depth++
	def := e.components[n.Component]
	if def == nil {
		var outer []*ast.ViewNode
		if len(e.slots) > 0 {
			outer = e.slots[len(e.slots)-1]
		}
		e.slots = append(e.slots, outer)
		return n.Children, env, true
	}
	vars := make(map[string]pruntime.Value, len(n.Props))
	for name, p := range n.Props {
		vars[name] = propToValue(p, env)
	}
	e.slots = append(e.slots, n.Children)
	return def.Children, pruntime.Overlay{Parent: env, Vars: vars}, true
}

func (e *Engine) leaveComponent() {
	e.depth--
	e.slots = e.slots[:len(e.slots)-1]
}

// slotChildren returns what a slot node shows: the children of the
// enclosing component use site, or its own children outside a component.
func (e *Engine) slotChildren(n *ast.ViewNode) []*ast.ViewNode {
	if len(e.slots) == 0 || e.slots[len(e.slots)-1] == nil {
		return n.Children
	}
	return e.slots[len(e.slots)-1]
}

// enterSlot hides the current slot while its own content is laid out, so a
// slot inside slot content resolves one level further out.
func (e *Engine) enterSlot() func() {
	if len(e.slots) == 0 {
		return func() {}
	}
	top := e.slots[len(e.slots)-1]
	e.slots = e.slots[:len(e.slots)-1]
	return func() { e.slots = append(e.slots, top) }
}
