package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuda/prism/ast"
	pruntime "github.com/gosuda/prism/runtime"
)

// Report writes one line per visible node with its measured size, indented
// by depth.
func (e *Engine) Report(w io.Writer, root *ast.ViewNode, env pruntime.Env, width int) error {
	e.depth = 0
	e.slots = e.slots[:0]
	if root == nil {
		return nil
	}
	return e.report(w, root, env, max(width, 0), 0)
}

func (e *Engine) report(w io.Writer, n *ast.ViewNode, env pruntime.Env, limit, indent int) error {
	mw, mh := e.measure(n, env, limit)
	name := n.Kind.String()
	if n.Kind == ast.KindComponent {
		name = n.Component
	}
	var extra string
	switch n.Kind {
	case ast.KindButton:
		content := e.stringProp(n, "content", env, "Button")
		extra = fmt.Sprintf(" content=%q tw=%d", content, e.textWidth(content, buttonText))
	case ast.KindText, ast.KindLink:
		extra = fmt.Sprintf(" content=%q", e.stringProp(n, "content", env, ""))
	}
	if _, err := fmt.Fprintf(w, "%s%s width_limit=%d -> (w=%d, h=%d)%s\n", strings.Repeat(" ", indent), name, limit, mw, mh, extra); err != nil {
		return err
	}

	child := limit
	switch n.Kind {
	case ast.KindColumn, ast.KindBox, ast.KindStack, ast.KindScroll, ast.KindList, ast.KindRow, ast.KindGrid:
		child = limit - 2*e.sizeProp(n, "padding", env, 0)
	case ast.KindCard:
		child = limit - 2*cardInset
	}
	for _, c := range n.Children {
		if !e.visible(c, env) {
			continue
		}
		if err := e.report(w, c, env, max(child, 0), indent+2); err != nil {
			return err
		}
	}
	return nil
}
