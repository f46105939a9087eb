package prism

import (
	"github.com/gosuda/prism/ast"
	"github.com/gosuda/prism/parser"
	pruntime "github.com/gosuda/prism/runtime"
)

// Compile parses a document and builds a running instance from it.
func Compile(src string, opts Options) (*Instance, error) {
	app, err := parser.ParseApp(src)
	if err != nil {
		return nil, err
	}
	return New(app, opts), nil
}

// Parse only returns the application definition for tooling use.
func Parse(src string) (*ast.App, error) {
	return parser.ParseApp(src)
}

// NewState seeds a store from the app's state block in declaration order,
// so later fields may read earlier ones, and registers its computed fields.
func NewState(app *ast.App, mode pruntime.ScopeMode) *pruntime.State {
	st := pruntime.NewState(mode)
	for _, name := range app.StateOrder {
		st.Set(name, pruntime.Eval(app.State[name], st))
	}
	for name, expr := range app.Computed {
		st.SetComputed(name, expr)
	}
	return st
}
