package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gosuda/prism"
	"github.com/gosuda/prism/ast"
	pruntime "github.com/gosuda/prism/runtime"
	"github.com/gosuda/prism/sandbox"
)

func main() {
	action := flag.String("action", "", "dump only this action's statements")
	depth := flag.Int("depth", 0, "maximum view depth to print (0 = all)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: prism-ast [-action name] [-depth n] <file.prism>")
		os.Exit(2)
	}

	src, err := sandbox.New().ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load: %v\n", err)
		os.Exit(1)
	}
	app, err := prism.Parse(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse: %v\n", err)
		os.Exit(1)
	}

	if *action != "" {
		a := app.Actions[*action]
		if a == nil {
			fmt.Fprintf(os.Stderr, "missing action %s\n", *action)
			os.Exit(1)
		}
		dumpAction(a)
		return
	}

	fmt.Printf("app=%q version=%d\n", app.Name, app.Version)
	st := prism.NewState(app, pruntime.ScopeShared)
	for _, name := range app.StateOrder {
		fmt.Printf("state %s = %s\n", name, st.Get(name).String())
	}
	for _, name := range sortedKeys(app.Computed) {
		fmt.Printf("computed %s = %s\n", name, st.Get(name).String())
	}
	for _, name := range sortedKeys(app.Actions) {
		a := app.Actions[name]
		fmt.Printf("action %s(%s) stmts=%d\n", name, strings.Join(a.Params, ", "), len(a.Body))
	}
	for _, name := range sortedKeys(app.Routes) {
		fmt.Printf("route %s -> %s\n", name, app.Routes[name])
	}
	for _, name := range sortedKeys(app.Components) {
		fmt.Printf("component %s\n", name)
		dumpNode(app.Components[name], 1, *depth)
	}
	fmt.Println("view")
	dumpNode(app.View, 1, *depth)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dumpNode(n *ast.ViewNode, level, limit int) {
	if n == nil || (limit > 0 && level > limit) {
		return
	}
	name := n.Kind.String()
	if n.Kind == ast.KindComponent {
		name = n.Component
	}
	var props []string
	for _, k := range sortedKeys(n.Props) {
		props = append(props, k+"="+describeProp(n.Props[k]))
	}
	fmt.Printf("%s%s %s\n", strings.Repeat("  ", level), name, strings.Join(props, " "))
	for _, c := range n.Children {
		dumpNode(c, level+1, limit)
	}
}

func describeProp(p ast.PropValue) string {
	switch p.Kind {
	case ast.PropColor:
		return fmt.Sprintf("#%06x", p.Color.U32())
	case ast.PropHandler:
		return "@" + p.Handler
	case ast.PropEventHandler:
		return fmt.Sprintf("@%s(%d args)", p.Handler, len(p.Args))
	case ast.PropStatic:
		return pruntime.Eval(p.Static, nil).String()
	default:
		return fmt.Sprintf("%T", p.Expr)
	}
}

func dumpAction(a *ast.ActionBlock) {
	fmt.Printf("action=%s params=%v stmts=%d\n", a.Name, a.Params, len(a.Body))
	dumpStatements(a.Body, 1)
}

func dumpStatements(stmts []ast.Statement, level int) {
	pad := strings.Repeat("  ", level)
	for i, st := range stmts {
		switch s := st.(type) {
		case ast.AssignStmt:
			fmt.Printf("%spc %d Assign target=%s index=%v prop=%q\n", pad, i, s.Name, s.Index != nil, s.Property)
		case ast.IfStmt:
			fmt.Printf("%spc %d If then=%d else=%d\n", pad, i, len(s.Then), len(s.Else))
			dumpStatements(s.Then, level+1)
			dumpStatements(s.Else, level+1)
		case ast.ForEachStmt:
			fmt.Printf("%spc %d ForEach item=%s index=%s\n", pad, i, s.Item, s.Index)
			dumpStatements(s.Body, level+1)
		case ast.WhileStmt:
			fmt.Printf("%spc %d While\n", pad, i)
			dumpStatements(s.Body, level+1)
		case ast.CallStmt:
			fmt.Printf("%spc %d Call %s args=%d\n", pad, i, s.Name, len(s.Args))
		case ast.DelayStmt:
			fmt.Printf("%spc %d Delay body=%d\n", pad, i, len(s.Body))
			dumpStatements(s.Body, level+1)
		default:
			fmt.Printf("%spc %d %T\n", pad, i, st)
		}
	}
}
