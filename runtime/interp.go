package pruntime

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gosuda/prism/ast"
)

// maxCallDepth bounds nested Call statements; deeper calls are skipped.
const maxCallDepth = 256

type resultKind int

const (
	resultNone resultKind = iota
	resultReturn
	resultBreak
	resultContinue
)

type execResult struct {
	kind  resultKind
	value Value
}

// Interpreter runs action bodies against a State. It is the only writer of
// the state; evaluation and layout only read it.
type Interpreter struct {
	actions    map[string]*ast.ActionBlock
	state      *State
	logger     *log.Logger
	outputs    []Output
	outputHook func(Output)
	route      string
	navigated  bool
	depth      int
}

func NewInterpreter(actions map[string]*ast.ActionBlock, state *State) *Interpreter {
	if actions == nil {
		actions = map[string]*ast.ActionBlock{}
	}
	return &Interpreter{
		actions: actions,
		state:   state,
		logger:  log.New(io.Discard),
	}
}

func (in *Interpreter) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	in.logger = l
}

func (in *Interpreter) SetOutputHook(hook func(Output)) {
	in.outputHook = hook
}

func (in *Interpreter) State() *State {
	return in.state
}

const maxOutputs = 256

// Outputs returns the effects buffered since the last call and resets the
// buffer. Nothing is buffered while an output hook is installed.
func (in *Interpreter) Outputs() []Output {
	out := in.outputs
	in.outputs = nil
	return out
}

func (in *Interpreter) Route() string {
	return in.route
}

// TakeNavigation reports a route requested by a navigate statement since
// the previous call.
func (in *Interpreter) TakeNavigation() (string, bool) {
	if !in.navigated {
		return "", false
	}
	in.navigated = false
	return in.route, true
}

// RunAction binds args positionally (missing ones are Null), runs the body
// and discards any returned value. It reports false for unknown actions.
func (in *Interpreter) RunAction(name string, args []Value) bool {
	action := in.actions[name]
	if action == nil {
		return false
	}
	if in.depth >= maxCallDepth {
		in.logger.Warn("call depth exceeded", "action", name)
		return true
	}
	in.depth++
	in.state.enterCall()
	defer func() {
		in.state.exitCall()
		in.depth--
	}()

	for i, p := range action.Params {
		v := Null()
		if i < len(args) {
			v = args[i]
		}
		in.state.SetLocal(p, v)
	}
	in.runBlock(action.Body)
	return true
}

func (in *Interpreter) eval(e ast.Expr) Value {
	return Eval(e, in.state)
}

func (in *Interpreter) runBlock(stmts []ast.Statement) execResult {
	for _, stmt := range stmts {
		res := in.runStatement(stmt)
		if res.kind != resultNone {
			return res
		}
	}
	return execResult{kind: resultNone}
}

func (in *Interpreter) runStatement(stmt ast.Statement) execResult {
	switch s := stmt.(type) {
	case ast.AssignStmt:
		in.assign(s)
		return execResult{kind: resultNone}
	case ast.IfStmt:
		if in.eval(s.Cond).Truthy() {
			return in.runBlock(s.Then)
		}
		return in.runBlock(s.Else)
	case ast.ForEachStmt:
		items := in.eval(s.Collection).AsList()
		for i, it := range items {
			in.state.SetLocal(s.Item, it)
			if s.Index != "" {
				in.state.SetLocal(s.Index, Int(int64(i)))
			}
			res := in.runBlock(s.Body)
			switch res.kind {
			case resultBreak:
				return execResult{kind: resultNone}
			case resultReturn:
				return res
			}
		}
		return execResult{kind: resultNone}
	case ast.WhileStmt:
		for in.eval(s.Cond).Truthy() {
			res := in.runBlock(s.Body)
			switch res.kind {
			case resultBreak:
				return execResult{kind: resultNone}
			case resultReturn:
				return res
			}
		}
		return execResult{kind: resultNone}
	case ast.ReturnStmt:
		v := Null()
		if s.Value != nil {
			v = in.eval(s.Value)
		}
		return execResult{kind: resultReturn, value: v}
	case ast.BreakStmt:
		return execResult{kind: resultBreak}
	case ast.ContinueStmt:
		return execResult{kind: resultContinue}
	case ast.CallStmt:
		args := make([]Value, len(s.Args))
		for i, a := range s.Args {
			args[i] = in.eval(a)
		}
		if !in.RunAction(s.Name, args) {
			in.logger.Debug("call to unknown action", "action", s.Name)
		}
		return execResult{kind: resultNone}
	case ast.LogStmt:
		v := in.eval(s.Expr)
		in.logger.Info("log", "value", v.String())
		in.emit(Output{Kind: OutputLog, Text: v.String(), Data: v})
		return execResult{kind: resultNone}
	case ast.EmitStmt:
		data := Null()
		if s.Data != nil {
			data = in.eval(s.Data)
		}
		in.logger.Info("event", "event", s.Event, "data", data.String())
		in.emit(Output{Kind: OutputEmit, Text: s.Event + ": " + data.String(), Event: s.Event, Data: data})
		return execResult{kind: resultNone}
	case ast.NavigateStmt:
		route := in.eval(s.Target).String()
		in.route = route
		in.navigated = true
		in.state.Invalidate()
		in.logger.Debug("navigate", "route", route)
		in.emit(Output{Kind: OutputNavigate, Text: route})
		return execResult{kind: resultNone}
	case ast.FetchStmt:
		in.fetch(s)
		return execResult{kind: resultNone}
	case ast.DelayStmt:
		ms := in.eval(s.Ms).AsInt()
		in.logger.Debug("delay runs immediately", "ms", ms)
		in.emit(Output{Kind: OutputDelay, Text: "delay " + Int(ms).String() + "ms", Data: Int(ms)})
		return in.runBlock(s.Body)
	case ast.ListPushStmt:
		v := in.eval(s.Value)
		in.mutateList(s.Target, func(items []Value) ([]Value, bool) {
			return append(items, v), true
		})
		return execResult{kind: resultNone}
	case ast.ListPopStmt:
		in.mutateList(s.Target, func(items []Value) ([]Value, bool) {
			if len(items) == 0 {
				return items, false
			}
			return items[:len(items)-1], true
		})
		return execResult{kind: resultNone}
	case ast.ListInsertStmt:
		idx := in.eval(s.Index).AsInt()
		v := in.eval(s.Value)
		in.mutateList(s.Target, func(items []Value) ([]Value, bool) {
			if idx < 0 || idx > int64(len(items)) {
				return items, false
			}
			items = append(items, Value{})
			copy(items[idx+1:], items[idx:])
			items[idx] = v
			return items, true
		})
		return execResult{kind: resultNone}
	case ast.ListRemoveStmt:
		idx := in.eval(s.Index).AsInt()
		in.mutateList(s.Target, func(items []Value) ([]Value, bool) {
			if idx < 0 || idx >= int64(len(items)) {
				return items, false
			}
			return append(items[:idx], items[idx+1:]...), true
		})
		return execResult{kind: resultNone}
	case ast.ListClearStmt:
		in.mutateList(s.Target, func(items []Value) ([]Value, bool) {
			return nil, len(items) > 0
		})
		return execResult{kind: resultNone}
	default:
		return execResult{kind: resultNone}
	}
}

// fetch records the request and returns; network access is disabled and
// neither handler runs.
func (in *Interpreter) fetch(s ast.FetchStmt) {
	method := strings.ToUpper(s.Method)
	if method == "" {
		method = "GET"
	}
	url := in.eval(s.URL).String()
	fields := map[string]Value{
		"method": Str(method),
		"url":    Str(url),
	}
	if s.Body != nil {
		fields["body"] = in.eval(s.Body)
	}
	if len(s.Headers) > 0 {
		headers := make(map[string]Value, len(s.Headers))
		for _, h := range s.Headers {
			headers[h.Key] = in.eval(h.Value)
		}
		fields["headers"] = Object(headers)
	}
	in.logger.Warn("fetch disabled", "method", method, "url", url, "success", s.OnSuccess, "error", s.OnError)
	in.emit(Output{Kind: OutputFetch, Text: method + " " + url, Data: Object(fields)})
}

func (in *Interpreter) assign(s ast.AssignStmt) {
	v := in.eval(s.Expr)
	local := in.state.Mode() == ScopeIsolated && in.state.HasLocal(s.Name)
	write := func(nv Value) {
		if local {
			in.state.SetLocal(s.Name, nv)
			return
		}
		in.state.Set(s.Name, nv)
	}
	if s.Index == nil && s.Property == "" {
		write(v)
		return
	}

	var cur Value
	var ok bool
	if local {
		cur, ok = in.state.Lookup(s.Name)
	} else {
		cur, ok = in.state.Value(s.Name)
	}
	if !ok {
		return
	}
	if s.Property != "" {
		if cur.Kind() != ObjectKind {
			return
		}
		next := cur.Clone()
		next.Fields()[s.Property] = v
		write(next)
		return
	}

	idx := in.eval(s.Index)
	switch cur.Kind() {
	case ListKind:
		i, inRange := wrapIndex(idx.AsInt(), len(cur.Items()))
		if !idx.IsNumber() || !inRange {
			return
		}
		next := cur.Clone()
		next.Items()[i] = v
		write(next)
	case ObjectKind:
		next := cur.Clone()
		next.Fields()[idx.String()] = v
		write(next)
	}
}

// mutateList edits a persistent list in place. Locals are never targeted.
func (in *Interpreter) mutateList(name string, edit func([]Value) ([]Value, bool)) {
	cur, ok := in.state.Value(name)
	if !ok || cur.Kind() != ListKind {
		return
	}
	items := append([]Value(nil), cur.Items()...)
	next, changed := edit(items)
	if !changed {
		return
	}
	in.state.Set(name, List(next))
}

// emit hands out to the hook when one is installed and buffers it
// otherwise, keeping only the newest maxOutputs entries.
func (in *Interpreter) emit(out Output) {
	if in.outputHook != nil {
		in.outputHook(out)
		return
	}
	if len(in.outputs) >= maxOutputs {
		n := copy(in.outputs, in.outputs[len(in.outputs)-maxOutputs+1:])
		in.outputs = in.outputs[:n]
	}
	in.outputs = append(in.outputs, out)
}
