package pruntime_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gosuda/prism/parser"
	pruntime "github.com/gosuda/prism/runtime"
)

func newInterp(t *testing.T, src string, mode pruntime.ScopeMode) *pruntime.Interpreter {
	t.Helper()
	app, err := parser.ParseApp(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	st := pruntime.NewState(mode)
	for _, name := range app.StateOrder {
		st.Set(name, pruntime.Eval(app.State[name], st))
	}
	for name, expr := range app.Computed {
		st.SetComputed(name, expr)
	}
	return pruntime.NewInterpreter(app.Actions, st)
}

func run(t *testing.T, in *pruntime.Interpreter, action string, args ...pruntime.Value) {
	t.Helper()
	if !in.RunAction(action, args) {
		t.Fatalf("action %q not found", action)
	}
}

func TestRunActionAssignsAndMarksDirty(t *testing.T) {
	in := newInterp(t, `
state { count: 0 }
actions {
  increment { count = count + 1 }
  legacy { count: count + 10 }
  same { count = count }
}`, pruntime.ScopeShared)
	st := in.State()
	st.MarkClean()

	run(t, in, "increment")
	if got := st.Get("count"); got.AsInt() != 1 || !st.IsDirty() {
		t.Fatalf("increment: count=%s dirty=%v", got, st.IsDirty())
	}
	run(t, in, "legacy")
	if got := st.Get("count"); got.AsInt() != 11 {
		t.Fatalf("legacy assignment: count=%s", got)
	}
	st.MarkClean()
	run(t, in, "same")
	if st.IsDirty() {
		t.Fatalf("assigning an equal value should leave the state clean")
	}
	if in.RunAction("missing", nil) {
		t.Fatalf("unknown action should report false")
	}
}

func TestControlFlow(t *testing.T) {
	in := newInterp(t, `
state { out: []  n: 0  label: "" }
actions {
  loop {
    for x, i in [1, 2, 3, 4, 5] {
      if x == 2 { continue }
      if x == 5 { break }
      push out i
    }
  }
  count_up {
    while true {
      n = n + 1
      if n >= 3 { return }
    }
    n = 100
  }
  classify(v) {
    if v > 10 { label = "big" } else if v > 5 { label = "mid" } else { label = "small" }
  }
}`, pruntime.ScopeShared)
	st := in.State()

	run(t, in, "loop")
	if diff := cmp.Diff("[0, 2, 3]", st.Get("out").String()); diff != "" {
		t.Fatalf("loop output (-want +got):\n%s", diff)
	}
	run(t, in, "count_up")
	if got := st.Get("n").AsInt(); got != 3 {
		t.Fatalf("return should stop the action, n=%d", got)
	}
	for v, want := range map[int64]string{20: "big", 7: "mid", 1: "small"} {
		run(t, in, "classify", pruntime.Int(v))
		if got := st.Get("label").String(); got != want {
			t.Fatalf("classify(%d) = %q, want %q", v, got, want)
		}
	}
	if len(st.Locals()) != 0 {
		t.Fatalf("locals should be cleared after an action, got %v", st.Locals())
	}
}

func TestListMutations(t *testing.T) {
	in := newInterp(t, `
state { items: ["a", "b"]  empty: [] }
actions {
  add(v) { push items v }
  put_front { insert items 0, "z" }
  put_past_end { insert items 99, "q" }
  drop(i) { remove items i }
  drop_last { pop items }
  wipe { clear items }
  pop_empty { pop empty }
  push_local { for items in [1] { push items 5 } }
}`, pruntime.ScopeShared)
	st := in.State()
	check := func(want string) {
		t.Helper()
		if got := st.Get("items").String(); got != want {
			t.Fatalf("items = %s, want %s", got, want)
		}
	}

	run(t, in, "add", pruntime.Str("c"))
	check("[a, b, c]")
	run(t, in, "put_front")
	check("[z, a, b, c]")
	st.MarkClean()
	run(t, in, "put_past_end")
	check("[z, a, b, c]")
	if st.IsDirty() {
		t.Fatalf("out-of-range insert should not dirty the state")
	}
	run(t, in, "drop", pruntime.Int(1))
	check("[z, b, c]")
	run(t, in, "drop", pruntime.Int(3))
	check("[z, b, c]")
	run(t, in, "drop_last")
	check("[z, b]")
	run(t, in, "push_local")
	check("[z, b, 5]")
	run(t, in, "wipe")
	check("[]")

	st.MarkClean()
	run(t, in, "pop_empty")
	if st.IsDirty() {
		t.Fatalf("pop on an empty list should be a no-op")
	}
}

func TestIndexAndPropertyAssignment(t *testing.T) {
	in := newInterp(t, `
state { xs: [1, 2, 3]  user: {name: "a"}  n: 5 }
actions {
  edit {
    xs[-1] = 30
    xs[10] = 99
    user.age = 7
    user["name"] = "b"
    n.field = 1
  }
}`, pruntime.ScopeShared)
	st := in.State()
	run(t, in, "edit")
	if got := st.Get("xs").String(); got != "[1, 2, 30]" {
		t.Fatalf("xs = %s", got)
	}
	if got := st.Get("user").String(); got != "{age: 7, name: b}" {
		t.Fatalf("user = %s", got)
	}
	if got := st.Get("n"); got.AsInt() != 5 {
		t.Fatalf("property assignment on a scalar should be ignored, n = %s", got)
	}
}

const scopingDoc = `
state { seen: null  after: null }
actions {
  outer(x) {
    call inner(x + 1)
    after = x
  }
  inner(x) {
    seen = x
  }
}`

func TestSharedScopeLetsCalleeClobberCaller(t *testing.T) {
	in := newInterp(t, scopingDoc, pruntime.ScopeShared)
	run(t, in, "outer", pruntime.Int(1))
	st := in.State()
	if got := st.Get("seen"); got.AsInt() != 2 {
		t.Fatalf("callee should see its own argument, got %s", got)
	}
	if got := st.Get("after"); !got.IsNull() {
		t.Fatalf("shared locals are cleared when the callee returns, caller saw %s", got)
	}
}

func TestIsolatedScopeProtectsCaller(t *testing.T) {
	in := newInterp(t, scopingDoc, pruntime.ScopeIsolated)
	run(t, in, "outer", pruntime.Int(1))
	st := in.State()
	if got := st.Get("seen"); got.AsInt() != 2 {
		t.Fatalf("callee should see its own argument, got %s", got)
	}
	if got := st.Get("after"); got.AsInt() != 1 {
		t.Fatalf("caller binding should survive the call, got %s", got)
	}
}

func TestIsolatedScopeAssignsLocals(t *testing.T) {
	src := `
state { total: 0 }
actions {
  bump(total) {
    total = total + 1
  }
}`
	in := newInterp(t, src, pruntime.ScopeIsolated)
	run(t, in, "bump", pruntime.Int(10))
	if got := in.State().Get("total"); got.AsInt() != 0 {
		t.Fatalf("isolated assignment should update the parameter, total = %s", got)
	}

	in = newInterp(t, src, pruntime.ScopeShared)
	run(t, in, "bump", pruntime.Int(10))
	if got := in.State().Get("total"); got.AsInt() != 11 {
		t.Fatalf("shared assignment should write state, total = %s", got)
	}
}

func TestRecursionIsBounded(t *testing.T) {
	in := newInterp(t, `
state { depth: 0 }
actions {
  dive { depth = depth + 1
    call dive }
}`, pruntime.ScopeShared)
	run(t, in, "dive")
	if got := in.State().Get("depth").AsInt(); got != 256 {
		t.Fatalf("recursion should stop at the call limit, depth = %d", got)
	}
}

func TestEffectsAreRecorded(t *testing.T) {
	in := newInterp(t, `
state { count: 0 }
actions {
  go {
    log "hello {count}"
    emit saved {id: 1}
    fetch POST "https://example.com/api" { body: {a: 1}  headers: {auth: "t"}  success: ok  error: fail }
    delay 250 { count = 5 }
    navigate "/about"
  }
  ok { count = 100 }
  fail { count = -1 }
}`, pruntime.ScopeShared)

	run(t, in, "go")

	outs := in.Outputs()
	kinds := make([]pruntime.OutputKind, len(outs))
	for i, o := range outs {
		kinds[i] = o.Kind
	}
	want := []pruntime.OutputKind{pruntime.OutputLog, pruntime.OutputEmit, pruntime.OutputFetch, pruntime.OutputDelay, pruntime.OutputNavigate}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("output kinds (-want +got):\n%s", diff)
	}
	if outs[0].Text != "hello 0" {
		t.Fatalf("log text = %q", outs[0].Text)
	}
	if outs[1].Event != "saved" || outs[1].Data.String() != "{id: 1}" {
		t.Fatalf("emit = %+v", outs[1])
	}
	if outs[2].Text != "POST https://example.com/api" {
		t.Fatalf("fetch = %q", outs[2].Text)
	}
	if got := in.State().Get("count").AsInt(); got != 5 {
		t.Fatalf("fetch must not run handlers and delay runs immediately, count = %d", got)
	}
	if route, ok := in.TakeNavigation(); !ok || route != "/about" {
		t.Fatalf("navigation = %q, %v", route, ok)
	}
	if _, ok := in.TakeNavigation(); ok {
		t.Fatalf("navigation should be consumed")
	}
	if len(in.Outputs()) != 0 {
		t.Fatalf("outputs should be drained")
	}
}

func TestOutputHookAndBufferBound(t *testing.T) {
	in := newInterp(t, `state { n: 0 }
actions { go {
  n = n + 1
  log "tick {n}"
} }`, pruntime.ScopeShared)

	for i := 0; i < 1000; i++ {
		run(t, in, "go")
	}
	outs := in.Outputs()
	if len(outs) != 256 {
		t.Fatalf("buffer holds %d outputs, want 256", len(outs))
	}
	if outs[0].Text != "tick 745" || outs[255].Text != "tick 1000" {
		t.Fatalf("buffer should keep the newest entries, got %q .. %q", outs[0].Text, outs[255].Text)
	}

	hooked := 0
	in.SetOutputHook(func(pruntime.Output) { hooked++ })
	for i := 0; i < 10000; i++ {
		run(t, in, "go")
	}
	if hooked != 10000 {
		t.Fatalf("hook saw %d outputs", hooked)
	}
	if n := len(in.Outputs()); n != 0 {
		t.Fatalf("hooked outputs should not be retained, buffer holds %d", n)
	}
}
