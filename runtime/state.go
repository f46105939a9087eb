package pruntime

import (
	"fmt"
	"strings"

	"github.com/gosuda/prism/ast"
)

// ScopeMode selects how action parameters and loop variables are bound.
type ScopeMode int

const (
	// ScopeShared keeps one locals map for every nested call and clears it
	// whenever any action returns.
	ScopeShared ScopeMode = iota
	// ScopeIsolated pushes a fresh frame per call.
	ScopeIsolated
)

func (m ScopeMode) String() string {
	if m == ScopeIsolated {
		return "isolated"
	}
	return "shared"
}

func ParseScopeMode(s string) (ScopeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shared":
		return ScopeShared, nil
	case "isolated":
		return ScopeIsolated, nil
	default:
		return ScopeShared, fmt.Errorf("unknown scope mode %q", s)
	}
}

// maxComputedDepth bounds nested computed reads; past it a read yields Null.
const maxComputedDepth = 512

// Env resolves variable references for the evaluator.
type Env interface {
	Lookup(name string) (Value, bool)
}

type frame struct {
	locals map[string]Value
}

// State is the environment of a running application: persistent values,
// computed expressions, call-local bindings and the dirty flag.
type State struct {
	values   map[string]Value
	computed map[string]ast.Expr
	frames   []*frame
	mode     ScopeMode
	dirty    bool
	depth    int
}

func NewState(mode ScopeMode) *State {
	s := &State{
		values:   map[string]Value{},
		computed: map[string]ast.Expr{},
		mode:     mode,
		dirty:    true,
	}
	if mode == ScopeShared {
		s.frames = []*frame{{locals: map[string]Value{}}}
	}
	return s
}

func (s *State) Mode() ScopeMode {
	return s.mode
}

// Lookup searches locals, then values, then computed.
func (s *State) Lookup(name string) (Value, bool) {
	if fr := s.top(); fr != nil {
		if v, ok := fr.locals[name]; ok {
			return v, true
		}
	}
	if v, ok := s.values[name]; ok {
		return v, true
	}
	if expr, ok := s.computed[name]; ok {
		if s.depth >= maxComputedDepth {
			return Null(), true
		}
		s.depth++
		v := Eval(expr, s)
		s.depth--
		return v, true
	}
	return Null(), false
}

func (s *State) Get(name string) Value {
	v, _ := s.Lookup(name)
	return v
}

// Value returns a persistent value only, ignoring locals and computed.
func (s *State) Value(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Set stores a persistent value and reports whether it changed. Only a
// change raises the dirty flag.
func (s *State) Set(name string, v Value) bool {
	old, ok := s.values[name]
	if ok && old.Equal(v) {
		return false
	}
	s.values[name] = v
	s.dirty = true
	return true
}

func (s *State) SetComputed(name string, expr ast.Expr) {
	s.computed[name] = expr
	s.dirty = true
}

// Values returns a copy of the persistent values.
func (s *State) Values() map[string]Value {
	cp := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		cp[k] = v
	}
	return cp
}

func (s *State) top() *frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *State) SetLocal(name string, v Value) {
	fr := s.top()
	if fr == nil {
		fr = &frame{locals: map[string]Value{}}
		s.frames = append(s.frames, fr)
	}
	fr.locals[name] = v
}

func (s *State) HasLocal(name string) bool {
	fr := s.top()
	if fr == nil {
		return false
	}
	_, ok := fr.locals[name]
	return ok
}

// Locals returns a copy of the innermost bindings.
func (s *State) Locals() map[string]Value {
	fr := s.top()
	if fr == nil {
		return map[string]Value{}
	}
	cp := make(map[string]Value, len(fr.locals))
	for k, v := range fr.locals {
		cp[k] = v
	}
	return cp
}

func (s *State) enterCall() {
	if s.mode == ScopeIsolated {
		s.frames = append(s.frames, &frame{locals: map[string]Value{}})
	}
}

func (s *State) exitCall() {
	if s.mode == ScopeIsolated {
		if len(s.frames) > 0 {
			s.frames = s.frames[:len(s.frames)-1]
		}
		return
	}
	s.ClearLocals()
}

// ClearLocals drops every binding of the innermost frame.
func (s *State) ClearLocals() {
	if fr := s.top(); fr != nil {
		clear(fr.locals)
	}
}

func (s *State) Invalidate() {
	s.dirty = true
}

func (s *State) MarkClean() {
	s.dirty = false
}

func (s *State) IsDirty() bool {
	return s.dirty
}

// Overlay layers read-only bindings over another environment.
type Overlay struct {
	Parent Env
	Vars   map[string]Value
}

func (o Overlay) Lookup(name string) (Value, bool) {
	if v, ok := o.Vars[name]; ok {
		return v, true
	}
	if o.Parent == nil {
		return Null(), false
	}
	return o.Parent.Lookup(name)
}
