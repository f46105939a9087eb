package pruntime_test

import (
	"testing"

	pruntime "github.com/gosuda/prism/runtime"
)

func TestTruthiness(t *testing.T) {
	falsy := []pruntime.Value{
		pruntime.Null(),
		pruntime.Bool(false),
		pruntime.Int(0),
		pruntime.Float(0),
		pruntime.Str(""),
		pruntime.List(nil),
		pruntime.Object(nil),
	}
	for _, v := range falsy {
		if v.Truthy() {
			t.Fatalf("%s (%s) should be falsy", v.TypeName(), v)
		}
	}
	truthy := []pruntime.Value{
		pruntime.Bool(true),
		pruntime.Int(-1),
		pruntime.Float(0.5),
		pruntime.Str("0"),
		pruntime.List([]pruntime.Value{pruntime.Null()}),
		pruntime.Object(map[string]pruntime.Value{"a": pruntime.Null()}),
	}
	for _, v := range truthy {
		if !v.Truthy() {
			t.Fatalf("%s (%s) should be truthy", v.TypeName(), v)
		}
	}
}

func TestValueEquality(t *testing.T) {
	if !pruntime.Float(0.1 + 0.2).Equal(pruntime.Float(0.3)) {
		t.Fatalf("floats within epsilon should be equal")
	}
	if pruntime.Int(1).Equal(pruntime.Float(1)) {
		t.Fatalf("int and float must not compare equal")
	}
	a := pruntime.Object(map[string]pruntime.Value{
		"xs": pruntime.List([]pruntime.Value{pruntime.Int(1), pruntime.Str("b")}),
	})
	b := pruntime.Object(map[string]pruntime.Value{
		"xs": pruntime.List([]pruntime.Value{pruntime.Int(1), pruntime.Str("b")}),
	})
	if !a.Equal(b) {
		t.Fatalf("structurally equal objects should be equal")
	}
	b.Fields()["xs"] = pruntime.List(nil)
	if a.Equal(b) {
		t.Fatalf("objects with different fields should differ")
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		v    pruntime.Value
		want string
	}{
		{pruntime.Null(), ""},
		{pruntime.Bool(true), "true"},
		{pruntime.Int(-3), "-3"},
		{pruntime.Float(2), "2"},
		{pruntime.Float(2.5), "2.5"},
		{pruntime.List([]pruntime.Value{pruntime.Int(1), pruntime.Str("a")}), "[1, a]"},
		{pruntime.Object(map[string]pruntime.Value{"b": pruntime.Int(2), "a": pruntime.Int(1)}), "{a: 1, b: 2}"},
	}
	for _, tc := range cases {
		if got := tc.v.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestValueConversions(t *testing.T) {
	if got := pruntime.Str(" 42 ").AsInt(); got != 42 {
		t.Fatalf("AsInt of numeric string = %d", got)
	}
	if got := pruntime.Str("x").AsInt(); got != 0 {
		t.Fatalf("AsInt of non-numeric string = %d", got)
	}
	if got := pruntime.Bool(true).AsFloat(); got != 1 {
		t.Fatalf("AsFloat(true) = %v", got)
	}
	if got := pruntime.List([]pruntime.Value{pruntime.Null(), pruntime.Null()}).AsInt(); got != 2 {
		t.Fatalf("AsInt of list = %d", got)
	}
	if got := pruntime.Str("héllo").Len(); got != 5 {
		t.Fatalf("Len should count runes, got %d", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := pruntime.List([]pruntime.Value{pruntime.List([]pruntime.Value{pruntime.Int(1)})})
	cp := orig.Clone()
	cp.Items()[0].Items()[0] = pruntime.Int(9)
	if orig.Items()[0].Items()[0].AsInt() != 1 {
		t.Fatalf("clone aliased nested list")
	}
}
