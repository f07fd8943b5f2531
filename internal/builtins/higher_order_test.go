package builtins_test

import (
	"strings"
	"testing"

	"github.com/braidlang/braid/internal/builtins"
	"github.com/braidlang/braid/internal/eval"
	"github.com/braidlang/braid/internal/value"
)

// hoFns wires RegisterHigherOrder against a throwaway Evaluator so its
// builtins can call ev.Apply against the other registered natives.
func hoFns() (*eval.Evaluator, map[string]func([]value.Value, map[value.Keyword]value.Value) (value.Value, error)) {
	ev := eval.New(0)
	out := make(map[string]func([]value.Value, map[value.Keyword]value.Value) (value.Value, error))
	bind := func(name string, fn func(args []value.Value, named map[value.Keyword]value.Value) (value.Value, error)) {
		ev.Root.SetLocal(ev.Interner.Intern(name), &value.NativeFunc{Name: name, Fn: fn})
		out[name] = fn
	}
	builtins.RegisterArithmetic(bind)
	builtins.RegisterCollections(bind)
	builtins.RegisterHigherOrder(ev, bind)
	return ev, out
}

func lookup(t *testing.T, ev *eval.Evaluator, name string) value.Value {
	t.Helper()
	v, ok := ev.Root.Lookup(ev.Interner.Intern(name))
	if !ok {
		t.Fatalf("%s not bound", name)
	}
	return v
}

func TestHigherOrderMap(t *testing.T) {
	_, fns := hoFns()
	square := &value.NativeFunc{Name: "square", Fn: func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		n := args[0].(value.IntValue).Value
		return I(n * n), nil
	}}
	got, err := fns["map"]([]value.Value{square, V(I(1), I(2), I(3))}, nil)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if value.Print(got) != "[1 4 9]" {
		t.Fatalf("map: got %s, want [1 4 9]", value.Print(got))
	}
}

func TestHigherOrderFilter(t *testing.T) {
	_, fns := hoFns()
	isTwo := &value.NativeFunc{Name: "is-two", Fn: func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		return value.Bool(value.Equal(args[0], I(2))), nil
	}}
	got, err := fns["filter"]([]value.Value{isTwo, V(I(1), I(2), I(3), I(2))}, nil)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if value.Print(got) != "[2 2]" {
		t.Fatalf("filter: got %s, want [2 2]", value.Print(got))
	}
}

func TestHigherOrderReduce(t *testing.T) {
	ev, fns := hoFns()
	plus := lookup(t, ev, "+")
	got, err := fns["reduce"]([]value.Value{plus, I(0), V(I(1), I(2), I(3), I(4))}, nil)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if value.Print(got) != "10" {
		t.Fatalf("reduce: got %s, want 10", value.Print(got))
	}
}

func TestHigherOrderEach(t *testing.T) {
	_, fns := hoFns()
	var seen []value.Value
	collect := &value.NativeFunc{Name: "collect", Fn: func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		seen = append(seen, args[0])
		return value.Nil, nil
	}}
	_, err := fns["each"]([]value.Value{collect, V(I(1), I(2), I(3))}, nil)
	if err != nil {
		t.Fatalf("each: %v", err)
	}
	if len(seen) != 3 || value.Print(seen[2]) != "3" {
		t.Fatalf("each: got %v", seen)
	}
}

func TestHigherOrderApplySplatsLastArg(t *testing.T) {
	ev, fns := hoFns()
	plus := lookup(t, ev, "+")
	got, err := fns["apply"]([]value.Value{plus, I(1), V(I(2), I(3))}, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if value.Print(got) != "6" {
		t.Fatalf("apply: got %s, want 6", value.Print(got))
	}
}

func TestHigherOrderApplyRequiresSequenceTail(t *testing.T) {
	_, fns := hoFns()
	plus := &value.NativeFunc{Name: "+", Fn: func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		return I(0), nil
	}}
	_, err := fns["apply"]([]value.Value{plus, I(1)}, nil)
	if err == nil || !strings.Contains(err.Error(), "last argument must be a sequence") {
		t.Fatalf("expected apply to require its last argument be a sequence when more than fn is given, got %v", err)
	}
}

func TestHigherOrderMapRejectsNonSequence(t *testing.T) {
	ev, fns := hoFns()
	plus := lookup(t, ev, "+")
	_, err := fns["map"]([]value.Value{plus, I(5)}, nil)
	if err == nil || !strings.Contains(err.Error(), "not a sequence") {
		t.Fatalf("expected a not-a-sequence error, got %v", err)
	}
}
