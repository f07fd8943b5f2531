package env_test

import (
	"testing"

	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/token"
	"github.com/braidlang/braid/internal/value"
)

func TestLookupWalksParentChain(t *testing.T) {
	in := ident.New()
	root := env.NewRoot()
	root.SetLocal(in.Intern("x"), value.IntValue{Value: 1})

	child := env.NewEnclosed(root)
	got, ok := child.Lookup(in.Intern("x"))
	if !ok || got != value.Value(value.IntValue{Value: 1}) {
		t.Fatalf("expected child to see root binding, got %v %v", got, ok)
	}
}

func TestSetAssignsNearestElseGlobal(t *testing.T) {
	in := ident.New()
	root := env.NewRoot()
	child := env.NewEnclosed(root)

	sym := in.Intern("counter")
	child.Set(sym, value.IntValue{Value: 1}) // not bound anywhere yet -> defines globally
	if _, ok := root.Lookup(sym); !ok {
		t.Fatal("Set on an unbound symbol should define it globally")
	}

	root.SetLocal(sym, value.IntValue{Value: 10})
	child.Set(sym, value.IntValue{Value: 20})
	got, _ := root.Lookup(sym)
	if got != value.Value(value.IntValue{Value: 20}) {
		t.Fatalf("Set should have mutated the existing root binding, got %v", got)
	}
}

func TestSetLocalShadows(t *testing.T) {
	in := ident.New()
	root := env.NewRoot()
	sym := in.Intern("x")
	root.SetLocal(sym, value.IntValue{Value: 1})

	child := env.NewEnclosed(root)
	child.SetLocal(sym, value.IntValue{Value: 2})

	got, _ := child.Lookup(sym)
	if got != value.Value(value.IntValue{Value: 2}) {
		t.Fatalf("child shadow should win, got %v", got)
	}
	got, _ = root.Lookup(sym)
	if got != value.Value(value.IntValue{Value: 1}) {
		t.Fatalf("root binding should be unaffected, got %v", got)
	}
}

func TestClosureMutationVisibleInCapturedFrame(t *testing.T) {
	in := ident.New()
	root := env.NewRoot()
	sym := in.Intern("n")
	root.SetLocal(sym, value.IntValue{Value: 1})

	captured := root // a lambda captures this very frame
	captured.Set(sym, value.IntValue{Value: 99})

	got, _ := root.Lookup(sym)
	if got != value.Value(value.IntValue{Value: 99}) {
		t.Fatalf("mutation through captured frame should be visible, got %v", got)
	}
}

func TestSnapshotDetaches(t *testing.T) {
	in := ident.New()
	root := env.NewRoot()
	sym := in.Intern("x")
	root.SetLocal(sym, value.IntValue{Value: 1})

	snap := root.Snapshot()
	snap.SetLocal(in.Intern("y"), value.IntValue{Value: 2})

	if _, ok := root.Lookup(in.Intern("y")); ok {
		t.Fatal("mutating the snapshot must not affect the original frame's own bindings")
	}
	if got, ok := snap.Lookup(sym); !ok || got != value.Value(value.IntValue{Value: 1}) {
		t.Fatal("snapshot should still see bindings present at capture time")
	}
}

func TestCallStackOverflow(t *testing.T) {
	cs := env.NewCallStack(2)
	if err := cs.Push("a", token.Position{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cs.Push("b", token.Position{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cs.Push("c", token.Position{}); err == nil {
		t.Fatal("expected stack overflow on third push")
	}
}
