// Package env implements Braid's lexically-scoped environment frames
// and per-thread call stack (spec.md §4.7, §5). A Frame is a chained
// binding table; an Environment instance is single-threaded-cooperative
// within one evaluator task, but independent tasks each own their own
// CallStack (spec.md §5 "Scheduling model").
package env

import (
	"sync"

	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/value"
)

// Cell is a mutable variable slot. Closures share Cells with the frame
// that defined them, so a mutation from either side is visible to the
// other (spec.md Invariant 8: lexical closure).
type Cell struct {
	Value value.Value
}

// Frame is one lexical scope: an ordered name→Cell table plus a link
// to its enclosing frame. Frames also carry the call-site Cons (for
// error annotation), the inbound named-parameter map, the positional
// argument vector (for %0.."%9"/%* access), and a local type-alias
// table inherited through the parent chain.
type Frame struct {
	mu     sync.RWMutex
	vars   map[ident.ID]*Cell
	order  []ident.ID
	parent *Frame

	Caller      *value.Cons
	Named       map[string]value.Value
	Arguments   []value.Value
	TypeAliases map[string]string
}

// NewRoot creates a root-level frame with no enclosing scope.
func NewRoot() *Frame {
	return &Frame{vars: make(map[ident.ID]*Cell), TypeAliases: make(map[string]string)}
}

// NewEnclosed creates a frame whose parent is outer — the shape every
// function call and `let` block uses to introduce a child scope.
func NewEnclosed(outer *Frame) *Frame {
	return &Frame{vars: make(map[ident.ID]*Cell), parent: outer}
}

// Parent returns the enclosing frame, or nil for a root frame.
func (f *Frame) Parent() *Frame { return f.parent }

// Lookup searches this frame and its ancestors for sym, returning the
// bound value and true, or (nil, false) if unbound anywhere in the
// chain.
func (f *Frame) Lookup(sym *ident.Symbol) (value.Value, bool) {
	for frame := f; frame != nil; frame = frame.parent {
		frame.mu.RLock()
		cell, ok := frame.vars[sym.ID()]
		frame.mu.RUnlock()
		if ok {
			return cell.Value, true
		}
	}
	return nil, false
}

// LookupCell is like Lookup but returns the shared Cell itself, so a
// caller can mutate the binding in place (used by compound-assignment
// builtins and by SetLocal's "already bound here" fast path).
func (f *Frame) LookupCell(sym *ident.Symbol) (*Cell, *Frame) {
	for frame := f; frame != nil; frame = frame.parent {
		frame.mu.RLock()
		cell, ok := frame.vars[sym.ID()]
		frame.mu.RUnlock()
		if ok {
			return cell, frame
		}
	}
	return nil, nil
}

// Set assigns sym in the nearest frame of the chain that already binds
// it; if no frame binds it, it is defined globally (in the root frame)
// instead (spec.md §4.7: "assigns in nearest frame containing the
// symbol, else defines globally").
func (f *Frame) Set(sym *ident.Symbol, v value.Value) {
	if cell, frame := f.LookupCell(sym); cell != nil {
		frame.mu.Lock()
		cell.Value = v
		frame.mu.Unlock()
		return
	}
	root := f
	for root.parent != nil {
		root = root.parent
	}
	root.SetLocal(sym, v)
}

// SetLocal always defines sym in this exact frame, shadowing any outer
// binding of the same name.
func (f *Frame) SetLocal(sym *ident.Symbol, v value.Value) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cell, ok := f.vars[sym.ID()]; ok {
		cell.Value = v
		return
	}
	f.vars[sym.ID()] = &Cell{Value: v}
	f.order = append(f.order, sym.ID())
}

// DefineTypeAlias registers a local type alias, inherited by any frame
// enclosed by f.
func (f *Frame) DefineTypeAlias(name, target string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TypeAliases[name] = target
}

// ResolveTypeAlias walks f and its ancestors for a type alias named
// name.
func (f *Frame) ResolveTypeAlias(name string) (string, bool) {
	for frame := f; frame != nil; frame = frame.parent {
		frame.mu.RLock()
		target, ok := frame.TypeAliases[name]
		frame.mu.RUnlock()
		if ok {
			return target, true
		}
	}
	return "", false
}

// Snapshot makes a shallow copy of f suitable for handing to a worker
// thread (spec.md §4.7, §5 "A task may spawn another by capturing a
// frame snapshot"). The copy shares Cells with the original — so
// mutations through either side of a captured closure remain visible —
// but is a distinct Frame object, detached from whatever live call
// stack f currently sits on.
func (f *Frame) Snapshot() *Frame {
	f.mu.RLock()
	defer f.mu.RUnlock()
	cp := &Frame{
		vars:        make(map[ident.ID]*Cell, len(f.vars)),
		order:       append([]ident.ID(nil), f.order...),
		parent:      f.parent,
		Caller:      f.Caller,
		TypeAliases: make(map[string]string, len(f.TypeAliases)),
	}
	for k, v := range f.vars {
		cp.vars[k] = v
	}
	for k, v := range f.TypeAliases {
		cp.TypeAliases[k] = v
	}
	if f.Named != nil {
		cp.Named = make(map[string]value.Value, len(f.Named))
		for k, v := range f.Named {
			cp.Named[k] = v
		}
	}
	cp.Arguments = append([]value.Value(nil), f.Arguments...)
	return cp
}

// Arg returns the i'th positional argument (the %0.."%9" access of
// spec.md §4.7), or Nil if out of range.
func (f *Frame) Arg(i int) value.Value {
	if i < 0 || i >= len(f.Arguments) {
		return value.Nil
	}
	return f.Arguments[i]
}
