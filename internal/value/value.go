// Package value implements Braid's tagged runtime value universe
// (spec.md §3). Every runtime object is one of a small set of kinds;
// Go's interface + small-typed-struct idiom stands in for the tagged sum.
package value

import "github.com/braidlang/braid/internal/token"

// Kind tags the runtime type of a Value, mirroring the "Kind" column of
// spec.md's data model table.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindLong
	KindBigInt
	KindFloat
	KindChar
	KindString
	KindSymbol
	KindKeyword
	KindCons
	KindVector
	KindSlice
	KindDictionary
	KindHashSet
	KindRegex
	KindTypeLiteral
	KindCallable
	KindFunctionLiteral
	KindRangeList
	KindBraidLiteral
	KindFlowControl
	KindRecord
)

// Value is the universal runtime value interface. Every Braid runtime
// object — atom, collection, callable, or flow-control token —
// implements it.
type Value interface {
	// Kind identifies which variant of the tagged sum this is.
	Kind() Kind
	// String renders the value in its canonical printed (read-back) form,
	// except for FlowControl tokens, which never escape to user code.
	String() string
}

// SourceContext records where a value's defining text came from: file,
// line, byte offset, original text snippet, and the enclosing function
// name. The reader populates it for every Cons and Callable it builds;
// the error printer consumes it (spec.md "Source context").
type SourceContext struct {
	File     string
	Line     int
	Offset   int
	Text     string
	Function string
}

// Pos renders the context as a token.Position for error formatting.
func (c SourceContext) Pos() token.Position {
	return token.Position{File: c.File, Line: c.Line, Offset: c.Offset}
}

// Nil is the absence-of-value singleton. It prints as an empty list,
// matching the teacher convention of rendering "no value" the way an
// empty collection would.
type NilValue struct{}

func (NilValue) Kind() Kind     { return KindNil }
func (NilValue) String() string { return "()" }

// Nil is the single shared Nil instance; compare with ==.
var Nil = NilValue{}

// Bool is one of the two boolean singletons.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// True and False are the two Bool singletons (spec.md: "two singletons").
var (
	True  = Bool(true)
	False = Bool(false)
)

// Truthy implements Braid's truthiness rule: everything is truthy
// except Nil and False.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case NilValue:
		return false
	case Bool:
		return bool(t)
	default:
		return v != nil
	}
}
