// Package pattern implements Braid's pattern-matching subsystem
// (spec.md §4.3): compiled clause lists, the element kinds a clause's
// patterns can be built from, and the match driver that powers
// function dispatch, `lambda` parameter destructuring, and recursive
// decomposition via star-functions. `let` destructuring does not go
// through this driver (see bindPattern in the eval package).
//
// A *Function is itself a value.Callable — the "pattern function"
// variant of spec.md §3's Callable kind — living in its own package
// for the same reason value.NativeFunc lives in the value package and
// the richer variants are left to eval: this package needs an
// env.Frame for captured closures and bindings, which value must not
// import, but it has no need of eval's AST-walking machinery beyond the
// one Host hook below.
package pattern

import (
	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/value"
)

// Host is the pattern engine's one seam into the surrounding
// tree-walking evaluator — mirroring quasiquote.Evaluator and
// reader.MacroExpander, narrow interfaces that let those packages avoid
// importing eval and forming a cycle.
type Host interface {
	// Eval evaluates form — a where-condition, a default-value
	// expression, or one action form of a clause body — within frame.
	Eval(form value.Value, frame *env.Frame) (value.Value, error)

	// Apply invokes an already-evaluated Callable with already-evaluated
	// positional arguments; used by a Pinned var's Callable-predicate
	// test (spec.md §4.3 "Pinned var... if x holds a Callable, apply it").
	Apply(fn value.Value, args []value.Value) (value.Value, error)

	// DispatchStar invokes another pattern-capable Callable — the
	// target of a *fname star-function element — against the
	// remaining subject slice, reporting how many leading elements it
	// consumed (spec.md §4.3 "Star function", §9 "pass the consumed
	// count back through an out-parameter-style return").
	DispatchStar(fn value.Value, subject []value.Value) (result value.Value, consumed int, err error)

	// ConvertType attempts to convert v to the host or user-defined
	// record type named typeName, reporting success. Used both by the
	// Type element ("^T... binds converted value") and by a Pinned
	// var's isinstance test against a bound TypeLiteral.
	ConvertType(v value.Value, typeName string) (value.Value, bool)
}

// Clause is one `| patternElements :where cond -> actions` arm of a
// pattern function, or the synthetic begin/end/default clause a
// Function carries separately.
type Clause struct {
	Positional     []Element
	Where          value.Value // nil if this clause has no :where guard
	Actions        []value.Value
	AllowBacktrack bool
}

// Function is a compiled pattern function: an ordered clause list plus
// optional begin ("^"), end ("$"), and default (empty-pattern) clauses
// (spec.md §4.3 "Begin/end/default clauses"). It captures the lexical
// frame active at its definition site, the same way a lambda does
// (spec.md Invariant 8).
type Function struct {
	Name    string
	Env     *env.Frame
	Clauses []*Clause
	Begin   *Clause
	End     *Clause
	Default *Clause
	Ctx     value.SourceContext
}

func (*Function) Kind() value.Kind       { return value.KindCallable }
func (f *Function) String() string       { return "#<pattern:" + f.Name + ">" }
func (f *Function) CallableName() string { return f.Name }

// Dispatch runs f as an ordinary callable: a full match is required
// (spec.md §4.3's "else if not star-function and argIdx < subject.len:
// clause fails", read at the whole-dispatch granularity: this
// implementation carries it as a per-dispatch "partial" flag, false
// here and true for DispatchStar, rather than as a per-clause property).
func (f *Function) Dispatch(args []value.Value, named map[string]value.Value, host Host) (value.Value, error) {
	result, _, err := f.dispatch(args, named, host, false)
	return result, err
}

// declaredKeywords collects every ":name" keyword parameter declared
// across f's clauses, used to reject a caller-supplied named argument
// no clause declares (spec.md §4.5 rule 4).
func (f *Function) declaredKeywords() map[string]bool {
	out := make(map[string]bool)
	collect := func(c *Clause) {
		if c == nil {
			return
		}
		for _, e := range c.Positional {
			if kw, ok := e.(*KeywordElement); ok {
				out[kw.Name.Text()] = true
			}
		}
	}
	for _, c := range f.Clauses {
		collect(c)
	}
	collect(f.Default)
	return out
}

// DispatchStar runs f as the callee of a *fname star-function element:
// a prefix of subject may be left unconsumed, and the caller-visible
// result is paired with how many elements were used.
func (f *Function) DispatchStar(subject []value.Value, host Host) (value.Value, int, error) {
	return f.dispatch(subject, nil, host, true)
}
