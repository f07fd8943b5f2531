// Package eval implements Braid's tree-walking evaluator (spec.md
// §4.4): the core dispatch loop, argument collection, and the concrete
// wiring that backs the narrow seams internal/reader, internal/quasiquote,
// and internal/pattern expose (MacroExpander, Evaluator, Host) so none
// of those packages needs to import this one.
package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/errors"
	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/pattern"
	"github.com/braidlang/braid/internal/quasiquote"
	"github.com/braidlang/braid/internal/value"
)

// Evaluator holds the process-wide state one Braid "task" needs across
// every call: the shared symbol interner, its own call stack and trace
// flag (spec.md §5 "thread-local state"), and the root environment new
// top-level forms and worker snapshots are rooted at.
type Evaluator struct {
	Interner *ident.Interner
	Root     *env.Frame
	Stack    *env.CallStack
	Trace    bool

	// UnboundHook, when set, is consulted before an unbound symbol
	// becomes an error (spec.md §4.4 rule 2: "consult an
	// unbound-symbol hook (typo helper)"). It returns a suggested
	// replacement value, or ok=false to fall through to the normal
	// error.
	UnboundHook func(name string, frame *env.Frame) (value.Value, bool)

	// HostCommand is consulted when a head symbol resolves to nothing
	// bound in the environment at all — spec.md §4.4 rule 2's final
	// fallback, "the host command table" (spec.md §6 external
	// interfaces). nil means no host command integration.
	HostCommand func(name string, args []value.Value, named map[string]value.Value) (value.Value, bool, error)

	// Types holds every record type `deftype` has registered, by name —
	// the target of a ^Name TypeLiteral conversion (spec.md §4.2
	// "TypeLiteral... a user-defined record type").
	Types map[string]*value.RecordType

	// Output is where print/println write (internal/builtins' I/O
	// primitives). Defaults to os.Stdout; swapped out by tests and by
	// embedders that want to capture a task's output.
	Output io.Writer
}

// New constructs an Evaluator with a fresh root frame and the special
// forms, recursion depth guard, and macro-expanding reader wiring a
// top-level driver needs. maxDepth <= 0 uses env.DefaultMaxRecursionDepth.
func New(maxDepth int) *Evaluator {
	ev := &Evaluator{
		Interner: ident.New(),
		Root:     env.NewRoot(),
		Stack:    env.NewCallStack(maxDepth),
		Types:    make(map[string]*value.RecordType),
		Output:   os.Stdout,
	}
	RegisterSpecialForms(ev)
	return ev
}

// Eval is the heart of spec.md §4.4: the seven-rule dispatch table.
func (ev *Evaluator) Eval(form value.Value, frame *env.Frame) (value.Value, error) {
	if env.StopRequested() {
		return nil, errors.StopRequest()
	}

	switch t := form.(type) {
	case nil:
		return value.Nil, nil

	case value.NilValue, value.Bool, value.IntValue, value.BigIntValue, value.FloatValue,
		value.CharValue, value.StringValue, value.Keyword, *value.Regex,
		*value.FunctionLiteral, *value.TypeLiteral, *value.RangeList,
		*value.Vector, *value.Dictionary, *value.HashSet:
		// Rule 1: self-evaluating atoms and already-realized collections.
		return form, nil

	case Callable:
		// A Callable handed back to Eval (e.g. re-evaluating a value
		// already looked up) is self-evaluating; only a Cons *call* to
		// one goes through argument collection.
		return form, nil

	case *quotedLiteral:
		// An already-evaluated value spliced into a fresh argument-form
		// list (the pipeline threader); Eval just unwraps it.
		return t.v, nil

	case value.Symbol:
		return ev.evalSymbol(t, frame)

	case *value.VectorLiteral:
		return ev.realizeVector(t, frame)

	case *value.DictionaryLiteral:
		return ev.realizeDictionary(t, frame)

	case *value.HashSetLiteral:
		return ev.realizeHashSet(t, frame)

	case *value.ExpandableStringLiteral:
		return ev.realizeTemplate(t, frame)

	case *value.Cons:
		return ev.evalCons(t, frame)

	default:
		return form, nil
	}
}

// evalSymbol is rule 2: look up, else consult the typo hook, else the
// host command table, else raise.
func (ev *Evaluator) evalSymbol(sym value.Symbol, frame *env.Frame) (value.Value, error) {
	if v, ok := frame.Lookup(sym.Sym); ok {
		return v, nil
	}
	if ev.UnboundHook != nil {
		if v, ok := ev.UnboundHook(sym.Sym.Text(), frame); ok {
			return v, nil
		}
	}
	if ev.HostCommand != nil {
		if v, handled, err := ev.HostCommand(sym.Sym.Text(), nil, nil); handled {
			return v, err
		}
	}
	return nil, ev.userError(frame, "unbound symbol: %s", sym.Sym.Text())
}

// evalCons is rules 3-7.
func (ev *Evaluator) evalCons(c *value.Cons, frame *env.Frame) (value.Value, error) {
	if c.Has(value.HeadQuote) {
		return unwrapOne(c), nil // rule 3
	}
	if c.Has(value.HeadQuasiquote) {
		return quasiquote.Expand(unwrapOne(c), 1, &frameEvaluator{ev: ev, frame: frame}) // rule 4
	}
	if c.Has(value.HeadSplat) {
		return c, nil // rule 5: left for the argument collector to expand
	}
	if c.Has(value.HeadLambda) {
		if _, alreadyCompiled := c.Car.(*pattern.Function); alreadyCompiled {
			return c, nil // rule 6 (defensive; lambda heads are always a Symbol in practice)
		}
	}

	elems, ok := value.ToSlice(c)
	if !ok {
		return nil, ev.userError(frame, "cannot call a dotted pair: %s", value.Print(c))
	}
	if len(elems) == 0 {
		return value.Nil, nil
	}

	headForm, argForms := elems[0], elems[1:]

	if headSym, isSym := headForm.(value.Symbol); isSym {
		if sf, ok := frame.Lookup(headSym.Sym); ok {
			if special, isSpecial := sf.(*SpecialForm); isSpecial {
				return ev.callSpecial(special, argForms, frame, c.Ctx)
			}
			if macro, isMacro := sf.(*Macro); isMacro {
				return ev.callMacro(macro, argForms, frame, c.Ctx)
			}
		}
	}

	head, err := ev.Eval(headForm, frame)
	if err != nil {
		return nil, err
	}
	return ev.applyForm(head, argForms, frame, c.Ctx)
}

// applyForm is rule 7's dispatch-by-callable-kind, reached once head
// has already been resolved to a value.
func (ev *Evaluator) applyForm(head value.Value, argForms []value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	switch callee := head.(type) {
	case *SpecialForm:
		return ev.callSpecial(callee, argForms, frame, ctx)
	case *Macro:
		return ev.callMacro(callee, argForms, frame, ctx)
	case *value.NativeFunc:
		return ev.callNative(callee, argForms, frame, ctx)
	case *pattern.Function:
		args, named, err := ev.collectArgs(argForms, frame)
		if err != nil {
			return nil, err
		}
		return ev.dispatchPattern(callee, args, named, frame, ctx)
	case *value.FunctionLiteral:
		return ev.applyForm(callee.Callable, argForms, frame, ctx)
	case *value.Dictionary:
		args, _, err := ev.collectArgs(argForms, frame)
		if err != nil {
			return nil, err
		}
		return ev.applyDictionary(callee, args, frame)
	default:
		if headSym, ok := symbolName(head); ok && ev.HostCommand != nil {
			args, named, err := ev.collectArgs(argForms, frame)
			if err != nil {
				return nil, err
			}
			if v, handled, herr := ev.HostCommand(headSym, args, named); handled {
				return v, herr
			}
		}
		return nil, ev.userError(frame, "not callable: %s", value.Print(head))
	}
}

// Apply invokes an already-evaluated Callable with already-evaluated
// positional arguments — the pattern.Host.Apply / builtins "apply" hook.
func (ev *Evaluator) Apply(fn value.Value, args []value.Value) (value.Value, error) {
	switch callee := fn.(type) {
	case *value.NativeFunc:
		return callee.Fn(args, nil)
	case *pattern.Function:
		return callee.Dispatch(args, nil, ev.host())
	case *value.FunctionLiteral:
		return ev.Apply(callee.Callable, args)
	default:
		return nil, fmt.Errorf("not callable: %s", value.Print(fn))
	}
}

// applyDictionary treats a Dictionary as its own accessor, so
// `(d key)` reads and `(d key val)` writes (spec.md's S7 scenario).
func (ev *Evaluator) applyDictionary(d *value.Dictionary, args []value.Value, frame *env.Frame) (value.Value, error) {
	switch len(args) {
	case 1:
		v, ok := d.Get(args[0])
		if !ok {
			return value.Nil, nil
		}
		return v, nil
	case 2:
		d.Set(args[0], args[1])
		return d, nil
	default:
		return nil, ev.userError(frame, "dictionary call expects (key) or (key value), got %d arguments", len(args))
	}
}

func symbolName(v value.Value) (string, bool) {
	if s, ok := v.(value.Symbol); ok {
		return s.Sym.Text(), true
	}
	return "", false
}

func unwrapOne(c *value.Cons) value.Value {
	if inner, ok := c.Cdr.(*value.Cons); ok {
		return inner.Car
	}
	return value.Nil
}

func (ev *Evaluator) userError(frame *env.Frame, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	ctx := value.SourceContext{}
	if frame != nil && frame.Caller != nil {
		ctx = frame.Caller.Ctx
	}
	return errors.UserError(ctx.Pos(), ctx.Text, msg)
}
