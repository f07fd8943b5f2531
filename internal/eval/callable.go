package eval

import (
	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/errors"
	"github.com/braidlang/braid/internal/pattern"
	"github.com/braidlang/braid/internal/value"
)

// Callable is the local alias for value.Callable, kept so this package's
// exported API reads in its own vocabulary without re-exporting the
// value package's name directly everywhere.
type Callable = value.Callable

// SpecialForm is a Callable whose arguments are passed unevaluated — the
// "SpecialForm" variant of spec.md §3's Callable kind (`if`, `let`,
// `def`, `defn`, `do`, `and`, `or`, `while`, `pipe`, …). Named
// parameters are still extracted and evaluated before Fn runs (spec.md
// §4.4 rule 7), since a special form may accept e.g. `-strict` the same
// way an ordinary function would.
type SpecialForm struct {
	Name string
	Fn   func(ev *Evaluator, args []value.Value, named map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error)
}

func (*SpecialForm) Kind() value.Kind       { return value.KindCallable }
func (s *SpecialForm) String() string       { return "#<special:" + s.Name + ">" }
func (s *SpecialForm) CallableName() string { return s.Name }

// Macro is a Callable invoked with its arguments completely unevaluated
// and unfiltered — "macros see them as-is" (spec.md §4.4 rule 7). Its
// result is itself evaluated once more: the read-time path
// (reader.MacroExpander) inlines that expansion into the surrounding
// form directly, while a macro reached dynamically through Eval (e.g.
// via `apply` or a quasiquoted call) expands and evaluates in the same
// step here.
type Macro struct {
	Name string
	Fn   func(ev *Evaluator, args []value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error)
}

func (*Macro) Kind() value.Kind       { return value.KindCallable }
func (m *Macro) String() string       { return "#<macro:" + m.Name + ">" }
func (m *Macro) CallableName() string { return m.Name }

func (ev *Evaluator) callSpecial(sf *SpecialForm, argForms []value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	positional, named, err := ev.splitNamedForms(argForms, frame, false)
	if err != nil {
		return nil, err
	}
	return sf.Fn(ev, positional, named, frame, ctx)
}

func (ev *Evaluator) callMacro(m *Macro, argForms []value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	expanded, err := m.Fn(ev, argForms, frame, ctx)
	if err != nil {
		return nil, err
	}
	return ev.Eval(expanded, frame)
}

func (ev *Evaluator) callNative(fn *value.NativeFunc, argForms []value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	args, named, err := ev.collectArgs(argForms, frame)
	if err != nil {
		return nil, err
	}
	kwNamed := make(map[value.Keyword]value.Value, len(named))
	for k, v := range named {
		kwNamed[value.Keyword{Sym: ev.Interner.Intern(k)}] = v
	}
	result, err := fn.Fn(args, kwNamed)
	if err != nil {
		return nil, ev.wrapCallError(frame, ctx, fn.Name, err)
	}
	return result, nil
}

// dispatchPattern invokes a pattern.Function through the shared call
// stack, converting a stack-overflow Push failure and any dispatch
// error into an annotated BraidError (spec.md §4.4 "Depth guard",
// "Error propagation").
func (ev *Evaluator) dispatchPattern(fn *pattern.Function, args []value.Value, named map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	if err := ev.Stack.Push(fn.Name, ctx.Pos()); err != nil {
		return nil, ev.userError(frame, "%s", err.Error())
	}
	defer ev.Stack.Pop()

	if ev.Trace {
		ev.traceEnter(fn.Name, args)
	}
	result, err := fn.Dispatch(args, named, ev.host())
	if ev.Trace {
		ev.traceExit(fn.Name, result, err)
	}
	if err != nil {
		return nil, ev.wrapCallError(frame, ctx, fn.Name, err)
	}
	return result, nil
}

// wrapCallError annotates err with one more call-stack frame (spec.md
// §7's accumulating trace), wrapping a plain Go error into a BraidError
// first if one call site raised without going through errors.UserError.
func (ev *Evaluator) wrapCallError(frame *env.Frame, ctx value.SourceContext, function string, err error) error {
	be, ok := err.(*errors.BraidError)
	if !ok {
		be = errors.UserError(ctx.Pos(), ctx.Text, err.Error())
	}
	return be.WithFrame(errors.NewStackFrame(function, ctx.Pos()))
}
