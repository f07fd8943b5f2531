package eval

import (
	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/value"
)

// frameEvaluator adapts an Evaluator plus one fixed frame to
// quasiquote.Evaluator's single-argument seam — a quasiquote expansion
// always runs in the frame active at its own call site.
type frameEvaluator struct {
	ev    *Evaluator
	frame *env.Frame
}

func (fe *frameEvaluator) Eval(form value.Value) (value.Value, error) {
	return fe.ev.Eval(form, fe.frame)
}

// evalHost adapts an Evaluator to pattern.Host.
type evalHost struct {
	ev *Evaluator
}

func (ev *Evaluator) host() evalHost { return evalHost{ev: ev} }

func (h evalHost) Eval(form value.Value, frame *env.Frame) (value.Value, error) {
	return h.ev.Eval(form, frame)
}

func (h evalHost) Apply(fn value.Value, args []value.Value) (value.Value, error) {
	return h.ev.Apply(fn, args)
}

func (h evalHost) DispatchStar(fn value.Value, subject []value.Value) (value.Value, int, error) {
	return h.ev.dispatchStar(fn, subject)
}

func (h evalHost) ConvertType(v value.Value, typeName string) (value.Value, bool) {
	return h.ev.ConvertType(v, typeName)
}

// macroExpander adapts an Evaluator to reader.MacroExpander: a freshly
// closed list whose head symbol is already bound to a Macro is expanded
// immediately, at read time (spec.md §4.2 "User macros").
type macroExpander struct {
	ev    *Evaluator
	frame *env.Frame
}

func (ev *Evaluator) MacroExpanderFor(frame *env.Frame) *macroExpander {
	return &macroExpander{ev: ev, frame: frame}
}

func (m *macroExpander) ExpandMacro(head *ident.Symbol, args []value.Value, ctx value.SourceContext) (value.Value, bool, error) {
	bound, ok := m.frame.Lookup(head)
	if !ok {
		return nil, false, nil
	}
	macro, isMacro := bound.(*Macro)
	if !isMacro {
		return nil, false, nil
	}
	expanded, err := macro.Fn(m.ev, args, m.frame, ctx)
	if err != nil {
		return nil, true, err
	}
	return expanded, true, nil
}
