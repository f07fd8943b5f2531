package eval

import (
	"fmt"

	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/pattern"
	"github.com/braidlang/braid/internal/value"
)

// RegisterSpecialForms binds every core special form and macro this
// language ships with into ev.Root, plus the five flow-control tokens
// (ordinary callables: their arguments evaluate normally, they just
// return a value.FlowControl instead of a plain value — spec.md §3
// "Flow control tokens as values").
func RegisterSpecialForms(ev *Evaluator) {
	bind := func(name string, fn func(ev *Evaluator, args []value.Value, named map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error)) {
		ev.Root.SetLocal(ev.Interner.Intern(name), &SpecialForm{Name: name, Fn: fn})
	}
	native := func(name string, fn func(args []value.Value, named map[value.Keyword]value.Value) (value.Value, error)) {
		ev.Root.SetLocal(ev.Interner.Intern(name), &value.NativeFunc{Name: name, Fn: fn})
	}

	// The lexer has no reserved words (spec.md §2's symbol grammar makes
	// no exception for them), so the self-evaluating bools and nil
	// (spec.md §4.4 rule 1) are ordinary names pre-bound in the root
	// frame rather than their own literal token kind.
	ev.Root.SetLocal(ev.Interner.Intern("nil"), value.Nil)
	ev.Root.SetLocal(ev.Interner.Intern("true"), value.True)
	ev.Root.SetLocal(ev.Interner.Intern("false"), value.False)

	bind("if", sfIf)
	bind("do", sfDo)
	bind("and", sfAnd)
	bind("or", sfOr)
	bind("while", sfWhile)
	bind("let", sfLet)
	bind("def", sfDef)
	bind("defn", sfDefn)
	bind("matchp", sfDefn)
	bind("lambda", sfLambda)
	bind("defmacro", sfDefmacro)
	bind("defspecial", sfDefspecial)
	bind("deftype", sfDeftype)
	bind("pipe", sfPipe)

	native("recur", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		return value.Recur(args, ""), nil
	})
	native("return", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Return(value.Nil), nil
		}
		return value.Return(args[0]), nil
	})
	native("break", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Break(value.Nil), nil
		}
		return value.Break(args[0]), nil
	})
	native("continue", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		return value.Continue(), nil
	})
	native("fail", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		return value.Fail(), nil
	})
}

// evalBody evaluates forms in sequence within frame, short-circuiting
// on a FlowControl token the way a pattern clause's actions do.
func (ev *Evaluator) evalBody(forms []value.Value, frame *env.Frame) (value.Value, error) {
	var result value.Value = value.Nil
	for _, form := range forms {
		v, err := ev.Eval(form, frame)
		if err != nil {
			return nil, err
		}
		result = v
		if _, isFlow := value.IsFlow(v); isFlow {
			return v, nil
		}
	}
	return result, nil
}

// sfIf implements `(if cond then else?)`.
func sfIf(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, ev.userError(frame, "if expects (cond then else?), got %d forms", len(args))
	}
	cond, err := ev.Eval(args[0], frame)
	if err != nil {
		return nil, err
	}
	if value.Truthy(cond) {
		return ev.Eval(args[1], frame)
	}
	if len(args) == 3 {
		return ev.Eval(args[2], frame)
	}
	return value.Nil, nil
}

// sfDo implements `(do form...)`: sequential evaluation in a fresh
// child scope, last value wins.
func sfDo(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	return ev.evalBody(args, env.NewEnclosed(frame))
}

// sfAnd short-circuits on the first falsy value.
func sfAnd(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	var result value.Value = value.True
	for _, form := range args {
		v, err := ev.Eval(form, frame)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(v) {
			return v, nil
		}
		result = v
	}
	return result, nil
}

// sfOr short-circuits on the first truthy value.
func sfOr(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	var result value.Value = value.False
	for _, form := range args {
		v, err := ev.Eval(form, frame)
		if err != nil {
			return nil, err
		}
		if value.Truthy(v) {
			return v, nil
		}
		result = v
	}
	return result, nil
}

// sfWhile implements `(while cond body...)`, honouring break/continue
// (spec.md §4.5 rule 5's flow-control tokens at a loop boundary).
func sfWhile(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	if len(args) < 1 {
		return nil, ev.userError(frame, "while expects (cond body...)")
	}
	cond, body := args[0], args[1:]
	var result value.Value = value.Nil
	for {
		if env.StopRequested() {
			return nil, ev.userError(frame, "evaluation stopped")
		}
		c, err := ev.Eval(cond, frame)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(c) {
			return result, nil
		}
		v, err := ev.evalBody(body, env.NewEnclosed(frame))
		if err != nil {
			return nil, err
		}
		if flow, isFlow := value.IsFlow(v); isFlow {
			switch flow.Which {
			case value.FlowBreak:
				return flow.Value, nil
			case value.FlowContinue:
				continue
			default:
				return v, nil
			}
		}
		result = v
	}
}

// sfLet implements two shapes: a Clojure-style `(let [name expr ...]
// body...)` sequential local binding in a fresh child scope, and the
// bodyless `(let pattern value)`, which destructures value and binds
// the resulting names directly into the caller's frame so that later
// top-level forms can see them (spec.md's S6 scenario).
func sfLet(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	if len(args) == 0 {
		return nil, ev.userError(frame, "let expects ([name expr ...] body...) or (pattern value)")
	}

	if bindings, ok := args[0].(*value.VectorLiteral); ok {
		if len(bindings.Elems)%2 != 0 {
			return nil, ev.userError(frame, "let binding vector expects an even number of forms")
		}
		inner := env.NewEnclosed(frame)
		for i := 0; i < len(bindings.Elems); i += 2 {
			v, err := ev.Eval(bindings.Elems[i+1], inner)
			if err != nil {
				return nil, err
			}
			if err := bindPattern(ev, bindings.Elems[i], v, inner); err != nil {
				return nil, ev.userError(frame, "%s", err.Error())
			}
		}
		return ev.evalBody(args[1:], inner)
	}

	if len(args) != 2 {
		return nil, ev.userError(frame, "let expects (pattern value), got %d forms", len(args))
	}
	v, err := ev.Eval(args[1], frame)
	if err != nil {
		return nil, err
	}
	if err := bindPattern(ev, args[0], v, frame); err != nil {
		return nil, ev.userError(frame, "%s", err.Error())
	}
	return v, nil
}

// bindPattern destructures v against pat, binding names directly into
// frame rather than a scope of its own (unlike the pattern package's
// clause dispatch, which always binds into a fresh child frame). A
// compound name binds positionally — each component takes the sequence
// element at its index — rather than the cons-style head/tail split
// function clauses use for the same `a:b:c` syntax (spec.md's S4 vs
// S6: a clause's `x:xs` must keep absorbing the tail as a list across
// recursive calls, but `let`'s `a:b:c` against a same-length vector
// binds three plain scalars).
func bindPattern(ev *Evaluator, pat value.Value, v value.Value, frame *env.Frame) error {
	switch t := pat.(type) {
	case value.Symbol:
		if !t.Sym.IsCompound() {
			frame.SetLocal(t.Sym, v)
			return nil
		}
		seq, ok := value.Sequence(v)
		if !ok {
			return fmt.Errorf("cannot destructure %s against %s", t.Sym.Text(), value.Print(v))
		}
		for i, piece := range t.Sym.Compound {
			if i >= len(seq) {
				return fmt.Errorf("%s: not enough elements to bind %q", t.Sym.Text(), piece)
			}
			frame.SetLocal(ev.Interner.Intern(piece), seq[i])
		}
		return nil
	case *value.VectorLiteral:
		seq, ok := value.Sequence(v)
		if !ok {
			return fmt.Errorf("cannot destructure vector pattern against %s", value.Print(v))
		}
		for i, sub := range t.Elems {
			if i >= len(seq) {
				return fmt.Errorf("not enough elements to destructure %s", value.Print(pat))
			}
			if err := bindPattern(ev, sub, seq[i], frame); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("let: unsupported binding pattern %s", value.Print(pat))
	}
}

// sfDef implements `(def name value)`, always defining in the current
// frame (spec.md §4.7's `def` vs `set!`-like `=` distinction — this
// core only needs the definition form).
func sfDef(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	if len(args) != 2 {
		return nil, ev.userError(frame, "def expects (name value)")
	}
	sym, ok := args[0].(value.Symbol)
	if !ok {
		return nil, ev.userError(frame, "def expects a symbol name, got %s", value.Print(args[0]))
	}
	v, err := ev.Eval(args[1], frame)
	if err != nil {
		return nil, err
	}
	frame.SetLocal(sym.Sym, v)
	return v, nil
}

// clauseBodyForName wraps a defn/lambda argument list into the clause
// grammar pattern.Compile expects, synthesizing a single "| params...
// -> body..." clause when the body was written as a plain flat
// parameter list rather than already using explicit "|"/"->" clause
// syntax (spec.md §4.4 rule 7's "UserFunction" shape is just the
// one-clause case of a pattern function — see DESIGN.md).
func clauseBodyForName(ev *Evaluator, body []value.Value) []value.Value {
	if len(body) > 0 {
		if sym, ok := body[0].(value.Symbol); ok {
			switch sym.Sym.Text() {
			case "^", "|", "$":
				return body
			}
		}
	}
	pipe := value.Symbol{Sym: ev.Interner.Intern("|")}
	arrow := value.Symbol{Sym: ev.Interner.Intern("->")}
	for i, form := range body {
		if sym, ok := form.(value.Symbol); ok && sym.Sym.Text() == "->" {
			out := make([]value.Value, 0, len(body)+1)
			out = append(out, pipe)
			out = append(out, body[:i]...)
			out = append(out, arrow)
			out = append(out, body[i+1:]...)
			return out
		}
	}
	out := make([]value.Value, 0, len(body)+2)
	out = append(out, pipe, arrow)
	out = append(out, body...)
	return out
}

// sfDefn implements `(defn name clause...)`.
func sfDefn(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	if len(args) < 1 {
		return nil, ev.userError(frame, "defn expects a name")
	}
	sym, ok := args[0].(value.Symbol)
	if !ok {
		return nil, ev.userError(frame, "defn expects a symbol name, got %s", value.Print(args[0]))
	}
	fn, err := pattern.Compile(sym.Sym.Text(), clauseBodyForName(ev, args[1:]), frame, ev.Interner, ctx)
	if err != nil {
		return nil, ev.userError(frame, "%s", err.Error())
	}
	frame.SetLocal(sym.Sym, fn)
	return fn, nil
}

// sfLambda implements an anonymous `(lambda clause...)`.
func sfLambda(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	fn, err := pattern.Compile("lambda", clauseBodyForName(ev, args), frame, ev.Interner, ctx)
	if err != nil {
		return nil, ev.userError(frame, "%s", err.Error())
	}
	return fn, nil
}

// sfDefmacro implements `(defmacro name clause...)`: the inner pattern
// function matches raw, unevaluated argument forms (a Value works as a
// pattern subject whether or not it has been evaluated), and its
// actions construct the replacement form.
func sfDefmacro(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	if len(args) < 1 {
		return nil, ev.userError(frame, "defmacro expects a name")
	}
	sym, ok := args[0].(value.Symbol)
	if !ok {
		return nil, ev.userError(frame, "defmacro expects a symbol name, got %s", value.Print(args[0]))
	}
	inner, err := pattern.Compile(sym.Sym.Text(), clauseBodyForName(ev, args[1:]), frame, ev.Interner, ctx)
	if err != nil {
		return nil, ev.userError(frame, "%s", err.Error())
	}
	macro := &Macro{
		Name: sym.Sym.Text(),
		Fn: func(ev *Evaluator, rawArgs []value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
			return inner.Dispatch(rawArgs, nil, ev.host())
		},
	}
	frame.SetLocal(sym.Sym, macro)
	return macro, nil
}

// sfDefspecial implements `(defspecial name clause...)`: like defmacro,
// but the inner pattern function's own body result is returned directly
// as the call's value rather than evaluated again — a user-level
// special form sees its positional arguments unevaluated and any named
// parameters already extracted and evaluated (spec.md §4.4 rule 7's
// SpecialForm discipline).
func sfDefspecial(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	if len(args) < 1 {
		return nil, ev.userError(frame, "defspecial expects a name")
	}
	sym, ok := args[0].(value.Symbol)
	if !ok {
		return nil, ev.userError(frame, "defspecial expects a symbol name, got %s", value.Print(args[0]))
	}
	inner, err := pattern.Compile(sym.Sym.Text(), clauseBodyForName(ev, args[1:]), frame, ev.Interner, ctx)
	if err != nil {
		return nil, ev.userError(frame, "%s", err.Error())
	}
	special := &SpecialForm{
		Name: sym.Sym.Text(),
		Fn: func(ev *Evaluator, positional []value.Value, named map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
			return inner.Dispatch(positional, named, ev.host())
		},
	}
	frame.SetLocal(sym.Sym, special)
	return special, nil
}

// sfDeftype implements `(deftype Name field...)`: registers the record
// shape and binds a constructor callable of the same name.
func sfDeftype(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	if len(args) < 1 {
		return nil, ev.userError(frame, "deftype expects a type name")
	}
	nameSym, ok := args[0].(value.Symbol)
	if !ok {
		return nil, ev.userError(frame, "deftype expects a symbol name, got %s", value.Print(args[0]))
	}
	fields := make([]string, 0, len(args)-1)
	for _, f := range args[1:] {
		fsym, ok := f.(value.Symbol)
		if !ok {
			return nil, ev.userError(frame, "deftype field must be a symbol, got %s", value.Print(f))
		}
		fields = append(fields, fsym.Sym.Text())
	}

	rt := &value.RecordType{Name: nameSym.Sym.Text(), Fields: fields}
	ev.Types[rt.Name] = rt

	ctor := &value.NativeFunc{
		Name: rt.Name,
		Fn: func(callArgs []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
			if len(callArgs) != len(rt.Fields) {
				return nil, fmt.Errorf("%s expects %d field(s), got %d", rt.Name, len(rt.Fields), len(callArgs))
			}
			return &value.Record{Type: rt, Values: append([]value.Value(nil), callArgs...)}, nil
		},
	}
	frame.SetLocal(nameSym.Sym, ctor)
	return ctor, nil
}

// sfPipe implements the reader's pipeline transform `(pipe seg1 seg2
// …)` — the threaded value from the previous segment is inserted as
// the first positional argument of the next call (spec.md §4.2
// "Pipelines").
func sfPipe(ev *Evaluator, args []value.Value, _ map[string]value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	if len(args) == 0 {
		return value.Nil, nil
	}
	acc, err := ev.Eval(args[0], frame)
	if err != nil {
		return nil, err
	}
	for _, seg := range args[1:] {
		call, err := threadInto(ev, seg, acc, frame, ctx)
		if err != nil {
			return nil, err
		}
		acc = call
	}
	return acc, nil
}

// threadInto evaluates one pipeline segment with acc inserted as its
// first argument: `g` becomes `(g acc)`, `(f x)` becomes `(f acc x)`.
func threadInto(ev *Evaluator, seg value.Value, acc value.Value, frame *env.Frame, ctx value.SourceContext) (value.Value, error) {
	litCons := func(v value.Value) value.Value {
		return &quotedLiteral{v: v}
	}

	switch t := seg.(type) {
	case value.Symbol:
		head, err := ev.Eval(t, frame)
		if err != nil {
			return nil, err
		}
		return ev.applyForm(head, []value.Value{litCons(acc)}, frame, ctx)
	case *value.Cons:
		elems, ok := value.ToSlice(t)
		if !ok || len(elems) == 0 {
			return nil, ev.userError(frame, "invalid pipeline segment: %s", value.Print(t))
		}
		head, err := ev.Eval(elems[0], frame)
		if err != nil {
			return nil, err
		}
		argForms := append([]value.Value{litCons(acc)}, elems[1:]...)
		return ev.applyForm(head, argForms, frame, ctx)
	default:
		return nil, ev.userError(frame, "invalid pipeline segment: %s", value.Print(seg))
	}
}

// quotedLiteral is an argForm wrapper that evaluates to a fixed,
// already-computed value.Value — used by the pipeline threader to
// splice an already-evaluated accumulator into a fresh argument-form
// list without re-quoting it through the reader's own quote Cons shape.
type quotedLiteral struct{ v value.Value }

func (q *quotedLiteral) Kind() value.Kind { return q.v.Kind() }
func (q *quotedLiteral) String() string   { return value.Print(q.v) }
