// Package quasiquote implements Braid's quasiquotation expander
// (spec.md §4.6). Because the evaluator is a tree-walker rather than a
// compiler, expansion does not build an intermediate call tree of
// concat/list helpers the way a macro-expanding Lisp does — it walks
// the quoted structure directly, evaluating each unquoted subform in
// place and splicing unquote-spliced results into their enclosing list
// or vector as it goes.
package quasiquote

import (
	"fmt"

	"github.com/braidlang/braid/internal/value"
)

// Evaluator is the one hook Expand needs into the surrounding
// tree-walking evaluator: evaluate an unquoted subform in the current
// lexical environment. Kept as a narrow interface so this package never
// imports eval, matching the dependency direction value.Callable and
// reader.MacroExpander already establish.
type Evaluator interface {
	Eval(form value.Value) (value.Value, error)
}

// Expand walks form, which was just read from behind a backquote,
// replacing every (unquote x) at the matching nesting depth with the
// result of evaluating x and splicing every (unquote-splice x) into its
// enclosing list or vector. Everything else is copied through as a
// literal, unevaluated structure (spec.md Invariant 9: "a quasiquoted
// form with no unquotes reads back identical to its quoted form").
//
// depth starts at 1 for the quasiquote the evaluator is currently
// unwinding. A nested quasiquote increments depth for its own body; a
// matching unquote decrements it, so `(a `(b ~(c) ~@(d)))` only
// evaluates the outer form's own unquotes — the inner backquote's
// unquotes stay inert until that inner quasiquote itself unwinds.
func Expand(form value.Value, depth int, ev Evaluator) (value.Value, error) {
	switch t := form.(type) {
	case *value.Cons:
		switch {
		case t.Has(value.HeadUnquote):
			inner := unwrapOne(t)
			if depth == 1 {
				return ev.Eval(inner)
			}
			expanded, err := Expand(inner, depth-1, ev)
			if err != nil {
				return nil, err
			}
			return wrapOne(t.Car, expanded, t.Ctx), nil

		case t.Has(value.HeadQuasiquote):
			inner := unwrapOne(t)
			expanded, err := Expand(inner, depth+1, ev)
			if err != nil {
				return nil, err
			}
			return wrapOne(t.Car, expanded, t.Ctx), nil

		case t.Has(value.HeadUnquoteSplice):
			return nil, fmt.Errorf("unquote-splice is only valid as a list or vector element, not standing alone")

		default:
			return expandCons(t, depth, ev)
		}

	case *value.VectorLiteral:
		out, err := expandSlice(t.Elems, depth, ev)
		if err != nil {
			return nil, err
		}
		return &value.VectorLiteral{Elems: out}, nil

	case *value.Vector:
		out, err := expandSlice(t.Elems, depth, ev)
		if err != nil {
			return nil, err
		}
		return value.NewVector(out...), nil

	case *value.HashSetLiteral:
		out, err := expandSlice(t.Elems, depth, ev)
		if err != nil {
			return nil, err
		}
		return &value.HashSetLiteral{Elems: out}, nil

	case *value.DictionaryLiteral:
		keys, err := expandSlice(t.Keys, depth, ev)
		if err != nil {
			return nil, err
		}
		vals, err := expandSlice(t.Vals, depth, ev)
		if err != nil {
			return nil, err
		}
		return &value.DictionaryLiteral{Keys: keys, Vals: vals}, nil

	default:
		return form, nil
	}
}

// expandCons handles a plain (non quote/unquote-headed) list, preserving
// a dotted tail if the source cons chain has one and splicing any
// unquote-spliced element in place.
func expandCons(c *value.Cons, depth int, ev Evaluator) (value.Value, error) {
	var elems []value.Value
	var cur value.Value = c
	for {
		cons, ok := cur.(*value.Cons)
		if !ok {
			break
		}
		if err := expandListElement(cons.Car, depth, ev, &elems); err != nil {
			return nil, err
		}
		cur = cons.Cdr
	}
	tail, err := Expand(cur, depth, ev)
	if err != nil {
		return nil, err
	}
	return buildList(elems, tail, c.Ctx), nil
}

// expandListElement expands one list/vector element, appending the
// result (or, for a splice, every spliced item) to *out.
func expandListElement(elem value.Value, depth int, ev Evaluator, out *[]value.Value) error {
	if splice, spliceArg, isSplice := spliceOf(elem); isSplice {
		if depth == 1 {
			spliced, err := ev.Eval(spliceArg)
			if err != nil {
				return err
			}
			items, ok := spliceItems(spliced)
			if !ok {
				return fmt.Errorf("unquote-splice target is not a list or vector: %s", value.Print(spliced))
			}
			*out = append(*out, items...)
			return nil
		}
		expanded, err := Expand(spliceArg, depth-1, ev)
		if err != nil {
			return err
		}
		*out = append(*out, wrapOne(splice.Car, expanded, splice.Ctx))
		return nil
	}
	expanded, err := Expand(elem, depth, ev)
	if err != nil {
		return err
	}
	*out = append(*out, expanded)
	return nil
}

func expandSlice(elems []value.Value, depth int, ev Evaluator) ([]value.Value, error) {
	var out []value.Value
	for _, e := range elems {
		if err := expandListElement(e, depth, ev, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// spliceOf reports whether v is an (unquote-splice x) form, returning
// the original Cons (for its head symbol and context, to rebuild it
// unevaluated at depth > 1) and x itself.
func spliceOf(v value.Value) (cons *value.Cons, arg value.Value, ok bool) {
	c, isCons := v.(*value.Cons)
	if !isCons || !c.Has(value.HeadUnquoteSplice) {
		return nil, nil, false
	}
	return c, unwrapOne(c), true
}

// unwrapOne returns the single argument of a one-argument prefix form
// such as (unquote x) or (quasiquote x), or Nil if malformed.
func unwrapOne(c *value.Cons) value.Value {
	if inner, ok := c.Cdr.(*value.Cons); ok {
		return inner.Car
	}
	return value.Nil
}

// wrapOne rebuilds a one-argument prefix form, reusing the original head
// Value (already an interned Symbol) rather than re-interning one.
func wrapOne(head, inner value.Value, ctx value.SourceContext) value.Value {
	return value.NewCons(head, value.NewCons(inner, value.Nil, ctx), ctx)
}

// spliceItems materializes the elements an unquote-splice target
// contributes to its enclosing list or vector.
func spliceItems(v value.Value) ([]value.Value, bool) {
	switch t := v.(type) {
	case value.NilValue:
		return nil, true
	case *value.Cons:
		return value.ToSlice(t)
	case *value.Vector:
		return append([]value.Value(nil), t.Elems...), true
	case *value.VectorLiteral:
		return append([]value.Value(nil), t.Elems...), true
	default:
		return nil, false
	}
}

// buildList rebuilds a Cons chain from elems terminated by tail (which
// may be a non-Nil value, producing a dotted pair at the very end).
func buildList(elems []value.Value, tail value.Value, ctx value.SourceContext) value.Value {
	out := tail
	for i := len(elems) - 1; i >= 0; i-- {
		out = value.NewCons(elems[i], out, ctx)
	}
	return out
}
