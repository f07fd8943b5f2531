package eval

import (
	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/value"
)

// isMarker reports whether form is a reader-built (named-flag :kw) or
// (named-value :kw val) cons and, if so, returns its keyword text and
// (for named-value) the unevaluated value form.
func isMarker(form value.Value) (name string, valForm value.Value, hasVal, ok bool) {
	c, isCons := form.(*value.Cons)
	if !isCons {
		return "", nil, false, false
	}
	sym, isSym := c.Car.(value.Symbol)
	if !isSym {
		return "", nil, false, false
	}
	switch sym.Sym.Text() {
	case "named-flag":
		rest, _ := value.ToSlice(c.Cdr)
		if len(rest) != 1 {
			return "", nil, false, false
		}
		kw, isKw := rest[0].(value.Keyword)
		if !isKw {
			return "", nil, false, false
		}
		return kw.Sym.Text(), nil, false, true
	case "named-value":
		rest, _ := value.ToSlice(c.Cdr)
		if len(rest) != 2 {
			return "", nil, false, false
		}
		kw, isKw := rest[0].(value.Keyword)
		if !isKw {
			return "", nil, false, false
		}
		return kw.Sym.Text(), rest[1], true, true
	default:
		return "", nil, false, false
	}
}

// splatItems evaluates and flattens the target of an @expr splat
// (spec.md §4.4 rule 5: "expand @expr by evaluating it and inserting
// members — for dictionaries, interleave keys and values; otherwise
// iterate").
func (ev *Evaluator) splatItems(target value.Value, frame *env.Frame) ([]value.Value, error) {
	v, err := ev.Eval(target, frame)
	if err != nil {
		return nil, err
	}
	if d, ok := v.(*value.Dictionary); ok {
		out := make([]value.Value, 0, d.Len()*2)
		d.Each(func(k, val value.Value) {
			out = append(out, k, val)
		})
		return out, nil
	}
	if hs, ok := v.(*value.HashSet); ok {
		return hs.Elements(), nil
	}
	if seq, ok := value.Sequence(v); ok {
		return seq, nil
	}
	return []value.Value{v}, nil
}

// splitNamedForms separates a raw argument-form list into positional
// forms and a named-parameter map, recognising the reader's
// (named-flag :kw) / (named-value :kw val) markers (spec.md §4.2
// "Named flag/value markers", §4.4 rule 7, §4.5 rule 4). When
// evalValues is true, each positional form and named-value form is
// evaluated (the ordinary-callable discipline); when false, positional
// forms are left untouched for a special form to interpret itself,
// while a named-value's value form is still evaluated — a special form
// still receives live values for its named parameters.
func (ev *Evaluator) splitNamedForms(argForms []value.Value, frame *env.Frame, evalValues bool) ([]value.Value, map[string]value.Value, error) {
	var positional []value.Value
	var named map[string]value.Value

	for _, form := range argForms {
		if name, valForm, hasVal, ok := isMarker(form); ok {
			if named == nil {
				named = make(map[string]value.Value)
			}
			if !hasVal {
				named[name] = value.True
				continue
			}
			v, err := ev.Eval(valForm, frame)
			if err != nil {
				return nil, nil, err
			}
			named[name] = v
			continue
		}

		if c, isCons := form.(*value.Cons); isCons && c.Has(value.HeadSplat) {
			items, err := ev.splatItems(unwrapOne(c), frame)
			if err != nil {
				return nil, nil, err
			}
			positional = append(positional, items...)
			continue
		}

		if !evalValues {
			positional = append(positional, form)
			continue
		}

		v, err := ev.Eval(form, frame)
		if err != nil {
			return nil, nil, err
		}
		positional = append(positional, v)
	}

	return positional, named, nil
}

// collectArgs is the ordinary-callable argument collector: every
// positional form is evaluated left to right, named markers are routed
// into the named map, and @expr splats are spliced in place (spec.md
// §4.4 rule 7, §4.5 rule 1).
func (ev *Evaluator) collectArgs(argForms []value.Value, frame *env.Frame) ([]value.Value, map[string]value.Value, error) {
	return ev.splitNamedForms(argForms, frame, true)
}
