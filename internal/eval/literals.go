package eval

import (
	"strconv"
	"strings"

	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/value"
)

// realizeVector, realizeDictionary, realizeHashSet, and realizeTemplate
// evaluate a reader-produced value.BraidLiteral's elements exactly once
// (spec.md §4.4 rule 1), producing the plain collection/string that
// self-evaluates on any later visit.
func (ev *Evaluator) realizeVector(lit *value.VectorLiteral, frame *env.Frame) (value.Value, error) {
	elems := make([]value.Value, len(lit.Elems))
	for i, form := range lit.Elems {
		v, err := ev.Eval(form, frame)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return value.NewVector(elems...), nil
}

func (ev *Evaluator) realizeDictionary(lit *value.DictionaryLiteral, frame *env.Frame) (value.Value, error) {
	d := value.NewDictionary()
	for i, kform := range lit.Keys {
		k, err := ev.Eval(kform, frame)
		if err != nil {
			return nil, err
		}
		v, err := ev.Eval(lit.Vals[i], frame)
		if err != nil {
			return nil, err
		}
		d.Set(k, v)
	}
	return d, nil
}

func (ev *Evaluator) realizeHashSet(lit *value.HashSetLiteral, frame *env.Frame) (value.Value, error) {
	hs := value.NewHashSet()
	for _, form := range lit.Elems {
		v, err := ev.Eval(form, frame)
		if err != nil {
			return nil, err
		}
		hs.Add(v)
	}
	return hs, nil
}

func (ev *Evaluator) realizeTemplate(lit *value.ExpandableStringLiteral, frame *env.Frame) (value.Value, error) {
	var sb strings.Builder
	for _, part := range lit.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Text)
			continue
		}
		v, err := ev.Eval(part.Expr, frame)
		if err != nil {
			return nil, err
		}
		sb.WriteString(stringify(v))
	}
	return value.StringValue(sb.String()), nil
}

// stringify renders v for string interpolation: a StringValue
// contributes its bare text rather than a quoted, read-back form.
func stringify(v value.Value) string {
	if s, ok := v.(value.StringValue); ok {
		return string(s)
	}
	if c, ok := v.(value.CharValue); ok {
		return strconv.QuoteRune(rune(c))[1:2]
	}
	return value.Print(v)
}
