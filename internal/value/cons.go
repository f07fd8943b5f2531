package value

import "strings"

// HeadFlag marks a precomputed classification of a Cons's head symbol,
// so the evaluator and reader needn't re-compare symbol text on every
// visit (spec.md §3 "Cons... flags precomputed for quote/quasiquote/
// unquote/unquote-splice/splat/lambda heads").
type HeadFlag uint8

const (
	HeadNone HeadFlag = 0
	HeadQuote HeadFlag = 1 << iota
	HeadQuasiquote
	HeadUnquote
	HeadUnquoteSplice
	HeadSplat
	HeadLambda
)

// Cons is a (car, cdr) pair — the spine of every Braid list. A list is
// a Cons chain terminated by Nil; a dotted pair has a non-Cons, non-Nil
// cdr and prints as "(a . b)" (spec.md "Cons invariants").
type Cons struct {
	Car Value
	Cdr Value

	Ctx   SourceContext
	Flags HeadFlag
}

func (*Cons) Kind() Kind { return KindCons }

func (c *Cons) String() string { return PrintCons(c) }

// Has reports whether flag is set on this cons's head.
func (c *Cons) Has(flag HeadFlag) bool { return c.Flags&flag != 0 }

// ComputeHeadFlags classifies car against the well-known special-form
// head names and returns the flag set to stamp on a freshly built Cons.
func ComputeHeadFlags(car Value) HeadFlag {
	sym, ok := car.(Symbol)
	if !ok {
		return HeadNone
	}
	switch sym.Sym.Text() {
	case "quote":
		return HeadQuote
	case "quasiquote":
		return HeadQuasiquote
	case "unquote":
		return HeadUnquote
	case "unquote-splice":
		return HeadUnquoteSplice
	case "splat":
		return HeadSplat
	case "lambda":
		return HeadLambda
	default:
		return HeadNone
	}
}

// NewCons builds a Cons with its head flags precomputed.
func NewCons(car, cdr Value, ctx SourceContext) *Cons {
	return &Cons{Car: car, Cdr: cdr, Ctx: ctx, Flags: ComputeHeadFlags(car)}
}

// IsList reports whether c is a proper list: its cdr chain terminates
// in Nil without a non-Cons, non-Nil tail.
func IsList(v Value) bool {
	for {
		switch t := v.(type) {
		case NilValue:
			return true
		case *Cons:
			v = t.Cdr
		default:
			return false
		}
	}
}

// ToSlice flattens a proper list into a Go slice of its elements. If v
// is a dotted pair or not a list at all, ok is false.
func ToSlice(v Value) (elems []Value, ok bool) {
	for {
		switch t := v.(type) {
		case NilValue:
			return elems, true
		case *Cons:
			elems = append(elems, t.Car)
			v = t.Cdr
		default:
			return elems, false
		}
	}
}

// FromSlice builds a proper list from elems, terminated by Nil.
func FromSlice(elems []Value) Value {
	var out Value = Nil
	for i := len(elems) - 1; i >= 0; i-- {
		out = &Cons{Car: elems[i], Cdr: out, Flags: ComputeHeadFlags(elems[i])}
	}
	return out
}

// PrintCons renders a Cons chain using the "(a b c)" list form or the
// "(a . b)" dotted-pair form (spec.md "Cons invariants"), truncating at
// a depth of 100 to guard against a user-constructed cycle (§9).
func PrintCons(c *Cons) string {
	var sb strings.Builder
	sb.WriteByte('(')
	cur := Value(c)
	depth := 0
	first := true
	for depth < 100 {
		cons, ok := cur.(*Cons)
		if !ok {
			break
		}
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		sb.WriteString(Print(cons.Car))
		cur = cons.Cdr
		depth++
	}
	switch t := cur.(type) {
	case NilValue:
		// proper list, nothing more to print
	case *Cons:
		sb.WriteString(" ...") // depth-truncated, possibly cyclic
	default:
		sb.WriteString(" . ")
		sb.WriteString(Print(t))
	}
	sb.WriteByte(')')
	return sb.String()
}
