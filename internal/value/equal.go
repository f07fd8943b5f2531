package value

// Equal implements Braid's deep-equality rule: the comparison pattern
// matching's "Generic value" elements fall back to (spec.md §4.3), and
// the one dictionary/set keys would use for a caller that wants
// value-equality rather than the canonical-printed-form key this
// package's Dictionary/HashSet already use internally. Numbers compare
// across Int/Long/BigInt/Float by numeric value; symbols and keywords
// compare by interned identity (spec.md Invariant 2); collections
// compare structurally.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if NumericKind(a) && NumericKind(b) {
		return numericEqual(a, b)
	}
	switch x := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case CharValue:
		y, ok := b.(CharValue)
		return ok && x == y
	case StringValue:
		y, ok := b.(StringValue)
		return ok && x == y
	case Symbol:
		y, ok := b.(Symbol)
		return ok && SymbolEqual(x, y)
	case Keyword:
		y, ok := b.(Keyword)
		return ok && KeywordEqual(x, y)
	case *Cons:
		y, ok := b.(*Cons)
		return ok && Equal(x.Car, y.Car) && Equal(x.Cdr, y.Cdr)
	case *Vector:
		y, ok := b.(*Vector)
		return ok && equalSlice(x.Elems, y.Elems)
	case *VectorLiteral:
		y, ok := b.(*VectorLiteral)
		return ok && equalSlice(x.Elems, y.Elems)
	case *Dictionary:
		y, ok := b.(*Dictionary)
		if !ok || x.Len() != y.Len() {
			return false
		}
		eq := true
		x.Each(func(k, v Value) {
			if !eq {
				return
			}
			yv, found := y.Get(k)
			if !found || !Equal(v, yv) {
				eq = false
			}
		})
		return eq
	case *HashSet:
		y, ok := b.(*HashSet)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, e := range x.Elements() {
			if !y.Contains(e) {
				return false
			}
		}
		return true
	case *Regex:
		y, ok := b.(*Regex)
		return ok && x.Source == y.Source
	case *TypeLiteral:
		y, ok := b.(*TypeLiteral)
		return ok && x.Name == y.Name
	default:
		return a == b
	}
}

func equalSlice(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func numericEqual(a, b Value) bool {
	af, aok := AsBigFloat(a)
	bf, bok := AsBigFloat(b)
	if !aok || !bok {
		return false
	}
	return af.Cmp(bf) == 0
}

// Sequence returns v's elements and true if v is any of the sequence
// kinds pattern matching and destructuring treat interchangeably:
// Vector, VectorLiteral, Slice, or a proper Cons list.
func Sequence(v Value) ([]Value, bool) {
	switch t := v.(type) {
	case *Vector:
		return t.Elems, true
	case *VectorLiteral:
		return t.Elems, true
	case *Slice:
		return t.Elements(), true
	case *Cons:
		return ToSlice(t)
	case NilValue:
		return nil, true
	case *RangeList:
		return t.Elements(), true
	default:
		return nil, false
	}
}
