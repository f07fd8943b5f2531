package value_test

import (
	"testing"

	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/value"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    value.Value
		want bool
	}{
		{value.Nil, false},
		{value.False, false},
		{value.True, true},
		{value.IntValue{Value: 0}, true},
		{value.StringValue(""), true},
	}
	for _, c := range cases {
		if got := value.Truthy(c.v); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestConsPrintsListForm(t *testing.T) {
	list := value.FromSlice([]value.Value{
		value.IntValue{Value: 1},
		value.IntValue{Value: 2},
		value.IntValue{Value: 3},
	})
	if got, want := list.String(), "(1 2 3)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDottedPairPrints(t *testing.T) {
	pair := &value.Cons{Car: value.IntValue{Value: 1}, Cdr: value.IntValue{Value: 2}}
	if got, want := pair.String(), "(1 . 2)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestToSliceRejectsDottedPair(t *testing.T) {
	pair := &value.Cons{Car: value.IntValue{Value: 1}, Cdr: value.IntValue{Value: 2}}
	if _, ok := value.ToSlice(pair); ok {
		t.Fatal("ToSlice should reject a dotted pair")
	}
}

func TestVectorPrint(t *testing.T) {
	v := value.NewVector(value.IntValue{Value: 1}, value.StringValue("x"))
	if got, want := v.String(), `[1 "x"]`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDictionaryPreservesInsertionOrder(t *testing.T) {
	d := value.NewDictionary()
	in := ident.New()
	a := value.Keyword{Sym: in.Intern("a")}
	b := value.Keyword{Sym: in.Intern("b")}
	d.Set(b, value.IntValue{Value: 2})
	d.Set(a, value.IntValue{Value: 1})
	keys := d.Keys()
	if len(keys) != 2 || keys[0] != value.Value(b) || keys[1] != value.Value(a) {
		t.Fatalf("unexpected key order: %v", keys)
	}
}

func TestDictionaryGetSetDelete(t *testing.T) {
	d := value.NewDictionary()
	in := ident.New()
	k := value.Keyword{Sym: in.Intern("x")}
	if _, ok := d.Get(k); ok {
		t.Fatal("expected miss before Set")
	}
	d.Set(k, value.IntValue{Value: 42})
	got, ok := d.Get(k)
	if !ok || got != value.Value(value.IntValue{Value: 42}) {
		t.Fatalf("unexpected Get result: %v %v", got, ok)
	}
	d.Delete(k)
	if _, ok := d.Get(k); ok {
		t.Fatal("expected miss after Delete")
	}
}

func TestHashSetDedup(t *testing.T) {
	h := value.NewHashSet()
	if !h.Add(value.IntValue{Value: 1}) {
		t.Fatal("first add should succeed")
	}
	if h.Add(value.IntValue{Value: 1}) {
		t.Fatal("duplicate add should report false")
	}
	if h.Len() != 1 {
		t.Fatalf("expected len 1, got %d", h.Len())
	}
}

func TestRangeListElements(t *testing.T) {
	r := &value.RangeList{Lower: 1, Upper: 5, Increment: 2}
	got := r.Elements()
	want := []int64{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %d elements, want %d", len(got), len(want))
	}
	for i, w := range want {
		if iv, ok := got[i].(value.IntValue); !ok || iv.Value != w {
			t.Errorf("element %d: got %v, want %d", i, got[i], w)
		}
	}
}

func TestIntPromotesToLongKind(t *testing.T) {
	small := value.IntValue{Value: 100}
	if small.Kind() != value.KindInt {
		t.Errorf("expected KindInt for small value")
	}
	big := value.IntValue{Value: 1 << 40}
	if big.Kind() != value.KindLong {
		t.Errorf("expected KindLong for a value beyond int32 range")
	}
}

func TestParseIntWidensOnOverflow(t *testing.T) {
	v := value.ParseInt("99999999999999999999999999999", 10, false)
	if v.Kind() != value.KindBigInt {
		t.Fatalf("expected overflow to widen to BigInt, got %v", v.Kind())
	}
}

func TestFlowControlConstructors(t *testing.T) {
	r := value.Recur([]value.Value{value.IntValue{Value: 1}}, "")
	if r.Which != value.FlowRecur || len(r.Args) != 1 {
		t.Fatalf("unexpected recur token: %+v", r)
	}
	b := value.Break(value.Nil)
	if b.Which != value.FlowBreak {
		t.Fatalf("unexpected break token: %+v", b)
	}
}
