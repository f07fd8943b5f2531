package builtins_test

import (
	"strings"
	"testing"

	"github.com/braidlang/braid/internal/value"
)

func V(elems ...value.Value) *value.Vector { return value.NewVector(elems...) }

func TestCollectionsLen(t *testing.T) {
	fns := bindMap()
	if got := value.Print(call(t, fns, "len", V(I(1), I(2), I(3)))); got != "3" {
		t.Fatalf("len vector: got %s, want 3", got)
	}
	if got := value.Print(call(t, fns, "len", value.StringValue("hello"))); got != "5" {
		t.Fatalf("len string: got %s, want 5", got)
	}
}

func TestCollectionsFirstAndRest(t *testing.T) {
	fns := bindMap()
	seq := V(I(1), I(2), I(3))
	if got := value.Print(call(t, fns, "first", seq)); got != "1" {
		t.Fatalf("first: got %s, want 1", got)
	}
	if got := value.Print(call(t, fns, "rest", seq)); got != "[2 3]" {
		t.Fatalf("rest: got %s, want [2 3]", got)
	}
}

func TestCollectionsFirstOfEmptyIsNil(t *testing.T) {
	fns := bindMap()
	got := call(t, fns, "first", V())
	if got != value.Value(value.Nil) {
		t.Fatalf("first of empty: got %s, want nil", value.Print(got))
	}
}

func TestCollectionsRestOfEmptyIsEmptyVector(t *testing.T) {
	fns := bindMap()
	got := call(t, fns, "rest", V())
	if value.Print(got) != "[]" {
		t.Fatalf("rest of empty: got %s, want []", value.Print(got))
	}
}

func TestCollectionsCons(t *testing.T) {
	fns := bindMap()
	got := call(t, fns, "cons", I(0), V(I(1), I(2)))
	if value.Print(got) != "[0 1 2]" {
		t.Fatalf("cons: got %s, want [0 1 2]", value.Print(got))
	}
}

func TestCollectionsVectorConstructor(t *testing.T) {
	fns := bindMap()
	got := call(t, fns, "vector", I(1), I(2), I(3))
	if value.Print(got) != "[1 2 3]" {
		t.Fatalf("vector: got %s, want [1 2 3]", value.Print(got))
	}
}

func TestCollectionsNth(t *testing.T) {
	fns := bindMap()
	seq := V(I(10), I(20), I(30))
	if got := value.Print(call(t, fns, "nth", seq, I(1))); got != "20" {
		t.Fatalf("nth: got %s, want 20", got)
	}
}

func TestCollectionsNthOutOfRange(t *testing.T) {
	fns := bindMap()
	err := callErr(t, fns, "nth", V(I(1)), I(5))
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected an out-of-range error, got %v", err)
	}
}

func TestCollectionsReverse(t *testing.T) {
	fns := bindMap()
	got := call(t, fns, "reverse", V(I(1), I(2), I(3)))
	if value.Print(got) != "[3 2 1]" {
		t.Fatalf("reverse: got %s, want [3 2 1]", value.Print(got))
	}
}

func k(fns map[string]func([]value.Value, map[value.Keyword]value.Value) (value.Value, error), text string) value.Keyword {
	// Keywords in these tests never need to round-trip through the
	// reader's interner; an ad-hoc ident.Interner just for producing
	// distinct *ident.Symbol keys is enough for dictionary identity.
	return value.Keyword{Sym: testInterner.Intern(text)}
}

func TestCollectionsDictRoundTrip(t *testing.T) {
	fns := bindMap()
	ka, kb := k(fns, "a"), k(fns, "b")
	d := call(t, fns, "dict", ka, I(1), kb, I(2))
	if got := value.Print(call(t, fns, "get", d, ka)); got != "1" {
		t.Fatalf("get :a: got %s, want 1", got)
	}
	if got := value.Print(call(t, fns, "get", d, value.Keyword{Sym: testInterner.Intern("missing")}, I(99))); got != "99" {
		t.Fatalf("get with default: got %s, want 99", got)
	}
}

func TestCollectionsAssocDoesNotMutateSource(t *testing.T) {
	fns := bindMap()
	ka, kb := k(fns, "a"), k(fns, "b")
	d := call(t, fns, "dict", ka, I(1))
	d2 := call(t, fns, "assoc", d, kb, I(2))
	if _, ok := d.(*value.Dictionary).Get(kb); ok {
		t.Fatalf("assoc mutated the source dictionary")
	}
	if got, ok := d2.(*value.Dictionary).Get(kb); !ok || value.Print(got) != "2" {
		t.Fatalf("assoc result missing :b -> 2")
	}
}

func TestCollectionsKeys(t *testing.T) {
	fns := bindMap()
	ka := k(fns, "a")
	d := call(t, fns, "dict", ka, I(1))
	got := call(t, fns, "keys", d)
	seq, ok := value.Sequence(got)
	if !ok || len(seq) != 1 {
		t.Fatalf("keys: got %s", value.Print(got))
	}
}

func TestCollectionsSetAndContains(t *testing.T) {
	fns := bindMap()
	s := call(t, fns, "set", I(1), I(2), I(3))
	if got := call(t, fns, "contains?", s, I(2)); got != value.True {
		t.Fatalf("contains? 2: got %v", got)
	}
	if got := call(t, fns, "contains?", s, I(9)); got != value.False {
		t.Fatalf("contains? 9: got %v", got)
	}
}

func TestCollectionsContainsOnVector(t *testing.T) {
	fns := bindMap()
	got := call(t, fns, "contains?", V(I(1), I(2), I(3)), I(2))
	if got != value.True {
		t.Fatalf("contains? on vector: got %v", got)
	}
}

func TestCollectionsLenRejectsNonSequence(t *testing.T) {
	fns := bindMap()
	err := callErr(t, fns, "len", I(5))
	if err == nil || !strings.Contains(err.Error(), "not a sequence") {
		t.Fatalf("expected a not-a-sequence error, got %v", err)
	}
}
