package pattern_test

import (
	"fmt"
	"testing"

	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/pattern"
	"github.com/braidlang/braid/internal/reader"
	"github.com/braidlang/braid/internal/value"
)

// fakeHost is a minimal Host good enough to drive the handful of
// operators these tests need (+, -, *, <, recur, and calling another
// compiled pattern function bound in scope) without depending on the
// real tree-walking evaluator.
type fakeHost struct{ in *ident.Interner }

func (h fakeHost) Eval(form value.Value, frame *env.Frame) (value.Value, error) {
	switch t := form.(type) {
	case value.Symbol:
		v, ok := frame.Lookup(t.Sym)
		if !ok {
			return nil, fmt.Errorf("unbound symbol: %s", t.Sym.Text())
		}
		return v, nil
	case *value.Cons:
		elems, ok := value.ToSlice(t)
		if !ok || len(elems) == 0 {
			return nil, fmt.Errorf("bad form: %s", value.Print(t))
		}
		headSym, ok := elems[0].(value.Symbol)
		if !ok {
			return nil, fmt.Errorf("head must be a symbol: %s", value.Print(elems[0]))
		}
		args := make([]value.Value, len(elems)-1)
		for i, a := range elems[1:] {
			v, err := h.Eval(a, frame)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		switch headSym.Sym.Text() {
		case "+":
			return intFold(args, func(a, b int64) int64 { return a + b }), nil
		case "-":
			return intFold(args, func(a, b int64) int64 { return a - b }), nil
		case "*":
			return intFold(args, func(a, b int64) int64 { return a * b }), nil
		case "<":
			return value.Bool(args[0].(value.IntValue).Value < args[1].(value.IntValue).Value), nil
		case "recur":
			return value.Recur(args, ""), nil
		case "fail":
			return value.Fail(), nil
		}
		callee, ok := frame.Lookup(headSym.Sym)
		if !ok {
			return nil, fmt.Errorf("unbound function: %s", headSym.Sym.Text())
		}
		fn, ok := callee.(*pattern.Function)
		if !ok {
			return nil, fmt.Errorf("%s is not callable", headSym.Sym.Text())
		}
		return fn.Dispatch(args, nil, h)
	default:
		return form, nil
	}
}

func (h fakeHost) Apply(fn value.Value, args []value.Value) (value.Value, error) {
	if pf, ok := fn.(*pattern.Function); ok {
		return pf.Dispatch(args, nil, h)
	}
	return nil, fmt.Errorf("not callable")
}

func (h fakeHost) DispatchStar(fn value.Value, subject []value.Value) (value.Value, int, error) {
	pf, ok := fn.(*pattern.Function)
	if !ok {
		return nil, 0, fmt.Errorf("not a pattern function")
	}
	return pf.DispatchStar(subject, h)
}

func (h fakeHost) ConvertType(v value.Value, typeName string) (value.Value, bool) {
	switch typeName {
	case "Int":
		i, ok := v.(value.IntValue)
		return i, ok
	case "String":
		s, ok := v.(value.StringValue)
		return s, ok
	default:
		return nil, false
	}
}

func intFold(args []value.Value, op func(a, b int64) int64) value.Value {
	acc := args[0].(value.IntValue).Value
	for _, a := range args[1:] {
		acc = op(acc, a.(value.IntValue).Value)
	}
	return value.IntValue{Value: acc}
}

// compileBody reads a full "(defn name | ...)" form and compiles
// everything after the name into a *pattern.Function bound to itself
// in a fresh root frame, so recursive clauses can call back in.
func compileBody(t *testing.T, in *ident.Interner, src string) (*pattern.Function, *env.Frame) {
	t.Helper()
	forms, err := reader.New("<test>", src, in).ReadAll()
	if err != nil {
		t.Fatalf("read(%q): %v", src, err)
	}
	if len(forms) != 1 {
		t.Fatalf("expected one form, got %d", len(forms))
	}
	elems, ok := value.ToSlice(forms[0])
	if !ok || len(elems) < 3 {
		t.Fatalf("expected (defn name clause...), got %s", value.Print(forms[0]))
	}
	nameSym, ok := elems[1].(value.Symbol)
	if !ok {
		t.Fatalf("expected a name symbol, got %s", value.Print(elems[1]))
	}
	root := env.NewRoot()
	fn, cerr := pattern.Compile(nameSym.Sym.Text(), elems[2:], root, in, value.SourceContext{})
	if cerr != nil {
		t.Fatalf("Compile(%q): %v", src, cerr)
	}
	root.SetLocal(nameSym.Sym, fn)
	return fn, root
}

func TestFactorialClauses(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, "(defn fact | 0 -> 1 | n -> (* n (fact (- n 1))))")
	host := fakeHost{in: in}
	got, err := fn.Dispatch([]value.Value{value.IntValue{Value: 5}}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.IntValue{Value: 120}) {
		t.Fatalf("fact(5) = %v, want 120", got)
	}
}

func TestRecurDoesNotGrowGoStack(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, "(defn sum | acc [] -> acc | acc x:xs -> (recur (+ acc x) xs))")
	host := fakeHost{in: in}

	n := 10000
	elems := make([]value.Value, n)
	var total int64
	for i := 0; i < n; i++ {
		elems[i] = value.IntValue{Value: 1}
		total++
	}
	list := value.FromSlice(elems)
	listElems, _ := value.Sequence(list)

	got, err := fn.Dispatch([]value.Value{value.IntValue{Value: 0}, value.NewVector(listElems...)}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.IntValue{Value: total}) {
		t.Fatalf("sum = %v, want %d", got, total)
	}
}

func TestCompoundDestructuringBindsHeadAndTail(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, "(defn firstOf | x:xs -> x)")
	host := fakeHost{in: in}
	vec := value.NewVector(value.IntValue{Value: 10}, value.IntValue{Value: 20}, value.IntValue{Value: 30})
	got, err := fn.Dispatch([]value.Value{vec}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.IntValue{Value: 10}) {
		t.Fatalf("firstOf = %v, want 10", got)
	}
}

func TestWhereGuardSelectsClause(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, `(defn sign | n :where (< n 0) -> 0 | n -> 1)`)
	host := fakeHost{in: in}

	got, err := fn.Dispatch([]value.Value{value.IntValue{Value: -5}}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.IntValue{Value: 0}) {
		t.Fatalf("sign(-5) = %v, want 0 (negative clause)", got)
	}

	got, err = fn.Dispatch([]value.Value{value.IntValue{Value: 5}}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.IntValue{Value: 1}) {
		t.Fatalf("sign(5) = %v, want 1 (fallback clause)", got)
	}
}

func TestIgnoreAndLiteralElements(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, `(defn classify | 0 _ -> "zero-first" | _ 0 -> "zero-second" | _ _ -> "neither")`)
	host := fakeHost{in: in}

	got, err := fn.Dispatch([]value.Value{value.IntValue{Value: 0}, value.IntValue{Value: 9}}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.StringValue("zero-first")) {
		t.Fatalf("classify(0,9) = %v, want zero-first", got)
	}
}

func TestVectorPatternElement(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, `(defn pairSum | [a b] -> (+ a b))`)
	host := fakeHost{in: in}
	vec := value.NewVector(value.IntValue{Value: 3}, value.IntValue{Value: 4})
	got, err := fn.Dispatch([]value.Value{vec}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.IntValue{Value: 7}) {
		t.Fatalf("pairSum([3 4]) = %v, want 7", got)
	}
}

func TestNoMatchingClauseIsAnError(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, `(defn onlyZero | 0 -> "zero")`)
	host := fakeHost{in: in}
	_, err := fn.Dispatch([]value.Value{value.IntValue{Value: 1}}, nil, host)
	if err == nil {
		t.Fatal("expected an error for an unmatched subject")
	}
}

func TestDefaultClauseRunsWhenNothingMatches(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, `(defn maybe | 0 -> "zero" | -> "fallback")`)
	host := fakeHost{in: in}
	got, err := fn.Dispatch([]value.Value{value.IntValue{Value: 7}}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.StringValue("fallback")) {
		t.Fatalf("maybe(7) = %v, want fallback", got)
	}
}

func TestAndArgsBindsRemainder(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, `(defn firstAndRest | first &rest -> first)`)
	host := fakeHost{in: in}
	got, err := fn.Dispatch([]value.Value{
		value.IntValue{Value: 1}, value.IntValue{Value: 2}, value.IntValue{Value: 3},
	}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.IntValue{Value: 1}) {
		t.Fatalf("firstAndRest = %v, want 1", got)
	}
}

func TestPinnedVarTestsAgainstBoundValue(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, `(defn matchesX | x %x -> "same" | x y -> "different")`)
	host := fakeHost{in: in}

	got, err := fn.Dispatch([]value.Value{value.IntValue{Value: 5}, value.IntValue{Value: 5}}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.StringValue("same")) {
		t.Fatalf("matchesX(5,5) = %v, want same", got)
	}

	got, err = fn.Dispatch([]value.Value{value.IntValue{Value: 5}, value.IntValue{Value: 6}}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.StringValue("different")) {
		t.Fatalf("matchesX(5,6) = %v, want different", got)
	}
}

func TestDeclaredKeywordBindsNamedOrNil(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, `(defn greet | name :loud -> name)`)
	host := fakeHost{in: in}

	got, err := fn.Dispatch([]value.Value{value.StringValue("hi")}, map[string]value.Value{"loud": value.True}, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.StringValue("hi")) {
		t.Fatalf("greet = %v, want hi", got)
	}

	if _, err := fn.Dispatch([]value.Value{value.StringValue("hi")}, map[string]value.Value{"bogus": value.True}, host); err == nil {
		t.Fatal("expected an error for an undeclared named parameter")
	}
}

func TestTypeElementConvertsAndBinds(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, `(defn onlyInts | (^Int n) -> n)`)
	host := fakeHost{in: in}
	got, err := fn.Dispatch([]value.Value{value.IntValue{Value: 42}}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.IntValue{Value: 42}) {
		t.Fatalf("onlyInts(42) = %v, want 42", got)
	}
	if _, err := fn.Dispatch([]value.Value{value.StringValue("x")}, nil, host); err == nil {
		t.Fatal("expected a String argument to fail the ^Int clause with no fallback")
	}
}

func TestBraidFailBacktracksToNextClauseByDefault(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, `(defn risky | n -> (fail) | n -> "fallback")`)
	host := fakeHost{in: in}
	got, err := fn.Dispatch([]value.Value{value.IntValue{Value: 1}}, nil, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Value(value.StringValue("fallback")) {
		t.Fatalf("risky(1) = %v, want fallback", got)
	}
}

func TestFailElementDisablesBacktrackingForItsClause(t *testing.T) {
	in := ident.New()
	fn, _ := compileBody(t, in, `(defn risky | n ! -> (fail) | n -> "fallback")`)
	host := fakeHost{in: in}
	_, err := fn.Dispatch([]value.Value{value.IntValue{Value: 1}}, nil, host)
	if err == nil {
		t.Fatal("expected a hard error: '!' in the matching clause must disable backtracking past a BraidFail")
	}
}
