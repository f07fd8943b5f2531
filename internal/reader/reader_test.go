package reader_test

import (
	"testing"

	"github.com/braidlang/braid/internal/errors"
	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/reader"
	"github.com/braidlang/braid/internal/value"
)

func readAll(t *testing.T, src string) []value.Value {
	t.Helper()
	in := ident.New()
	forms, err := reader.New("<test>", src, in).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll(%q): %v", src, err)
	}
	return forms
}

func readOne(t *testing.T, src string) value.Value {
	t.Helper()
	forms := readAll(t, src)
	if len(forms) != 1 {
		t.Fatalf("expected exactly one form from %q, got %d", src, len(forms))
	}
	return forms[0]
}

func TestReadsAtoms(t *testing.T) {
	cases := map[string]string{
		"123":      "123",
		"1.5":      "1.5",
		":kw":      ":kw",
		"\"hi\"":   `"hi"`,
		"\\a":      "\\a",
		"sym":      "sym",
	}
	for src, want := range cases {
		got := value.Print(readOne(t, src))
		if got != want {
			t.Errorf("Print(read(%q)) = %q, want %q", src, got, want)
		}
	}
}

func TestReadsList(t *testing.T) {
	form := readOne(t, "(+ 1 2)")
	elems, ok := value.ToSlice(form)
	if !ok || len(elems) != 3 {
		t.Fatalf("expected 3-element proper list, got %v ok=%v", form, ok)
	}
	sym, ok := elems[0].(value.Symbol)
	if !ok || sym.Sym.Text() != "+" {
		t.Fatalf("expected head symbol '+', got %v", elems[0])
	}
}

func TestEmptyListIsNil(t *testing.T) {
	form := readOne(t, "()")
	if form != value.Value(value.Nil) {
		t.Fatalf("expected Nil, got %v", form)
	}
}

func TestDottedPair(t *testing.T) {
	form := readOne(t, "(a . b)")
	cons, ok := form.(*value.Cons)
	if !ok {
		t.Fatalf("expected *Cons, got %T", form)
	}
	if value.IsList(cons) {
		t.Fatal("dotted pair must not report as a proper list")
	}
	if value.Print(cons) != "(a . b)" {
		t.Fatalf("unexpected print form: %s", value.Print(cons))
	}
}

func TestQuotePrefixes(t *testing.T) {
	cases := map[string]string{
		"'x":  "(quote x)",
		"`x":  "(quasiquote x)",
		"~x":  "(unquote x)",
		"~@x": "(unquote-splice x)",
		"@x":  "(splat x)",
	}
	for src, want := range cases {
		got := value.Print(readOne(t, src))
		if got != want {
			t.Errorf("read(%q) = %s, want %s", src, got, want)
		}
	}
}

func TestVectorLiteral(t *testing.T) {
	form := readOne(t, "[1 2 3]")
	vl, ok := form.(*value.VectorLiteral)
	if !ok || len(vl.Elems) != 3 {
		t.Fatalf("expected VectorLiteral with 3 elems, got %v", form)
	}
}

func TestHashSetLiteral(t *testing.T) {
	form := readOne(t, "#{1 2}")
	hl, ok := form.(*value.HashSetLiteral)
	if !ok || len(hl.Elems) != 2 {
		t.Fatalf("expected HashSetLiteral with 2 elems, got %v", form)
	}
}

func TestDictionaryLiteralWithoutColon(t *testing.T) {
	form := readOne(t, `{:a 1 :b 2}`)
	dl, ok := form.(*value.DictionaryLiteral)
	if !ok || len(dl.Keys) != 2 {
		t.Fatalf("expected DictionaryLiteral with 2 keys, got %v", form)
	}
}

func TestDictionaryLiteralWithJSONColon(t *testing.T) {
	form := readOne(t, `{"a": 1, "b": 2}`)
	dl, ok := form.(*value.DictionaryLiteral)
	if !ok || len(dl.Keys) != 2 {
		t.Fatalf("expected DictionaryLiteral with 2 keys, got %v", form)
	}
	if dl.Vals[0] != value.Value(value.IntValue{Value: 1}) {
		t.Fatalf("expected first value 1, got %v", dl.Vals[0])
	}
}

func TestPipelineExpansion(t *testing.T) {
	form := readOne(t, "(a | f x | g)")
	got := value.Print(form)
	want := "(pipe a (f x) g)"
	if got != want {
		t.Fatalf("pipeline expansion = %s, want %s", got, want)
	}
}

func TestPipelineExemptForms(t *testing.T) {
	form := readOne(t, "(lambda (a) (a | b))")
	elems, _ := value.ToSlice(form)
	// Only the nested (a | b) body should pipeline-expand, not the
	// lambda's own argument list.
	body := elems[2]
	if value.Print(body) != "(pipe a b)" {
		t.Fatalf("expected nested body to expand, got %s", value.Print(body))
	}
	params := elems[1]
	if value.Print(params) != "(a)" {
		t.Fatalf("lambda's own param list must not be touched, got %s", value.Print(params))
	}
}

func TestFunctionLiteralArgIndices(t *testing.T) {
	form := readOne(t, "#(+ %0 %1)")
	elems, ok := value.ToSlice(form)
	if !ok || len(elems) != 5 {
		t.Fatalf("expected (lambda (params) + %%0 %%1), got %v", form)
	}
	head, _ := elems[0].(value.Symbol)
	if head.Sym.Text() != "lambda" {
		t.Fatalf("expected lambda head, got %v", elems[0])
	}
	params, ok := value.ToSlice(elems[1])
	if !ok || len(params) != 2 {
		t.Fatalf("expected 2 inferred params, got %v", elems[1])
	}
}

func TestFunctionLiteralRestMarker(t *testing.T) {
	form := readOne(t, "#(apply + %*)")
	elems, _ := value.ToSlice(form)
	params, _ := value.ToSlice(elems[1])
	if len(params) != 1 {
		t.Fatalf("expected only the rest param, got %v", params)
	}
	sym := params[0].(value.Symbol)
	if sym.Sym.Text() != "&_rest" {
		t.Fatalf("expected &_rest, got %s", sym.Sym.Text())
	}
}

func TestNamedParameters(t *testing.T) {
	flag := readOne(t, "(f -verbose)")
	elems, _ := value.ToSlice(flag)
	if value.Print(elems[1]) != "(named-flag :verbose)" {
		t.Fatalf("unexpected named-flag form: %s", value.Print(elems[1]))
	}

	val := readOne(t, "(f -count: 3)")
	elems, _ = value.ToSlice(val)
	if value.Print(elems[1]) != "(named-value :count 3)" {
		t.Fatalf("unexpected named-value form: %s", value.Print(elems[1]))
	}
}

func TestMemberLiteral(t *testing.T) {
	form := readOne(t, "(.length s)")
	elems, _ := value.ToSlice(form)
	if value.Print(elems[0]) != "(member :length)" {
		t.Fatalf("unexpected member form: %s", value.Print(elems[0]))
	}
}

func TestTypeLiteral(t *testing.T) {
	form := readOne(t, "^List[Int]?")
	tl, ok := form.(*value.TypeLiteral)
	if !ok {
		t.Fatalf("expected *TypeLiteral, got %T", form)
	}
	if tl.Name != "List" || !tl.Nullable || len(tl.Generics) != 1 || tl.Generics[0] != "Int" {
		t.Fatalf("unexpected type literal: %+v", tl)
	}
}

func TestStringEscapes(t *testing.T) {
	form := readOne(t, `"a\nb"`)
	s, ok := form.(value.StringValue)
	if !ok || string(s) != "a\nb" {
		t.Fatalf("expected decoded newline, got %v", form)
	}
}

func TestTemplateString(t *testing.T) {
	form := readOne(t, `"hi ${name}"`)
	tpl, ok := form.(*value.ExpandableStringLiteral)
	if !ok || len(tpl.Parts) != 2 {
		t.Fatalf("expected 2-part template, got %v", form)
	}
	if tpl.Parts[0].Text != "hi " {
		t.Fatalf("unexpected first part: %+v", tpl.Parts[0])
	}
	sym, ok := tpl.Parts[1].Expr.(value.Symbol)
	if !ok || sym.Sym.Text() != "name" {
		t.Fatalf("expected embedded symbol 'name', got %v", tpl.Parts[1].Expr)
	}
}

func TestRegexLiteral(t *testing.T) {
	form := readOne(t, `#"a+b"`)
	re, ok := form.(*value.Regex)
	if !ok || re.Source != "a+b" {
		t.Fatalf("expected Regex{Source: \"a+b\"}, got %v", form)
	}
}

func TestUnterminatedListIsIncompleteParse(t *testing.T) {
	in := ident.New()
	_, err := reader.New("<test>", "(+ 1 2", in).ReadAll()
	if err == nil {
		t.Fatal("expected an error for an unterminated list")
	}
	if err.Kind() != errors.KindIncompleteParse {
		t.Fatalf("expected KindIncompleteParse, got %v", err.Kind())
	}
}

func TestMacroExpanderHook(t *testing.T) {
	in := ident.New()
	expander := expanderFunc(func(head *ident.Symbol, args []value.Value, ctx value.SourceContext) (value.Value, bool, error) {
		if head.Text() != "double" {
			return nil, false, nil
		}
		return value.IntValue{Value: 42}, true, nil
	})
	r := reader.New("<test>", "(double 1)", in).WithMacroExpander(expander)
	v, ok, err := r.ReadForm()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a form")
	}
	if v != value.Value(value.IntValue{Value: 42}) {
		t.Fatalf("expected macro-expanded 42, got %v", v)
	}
}

type expanderFunc func(head *ident.Symbol, args []value.Value, ctx value.SourceContext) (value.Value, bool, error)

func (f expanderFunc) ExpandMacro(head *ident.Symbol, args []value.Value, ctx value.SourceContext) (value.Value, bool, error) {
	return f(head, args, ctx)
}
