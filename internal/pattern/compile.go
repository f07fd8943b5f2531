package pattern

import (
	"fmt"
	"strings"

	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/value"
)

// Compile parses a pattern-function body into a ready-to-dispatch
// Function. body is the flat form list a reader-exempt defn/matchp/
// lambda header leaves behind (spec.md §4.2 item 1: these heads are
// exempt from pipeline splitting specifically so their own "|" clause
// separators survive to this compiler); closure is the lexical frame
// the function captures, the same way a lambda captures its defining
// frame (spec.md Invariant 8).
//
// Grammar recognised, at the top level of body only:
//
//	["^" action...] ("|" pattern... [":where" cond] "->" action...)+ ["$" action...]
//
// A clause whose pattern list is empty (a bare "| -> action...") is the
// default clause (spec.md "Begin/end/default clauses"): it is not one
// of f.Clauses tried in order, but the fallback run when none match.
func Compile(name string, body []value.Value, closure *env.Frame, in *ident.Interner, ctx value.SourceContext) (*Function, error) {
	f := &Function{Name: name, Env: closure, Ctx: ctx}

	i := 0
	if i < len(body) && isMarker(body[i], "^") {
		end := nextMarker(body, i+1)
		clause, err := compileActionOnlyClause(body[i+1:end], in)
		if err != nil {
			return nil, err
		}
		f.Begin = clause
		i = end
	}

	for i < len(body) && isMarker(body[i], "|") {
		end := nextMarker(body, i+1)
		clause, err := compileClause(body[i+1:end], in)
		if err != nil {
			return nil, err
		}
		if len(clause.Positional) == 0 {
			f.Default = clause
		} else {
			f.Clauses = append(f.Clauses, clause)
		}
		i = end
	}

	if i < len(body) && isMarker(body[i], "$") {
		end := nextMarker(body, i+1)
		clause, err := compileActionOnlyClause(body[i+1:end], in)
		if err != nil {
			return nil, err
		}
		f.End = clause
		i = end
	}

	if i != len(body) {
		return nil, fmt.Errorf("%s: unexpected form in pattern clause list: %s", name, value.Print(body[i]))
	}
	if len(f.Clauses) == 0 && f.Default == nil {
		return nil, fmt.Errorf("%s: a pattern function needs at least one clause", name)
	}
	return f, nil
}

// isMarker reports whether v is the bare top-level symbol text naming
// a clause-list section marker ("^", "|", "$").
func isMarker(v value.Value, text string) bool {
	sym, ok := v.(value.Symbol)
	return ok && sym.Sym.Text() == text
}

// nextMarker returns the index of the next "^"/"|"/"$" section marker
// at or after start, or len(body) if there is none.
func nextMarker(body []value.Value, start int) int {
	for j := start; j < len(body); j++ {
		if isMarker(body[j], "^") || isMarker(body[j], "|") || isMarker(body[j], "$") {
			return j
		}
	}
	return len(body)
}

// compileActionOnlyClause compiles a begin/end section, which has no
// patterns or where-guard of its own.
func compileActionOnlyClause(forms []value.Value, in *ident.Interner) (*Clause, error) {
	return &Clause{Actions: forms, AllowBacktrack: true}, nil
}

// compileClause compiles one "pattern... [:where cond] -> action..."
// run into a Clause, splitting on the first top-level "->" symbol.
func compileClause(forms []value.Value, in *ident.Interner) (*Clause, error) {
	arrow := -1
	for j, v := range forms {
		if sym, ok := v.(value.Symbol); ok && sym.Sym.Text() == "->" {
			arrow = j
			break
		}
	}
	if arrow < 0 {
		return nil, fmt.Errorf("pattern clause is missing '->': %s", printAll(forms))
	}
	head := forms[:arrow]
	actions := forms[arrow+1:]
	if len(actions) == 0 {
		return nil, fmt.Errorf("pattern clause has no actions after '->'")
	}

	var where value.Value
	patternForms := head
	for j, v := range head {
		if kw, ok := v.(value.Keyword); ok && kw.Sym.Text() == "where" {
			if j+1 >= len(head) {
				return nil, fmt.Errorf(":where must be followed by a condition")
			}
			where = head[j+1]
			patternForms = head[:j]
			break
		}
	}

	elems := make([]Element, 0, len(patternForms))
	allowBacktrack := true
	for _, pf := range patternForms {
		el, err := compileElement(pf, in)
		if err != nil {
			return nil, err
		}
		if _, isFail := el.(FailElement); isFail {
			// spec.md §4.3 "Fail ! — stops backtracking for this clause":
			// a clause carrying a bare '!' element also refuses to
			// backtrack past a BraidFail raised from its own actions,
			// escalating to a hard error instead of trying the next
			// clause (match.go's AllowBacktrack check).
			allowBacktrack = false
		}
		elems = append(elems, el)
	}
	return &Clause{Positional: elems, Where: where, Actions: actions, AllowBacktrack: allowBacktrack}, nil
}

func printAll(forms []value.Value) string {
	parts := make([]string, len(forms))
	for i, f := range forms {
		parts[i] = value.Print(f)
	}
	return strings.Join(parts, " ")
}

// compileElement compiles one raw form — a single positional pattern —
// into an Element, dispatching on its shape (spec.md §4.3's element
// kind list).
func compileElement(form value.Value, in *ident.Interner) (Element, error) {
	switch t := form.(type) {
	case value.Symbol:
		return compileSymbolElement(t, in)

	case value.Keyword:
		return &KeywordElement{Name: in.Intern(t.Sym.Text())}, nil

	case *value.TypeLiteral:
		return &TypeElement{TypeName: t.Name}, nil

	case *value.Regex:
		return &RegexElement{Re: t}, nil

	case *value.DictionaryLiteral:
		return compilePropertyElement(t, in)

	case *value.VectorLiteral:
		sub := make([]Element, 0, len(t.Elems))
		for _, e := range t.Elems {
			el, err := compileElement(e, in)
			if err != nil {
				return nil, err
			}
			sub = append(sub, el)
		}
		return &VectorPatternElement{Sub: sub}, nil

	case *value.Cons:
		return compileConsElement(t, in)

	default:
		// Any other self-evaluating literal (Int, Long, BigInt, Float,
		// Char, String, Keyword, Bool, Nil) matches by deep equality.
		return &LiteralElement{Value: form}, nil
	}
}

func compileSymbolElement(sym value.Symbol, in *ident.Interner) (Element, error) {
	text := sym.Sym.Text()
	switch {
	case text == "_":
		return IgnoreElement{}, nil
	case text == "!":
		return FailElement{}, nil
	case strings.HasPrefix(text, "&"):
		return &AndArgsElement{Name: in.Intern(strings.TrimPrefix(text, "&"))}, nil
	case strings.HasPrefix(text, "%"):
		return &PinnedElement{Ref: in.Intern(strings.TrimPrefix(text, "%"))}, nil
	case strings.HasPrefix(text, "*"):
		return &StarElement{FuncName: in.Intern(strings.TrimPrefix(text, "*"))}, nil
	default:
		return compileVarElement(sym.Sym, in), nil
	}
}

func compileVarElement(sym *ident.Symbol, in *ident.Interner) *VarElement {
	if !sym.IsCompound() {
		return &VarElement{Name: sym, Compound: false}
	}
	components := make([]*ident.Symbol, len(sym.Compound))
	for i, piece := range sym.Compound {
		components[i] = in.Intern(piece)
	}
	return &VarElement{
		Name:           sym,
		Compound:       true,
		Components:     components,
		BindRestToLast: sym.BindRestToLast,
	}
}

func compilePropertyElement(dl *value.DictionaryLiteral, in *ident.Interner) (Element, error) {
	keys := make([]value.Keyword, len(dl.Keys))
	sub := make([]Element, len(dl.Keys))
	for i, k := range dl.Keys {
		kw, ok := k.(value.Keyword)
		if !ok {
			return nil, fmt.Errorf("property pattern key must be a keyword, got %s", value.Print(k))
		}
		keys[i] = kw

		val := dl.Vals[i]
		// A value written as the same keyword as its key is shorthand
		// for "bind a local of the key's own name" (spec.md "an omitted
		// sub-variable defaults to the key name").
		if vkw, ok := val.(value.Keyword); ok && vkw.Sym.Text() == kw.Sym.Text() {
			sub[i] = &VarElement{Name: in.Intern(kw.Sym.Text())}
			continue
		}
		el, err := compileElement(val, in)
		if err != nil {
			return nil, err
		}
		sub[i] = el
	}
	return &PropertyElement{Keys: keys, Sub: sub}, nil
}

// compileConsElement compiles the parenthesized pattern shapes: "(^T
// var)", `(#"…" var)`, "(*fname var)", "(x %pred)", and the catch-all
// "(pat default-expr)".
func compileConsElement(c *value.Cons, in *ident.Interner) (Element, error) {
	elems, ok := value.ToSlice(c)
	if !ok || len(elems) != 2 {
		return nil, fmt.Errorf("unrecognised pattern element: %s", value.Print(c))
	}
	head, tail := elems[0], elems[1]

	switch h := head.(type) {
	case *value.TypeLiteral:
		sym, ok := bindName(tail)
		if !ok {
			return nil, fmt.Errorf("(^%s ...) expects a bind name, got %s", h.Name, value.Print(tail))
		}
		return &TypeElement{TypeName: h.Name, Bind: sym}, nil

	case *value.Regex:
		sym, ok := bindName(tail)
		if !ok {
			return nil, fmt.Errorf("(#\"...\" ...) expects a bind name, got %s", value.Print(tail))
		}
		return &RegexElement{Re: h, Bind: sym}, nil

	case value.Symbol:
		text := h.Sym.Text()
		if strings.HasPrefix(text, "*") {
			sym, ok := bindName(tail)
			if !ok {
				return nil, fmt.Errorf("(*%s ...) expects a bind name, got %s", strings.TrimPrefix(text, "*"), value.Print(tail))
			}
			return &StarElement{FuncName: in.Intern(strings.TrimPrefix(text, "*")), Bind: sym}, nil
		}
		if tailSym, ok := tail.(value.Symbol); ok && strings.HasPrefix(tailSym.Sym.Text(), "%") {
			return &GuardedElement{
				Bind: in.Intern(text),
				Test: &PinnedElement{Ref: in.Intern(strings.TrimPrefix(tailSym.Sym.Text(), "%"))},
			}, nil
		}
	}

	// Catch-all: "(pat default-expr)" — a Default value element.
	inner, err := compileElement(head, in)
	if err != nil {
		return nil, err
	}
	return &DefaultElement{Inner: inner, DefaultExpr: tail}, nil
}

func bindName(v value.Value) (*ident.Symbol, bool) {
	sym, ok := v.(value.Symbol)
	if !ok {
		return nil, false
	}
	return sym.Sym, true
}
