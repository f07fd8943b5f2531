// Package reader turns a Braid token stream into the homoiconic Value
// graph the evaluator consumes (spec.md §4.2). It is a small recursive-
// descent reader: each token unambiguously starts (or closes) exactly
// one form, so the reader never needs more than one token of lookahead.
package reader

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/braidlang/braid/internal/errors"
	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/lexer"
	"github.com/braidlang/braid/internal/token"
	"github.com/braidlang/braid/internal/value"
)

// MacroExpander lets the reader invoke a user-defined macro immediately,
// the moment its binding is visible, rather than deferring expansion to
// the evaluator (spec.md §4.2, §4.6). The eval package supplies the
// concrete implementation, backed by a live environment frame; reader
// only depends on this narrow interface so it never has to import eval
// (the same cycle value.Callable avoids by staying minimal).
type MacroExpander interface {
	ExpandMacro(head *ident.Symbol, args []value.Value, ctx value.SourceContext) (result value.Value, handled bool, err error)
}

// Reader drives a Lexer one token ahead and assembles Values from the
// resulting stream.
type Reader struct {
	file     string
	source   string
	interner *ident.Interner
	lex      *lexer.Lexer
	expander MacroExpander

	cur    token.Token
	primed bool

	record bool
	tokens []token.Token
}

// New constructs a Reader over source text attributed to file, interning
// every symbol it reads through in.
func New(file, source string, in *ident.Interner) *Reader {
	return &Reader{file: file, source: source, interner: in, lex: lexer.New(file, source)}
}

// WithMacroExpander attaches the evaluator's macro hook and returns r,
// so construction can be chained: reader.New(...).WithMacroExpander(ev).
func (r *Reader) WithMacroExpander(m MacroExpander) *Reader {
	r.expander = m
	return r
}

// RecordTokens turns on collection of every scanned token, retrievable
// afterwards with Tokens — the optional token stream spec.md §2 sets
// aside for a syntax-colouring client.
func (r *Reader) RecordTokens(on bool) { r.record = on }

// Tokens returns the tokens scanned since RecordTokens(true), oldest
// first.
func (r *Reader) Tokens() []token.Token { return r.tokens }

func (r *Reader) advance() *errors.BraidError {
	tok, lexErr := r.lex.Next()
	if lexErr != nil {
		if lexErr.Incomplete {
			return errors.IncompleteParse(lexErr.Pos, r.source, lexErr.Message)
		}
		return errors.CompileError(lexErr.Pos, r.source, lexErr.Message)
	}
	if r.record {
		r.tokens = append(r.tokens, tok)
	}
	r.cur = tok
	return nil
}

// ReadForm reads one top-level form. ok is false with a nil error at a
// clean end of input; err is non-nil (and ok false) on a malformed or
// truncated form.
func (r *Reader) ReadForm() (value.Value, bool, *errors.BraidError) {
	if !r.primed {
		if err := r.advance(); err != nil {
			return nil, false, err
		}
		r.primed = true
	}
	if r.cur.Type == token.EOF {
		return nil, false, nil
	}
	v, err := r.form()
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// ReadAll reads every top-level form in the source, stopping at the
// first error (spec.md §6 "a driver feeding a whole file treats the
// first reader error as fatal for that file").
func (r *Reader) ReadAll() ([]value.Value, *errors.BraidError) {
	var out []value.Value
	for {
		v, ok, err := r.ReadForm()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// form dispatches on the current token, consuming whatever it needs and
// leaving r.cur positioned at the first token after the form it built.
func (r *Reader) form() (value.Value, *errors.BraidError) {
	tok := r.cur
	switch tok.Type {
	case token.EOF:
		return nil, errors.IncompleteParse(tok.Pos, r.source, "unexpected end of input")

	case token.LPAREN:
		return r.list(tok.Pos)
	case token.LBRACKET:
		return r.vector(tok.Pos)
	case token.LBRACE:
		return r.dict(tok.Pos)
	case token.HASHSET:
		return r.hashset(tok.Pos)
	case token.FNLIT:
		return r.fnLiteral(tok.Pos)

	case token.QUOTE:
		return r.prefixed(tok.Pos, "quote")
	case token.QUASIQUOTE:
		return r.prefixed(tok.Pos, "quasiquote")
	case token.UNQUOTE:
		return r.prefixed(tok.Pos, "unquote")
	case token.UNQUOTE_AT:
		return r.prefixed(tok.Pos, "unquote-splice")
	case token.SPLAT:
		return r.prefixed(tok.Pos, "splat")
	case token.DISPATCH:
		return r.dispatchForm(tok.Pos)

	case token.TYPE_LIT:
		if err := r.advance(); err != nil {
			return nil, err
		}
		return parseTypeLiteral(tok.Literal), nil

	case token.MEMBER:
		if err := r.advance(); err != nil {
			return nil, err
		}
		return r.memberForm(tok), nil

	case token.ARG_INDEX:
		if err := r.advance(); err != nil {
			return nil, err
		}
		return value.Symbol{Sym: r.interner.Intern("%" + tok.Literal)}, nil

	case token.NAMED_FLAG:
		if err := r.advance(); err != nil {
			return nil, err
		}
		return r.namedFlagForm(tok), nil

	case token.NAMED_VALUE:
		if err := r.advance(); err != nil {
			return nil, err
		}
		val, err := r.form()
		if err != nil {
			return nil, err
		}
		return r.namedValueForm(tok, val), nil

	case token.IDENT:
		if err := r.advance(); err != nil {
			return nil, err
		}
		return value.Symbol{Sym: r.interner.Intern(tok.Literal)}, nil

	case token.KEYWORD:
		if err := r.advance(); err != nil {
			return nil, err
		}
		return value.Keyword{Sym: r.interner.Intern(tok.Literal)}, nil

	case token.INT:
		if err := r.advance(); err != nil {
			return nil, err
		}
		v, perr := parseIntLiteral(tok.Literal)
		if perr != nil {
			return nil, errors.CompileError(tok.Pos, r.source, perr.Error())
		}
		return v, nil

	case token.FLOAT:
		if err := r.advance(); err != nil {
			return nil, err
		}
		v, perr := parseFloatLiteral(tok.Literal)
		if perr != nil {
			return nil, errors.CompileError(tok.Pos, r.source, perr.Error())
		}
		return v, nil

	case token.CHAR:
		if err := r.advance(); err != nil {
			return nil, err
		}
		rn, perr := decodeCharLiteral(tok.Literal)
		if perr != nil {
			return nil, errors.CompileError(tok.Pos, r.source, perr.Error())
		}
		return value.CharValue(rn), nil

	case token.STRING:
		if err := r.advance(); err != nil {
			return nil, err
		}
		s, perr := unescapeString(tok.Literal)
		if perr != nil {
			return nil, errors.CompileError(tok.Pos, r.source, perr.Error())
		}
		return value.StringValue(s), nil

	case token.TEMPLATE:
		if err := r.advance(); err != nil {
			return nil, err
		}
		parts, berr := r.parseTemplate(tok.Literal, tok.Pos)
		if berr != nil {
			return nil, berr
		}
		return &value.ExpandableStringLiteral{Parts: parts}, nil

	case token.REGEX:
		if err := r.advance(); err != nil {
			return nil, err
		}
		re, perr := value.NewRegex(tok.Literal)
		if perr != nil {
			return nil, errors.CompileError(tok.Pos, r.source, perr.Error())
		}
		return re, nil

	case token.RPAREN, token.RBRACKET, token.RBRACE:
		return nil, errors.CompileError(tok.Pos, r.source, fmt.Sprintf("unexpected %q with no matching opening delimiter", tok.Literal))

	default:
		return nil, errors.CompileError(tok.Pos, r.source, fmt.Sprintf("unexpected token %s", tok.Type))
	}
}

// pipelineExempt names the special forms whose own argument list is
// never pipeline-split, even though a nested body expression still is
// (spec.md §4.2 "pipeline expansion", §9 design note: otherwise a
// parameter list using '|' for its own purposes, e.g. a destructuring
// default, would be misread as a pipeline).
var pipelineExempt = map[string]bool{
	"defn": true, "matchp": true, "lambda": true,
	"defspecial": true, "defmacro": true, "deftype": true,
}

// dotMarker is a transient sentinel the list reader uses to recognise
// the dotted-pair separator "(a . b)"; it never survives past
// finishList and is never handed to a macro expander or the evaluator.
type dotMarker struct{}

func (dotMarker) Kind() value.Kind { return value.KindNil }
func (dotMarker) String() string   { return "." }

func (r *Reader) list(openPos token.Position) (value.Value, *errors.BraidError) {
	if err := r.advance(); err != nil { // consume '('
		return nil, err
	}
	var elems []value.Value
	sawPipe := false
	for r.cur.Type != token.RPAREN {
		if r.cur.Type == token.EOF {
			return nil, errors.IncompleteParse(openPos, r.source, "unterminated list: missing ')'")
		}
		if r.cur.Type == token.PIPE {
			sawPipe = true
			elems = append(elems, value.Symbol{Sym: r.interner.Intern("|")})
			if err := r.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if r.cur.Type == token.MEMBER && r.cur.Literal == "" {
			elems = append(elems, dotMarker{})
			if err := r.advance(); err != nil {
				return nil, err
			}
			continue
		}
		el, err := r.form()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	if err := r.advance(); err != nil { // consume ')'
		return nil, err
	}
	return r.finishList(elems, openPos, sawPipe)
}

func (r *Reader) finishList(elems []value.Value, openPos token.Position, sawPipe bool) (value.Value, *errors.BraidError) {
	ctx := ctxFrom(r.file, openPos, r.source)

	if car, cdr, ok := splitDottedPair(elems); ok {
		return value.NewCons(car, cdr, ctx), nil
	}

	if len(elems) == 0 {
		return value.Nil, nil
	}

	headSym, headIsSymbol := elems[0].(value.Symbol)
	exempt := headIsSymbol && pipelineExempt[headSym.Sym.Text()]

	if sawPipe && !exempt {
		if segs, ok := splitPipeline(elems); ok {
			pipeElems := append([]value.Value{value.Symbol{Sym: r.interner.Intern("pipe")}}, segs...)
			return value.FromSlice(pipeElems), nil
		}
	}

	if headIsSymbol && r.expander != nil {
		expanded, handled, err := r.expander.ExpandMacro(headSym.Sym, elems[1:], ctx)
		if err != nil {
			return nil, errors.CompileError(ctx.Pos(), r.source, err.Error())
		}
		if handled {
			return expanded, nil
		}
	}

	return value.FromSlice(elems), nil
}

// splitDottedPair recognises the exact three-element "a . b" shape built
// by list() when it records a bare dot as a dotMarker.
func splitDottedPair(elems []value.Value) (car, cdr value.Value, ok bool) {
	if len(elems) != 3 {
		return nil, nil, false
	}
	if _, isDot := elems[1].(dotMarker); !isDot {
		return nil, nil, false
	}
	return elems[0], elems[2], true
}

// splitPipeline groups elems around every top-level "|" marker symbol
// into segments, wrapping any multi-element segment as its own call
// form; a one-element segment stays bare ("a | f x | g" becomes
// (pipe a (f x) g)).
func splitPipeline(elems []value.Value) ([]value.Value, bool) {
	var segments [][]value.Value
	var cur []value.Value
	found := false
	for _, e := range elems {
		if sym, ok := e.(value.Symbol); ok && sym.Sym.Text() == "|" {
			found = true
			segments = append(segments, cur)
			cur = nil
			continue
		}
		cur = append(cur, e)
	}
	if !found {
		return nil, false
	}
	segments = append(segments, cur)

	out := make([]value.Value, 0, len(segments))
	for _, seg := range segments {
		switch len(seg) {
		case 0:
			out = append(out, value.Nil)
		case 1:
			out = append(out, seg[0])
		default:
			out = append(out, value.FromSlice(seg))
		}
	}
	return out, true
}

func (r *Reader) vector(openPos token.Position) (value.Value, *errors.BraidError) {
	if err := r.advance(); err != nil {
		return nil, err
	}
	var elems []value.Value
	for r.cur.Type != token.RBRACKET {
		if r.cur.Type == token.EOF {
			return nil, errors.IncompleteParse(openPos, r.source, "unterminated vector: missing ']'")
		}
		el, err := r.form()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	if err := r.advance(); err != nil {
		return nil, err
	}
	return &value.VectorLiteral{Elems: elems}, nil
}

// dict reads a "{...}" literal. A bare colon directly following a key
// (lexed as an empty-literal KEYWORD token, since nothing identifier-ish
// follows the ':') is JSON-compat whitespace here and nowhere else
// (spec.md §9 open question): a compound symbol's own trailing colon is
// already folded into that symbol's IDENT text by the lexer and never
// reaches the reader as its own token, so this rule cannot swallow one.
func (r *Reader) dict(openPos token.Position) (value.Value, *errors.BraidError) {
	if err := r.advance(); err != nil {
		return nil, err
	}
	var keys, vals []value.Value
	for r.cur.Type != token.RBRACE {
		if r.cur.Type == token.EOF {
			return nil, errors.IncompleteParse(openPos, r.source, "unterminated dictionary: missing '}'")
		}
		k, err := r.form()
		if err != nil {
			return nil, err
		}
		if r.cur.Type == token.KEYWORD && r.cur.Literal == "" {
			if err := r.advance(); err != nil {
				return nil, err
			}
		}
		if r.cur.Type == token.RBRACE || r.cur.Type == token.EOF {
			return nil, errors.CompileError(r.cur.Pos, r.source, "dictionary literal has a key with no value: "+value.Print(k))
		}
		v, err := r.form()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		vals = append(vals, v)
	}
	if err := r.advance(); err != nil {
		return nil, err
	}
	return &value.DictionaryLiteral{Keys: keys, Vals: vals}, nil
}

func (r *Reader) hashset(openPos token.Position) (value.Value, *errors.BraidError) {
	if err := r.advance(); err != nil {
		return nil, err
	}
	var elems []value.Value
	for r.cur.Type != token.RBRACE {
		if r.cur.Type == token.EOF {
			return nil, errors.IncompleteParse(openPos, r.source, "unterminated set: missing '}'")
		}
		el, err := r.form()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	if err := r.advance(); err != nil {
		return nil, err
	}
	return &value.HashSetLiteral{Elems: elems}, nil
}

// fnLiteral reads "#(... %n ...)", compiling it into the same shape a
// written-out (lambda (%0 %1 ...) ...) would take, with parameters
// inferred from the highest %N arg-index symbol used in the body and a
// trailing &_rest appended if %* appears anywhere (spec.md §4.2).
func (r *Reader) fnLiteral(openPos token.Position) (value.Value, *errors.BraidError) {
	if err := r.advance(); err != nil {
		return nil, err
	}
	var body []value.Value
	for r.cur.Type != token.RPAREN {
		if r.cur.Type == token.EOF {
			return nil, errors.IncompleteParse(openPos, r.source, "unterminated function literal: missing ')'")
		}
		f, err := r.form()
		if err != nil {
			return nil, err
		}
		body = append(body, f)
	}
	if err := r.advance(); err != nil {
		return nil, err
	}

	maxIdx, hasRest := collectArgIndexParams(body)
	params := make([]value.Value, 0, maxIdx+2)
	for i := 0; i <= maxIdx; i++ {
		params = append(params, value.Symbol{Sym: r.interner.Intern(fmt.Sprintf("%%%d", i))})
	}
	if hasRest {
		params = append(params, value.Symbol{Sym: r.interner.Intern("&_rest")})
	}

	elems := make([]value.Value, 0, len(body)+2)
	elems = append(elems, value.Symbol{Sym: r.interner.Intern("lambda")}, value.FromSlice(params))
	elems = append(elems, body...)
	return value.FromSlice(elems), nil
}

// collectArgIndexParams walks body looking for "%N"/"%*" symbols left by
// the ARG_INDEX token, returning the highest N seen (-1 if none) and
// whether "%*" (the variadic marker) appeared anywhere.
func collectArgIndexParams(body []value.Value) (maxIndex int, hasRest bool) {
	maxIndex = -1
	var walk func(v value.Value)
	walk = func(v value.Value) {
		switch t := v.(type) {
		case value.Symbol:
			name := t.Sym.Text()
			if !strings.HasPrefix(name, "%") {
				return
			}
			rest := name[1:]
			if rest == "*" {
				hasRest = true
				return
			}
			if n, err := strconv.Atoi(rest); err == nil && n > maxIndex {
				maxIndex = n
			}
		case *value.Cons:
			walk(t.Car)
			walk(t.Cdr)
		case *value.VectorLiteral:
			for _, e := range t.Elems {
				walk(e)
			}
		case *value.DictionaryLiteral:
			for _, e := range t.Keys {
				walk(e)
			}
			for _, e := range t.Vals {
				walk(e)
			}
		case *value.HashSetLiteral:
			for _, e := range t.Elems {
				walk(e)
			}
		}
	}
	for _, f := range body {
		walk(f)
	}
	return maxIndex, hasRest
}

func (r *Reader) prefixed(pos token.Position, head string) (value.Value, *errors.BraidError) {
	if err := r.advance(); err != nil {
		return nil, err
	}
	inner, err := r.form()
	if err != nil {
		return nil, err
	}
	ctx := ctxFrom(r.file, pos, r.source)
	sym := value.Symbol{Sym: r.interner.Intern(head)}
	return value.NewCons(sym, value.NewCons(inner, value.Nil, ctx), ctx), nil
}

// dispatchForm handles a bare DISPATCH token ("#" not immediately
// followed by "{", "(" or '"', which the lexer already special-cases).
// The one form recognised today is "#'name", the function-literal
// reader macro: it reads as (function-literal name), a special form the
// evaluator resolves by wrapping name's bound Callable in a
// value.FunctionLiteral so its identity survives being passed around.
func (r *Reader) dispatchForm(pos token.Position) (value.Value, *errors.BraidError) {
	if err := r.advance(); err != nil { // consume '#'
		return nil, err
	}
	if r.cur.Type != token.QUOTE {
		return nil, errors.CompileError(r.cur.Pos, r.source, "unsupported reader dispatch '#'")
	}
	if err := r.advance(); err != nil { // consume '\''
		return nil, err
	}
	target, err := r.form()
	if err != nil {
		return nil, err
	}
	ctx := ctxFrom(r.file, pos, r.source)
	sym := value.Symbol{Sym: r.interner.Intern("function-literal")}
	return value.NewCons(sym, value.NewCons(target, value.Nil, ctx), ctx), nil
}

// memberForm turns a bare ".name" into (member :name), a two-element
// list callable as ((member :name) obj) to invoke a host method named
// "name" on obj (spec.md §4.2 "Member literal").
func (r *Reader) memberForm(tok token.Token) value.Value {
	ctx := ctxFrom(r.file, tok.Pos, r.source)
	head := value.Symbol{Sym: r.interner.Intern("member")}
	name := value.Keyword{Sym: r.interner.Intern(tok.Literal)}
	return value.NewCons(head, value.NewCons(name, value.Nil, ctx), ctx)
}

// namedFlagForm turns a bare "-flag" into (named-flag :flag): its mere
// presence in a call's argument list asserts the keyword flag is true,
// with no following value to consume.
func (r *Reader) namedFlagForm(tok token.Token) value.Value {
	ctx := ctxFrom(r.file, tok.Pos, r.source)
	head := value.Symbol{Sym: r.interner.Intern("named-flag")}
	kw := value.Keyword{Sym: r.interner.Intern(tok.Literal)}
	return value.NewCons(head, value.NewCons(kw, value.Nil, ctx), ctx)
}

// namedValueForm turns "-flag: val" into (named-value :flag val). The
// user-function binder (spec.md §4.5) recognises both marker shapes
// among a call's positional arguments and routes them into the callee's
// named-parameter map instead.
func (r *Reader) namedValueForm(tok token.Token, val value.Value) value.Value {
	ctx := ctxFrom(r.file, tok.Pos, r.source)
	head := value.Symbol{Sym: r.interner.Intern("named-value")}
	kw := value.Keyword{Sym: r.interner.Intern(tok.Literal)}
	return value.NewCons(head, value.NewCons(kw, value.NewCons(val, value.Nil, ctx), ctx), ctx)
}

// parseTypeLiteral splits "^Name[G1 G2]?" into its name, generic
// argument texts, and nullable marker.
func parseTypeLiteral(lit string) *value.TypeLiteral {
	nullable := strings.HasSuffix(lit, "?")
	if nullable {
		lit = lit[:len(lit)-1]
	}
	name := lit
	var generics []string
	if i := strings.IndexByte(lit, '['); i >= 0 && strings.HasSuffix(lit, "]") {
		name = lit[:i]
		inner := lit[i+1 : len(lit)-1]
		for _, part := range strings.Fields(inner) {
			generics = append(generics, part)
		}
	}
	return &value.TypeLiteral{Name: name, Generics: generics, Nullable: nullable}
}

func parseIntLiteral(lit string) (value.Value, error) {
	s := lit
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	forceBig := false
	if strings.HasSuffix(s, "i") {
		forceBig = true
		s = s[:len(s)-1]
	}
	s = strings.ReplaceAll(s, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base = 16
		s = s[2:]
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		base = 2
		s = s[2:]
	}
	if s == "" {
		return nil, fmt.Errorf("malformed integer literal %q", lit)
	}
	if neg {
		s = "-" + s
	}
	return value.ParseInt(s, base, forceBig), nil
}

func parseFloatLiteral(lit string) (value.Value, error) {
	s := strings.ReplaceAll(lit, "_", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed float literal %q: %w", lit, err)
	}
	return value.FloatValue{Value: f}, nil
}

func decodeCharLiteral(lit string) (rune, error) {
	switch {
	case strings.HasPrefix(lit, "\\u"):
		code, err := strconv.ParseInt(lit[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("malformed \\u escape %q", lit)
		}
		return rune(code), nil
	case strings.HasPrefix(lit, "\\x"):
		code, err := strconv.ParseInt(lit[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("malformed \\x escape %q", lit)
		}
		return rune(code), nil
	default:
		r, _ := utf8.DecodeRuneInString(lit)
		return r, nil
	}
}

// unescapeString decodes the backslash escapes the lexer leaves raw in a
// plain (non-template) string's literal text.
func unescapeString(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("trailing backslash in string literal")
		}
		switch s[i+1] {
		case 'n':
			sb.WriteByte('\n')
			i += 2
		case 't':
			sb.WriteByte('\t')
			i += 2
		case 'r':
			sb.WriteByte('\r')
			i += 2
		case '"':
			sb.WriteByte('"')
			i += 2
		case '\\':
			sb.WriteByte('\\')
			i += 2
		case '$':
			sb.WriteByte('$')
			i += 2
		case 'u':
			if i+6 > len(s) {
				return "", fmt.Errorf("short \\u escape in string literal")
			}
			code, err := strconv.ParseInt(s[i+2:i+6], 16, 32)
			if err != nil {
				return "", fmt.Errorf("malformed \\u escape in string literal: %w", err)
			}
			sb.WriteRune(rune(code))
			i += 6
		default:
			sb.WriteByte(s[i+1])
			i += 2
		}
	}
	return sb.String(), nil
}

// parseTemplate splits a TEMPLATE token's raw literal into alternating
// text and ${...} expression parts, parsing each expression with a
// fresh nested Reader over just that substring (spec.md §4.2
// "ExpandableStringLiteral").
func (r *Reader) parseTemplate(lit string, pos token.Position) ([]value.TemplatePart, *errors.BraidError) {
	var parts []value.TemplatePart
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, value.TemplatePart{Text: text.String()})
			text.Reset()
		}
	}

	i := 0
	for i < len(lit) {
		c := lit[i]
		if c == '\\' && i+1 < len(lit) {
			switch lit[i+1] {
			case 'n':
				text.WriteByte('\n')
			case 't':
				text.WriteByte('\t')
			case 'r':
				text.WriteByte('\r')
			case '"':
				text.WriteByte('"')
			case '\\':
				text.WriteByte('\\')
			case '$':
				text.WriteByte('$')
			default:
				text.WriteByte(lit[i+1])
			}
			i += 2
			continue
		}
		if c == '$' && i+1 < len(lit) && lit[i+1] == '{' {
			flush()
			depth := 1
			j := i + 2
			for j < len(lit) && depth > 0 {
				switch lit[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			if depth != 0 {
				return nil, errors.CompileError(pos, r.source, "unterminated ${...} template expression")
			}
			inner := lit[i+2 : j]
			sub := New(r.file, inner, r.interner).WithMacroExpander(r.expander)
			form, ok, err := sub.ReadForm()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.CompileError(pos, r.source, "empty ${...} template expression")
			}
			parts = append(parts, value.TemplatePart{Expr: form})
			i = j + 1
			continue
		}
		text.WriteByte(c)
		i++
	}
	flush()
	return parts, nil
}

func ctxFrom(file string, pos token.Position, source string) value.SourceContext {
	text := ""
	if lines := strings.Split(source, "\n"); pos.Line >= 1 && pos.Line <= len(lines) {
		text = lines[pos.Line-1]
	}
	return value.SourceContext{File: file, Line: pos.Line, Offset: pos.Offset, Text: text}
}
