package pattern

import (
	"fmt"

	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/value"
)

// Element is one compiled pattern-element, one of the kinds spec.md
// §4.3 lists. matchSeq calls Match only when idx already indexes a real
// subject item — AndArgsElement and StarElement are handled specially
// by matchSeq before a plain Match call would ever happen, since both
// may consume something other than exactly one item.
type Element interface {
	Match(subject []value.Value, idx int, frame *env.Frame, host Host) (consumed int, ok bool, err error)
}

// IgnoreElement is "_": matches anything, consumes one element, binds
// nothing.
type IgnoreElement struct{}

func (IgnoreElement) Match(subject []value.Value, idx int, _ *env.Frame, _ Host) (int, bool, error) {
	return 1, true, nil
}

// FailElement is "!": never matched directly. matchSeq special-cases it
// before calling Match — encountering one here would be a compiler bug.
type FailElement struct{}

func (FailElement) Match(subject []value.Value, idx int, _ *env.Frame, _ Host) (int, bool, error) {
	return 0, false, fmt.Errorf("internal error: a Fail element reached Match directly")
}

// LiteralElement is any literal form: matches by deep equality
// (spec.md "Generic value").
type LiteralElement struct {
	Value value.Value
}

func (e *LiteralElement) Match(subject []value.Value, idx int, _ *env.Frame, _ Host) (int, bool, error) {
	if value.Equal(e.Value, subject[idx]) {
		return 1, true, nil
	}
	return 0, false, nil
}

// VarElement is a plain or compound name: binds one subject element,
// destructuring it when Compound is set (spec.md "Var", Invariant 6).
type VarElement struct {
	Name           *ident.Symbol
	Compound       bool
	Components     []*ident.Symbol
	BindRestToLast bool
}

func (e *VarElement) Match(subject []value.Value, idx int, frame *env.Frame, _ Host) (int, bool, error) {
	v := subject[idx]
	if !e.Compound {
		frame.SetLocal(e.Name, v)
		return 1, true, nil
	}
	seq, ok := value.Sequence(v)
	if !ok {
		return 0, false, nil
	}
	n := len(e.Components)
	for i, csym := range e.Components {
		last := i == n-1
		if last && e.BindRestToLast {
			if len(seq) < n-1 {
				return 0, false, nil
			}
			rest := append([]value.Value(nil), seq[i:]...)
			frame.SetLocal(csym, value.NewVector(rest...))
			continue
		}
		if i >= len(seq) {
			return 0, false, nil
		}
		frame.SetLocal(csym, seq[i])
	}
	return 1, true, nil
}

// PinnedElement is "%x": tests the subject against the *current* value
// already bound to x, without rebinding it (spec.md "Pinned var").
type PinnedElement struct {
	Ref *ident.Symbol
}

func (e *PinnedElement) Match(subject []value.Value, idx int, frame *env.Frame, host Host) (int, bool, error) {
	cur, ok := frame.Lookup(e.Ref)
	if !ok {
		return 0, false, fmt.Errorf("pinned variable %%%s is unbound", e.Ref.Text())
	}
	matched, err := testPinned(cur, subject[idx], host)
	if err != nil {
		return 0, false, err
	}
	if !matched {
		return 0, false, nil
	}
	return 1, true, nil
}

// testPinned implements the four-way dispatch spec.md describes for a
// pinned value: apply if it's a Callable, match if a Regex, isinstance
// if a Type, else deep-equal.
func testPinned(pin, subject value.Value, host Host) (bool, error) {
	switch t := pin.(type) {
	case value.Callable:
		result, err := host.Apply(pin, []value.Value{subject})
		if err != nil {
			return false, err
		}
		return value.Truthy(result), nil
	case *value.Regex:
		s, ok := stringOf(subject)
		if !ok {
			return false, nil
		}
		return t.Compiled.MatchString(s), nil
	case *value.TypeLiteral:
		_, ok := host.ConvertType(subject, t.Name)
		return ok, nil
	default:
		return value.Equal(pin, subject), nil
	}
}

func stringOf(v value.Value) (string, bool) {
	switch t := v.(type) {
	case value.StringValue:
		return string(t), true
	case value.CharValue:
		return string(rune(t)), true
	default:
		return "", false
	}
}

// GuardedElement is "(x %pred)": binds x from the subject the way a
// plain Var would, but only if the subject also satisfies the pinned
// predicate %pred first.
type GuardedElement struct {
	Bind *ident.Symbol
	Test *PinnedElement
}

func (e *GuardedElement) Match(subject []value.Value, idx int, frame *env.Frame, host Host) (int, bool, error) {
	_, ok, err := e.Test.Match(subject, idx, frame, host)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}
	frame.SetLocal(e.Bind, subject[idx])
	return 1, true, nil
}

// TypeElement is "^T" or "(^T var)": matches when the subject converts
// to the named type, binding the converted value (spec.md "Type").
type TypeElement struct {
	TypeName string
	Bind     *ident.Symbol // nil when written bare, with no capture
}

func (e *TypeElement) Match(subject []value.Value, idx int, frame *env.Frame, host Host) (int, bool, error) {
	converted, ok := host.ConvertType(subject[idx], e.TypeName)
	if !ok {
		return 0, false, nil
	}
	if e.Bind != nil {
		frame.SetLocal(e.Bind, converted)
	}
	return 1, true, nil
}

// RegexElement is `#"…"` or `(#"…" var)`: matches when the subject
// string matches, binding the capture groups as a vector.
type RegexElement struct {
	Re   *value.Regex
	Bind *ident.Symbol
}

func (e *RegexElement) Match(subject []value.Value, idx int, frame *env.Frame, _ Host) (int, bool, error) {
	s, ok := stringOf(subject[idx])
	if !ok {
		return 0, false, nil
	}
	m := e.Re.Compiled.FindStringSubmatch(s)
	if m == nil {
		return 0, false, nil
	}
	if e.Bind != nil {
		groups := make([]value.Value, len(m))
		for i, g := range m {
			groups[i] = value.StringValue(g)
		}
		frame.SetLocal(e.Bind, value.NewVector(groups...))
	}
	return 1, true, nil
}

// PropertyElement is `{ :k pat … }`: matches a dictionary with the
// listed keys present, each value matching its embedded sub-pattern.
type PropertyElement struct {
	Keys []value.Keyword
	Sub  []Element
}

func (e *PropertyElement) Match(subject []value.Value, idx int, frame *env.Frame, host Host) (int, bool, error) {
	dict, ok := asDictionary(subject[idx])
	if !ok {
		return 0, false, nil
	}
	for i, k := range e.Keys {
		v, found := dict.Get(k)
		if !found {
			return 0, false, nil
		}
		if _, matched, err := e.Sub[i].Match([]value.Value{v}, 0, frame, host); err != nil {
			return 0, false, err
		} else if !matched {
			return 0, false, nil
		}
	}
	return 1, true, nil
}

func asDictionary(v value.Value) (*value.Dictionary, bool) {
	switch t := v.(type) {
	case *value.Dictionary:
		return t, true
	case *value.DictionaryLiteral:
		d := value.NewDictionary()
		for i := range t.Keys {
			d.Set(t.Keys[i], t.Vals[i])
		}
		return d, true
	default:
		return nil, false
	}
}

// VectorPatternElement is `[pat₀ pat₁ …]`: the subject must itself be a
// sequence, each sub-pattern consuming one or more of its elements
// (spec.md "Nested vector").
type VectorPatternElement struct {
	Sub []Element
}

func (e *VectorPatternElement) Match(subject []value.Value, idx int, frame *env.Frame, host Host) (int, bool, error) {
	seq, ok := value.Sequence(subject[idx])
	if !ok {
		return 0, false, nil
	}
	matched, _, hardFail, err := matchSeq(e.Sub, seq, nil, frame, host, false)
	if err != nil {
		return 0, false, err
	}
	if !matched {
		if hardFail {
			return 0, false, fmt.Errorf("pattern mismatch after a '!' element inside a nested vector pattern")
		}
		return 0, false, nil
	}
	return 1, true, nil
}

// DefaultElement is "(pat default-expr)": evaluates default-expr and
// binds it as Inner would when there is no subject element left;
// behaves exactly like Inner when one is present.
type DefaultElement struct {
	Inner       Element
	DefaultExpr value.Value
}

func (e *DefaultElement) Match(subject []value.Value, idx int, frame *env.Frame, host Host) (int, bool, error) {
	return e.Inner.Match(subject, idx, frame, host)
}

func (e *DefaultElement) bindDefault(frame *env.Frame, host Host) error {
	v, err := host.Eval(e.DefaultExpr, frame)
	if err != nil {
		return err
	}
	bindElementDirect(e.Inner, v, frame)
	return nil
}

// bindElementDirect binds v the way Inner would have, for the handful
// of element kinds a default value can sensibly stand in for.
func bindElementDirect(e Element, v value.Value, frame *env.Frame) {
	switch t := e.(type) {
	case *VarElement:
		frame.SetLocal(t.Name, v)
	case *TypeElement:
		if t.Bind != nil {
			frame.SetLocal(t.Bind, v)
		}
	case *RegexElement:
		if t.Bind != nil {
			frame.SetLocal(t.Bind, v)
		}
	}
}

// KeywordElement is a bare ":name" appearing in a parameter list: a
// declared keyword parameter (spec.md §4.5 "Declared keywords are
// bound either to the matched named-parameter value or to nil").
// It consumes no positional subject element.
type KeywordElement struct {
	Name *ident.Symbol
}

func (e *KeywordElement) Match(subject []value.Value, idx int, frame *env.Frame, _ Host) (int, bool, error) {
	return 0, false, fmt.Errorf("internal error: a Keyword element reached Match directly")
}

func (e *KeywordElement) bind(frame *env.Frame, named map[string]value.Value) {
	if v, ok := named[e.Name.Text()]; ok {
		frame.SetLocal(e.Name, v)
		return
	}
	frame.SetLocal(e.Name, value.Nil)
}

// AndArgsElement is "&rest": binds every remaining subject element as
// a vector; must be the last positional element (spec.md "And-args").
type AndArgsElement struct {
	Name *ident.Symbol
}

func (e *AndArgsElement) Match(subject []value.Value, idx int, _ *env.Frame, _ Host) (int, bool, error) {
	return 0, false, fmt.Errorf("internal error: an And-args element reached Match directly")
}

func (e *AndArgsElement) bind(rest []value.Value, frame *env.Frame) {
	frame.SetLocal(e.Name, value.NewVector(append([]value.Value(nil), rest...)...))
}

func (e *AndArgsElement) bindEmpty(frame *env.Frame) {
	frame.SetLocal(e.Name, value.NewVector())
}

// StarElement is "*fname" or "(*fname var)": defers matching of the
// remaining subject to another pattern function (spec.md "Star
// function", §9 "must be able to re-enter the pattern engine").
type StarElement struct {
	FuncName *ident.Symbol
	Bind     *ident.Symbol
}

func (e *StarElement) Match(subject []value.Value, idx int, _ *env.Frame, _ Host) (int, bool, error) {
	return 0, false, fmt.Errorf("internal error: a Star element reached Match directly")
}

func (e *StarElement) dispatch(remaining []value.Value, frame *env.Frame, host Host) (value.Value, int, error) {
	fnVal, ok := frame.Lookup(e.FuncName)
	if !ok {
		return nil, -1, fmt.Errorf("star-function *%s is unbound", e.FuncName.Text())
	}
	result, consumed, err := host.DispatchStar(fnVal, remaining)
	if err != nil {
		return nil, -1, err
	}
	return result, consumed, nil
}
