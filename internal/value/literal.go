package value

import "strings"

// BraidLiteral groups the four reader-produced literal forms whose
// elements still need evaluating exactly once (spec.md §3, §4.4 rule 1):
// the reader builds these directly from `[...]`, `{...}`, `#{...}` and
// `"...${...}..."` syntax; the evaluator realizes each into a plain
// Vector / Dictionary / HashSet / StringValue, which then self-evaluate
// on any later visit.
type BraidLiteral interface {
	Value
	braidLiteral()
}

// VectorLiteral wraps the as-yet-unevaluated elements of a `[...]` form.
type VectorLiteral struct {
	Elems []Value
}

func (*VectorLiteral) Kind() Kind       { return KindBraidLiteral }
func (*VectorLiteral) braidLiteral()    {}
func (v *VectorLiteral) String() string { return (&Vector{Elems: v.Elems}).String() }

// DictionaryLiteral wraps the as-yet-unevaluated key/value forms of a
// `{...}` form, in source order.
type DictionaryLiteral struct {
	Keys []Value
	Vals []Value
}

func (*DictionaryLiteral) Kind() Kind    { return KindBraidLiteral }
func (*DictionaryLiteral) braidLiteral() {}
func (d *DictionaryLiteral) String() string {
	parts := make([]string, len(d.Keys))
	for i := range d.Keys {
		parts[i] = Print(d.Keys[i]) + " " + Print(d.Vals[i])
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// HashSetLiteral wraps the as-yet-unevaluated elements of a `#{...}` form.
type HashSetLiteral struct {
	Elems []Value
}

func (*HashSetLiteral) Kind() Kind    { return KindBraidLiteral }
func (*HashSetLiteral) braidLiteral() {}
func (h *HashSetLiteral) String() string {
	parts := make([]string, len(h.Elems))
	for i, e := range h.Elems {
		parts[i] = Print(e)
	}
	return "#{" + strings.Join(parts, " ") + "}"
}

// TemplatePart is one piece of an ExpandableStringLiteral: either a
// literal Text run or an Expr to be evaluated and stringified.
type TemplatePart struct {
	Text string
	Expr Value // nil when Text is set
}

// ExpandableStringLiteral is a string containing `${…}` interpolations,
// produced by the reader instead of a plain StringValue (spec.md §4.2
// "otherwise strings containing ${…} become ExpandableStringLiteral").
type ExpandableStringLiteral struct {
	Parts []TemplatePart
}

func (*ExpandableStringLiteral) Kind() Kind    { return KindBraidLiteral }
func (*ExpandableStringLiteral) braidLiteral() {}
func (e *ExpandableStringLiteral) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, p := range e.Parts {
		if p.Expr != nil {
			sb.WriteString("${")
			sb.WriteString(Print(p.Expr))
			sb.WriteByte('}')
		} else {
			sb.WriteString(p.Text)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
