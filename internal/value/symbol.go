package value

import "github.com/braidlang/braid/internal/ident"

// Symbol is an interned name value. Equality is by the underlying
// interned id (spec.md Invariant 2), never by text.
type Symbol struct {
	Sym *ident.Symbol
}

func (Symbol) Kind() Kind       { return KindSymbol }
func (s Symbol) String() string { return s.Sym.Text() }

// SymbolEqual compares two Symbol values by interned identity.
func SymbolEqual(a, b Symbol) bool { return ident.Equal(a.Sym, b.Sym) }

// Keyword is a self-evaluating ":name" literal. It is distinct from
// Symbol even though both wrap an interned name (spec.md "Keyword
// semantics").
type Keyword struct {
	Sym *ident.Symbol
}

func (Keyword) Kind() Kind       { return KindKeyword }
func (k Keyword) String() string { return ":" + k.Sym.Text() }

// KeywordEqual compares two Keyword values by interned identity.
func KeywordEqual(a, b Keyword) bool { return ident.Equal(a.Sym, b.Sym) }
