package value

import "strconv"

// CharValue is a single Unicode code point.
type CharValue rune

func (CharValue) Kind() Kind { return KindChar }
func (c CharValue) String() string {
	return "\\" + string(rune(c))
}

// StringValue is immutable text.
type StringValue string

func (StringValue) Kind() Kind       { return KindString }
func (s StringValue) String() string { return string(s) }

// Quoted renders the canonical double-quoted, escaped printed form used
// by the reader's round-trip invariant (spec.md Invariant 1).
func (s StringValue) Quoted() string { return strconv.Quote(string(s)) }

// Len reports the length in bytes, mirroring Go string semantics; Braid
// string indexing builtins convert to runes where character semantics
// are required.
func (s StringValue) Len() int { return len(s) }
