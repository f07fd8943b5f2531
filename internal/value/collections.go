package value

import (
	"fmt"
	"strings"
)

// Vector is an ordered, mutable sequence. Per spec.md §5 it carries no
// internal synchronisation — concurrent mutation from two threads is a
// program error, not a library concern.
type Vector struct {
	Elems []Value
}

func NewVector(elems ...Value) *Vector { return &Vector{Elems: elems} }

func (*Vector) Kind() Kind { return KindVector }
func (v *Vector) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = Print(e)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
func (v *Vector) Len() int { return len(v.Elems) }

// Slice is a read-only window over a Vector or a String: (start, length).
type Slice struct {
	Source Value // *Vector or StringValue
	Start  int
	Length int
}

func (*Slice) Kind() Kind { return KindSlice }
func (s *Slice) String() string {
	switch src := s.Source.(type) {
	case *Vector:
		return NewVector(s.Elements()...).String()
	case StringValue:
		return string(src)[s.Start : s.Start+s.Length]
	default:
		return "#<slice>"
	}
}

// Elements materializes the windowed elements for a vector-backed slice.
func (s *Slice) Elements() []Value {
	vec, ok := s.Source.(*Vector)
	if !ok {
		return nil
	}
	return vec.Elems[s.Start : s.Start+s.Length]
}

// dictEntry is one insertion-ordered key/value pair.
type dictEntry struct {
	key Value
	val Value
}

// Dictionary is an ordered mapping; iteration order is observable
// insertion order (spec.md §5 "Ordering").
type Dictionary struct {
	entries []dictEntry
	index   map[string]int // keyed by a canonical printed form of the key
}

func NewDictionary() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

func (*Dictionary) Kind() Kind { return KindDictionary }

func (d *Dictionary) String() string {
	parts := make([]string, len(d.entries))
	for i, e := range d.entries {
		parts[i] = Print(e.key) + " " + Print(e.val)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func dictKey(k Value) string { return fmt.Sprintf("%T:%s", k, Print(k)) }

// Get looks up key, reporting whether it was present.
func (d *Dictionary) Get(key Value) (Value, bool) {
	if i, ok := d.index[dictKey(key)]; ok {
		return d.entries[i].val, true
	}
	return nil, false
}

// Set inserts or updates key → val, preserving first-insertion order.
func (d *Dictionary) Set(key, val Value) {
	k := dictKey(key)
	if i, ok := d.index[k]; ok {
		d.entries[i].val = val
		return
	}
	d.index[k] = len(d.entries)
	d.entries = append(d.entries, dictEntry{key: key, val: val})
}

// Delete removes key if present.
func (d *Dictionary) Delete(key Value) {
	k := dictKey(key)
	i, ok := d.index[k]
	if !ok {
		return
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	delete(d.index, k)
	for j := i; j < len(d.entries); j++ {
		d.index[dictKey(d.entries[j].key)] = j
	}
}

// Len reports the number of entries.
func (d *Dictionary) Len() int { return len(d.entries) }

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []Value {
	out := make([]Value, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.key
	}
	return out
}

// Each calls fn for every entry in insertion order.
func (d *Dictionary) Each(fn func(k, v Value)) {
	for _, e := range d.entries {
		fn(e.key, e.val)
	}
}

// HashSet is a set of values compared by value-equality.
type HashSet struct {
	entries []Value
	index   map[string]int
}

func NewHashSet() *HashSet {
	return &HashSet{index: make(map[string]int)}
}

func (*HashSet) Kind() Kind { return KindHashSet }

func (h *HashSet) String() string {
	parts := make([]string, len(h.entries))
	for i, e := range h.entries {
		parts[i] = Print(e)
	}
	return "#{" + strings.Join(parts, " ") + "}"
}

// Add inserts v if not already present; reports whether it was added.
func (h *HashSet) Add(v Value) bool {
	k := dictKey(v)
	if _, ok := h.index[k]; ok {
		return false
	}
	h.index[k] = len(h.entries)
	h.entries = append(h.entries, v)
	return true
}

// Contains reports whether v is a member.
func (h *HashSet) Contains(v Value) bool {
	_, ok := h.index[dictKey(v)]
	return ok
}

// Len reports the number of members.
func (h *HashSet) Len() int { return len(h.entries) }

// Elements returns the members in insertion order.
func (h *HashSet) Elements() []Value {
	out := make([]Value, len(h.entries))
	copy(out, h.entries)
	return out
}
