package value

import "strings"

// RecordType is a user-defined record shape introduced by `deftype`
// (spec.md §4.2 "TypeLiteral... reference to a host type or a
// user-defined record type"). It is not itself a Value — it is the
// shared schema every Record instance of that type points back to.
type RecordType struct {
	Name   string
	Fields []string
}

// Record is an instance of a user-defined record type: a fixed,
// named set of fields, printed the way a constructor call would build
// it back (so eval-ed output can be fed straight back into the reader).
type Record struct {
	Type   *RecordType
	Values []Value
}

func (*Record) Kind() Kind { return KindRecord }

func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString("#")
	sb.WriteString(r.Type.Name)
	sb.WriteString("{")
	for i, f := range r.Type.Fields {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(f)
		sb.WriteString(" ")
		sb.WriteString(Print(r.Values[i]))
	}
	sb.WriteString("}")
	return sb.String()
}

// Get looks up a field by name.
func (r *Record) Get(field string) (Value, bool) {
	for i, f := range r.Type.Fields {
		if f == field {
			return r.Values[i], true
		}
	}
	return nil, false
}
