package eval

import (
	"fmt"

	"github.com/braidlang/braid/internal/pattern"
	"github.com/braidlang/braid/internal/value"
)

// dispatchStar backs pattern.Host.DispatchStar: the target of a
// `*fname` star-function element must itself be pattern-capable
// (spec.md §4.3 "Star function").
func (ev *Evaluator) dispatchStar(fn value.Value, subject []value.Value) (value.Value, int, error) {
	pf, ok := fn.(*pattern.Function)
	if !ok {
		return nil, 0, fmt.Errorf("*%s: star-function target is not pattern-capable", value.Print(fn))
	}
	return pf.DispatchStar(subject, ev.host())
}

// hostTypeName classifies v against the built-in type names a ^T
// TypeLiteral or Type pattern element may name (spec.md §3's Kind
// column, lower-cased host-type vocabulary).
func hostTypeName(v value.Value) string {
	switch v.(type) {
	case value.NilValue:
		return "Nil"
	case value.Bool:
		return "Bool"
	case value.IntValue:
		return "Int"
	case value.BigIntValue:
		return "BigInt"
	case value.FloatValue:
		return "Float"
	case value.CharValue:
		return "Char"
	case value.StringValue:
		return "String"
	case value.Symbol:
		return "Symbol"
	case value.Keyword:
		return "Keyword"
	case *value.Cons:
		return "Cons"
	case *value.Vector:
		return "Vector"
	case *value.Slice:
		return "Slice"
	case *value.Dictionary:
		return "Dictionary"
	case *value.HashSet:
		return "HashSet"
	case *value.Regex:
		return "Regex"
	case *value.TypeLiteral:
		return "Type"
	case *value.RangeList:
		return "RangeList"
	case *value.Record:
		return "Record"
	default:
		return ""
	}
}

// ConvertType backs pattern.Host.ConvertType (the Type pattern element
// and a Pinned var's isinstance test, spec.md §4.3): v converts to
// typeName either because it is already that host kind, because a
// numeric widening applies, or because typeName names a `deftype`
// record v can be read as.
func (ev *Evaluator) ConvertType(v value.Value, typeName string) (value.Value, bool) {
	if hostTypeName(v) == typeName {
		return v, true
	}

	switch typeName {
	case "String":
		return value.StringValue(value.Print(v)), true
	case "Float":
		if f, ok := value.AsBigFloat(v); ok {
			out, _ := f.Float64()
			return value.FloatValue{Value: out}, true
		}
	case "Int":
		if f, ok := v.(value.FloatValue); ok {
			return value.IntValue{Value: int64(f.Value)}, true
		}
	}

	if rt, ok := ev.Types[typeName]; ok {
		if rec, isRecord := v.(*value.Record); isRecord && rec.Type == rt {
			return v, true
		}
	}

	return nil, false
}
