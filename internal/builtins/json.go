package builtins

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/braidlang/braid/internal/value"
)

// RegisterJSON installs the JSON builtins, grounded on the teacher's
// internal/builtins/json.go function-name vocabulary (ParseJSON/
// ToJSON/JSONHasField/JSONKeys/JSONValues/JSONLength), re-expressed
// against gjson/sjson instead of the teacher's own JSON value walker.
func RegisterJSON(bind func(name string, fn func(args []value.Value, named map[value.Keyword]value.Value) (value.Value, error))) {
	bind("json-parse", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		s, err := oneString("json-parse", args)
		if err != nil {
			return nil, err
		}
		if !gjson.Valid(s) {
			return nil, fmt.Errorf("json-parse: invalid JSON")
		}
		return gjsonToValue(gjson.Parse(s)), nil
	})

	bind("json-get", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		s, path, err := twoStrings("json-get", args)
		if err != nil {
			return nil, err
		}
		r := gjson.Get(s, path)
		if !r.Exists() {
			return value.Nil, nil
		}
		return gjsonToValue(r), nil
	})

	bind("json-has?", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		s, path, err := twoStrings("json-has?", args)
		if err != nil {
			return nil, err
		}
		return value.Bool(gjson.Get(s, path).Exists()), nil
	})

	bind("json-set", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("json-set expects (json path value)")
		}
		s, ok := args[0].(value.StringValue)
		if !ok {
			return nil, fmt.Errorf("json-set: json argument must be a String")
		}
		path, ok := args[1].(value.StringValue)
		if !ok {
			return nil, fmt.Errorf("json-set: path argument must be a String")
		}
		out, err := sjson.Set(string(s), string(path), valueToInterface(args[2]))
		if err != nil {
			return nil, fmt.Errorf("json-set: %w", err)
		}
		return value.StringValue(out), nil
	})

	bind("json-delete", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		s, path, err := twoStrings("json-delete", args)
		if err != nil {
			return nil, err
		}
		out, err := sjson.Delete(s, path)
		if err != nil {
			return nil, fmt.Errorf("json-delete: %w", err)
		}
		return value.StringValue(out), nil
	})

	bind("to-json", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("to-json expects 1 argument")
		}
		out, err := sjson.Set(`{"v":null}`, "v", valueToInterface(args[0]))
		if err != nil {
			return nil, fmt.Errorf("to-json: %w", err)
		}
		return value.StringValue(gjson.Get(out, "v").Raw), nil
	})
}

// gjsonToValue maps a parsed gjson.Result onto Braid's own value
// universe, mirroring the teacher's JSONKeys/JSONValues/JSONLength
// accessor set as a single recursive conversion instead of four
// separate host calls.
func gjsonToValue(r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Nil
	case gjson.False:
		return value.False
	case gjson.True:
		return value.True
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return value.IntValue{Value: int64(r.Num)}
		}
		return value.FloatValue{Value: r.Num}
	case gjson.String:
		return value.StringValue(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var elems []value.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, gjsonToValue(v))
				return true
			})
			return value.NewVector(elems...)
		}
		d := value.NewDictionary()
		r.ForEach(func(k, v gjson.Result) bool {
			d.Set(value.StringValue(k.Str), gjsonToValue(v))
			return true
		})
		return d
	default:
		return value.Nil
	}
}

// jsonFieldName renders a dictionary key as a bare JSON object-field
// name: a String or Keyword contributes its own text, anything else
// falls back to its printed form (still usable as a gjson path).
func jsonFieldName(k value.Value) string {
	switch t := k.(type) {
	case value.StringValue:
		return string(t)
	case value.Keyword:
		return t.Sym.Text()
	default:
		return value.Print(k)
	}
}

// valueToInterface converts a Braid value into a plain Go value sjson
// can serialize (map/slice/string/float64/bool/nil).
func valueToInterface(v value.Value) interface{} {
	switch t := v.(type) {
	case value.NilValue:
		return nil
	case value.Bool:
		return bool(t)
	case value.IntValue:
		return t.Value
	case value.FloatValue:
		return t.Value
	case value.StringValue:
		return string(t)
	case *value.Dictionary:
		out := make(map[string]interface{})
		t.Each(func(k, val value.Value) { out[jsonFieldName(k)] = valueToInterface(val) })
		return out
	default:
		if seq, ok := value.Sequence(v); ok {
			out := make([]interface{}, len(seq))
			for i, e := range seq {
				out[i] = valueToInterface(e)
			}
			return out
		}
		return value.Print(v)
	}
}
