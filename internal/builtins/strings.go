package builtins

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/braidlang/braid/internal/value"
)

// RegisterStrings installs the string builtins, grounded on the
// teacher's internal/interp/builtins/strings_compare.go — same
// Unicode-aware comparison/normalization stack (golang.org/x/text),
// re-expressed against value.StringValue instead of *runtime.StringValue.
func RegisterStrings(bind func(name string, fn func(args []value.Value, named map[value.Keyword]value.Value) (value.Value, error))) {
	bind("str-concat", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		var sb strings.Builder
		for _, a := range args {
			s, ok := a.(value.StringValue)
			if !ok {
				return nil, fmt.Errorf("str-concat: expected a String, got %s", value.Print(a))
			}
			sb.WriteString(string(s))
		}
		return value.StringValue(sb.String()), nil
	})

	bind("str-upper", strOp(strings.ToUpper))
	bind("str-lower", strOp(strings.ToLower))
	bind("str-trim", strOp(strings.TrimSpace))

	bind("str-split", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		s, sep, err := twoStrings("str-split", args)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.StringValue(p)
		}
		return value.NewVector(out...), nil
	})

	bind("str-join", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("str-join expects (seq sep)")
		}
		seq, ok := value.Sequence(args[0])
		if !ok {
			return nil, fmt.Errorf("str-join: not a sequence: %s", value.Print(args[0]))
		}
		sep, ok := args[1].(value.StringValue)
		if !ok {
			return nil, fmt.Errorf("str-join: separator must be a String")
		}
		parts := make([]string, len(seq))
		for i, v := range seq {
			s, ok := v.(value.StringValue)
			if !ok {
				return nil, fmt.Errorf("str-join: element %d is not a String: %s", i, value.Print(v))
			}
			parts[i] = string(s)
		}
		return value.StringValue(strings.Join(parts, string(sep))), nil
	})

	bind("str-contains?", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		s, sub, err := twoStrings("str-contains?", args)
		if err != nil {
			return nil, err
		}
		return value.Bool(strings.Contains(s, sub)), nil
	})

	// str-same-text? is the teacher's SameText(): case-insensitive
	// equality using Unicode case folding (strings_compare.go).
	bind("str-same-text?", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		s, t, err := twoStrings("str-same-text?", args)
		if err != nil {
			return nil, err
		}
		return value.Bool(strings.EqualFold(s, t)), nil
	})

	// str-normalize applies Unicode Normalization Form C, the teacher's
	// golang.org/x/text/unicode/norm usage for encoding-safe comparison.
	bind("str-normalize", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		s, err := oneString("str-normalize", args)
		if err != nil {
			return nil, err
		}
		return value.StringValue(norm.NFC.String(s)), nil
	})

	// str-collate-sort sorts strings using locale-aware collation
	// (golang.org/x/text/collate), rather than a raw byte-wise sort —
	// the teacher's CompareText()/collation usage generalized to a
	// whole-sequence sort builtin.
	bind("str-collate-sort", func(args []value.Value, named map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("str-collate-sort expects 1 sequence argument")
		}
		seq, ok := value.Sequence(args[0])
		if !ok {
			return nil, fmt.Errorf("str-collate-sort: not a sequence: %s", value.Print(args[0]))
		}
		strs := make([]string, len(seq))
		for i, v := range seq {
			s, ok := v.(value.StringValue)
			if !ok {
				return nil, fmt.Errorf("str-collate-sort: element %d is not a String", i)
			}
			strs[i] = string(s)
		}
		tag := language.Und
		for k, v := range named {
			if k.Sym.Text() == "locale" {
				if loc, ok := v.(value.StringValue); ok {
					if t, perr := language.Parse(string(loc)); perr == nil {
						tag = t
					}
				}
			}
		}
		col := collate.New(tag)
		col.SortStrings(strs)
		out := make([]value.Value, len(strs))
		for i, s := range strs {
			out[i] = value.StringValue(s)
		}
		return value.NewVector(out...), nil
	})
}

func strOp(f func(string) string) func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
	return func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		s, err := oneString("string operation", args)
		if err != nil {
			return nil, err
		}
		return value.StringValue(f(s)), nil
	}
}

func oneString(name string, args []value.Value) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s expects 1 argument", name)
	}
	s, ok := args[0].(value.StringValue)
	if !ok {
		return "", fmt.Errorf("%s: expected a String, got %s", name, value.Print(args[0]))
	}
	return string(s), nil
}

func twoStrings(name string, args []value.Value) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("%s expects 2 arguments", name)
	}
	a, ok := args[0].(value.StringValue)
	if !ok {
		return "", "", fmt.Errorf("%s: expected a String, got %s", name, value.Print(args[0]))
	}
	b, ok := args[1].(value.StringValue)
	if !ok {
		return "", "", fmt.Errorf("%s: expected a String, got %s", name, value.Print(args[1]))
	}
	return string(a), string(b), nil
}
