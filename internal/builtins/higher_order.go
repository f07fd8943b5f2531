package builtins

import (
	"fmt"

	"github.com/braidlang/braid/internal/eval"
	"github.com/braidlang/braid/internal/value"
)

// RegisterHigherOrder installs map/filter/reduce/apply, the builtins
// that need to invoke another Callable rather than just inspect values
// (spec.md §4.4's Apply seam).
func RegisterHigherOrder(ev *eval.Evaluator, bind func(name string, fn func(args []value.Value, named map[value.Keyword]value.Value) (value.Value, error))) {
	bind("apply", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) < 1 {
			return nil, fmt.Errorf("apply expects (fn args...)")
		}
		fn, rest := args[0], args[1:]
		var flat []value.Value
		for i, a := range rest {
			if i == len(rest)-1 {
				seq, ok := value.Sequence(a)
				if !ok {
					return nil, fmt.Errorf("apply: last argument must be a sequence")
				}
				flat = append(flat, seq...)
				continue
			}
			flat = append(flat, a)
		}
		return ev.Apply(fn, flat)
	})

	bind("map", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("map expects (fn seq)")
		}
		seq, ok := value.Sequence(args[1])
		if !ok {
			return nil, fmt.Errorf("map: not a sequence: %s", value.Print(args[1]))
		}
		out := make([]value.Value, len(seq))
		for i, v := range seq {
			r, err := ev.Apply(args[0], []value.Value{v})
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return value.NewVector(out...), nil
	})

	bind("filter", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("filter expects (pred seq)")
		}
		seq, ok := value.Sequence(args[1])
		if !ok {
			return nil, fmt.Errorf("filter: not a sequence: %s", value.Print(args[1]))
		}
		var out []value.Value
		for _, v := range seq {
			r, err := ev.Apply(args[0], []value.Value{v})
			if err != nil {
				return nil, err
			}
			if value.Truthy(r) {
				out = append(out, v)
			}
		}
		return value.NewVector(out...), nil
	})

	bind("reduce", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("reduce expects (fn init seq)")
		}
		seq, ok := value.Sequence(args[2])
		if !ok {
			return nil, fmt.Errorf("reduce: not a sequence: %s", value.Print(args[2]))
		}
		acc := args[1]
		for _, v := range seq {
			r, err := ev.Apply(args[0], []value.Value{acc, v})
			if err != nil {
				return nil, err
			}
			acc = r
		}
		return acc, nil
	})

	bind("each", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("each expects (fn seq)")
		}
		seq, ok := value.Sequence(args[1])
		if !ok {
			return nil, fmt.Errorf("each: not a sequence: %s", value.Print(args[1]))
		}
		for _, v := range seq {
			if _, err := ev.Apply(args[0], []value.Value{v}); err != nil {
				return nil, err
			}
		}
		return value.Nil, nil
	})
}
