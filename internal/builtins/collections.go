package builtins

import (
	"fmt"

	"github.com/braidlang/braid/internal/value"
)

// RegisterCollections installs the sequence/dictionary/set primitives
// every builtin-level control-flow special form (if/while) and the
// pattern engine's star-functions lean on: len, first, rest, cons,
// vector construction/indexing, and basic dictionary/set access.
func RegisterCollections(bind func(name string, fn func(args []value.Value, named map[value.Keyword]value.Value) (value.Value, error))) {
	bind("len", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("len expects 1 argument")
		}
		switch t := args[0].(type) {
		case value.StringValue:
			return value.IntValue{Value: int64(t.Len())}, nil
		case *value.Dictionary:
			return value.IntValue{Value: int64(t.Len())}, nil
		case *value.HashSet:
			return value.IntValue{Value: int64(t.Len())}, nil
		default:
			seq, ok := value.Sequence(args[0])
			if !ok {
				return nil, fmt.Errorf("len: not a sequence: %s", value.Print(args[0]))
			}
			return value.IntValue{Value: int64(len(seq))}, nil
		}
	})

	bind("first", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		seq, err := seqArg("first", args)
		if err != nil {
			return nil, err
		}
		if len(seq) == 0 {
			return value.Nil, nil
		}
		return seq[0], nil
	})

	bind("rest", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		seq, err := seqArg("rest", args)
		if err != nil {
			return nil, err
		}
		if len(seq) == 0 {
			return value.NewVector(), nil
		}
		return value.NewVector(append([]value.Value(nil), seq[1:]...)...), nil
	})

	bind("cons", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("cons expects (item seq)")
		}
		seq, ok := value.Sequence(args[1])
		if !ok {
			return nil, fmt.Errorf("cons: not a sequence: %s", value.Print(args[1]))
		}
		out := append([]value.Value{args[0]}, seq...)
		return value.NewVector(out...), nil
	})

	bind("vector", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		return value.NewVector(append([]value.Value(nil), args...)...), nil
	})

	bind("nth", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("nth expects (seq index)")
		}
		seq, ok := value.Sequence(args[0])
		if !ok {
			return nil, fmt.Errorf("nth: not a sequence: %s", value.Print(args[0]))
		}
		idx, ok := args[1].(value.IntValue)
		if !ok {
			return nil, fmt.Errorf("nth: index must be an Int")
		}
		if idx.Value < 0 || int(idx.Value) >= len(seq) {
			return nil, fmt.Errorf("nth: index %d out of range (len %d)", idx.Value, len(seq))
		}
		return seq[idx.Value], nil
	})

	bind("reverse", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		seq, err := seqArg("reverse", args)
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(seq))
		for i, v := range seq {
			out[len(seq)-1-i] = v
		}
		return value.NewVector(out...), nil
	})

	bind("dict", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args)%2 != 0 {
			return nil, fmt.Errorf("dict expects an even number of key/value arguments")
		}
		d := value.NewDictionary()
		for i := 0; i < len(args); i += 2 {
			d.Set(args[i], args[i+1])
		}
		return d, nil
	})

	bind("get", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("get expects (dict key default?)")
		}
		d, ok := args[0].(*value.Dictionary)
		if !ok {
			return nil, fmt.Errorf("get: not a dictionary: %s", value.Print(args[0]))
		}
		if v, ok := d.Get(args[1]); ok {
			return v, nil
		}
		if len(args) == 3 {
			return args[2], nil
		}
		return value.Nil, nil
	})

	bind("assoc", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("assoc expects (dict key value)")
		}
		src, ok := args[0].(*value.Dictionary)
		if !ok {
			return nil, fmt.Errorf("assoc: not a dictionary: %s", value.Print(args[0]))
		}
		out := value.NewDictionary()
		src.Each(func(k, v value.Value) { out.Set(k, v) })
		out.Set(args[1], args[2])
		return out, nil
	})

	bind("keys", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("keys expects 1 argument")
		}
		d, ok := args[0].(*value.Dictionary)
		if !ok {
			return nil, fmt.Errorf("keys: not a dictionary: %s", value.Print(args[0]))
		}
		return value.NewVector(d.Keys()...), nil
	})

	bind("set", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		hs := value.NewHashSet()
		for _, a := range args {
			hs.Add(a)
		}
		return hs, nil
	})

	bind("contains?", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("contains? expects (coll item)")
		}
		switch t := args[0].(type) {
		case *value.HashSet:
			return value.Bool(t.Contains(args[1])), nil
		case *value.Dictionary:
			_, ok := t.Get(args[1])
			return value.Bool(ok), nil
		default:
			seq, ok := value.Sequence(args[0])
			if !ok {
				return nil, fmt.Errorf("contains?: not a collection: %s", value.Print(args[0]))
			}
			for _, v := range seq {
				if value.Equal(v, args[1]) {
					return value.True, nil
				}
			}
			return value.False, nil
		}
	})
}

func seqArg(name string, args []value.Value) ([]value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s expects 1 argument", name)
	}
	seq, ok := value.Sequence(args[0])
	if !ok {
		return nil, fmt.Errorf("%s: not a sequence: %s", name, value.Print(args[0]))
	}
	return seq, nil
}
