// Package builtins registers Braid's native-function primitives —
// arithmetic, comparison, collection, string, and the SPEC_FULL.md
// domain-stack wiring (JSON via tidwall/gjson+sjson, string
// normalization/collation via golang.org/x/text) — into an
// eval.Evaluator's root frame. Grounded on the teacher's
// internal/builtins package: one file per concern, each registering a
// flat list of NativeFunc entries into the host environment.
package builtins

import (
	"fmt"
	"math"
	"math/big"

	"github.com/braidlang/braid/internal/value"
)

// arithResult narrows a big.Float result back to the most precise exact
// representation both operands support: if either operand was a Float,
// the result stays a Float; otherwise it narrows to Int/BigInt.
func arithResult(a, b value.Value, f *big.Float) value.Value {
	if isFloat(a) || isFloat(b) {
		out, _ := f.Float64()
		return value.FloatValue{Value: out}
	}
	if f.IsInt() {
		bi, _ := f.Int(nil)
		if bi.IsInt64() {
			return value.IntValue{Value: bi.Int64()}
		}
		return value.BigIntValue{Value: bi}
	}
	out, _ := f.Float64()
	return value.FloatValue{Value: out}
}

func isFloat(v value.Value) bool {
	_, ok := v.(value.FloatValue)
	return ok
}

func numeric(args []value.Value) ([]*big.Float, error) {
	out := make([]*big.Float, len(args))
	for i, a := range args {
		f, ok := value.AsBigFloat(a)
		if !ok {
			return nil, fmt.Errorf("expected a number, got %s", value.Print(a))
		}
		out[i] = f
	}
	return out, nil
}

func reduceArith(name string, op func(acc, next *big.Float) *big.Float, identity int64) func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
	return func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.IntValue{Value: identity}, nil
		}
		fs, err := numeric(args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		result := args[0]
		acc := fs[0]
		for i := 1; i < len(fs); i++ {
			acc = op(acc, fs[i])
			result = args[i]
		}
		if len(args) == 1 {
			return args[0], nil
		}
		var widest value.Value = args[0]
		for _, a := range args[1:] {
			if isFloat(a) {
				widest = a
			}
		}
		_ = result
		return arithResult(widest, widest, acc), nil
	}
}

func compareChain(name string, ok func(cmp int) bool) func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
	return func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) < 2 {
			return value.True, nil
		}
		fs, err := numeric(args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for i := 1; i < len(fs); i++ {
			if !ok(fs[i-1].Cmp(fs[i])) {
				return value.False, nil
			}
		}
		return value.True, nil
	}
}

// RegisterArithmetic installs +, -, *, /, and the six comparison
// operators.
func RegisterArithmetic(bind func(name string, fn func(args []value.Value, named map[value.Keyword]value.Value) (value.Value, error))) {
	bind("+", reduceArith("+", func(a, b *big.Float) *big.Float { return new(big.Float).Add(a, b) }, 0))
	bind("*", reduceArith("*", func(a, b *big.Float) *big.Float { return new(big.Float).Mul(a, b) }, 1))
	bind("-", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		fs, err := numeric(args)
		if err != nil {
			return nil, fmt.Errorf("-: %w", err)
		}
		switch len(fs) {
		case 0:
			return value.IntValue{Value: 0}, nil
		case 1:
			return arithResult(args[0], args[0], new(big.Float).Neg(fs[0])), nil
		default:
			acc := fs[0]
			for _, f := range fs[1:] {
				acc = new(big.Float).Sub(acc, f)
			}
			widest := widestOf(args)
			return arithResult(widest, widest, acc), nil
		}
	})
	bind("/", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		fs, err := numeric(args)
		if err != nil {
			return nil, fmt.Errorf("/: %w", err)
		}
		if len(fs) < 2 {
			return nil, fmt.Errorf("/ expects at least 2 arguments")
		}
		acc := fs[0]
		for _, f := range fs[1:] {
			if f.Sign() == 0 {
				return nil, fmt.Errorf("/: division by zero")
			}
			acc = new(big.Float).Quo(acc, f)
		}
		out, _ := acc.Float64()
		return value.FloatValue{Value: out}, nil
	})

	bind("=", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		for i := 1; i < len(args); i++ {
			if !value.Equal(args[i-1], args[i]) {
				return value.False, nil
			}
		}
		return value.True, nil
	})
	bind("<", compareChain("<", func(c int) bool { return c < 0 }))
	bind("<=", compareChain("<=", func(c int) bool { return c <= 0 }))
	bind(">", compareChain(">", func(c int) bool { return c > 0 }))
	bind(">=", compareChain(">=", func(c int) bool { return c >= 0 }))

	bind("mod", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("mod expects 2 arguments")
		}
		a, aok := args[0].(value.IntValue)
		b, bok := args[1].(value.IntValue)
		if !aok || !bok {
			return nil, fmt.Errorf("mod expects integer arguments")
		}
		if b.Value == 0 {
			return nil, fmt.Errorf("mod: division by zero")
		}
		return value.IntValue{Value: a.Value % b.Value}, nil
	})
	bind("abs", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("abs expects 1 argument")
		}
		f, ok := value.AsBigFloat(args[0])
		if !ok {
			return nil, fmt.Errorf("abs: expected a number")
		}
		return arithResult(args[0], args[0], new(big.Float).Abs(f)), nil
	})
	bind("sqrt", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("sqrt expects 1 argument")
		}
		f, ok := value.AsBigFloat(args[0])
		if !ok {
			return nil, fmt.Errorf("sqrt: expected a number")
		}
		v, _ := f.Float64()
		return value.FloatValue{Value: math.Sqrt(v)}, nil
	})
}

func widestOf(args []value.Value) value.Value {
	for _, a := range args {
		if isFloat(a) {
			return a
		}
	}
	return args[0]
}
