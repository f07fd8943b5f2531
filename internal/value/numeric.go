package value

import (
	"math"
	"math/big"
	"strconv"
)

// IntValue is an exact machine integer. It reports KindInt when its
// magnitude fits in 32 bits and KindLong otherwise — the "automatic
// widening promotion" of spec.md §3 happens at the Int/Long boundary
// for machine-sized literals; beyond int64 the reader produces a
// BigIntValue instead (see ParseInt).
type IntValue struct {
	Value int64
}

func (i IntValue) Kind() Kind {
	if i.Value > math.MaxInt32 || i.Value < math.MinInt32 {
		return KindLong
	}
	return KindInt
}

func (i IntValue) String() string { return strconv.FormatInt(i.Value, 10) }

// AsFloat converts to the nearest Float.
func (i IntValue) AsFloat() FloatValue { return FloatValue{Value: float64(i.Value)} }

// AsBigInt widens to an exact BigIntValue.
func (i IntValue) AsBigInt() BigIntValue { return BigIntValue{Value: big.NewInt(i.Value)} }

// BigIntValue is an arbitrary-precision exact integer, produced when a
// parsed literal or an arithmetic result overflows int64.
type BigIntValue struct {
	Value *big.Int
}

func (BigIntValue) Kind() Kind       { return KindBigInt }
func (b BigIntValue) String() string { return b.Value.String() + "i" }

// AsFloat converts to the nearest Float (may lose precision).
func (b BigIntValue) AsFloat() FloatValue {
	f := new(big.Float).SetInt(b.Value)
	v, _ := f.Float64()
	return FloatValue{Value: v}
}

// FitsInt64 reports whether the BigIntValue can be narrowed back to a
// machine IntValue without loss.
func (b BigIntValue) FitsInt64() (int64, bool) {
	if b.Value.IsInt64() {
		return b.Value.Int64(), true
	}
	return 0, false
}

// FloatValue is an IEEE-754 double.
type FloatValue struct {
	Value float64
}

func (FloatValue) Kind() Kind { return KindFloat }
func (f FloatValue) String() string {
	switch {
	case math.IsInf(f.Value, 1):
		return "Inf"
	case math.IsInf(f.Value, -1):
		return "-Inf"
	case math.IsNaN(f.Value):
		return "NaN"
	default:
		return strconv.FormatFloat(f.Value, 'g', -1, 64)
	}
}

// NumericKind reports whether v is one of the numeric kinds.
func NumericKind(v Value) bool {
	switch v.Kind() {
	case KindInt, KindLong, KindBigInt, KindFloat:
		return true
	default:
		return false
	}
}

// AsBigFloat promotes any numeric Value to a big.Float for mixed-mode
// arithmetic that must not lose BigInt precision unnecessarily.
func AsBigFloat(v Value) (*big.Float, bool) {
	switch n := v.(type) {
	case IntValue:
		return new(big.Float).SetInt64(n.Value), true
	case BigIntValue:
		return new(big.Float).SetInt(n.Value), true
	case FloatValue:
		return big.NewFloat(n.Value), true
	default:
		return nil, false
	}
}

// ParseInt builds the smallest exact integer Value that holds text,
// widening Int -> Long -> BigInt automatically on overflow (spec.md §3).
// base is 10, 16 ("0x…") or 2 ("0b…"); forceBig handles a trailing "i"
// suffix that requests BigInt regardless of magnitude.
func ParseInt(digits string, base int, forceBig bool) Value {
	if forceBig {
		n := new(big.Int)
		n.SetString(digits, base)
		return BigIntValue{Value: n}
	}
	if n, err := strconv.ParseInt(digits, base, 64); err == nil {
		return IntValue{Value: n}
	}
	n := new(big.Int)
	n.SetString(digits, base)
	return BigIntValue{Value: n}
}
