package bytecode

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wippyai/hax/errors"
)

// Value is a constant pool entry. The dynamic type is one of nil, bool,
// int64, float64, string or []byte.
type Value = any

// Normalize converts Go scalar types to the canonical constant types.
// Integers become int64, float32 becomes float64.
func Normalize(v any) (Value, error) {
	switch x := v.(type) {
	case nil, bool, int64, float64, string, []byte:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, overflow(uint64(x))
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, overflow(x)
		}
		return int64(x), nil
	case float32:
		return float64(x), nil
	}
	return nil, errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
		Value(v).
		Detail("unsupported constant type %T", v).
		Build()
}

func overflow(x uint64) *errors.Error {
	return errors.New(errors.PhaseEncode, errors.KindOutOfRange).
		Value(x).
		Detail("constant %d overflows int64", x).
		Build()
}

// Equal reports whether two constants are the same value of the same type.
// True and 1 are distinct. Floats compare by bit pattern, so 0.0 and -0.0
// stay apart and a NaN matches itself.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case int64:
		y, ok := b.(int64)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && math.Float64bits(x) == math.Float64bits(y)
	case string:
		y, ok := b.(string)
		return ok && x == y
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	}
	return false
}

// Index returns the position of v in pool, or -1.
func Index(pool []Value, v Value) int {
	for i, c := range pool {
		if Equal(c, v) {
			return i
		}
	}
	return -1
}

// Comparable reports whether v can key a map.
func Comparable(v Value) bool {
	switch v.(type) {
	case nil, bool, int64, float64, string:
		return true
	}
	return false
}

// TypeName returns the host-language name of the constant's type.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case []byte:
		return "bytes"
	}
	return fmt.Sprintf("%T", v)
}
