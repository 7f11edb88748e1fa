// Package convert coerces host Go values into typed IR values.
//
// The layer is pure: it holds no state of its own and touches nothing but
// the string pool handed in by the caller. Every rule either produces a
// concrete llir value or fails with ErrTypeMismatch.
package convert

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// ErrTypeMismatch is returned when no coercion rule applies.
var ErrTypeMismatch = errors.New("type mismatch")

// Pool interns string constants by content. Implemented by codegen.Library.
type Pool interface {
	InternString(text string) *ir.Global
}

// Default types used when no expected type is given.
var (
	DefaultInt   = types.I64
	DefaultFloat = types.Double
)

// Value coerces v to a typed IR value. want may be nil, in which case
// defaults apply. Rules are tried in priority order; the first match wins.
func Value(pool Pool, v any, want types.Type) (value.Value, error) {
	// Rule 1: typed handles pass through unchanged.
	if tv, ok := v.(value.Value); ok {
		return tv, nil
	}

	switch x := v.(type) {
	case bool:
		return boolValue(x, want)
	case string:
		return stringValue(pool, x, want)
	case []any:
		return arrayValue(pool, x, want)
	case nil:
		if pt, ok := want.(*types.PointerType); ok {
			return constant.NewNull(pt), nil
		}
		return nil, fmt.Errorf("%w: untyped nil needs a pointer type, got %v", ErrTypeMismatch, want)
	}

	if i, ok := asInt64(v); ok {
		return intValue(i, want)
	}
	if f, ok := asFloat64(v); ok {
		return floatValue(f, want)
	}

	return nil, fmt.Errorf("%w: expected %v, got %T", ErrTypeMismatch, want, v)
}

func intValue(i int64, want types.Type) (value.Value, error) {
	switch wt := want.(type) {
	case nil:
		return constant.NewInt(DefaultInt, i), nil
	case *types.IntType:
		return constant.NewInt(wt, truncToWidth(i, wt.BitSize)), nil
	case *types.FloatType:
		return constant.NewFloat(wt, float64(i)), nil
	case *types.PointerType:
		if i == 0 {
			return constant.NewNull(wt), nil
		}
	}
	return nil, fmt.Errorf("%w: expected %v, got integer %d", ErrTypeMismatch, want, i)
}

func floatValue(f float64, want types.Type) (value.Value, error) {
	switch wt := want.(type) {
	case nil:
		return constant.NewFloat(DefaultFloat, f), nil
	case *types.FloatType:
		return constant.NewFloat(wt, f), nil
	case *types.IntType:
		return constant.NewInt(wt, truncToWidth(int64(f), wt.BitSize)), nil
	}
	return nil, fmt.Errorf("%w: expected %v, got float %g", ErrTypeMismatch, want, f)
}

// truncToWidth reduces i modulo 2^bits. A host literal wider than the target
// type keeps only its low bits, so the emitted constant is always valid for
// the integer width it is typed with.
func truncToWidth(i int64, bits uint64) int64 {
	if bits >= 64 {
		return i
	}
	mask := (uint64(1) << bits) - 1
	return int64(uint64(i) & mask)
}

func boolValue(b bool, want types.Type) (value.Value, error) {
	switch want.(type) {
	case nil, *types.IntType:
		var bit int64
		if b {
			bit = 1
		}
		return constant.NewInt(types.I1, bit), nil
	}
	return nil, fmt.Errorf("%w: expected %v, got bool", ErrTypeMismatch, want)
}

func arrayValue(pool Pool, elems []any, want types.Type) (value.Value, error) {
	var arrTy *types.ArrayType
	var elemWant types.Type
	switch wt := want.(type) {
	case nil:
	case *types.ArrayType:
		arrTy = wt
		elemWant = wt.ElemType
	default:
		return nil, fmt.Errorf("%w: expected %v, got array literal", ErrTypeMismatch, want)
	}

	consts := make([]constant.Constant, 0, len(elems))
	for i, e := range elems {
		ev, err := Value(pool, e, elemWant)
		if err != nil {
			return nil, err
		}
		c, ok := ev.(constant.Constant)
		if !ok {
			return nil, fmt.Errorf("%w: array element %d is not a constant", ErrTypeMismatch, i)
		}
		if elemWant == nil {
			// Element type comes from the first converted element.
			elemWant = c.Type()
		}
		consts = append(consts, c)
	}
	if arrTy == nil {
		if len(consts) == 0 {
			return nil, fmt.Errorf("%w: empty array literal needs an explicit array type", ErrTypeMismatch)
		}
		n, err := safecast.Conv[uint64](len(consts))
		if err != nil {
			return nil, fmt.Errorf("%w: array length overflow", ErrTypeMismatch)
		}
		arrTy = types.NewArray(n, elemWant)
	}
	return constant.NewArray(arrTy, consts...), nil
}

func stringValue(pool Pool, s string, want types.Type) (value.Value, error) {
	switch wt := want.(type) {
	case nil:
		return pool.InternString(s), nil
	case *types.PointerType:
		g := pool.InternString(s)
		if types.Equal(g.Type(), wt) {
			return g, nil
		}
		return constant.NewBitCast(g, wt), nil
	}
	return nil, fmt.Errorf("%w: expected %v, got string", ErrTypeMismatch, want)
}

// asInt64 widens any Go integer into int64. Unsigned values that do not fit
// are rejected rather than silently reinterpreted.
func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint:
		i, err := safecast.Conv[int64](x)
		return i, err == nil
	case uint64:
		i, err := safecast.Conv[int64](x)
		return i, err == nil
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// IsZero reports whether v is a statically known zero numeric, either a host
// literal or an already-built integer/float constant. Used to reject zero
// divisors before any instruction is emitted.
func IsZero(v any) bool {
	switch x := v.(type) {
	case *constant.Int:
		return x.X.Sign() == 0
	case *constant.Float:
		return x.X.Sign() == 0
	}
	if i, ok := asInt64(v); ok {
		return i == 0
	}
	if f, ok := asFloat64(v); ok {
		return f == 0
	}
	return false
}
