package convert

import (
	"errors"
	"fmt"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// testPool interns by content like a library string pool.
type testPool struct {
	strings map[string]*ir.Global
}

func newTestPool() *testPool {
	return &testPool{strings: make(map[string]*ir.Global)}
}

func (p *testPool) InternString(text string) *ir.Global {
	if g, ok := p.strings[text]; ok {
		return g
	}
	name := fmt.Sprintf(".str.%d", len(p.strings))
	g := ir.NewGlobalDef(name, constant.NewCharArrayFromString(text+"\x00"))
	g.Immutable = true
	p.strings[text] = g
	return g
}

func TestTypedHandlePassesThrough(t *testing.T) {
	want := constant.NewInt(types.I8, 7)
	got, err := Value(newTestPool(), want, types.I32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("typed handle must pass through unchanged")
	}
}

func TestIntCoercion(t *testing.T) {
	v, err := Value(newTestPool(), 5, types.I32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := v.(*constant.Int)
	if !ok {
		t.Fatalf("expected integer constant, got %T", v)
	}
	if c.Typ.BitSize != 32 || c.X.Int64() != 5 {
		t.Fatalf("expected i32 5, got %v %v", c.Typ, c.X)
	}
}

func TestIntTruncatesToTargetWidth(t *testing.T) {
	v, err := Value(newTestPool(), 300, types.I8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := v.(*constant.Int)
	if c.Typ.BitSize != 8 || c.X.Int64() != 44 {
		t.Fatalf("expected i8 44 (300 mod 256), got %v %v", c.Typ, c.X)
	}
	v, err = Value(newTestPool(), -1, types.I16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := v.(*constant.Int).X.Int64(); got != 0xFFFF {
		t.Fatalf("negative values must wrap to the target width, got %d", got)
	}
}

func TestFloatToIntTruncatesToTargetWidth(t *testing.T) {
	v, err := Value(newTestPool(), 260.9, types.I8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := v.(*constant.Int)
	if c.Typ.BitSize != 8 || c.X.Int64() != 4 {
		t.Fatalf("expected i8 4 (260 mod 256), got %v %v", c.Typ, c.X)
	}
}

func TestIntDefaultsToNativeWidth(t *testing.T) {
	v, err := Value(newTestPool(), 9, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := v.(*constant.Int)
	if c.Typ.BitSize != 64 {
		t.Fatalf("default integer width must be 64, got %d", c.Typ.BitSize)
	}
}

func TestZeroBecomesNullPointer(t *testing.T) {
	pt := types.NewPointer(types.I8)
	v, err := Value(newTestPool(), 0, pt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(*constant.Null); !ok {
		t.Fatalf("expected null pointer, got %T", v)
	}
}

func TestNonZeroIntRejectsPointerTarget(t *testing.T) {
	_, err := Value(newTestPool(), 3, types.NewPointer(types.I8))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestBoolCoercion(t *testing.T) {
	v, err := Value(newTestPool(), true, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := v.(*constant.Int)
	if c.Typ.BitSize != 1 || c.X.Int64() != 1 {
		t.Fatalf("expected i1 1, got %v %v", c.Typ, c.X)
	}
	v, err = Value(newTestPool(), false, types.I1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*constant.Int).X.Int64() != 0 {
		t.Fatalf("expected i1 0")
	}
}

func TestNilNeedsPointerTarget(t *testing.T) {
	v, err := Value(newTestPool(), nil, types.NewPointer(types.I32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(*constant.Null); !ok {
		t.Fatalf("expected null pointer, got %T", v)
	}
	if _, err := Value(newTestPool(), nil, nil); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("nil without pointer target must fail")
	}
}

func TestArrayLiteral(t *testing.T) {
	v, err := Value(newTestPool(), []any{1, 2, 3}, types.NewArray(3, types.I32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := v.(*constant.Array)
	if !ok {
		t.Fatalf("expected array constant, got %T", v)
	}
	if len(arr.Elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Elems))
	}
	if arr.Elems[0].(*constant.Int).Typ.BitSize != 32 {
		t.Fatalf("elements must take the expected element type")
	}
}

func TestArrayLiteralInfersElementType(t *testing.T) {
	v, err := Value(newTestPool(), []any{true, false}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr := v.(*constant.Array)
	if arr.Elems[1].(*constant.Int).Typ.BitSize != 1 {
		t.Fatalf("element type must come from the first element")
	}
}

func TestStringInterning(t *testing.T) {
	pool := newTestPool()
	a, err := Value(pool, "abc", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Value(pool, "abc", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("identical text must return the same pooled global")
	}
}

func TestStringBitCastToForeignPointer(t *testing.T) {
	pool := newTestPool()
	v, err := Value(pool, "hi", types.NewPointer(types.I8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(*constant.ExprBitCast); !ok {
		t.Fatalf("expected bitcast to target pointer type, got %T", v)
	}
}

func TestUnsupportedValueFails(t *testing.T) {
	_, err := Value(newTestPool(), struct{}{}, types.I32)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(0) || !IsZero(int64(0)) || !IsZero(0.0) {
		t.Fatalf("host zeros must be detected")
	}
	if !IsZero(constant.NewInt(types.I32, 0)) {
		t.Fatalf("constant zero must be detected")
	}
	if IsZero(constant.NewInt(types.I32, 4)) || IsZero(2) || IsZero("0") {
		t.Fatalf("non-zero values must not be detected")
	}
}
