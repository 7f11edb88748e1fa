package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"loom/internal/convert"
)

// binaryOperands coerces both operands, resolving the shared type from the
// left one.
func (g *Generator) binaryOperands(x, y any) (value.Value, value.Value, error) {
	xv, err := g.value(x, nil)
	if err != nil {
		return nil, nil, err
	}
	yv, err := g.value(y, xv.Type())
	if err != nil {
		return nil, nil, err
	}
	return xv, yv, nil
}

func isFloat(t types.Type) bool {
	_, ok := t.(*types.FloatType)
	return ok
}

// Add emits an integer or float addition depending on the resolved type.
func (g *Generator) Add(x, y any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	if isFloat(xv.Type()) {
		return g.cur.NewFAdd(xv, yv), nil
	}
	return g.cur.NewAdd(xv, yv), nil
}

// Sub emits an integer or float subtraction.
func (g *Generator) Sub(x, y any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	if isFloat(xv.Type()) {
		return g.cur.NewFSub(xv, yv), nil
	}
	return g.cur.NewSub(xv, yv), nil
}

// Mul emits an integer or float multiplication.
func (g *Generator) Mul(x, y any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	if isFloat(xv.Type()) {
		return g.cur.NewFMul(xv, yv), nil
	}
	return g.cur.NewMul(xv, yv), nil
}

// Div emits a signed (or float) division. A statically known zero divisor
// fails before anything is emitted.
func (g *Generator) Div(x, y any) (value.Value, error) {
	return g.div(x, y, false)
}

// DivUnsigned is Div with unsigned integer semantics.
func (g *Generator) DivUnsigned(x, y any) (value.Value, error) {
	return g.div(x, y, true)
}

func (g *Generator) div(x, y any, unsigned bool) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	if convert.IsZero(y) {
		return nil, fmt.Errorf("%w: divisor is statically zero", ErrDivisionByZero)
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	switch {
	case isFloat(xv.Type()):
		return g.cur.NewFDiv(xv, yv), nil
	case unsigned:
		return g.cur.NewUDiv(xv, yv), nil
	default:
		return g.cur.NewSDiv(xv, yv), nil
	}
}

// Rem emits a signed (or float) remainder. A statically known zero modulus
// fails before anything is emitted.
func (g *Generator) Rem(x, y any) (value.Value, error) {
	return g.rem(x, y, false)
}

// RemUnsigned is Rem with unsigned integer semantics.
func (g *Generator) RemUnsigned(x, y any) (value.Value, error) {
	return g.rem(x, y, true)
}

func (g *Generator) rem(x, y any, unsigned bool) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	if convert.IsZero(y) {
		return nil, fmt.Errorf("%w: modulus is statically zero", ErrDivisionByZero)
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	switch {
	case isFloat(xv.Type()):
		return g.cur.NewFRem(xv, yv), nil
	case unsigned:
		return g.cur.NewURem(xv, yv), nil
	default:
		return g.cur.NewSRem(xv, yv), nil
	}
}

// And emits a bitwise and.
func (g *Generator) And(x, y any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	return g.cur.NewAnd(xv, yv), nil
}

// Or emits a bitwise or.
func (g *Generator) Or(x, y any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	return g.cur.NewOr(xv, yv), nil
}

// Xor emits a bitwise xor.
func (g *Generator) Xor(x, y any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	return g.cur.NewXor(xv, yv), nil
}

// Shl emits a left shift.
func (g *Generator) Shl(x, y any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	return g.cur.NewShl(xv, yv), nil
}

// Shr emits an arithmetic (sign-preserving) right shift.
func (g *Generator) Shr(x, y any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	return g.cur.NewAShr(xv, yv), nil
}

// ShrUnsigned emits a logical right shift.
func (g *Generator) ShrUnsigned(x, y any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	return g.cur.NewLShr(xv, yv), nil
}

// Pred names a relational comparison; the emitted predicate depends on the
// resolved operand type and signedness.
type Pred uint8

const (
	PredEQ Pred = iota
	PredNE
	PredLT
	PredLE
	PredGT
	PredGE
)

var intPreds = map[Pred][2]enum.IPred{
	PredEQ: {enum.IPredEQ, enum.IPredEQ},
	PredNE: {enum.IPredNE, enum.IPredNE},
	PredLT: {enum.IPredSLT, enum.IPredULT},
	PredLE: {enum.IPredSLE, enum.IPredULE},
	PredGT: {enum.IPredSGT, enum.IPredUGT},
	PredGE: {enum.IPredSGE, enum.IPredUGE},
}

var floatPreds = map[Pred]enum.FPred{
	PredEQ: enum.FPredOEQ,
	PredNE: enum.FPredONE,
	PredLT: enum.FPredOLT,
	PredLE: enum.FPredOLE,
	PredGT: enum.FPredOGT,
	PredGE: enum.FPredOGE,
}

// Cmp emits a comparison yielding an i1. Integer operands compare signed.
func (g *Generator) Cmp(p Pred, x, y any) (value.Value, error) {
	return g.cmp(p, x, y, false)
}

// CmpUnsigned is Cmp with unsigned integer semantics.
func (g *Generator) CmpUnsigned(p Pred, x, y any) (value.Value, error) {
	return g.cmp(p, x, y, true)
}

func (g *Generator) cmp(p Pred, x, y any, unsigned bool) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	xv, yv, err := g.binaryOperands(x, y)
	if err != nil {
		return nil, err
	}
	if isFloat(xv.Type()) {
		fp, ok := floatPreds[p]
		if !ok {
			return nil, fmt.Errorf("%w: unknown predicate %d", ErrArgument, p)
		}
		return g.cur.NewFCmp(fp, xv, yv), nil
	}
	ip, ok := intPreds[p]
	if !ok {
		return nil, fmt.Errorf("%w: unknown predicate %d", ErrArgument, p)
	}
	if unsigned {
		return g.cur.NewICmp(ip[1], xv, yv), nil
	}
	return g.cur.NewICmp(ip[0], xv, yv), nil
}

// Alloca reserves a stack slot in the current block.
func (g *Generator) Alloca(t types.Type) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	if t == nil {
		return nil, fmt.Errorf("%w: alloca needs a type", ErrArgument)
	}
	return g.cur.NewAlloca(t), nil
}

// Load reads through a pointer value.
func (g *Generator) Load(ptr any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	pv, err := g.value(ptr, nil)
	if err != nil {
		return nil, err
	}
	pt, ok := pv.Type().(*types.PointerType)
	if !ok {
		return nil, fmt.Errorf("%w: expected pointer, got %v", ErrTypeMismatch, pv.Type())
	}
	return g.cur.NewLoad(pt.ElemType, pv), nil
}

// Store writes v through ptr, coercing v to the pointee type.
func (g *Generator) Store(v, ptr any) error {
	if g.finished {
		return nil
	}
	pv, err := g.value(ptr, nil)
	if err != nil {
		return err
	}
	pt, ok := pv.Type().(*types.PointerType)
	if !ok {
		return fmt.Errorf("%w: expected pointer, got %v", ErrTypeMismatch, pv.Type())
	}
	cv, err := g.value(v, pt.ElemType)
	if err != nil {
		return err
	}
	g.cur.NewStore(cv, pv)
	return nil
}

// GEP computes an element pointer; indices are coerced to integers.
func (g *Generator) GEP(ptr any, indices ...any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	pv, err := g.value(ptr, nil)
	if err != nil {
		return nil, err
	}
	pt, ok := pv.Type().(*types.PointerType)
	if !ok {
		return nil, fmt.Errorf("%w: expected pointer, got %v", ErrTypeMismatch, pv.Type())
	}
	idx := make([]value.Value, len(indices))
	for i, raw := range indices {
		iv, err := g.value(raw, types.I32)
		if err != nil {
			return nil, err
		}
		idx[i] = iv
	}
	return g.cur.NewGetElementPtr(pt.ElemType, pv, idx...), nil
}

// BitCast reinterprets v as type t.
func (g *Generator) BitCast(v any, t types.Type) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	cv, err := g.value(v, nil)
	if err != nil {
		return nil, err
	}
	return g.cur.NewBitCast(cv, t), nil
}

// Trunc narrows an integer value to type t.
func (g *Generator) Trunc(v any, t types.Type) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	cv, err := g.value(v, nil)
	if err != nil {
		return nil, err
	}
	return g.cur.NewTrunc(cv, t), nil
}

// SExt sign-extends an integer value to type t.
func (g *Generator) SExt(v any, t types.Type) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	cv, err := g.value(v, nil)
	if err != nil {
		return nil, err
	}
	return g.cur.NewSExt(cv, t), nil
}

// ZExt zero-extends an integer value to type t.
func (g *Generator) ZExt(v any, t types.Type) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	cv, err := g.value(v, nil)
	if err != nil {
		return nil, err
	}
	return g.cur.NewZExt(cv, t), nil
}
