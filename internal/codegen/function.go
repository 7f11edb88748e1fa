package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// Param declares one function parameter.
type Param struct {
	Name string
	Type types.Type
}

// Function is a named typed callable owned by exactly one library. The
// entry block exists from construction; the return block and spill slot are
// created lazily, at most once, by the first return-family call that needs
// them.
type Function struct {
	name string
	fn   *ir.Func
	lib  *Library
	vis  Visibility

	entry    *ir.Block
	retBlock *ir.Block
	retSlot  *ir.InstAlloca

	blockSeq int
}

func newFunction(lib *Library, name string, ret types.Type, params []Param, vis Visibility) *Function {
	irParams := make([]*ir.Param, len(params))
	for i, p := range params {
		irParams[i] = ir.NewParam(p.Name, p.Type)
	}
	fn := ir.NewFunc(name, ret, irParams...)
	fn.Linkage = vis.linkage()
	f := &Function{
		name: name,
		fn:   fn,
		lib:  lib,
		vis:  vis,
	}
	f.entry = f.newBlock("entry")
	return f
}

// Name returns the function name.
func (f *Function) Name() string { return f.name }

// IR exposes the underlying llir function for assembly and inspection.
func (f *Function) IR() *ir.Func { return f.fn }

// Visibility returns the function's current visibility.
func (f *Function) Visibility() Visibility { return f.vis }

// Entry returns the entry block.
func (f *Function) Entry() *ir.Block { return f.entry }

// ReturnType returns the declared return type.
func (f *Function) ReturnType() types.Type { return f.fn.Sig.RetType }

// Params returns the declared parameters as typed values.
func (f *Function) Params() []*ir.Param { return f.fn.Params }

func (f *Function) isVoid() bool {
	_, ok := f.fn.Sig.RetType.(*types.VoidType)
	return ok
}

// newBlock appends a fresh block with a stable, readable label.
func (f *Function) newBlock(label string) *ir.Block {
	b := f.fn.NewBlock(fmt.Sprintf("%s.%d", label, f.blockSeq))
	f.blockSeq++
	return b
}

// ensureReturn materializes the shared return block, and for non-void
// functions the spill slot feeding it. Both are created at most once no
// matter how many return-family calls race across branch arms.
func (f *Function) ensureReturn() (*ir.Block, *ir.InstAlloca) {
	if f.retBlock != nil {
		return f.retBlock, f.retSlot
	}
	f.retBlock = f.newBlock("ret")
	if f.isVoid() {
		f.retBlock.NewRet(nil)
		return f.retBlock, nil
	}
	f.retSlot = ir.NewAlloca(f.fn.Sig.RetType)
	// The slot lives at the top of the entry block so that every store in
	// any arm dominates the final load.
	f.entry.Insts = append([]ir.Instruction{f.retSlot}, f.entry.Insts...)
	out := f.retBlock.NewLoad(f.fn.Sig.RetType, f.retSlot)
	f.retBlock.NewRet(out)
	return f.retBlock, f.retSlot
}
