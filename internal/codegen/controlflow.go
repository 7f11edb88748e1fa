package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Cond lowers a structured conditional onto the block graph. The then arm
// (and the else arm, when given) each build inside a fresh generator; arms
// that do not terminate themselves are branched to a shared exit block.
// When the caller supplies exit the enclosing generator finishes, otherwise
// it continues building in the shared exit.
func (g *Generator) Cond(cond any, then func(*Generator) error, els func(*Generator) error, exit *ir.Block) error {
	if g.finished {
		return nil
	}
	if then == nil {
		return fmt.Errorf("%w: conditional needs a then body", ErrArgument)
	}
	cv, err := g.value(cond, types.I1)
	if err != nil {
		return err
	}

	thenBlk := g.fn.newBlock("then")
	thenGen := g.child(thenBlk)
	if err := then(thenGen); err != nil {
		return err
	}

	var elseBlk *ir.Block
	var elseGen *Generator
	if els != nil {
		elseBlk = g.fn.newBlock("else")
		elseGen = g.child(elseBlk)
		if err := els(elseGen); err != nil {
			return err
		}
	}

	supplied := exit != nil
	exitBlk := exit
	if exitBlk == nil {
		if !thenGen.finished && thenGen.cur == thenBlk && blockEmpty(thenBlk) {
			// The then arm emitted nothing; reuse its block as the exit
			// instead of leaving a dangling one.
			exitBlk = thenBlk
		} else {
			exitBlk = g.fn.newBlock("endif")
		}
	}

	// Every arm generator finishes exactly once before the branch below.
	if !thenGen.finished {
		if thenGen.cur == exitBlk {
			thenGen.finish()
		} else {
			thenGen.br(exitBlk)
		}
	}
	if elseGen != nil && !elseGen.finished {
		if elseGen.cur == exitBlk {
			elseGen.finish()
		} else {
			elseGen.br(exitBlk)
		}
	}

	falseTarget := exitBlk
	if elseBlk != nil {
		falseTarget = elseBlk
	}
	g.cur.NewCondBr(cv, thenBlk, falseTarget)

	if supplied {
		g.finish()
		return nil
	}
	g.cur = exitBlk
	return nil
}

// LoopVar seeds one loop variable: the initial value is stored into a fresh
// stack slot before the loop head. Type may be nil to take the converted
// value's type.
type LoopVar struct {
	Name string
	Init any
	Type types.Type
}

// LoopSpec describes a structured loop. Cond, Step and Body are each
// optional, but at least one must be present. Cond and Body receive the
// loaded variable values; Step receives the slot pointers for
// read-modify-write. Exit, when given, receives control after the loop and
// finishes the enclosing generator.
type LoopSpec struct {
	Vars []LoopVar
	Cond func(g *Generator, vals []value.Value) (value.Value, error)
	Step func(g *Generator, ptrs []value.Value) error
	Body func(g *Generator, vals []value.Value) error
	Exit *ir.Block
}

// Loop lowers a structured loop and returns the variable slot pointers.
// Blocks materialize only for the callbacks that exist; absent parts
// collapse onto the nearest present block. A loop without a compare has no
// implicit edge to the exit block: it can only be left through an explicit
// branch or return inside a callback.
func (g *Generator) Loop(spec LoopSpec) ([]value.Value, error) {
	if g.finished {
		return nil, nil
	}
	if spec.Cond == nil && spec.Step == nil && spec.Body == nil {
		return nil, fmt.Errorf("%w: loop needs at least one of compare, step or body", ErrArgument)
	}

	ptrs := make([]value.Value, len(spec.Vars))
	elems := make([]types.Type, len(spec.Vars))
	for i, v := range spec.Vars {
		iv, err := g.value(v.Init, v.Type)
		if err != nil {
			return nil, err
		}
		slot := g.cur.NewAlloca(iv.Type())
		if v.Name != "" {
			slot.SetName(v.Name)
		}
		g.cur.NewStore(iv, slot)
		ptrs[i] = slot
		elems[i] = iv.Type()
	}

	// The first present part becomes the loop head. Reuse the current
	// block when it is still empty; otherwise reach the head by an
	// explicit branch.
	var head, condBlk, bodyBlk, stepBlk *ir.Block
	place := func(label string) *ir.Block {
		if head == nil {
			if blockEmpty(g.cur) {
				head = g.cur
			} else {
				head = g.fn.newBlock(label)
			}
			return head
		}
		return g.fn.newBlock(label)
	}
	if spec.Cond != nil {
		condBlk = place("loop.cond")
	}
	if spec.Body != nil {
		bodyBlk = place("loop.body")
	}
	if spec.Step != nil {
		stepBlk = place("loop.step")
	}
	if head != g.cur {
		g.cur.NewBr(head)
	}

	supplied := spec.Exit != nil
	exitBlk := spec.Exit
	if exitBlk == nil {
		exitBlk = g.fn.newBlock("loop.end")
	}

	stepRef := stepBlk
	if stepRef == nil {
		stepRef = head
	}

	if spec.Cond != nil {
		cg := newGenerator(g.lib, g.fn, condBlk)
		cg.step = stepRef
		vals := loadVars(cg, ptrs, elems)
		cv, err := spec.Cond(cg, vals)
		if err != nil {
			return nil, err
		}
		if !cg.finished {
			target := bodyBlk
			if target == nil {
				target = stepBlk
			}
			if target == nil {
				target = condBlk
			}
			cg.cur.NewCondBr(cv, target, exitBlk)
			cg.finish()
		}
	}

	if spec.Body != nil {
		bg := newGenerator(g.lib, g.fn, bodyBlk)
		bg.step = stepRef
		vals := loadVars(bg, ptrs, elems)
		if err := spec.Body(bg, vals); err != nil {
			return nil, err
		}
		if !bg.finished {
			next := stepBlk
			if next == nil {
				next = head
			}
			bg.br(next)
		}
	}

	if spec.Step != nil {
		sg := newGenerator(g.lib, g.fn, stepBlk)
		sg.step = stepBlk
		if err := spec.Step(sg, ptrs); err != nil {
			return nil, err
		}
		if !sg.finished {
			sg.br(head)
		}
	}

	if supplied {
		g.finish()
		return ptrs, nil
	}
	g.cur = exitBlk
	return ptrs, nil
}

func loadVars(g *Generator, ptrs []value.Value, elems []types.Type) []value.Value {
	vals := make([]value.Value, len(ptrs))
	for i := range ptrs {
		vals[i] = g.cur.NewLoad(elems[i], ptrs[i])
	}
	return vals
}
