package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"loom/internal/convert"
)

// Generator appends instructions to one current basic block and rewires
// that binding as structured control flow unfolds. It is transient: it
// never outlives its function, and several generators may coexist for
// different blocks of the same function.
//
// Once finished, every mutating call is a silent no-op. That models code
// following a terminator: unreachable, but legal to write.
type Generator struct {
	lib *Library
	fn  *Function
	cur *ir.Block

	finished bool

	// step points at the innermost loop's increment block while a loop
	// body or compare callback is being built.
	step *ir.Block
}

func newGenerator(lib *Library, fn *Function, block *ir.Block) *Generator {
	return &Generator{lib: lib, fn: fn, cur: block}
}

// child spawns a generator for another block of the same function,
// inheriting the loop step reference.
func (g *Generator) child(block *ir.Block) *Generator {
	return &Generator{lib: g.lib, fn: g.fn, cur: block, step: g.step}
}

// Library returns the owning library.
func (g *Generator) Library() *Library { return g.lib }

// Func returns the function under construction.
func (g *Generator) Func() *Function { return g.fn }

// Block returns the current basic block.
func (g *Generator) Block() *ir.Block { return g.cur }

// Finished reports whether a terminator has been placed on this
// generator's path.
func (g *Generator) Finished() bool { return g.finished }

// StepBlock returns the innermost loop's increment block, or nil outside
// loop construction. Host code may branch to it explicitly.
func (g *Generator) StepBlock() *ir.Block { return g.step }

func (g *Generator) finish() { g.finished = true }

// value routes host values through the coercion layer using the library's
// string pool.
func (g *Generator) value(v any, want types.Type) (value.Value, error) {
	return convert.Value(g.lib, v, want)
}

func blockEmpty(b *ir.Block) bool {
	return len(b.Insts) == 0 && b.Term == nil
}

// Br emits an unconditional branch and finishes the generator. No-op when
// already finished.
func (g *Generator) Br(target *ir.Block) error {
	if target == nil {
		if g.finished {
			return nil
		}
		return fmt.Errorf("%w: branch needs a target block", ErrArgument)
	}
	g.br(target)
	return nil
}

// br is the internal merge edge: the target is always a block the control
// flow lowering just allocated, so unlike Br it cannot fail.
func (g *Generator) br(target *ir.Block) {
	if g.finished {
		return
	}
	g.cur.NewBr(target)
	g.finish()
}

// Ret returns through the function's shared return block, creating it on
// first use. Void functions emit a direct void return instead. Finishes the
// generator.
func (g *Generator) Ret(v any) error {
	if g.finished {
		return nil
	}
	if g.fn.isVoid() {
		if v != nil {
			return fmt.Errorf("%w: void function cannot return a value", ErrArgument)
		}
		g.cur.NewRet(nil)
		g.finish()
		return nil
	}
	retBlock, slot := g.fn.ensureReturn()
	if v != nil {
		cv, err := g.value(v, g.fn.ReturnType())
		if err != nil {
			return err
		}
		g.cur.NewStore(cv, slot)
	}
	g.cur.NewBr(retBlock)
	g.finish()
	return nil
}

// CondRet conditionally returns through the shared return block. When cont
// is supplied the generator finishes; otherwise building continues in a
// fresh continuation block.
func (g *Generator) CondRet(cond any, v any, cont *ir.Block) error {
	if g.finished {
		return nil
	}
	cv, err := g.value(cond, types.I1)
	if err != nil {
		return err
	}
	retBlock, slot := g.fn.ensureReturn()
	if v != nil {
		if slot == nil {
			return fmt.Errorf("%w: void function cannot return a value", ErrArgument)
		}
		rv, err := g.value(v, g.fn.ReturnType())
		if err != nil {
			return err
		}
		g.cur.NewStore(rv, slot)
	}
	supplied := cont != nil
	if cont == nil {
		cont = g.fn.newBlock("cont")
	}
	g.cur.NewCondBr(cv, retBlock, cont)
	if supplied {
		g.finish()
		return nil
	}
	g.cur = cont
	return nil
}

// DirectRet emits a plain return with no merge block. A non-void function
// must supply a value.
func (g *Generator) DirectRet(v any) error {
	if g.finished {
		return nil
	}
	if v == nil {
		if !g.fn.isVoid() {
			return fmt.Errorf("%w: function %q returns %v, value required", ErrArgument, g.fn.name, g.fn.ReturnType())
		}
		g.cur.NewRet(nil)
		g.finish()
		return nil
	}
	cv, err := g.value(v, g.fn.ReturnType())
	if err != nil {
		return err
	}
	g.cur.NewRet(cv)
	g.finish()
	return nil
}

// SetRet stages a return value into the shared slot without branching or
// finishing. A later Ret or CondRet performs the transfer.
func (g *Generator) SetRet(v any) error {
	if g.finished {
		return nil
	}
	if g.fn.isVoid() {
		return fmt.Errorf("%w: void function has no return slot", ErrArgument)
	}
	if v == nil {
		return nil
	}
	_, slot := g.fn.ensureReturn()
	cv, err := g.value(v, g.fn.ReturnType())
	if err != nil {
		return err
	}
	g.cur.NewStore(cv, slot)
	return nil
}

// Invoke resolves name against the library and acts on the match: macros
// inline, functions are called with coerced arguments, globals hand back
// their storage.
func (g *Generator) Invoke(name string, args ...any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	sym := g.lib.Resolve(name)
	switch sym.Kind {
	case SymbolMacro:
		m := sym.Macro
		if len(args) != m.arity {
			return nil, fmt.Errorf("%w: macro %q wants %d argument(s), got %d", ErrArgument, name, m.arity, len(args))
		}
		vals := make([]value.Value, len(args))
		for i, a := range args {
			cv, err := g.value(a, nil)
			if err != nil {
				return nil, err
			}
			vals[i] = cv
		}
		return m.body(g, vals)
	case SymbolFunc:
		return g.Call(sym.Func, args...)
	case SymbolGlobal:
		return sym.Global.g, nil
	}
	return nil, fmt.Errorf("%w: %q in library %q", ErrMethodNotFound, name, g.lib.name)
}

// Call emits a call with every argument coerced to the declared parameter
// type.
func (g *Generator) Call(fn *Function, args ...any) (value.Value, error) {
	if g.finished {
		return nil, nil
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: call needs a function", ErrArgument)
	}
	params := fn.fn.Params
	if len(args) != len(params) {
		return nil, fmt.Errorf("%w: function %q wants %d argument(s), got %d", ErrArgument, fn.name, len(params), len(args))
	}
	vals := make([]value.Value, len(args))
	for i, a := range args {
		cv, err := g.value(a, params[i].Typ)
		if err != nil {
			return nil, err
		}
		vals[i] = cv
	}
	return g.cur.NewCall(fn.fn, vals...), nil
}
