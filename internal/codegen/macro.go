package codegen

import "github.com/llir/llvm/ir/value"

// MacroBody receives the invoking generator and the already-coerced
// positional arguments. Whatever it emits lands in the caller's blocks.
type MacroBody func(g *Generator, args []value.Value) (value.Value, error)

// Macro is a named deferred body inlined into the caller's generator. It
// carries library-level visibility but no IR linkage and never becomes a
// callable symbol.
type Macro struct {
	name  string
	arity int
	body  MacroBody
	vis   Visibility
}

// Name returns the macro name.
func (m *Macro) Name() string { return m.name }

// Arity returns the exact number of arguments the macro accepts.
func (m *Macro) Arity() int { return m.arity }

// Visibility returns the macro's current visibility.
func (m *Macro) Visibility() Visibility { return m.vis }
