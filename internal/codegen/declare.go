package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"loom/internal/convert"
)

// NewFunc declares a function under the current default visibility and, when
// body is non-nil, builds it immediately with a fresh generator bound to the
// entry block.
func (l *Library) NewFunc(name string, ret types.Type, params []Param, body func(*Generator) error) (*Function, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: function needs a name", ErrArgument)
	}
	if _, ok := l.funcs[name]; ok {
		return nil, fmt.Errorf("%w: function %q already declared", ErrArgument, name)
	}
	f := newFunction(l, name, ret, params, l.vis)
	l.funcs[name] = f
	if body != nil {
		g := newGenerator(l, f, f.entry)
		if err := body(g); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Extern declares a function defined outside the program. Externs are
// always externally linked regardless of the current default visibility,
// and carry no blocks.
func (l *Library) Extern(name string, ret types.Type, params []Param) (*Function, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: extern needs a name", ErrArgument)
	}
	if _, ok := l.funcs[name]; ok {
		return nil, fmt.Errorf("%w: function %q already declared", ErrArgument, name)
	}
	irParams := make([]*ir.Param, len(params))
	for i, p := range params {
		irParams[i] = ir.NewParam(p.Name, p.Type)
	}
	fn := ir.NewFunc(name, ret, irParams...)
	fn.Linkage = enum.LinkageExternal
	f := &Function{name: name, fn: fn, lib: l, vis: Public}
	l.funcs[name] = f
	return f, nil
}

// NewMacro declares an inline macro with an exact arity.
func (l *Library) NewMacro(name string, arity int, body MacroBody) (*Macro, error) {
	if name == "" || body == nil {
		return nil, fmt.Errorf("%w: macro needs a name and a body", ErrArgument)
	}
	if arity < 0 {
		return nil, fmt.Errorf("%w: macro %q has negative arity", ErrArgument, name)
	}
	if _, ok := l.macros[name]; ok {
		return nil, fmt.Errorf("%w: macro %q already declared", ErrArgument, name)
	}
	m := &Macro{name: name, arity: arity, body: body, vis: l.vis}
	l.macros[name] = m
	return m, nil
}

// NewGlobal declares mutable global storage initialized from init, which is
// coerced to typ.
func (l *Library) NewGlobal(name string, typ types.Type, init any) (*Global, error) {
	return l.declareGlobal(name, typ, init, false)
}

// NewConstant declares an immutable global.
func (l *Library) NewConstant(name string, typ types.Type, init any) (*Global, error) {
	return l.declareGlobal(name, typ, init, true)
}

func (l *Library) declareGlobal(name string, typ types.Type, init any, immutable bool) (*Global, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: global needs a name", ErrArgument)
	}
	if _, ok := l.globals[name]; ok {
		return nil, fmt.Errorf("%w: global %q already declared", ErrArgument, name)
	}
	v, err := convert.Value(l, init, typ)
	if err != nil {
		return nil, err
	}
	c, ok := v.(constant.Constant)
	if !ok {
		return nil, fmt.Errorf("%w: initializer for %q is not a constant", ErrTypeMismatch, name)
	}
	irg := ir.NewGlobalDef(name, c)
	irg.Linkage = l.vis.linkage()
	irg.Immutable = immutable
	g := &Global{name: name, g: irg, vis: l.vis}
	l.globals[name] = g
	return g, nil
}
