// Package sample builds the demonstration libraries shipped with the loom
// CLI. Each builder exercises the generator surface end to end, so the
// samples double as living documentation for the API.
package sample

import (
	"fmt"

	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"loom/internal/codegen"
)

// ErrUnknownTarget reports a target name with no registered builder.
var ErrUnknownTarget = fmt.Errorf("unknown sample target")

var builders = map[string]func() (*codegen.Library, error){
	"math":    Math,
	"strings": Strings,
	"app":     App,
}

// Names lists the available sample targets.
func Names() []string {
	return []string{"app", "math", "strings"}
}

// Build constructs the sample library registered under name.
func Build(name string) (*codegen.Library, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
	}
	return b()
}

// Math builds an integer arithmetic library: a squaring macro, a private
// doubling helper, and public abs, clamp, factorial and sumsq functions.
func Math() (*codegen.Library, error) {
	l := codegen.New("math", codegen.Options{})

	if _, err := l.NewMacro("square", 1, func(g *codegen.Generator, args []value.Value) (value.Value, error) {
		return g.Mul(args[0], args[0])
	}); err != nil {
		return nil, err
	}

	var errDecl error
	l.WithVisibility(codegen.Private, func(l *codegen.Library) {
		_, errDecl = l.NewFunc("double", types.I64, []codegen.Param{{Name: "x", Type: types.I64}}, func(g *codegen.Generator) error {
			v, err := g.Add(g.Func().Params()[0], g.Func().Params()[0])
			if err != nil {
				return err
			}
			return g.Ret(v)
		})
	})
	if errDecl != nil {
		return nil, errDecl
	}

	if _, err := l.NewConstant("answer", types.I64, 42); err != nil {
		return nil, err
	}
	if _, err := l.NewGlobal("last_result", types.I64, 0); err != nil {
		return nil, err
	}

	if _, err := l.NewFunc("abs", types.I64, []codegen.Param{{Name: "x", Type: types.I64}}, func(g *codegen.Generator) error {
		x := g.Func().Params()[0]
		neg, err := g.Cmp(codegen.PredLT, x, 0)
		if err != nil {
			return err
		}
		return g.Cond(neg,
			func(tg *codegen.Generator) error {
				v, err := tg.Sub(0, x)
				if err != nil {
					return err
				}
				return tg.Ret(v)
			},
			func(eg *codegen.Generator) error { return eg.Ret(x) },
			nil)
	}); err != nil {
		return nil, err
	}

	if _, err := l.NewFunc("clamp", types.I64, []codegen.Param{
		{Name: "x", Type: types.I64},
		{Name: "lo", Type: types.I64},
		{Name: "hi", Type: types.I64},
	}, func(g *codegen.Generator) error {
		x, lo, hi := g.Func().Params()[0], g.Func().Params()[1], g.Func().Params()[2]
		below, err := g.Cmp(codegen.PredLT, x, lo)
		if err != nil {
			return err
		}
		if err := g.CondRet(below, lo, nil); err != nil {
			return err
		}
		above, err := g.Cmp(codegen.PredGT, x, hi)
		if err != nil {
			return err
		}
		if err := g.CondRet(above, hi, nil); err != nil {
			return err
		}
		return g.Ret(x)
	}); err != nil {
		return nil, err
	}

	if _, err := l.NewFunc("factorial", types.I64, []codegen.Param{{Name: "n", Type: types.I64}}, func(g *codegen.Generator) error {
		n := g.Func().Params()[0]
		acc, err := g.Alloca(types.I64)
		if err != nil {
			return err
		}
		if err := g.Store(1, acc); err != nil {
			return err
		}
		_, err = g.Loop(codegen.LoopSpec{
			Vars: []codegen.LoopVar{{Name: "i", Init: 1, Type: types.I64}},
			Cond: func(cg *codegen.Generator, vals []value.Value) (value.Value, error) {
				return cg.Cmp(codegen.PredLE, vals[0], n)
			},
			Step: func(sg *codegen.Generator, ptrs []value.Value) error {
				i, err := sg.Load(ptrs[0])
				if err != nil {
					return err
				}
				next, err := sg.Add(i, 1)
				if err != nil {
					return err
				}
				return sg.Store(next, ptrs[0])
			},
			Body: func(bg *codegen.Generator, vals []value.Value) error {
				cur, err := bg.Load(acc)
				if err != nil {
					return err
				}
				prod, err := bg.Mul(cur, vals[0])
				if err != nil {
					return err
				}
				return bg.Store(prod, acc)
			},
		})
		if err != nil {
			return err
		}
		out, err := g.Load(acc)
		if err != nil {
			return err
		}
		return g.Ret(out)
	}); err != nil {
		return nil, err
	}

	if _, err := l.NewFunc("sumsq", types.I64, []codegen.Param{{Name: "n", Type: types.I64}}, func(g *codegen.Generator) error {
		n := g.Func().Params()[0]
		acc, err := g.Alloca(types.I64)
		if err != nil {
			return err
		}
		if err := g.Store(0, acc); err != nil {
			return err
		}
		_, err = g.Loop(codegen.LoopSpec{
			Vars: []codegen.LoopVar{{Name: "i", Init: 1, Type: types.I64}},
			Cond: func(cg *codegen.Generator, vals []value.Value) (value.Value, error) {
				return cg.Cmp(codegen.PredLE, vals[0], n)
			},
			Step: func(sg *codegen.Generator, ptrs []value.Value) error {
				i, err := sg.Load(ptrs[0])
				if err != nil {
					return err
				}
				next, err := sg.Add(i, 1)
				if err != nil {
					return err
				}
				return sg.Store(next, ptrs[0])
			},
			Body: func(bg *codegen.Generator, vals []value.Value) error {
				sq, err := bg.Invoke("square", vals[0])
				if err != nil {
					return err
				}
				cur, err := bg.Load(acc)
				if err != nil {
					return err
				}
				sum, err := bg.Add(cur, sq)
				if err != nil {
					return err
				}
				return bg.Store(sum, acc)
			},
		})
		if err != nil {
			return err
		}
		out, err := g.Load(acc)
		if err != nil {
			return err
		}
		return g.Ret(out)
	}); err != nil {
		return nil, err
	}

	if _, err := l.NewFunc("quadruple", types.I64, []codegen.Param{{Name: "x", Type: types.I64}}, func(g *codegen.Generator) error {
		once, err := g.Invoke("double", g.Func().Params()[0])
		if err != nil {
			return err
		}
		twice, err := g.Invoke("double", once)
		if err != nil {
			return err
		}
		return g.Ret(twice)
	}); err != nil {
		return nil, err
	}

	return l, nil
}

// Strings builds a library around the pooled string constants: libc externs
// plus a greeting entry point that routes literals through the pool.
func Strings() (*codegen.Library, error) {
	l := codegen.New("strings", codegen.Options{})
	bytePtr := types.NewPointer(types.I8)

	puts, err := l.Extern("puts", types.I32, []codegen.Param{{Name: "s", Type: bytePtr}})
	if err != nil {
		return nil, err
	}
	printf, err := l.Extern("printf", types.I32, []codegen.Param{{Name: "format", Type: bytePtr}})
	if err != nil {
		return nil, err
	}
	printf.IR().Sig.Variadic = true

	if _, err := l.NewFunc("greet", types.Void, nil, func(g *codegen.Generator) error {
		if _, err := g.Call(puts, "hello from loom"); err != nil {
			return err
		}
		return g.Ret(nil)
	}); err != nil {
		return nil, err
	}

	if _, err := l.NewFunc("greet_twice", types.Void, nil, func(g *codegen.Generator) error {
		// Same literal twice: the pool hands back one global.
		for i := 0; i < 2; i++ {
			if _, err := g.Invoke("puts", "hello again"); err != nil {
				return err
			}
		}
		return g.Ret(nil)
	}); err != nil {
		return nil, err
	}

	return l, nil
}

// App builds the composite target: a fresh library importing both math and
// strings, with a main that drives them.
func App() (*codegen.Library, error) {
	mathLib, err := Math()
	if err != nil {
		return nil, err
	}
	strLib, err := Strings()
	if err != nil {
		return nil, err
	}
	l := codegen.New("app", codegen.Options{})
	if err := l.Import(mathLib); err != nil {
		return nil, err
	}
	if err := l.Import(strLib); err != nil {
		return nil, err
	}
	if _, err := l.NewFunc("main", types.I32, nil, func(g *codegen.Generator) error {
		if _, err := g.Invoke("greet"); err != nil {
			return err
		}
		fact, err := g.Invoke("factorial", 5)
		if err != nil {
			return err
		}
		clamped, err := g.Invoke("clamp", fact, 0, 100)
		if err != nil {
			return err
		}
		out, err := g.Trunc(clamped, types.I32)
		if err != nil {
			return err
		}
		return g.Ret(out)
	}); err != nil {
		return nil, err
	}
	return l, nil
}

// Program assembles the named targets into one program. Every library is
// registered so late imports by name keep working.
func Program(name, triple string, targets []string) (*codegen.Program, error) {
	p := codegen.NewProgram(name)
	if triple != "" {
		p.SetTargetTriple(triple)
	}
	for _, t := range targets {
		lib, err := Build(t)
		if err != nil {
			return nil, err
		}
		if err := p.Add(lib); err != nil {
			return nil, err
		}
	}
	return p, nil
}
