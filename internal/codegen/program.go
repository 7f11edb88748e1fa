package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
)

// Program composes libraries into one IR module. Libraries are registered
// with the program's registry when added, so later members can import
// earlier ones by name.
type Program struct {
	name   string
	reg    *Registry
	libs   []*Library
	triple string
}

func NewProgram(name string) *Program {
	return &Program{name: name, reg: NewRegistry()}
}

// Registry returns the program's library registry.
func (p *Program) Registry() *Registry { return p.reg }

// SetTargetTriple sets the target triple stamped onto assembled modules.
func (p *Program) SetTargetTriple(triple string) { p.triple = triple }

// Add registers a library as a program member.
func (p *Program) Add(l *Library) error {
	if err := p.reg.Register(l); err != nil {
		return fmt.Errorf("program %q: %w", p.name, err)
	}
	p.libs = append(p.libs, l)
	return nil
}

// Assemble collects every member library's symbols into a fresh module.
// Functions and globals shared across libraries via import appear exactly
// once. Private definitions are emitted too (with internal linkage) so
// calls from public functions stay resolvable; only the public symbol
// tables are meant for consumers, and macros never cross this boundary.
func (p *Program) Assemble() *ir.Module {
	m := ir.NewModule()
	m.SourceFilename = p.name
	if p.triple != "" {
		m.TargetTriple = p.triple
	}

	seenFuncs := make(map[*ir.Func]bool)
	seenGlobals := make(map[*ir.Global]bool)

	for _, lib := range p.libs {
		for _, name := range sortedKeys(lib.funcs) {
			f := lib.funcs[name]
			if seenFuncs[f.fn] {
				continue
			}
			seenFuncs[f.fn] = true
			m.Funcs = append(m.Funcs, f.fn)
		}
		for _, name := range sortedKeys(lib.globals) {
			g := lib.globals[name]
			if seenGlobals[g.g] {
				continue
			}
			seenGlobals[g.g] = true
			m.Globals = append(m.Globals, g.g)
		}
		for _, text := range sortedKeys(lib.strings) {
			g := lib.strings[text]
			if seenGlobals[g] {
				continue
			}
			seenGlobals[g] = true
			m.Globals = append(m.Globals, g)
		}
	}
	return m
}
