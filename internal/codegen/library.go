package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"

	"loom/internal/diag"
)

const defaultLibraryName = "lib"

// Library is a namespace of functions, macros, globals and pooled string
// constants. It owns every symbol it declares; Generators hold non-owning
// references back to it for symbol resolution and string interning.
type Library struct {
	name   string
	vis    Visibility
	prefix PrefixPolicy

	funcs   map[string]*Function
	macros  map[string]*Macro
	globals map[string]*Global

	// strings is keyed by content, not name.
	strings map[string]*ir.Global
	strSeq  int

	diags *diag.Bag
	rep   diag.Reporter
}

// Options configures a new library. Zero values select the documented
// defaults (public visibility, smart prefixing).
type Options struct {
	Visibility Visibility
	Prefix     PrefixPolicy
}

// New constructs a library. Invalid options never fail construction; they
// fall back to the defaults and leave a warning diagnostic behind.
func New(name string, opts Options) *Library {
	bag := diag.NewBag(256)
	l := &Library{
		name:    name,
		vis:     opts.Visibility,
		prefix:  opts.Prefix,
		funcs:   make(map[string]*Function),
		macros:  make(map[string]*Macro),
		globals: make(map[string]*Global),
		strings: make(map[string]*ir.Global),
		diags:   bag,
		rep:     diag.BagReporter{Bag: bag},
	}
	if l.name == "" {
		l.name = defaultLibraryName
	}
	if !l.vis.valid() {
		l.rep.Report(diag.LibInvalidVisibility, diag.SevWarning, l.name,
			fmt.Sprintf("invalid visibility %d, using %s", opts.Visibility, Public))
		l.vis = Public
	}
	if !l.prefix.valid() {
		l.rep.Report(diag.LibInvalidPrefix, diag.SevWarning, l.name,
			fmt.Sprintf("invalid prefix policy %d, using %s", opts.Prefix, PrefixSmart))
		l.prefix = PrefixSmart
	}
	return l
}

// Name returns the library name.
func (l *Library) Name() string { return l.name }

// Diagnostics returns the library's collected soft-failure diagnostics.
func (l *Library) Diagnostics() *diag.Bag { return l.diags }

// SetVisibility changes the default visibility applied to new declarations.
// Invalid values are ignored with a diagnostic.
func (l *Library) SetVisibility(v Visibility) {
	if !v.valid() {
		l.rep.Report(diag.LibInvalidVisibility, diag.SevWarning, l.name,
			fmt.Sprintf("invalid visibility %d ignored", v))
		return
	}
	l.vis = v
}

// Visibility returns the current default visibility.
func (l *Library) Visibility() Visibility { return l.vis }

// SetSymbolVisibility retroactively relinks one named symbol. Unknown names
// and invalid visibilities are soft failures.
func (l *Library) SetSymbolVisibility(name string, v Visibility) {
	if !v.valid() {
		l.rep.Report(diag.LibInvalidVisibility, diag.SevWarning, name,
			fmt.Sprintf("invalid visibility %d ignored", v))
		return
	}
	if f, ok := l.funcs[name]; ok {
		f.vis = v
		f.fn.Linkage = v.linkage()
		return
	}
	if m, ok := l.macros[name]; ok {
		m.vis = v
		return
	}
	if g, ok := l.globals[name]; ok {
		g.vis = v
		g.g.Linkage = v.linkage()
		return
	}
	l.rep.Report(diag.LibUnknownSymbol, diag.SevWarning, name, "no such symbol to relink")
}

// WithVisibility runs block with a temporary default visibility, restoring
// the previous default afterwards.
func (l *Library) WithVisibility(v Visibility, block func(*Library)) {
	prev := l.vis
	l.SetVisibility(v)
	block(l)
	l.vis = prev
}

// InternString returns the pooled global for text, creating it on first
// use. Lookup is by content, never by name.
func (l *Library) InternString(text string) *ir.Global {
	if g, ok := l.strings[text]; ok {
		return g
	}
	g := ir.NewGlobalDef(fmt.Sprintf("%s.str.%d", l.name, l.strSeq), constant.NewCharArrayFromString(text+"\x00"))
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	g.UnnamedAddr = enum.UnnamedAddrUnnamedAddr
	l.strSeq++
	l.strings[text] = g
	return g
}

// Functions returns the function map; private entries are included only
// when requested. The result is a copy.
func (l *Library) Functions(includePrivate bool) map[string]*Function {
	out := make(map[string]*Function, len(l.funcs))
	for name, f := range l.funcs {
		if f.vis == Private && !includePrivate {
			continue
		}
		out[name] = f
	}
	return out
}

// Macros returns the macro map, filtered like Functions.
func (l *Library) Macros(includePrivate bool) map[string]*Macro {
	out := make(map[string]*Macro, len(l.macros))
	for name, m := range l.macros {
		if m.vis == Private && !includePrivate {
			continue
		}
		out[name] = m
	}
	return out
}

// Globals returns the global map, filtered like Functions.
func (l *Library) Globals(includePrivate bool) map[string]*Global {
	out := make(map[string]*Global, len(l.globals))
	for name, g := range l.globals {
		if g.vis == Private && !includePrivate {
			continue
		}
		out[name] = g
	}
	return out
}

// Strings returns a copy of the content-keyed string pool.
func (l *Library) Strings() map[string]*ir.Global {
	out := make(map[string]*ir.Global, len(l.strings))
	for text, g := range l.strings {
		out[text] = g
	}
	return out
}

// SymbolKind tags the result of Resolve.
type SymbolKind uint8

const (
	SymbolNone SymbolKind = iota
	SymbolMacro
	SymbolFunc
	SymbolGlobal
)

// Symbol is the result of an explicit name lookup.
type Symbol struct {
	Kind   SymbolKind
	Macro  *Macro
	Func   *Function
	Global *Global
}

// Resolve looks name up in declaration-priority order: macros first, then
// functions (including private ones, since resolution happens inside the
// owning library), then globals.
func (l *Library) Resolve(name string) Symbol {
	if m, ok := l.macros[name]; ok {
		return Symbol{Kind: SymbolMacro, Macro: m}
	}
	if f, ok := l.funcs[name]; ok {
		return Symbol{Kind: SymbolFunc, Func: f}
	}
	if g, ok := l.globals[name]; ok {
		return Symbol{Kind: SymbolGlobal, Global: g}
	}
	return Symbol{Kind: SymbolNone}
}
