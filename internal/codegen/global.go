package codegen

import "github.com/llir/llvm/ir"

// Global is named typed storage with an initializer and linkage. String
// constants are globals too, but live in the content-keyed pool instead of
// the name map.
type Global struct {
	name string
	g    *ir.Global
	vis  Visibility
}

// Name returns the global's name.
func (g *Global) Name() string { return g.name }

// IR exposes the underlying llir global.
func (g *Global) IR() *ir.Global { return g.g }

// Visibility returns the global's current visibility.
func (g *Global) Visibility() Visibility { return g.vis }
