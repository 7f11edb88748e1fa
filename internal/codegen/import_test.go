package codegen

import (
	"errors"
	"testing"

	"github.com/llir/llvm/ir/types"

	"loom/internal/diag"
)

func libraryWithSurface(t *testing.T, name string) *Library {
	t.Helper()
	l := New(name, Options{})
	if _, err := l.NewFunc("f", types.I32, nil, func(g *Generator) error {
		return g.DirectRet(1)
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.WithVisibility(Private, func(l *Library) {
		if _, err := l.NewFunc("g", types.I32, nil, func(gen *Generator) error {
			return gen.DirectRet(2)
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if _, err := l.NewGlobal("v", types.I32, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return l
}

func TestImportMergesPublicSurfaceOnly(t *testing.T) {
	a := New("a", Options{})
	b := libraryWithSurface(t, "b")

	if err := a.Import(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := a.funcs["f"]; !ok {
		t.Fatalf("public function must be merged")
	}
	if _, ok := a.funcs["g"]; ok {
		t.Fatalf("private function must stay out of the importer")
	}
	if _, ok := a.funcs["b.f"]; ok {
		t.Fatalf("smart prefixing must not rename without a collision")
	}
	if _, ok := a.globals["v"]; !ok {
		t.Fatalf("public global must be merged")
	}
}

func TestSmartPrefixOnCollision(t *testing.T) {
	a := New("a", Options{})
	if _, err := a.NewFunc("f", types.I32, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := libraryWithSurface(t, "b")
	if err := a.Import(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	imported, ok := a.funcs["b.f"]
	if !ok {
		t.Fatalf("colliding function must be imported under prefixed name")
	}
	if imported != b.funcs["f"] {
		t.Fatalf("prefixed entry must reference the source function")
	}
	if a.funcs["f"] == b.funcs["f"] {
		t.Fatalf("existing symbol must be kept")
	}
}

func TestPrefixAllAlwaysRenames(t *testing.T) {
	a := New("a", Options{Prefix: PrefixAll})
	b := libraryWithSurface(t, "b")
	if err := a.Import(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := a.funcs["b.f"]; !ok {
		t.Fatalf("all policy must prefix unconditionally")
	}
	if _, ok := a.funcs["f"]; ok {
		t.Fatalf("all policy must not keep the bare name")
	}
}

func TestPrefixNoneKeepsDestinationOnCollision(t *testing.T) {
	a := New("a", Options{Prefix: PrefixNone})
	own, err := a.NewGlobal("v", types.I32, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := libraryWithSurface(t, "b")
	if err := a.Import(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.globals["v"] != own {
		t.Fatalf("destination global must win on collision")
	}
	var found bool
	for _, d := range a.Diagnostics().Items() {
		if d.Code == diag.ImpGlobalCollision {
			found = true
		}
	}
	if !found {
		t.Fatalf("global collision must surface a diagnostic")
	}
}

func TestImportMergesStringsByContent(t *testing.T) {
	a := New("a", Options{})
	b := New("b", Options{})
	own := a.InternString("shared")
	b.InternString("shared")
	b.InternString("only-b")
	if err := a.Import(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.strings["shared"] != own {
		t.Fatalf("existing pooled string must win")
	}
	if _, ok := a.strings["only-b"]; !ok {
		t.Fatalf("new string content must be adopted")
	}
}

func TestImportEmptyLibraryIsNoOp(t *testing.T) {
	a := New("a", Options{})
	if err := a.Import(New("empty", Options{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.funcs)+len(a.globals)+len(a.macros)+len(a.strings) != 0 {
		t.Fatalf("empty import must add nothing")
	}
	var noted bool
	for _, d := range a.Diagnostics().Items() {
		if d.Code == diag.ImpEmptyLibrary {
			noted = true
		}
	}
	if !noted {
		t.Fatalf("empty import must leave an info diagnostic")
	}
}

func TestImportNamed(t *testing.T) {
	reg := NewRegistry()
	b := libraryWithSurface(t, "b")
	if err := reg.Register(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := New("a", Options{})
	if err := a.ImportNamed("b", reg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := a.funcs["f"]; !ok {
		t.Fatalf("named import must merge")
	}
	if err := a.ImportNamed("missing", reg); !errors.Is(err, ErrArgument) {
		t.Fatalf("unresolved import target must fail with ErrArgument, got %v", err)
	}
	if err := a.Import(nil); !errors.Is(err, ErrArgument) {
		t.Fatalf("nil import must fail with ErrArgument, got %v", err)
	}
}
