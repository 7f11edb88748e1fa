package codegen

import (
	"errors"
	"testing"

	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"loom/internal/diag"
)

func TestInvalidOptionsFallBackToDefaults(t *testing.T) {
	l := New("", Options{Visibility: Visibility(42), Prefix: PrefixPolicy(99)})
	if l.Name() != defaultLibraryName {
		t.Fatalf("empty name must fall back, got %q", l.Name())
	}
	if l.Visibility() != Public {
		t.Fatalf("invalid visibility must fall back to public")
	}
	if l.prefix != PrefixSmart {
		t.Fatalf("invalid prefix must fall back to smart")
	}
	if !l.Diagnostics().HasWarnings() {
		t.Fatalf("fallbacks must leave diagnostics behind")
	}
	// The library stays fully usable.
	if _, err := l.NewFunc("f", types.Void, nil, func(g *Generator) error {
		return g.Ret(nil)
	}); err != nil {
		t.Fatalf("library should be usable after fallback: %v", err)
	}
}

func TestDuplicateDeclarationsFail(t *testing.T) {
	l := New("dup", Options{})
	if _, err := l.NewFunc("f", types.I32, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.NewFunc("f", types.I32, nil, nil); !errors.Is(err, ErrArgument) {
		t.Fatalf("duplicate function must fail with ErrArgument, got %v", err)
	}
	if _, err := l.NewGlobal("v", types.I32, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.NewConstant("v", types.I32, 2); !errors.Is(err, ErrArgument) {
		t.Fatalf("duplicate global must fail with ErrArgument, got %v", err)
	}
}

func TestStringPoolDeduplicatesByContent(t *testing.T) {
	l := New("strs", Options{})
	a := l.InternString("abc")
	b := l.InternString("abc")
	c := l.InternString("abd")
	if a != b {
		t.Fatalf("identical text must return the same pooled global")
	}
	if a == c {
		t.Fatalf("different text must not share a global")
	}
	if len(l.Strings()) != 2 {
		t.Fatalf("expected 2 pooled strings, got %d", len(l.Strings()))
	}
}

func TestAccessorsFilterPrivateSymbols(t *testing.T) {
	l := New("acc", Options{})
	if _, err := l.NewFunc("pub", types.Void, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.WithVisibility(Private, func(l *Library) {
		if _, err := l.NewFunc("priv", types.Void, nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if l.Visibility() != Public {
		t.Fatalf("WithVisibility must restore the previous default")
	}
	pub := l.Functions(false)
	if _, ok := pub["priv"]; ok {
		t.Fatalf("private function must be hidden by default")
	}
	all := l.Functions(true)
	if _, ok := all["priv"]; !ok {
		t.Fatalf("include-private accessor must expose private function")
	}
}

func TestSetSymbolVisibilityRelinks(t *testing.T) {
	l := New("relink", Options{})
	f, err := l.NewFunc("f", types.Void, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.SetSymbolVisibility("f", Private)
	if f.Visibility() != Private {
		t.Fatalf("visibility must be relinked")
	}
	if f.fn.Linkage != Private.linkage() {
		t.Fatalf("IR linkage must follow visibility")
	}
	// Unknown symbol is a soft failure.
	before := l.Diagnostics().Len()
	l.SetSymbolVisibility("ghost", Public)
	if l.Diagnostics().Len() != before+1 {
		t.Fatalf("unknown symbol must produce a diagnostic")
	}
}

func TestInvalidVisibilityChangeIgnored(t *testing.T) {
	l := New("soft", Options{})
	l.SetVisibility(Visibility(77))
	if l.Visibility() != Public {
		t.Fatalf("invalid default visibility must be ignored")
	}
	if !l.Diagnostics().HasWarnings() {
		t.Fatalf("ignored change must warn")
	}
}

func TestResolveOrderMacroFuncGlobal(t *testing.T) {
	l := New("res", Options{})
	if _, err := l.NewGlobal("x", types.I32, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.NewFunc("x2", types.I32, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.NewMacro("x2", 0, func(g *Generator, args []value.Value) (value.Value, error) {
		return nil, nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sym := l.Resolve("x2"); sym.Kind != SymbolMacro {
		t.Fatalf("macros must win over functions, got kind %d", sym.Kind)
	}
	if sym := l.Resolve("x"); sym.Kind != SymbolGlobal {
		t.Fatalf("expected global, got kind %d", sym.Kind)
	}
	if sym := l.Resolve("nope"); sym.Kind != SymbolNone {
		t.Fatalf("unknown name must resolve to none")
	}
}

func TestParseHelpers(t *testing.T) {
	if v, ok := ParseVisibility("private"); !ok || v != Private {
		t.Fatalf("private must parse")
	}
	if _, ok := ParseVisibility("sideways"); ok {
		t.Fatalf("unknown visibility must not parse")
	}
	if p, ok := ParsePrefixPolicy("all"); !ok || p != PrefixAll {
		t.Fatalf("all must parse")
	}
	if _, ok := ParsePrefixPolicy("sometimes"); ok {
		t.Fatalf("unknown prefix policy must not parse")
	}
}

func TestDiagCodesRendered(t *testing.T) {
	if diag.LibInvalidVisibility.String() != "L1001" {
		t.Fatalf("unexpected code rendering: %s", diag.LibInvalidVisibility)
	}
}
