package sample

import (
	"errors"
	"strings"
	"testing"

	"loom/internal/codegen"
)

func TestBuildDispatchesKnownTargets(t *testing.T) {
	for _, name := range Names() {
		lib, err := Build(name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if lib.Name() != name {
			t.Fatalf("%s: library name mismatch: %q", name, lib.Name())
		}
	}
	if _, err := Build("nope"); !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
}

func TestMathSurface(t *testing.T) {
	lib, err := Math()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	public := lib.Functions(false)
	for _, name := range []string{"abs", "clamp", "factorial", "sumsq", "quadruple"} {
		if _, ok := public[name]; !ok {
			t.Fatalf("public function %q missing", name)
		}
	}
	if _, ok := public["double"]; ok {
		t.Fatalf("helper must stay private")
	}
	if _, ok := lib.Functions(true)["double"]; !ok {
		t.Fatalf("helper must exist privately")
	}
	if lib.Resolve("square").Kind != codegen.SymbolMacro {
		t.Fatalf("square must resolve as a macro")
	}
	if len(lib.Globals(false)) != 2 {
		t.Fatalf("expected answer and last_result, got %d globals", len(lib.Globals(false)))
	}
	if lib.Diagnostics().HasErrors() {
		t.Fatalf("building math must not raise error diagnostics")
	}
}

func TestStringsPoolsLiterals(t *testing.T) {
	lib, err := Strings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pool := lib.Strings()
	// Two distinct literals; the repeated one interns once.
	if len(pool) != 2 {
		t.Fatalf("expected 2 pooled strings, got %d", len(pool))
	}
}

func TestAppAssemblesAndPrints(t *testing.T) {
	p, err := Program("demo", "x86_64-unknown-linux-gnu", []string{"app"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := p.Assemble().String()
	for _, want := range []string{"define", "main", "factorial", "declare", "puts"} {
		if !strings.Contains(out, want) {
			t.Fatalf("assembled module must contain %q:\n%s", want, out)
		}
	}
}

func TestProgramRejectsUnknownTarget(t *testing.T) {
	if _, err := Program("demo", "", []string{"math", "bogus"}); !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
}
