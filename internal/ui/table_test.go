package ui

import (
	"strings"
	"testing"

	"loom/internal/export"
)

func TestSymbolTableListsEveryRow(t *testing.T) {
	snap := &export.Snapshot{
		Library: "math",
		Funcs: []export.FuncSig{
			{Name: "abs", Params: []string{"i64"}, Return: "i64"},
			{Name: "clamp", Params: []string{"i64", "i64", "i64"}, Return: "i64"},
		},
		Globals: []export.GlobalSig{
			{Name: "answer", Type: "i64", Immutable: true},
		},
		Strings: 2,
	}
	out := SymbolTable(snap)
	for _, want := range []string{"library math", "abs", "clamp", "answer", "const", "2 pooled string(s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table must mention %q:\n%s", want, out)
		}
	}
}

func TestSymbolTableNilSnapshot(t *testing.T) {
	if out := SymbolTable(nil); out != "" {
		t.Fatalf("nil snapshot must render nothing, got %q", out)
	}
}
