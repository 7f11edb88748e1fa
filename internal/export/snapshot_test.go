package export

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/llir/llvm/ir/types"

	"loom/internal/codegen"
)

func sampleLibrary(t *testing.T) *codegen.Library {
	t.Helper()
	l := codegen.New("geo", codegen.Options{})
	if _, err := l.NewFunc("twice", types.I64, []codegen.Param{{Name: "x", Type: types.I64}}, func(g *codegen.Generator) error {
		v, err := g.Add(g.Func().Params()[0], g.Func().Params()[0])
		if err != nil {
			return err
		}
		return g.Ret(v)
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.WithVisibility(codegen.Private, func(l *codegen.Library) {
		if _, err := l.NewGlobal("scratch", types.I64, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if _, err := l.NewConstant("origin", types.I64, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.InternString("geo ready")
	return l
}

func TestCaptureRecordsPublicSurfaceOnly(t *testing.T) {
	snap := Capture(sampleLibrary(t))
	if snap.Library != "geo" {
		t.Fatalf("library name mismatch: %q", snap.Library)
	}
	if len(snap.Funcs) != 1 || snap.Funcs[0].Name != "twice" {
		t.Fatalf("expected the one public function, got %+v", snap.Funcs)
	}
	if got := snap.Funcs[0].Return; got != "i64" {
		t.Fatalf("return type mismatch: %q", got)
	}
	if len(snap.Funcs[0].Params) != 1 || snap.Funcs[0].Params[0] != "i64" {
		t.Fatalf("param types mismatch: %+v", snap.Funcs[0].Params)
	}
	for _, g := range snap.Globals {
		if g.Name == "scratch" {
			t.Fatalf("private global must not be exported")
		}
	}
	if len(snap.Globals) != 1 || !snap.Globals[0].Immutable {
		t.Fatalf("public constant must be exported immutable, got %+v", snap.Globals)
	}
	if snap.Strings != 1 {
		t.Fatalf("string pool size mismatch: %d", snap.Strings)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	snap := Capture(sampleLibrary(t))
	data, err := snap.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Library != snap.Library || len(back.Funcs) != len(snap.Funcs) {
		t.Fatalf("round trip lost data: %+v", back)
	}
}

func TestDecodeRejectsWrongSchema(t *testing.T) {
	snap := Capture(sampleLibrary(t))
	snap.Schema = snapshotSchemaVersion + 1
	data, err := snap.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Decode(data); err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geo.symbols")
	if err := WriteFile(path, sampleLibrary(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Library != "geo" {
		t.Fatalf("library name mismatch after file round trip: %q", snap.Library)
	}
}
