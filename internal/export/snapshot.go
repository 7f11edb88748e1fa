// Package export serializes a library's public symbol table for external
// tooling. Only the public surface crosses this boundary: private symbols
// and macros stay inside the library.
package export

import (
	"fmt"
	"os"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"loom/internal/codegen"
)

// Schema version - increment when the payload format changes.
const snapshotSchemaVersion uint16 = 1

// FuncSig describes one public function: name, parameter and return types
// in their textual IR form, and linkage.
type FuncSig struct {
	Name    string
	Params  []string
	Return  string
	Linkage string
}

// GlobalSig describes one public global.
type GlobalSig struct {
	Name      string
	Type      string
	Immutable bool
	Linkage   string
}

// Snapshot is the versioned export payload.
type Snapshot struct {
	Schema  uint16
	Library string
	Funcs   []FuncSig
	Globals []GlobalSig
	Strings int
}

// Capture records the public symbol table of lib.
func Capture(lib *codegen.Library) *Snapshot {
	snap := &Snapshot{
		Schema:  snapshotSchemaVersion,
		Library: lib.Name(),
		Strings: len(lib.Strings()),
	}
	funcs := lib.Functions(false)
	for _, name := range sortedNames(funcs) {
		f := funcs[name]
		sig := FuncSig{
			Name:    name,
			Return:  f.ReturnType().String(),
			Linkage: f.Visibility().String(),
		}
		for _, p := range f.Params() {
			sig.Params = append(sig.Params, p.Typ.String())
		}
		snap.Funcs = append(snap.Funcs, sig)
	}
	globals := lib.Globals(false)
	for _, name := range sortedNames(globals) {
		g := globals[name]
		snap.Globals = append(snap.Globals, GlobalSig{
			Name:      name,
			Type:      g.IR().ContentType.String(),
			Immutable: g.IR().Immutable,
			Linkage:   g.Visibility().String(),
		})
	}
	return snap
}

func sortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Encode serializes the snapshot.
func (s *Snapshot) Encode() ([]byte, error) {
	return msgpack.Marshal(s)
}

// Decode deserializes a snapshot, rejecting unknown schema versions.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("snapshot schema %d not supported (want %d)", s.Schema, snapshotSchemaVersion)
	}
	return &s, nil
}

// WriteFile captures lib and writes the encoded snapshot to path.
func WriteFile(path string, lib *codegen.Library) error {
	snap := Capture(lib)
	data, err := snap.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a snapshot from path.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
