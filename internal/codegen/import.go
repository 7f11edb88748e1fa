package codegen

import (
	"fmt"
	"sort"

	"loom/internal/diag"
)

// Import merges the public surface of src into l: functions, macros,
// globals and the string pool. Names are rewritten according to the
// importer's prefix policy; residual collisions keep the destination's
// symbol and surface a non-fatal diagnostic. Importing an empty library is
// a no-op.
func (l *Library) Import(src *Library) error {
	if src == nil {
		return fmt.Errorf("%w: import needs a library", ErrArgument)
	}
	if src == l {
		return fmt.Errorf("%w: library %q cannot import itself", ErrArgument, l.name)
	}
	if len(src.funcs)+len(src.macros)+len(src.globals)+len(src.strings) == 0 {
		l.rep.Report(diag.ImpEmptyLibrary, diag.SevInfo, src.name, "import of empty library is a no-op")
		return nil
	}

	for _, name := range sortedKeys(src.funcs) {
		f := src.funcs[name]
		if f.vis == Private {
			continue
		}
		target, ok := l.importName(name, src.name, func(n string) bool { _, hit := l.funcs[n]; return hit })
		if !ok {
			l.rep.Report(diag.ImpFuncCollision, diag.SevWarning, name,
				fmt.Sprintf("function from %q collides, keeping existing symbol", src.name))
			continue
		}
		if target != name {
			l.rep.Report(diag.ImpSymbolPrefixed, diag.SevInfo, target,
				fmt.Sprintf("function %q from %q imported under prefixed name", name, src.name))
		}
		l.funcs[target] = f
	}

	for _, name := range sortedKeys(src.macros) {
		m := src.macros[name]
		if m.vis == Private {
			continue
		}
		target, ok := l.importName(name, src.name, func(n string) bool { _, hit := l.macros[n]; return hit })
		if !ok {
			l.rep.Report(diag.ImpMacroCollision, diag.SevWarning, name,
				fmt.Sprintf("macro from %q collides, keeping existing symbol", src.name))
			continue
		}
		l.macros[target] = m
	}

	for _, name := range sortedKeys(src.globals) {
		g := src.globals[name]
		if g.vis == Private {
			continue
		}
		target, ok := l.importName(name, src.name, func(n string) bool { _, hit := l.globals[n]; return hit })
		if !ok {
			l.rep.Report(diag.ImpGlobalCollision, diag.SevWarning, name,
				fmt.Sprintf("global from %q collides, keeping existing symbol", src.name))
			continue
		}
		l.globals[target] = g
	}

	// Strings merge by content; existing entries win so pooled identity
	// within the importer stays stable.
	for text, g := range src.strings {
		if _, ok := l.strings[text]; !ok {
			l.strings[text] = g
		}
	}
	return nil
}

// ImportNamed resolves name in the registry and imports the result.
func (l *Library) ImportNamed(name string, reg *Registry) error {
	if reg == nil {
		return fmt.Errorf("%w: import by name needs a registry", ErrArgument)
	}
	src, ok := reg.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: no library named %q", ErrArgument, name)
	}
	return l.Import(src)
}

// importName applies the prefix policy. ok is false when the final name
// still collides and the symbol must be skipped.
func (l *Library) importName(name, srcLib string, taken func(string) bool) (string, bool) {
	prefixed := srcLib + "." + name
	switch l.prefix {
	case PrefixAll:
		if taken(prefixed) {
			return prefixed, false
		}
		return prefixed, true
	case PrefixNone:
		if taken(name) {
			return name, false
		}
		return name, true
	default: // PrefixSmart
		if !taken(name) {
			return name, true
		}
		if taken(prefixed) {
			return prefixed, false
		}
		return prefixed, true
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
