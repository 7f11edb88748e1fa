package codegen

import "fmt"

// Registry maps library names to libraries for import-by-name. It is an
// explicit object owned by the program being assembled; nothing here is
// process-wide.
type Registry struct {
	libs map[string]*Library
}

func NewRegistry() *Registry {
	return &Registry{libs: make(map[string]*Library)}
}

// Register adds a library under its own name.
func (r *Registry) Register(l *Library) error {
	if l == nil {
		return fmt.Errorf("%w: cannot register a nil library", ErrArgument)
	}
	if _, ok := r.libs[l.name]; ok {
		return fmt.Errorf("%w: library %q already registered", ErrArgument, l.name)
	}
	r.libs[l.name] = l
	return nil
}

// Lookup resolves a library by name.
func (r *Registry) Lookup(name string) (*Library, bool) {
	l, ok := r.libs[name]
	return l, ok
}

// Names returns the registered library names in arbitrary order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.libs))
	for name := range r.libs {
		out = append(out, name)
	}
	return out
}
