package fieldgen

import (
	"fmt"
	"strings"
	"sync"
)

// Registry holds named generator factories, a workload's per-field
// defaults, and any user-supplied overrides. It is safe for concurrent
// reads once construction (RegisterFactory, SetDefault, SetOverride) is
// finished and the run has started — mirroring the executor package's
// DefaultParserRegistry in the teacher repo.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	defaults  map[Field]FieldGenerator
	overrides map[Field]FieldGenerator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		defaults:  make(map[Field]FieldGenerator),
		overrides: make(map[Field]FieldGenerator),
	}
}

// RegisterFactory makes a named generator function available to --field
// overrides and to workload defaults expressed by name.
func (r *Registry) RegisterFactory(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// SetDefault installs a workload's built-in generator for a field.
func (r *Registry) SetDefault(field Field, gen FieldGenerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults[field] = gen
}

// SetOverride parses a `--field <table>.<column>=<fn>(args)` value and
// installs it, superseding any default for that field.
func (r *Registry) SetOverride(field Field, spec string) error {
	name, args, err := parseFunctionCall(spec)
	if err != nil {
		return fmt.Errorf("field override %s: %w", field, err)
	}

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("field override %s: unknown generator function %q", field, name)
	}

	gen, err := factory(args)
	if err != nil {
		return fmt.Errorf("field override %s: %w", field, err)
	}

	r.mu.Lock()
	r.overrides[field] = gen
	r.mu.Unlock()
	return nil
}

// Build invokes a registered factory directly, bypassing the override
// grammar — used by workloads to construct their own field defaults from
// the shared builtin generator set.
func (r *Registry) Build(name string, args ...string) (FieldGenerator, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown generator function %q", name)
	}
	return factory(args)
}

// Resolve returns the generator in effect for a field: the override if
// set, else the workload default, else an error.
func (r *Registry) Resolve(field Field) (FieldGenerator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if gen, ok := r.overrides[field]; ok {
		return gen, nil
	}
	if gen, ok := r.defaults[field]; ok {
		return gen, nil
	}
	return nil, fmt.Errorf("no generator registered for field %s", field)
}

// Description names one registered generator function, for the `fields`
// CLI/remote-control command. List fills in Name only: factories are
// registered without description text, so Description is always empty.
type Description struct {
	Name        string
	Description string
}

func (r *Registry) List() []Description {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Description, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, Description{Name: name})
	}
	return out
}

// parseFunctionCall parses `fn(arg1,arg2,...)` or a bare `fn` into a name
// and argument list.
func parseFunctionCall(spec string) (name string, args []string, err error) {
	spec = strings.TrimSpace(spec)
	open := strings.IndexByte(spec, '(')
	if open < 0 {
		return spec, nil, nil
	}
	if !strings.HasSuffix(spec, ")") {
		return "", nil, fmt.Errorf("malformed generator call %q: missing closing paren", spec)
	}
	name = spec[:open]
	inner := spec[open+1 : len(spec)-1]
	if strings.TrimSpace(inner) == "" {
		return name, nil, nil
	}
	parts := strings.Split(inner, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return name, parts, nil
}
