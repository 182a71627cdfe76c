package workload

import (
	"fmt"
	"strconv"
	"sync"
)

// Factory builds a fresh Workload instance (parameters reset to defaults)
// for a single run.
type Factory func() Workload

// Registry enumerates every workload compiled into the process. The
// design notes (spec §9) call for either a static build-time table or a
// per-file registration function; this implementation supports both via
// Register, called from each workload's package init().
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a workload factory under name. Intended for use from
// init().
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get builds a fresh instance of the named workload.
func (r *Registry) Get(name string) (Workload, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown workload: %s", name)
	}
	return f(), nil
}

// Names lists every registered workload name (spec §4.9 list_workloads).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	return out
}

// Default is the process-wide registry populated by built-in workloads'
// init() functions.
var Default = NewRegistry()

// ParamHolder is the minimal surface BindParameters needs: anything that
// declares ParamDescriptors, which every Workload does.
type ParamHolder interface {
	Parameters() []ParamDescriptor
}

// BindParameters walks the user-supplied (name -> string) map and assigns
// each value onto w via its declared ParamDescriptor, parsing per the
// descriptor's Kind. Unknown names return an error and leave w unmodified
// for every parameter processed after the failure — callers must bind all
// parameters before starting any worker (spec §4.8).
func BindParameters(w ParamHolder, params map[string]string) error {
	if len(params) == 0 {
		return nil
	}
	byName := make(map[string]ParamDescriptor, len(w.Parameters()))
	for _, d := range w.Parameters() {
		byName[d.Name] = d
	}

	for name, raw := range params {
		d, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown workload parameter: %s", name)
		}
		if err := validateKind(d, raw); err != nil {
			return fmt.Errorf("workload parameter %s: %w", name, err)
		}
		if err := d.Set(raw); err != nil {
			return fmt.Errorf("workload parameter %s: %w", name, err)
		}
	}
	return nil
}

func validateKind(d ParamDescriptor, raw string) error {
	switch d.Kind {
	case KindI64:
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Errorf("expected integer, got %q", raw)
		}
	case KindF64:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Errorf("expected float, got %q", raw)
		}
	case KindBool:
		if _, err := strconv.ParseBool(raw); err != nil {
			return fmt.Errorf("expected bool, got %q", raw)
		}
	case KindEnum:
		for _, v := range d.Variants {
			if v == raw {
				return nil
			}
		}
		return fmt.Errorf("expected one of %v, got %q", d.Variants, raw)
	case KindString:
		// any string is valid
	}
	return nil
}
