// Package workload is the workload registry and dynamic parameter binder
// described in spec §4.8: each registered profile declares tunable
// parameters by descriptor, and the registry resolves user-supplied
// strings against those descriptors before any worker starts.
package workload

import (
	"github.com/nimbusdb/cstress/internal/fieldgen"
	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/runner"
)

// ParamKind is a tunable parameter's declared semantic type.
type ParamKind int

const (
	KindI64 ParamKind = iota
	KindF64
	KindBool
	KindString
	KindEnum
)

func (k ParamKind) String() string {
	switch k {
	case KindI64:
		return "integer"
	case KindF64:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ParamDescriptor describes one tunable workload parameter and carries the
// setter that assigns a parsed value onto the workload instance's field.
type ParamDescriptor struct {
	Name        string
	Description string
	Kind        ParamKind
	Variants    []string // valid values when Kind == KindEnum
	Set         func(raw string) error
}

// FilterAnnotations capture the class-level test-gating metadata a
// workload may declare; filtering itself is an external concern (spec
// §4.8) — this registry only exposes the annotations for that caller.
type FilterAnnotations struct {
	MinimumVersion string
	RequireAccord  bool
	RequireDSE     bool
}

// PopulatePolicy is a workload's declared default for the populate phase
// (spec §3): either Standard (identical shape to the mutation phase) or a
// Custom row count with its own delete behavior.
type PopulatePolicy struct {
	Custom   bool
	Rows     int64
	Deletes  bool
}

// StandardPopulate returns the "same as mutation" policy.
func StandardPopulate() PopulatePolicy { return PopulatePolicy{} }

// CustomPopulate returns a dedicated row count and delete policy for the
// populate phase.
func CustomPopulate(rows int64, deletes bool) PopulatePolicy {
	return PopulatePolicy{Custom: true, Rows: rows, Deletes: deletes}
}

// Workload is the IStressWorkload contract (spec §3/§4.8): DDL, a
// populate policy, optional dedicated populate key generator, field
// defaults, tunable parameters, and a per-worker Runner factory.
type Workload interface {
	Name() string
	Description() string
	DDL() []string
	DefaultReadRate() float64
	PopulatePolicy() PopulatePolicy
	// PopulateKeyGenerator returns a dedicated generator for the populate
	// phase, or nil to fall back to a sequential generator over
	// partitionCount (spec §4.7).
	PopulateKeyGenerator(maxID uint64, total int64) *keygen.Generator
	InstallFieldDefaults(reg *fieldgen.Registry) error
	Parameters() []ParamDescriptor
	Filters() FilterAnnotations
	NewRunner(cfg runner.Config) (runner.Runner, error)
}
