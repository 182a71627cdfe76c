// Package stresscontext resolves a validated RunConfig into the wired-up
// StressContext the engine drives: session, rate limiter, metrics bundle,
// collector chain, and key/field generators (spec §3, §4.3).
package stresscontext

import (
	"fmt"

	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/session"
	"github.com/nimbusdb/cstress/internal/workload"
)

// PopulateMode selects the populate-phase shape (spec §3's populate
// option).
type PopulateMode int

const (
	PopulateStandard PopulateMode = iota
	PopulateCustom
	PopulateNone
)

// RunConfig is the resolved configuration handed to the engine, matching
// spec §3's RunConfig table verbatim.
type RunConfig struct {
	Workload string

	// Exactly one of Iterations/Duration is authoritative; Validate
	// enforces this (spec §1 configuration error: "both -i and -d
	// supplied").
	Iterations int64 // 0 means unset
	DurationS  int64 // seconds; 0 means unset

	Rate    int
	Threads int

	PartitionCount        uint64
	PartitionKeyGenerator keygen.Distribution

	ReadRate   float64
	DeleteRate float64

	QueueDepth int

	Populate       PopulateMode
	PopulateRows   int64
	PopulateDelete bool

	Consistency       session.ConsistencyLevel
	SerialConsistency session.ConsistencyLevel

	MaxReadLatencyMs  int64 // 0 disables
	MaxWriteLatencyMs int64

	PageSize int
	Paginate bool

	CoordinatorOnlyMode bool

	// DDL-only passthrough (spec §3): consumed by the external schema
	// builder, never read by the engine itself.
	TTLSeconds    int64
	Compaction    map[string]string
	Compression   string
	Replication   string

	Fields             map[string]string // "<table>.<column>" -> "<fn>(args)"
	WorkloadParameters map[string]string

	PrometheusPort int
	RawEventLog    string
}

// Validate enforces spec §7's configuration-error class: bad workload
// name, unparseable duration/fraction, conflicting terminal bounds. It
// does not resolve the workload itself; callers check that separately so
// the error message can distinguish "unknown workload" from "config
// rejected by a known workload."
func (c *RunConfig) Validate() error {
	if c.Workload == "" {
		return fmt.Errorf("stresscontext: workload is required")
	}
	if c.Iterations > 0 && c.DurationS > 0 {
		return fmt.Errorf("stresscontext: iterations and duration are mutually exclusive")
	}
	if c.Iterations <= 0 && c.DurationS <= 0 {
		return fmt.Errorf("stresscontext: exactly one of iterations or duration is required")
	}
	if c.Threads <= 0 {
		return fmt.Errorf("stresscontext: threads must be positive")
	}
	if c.PartitionCount == 0 {
		return fmt.Errorf("stresscontext: partitionCount must be positive")
	}
	if c.ReadRate < 0 || c.ReadRate > 1 {
		return fmt.Errorf("stresscontext: readRate must be in [0,1], got %v", c.ReadRate)
	}
	if c.DeleteRate < 0 || c.DeleteRate > 1 {
		return fmt.Errorf("stresscontext: deleteRate must be in [0,1], got %v", c.DeleteRate)
	}
	if c.ReadRate+c.DeleteRate > 1 {
		return fmt.Errorf("stresscontext: readRate + deleteRate must be <= 1, got %v", c.ReadRate+c.DeleteRate)
	}
	if c.QueueDepth <= 0 {
		return fmt.Errorf("stresscontext: queueDepth must be positive")
	}
	if c.Populate == PopulateCustom && c.PopulateRows <= 0 {
		return fmt.Errorf("stresscontext: custom populate requires rows > 0")
	}
	return nil
}

// resolvePopulatePolicy merges an explicit RunConfig populate option with
// a workload's declared default (spec §3, §4.7): PopulateNone disables the
// phase outright, PopulateCustom overrides the workload's own policy,
// PopulateStandard defers to whatever the workload declares.
func resolvePopulatePolicy(cfg *RunConfig, w workload.Workload) (enabled bool, rows int64, deletes bool) {
	switch cfg.Populate {
	case PopulateNone:
		return false, 0, false
	case PopulateCustom:
		return true, cfg.PopulateRows, cfg.PopulateDelete
	default:
		policy := w.PopulatePolicy()
		if !policy.Custom {
			return true, int64(cfg.PartitionCount), false
		}
		return true, policy.Rows, policy.Deletes
	}
}
