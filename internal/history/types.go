// Package history persists completed runs and compares them against
// prior runs of the same workload (SPEC_FULL.md §4.10/§4.11): a
// SQLite-backed Store for durability across process restarts, an
// in-memory Store for tests and --no-history runs, and comparison/trend
// analysis over stored RunSummary rows.
package history

import (
	"encoding/json"
	"time"

	"github.com/nimbusdb/cstress/internal/metrics"
	"github.com/nimbusdb/cstress/internal/stresscontext"
)

// RunSummary is a persisted record of one completed run (SPEC_FULL.md §3).
type RunSummary struct {
	ID        int64
	Workload  string
	Config    *stresscontext.RunConfig
	Metrics   metrics.Snapshot
	StartedAt time.Time
	EndedAt   time.Time
	Status    string
}

// MarshalConfig serialises Config to JSON, for callers storing RunSummary
// rows as text columns.
func (s RunSummary) MarshalConfig() ([]byte, error) {
	return json.Marshal(s.Config)
}

// MarshalMetrics serialises Metrics to JSON.
func (s RunSummary) MarshalMetrics() ([]byte, error) {
	return json.Marshal(s.Metrics)
}

// Store persists and retrieves RunSummary rows (SPEC_FULL.md §4.10).
type Store interface {
	Save(summary RunSummary) (RunSummary, error)
	Get(id int64) (RunSummary, bool, error)
	Latest(workload string) (RunSummary, bool, error)
	History(workload string, limit int) ([]RunSummary, error)
	Cleanup(retentionDays int) (int64, error)
	Close() error
}
