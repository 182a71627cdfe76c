// Package runner is the profile runner bridge: the per-worker adapter that
// turns a partition key into a bound statement for a chosen operation
// kind. Each dispatch worker owns exactly one Runner instance for its
// lifetime (spec §2 overview, §4.3 step 4).
package runner

import (
	"context"

	"github.com/nimbusdb/cstress/internal/fieldgen"
	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/session"
)

// Runner binds a partition key to a statement for each operation kind a
// workload supports. BindPopulate defaults to BindMutation when a
// workload declares no dedicated populate behavior (spec §4.7).
type Runner interface {
	BindSelect(ctx context.Context, key keygen.PartitionKey) (session.BoundStatement, error)
	BindMutation(ctx context.Context, key keygen.PartitionKey) (session.BoundStatement, error)
	BindDelete(ctx context.Context, key keygen.PartitionKey) (session.BoundStatement, error)
	BindPopulate(ctx context.Context, key keygen.PartitionKey) (session.BoundStatement, error)
}

// Config carries the per-run settings a Runner needs to build statements:
// consistency levels, paging behavior, and the resolved field registry.
type Config struct {
	Consistency       session.ConsistencyLevel
	SerialConsistency session.ConsistencyLevel
	Paginate          bool
	PageSize          int
	Fields            *fieldgen.Registry
}

// Factory builds one Runner per worker thread from shared Config. Workload
// implementations supply a Factory via their Workload.NewRunner method.
type Factory func(cfg Config) (Runner, error)
