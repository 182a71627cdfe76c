package stresscontext

import (
	"fmt"

	"github.com/nimbusdb/cstress/internal/collector"
	"github.com/nimbusdb/cstress/internal/fieldgen"
	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/metrics"
	"github.com/nimbusdb/cstress/internal/ratelimit"
	"github.com/nimbusdb/cstress/internal/runner"
	"github.com/nimbusdb/cstress/internal/session"
	"github.com/nimbusdb/cstress/internal/workload"
)

// Context is the StressContext of spec §2/§3: the resolved run
// configuration plus every shared component a worker borrows for its
// lifetime. A single Context is built per run and owns the session,
// metrics, collector chain, rate limiter, and key iterator (spec §3
// "Lifecycle & ownership").
type Context struct {
	Config   *RunConfig
	Workload workload.Workload

	Session   session.Session
	Limiter   *ratelimit.Limiter
	Metrics   *metrics.Bundle
	Collector collector.Collector
	Fields    *fieldgen.Registry

	Keys          *keygen.Generator
	PopulateKeys  *keygen.Generator
	PopulateRows  int64
	PopulateDel   bool
	HasPopulate   bool

	runnerCfg runner.Config
}

// Build resolves cfg against the named workload and the supplied session,
// wiring the field registry, key generators, metrics, rate limiter, and
// collector chain. Validate() must be called by the caller beforehand;
// Build itself only surfaces errors that require a live workload instance
// (unknown parameter names, field override grammar errors).
func Build(cfg *RunConfig, sink collector.Collector, sess session.Session) (*Context, error) {
	w, err := workload.Default.Get(cfg.Workload)
	if err != nil {
		return nil, err
	}

	if err := workload.BindParameters(w, cfg.WorkloadParameters); err != nil {
		return nil, err
	}

	fields := fieldgen.NewRegistry()
	fieldgen.RegisterBuiltins(fields)
	if err := w.InstallFieldDefaults(fields); err != nil {
		return nil, fmt.Errorf("stresscontext: install field defaults: %w", err)
	}
	for fieldSpec, override := range cfg.Fields {
		field, err := parseFieldSpec(fieldSpec)
		if err != nil {
			return nil, err
		}
		if err := fields.SetOverride(field, override); err != nil {
			return nil, err
		}
	}

	runnerCfg := runner.Config{
		Consistency:       cfg.Consistency,
		SerialConsistency: cfg.SerialConsistency,
		Paginate:          cfg.Paginate,
		PageSize:          cfg.PageSize,
		Fields:            fields,
	}

	populateEnabled, populateRows, populateDeletes := resolvePopulatePolicy(cfg, w)

	keys := keygen.New(cfg.PartitionKeyGenerator, "", cfg.PartitionCount-1, keygen.Unbounded)

	var populateKeys *keygen.Generator
	if populateEnabled {
		populateKeys = w.PopulateKeyGenerator(cfg.PartitionCount-1, populateRows)
		if populateKeys == nil {
			populateKeys = keygen.New(keygen.Sequential, "", cfg.PartitionCount-1, populateRows)
		}
	}

	return &Context{
		Config:       cfg,
		Workload:     w,
		Session:      sess,
		Limiter:      ratelimit.New(cfg.Rate),
		Metrics:      metrics.NewBundle(),
		Collector:    sink,
		Fields:       fields,
		Keys:         keys,
		PopulateKeys: populateKeys,
		PopulateRows: populateRows,
		PopulateDel:  populateDeletes,
		HasPopulate:  populateEnabled,
		runnerCfg:    runnerCfg,
	}, nil
}

// NewRunner builds one worker's private Runner instance, per spec §2's
// "each worker threads owning an IStressRunner instance."
func (c *Context) NewRunner() (runner.Runner, error) {
	return c.Workload.NewRunner(c.runnerCfg)
}

// Close releases the session. Safe to call once, after every worker has
// joined and the collector chain has been flushed (spec §3).
func (c *Context) Close() error {
	return c.Session.Close()
}

func parseFieldSpec(spec string) (fieldgen.Field, error) {
	for i := 0; i < len(spec); i++ {
		if spec[i] == '.' {
			return fieldgen.Field{Table: spec[:i], Column: spec[i+1:]}, nil
		}
	}
	return fieldgen.Field{}, fmt.Errorf("stresscontext: malformed field spec %q, expected <table>.<column>", spec)
}
