package dispatch

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/nimbusdb/cstress/internal/collector"
	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/metrics"
	"github.com/nimbusdb/cstress/internal/ratelimit"
	"github.com/nimbusdb/cstress/internal/runner"
	"github.com/nimbusdb/cstress/internal/session"
	"github.com/nimbusdb/cstress/internal/term"
)

// Mode selects how a Worker classifies the operations it submits.
type Mode int

const (
	// ModeMeasured picks select/delete/mutation by ReadRate/DeleteRate and
	// records into the matching timer (spec §4.3 step 3).
	ModeMeasured Mode = iota
	// ModePopulate always records into the populate timer; delete calls
	// are only issued when DeleteEnabled is set, at DeleteRate (spec §4.7).
	ModePopulate
)

// Worker is one dispatch thread's hot loop (spec §4.3/§4.4). A Worker is
// built fresh per thread and run exactly once.
type Worker struct {
	Index int
	Mode  Mode

	Keys    *keygen.Generator
	Runner  runner.Runner
	Session session.Session
	Limiter *ratelimit.Limiter
	Metrics *metrics.Bundle
	Sink    collector.Collector
	Gate    *Gate
	Term    *term.Coordinator

	ReadRate      float64
	DeleteRate    float64
	DeleteEnabled bool // only consulted in ModePopulate

	MaxReadLatency  time.Duration // 0 disables the SLO check
	MaxWriteLatency time.Duration

	// IterationShare bounds the number of operations this worker submits;
	// keygen.Unbounded means "run until cancelled or the key iterator is
	// exhausted" (duration-bounded runs).
	IterationShare int64
}

// Run drains the worker's assigned work: it submits operations until
// cancelled, the key iterator is exhausted, or its iteration share is
// reached, then waits for its in-flight gate to empty and reports to the
// termination coordinator (spec §4.3).
func (w *Worker) Run(ctx context.Context) {
	var submitted int64
	for {
		if w.Term.Cancelled() {
			break
		}
		if w.IterationShare != keygen.Unbounded && submitted >= w.IterationShare {
			// Reaching this worker's own share is a local condition, not a
			// global one (spec §4.5: "count reached" is aggregate across
			// all workers) — report it and keep siblings running theirs.
			w.Term.WorkerReachedQuota()
			break
		}

		key, ok := w.Keys.Next()
		if !ok {
			w.Term.Signal("key space exhausted")
			break
		}

		kind, bind := w.selectOperation()
		stmt, err := bind(ctx, key)
		if err != nil {
			// A binding failure never reaches the driver; count it as an
			// operation error without starting a timer.
			w.Metrics.RecordError()
			continue
		}

		if err := w.Limiter.Acquire(ctx); err != nil {
			w.Term.Signal("cancelled while waiting on rate limiter")
			break
		}
		if w.Term.Cancelled() {
			break
		}

		w.Gate.Acquire()
		start := time.Now()
		submitted++

		future := w.Session.ExecuteAsync(ctx, stmt)
		future.OnComplete(w.onComplete(kind, key, start))
	}

	w.Gate.Drain()
	w.Term.WorkerDrained()
}

type bindFunc func(ctx context.Context, key keygen.PartitionKey) (session.BoundStatement, error)

// selectOperation implements spec §4.3 step 3 for the measured phase and
// §4.7's meter-kind/bind-kind split for the populate phase: metrics are
// always bucketed under the Populate timer while populating, independent
// of which Runner method actually produced the statement.
func (w *Worker) selectOperation() (metrics.OpKind, bindFunc) {
	if w.Mode == ModePopulate {
		if w.DeleteEnabled && rand.Float64() < w.DeleteRate {
			return metrics.Populate, w.Runner.BindDelete
		}
		return metrics.Populate, w.Runner.BindPopulate
	}

	u := rand.Float64()
	switch {
	case u < w.ReadRate:
		return metrics.Select, w.Runner.BindSelect
	case u < w.ReadRate+w.DeleteRate:
		return metrics.Delete, w.Runner.BindDelete
	default:
		return metrics.Mutation, w.Runner.BindMutation
	}
}

func (w *Worker) onComplete(kind metrics.OpKind, key keygen.PartitionKey, start time.Time) func(session.Outcome) {
	return func(outcome session.Outcome) {
		end := time.Now()
		success := outcome.Success()

		if success {
			w.Metrics.Timer(kind).Record(w.Index, end.Sub(start))
		} else {
			w.Metrics.RecordError()
		}

		if w.Sink != nil {
			w.Sink.Collect(collector.Event{
				Kind:         kind,
				PartitionKey: key.Text(),
				Success:      success,
				Err:          outcome.Err,
				StartNanos:   start.UnixNano(),
				EndNanos:     end.UnixNano(),
			})
		}

		w.Gate.Release()

		if success {
			w.checkSLO(kind, end.Sub(start))
		}
	}
}

func (w *Worker) checkSLO(kind metrics.OpKind, latency time.Duration) {
	switch kind {
	case metrics.Select:
		if w.MaxReadLatency > 0 && latency > w.MaxReadLatency {
			w.Term.Signal("latency SLO breach")
		}
	case metrics.Mutation, metrics.Delete:
		if w.MaxWriteLatency > 0 && latency > w.MaxWriteLatency {
			w.Term.Signal("latency SLO breach")
		}
	}
}
