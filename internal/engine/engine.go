// Package engine is the controller described in spec §2: given a
// StressContext built by its caller, it optionally runs a populate phase,
// launches the measured phase's worker threads, and waits for the
// termination coordinator to report Stopped.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nimbusdb/cstress/internal/dispatch"
	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/metrics"
	"github.com/nimbusdb/cstress/internal/stresscontext"
	"github.com/nimbusdb/cstress/internal/term"
)

// Result summarizes a finished run for the caller (CLI or remote-control
// server).
type Result struct {
	FinalState term.State
	Reason     string
	Metrics    metrics.Snapshot
}

// Run drives one full stress run to completion: populate phase (if
// configured), measured phase across sc.Config.Threads workers, and
// cleanup of every exit path including a panicking worker (spec §5
// "release is guaranteed on every exit path including panic/abort of a
// worker, via scoped acquisition").
func Run(ctx context.Context, sc *stresscontext.Context, log *slog.Logger) (Result, error) {
	if log == nil {
		log = slog.Default()
	}
	defer func() {
		if err := sc.Close(); err != nil {
			log.Warn("session close failed", "error", err)
		}
	}()

	if sc.HasPopulate {
		log.Info("starting populate phase", "rows", sc.PopulateRows, "deletes", sc.PopulateDel)
		if err := runPopulate(ctx, sc, log); err != nil {
			return Result{}, err
		}
		log.Info("populate phase complete, resetting metrics for measured phase")
		sc.Metrics.ResetForMeasuredPhase()
	}

	threads := sc.Config.Threads
	coord := term.New(threads)

	go func() {
		<-ctx.Done()
		coord.Signal("external stop")
	}()

	if sc.Config.DurationS > 0 {
		go armDurationTimer(ctx, coord, time.Duration(sc.Config.DurationS)*time.Second)
	}

	if err := runWorkers(ctx, sc, coord, threads, sc.Config.Iterations, dispatch.ModeMeasured); err != nil {
		return Result{}, err
	}

	_ = coord.AwaitStopped(ctx)

	return Result{
		FinalState: coord.State(),
		Reason:     coord.Reason(),
		Metrics:    sc.Metrics.Snapshot(),
	}, nil
}

func runPopulate(ctx context.Context, sc *stresscontext.Context, log *slog.Logger) error {
	threads := sc.Config.Threads
	coord := term.New(threads)
	return runWorkersOn(ctx, sc, coord, threads, sc.PopulateRows, dispatch.ModePopulate, sc.PopulateKeys)
}

func runWorkers(ctx context.Context, sc *stresscontext.Context, coord *term.Coordinator, threads int, iterations int64, mode dispatch.Mode) error {
	return runWorkersOn(ctx, sc, coord, threads, iterations, mode, sc.Keys)
}

// runWorkersOn launches threads workers sharing keys, splitting iterations
// per spec §4.3's "integer-divided evenly; remainder assigned to the
// lowest-indexed workers" (spec §9 open question, resolved here in favor
// of the lowest indices).
func runWorkersOn(ctx context.Context, sc *stresscontext.Context, coord *term.Coordinator, threads int, iterations int64, mode dispatch.Mode, keys *keygen.Generator) error {
	var shares []int64
	if iterations > 0 {
		shares = splitEvenly(iterations, threads)
	} else {
		shares = make([]int64, threads)
		for i := range shares {
			shares[i] = keygen.Unbounded
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		r, err := sc.NewRunner()
		if err != nil {
			coord.Signal("runner construction failed")
			return err
		}

		w := &dispatch.Worker{
			Index:           i,
			Mode:            mode,
			Keys:            keys,
			Runner:          r,
			Session:         sc.Session,
			Limiter:         sc.Limiter,
			Metrics:         sc.Metrics,
			Sink:            sc.Collector,
			Gate:            dispatch.NewGate(sc.Config.QueueDepth),
			Term:            coord,
			ReadRate:        sc.Config.ReadRate,
			DeleteRate:      sc.Config.DeleteRate,
			DeleteEnabled:   sc.PopulateDel,
			MaxReadLatency:  time.Duration(sc.Config.MaxReadLatencyMs) * time.Millisecond,
			MaxWriteLatency: time.Duration(sc.Config.MaxWriteLatencyMs) * time.Millisecond,
			IterationShare:  shares[i],
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					coord.Signal("worker panic")
					coord.WorkerDrained()
				}
			}()
			w.Run(ctx)
		}()
	}
	wg.Wait()
	return nil
}

// splitEvenly divides total into n shares as evenly as possible, handing
// the remainder to the lowest-indexed shares.
func splitEvenly(total int64, n int) []int64 {
	base := total / int64(n)
	rem := total % int64(n)
	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < rem {
			shares[i]++
		}
	}
	return shares
}

func armDurationTimer(ctx context.Context, coord *term.Coordinator, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		coord.Signal("duration elapsed")
	case <-ctx.Done():
	}
}
