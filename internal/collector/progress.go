package collector

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// ProgressCollector accumulates per-interval counters and periodically
// emits a structured log line summarizing throughput, mirroring the
// interval status lines a long-running load tool prints to stdout.
// Collect itself only bumps atomics; the periodic emission runs on its
// own ticker goroutine so the completion path never blocks on logging.
type ProgressCollector struct {
	interval time.Duration
	log      *slog.Logger

	ops    atomic.Int64
	errs   atomic.Int64
	done   chan struct{}
	closed chan struct{}
}

// NewProgressCollector starts a collector that logs a summary every
// interval until Close is called.
func NewProgressCollector(interval time.Duration, log *slog.Logger) *ProgressCollector {
	if log == nil {
		log = slog.Default()
	}
	p := &ProgressCollector{
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
		closed:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *ProgressCollector) run() {
	defer close(p.closed)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var lastOps, lastErrs int64
	for {
		select {
		case <-ticker.C:
			ops := p.ops.Load()
			errs := p.errs.Load()
			p.log.Info("progress",
				"total_ops", ops,
				"total_errors", errs,
				"interval_ops", ops-lastOps,
				"interval_errors", errs-lastErrs,
			)
			lastOps, lastErrs = ops, errs
		case <-p.done:
			return
		}
	}
}

func (p *ProgressCollector) Collect(ev Event) {
	p.ops.Add(1)
	if !ev.Success {
		p.errs.Add(1)
	}
}

// Close stops the ticker goroutine and waits for it to exit.
func (p *ProgressCollector) Close() {
	close(p.done)
	<-p.closed
}
