package metrics

import (
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
)

const (
	histMinNanos int64 = 1
	histMaxNanos int64 = int64(10 * time.Minute)
	histSigFigs  int   = 3

	// timerStripes bounds the number of independent histogram shards a
	// Timer keeps, per spec §4.6: "histogram samples are merged via
	// per-thread stripes to avoid contention on the hot path." A worker
	// writes only to its own stripe (picked by Worker.Index), so
	// concurrent Record calls from distinct workers never contend on the
	// same mutex as long as threads <= timerStripes; Snapshot pays the
	// cost of locking and merging every stripe, but that only happens on
	// the status/reporting path, never per-operation.
	timerStripes = 64
)

// TimerSnapshot is a point-in-time, externally-reported view of a Timer.
// Latency fields are in microseconds per spec §4.6.
type TimerSnapshot struct {
	Count      int64
	Rate1Sec   float64
	Rate1Min   float64
	Rate5Min   float64
	Rate15Min  float64
	MeanLatUs  float64
	MedianUs   float64
	P95Us      float64
	P99Us      float64
	P999Us     float64
	MaxUs      float64
}

type histStripe struct {
	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

// Timer records successful-operation latencies (nanoseconds internally)
// into a striped set of cumulative HDR histograms, plus a throughput
// Meter. Samples never decay or expire: percentiles cover every sample
// since the Timer was built. Failed operations are never recorded here —
// the error Meter absorbs them.
type Timer struct {
	meter   *Meter
	stripes [timerStripes]histStripe
}

// NewTimer builds a Timer with a fresh histogram per stripe and a running
// Meter.
func NewTimer() *Timer {
	t := &Timer{meter: NewMeter()}
	for i := range t.stripes {
		t.stripes[i].hist = hdrhistogram.New(histMinNanos, histMaxNanos, histSigFigs)
	}
	return t
}

// Record absorbs one successful-operation latency sample into the stripe
// owned by stripeKey (a dispatch worker's index), so two workers never
// contend on the same histogram's lock.
func (t *Timer) Record(stripeKey int, elapsed time.Duration) {
	t.meter.Mark(1)
	ns := elapsed.Nanoseconds()
	if ns < histMinNanos {
		ns = histMinNanos
	}
	if ns > histMaxNanos {
		ns = histMaxNanos
	}
	s := &t.stripes[stripeKey%timerStripes]
	s.mu.Lock()
	_ = s.hist.RecordValue(ns)
	s.mu.Unlock()
}

// Count returns the number of samples recorded.
func (t *Timer) Count() int64 {
	return t.meter.Count()
}

// Stop releases the Timer's background meter goroutine.
func (t *Timer) Stop() {
	t.meter.Stop()
}

// Snapshot reports a read-only view safe to call while the run is live. It
// merges every stripe into a scratch histogram, so its cost scales with
// timerStripes rather than with the sample count.
func (t *Timer) Snapshot() TimerSnapshot {
	merged := hdrhistogram.New(histMinNanos, histMaxNanos, histSigFigs)
	for i := range t.stripes {
		s := &t.stripes[i]
		s.mu.Lock()
		merged.Merge(s.hist)
		s.mu.Unlock()
	}

	count := merged.TotalCount()
	mean := merged.Mean()
	median := float64(merged.ValueAtQuantile(50))
	p95 := float64(merged.ValueAtQuantile(95))
	p99 := float64(merged.ValueAtQuantile(99))
	p999 := float64(merged.ValueAtQuantile(99.9))
	max := float64(merged.Max())

	if count == 0 {
		mean, median, p95, p99, p999, max = 0, 0, 0, 0, 0, 0
	}

	const nsToUs = 1000.0
	return TimerSnapshot{
		Count:     t.meter.Count(),
		Rate1Sec:  t.meter.Rate1Sec(),
		Rate1Min:  t.meter.Rate1Min(),
		Rate5Min:  t.meter.Rate5Min(),
		Rate15Min: t.meter.Rate15Min(),
		MeanLatUs: mean / nsToUs,
		MedianUs:  median / nsToUs,
		P95Us:     p95 / nsToUs,
		P99Us:     p99 / nsToUs,
		P999Us:    p999 / nsToUs,
		MaxUs:     max / nsToUs,
	}
}
