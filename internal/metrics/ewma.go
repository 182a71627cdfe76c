package metrics

import (
	"math"
	"sync/atomic"
	"time"
)

// ewma implements an exponentially-weighted moving rate over a fixed
// averaging window, ticked once per tickInterval. This mirrors the classic
// Unix load-average formula (as used by Dropwizard-style meters); no such
// meter library is present in the reference corpus, so this is a small
// stdlib-only helper rather than a borrowed dependency.
type ewma struct {
	alpha       float64
	interval    time.Duration
	uncounted   atomic.Int64
	rateBits    atomic.Uint64
	initialized atomic.Bool
}

func newEWMA(window, tickInterval time.Duration) *ewma {
	alpha := 1 - math.Exp(-tickInterval.Seconds()/window.Seconds())
	return &ewma{alpha: alpha, interval: tickInterval}
}

func (e *ewma) update(n int64) {
	e.uncounted.Add(n)
}

func (e *ewma) tick() (instant float64) {
	count := e.uncounted.Swap(0)
	instant = float64(count) / e.interval.Seconds()

	if e.initialized.Load() {
		for {
			old := e.rateBits.Load()
			oldRate := math.Float64frombits(old)
			newRate := oldRate + e.alpha*(instant-oldRate)
			if e.rateBits.CompareAndSwap(old, math.Float64bits(newRate)) {
				break
			}
		}
	} else {
		e.rateBits.Store(math.Float64bits(instant))
		e.initialized.Store(true)
	}
	return instant
}

func (e *ewma) rate() float64 {
	return math.Float64frombits(e.rateBits.Load())
}
