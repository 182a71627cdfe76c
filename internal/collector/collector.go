// Package collector implements the completion-path fan-out described in
// spec §3/§4.4: every Collector in a CompositeCollector chain observes
// each operation's outcome, without performing blocking I/O on the hot
// path. Events arrive in completion order, as each operation's completion
// callback runs; per-worker submission order is not preserved.
package collector

import "github.com/nimbusdb/cstress/internal/metrics"

// Event is the read-only view of one completed operation handed to every
// Collector in the chain.
type Event struct {
	Kind            metrics.OpKind
	PartitionKey    string
	Success         bool
	Err             error
	StartNanos      int64
	EndNanos        int64
}

// LatencyNanos is a convenience accessor for EndNanos - StartNanos.
func (e Event) LatencyNanos() int64 { return e.EndNanos - e.StartNanos }

// Collector observes a completed operation. Implementations must not
// block: expensive work (file I/O, network export) is deferred to the
// collector's own goroutine/buffer.
type Collector interface {
	Collect(ev Event)
}

// Composite forwards every Event to an ordered list of Collectors.
type Composite struct {
	chain []Collector
}

// NewComposite builds a Composite over the given collectors, invoked in
// the order given.
func NewComposite(cs ...Collector) *Composite {
	return &Composite{chain: cs}
}

func (c *Composite) Collect(ev Event) {
	for _, sub := range c.chain {
		sub.Collect(ev)
	}
}
