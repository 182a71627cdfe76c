// Package dispatch implements the per-worker hot loop described in spec
// §4.3/§4.4: key generation, operation-kind selection, rate-limited
// async submission, and completion-path bookkeeping.
package dispatch

import "sync"

// Gate bounds the number of outstanding async submissions for one worker
// to queueDepth, per spec §4.3 step 6 and the "Q x T concurrent outstanding
// submissions" invariant (spec §8). Acquire blocks when at capacity;
// Release frees one slot. Drain blocks until every acquired slot has been
// released, letting a worker wait for its in-flight window to empty before
// reporting to the termination coordinator.
type Gate struct {
	slots chan struct{}
	wg    sync.WaitGroup
}

// NewGate builds a Gate with the given capacity. depth <= 0 is treated as
// unbounded (capacity 1<<20, effectively unbounded for any realistic
// queueDepth).
func NewGate(depth int) *Gate {
	if depth <= 0 {
		depth = 1 << 20
	}
	return &Gate{slots: make(chan struct{}, depth)}
}

// Acquire blocks until a slot is free.
func (g *Gate) Acquire() {
	g.slots <- struct{}{}
	g.wg.Add(1)
}

// Release frees one slot, to be called exactly once per Acquire, from the
// completion callback.
func (g *Gate) Release() {
	<-g.slots
	g.wg.Done()
}

// Drain blocks until every acquired slot has been released.
func (g *Gate) Drain() {
	g.wg.Wait()
}

// Len reports the current number of outstanding (acquired, not yet
// released) slots.
func (g *Gate) Len() int {
	return len(g.slots)
}
