package session

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// FakeStatement is the concrete BoundStatement used by the built-in
// workloads and by every engine test: CQL text plus args are irrelevant to
// the engine's control flow, so only the fields the engine actually reads
// are modeled.
type FakeStatement struct {
	CQL        string
	Args       []any
	PaginateOn bool
}

func (s *FakeStatement) Paginate() bool { return s.PaginateOn }

// FakeSession simulates an async database client for tests and for
// operators who want to exercise the dispatch loop without a live
// cluster. It never performs real I/O: each ExecuteAsync schedules its
// completion after a configurable simulated latency, optionally failing a
// fraction of operations and, for paginated statements, walking a
// configurable number of simulated pages before completing.
type FakeSession struct {
	Latency     time.Duration
	Jitter      time.Duration
	ErrorRate   float64
	PagesPerRow int
	PageLatency time.Duration

	closed bool
}

// NewFakeSession builds a FakeSession with reasonable defaults.
func NewFakeSession() *FakeSession {
	return &FakeSession{
		Latency:     time.Millisecond,
		Jitter:      500 * time.Microsecond,
		ErrorRate:   0,
		PagesPerRow: 1,
		PageLatency: 200 * time.Microsecond,
	}
}

func (s *FakeSession) ExecuteAsync(ctx context.Context, stmt BoundStatement) Future {
	f := &fakeFuture{}
	pages := 1
	if stmt.Paginate() && s.PagesPerRow > 1 {
		pages = s.PagesPerRow
	}

	go func() {
		total := s.Latency
		if s.Jitter > 0 {
			total += time.Duration(rand.Int64N(int64(s.Jitter)))
		}
		if pages > 1 {
			total += time.Duration(pages-1) * s.PageLatency
		}

		timer := time.NewTimer(total)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			f.complete(Outcome{Err: ctx.Err()})
			return
		case <-timer.C:
		}

		var outcome Outcome
		if s.ErrorRate > 0 && rand.Float64() < s.ErrorRate {
			outcome = Outcome{Err: errSimulated}
		}
		f.complete(outcome)
	}()

	return f
}

func (s *FakeSession) Close() error {
	s.closed = true
	return nil
}

// fakeFuture tolerates completion racing registration: OnComplete is
// typically called by the dispatch loop immediately after ExecuteAsync
// returns, but the simulated completion goroutine may finish first.
type fakeFuture struct {
	mu      sync.Mutex
	cb      func(Outcome)
	done    bool
	outcome Outcome
}

func (f *fakeFuture) OnComplete(cb func(Outcome)) {
	f.mu.Lock()
	if f.done {
		o := f.outcome
		f.mu.Unlock()
		cb(o)
		return
	}
	f.cb = cb
	f.mu.Unlock()
}

func (f *fakeFuture) complete(o Outcome) {
	f.mu.Lock()
	cb := f.cb
	f.done = true
	f.outcome = o
	f.mu.Unlock()
	if cb != nil {
		cb(o)
	}
}

var errSimulated = &simulatedError{"simulated operation failure"}

type simulatedError struct{ msg string }

func (e *simulatedError) Error() string { return e.msg }
