package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/metrics"
	"github.com/nimbusdb/cstress/internal/ratelimit"
	"github.com/nimbusdb/cstress/internal/session"
	"github.com/nimbusdb/cstress/internal/term"
)

// fakeRunner always binds the same no-op statement, regardless of op kind.
type fakeRunner struct{}

func (fakeRunner) BindSelect(ctx context.Context, key keygen.PartitionKey) (session.BoundStatement, error) {
	return &session.FakeStatement{}, nil
}
func (fakeRunner) BindMutation(ctx context.Context, key keygen.PartitionKey) (session.BoundStatement, error) {
	return &session.FakeStatement{}, nil
}
func (fakeRunner) BindDelete(ctx context.Context, key keygen.PartitionKey) (session.BoundStatement, error) {
	return &session.FakeStatement{}, nil
}
func (fakeRunner) BindPopulate(ctx context.Context, key keygen.PartitionKey) (session.BoundStatement, error) {
	return &session.FakeStatement{}, nil
}

func newTestWorker(idx int, share int64, term *term.Coordinator, sess session.Session) *Worker {
	return &Worker{
		Index:          idx,
		Mode:           ModeMeasured,
		Keys:           keygen.New(keygen.Sequential, "", 1<<20, keygen.Unbounded),
		Runner:         fakeRunner{},
		Session:        sess,
		Limiter:        ratelimit.New(0),
		Metrics:        metrics.NewBundle(),
		Gate:           NewGate(8),
		Term:           term,
		ReadRate:       1,
		IterationShare: share,
	}
}

// TestWorkerLocalQuotaDoesNotCancelSiblings exercises the review-flagged
// bug directly: an uneven iteration split (5 across 2 workers, the
// remainder going to worker 0 per spec §9) combined with a latency skew
// between workers (worker 0 completes instantly, worker 1 is slow) used to
// let the fast worker's local completion broadcast cancellation and cut
// worker 1 short.
func TestWorkerLocalQuotaDoesNotCancelSiblings(t *testing.T) {
	coord := term.New(2)

	fast := session.NewFakeSession()
	fast.Latency = 0
	fast.Jitter = 0

	slow := session.NewFakeSession()
	slow.Latency = 40 * time.Millisecond
	slow.Jitter = 0

	w0 := newTestWorker(0, 3, coord, fast) // remainder-holder: 5/2 -> worker 0 gets 3
	w1 := newTestWorker(1, 2, coord, slow)

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); w0.Run(ctx) }()
	go func() { defer wg.Done(); w1.Run(ctx) }()
	wg.Wait()

	if err := coord.AwaitStopped(context.Background()); err != nil {
		t.Fatalf("AwaitStopped: %v", err)
	}

	got := w0.Metrics.TotalCount() + w1.Metrics.TotalCount()
	if got != 5 {
		t.Fatalf("expected 5 total submissions across both workers, got %d (w0=%d w1=%d)",
			got, w0.Metrics.TotalCount(), w1.Metrics.TotalCount())
	}
	if w1.Metrics.TotalCount() != 2 {
		t.Fatalf("slow worker should have submitted its full share of 2, got %d", w1.Metrics.TotalCount())
	}
	if coord.Reason() != "iteration count reached" {
		t.Fatalf("expected aggregate completion reason, got %q", coord.Reason())
	}
	if coord.State() != term.Stopped {
		t.Fatalf("expected Stopped, got %s", coord.State())
	}
}

// TestWorkerReachingQuotaAloneDoesNotStopCoordinator pins the core
// assertion from the bug report: one worker finishing its own share must
// not move the shared coordinator out of Running while a sibling is still
// mid-flight.
func TestWorkerReachingQuotaAloneDoesNotStopCoordinator(t *testing.T) {
	coord := term.New(2)

	fast := session.NewFakeSession()
	fast.Latency = 0
	fast.Jitter = 0

	w0 := newTestWorker(0, 1, coord, fast)

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		w0.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("worker 0 never finished its single-op share")
	}

	if coord.Cancelled() {
		t.Fatalf("coordinator must stay Running while worker 1 has not reached its own quota")
	}
}

// TestWorkerKeySpaceExhaustionIsGlobal confirms the shared-iterator
// exception: because every worker pulls from the same Generator, the
// generator running dry is a legitimately global condition and should
// broadcast cancellation immediately.
func TestWorkerKeySpaceExhaustionIsGlobal(t *testing.T) {
	coord := term.New(2)
	shared := keygen.New(keygen.Sequential, "", 10, 3)
	sess := session.NewFakeSession()
	sess.Latency = time.Millisecond
	sess.Jitter = 0

	w0 := newTestWorker(0, keygen.Unbounded, coord, sess)
	w0.Keys = shared
	w1 := newTestWorker(1, keygen.Unbounded, coord, sess)
	w1.Keys = shared

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); w0.Run(ctx) }()
	go func() { defer wg.Done(); w1.Run(ctx) }()
	wg.Wait()

	if coord.Reason() != "key space exhausted" {
		t.Fatalf("expected key space exhaustion to be the stop reason, got %q", coord.Reason())
	}
}
