package dispatch

import (
	"sync"
	"testing"
	"time"
)

func TestGateAcquireBlocksAtCapacity(t *testing.T) {
	g := NewGate(2)
	g.Acquire()
	g.Acquire()

	acquired := make(chan struct{})
	go func() {
		g.Acquire()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatalf("Acquire should have blocked at capacity")
	case <-time.After(50 * time.Millisecond):
	}

	g.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("Acquire did not unblock after Release")
	}
}

func TestGateDrainWaitsForOutstanding(t *testing.T) {
	g := NewGate(8)
	for i := 0; i < 5; i++ {
		g.Acquire()
	}

	drained := make(chan struct{})
	go func() {
		g.Drain()
		close(drained)
	}()

	select {
	case <-drained:
		t.Fatalf("Drain returned before all slots were released")
	case <-time.After(30 * time.Millisecond):
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Release()
		}()
	}
	wg.Wait()

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatalf("Drain did not return once all slots were released")
	}
}

func TestGateUnboundedForNonPositiveDepth(t *testing.T) {
	g := NewGate(0)
	for i := 0; i < 1000; i++ {
		g.Acquire()
	}
	if g.Len() != 1000 {
		t.Fatalf("expected 1000 outstanding acquires, got %d", g.Len())
	}
}
