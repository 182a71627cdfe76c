package history

import (
	"testing"
	"time"

	"github.com/nimbusdb/cstress/internal/metrics"
	"github.com/nimbusdb/cstress/internal/stresscontext"
)

func sampleSummary(workload string, endedAt time.Time) RunSummary {
	return RunSummary{
		Workload: workload,
		Config: &stresscontext.RunConfig{
			Workload:   workload,
			Iterations: 1000,
			Threads:    4,
		},
		Metrics: metrics.Snapshot{
			Select: metrics.TimerSnapshot{Count: 500, P99Us: 1200, Rate1Sec: 100},
		},
		StartedAt: endedAt.Add(-time.Minute),
		EndedAt:   endedAt,
		Status:    "completed",
	}
}

func TestMemoryStoreSaveRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	saved, err := store.Save(sampleSummary("keyvalue", base))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected non-zero ID")
	}

	latest, found, err := store.Latest("keyvalue")
	if err != nil || !found {
		t.Fatalf("Latest: found=%v err=%v", found, err)
	}
	if latest.Metrics.Select.Count != 500 {
		t.Fatalf("round-trip mismatch: got %d", latest.Metrics.Select.Count)
	}
	if latest.Config.Threads != 4 {
		t.Fatalf("config round-trip mismatch: got %d", latest.Config.Threads)
	}
}

func TestMemoryStoreGetByID(t *testing.T) {
	store := NewMemoryStore()
	saved, err := store.Save(sampleSummary("keyvalue", time.Now()))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, found, err := store.Get(saved.ID)
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if got.Workload != "keyvalue" {
		t.Fatalf("unexpected workload: %s", got.Workload)
	}

	if _, found, _ := store.Get(saved.ID + 999); found {
		t.Fatalf("expected no row for an unused id")
	}
}

func TestMemoryStoreLatestPicksMostRecent(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	store.Save(sampleSummary("keyvalue", base))
	store.Save(sampleSummary("keyvalue", base.Add(24*time.Hour)))
	store.Save(sampleSummary("other", base.Add(48*time.Hour)))

	latest, found, err := store.Latest("keyvalue")
	if err != nil || !found {
		t.Fatalf("Latest: found=%v err=%v", found, err)
	}
	if !latest.EndedAt.Equal(base.Add(24 * time.Hour)) {
		t.Fatalf("expected the newer keyvalue run, got %v", latest.EndedAt)
	}
}

func TestMemoryStoreHistoryOrderingAndLimit(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		store.Save(sampleSummary("keyvalue", base.Add(time.Duration(i)*time.Hour)))
	}

	hist, err := store.History("keyvalue", 3)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(hist))
	}
	for i := 0; i < len(hist)-1; i++ {
		if hist[i].EndedAt.Before(hist[i+1].EndedAt) {
			t.Fatalf("expected descending order by EndedAt")
		}
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	store := NewMemoryStore()
	old := sampleSummary("keyvalue", time.Now().AddDate(0, 0, -30))
	recent := sampleSummary("keyvalue", time.Now())
	store.Save(old)
	store.Save(recent)

	removed, err := store.Cleanup(7)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	hist, _ := store.History("keyvalue", 0)
	if len(hist) != 1 {
		t.Fatalf("expected 1 remaining row, got %d", len(hist))
	}
}
