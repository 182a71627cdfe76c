package history

import (
	"testing"
	"time"
)

func TestComputeTrendRequiresMinimumPoints(t *testing.T) {
	runs := []RunSummary{
		sampleSummary("keyvalue", time.Now()),
		sampleSummary("keyvalue", time.Now()),
	}
	if _, err := ComputeTrend(runs); err == nil {
		t.Fatalf("expected an error with fewer than %d points", MinTrendPoints)
	}
}

func TestComputeTrendDetectsDegrading(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var runs []RunSummary
	for i := 0; i < 5; i++ {
		r := sampleSummary("keyvalue", base.Add(time.Duration(i)*time.Hour))
		r.Metrics.Select.P99Us = 1000 + float64(i)*500 // steadily rising p99
		runs = append(runs, r)
	}

	trend, err := ComputeTrend(runs)
	if err != nil {
		t.Fatalf("ComputeTrend: %v", err)
	}
	if trend.Direction != DirectionDegrading {
		t.Fatalf("expected degrading trend, got %s (slope=%.2f)", trend.Direction, trend.Slope)
	}
	if trend.Slope <= 0 {
		t.Fatalf("expected positive slope, got %.2f", trend.Slope)
	}
}

func TestComputeTrendDetectsImproving(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var runs []RunSummary
	for i := 0; i < 5; i++ {
		r := sampleSummary("keyvalue", base.Add(time.Duration(i)*time.Hour))
		r.Metrics.Select.P99Us = 5000 - float64(i)*500 // steadily falling p99
		runs = append(runs, r)
	}

	trend, err := ComputeTrend(runs)
	if err != nil {
		t.Fatalf("ComputeTrend: %v", err)
	}
	if trend.Direction != DirectionImproving {
		t.Fatalf("expected improving trend, got %s (slope=%.2f)", trend.Direction, trend.Slope)
	}
}

func TestComputeTrendDetectsStable(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var runs []RunSummary
	for i := 0; i < 4; i++ {
		r := sampleSummary("keyvalue", base.Add(time.Duration(i)*time.Hour))
		r.Metrics.Select.P99Us = 1000
		runs = append(runs, r)
	}

	trend, err := ComputeTrend(runs)
	if err != nil {
		t.Fatalf("ComputeTrend: %v", err)
	}
	if trend.Direction != DirectionStable {
		t.Fatalf("expected stable trend, got %s (slope=%.2f)", trend.Direction, trend.Slope)
	}
	if trend.RSquared != 1.0 {
		t.Fatalf("expected R²=1 for constant data with ssTot=0, got %.3f", trend.RSquared)
	}
}
