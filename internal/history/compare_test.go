package history

import (
	"testing"
	"time"
)

func TestCompareAgainstSelfIsStable(t *testing.T) {
	run := sampleSummary("keyvalue", time.Now())
	cmp := Compare(run, run, 0)

	for _, d := range cmp.Deltas {
		if d.DeltaPct != 0 {
			t.Fatalf("metric %s: expected 0%% delta against self, got %.2f", d.Name, d.DeltaPct)
		}
		if d.Verdict != VerdictStable {
			t.Fatalf("metric %s: expected stable verdict against self, got %s", d.Name, d.Verdict)
		}
	}
}

func TestCompareFlagsThroughputRegression(t *testing.T) {
	baseline := sampleSummary("keyvalue", time.Now())
	candidate := sampleSummary("keyvalue", time.Now())
	candidate.Metrics.Select.Rate1Sec = baseline.Metrics.Select.Rate1Sec * 0.5 // halved throughput

	cmp := Compare(baseline, candidate, 5)

	found := false
	for _, d := range cmp.Deltas {
		if d.Name != "throughput_ops_sec" {
			continue
		}
		found = true
		if d.Verdict != VerdictRegression {
			t.Fatalf("expected throughput regression, got %s (delta=%.2f%%)", d.Verdict, d.DeltaPct)
		}
	}
	if !found {
		t.Fatalf("throughput_ops_sec delta missing from comparison")
	}
}

func TestCompareFlagsLatencyImprovement(t *testing.T) {
	baseline := sampleSummary("keyvalue", time.Now())
	candidate := sampleSummary("keyvalue", time.Now())
	candidate.Metrics.Select.P99Us = baseline.Metrics.Select.P99Us * 0.5

	cmp := Compare(baseline, candidate, 5)

	for _, d := range cmp.Deltas {
		if d.Name == "p99_latency_us" && d.Verdict != VerdictImprovement {
			t.Fatalf("expected p99 latency improvement, got %s", d.Verdict)
		}
	}
}

func TestCompareDefaultThreshold(t *testing.T) {
	baseline := sampleSummary("keyvalue", time.Now())
	candidate := sampleSummary("keyvalue", time.Now())
	// 1% move is within the default 5% threshold: should stay stable.
	candidate.Metrics.Select.Rate1Sec = baseline.Metrics.Select.Rate1Sec * 1.01

	cmp := Compare(baseline, candidate, 0)
	for _, d := range cmp.Deltas {
		if d.Name == "throughput_ops_sec" && d.Verdict != VerdictStable {
			t.Fatalf("expected stable within default threshold, got %s (delta=%.2f%%)", d.Verdict, d.DeltaPct)
		}
	}
}
