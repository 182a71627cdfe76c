package history

import "fmt"

// DefaultRegressionThresholdPct is the delta beyond which a metric is
// flagged as a regression or improvement absent an explicit override
// (SPEC_FULL.md §4.11).
const DefaultRegressionThresholdPct = 5.0

// Verdict classifies a single metric's delta between two runs.
type Verdict string

const (
	VerdictRegression  Verdict = "regression"
	VerdictImprovement Verdict = "improvement"
	VerdictStable      Verdict = "stable"
)

// MetricDelta reports how one metric moved between a baseline and a
// candidate run.
type MetricDelta struct {
	Name       string
	Baseline   float64
	Candidate  float64
	DeltaPct   float64
	Verdict    Verdict
	HigherIsGood bool
}

// Comparison is the full delta report between two RunSummary rows
// (SPEC_FULL.md §4.11).
type Comparison struct {
	Baseline  RunSummary
	Candidate RunSummary
	Deltas    []MetricDelta
}

// Compare builds a Comparison of candidate against baseline across
// throughput, p99 latency, and error rate, flagging each against
// thresholdPct (DefaultRegressionThresholdPct if thresholdPct <= 0).
func Compare(baseline, candidate RunSummary, thresholdPct float64) Comparison {
	if thresholdPct <= 0 {
		thresholdPct = DefaultRegressionThresholdPct
	}

	bThroughput := throughput(baseline)
	cThroughput := throughput(candidate)
	bP99 := weightedP99(baseline)
	cP99 := weightedP99(candidate)
	bErrRate := errorRate(baseline)
	cErrRate := errorRate(candidate)

	return Comparison{
		Baseline:  baseline,
		Candidate: candidate,
		Deltas: []MetricDelta{
			buildDelta("throughput_ops_sec", bThroughput, cThroughput, thresholdPct, true),
			buildDelta("p99_latency_us", bP99, cP99, thresholdPct, false),
			buildDelta("error_rate", bErrRate, cErrRate, thresholdPct, false),
		},
	}
}

func buildDelta(name string, baseline, candidate, thresholdPct float64, higherIsGood bool) MetricDelta {
	deltaPct := 0.0
	if baseline != 0 {
		deltaPct = (candidate - baseline) / baseline * 100
	} else if candidate != 0 {
		deltaPct = 100
	}

	verdict := VerdictStable
	moveIsGood := deltaPct > 0 == higherIsGood
	if absFloat(deltaPct) >= thresholdPct {
		if moveIsGood {
			verdict = VerdictImprovement
		} else {
			verdict = VerdictRegression
		}
	}

	return MetricDelta{
		Name:         name,
		Baseline:     baseline,
		Candidate:    candidate,
		DeltaPct:     deltaPct,
		Verdict:      verdict,
		HigherIsGood: higherIsGood,
	}
}

// throughput sums the per-second rates of every successful-operation timer.
func throughput(s RunSummary) float64 {
	return s.Metrics.Select.Rate1Sec + s.Metrics.Mutation.Rate1Sec + s.Metrics.Delete.Rate1Sec
}

// weightedP99 reports the sample-weighted p99 across the three measured
// timers, so a comparison isn't dominated by whichever bucket happens to
// report the largest raw p99.
func weightedP99(s RunSummary) float64 {
	total := s.Metrics.Select.Count + s.Metrics.Mutation.Count + s.Metrics.Delete.Count
	if total == 0 {
		return 0
	}
	weighted := float64(s.Metrics.Select.Count)*s.Metrics.Select.P99Us +
		float64(s.Metrics.Mutation.Count)*s.Metrics.Mutation.P99Us +
		float64(s.Metrics.Delete.Count)*s.Metrics.Delete.P99Us
	return weighted / float64(total)
}

func errorRate(s RunSummary) float64 {
	total := s.Metrics.Select.Count + s.Metrics.Mutation.Count + s.Metrics.Delete.Count + s.Metrics.Errors.Count
	if total == 0 {
		return 0
	}
	return float64(s.Metrics.Errors.Count) / float64(total)
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// String renders a MetricDelta as a single report line.
func (d MetricDelta) String() string {
	return fmt.Sprintf("%-20s baseline=%.2f candidate=%.2f delta=%+.2f%% [%s]",
		d.Name, d.Baseline, d.Candidate, d.DeltaPct, d.Verdict)
}
