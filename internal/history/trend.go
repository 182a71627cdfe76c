package history

import "fmt"

// MinTrendPoints is the fewest historical runs a Trend can be computed
// from (SPEC_FULL.md §4.11).
const MinTrendPoints = 3

// Direction classifies a trend's slope.
type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionDegrading Direction = "degrading"
	DirectionStable    Direction = "stable"
)

// stableSlopeThreshold is the per-run p99 slope (microseconds per run)
// below which a trend is reported as stable rather than improving or
// degrading.
const stableSlopeThreshold = 1.0

// Trend reports a least-squares fit of p99 latency over a sequence of
// historical runs, ordered oldest to newest.
type Trend struct {
	Workload  string
	Points    int
	Slope     float64 // microseconds of p99 per run
	Intercept float64
	RSquared  float64
	Direction Direction
}

// ComputeTrend fits a line to p99 latency across runs, which must already
// be ordered oldest to newest and share a workload. Returns an error if
// fewer than MinTrendPoints runs are supplied.
func ComputeTrend(runs []RunSummary) (Trend, error) {
	if len(runs) < MinTrendPoints {
		return Trend{}, fmt.Errorf("history: need at least %d runs for a trend, got %d", MinTrendPoints, len(runs))
	}

	n := float64(len(runs))
	var sumX, sumY, sumXY, sumXX float64
	for i, r := range runs {
		x := float64(i)
		y := weightedP99(r)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	meanX := sumX / n
	meanY := sumY / n

	denom := sumXX - n*meanX*meanX
	var slope float64
	if denom != 0 {
		slope = (sumXY - n*meanX*meanY) / denom
	}
	intercept := meanY - slope*meanX

	var ssTot, ssRes float64
	for i, r := range runs {
		x := float64(i)
		y := weightedP99(r)
		pred := intercept + slope*x
		ssRes += (y - pred) * (y - pred)
		ssTot += (y - meanY) * (y - meanY)
	}
	rSquared := 1.0
	if ssTot != 0 {
		rSquared = 1 - ssRes/ssTot
	}

	direction := DirectionStable
	switch {
	case slope > stableSlopeThreshold:
		direction = DirectionDegrading
	case slope < -stableSlopeThreshold:
		direction = DirectionImproving
	}

	return Trend{
		Workload:  runs[0].Workload,
		Points:    len(runs),
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared,
		Direction: direction,
	}, nil
}

func (t Trend) String() string {
	return fmt.Sprintf("workload=%s points=%d slope=%.3fus/run r2=%.3f direction=%s",
		t.Workload, t.Points, t.Slope, t.RSquared, t.Direction)
}
