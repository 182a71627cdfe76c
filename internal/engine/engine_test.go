package engine

import (
	"context"
	"testing"
	"time"

	"github.com/nimbusdb/cstress/internal/collector"
	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/session"
	"github.com/nimbusdb/cstress/internal/stresscontext"
	"github.com/nimbusdb/cstress/internal/term"
)

func TestRunFixedIterationKeyValue(t *testing.T) {
	cfg := &stresscontext.RunConfig{
		Workload:              "keyvalue",
		Iterations:            500,
		Threads:               4,
		PartitionCount:        100,
		PartitionKeyGenerator: keygen.Uniform,
		ReadRate:              0.5,
		QueueDepth:            8,
		Populate:              stresscontext.PopulateNone,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	sess := session.NewFakeSession()
	sess.Latency = time.Millisecond
	sess.Jitter = 0

	sc, err := stresscontext.Build(cfg, collector.NewComposite(), sess)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := Run(ctx, sc, nil)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if result.FinalState != term.Stopped {
		t.Fatalf("expected Stopped, got %v", result.FinalState)
	}

	total := result.Metrics.Select.Count + result.Metrics.Mutation.Count + result.Metrics.Errors.Count
	if total != 500 {
		t.Fatalf("expected 500 total ops, got %d", total)
	}
}

func TestRunWithPopulatePhase(t *testing.T) {
	cfg := &stresscontext.RunConfig{
		Workload:              "basictimeseries",
		Iterations:            200,
		Threads:               2,
		PartitionCount:        50,
		PartitionKeyGenerator: keygen.Sequential,
		ReadRate:              0.1,
		QueueDepth:            4,
		Populate:              stresscontext.PopulateCustom,
		PopulateRows:          200,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	sess := session.NewFakeSession()
	sess.Latency = time.Microsecond * 200
	sess.Jitter = 0

	sc, err := stresscontext.Build(cfg, collector.NewComposite(), sess)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if !sc.HasPopulate {
		t.Fatal("expected populate phase to be enabled by the custom populate option")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := Run(ctx, sc, nil)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	measured := result.Metrics.Select.Count + result.Metrics.Mutation.Count + result.Metrics.Errors.Count
	if measured != 200 {
		t.Fatalf("expected 200 measured ops after populate reset, got %d", measured)
	}
}
