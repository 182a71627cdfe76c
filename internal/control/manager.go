// Package control implements the remote-control surface of spec §4.9: a
// StressTestManager enforcing single-run exclusivity via compare-and-set,
// and a line-oriented JSON transport exposing list_workloads/info/fields/
// run/status/stop.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nimbusdb/cstress/internal/collector"
	"github.com/nimbusdb/cstress/internal/engine"
	"github.com/nimbusdb/cstress/internal/history"
	"github.com/nimbusdb/cstress/internal/metrics"
	"github.com/nimbusdb/cstress/internal/session"
	"github.com/nimbusdb/cstress/internal/stresscontext"
)

// Status is the server-visible run state (spec §4.9's state machine:
// idle -> running -> {completed, stopped, failed:<msg>} -> idle).
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
)

// Failed builds the `failed:<msg>` status variant.
func Failed(msg string) Status {
	return Status(fmt.Sprintf("failed:%s", msg))
}

// Manager enforces single-run exclusivity with one atomic running flag and
// tracks the current job's metadata for the status command (spec §9:
// "one atomic running: bool, one atomic reference to the current RunConfig,
// one atomic reference to the current JobId, and one status enum").
type Manager struct {
	running atomic.Bool

	mu          sync.Mutex
	jobSeq      int
	jobID       string
	status      Status
	config      *stresscontext.RunConfig
	lastRunTime time.Time
	snapshot    metrics.Snapshot

	cancel context.CancelFunc

	history history.Store
}

// NewManager builds an idle Manager. store may be nil, in which case
// completed runs are not persisted.
func NewManager(store history.Store) *Manager {
	return &Manager{status: StatusIdle, history: store}
}

// StartResult carries the job-id assigned to an accepted run.
type StartResult struct {
	JobID string
}

// Start attempts to acquire run exclusivity via compare-and-set and, on
// success, launches the run in the background. Returns an error if a run
// is already in progress.
func (m *Manager) Start(cfg *stresscontext.RunConfig, sink collector.Collector, sess session.Session) (StartResult, error) {
	if !m.running.CompareAndSwap(false, true) {
		return StartResult{}, fmt.Errorf("control: a run is already in progress")
	}

	m.mu.Lock()
	m.jobSeq++
	jobID := fmt.Sprintf("%03d", m.jobSeq)
	m.jobID = jobID
	m.status = StatusRunning
	m.config = cfg
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	go m.run(ctx, cfg, sink, sess, jobID)

	return StartResult{JobID: jobID}, nil
}

func (m *Manager) run(ctx context.Context, cfg *stresscontext.RunConfig, sink collector.Collector, sess session.Session, jobID string) {
	defer m.running.Store(false)
	startedAt := time.Now()

	sc, err := stresscontext.Build(cfg, sink, sess)
	if err != nil {
		m.finish(cfg, Failed(err.Error()), metrics.Snapshot{}, startedAt)
		return
	}

	result, err := engine.Run(ctx, sc, slog.Default())
	if err != nil {
		m.finish(cfg, Failed(err.Error()), metrics.Snapshot{}, startedAt)
		return
	}

	switch result.Reason {
	case "external stop":
		m.finish(cfg, StatusStopped, result.Metrics, startedAt)
	case "latency SLO breach":
		m.finish(cfg, Failed("latency SLO breach"), result.Metrics, startedAt)
	default:
		m.finish(cfg, StatusCompleted, result.Metrics, startedAt)
	}
}

func (m *Manager) finish(cfg *stresscontext.RunConfig, status Status, snap metrics.Snapshot, startedAt time.Time) {
	endedAt := time.Now()
	m.mu.Lock()
	m.status = status
	m.snapshot = snap
	m.lastRunTime = endedAt
	m.mu.Unlock()

	if m.history != nil {
		if _, err := m.history.Save(history.RunSummary{
			Workload:  cfg.Workload,
			Config:    cfg,
			Metrics:   snap,
			StartedAt: startedAt,
			EndedAt:   endedAt,
			Status:    string(status),
		}); err != nil {
			slog.Default().Warn("failed to persist run summary", "error", err)
		}
	}
}

// StatusView is the read-only snapshot returned by the status command.
type StatusView struct {
	Status      Status
	JobID       string
	Config      *stresscontext.RunConfig
	Metrics     metrics.Snapshot
	LastRunTime time.Time
	Running     bool
}

// Status reports the current run state.
func (m *Manager) Status() StatusView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return StatusView{
		Status:      m.status,
		JobID:       m.jobID,
		Config:      m.config,
		Metrics:     m.snapshot,
		LastRunTime: m.lastRunTime,
		Running:     m.running.Load(),
	}
}

// Stop signals the in-progress run to terminate cleanly. Returns an error
// if no run is in progress (spec §4.9: "error if not running").
func (m *Manager) Stop() error {
	if !m.running.Load() {
		return fmt.Errorf("control: no run in progress")
	}
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}
