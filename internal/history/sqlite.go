package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nimbusdb/cstress/internal/metrics"
	"github.com/nimbusdb/cstress/internal/stresscontext"
)

// SQLiteStore is the durable Store implementation, grounded on the
// teacher's database/sql + go-sqlite3 storage idiom.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if absent) a SQLite database at path and
// applies its schema.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		workload TEXT NOT NULL,
		config TEXT NOT NULL,
		metrics TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_workload_ended ON runs(workload, ended_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("history: create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(summary RunSummary) (RunSummary, error) {
	configJSON, err := summary.MarshalConfig()
	if err != nil {
		return RunSummary{}, fmt.Errorf("history: marshal config: %w", err)
	}
	metricsJSON, err := summary.MarshalMetrics()
	if err != nil {
		return RunSummary{}, fmt.Errorf("history: marshal metrics: %w", err)
	}

	result, err := s.db.Exec(`
		INSERT INTO runs (workload, config, metrics, started_at, ended_at, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, summary.Workload, string(configJSON), string(metricsJSON), summary.StartedAt, summary.EndedAt, summary.Status)
	if err != nil {
		return RunSummary{}, fmt.Errorf("history: insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return RunSummary{}, fmt.Errorf("history: get inserted id: %w", err)
	}
	summary.ID = id
	return summary, nil
}

func (s *SQLiteStore) Get(id int64) (RunSummary, bool, error) {
	row := s.db.QueryRow(`
		SELECT id, workload, config, metrics, started_at, ended_at, status
		FROM runs
		WHERE id = ?
	`, id)
	summary, err := scanRunSummary(row)
	if err == sql.ErrNoRows {
		return RunSummary{}, false, nil
	}
	if err != nil {
		return RunSummary{}, false, fmt.Errorf("history: query by id: %w", err)
	}
	return summary, true, nil
}

func (s *SQLiteStore) Latest(workload string) (RunSummary, bool, error) {
	row := s.db.QueryRow(`
		SELECT id, workload, config, metrics, started_at, ended_at, status
		FROM runs
		WHERE workload = ?
		ORDER BY ended_at DESC
		LIMIT 1
	`, workload)
	summary, err := scanRunSummary(row)
	if err == sql.ErrNoRows {
		return RunSummary{}, false, nil
	}
	if err != nil {
		return RunSummary{}, false, fmt.Errorf("history: query latest: %w", err)
	}
	return summary, true, nil
}

func (s *SQLiteStore) History(workload string, limit int) ([]RunSummary, error) {
	query := `
		SELECT id, workload, config, metrics, started_at, ended_at, status
		FROM runs
		WHERE workload = ?
		ORDER BY ended_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query, workload)
	if err != nil {
		return nil, fmt.Errorf("history: query history: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		summary, err := scanRunSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Cleanup(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("history: retention days must be positive")
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result, err := s.db.Exec(`DELETE FROM runs WHERE ended_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: cleanup: %w", err)
	}
	return result.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner abstracts *sql.Row and *sql.Rows so scanRunSummary serves both
// Latest (single row) and History (row set).
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRunSummary(sc scanner) (RunSummary, error) {
	var summary RunSummary
	var configJSON, metricsJSON string
	if err := sc.Scan(&summary.ID, &summary.Workload, &configJSON, &metricsJSON,
		&summary.StartedAt, &summary.EndedAt, &summary.Status); err != nil {
		return RunSummary{}, err
	}

	var cfg stresscontext.RunConfig
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return RunSummary{}, fmt.Errorf("unmarshal config: %w", err)
	}
	summary.Config = &cfg

	var snap metrics.Snapshot
	if err := json.Unmarshal([]byte(metricsJSON), &snap); err != nil {
		return RunSummary{}, fmt.Errorf("unmarshal metrics: %w", err)
	}
	summary.Metrics = snap

	return summary, nil
}
