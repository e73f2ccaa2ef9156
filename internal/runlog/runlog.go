// Package runlog records simulation runs and their sampled metrics in a
// SQLite database, so runs under different engines, worker counts, and grid
// sizes can be compared after the fact.
package runlog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a queried run does not exist.
var ErrNotFound = errors.New("runlog: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    engine TEXT NOT NULL,
    grid_rows INTEGER NOT NULL,
    grid_cols INTEGER NOT NULL,
    workers INTEGER NOT NULL,
    seed INTEGER NOT NULL,
    fill REAL NOT NULL,
    pattern TEXT NOT NULL,
    generations INTEGER NOT NULL DEFAULT 0,
    final_live INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS samples (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    generation INTEGER NOT NULL,
    live INTEGER NOT NULL,
    live_delta INTEGER NOT NULL,
    step_ms REAL NOT NULL,
    tick_ms REAL NOT NULL,
    tps REAL NOT NULL,
    avg_tps REAL NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(id)
);
`

// RunMeta describes one driver invocation.
type RunMeta struct {
	Engine  string
	Rows    int
	Cols    int
	Workers int
	Seed    int64
	Fill    float64
	Pattern string
}

// Sample is one metrics observation within a run.
type Sample struct {
	Generation uint64
	Live       int
	LiveDelta  int
	StepMillis float64 // time spent inside the generation step
	TickMillis float64 // whole tick including pacing
	TPS        float64 // generations per second since the last sample
	AvgTPS     float64 // generations per second since the run started
}

// Summary closes out a run row.
type Summary struct {
	Generations uint64
	FinalLive   int
}

// Run is a recorded run with its metadata and final counters. FinishedAt is
// the zero time while the run is still open.
type Run struct {
	ID          int64
	Meta        RunMeta
	StartedAt   time.Time
	FinishedAt  time.Time
	Generations uint64
	FinalLive   int
}

// Log is a handle on the recording database.
type Log struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("runlog: applying schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close releases the database handle.
func (l *Log) Close() error {
	return l.db.Close()
}

// StartRun inserts a new run row and returns its id.
func (l *Log) StartRun(meta RunMeta) (int64, error) {
	res, err := l.db.Exec(
		"INSERT INTO runs (started_at, engine, grid_rows, grid_cols, workers, seed, fill, pattern) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339Nano),
		meta.Engine, meta.Rows, meta.Cols, meta.Workers, meta.Seed, meta.Fill, meta.Pattern,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Record appends one sample to a run.
func (l *Log) Record(runID int64, s Sample) error {
	_, err := l.db.Exec(
		"INSERT INTO samples (run_id, generation, live, live_delta, step_ms, tick_ms, tps, avg_tps) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		runID, int64(s.Generation), s.Live, s.LiveDelta, s.StepMillis, s.TickMillis, s.TPS, s.AvgTPS,
	)
	return err
}

// FinishRun stamps the end time and final counters on a run.
func (l *Log) FinishRun(runID int64, sum Summary) error {
	res, err := l.db.Exec(
		"UPDATE runs SET finished_at = ?, generations = ?, final_live = ? WHERE id = ?",
		time.Now().UTC().Format(time.RFC3339Nano),
		int64(sum.Generations), sum.FinalLive, runID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Run fetches one recorded run.
func (l *Log) Run(id int64) (*Run, error) {
	var (
		r          Run
		started    string
		finished   sql.NullString
		generation int64
	)
	err := l.db.QueryRow(
		"SELECT id, started_at, finished_at, engine, grid_rows, grid_cols, workers, seed, fill, pattern, generations, final_live FROM runs WHERE id = ?",
		id,
	).Scan(&r.ID, &started, &finished, &r.Meta.Engine, &r.Meta.Rows, &r.Meta.Cols,
		&r.Meta.Workers, &r.Meta.Seed, &r.Meta.Fill, &r.Meta.Pattern, &generation, &r.FinalLive)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.Generations = uint64(generation)
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("runlog: parsing started_at: %w", err)
	}
	if finished.Valid {
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
			return nil, fmt.Errorf("runlog: parsing finished_at: %w", err)
		}
	}
	return &r, nil
}

// Samples returns a run's samples in generation order.
func (l *Log) Samples(runID int64) ([]Sample, error) {
	rows, err := l.db.Query(
		"SELECT generation, live, live_delta, step_ms, tick_ms, tps, avg_tps FROM samples WHERE run_id = ? ORDER BY generation",
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var (
			s          Sample
			generation int64
		)
		if err := rows.Scan(&generation, &s.Live, &s.LiveDelta, &s.StepMillis, &s.TickMillis, &s.TPS, &s.AvgTPS); err != nil {
			return nil, err
		}
		s.Generation = uint64(generation)
		samples = append(samples, s)
	}
	return samples, nil
}
