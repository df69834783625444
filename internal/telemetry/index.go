package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"lifegrid/internal/sims/survival"
)

// Index keeps per-tick statistics of every run in a SQLite database so runs
// can be compared after the fact.
type Index struct {
	db  *sql.DB
	log *slog.Logger

	mu     sync.Mutex
	runID  int64
	insert *sql.Stmt
	err    error
}

// RunSummary aggregates a run's ticks.
type RunSummary struct {
	RunID      int64
	Seed       int64
	Ticks      int
	PeakLiving int
	MaxOldest  int
	Births     int
	Deaths     int
	Consumed   int
}

// OpenIndex opens or creates the database at path.
func OpenIndex(path string, logger *slog.Logger) (*Index, error) {
	if path == "" {
		return nil, errors.New("empty index path")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db, log: logger}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			run_id INTEGER NOT NULL REFERENCES runs(run_id),
			tick INTEGER NOT NULL,
			living INTEGER NOT NULL,
			dead INTEGER NOT NULL,
			oldest_living INTEGER NOT NULL,
			births INTEGER NOT NULL,
			deaths INTEGER NOT NULL,
			consumed INTEGER NOT NULL,
			PRIMARY KEY (run_id, tick)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// BeginRun registers a new run; subsequent ticks are stored under it.
func (ix *Index) BeginRun(ctx context.Context, cfg survival.Config) (int64, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	res, err := ix.db.ExecContext(ctx,
		`INSERT INTO runs (seed, width, height, started_at) VALUES (?, ?, ?, ?)`,
		cfg.Seed, cfg.Width, cfg.Height, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if ix.insert == nil {
		ix.insert, err = ix.db.PrepareContext(ctx,
			`INSERT OR REPLACE INTO ticks (run_id, tick, living, dead, oldest_living, births, deaths, consumed)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
	}
	ix.runID = id
	return id, nil
}

// RunID returns the run ticks are currently recorded under.
func (ix *Index) RunID() int64 {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.runID
}

// Record stores one tick for the current run.
func (ix *Index) Record(r Record) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.insert == nil {
		return errors.New("index: no run started")
	}
	_, err := ix.insert.Exec(ix.runID, r.Tick, r.Living, r.Dead, r.OldestLiving, r.Births, r.Deaths, r.Consumed)
	return err
}

// ReportPopulation is a no-op; the full record arrives through ObserveTick.
func (ix *Index) ReportPopulation(int, int) {}

// RecordOldestLiving is a no-op; the full record arrives through ObserveTick.
func (ix *Index) RecordOldestLiving(int) {}

// ObserveTick stores the tick, logging the first failure.
func (ix *Index) ObserveTick(s survival.Stats) {
	if err := ix.Record(RecordFromStats(s)); err != nil {
		ix.mu.Lock()
		first := ix.err == nil
		if first {
			ix.err = err
		}
		ix.mu.Unlock()
		if first {
			ix.log.Error("stats index write failed", "tick", s.Tick, "err", err)
		}
	}
}

// Err returns the first write error, if any.
func (ix *Index) Err() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.err
}

// Summary aggregates the ticks stored for runID.
func (ix *Index) Summary(ctx context.Context, runID int64) (RunSummary, error) {
	s := RunSummary{RunID: runID}
	err := ix.db.QueryRowContext(ctx, `SELECT seed FROM runs WHERE run_id = ?`, runID).Scan(&s.Seed)
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return s, err
	}
	err = ix.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(MAX(living), 0),
		       COALESCE(MAX(oldest_living), 0),
		       COALESCE(SUM(births), 0),
		       COALESCE(SUM(deaths), 0),
		       COALESCE(SUM(consumed), 0)
		FROM ticks WHERE run_id = ?`, runID).
		Scan(&s.Ticks, &s.PeakLiving, &s.MaxOldest, &s.Births, &s.Deaths, &s.Consumed)
	return s, err
}

// Records returns the stored ticks of runID in tick order.
func (ix *Index) Records(ctx context.Context, runID int64) ([]Record, error) {
	rows, err := ix.db.QueryContext(ctx, `
		SELECT tick, living, dead, oldest_living, births, deaths, consumed
		FROM ticks WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Tick, &r.Living, &r.Dead, &r.OldestLiving, &r.Births, &r.Deaths, &r.Consumed); err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the database.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.insert != nil {
		_ = ix.insert.Close()
		ix.insert = nil
	}
	return ix.db.Close()
}
