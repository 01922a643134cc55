package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusFailed  = "failed"
)

// ErrNoRuns is returned when no run matches a lookup.
var ErrNoRuns = errors.New("no recorded runs")

// timeLayout sorts lexically in the same order as the times it encodes.
const timeLayout = "2006-01-02 15:04:05.000000000"

type Run struct {
	ID        string
	Document  string
	Target    string
	Status    string
	Message   string
	CreatedAt time.Time
}

// Dependency is a file a run read. Article and Section are set for included
// sections.
type Dependency struct {
	Path    string
	Article string
	Section string
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// RecordRun stores run with its dependencies. ID and CreatedAt are filled
// in when empty; the stored run is returned.
func (s *Store) RecordRun(run Run, deps []Dependency) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return Run{}, fmt.Errorf("beginning run insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, document, target, status, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Document, run.Target, run.Status, run.Message, run.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	for _, d := range deps {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO dependencies (run_id, path, article, section) VALUES (?, ?, ?, ?)`,
			run.ID, d.Path, d.Article, d.Section,
		)
		if err != nil {
			return Run{}, fmt.Errorf("inserting dependency %s: %w", d.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recent run exporting document to target.
func (s *Store) LatestRun(document, target string) (Run, error) {
	row := s.db.QueryRow(
		`SELECT id, document, target, status, message, created_at FROM runs
		 WHERE document = ? AND target = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		document, target,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w for %s (%s)", ErrNoRuns, document, target)
	}
	return run, err
}

// Dependencies returns the dependencies of a run in insertion order.
func (s *Store) Dependencies(runID string) ([]Dependency, error) {
	rows, err := s.db.Query(
		`SELECT path, article, section FROM dependencies WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying dependencies: %w", err)
	}
	defer rows.Close()

	var deps []Dependency
	for rows.Next() {
		var d Dependency
		if err := rows.Scan(&d.Path, &d.Article, &d.Section); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, document, target, status, message, created_at FROM runs
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var created string
	if err := row.Scan(&run.ID, &run.Document, &run.Target, &run.Status, &run.Message, &created); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("parsing created_at of run %s: %w", run.ID, err)
	}
	run.CreatedAt = t
	return run, nil
}
