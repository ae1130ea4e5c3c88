// Package runlog records training runs (component, settings and held-out
// metrics) in a SQLite database. Models themselves are not persisted.
package runlog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/preprocess"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Memory opens a private in-memory database.
const Memory = ":memory:"

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("runlog: run not found")

// Run is one recorded training run.
type Run struct {
	ID           string                `json:"id"`
	Component    string                `json:"component"`
	Derivative   preprocess.Derivative `json:"derivative"`
	Latent       int                   `json:"latent"`
	Effective    int                   `json:"effective_components"`
	Seed         uint64                `json:"seed"`
	Samples      int                   `json:"samples"`
	Excluded     int                   `json:"excluded"`
	TrainSamples int                   `json:"train_samples"`
	TestSamples  int                   `json:"test_samples"`
	R2           float64               `json:"r2"`
	RMSE         float64               `json:"rmse"`
	CreatedAt    time.Time             `json:"created_at"`
}

// FromResult builds a Run from a training result. ID and CreatedAt are
// assigned by Record.
func FromResult(res *calib.Result) Run {
	return Run{
		Component:    res.Component,
		Derivative:   res.Model.Derivative(),
		Latent:       res.Model.Latent(),
		Effective:    res.Model.Components(),
		Seed:         res.Model.Seed(),
		Samples:      res.Samples,
		Excluded:     len(res.Excluded),
		TrainSamples: res.Metrics.TrainSamples,
		TestSamples:  res.Metrics.TestSamples,
		R2:           res.Metrics.R2,
		RMSE:         res.Metrics.RMSE,
	}
}

// Store is a run history backed by SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies pending
// migrations. Use Memory for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if path != Memory {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) provider() (*goose.Provider, error) {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(goose.DialectSQLite3, s.db, sub)
}

func (s *Store) migrate(ctx context.Context) error {
	p, err := s.provider()
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Version returns the applied schema version.
func (s *Store) Version(ctx context.Context) (int64, error) {
	p, err := s.provider()
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores r under a fresh ID and returns the stored copy.
func (s *Store) Record(ctx context.Context, r Run) (Run, error) {
	r.ID = uuid.New().String()
	r.CreatedAt = s.now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, component, derivative, latent, effective, seed, samples,
			excluded, train_samples, test_samples, r2, rmse, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Component, int(r.Derivative), r.Latent, r.Effective, int64(r.Seed), r.Samples,
		r.Excluded, r.TrainSamples, r.TestSamples, r.R2, r.RMSE, r.CreatedAt,
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to record run: %w", err)
	}
	return r, nil
}

// Filter narrows List.
type Filter struct {
	Component string // empty matches every component
	Limit     int    // <= 0 means no limit
}

const selectRuns = `
	SELECT id, component, derivative, latent, effective, seed, samples,
		excluded, train_samples, test_samples, r2, rmse, created_at
	FROM runs`

// List returns runs newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Run, error) {
	query := selectRuns
	var args []any
	if f.Component != "" {
		query += ` WHERE component = ?`
		args = append(args, f.Component)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r     Run
		deriv int
		seed  int64
	)
	err := sc.Scan(&r.ID, &r.Component, &deriv, &r.Latent, &r.Effective, &seed, &r.Samples,
		&r.Excluded, &r.TrainSamples, &r.TestSamples, &r.R2, &r.RMSE, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	r.Derivative = preprocess.Derivative(deriv)
	r.Seed = uint64(seed)
	return r, nil
}
