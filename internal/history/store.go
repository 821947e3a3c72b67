package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"goldenhash/internal/config"
	"goldenhash/internal/fixture"
	"goldenhash/internal/manifest"
)

// Store manages the run ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one fingerprint pass as recorded in the ledger.
type Run struct {
	ID            string
	Command       string
	StartedAt     time.Time
	FinishedAt    time.Time
	AllowSalvage  bool
	WroteManifest bool
	Records       []manifest.Record
	Failures      []*fixture.Failure
}

// RunSummary is a ledger row without its fixtures.
type RunSummary struct {
	ID            string    `json:"id"`
	Command       string    `json:"command"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	AllowSalvage  bool      `json:"allow_salvage"`
	WroteManifest bool      `json:"wrote_manifest"`
	RecordCount   int       `json:"record_count"`
	FailureCount  int       `json:"failure_count"`
}

// HashEntry is one recorded hash of a fixture.
type HashEntry struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Kind      manifest.Kind `json:"kind"`
	Hash      string        `json:"hash"`
	Path      string        `json:"path,omitempty"`
}

// Open initializes or connects to the ledger database.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := strings.TrimSpace(cfg.Paths.HistoryDB)
	if dbPath == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores run and its fixtures in one transaction.
func (s *Store) Record(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id cannot be empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, command, started_at, finished_at, allow_salvage, wrote_manifest, record_count, failure_count
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Command,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		boolToInt(run.AllowSalvage),
		boolToInt(run.WroteManifest),
		len(run.Records),
		len(run.Failures),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, rec := range run.Records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fixture_hashes (run_id, name, kind, hash, path) VALUES (?, ?, ?, ?, ?)`,
			run.ID, rec.Name, string(rec.Kind), rec.Hash, nullableString(rec.Path()),
		); err != nil {
			return fmt.Errorf("insert fixture %s: %w", rec.Name, err)
		}
	}
	for _, failure := range run.Failures {
		message := ""
		if failure.Err != nil {
			message = failure.Err.Error()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fixture_failures (run_id, name, path, kind, reason, message) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, failure.Name, nullableString(failure.Path), string(failure.Kind),
			nullableString(string(failure.Reason)), nullableString(message),
		); err != nil {
			return fmt.Errorf("insert failure %s: %w", failure.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, started_at, finished_at, allow_salvage, wrote_manifest, record_count, failure_count
         FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			summary             RunSummary
			started, finished   string
			salvage, wroteValue int
		)
		if err := rows.Scan(&summary.ID, &summary.Command, &started, &finished, &salvage, &wroteValue,
			&summary.RecordCount, &summary.FailureCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		summary.StartedAt = parseTime(started)
		summary.FinishedAt = parseTime(finished)
		summary.AllowSalvage = salvage != 0
		summary.WroteManifest = wroteValue != 0
		out = append(out, summary)
	}
	return out, rows.Err()
}

// FixtureHashes returns up to limit recorded hashes for name, newest first.
func (s *Store) FixtureHashes(ctx context.Context, name string, limit int) ([]HashEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT h.run_id, r.started_at, h.kind, h.hash, COALESCE(h.path, '')
         FROM fixture_hashes h JOIN runs r ON r.id = h.run_id
         WHERE h.name = ? ORDER BY r.started_at DESC, r.rowid DESC LIMIT ?`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("query fixture hashes: %w", err)
	}
	defer rows.Close()

	var out []HashEntry
	for rows.Next() {
		var (
			entry   HashEntry
			started string
			kind    string
		)
		if err := rows.Scan(&entry.RunID, &started, &kind, &entry.Hash, &entry.Path); err != nil {
			return nil, fmt.Errorf("scan fixture hash: %w", err)
		}
		entry.StartedAt = parseTime(started)
		entry.Kind = manifest.Kind(kind)
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prune tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const stale = `SELECT id FROM runs WHERE id NOT IN (
            SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?
        )`
	for _, table := range []string{"fixture_hashes", "fixture_failures"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id IN ("+stale+")", keep); err != nil {
			return 0, fmt.Errorf("prune %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id IN ("+stale+")", keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return removed, nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
