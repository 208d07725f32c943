package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore implements Store on database/sql. SQLite uses modernc.org/sqlite
// (pure Go, no CGO); PostgreSQL uses lib/pq.
type SQLStore struct {
	db     *sql.DB
	driver string
	mu     sync.RWMutex
	now    func() time.Time
}

// Open connects to the given driver and DSN and applies the schema.
func Open(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported history driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// WAL mode for better concurrent read performance
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	s := &SQLStore{db: db, driver: driver, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	return Open(DriverSQLite, dbPath)
}

func (s *SQLStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_runs (
		id         TEXT PRIMARY KEY,
		dialect    TEXT NOT NULL,
		source     TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		total      INTEGER NOT NULL DEFAULT 0,
		passed     INTEGER NOT NULL DEFAULT 0,
		failed     INTEGER NOT NULL DEFAULT 0,
		ratio      REAL NOT NULL DEFAULT 0,
		report     TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON audit_runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_dialect ON audit_runs(dialect);
	`
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// timeLayout is fixed-width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// rebind rewrites ? placeholders as $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a report and returns the new run.
func (s *SQLStore) SaveRun(ctx context.Context, report *compliance.ComplianceReport) (*Run, error) {
	if report == nil {
		return nil, errors.New("nil report")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	run := &Run{
		ID:        uuid.NewString(),
		Dialect:   report.Dialect,
		Source:    report.Source,
		CreatedAt: s.now().UTC(),
		Total:     report.Summary.Total,
		Passed:    report.Summary.Passed,
		Failed:    report.Summary.Failed,
		Ratio:     report.Summary.Ratio,
		Report:    report,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO audit_runs (id, dialect, source, created_at, total, passed, failed, ratio, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.Dialect, run.Source, run.CreatedAt.Format(timeLayout),
		run.Total, run.Passed, run.Failed, run.Ratio, string(data),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// GetRun retrieves a run, including its full report, by ID.
func (s *SQLStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, dialect, source, created_at, total, passed, failed, ratio, report
		 FROM audit_runs WHERE id = ?`), id)

	var (
		run       Run
		createdAt string
		report    string
	)
	err := row.Scan(&run.ID, &run.Dialect, &run.Source, &createdAt,
		&run.Total, &run.Passed, &run.Failed, &run.Ratio, &report)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt, _ = time.Parse(timeLayout, createdAt)

	var r compliance.ComplianceReport
	if err := json.Unmarshal([]byte(report), &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	run.Report = &r
	return &run, nil
}

// ListRuns returns run summaries, newest first. Reports are not loaded.
func (s *SQLStore) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, dialect, source, created_at, total, passed, failed, ratio FROM audit_runs WHERE 1=1"
	var args []interface{}

	if filter.Dialect != "" {
		query += " AND dialect = ?"
		args = append(args, filter.Dialect)
	}
	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Dialect, &run.Source, &createdAt,
			&run.Total, &run.Passed, &run.Failed, &run.Ratio); err != nil {
			return nil, err
		}
		run.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run.
func (s *SQLStore) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM audit_runs WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
