// Package issuestore rolls grouped events up into issues. The grouping hash
// is the issue identity: recording an event either creates an issue or bumps
// the existing one's occurrence count and last-seen time.
//
// SQLite in WAL mode keeps the store usable from several writers at once.
package issuestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/knot/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no issue exists for a hash.
var ErrNotFound = errors.New("issue not found")

// Issue is one rolled-up group of events.
type Issue struct {
	ID               string
	Project          string
	Hash             string
	Key              []string
	Summary          string
	AlgorithmVersion int
	Count            int64
	FirstSeen        time.Time
	LastSeen         time.Time
}

// Store manages SQLite persistence for issues.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database and initializes the schema.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS issues (
		id         TEXT PRIMARY KEY,
		project    TEXT NOT NULL,
		hash       TEXT NOT NULL UNIQUE,
		key        TEXT NOT NULL,
		summary    TEXT NOT NULL DEFAULT '',
		algo_ver   INTEGER NOT NULL DEFAULT 0,
		count      INTEGER NOT NULL DEFAULT 0,
		first_seen TEXT NOT NULL,
		last_seen  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project, last_seen);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record upserts the issue for a grouped event: insert on first sight,
// otherwise count++ and last_seen refresh. Key, summary, and version are
// kept from the first occurrence; regrouping under a newer algorithm
// version produces a new hash and therefore a new issue.
func (s *Store) Record(ctx context.Context, ev model.GroupedEvent) error {
	keyJSON, err := json.Marshal(ev.Key)
	if err != nil {
		return fmt.Errorf("issuestore: marshal key: %w", err)
	}
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	now := ts.UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO issues (id, project, hash, key, summary, algo_ver, count, first_seen, last_seen)
		 VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET
			count = count + 1,
			last_seen = MAX(last_seen, excluded.last_seen)`,
		uuid.NewString(), ev.Project, ev.Hash, string(keyJSON), ev.Summary, ev.AlgorithmVersion, now, now,
	)
	if err != nil {
		return fmt.Errorf("issuestore: record: %w", err)
	}
	return nil
}

// ByHash retrieves the issue a grouping hash resolves to.
func (s *Store) ByHash(ctx context.Context, hash string) (*Issue, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project, hash, key, summary, algo_ver, count, first_seen, last_seen
		 FROM issues WHERE hash = ?`, hash)
	return scanIssue(row)
}

// Recent returns up to n issues for a project, most recently seen first.
func (s *Store) Recent(ctx context.Context, project string, n int) ([]*Issue, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project, hash, key, summary, algo_ver, count, first_seen, last_seen
		 FROM issues WHERE project = ? ORDER BY last_seen DESC LIMIT ?`, project, n)
	if err != nil {
		return nil, fmt.Errorf("issuestore: recent: %w", err)
	}
	defer rows.Close()

	var issues []*Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIssue(row scanner) (*Issue, error) {
	var issue Issue
	var keyJSON, firstSeen, lastSeen string
	err := row.Scan(&issue.ID, &issue.Project, &issue.Hash, &keyJSON, &issue.Summary,
		&issue.AlgorithmVersion, &issue.Count, &firstSeen, &lastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("issuestore: scan: %w", err)
	}
	if err := json.Unmarshal([]byte(keyJSON), &issue.Key); err != nil {
		return nil, fmt.Errorf("issuestore: decode key: %w", err)
	}
	if issue.FirstSeen, err = time.Parse(time.RFC3339Nano, firstSeen); err != nil {
		return nil, fmt.Errorf("issuestore: parse first_seen: %w", err)
	}
	if issue.LastSeen, err = time.Parse(time.RFC3339Nano, lastSeen); err != nil {
		return nil, fmt.Errorf("issuestore: parse last_seen: %w", err)
	}
	return &issue, nil
}
