// Package journal keeps an append-only record of the mutations submitted
// through the console. It is write-behind audit only: the console never reads
// entity state from it.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// DefaultLimit caps listing queries when the caller passes no limit.
const DefaultLimit = 50

// Action names the mutation kind.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Outcome reports whether the backend accepted the mutation.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Entry is one journal line.
type Entry struct {
	ID        int64
	Resource  string
	Action    Action
	EntityID  string
	Outcome   Outcome
	Message   string
	RequestID string
	CreatedAt time.Time
}

type row struct {
	ID        int64  `db:"id"`
	Resource  string `db:"resource"`
	Action    string `db:"action"`
	EntityID  string `db:"entity_id"`
	Outcome   string `db:"outcome"`
	Message   string `db:"message"`
	RequestID string `db:"request_id"`
	CreatedAt int64  `db:"created_at"`
}

func (r row) entry() Entry {
	return Entry{
		ID:        r.ID,
		Resource:  r.Resource,
		Action:    Action(r.Action),
		EntityID:  r.EntityID,
		Outcome:   Outcome(r.Outcome),
		Message:   r.Message,
		RequestID: r.RequestID,
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS mutations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	resource   TEXT    NOT NULL,
	action     TEXT    NOT NULL,
	entity_id  TEXT    NOT NULL DEFAULT '',
	outcome    TEXT    NOT NULL,
	message    TEXT    NOT NULL DEFAULT '',
	request_id TEXT    NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS mutations_resource_idx ON mutations (resource, id);
`

// Store persists entries in sqlite.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens (creating when needed) the sqlite database at path and applies
// the schema. Use ":memory:" for a throwaway journal.
func Open(path string, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("journal: path is required")
	}
	db, err := sqlx.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)
	store, err := New(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing handle and applies the schema.
func New(db *sqlx.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("journal: db is nil")
	}
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("journal: migrate: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends entry and returns it with its id and timestamp set.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if s == nil {
		return Entry{}, errors.New("journal: store is nil")
	}
	entry.Resource = strings.TrimSpace(entry.Resource)
	if entry.Resource == "" {
		return Entry{}, errors.New("journal: resource is required")
	}
	if entry.Action == "" {
		return Entry{}, errors.New("journal: action is required")
	}
	if entry.Outcome == "" {
		entry.Outcome = OutcomeOK
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}

	const q = `INSERT INTO mutations (resource, action, entity_id, outcome, message, request_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q,
		entry.Resource, string(entry.Action), entry.EntityID, string(entry.Outcome),
		entry.Message, entry.RequestID, entry.CreatedAt.UnixMilli())
	if err != nil {
		return Entry{}, fmt.Errorf("journal: record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("journal: record id: %w", err)
	}
	entry.ID = id
	entry.CreatedAt = time.UnixMilli(entry.CreatedAt.UnixMilli()).UTC()
	return entry, nil
}

// Recent returns the newest entries first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	const q = `SELECT id, resource, action, entity_id, outcome, message, request_id, created_at
		FROM mutations ORDER BY id DESC LIMIT ?`
	return s.query(ctx, q, clampLimit(limit))
}

// ByResource returns the newest entries of one resource first.
func (s *Store) ByResource(ctx context.Context, resource string, limit int) ([]Entry, error) {
	const q = `SELECT id, resource, action, entity_id, outcome, message, request_id, created_at
		FROM mutations WHERE resource = ? ORDER BY id DESC LIMIT ?`
	return s.query(ctx, q, strings.TrimSpace(resource), clampLimit(limit))
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	if s == nil {
		return nil, errors.New("journal: store is nil")
	}
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.entry())
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
