// Package sqlite provides the SQLite-backed sagalog.Repository.
//
// WAL mode keeps readers and writers from blocking each other: the
// checkout goroutine appends while an operator may be querying the
// file. The pure-Go modernc driver avoids CGO, which keeps container
// builds simple.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/srrfarms/storefront/internal/saga/sagalog"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS saga_logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Business identifier: the order id. Not UNIQUE, one row exists
    -- per transition.
    saga_id         TEXT        NOT NULL,

    status          TEXT        NOT NULL,
    current_step    TEXT        NOT NULL DEFAULT '',

    -- JSON checkout request, written once on STARTED.
    payload         TEXT,

    -- JSON array of error strings from failures and compensations.
    error_messages  TEXT        NOT NULL DEFAULT '[]',

    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',

    -- RFC3339, stored as TEXT per SQLite convention.
    updated_at      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_saga_logs_saga_id ON saga_logs(saga_id, updated_at);
CREATE INDEX IF NOT EXISTS idx_saga_logs_trace_id ON saga_logs(trace_id);
`

const timeLayout = "2006-01-02T15:04:05.999999999Z"

// Repository is the SQLite implementation of sagalog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sagalog: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sagalog: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends a log entry. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *sagalog.Entry) error {
	const q = `
		INSERT INTO saga_logs
			(saga_id, status, current_step, payload, error_messages, trace_id, span_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var payload any
	if entry.Payload != "" {
		payload = entry.Payload
	}
	_, err := r.db.ExecContext(ctx, q,
		entry.SagaID,
		string(entry.Status),
		entry.CurrentStep,
		payload,
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		entry.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("sagalog: save %q: %w", entry.SagaID, err)
	}
	return nil
}

// GetLatest returns the most recent entry for a saga, for status
// queries and crash recovery.
func (r *Repository) GetLatest(ctx context.Context, sagaID string) (*sagalog.Entry, error) {
	const q = `
		SELECT saga_id, status, current_step, COALESCE(payload, ''), error_messages,
		       trace_id, span_id, updated_at
		FROM saga_logs WHERE saga_id = ?
		ORDER BY updated_at DESC, id DESC LIMIT 1`

	var (
		e  sagalog.Entry
		ts string
	)
	err := r.db.QueryRowContext(ctx, q, sagaID).Scan(
		&e.SagaID, &e.Status, &e.CurrentStep, &e.Payload, &e.ErrorMessages,
		&e.TraceID, &e.SpanID, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sagalog: latest %q: %w", sagaID, err)
	}
	if e.UpdatedAt, err = parseTime(ts); err != nil {
		return nil, fmt.Errorf("sagalog: latest %q: %w", sagaID, err)
	}
	return &e, nil
}
