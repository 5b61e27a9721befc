// Package sqlite is the SQLite-backed ledger.Recorder.
//
// WAL mode is enabled on Open so reads of the audit trail never block the
// request path writing to it.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lhardev/storefront/internal/ledger"

	// Pure-Go SQLite driver; no CGO, so the binary stays trivially
	// cross-compilable.
	_ "modernc.org/sqlite"
)

// The table is append-only: one immutable row per order event.
const schema = `
CREATE TABLE IF NOT EXISTS order_events (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id       TEXT    NOT NULL,
    kind           TEXT    NOT NULL,
    amount         INTEGER NOT NULL DEFAULT 0,
    payment_status TEXT    NOT NULL DEFAULT '',
    note           TEXT    NOT NULL DEFAULT '',
    trace_id       TEXT    NOT NULL DEFAULT '',
    span_id        TEXT    NOT NULL DEFAULT '',
    created_at     TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_events_order_id ON order_events(order_id, created_at);
CREATE INDEX IF NOT EXISTS idx_order_events_trace_id ON order_events(trace_id);
`

var _ ledger.Recorder = (*Repository)(nil)

// Repository is the SQLite implementation of ledger.Recorder.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the ledger database at path and applies the
// schema. Safe for concurrent use; SQLite writes best through a single
// connection, so the pool is capped at one.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

// Record appends one event row.
func (r *Repository) Record(ctx context.Context, e *ledger.Entry) error {
	const q = `
		INSERT INTO order_events
			(order_id, kind, amount, payment_status, note, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		e.OrderID,
		string(e.Kind),
		e.Amount,
		e.PaymentStatus,
		e.Note,
		e.TraceID,
		e.SpanID,
		e.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("ledger: record %s for %q: %w", e.Kind, e.OrderID, err)
	}
	return nil
}

// ListByOrder returns the full event history of one order, oldest first.
func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]ledger.Entry, error) {
	const q = `
		SELECT order_id, kind, amount, payment_status, note, trace_id, span_id, created_at
		FROM   order_events
		WHERE  order_id = ?
		ORDER  BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("ledger: list for %q: %w", orderID, err)
	}
	defer rows.Close()

	var out []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		var at string
		if err := rows.Scan(&e.OrderID, &e.Kind, &e.Amount, &e.PaymentStatus, &e.Note, &e.TraceID, &e.SpanID, &at); err != nil {
			return nil, fmt.Errorf("ledger: scan row for %q: %w", orderID, err)
		}
		e.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("ledger: parse time %q: %w", at, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
