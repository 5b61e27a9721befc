// Package ledger defines the append-only audit trail of order events.
//
// Every state change an order goes through — creation, deferred payment,
// administrative status change, deletion — is recorded as an immutable row.
// The order document itself only keeps its own transaction list; the ledger
// is the cross-order history an operator can query after the fact, and each
// row carries the trace identifiers of the request that caused it so a row
// can be joined with the distributed trace.
package ledger

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Kind classifies an order event.
type Kind string

const (
	KindOrderCreated    Kind = "ORDER_CREATED"
	KindDeferredPayment Kind = "DEFERRED_PAYMENT"
	KindStatusChanged   Kind = "STATUS_CHANGED"
	KindOrderDeleted    Kind = "ORDER_DELETED"
)

// Entry is one row in the audit trail.
type Entry struct {
	// OrderID joins the row with the order document.
	OrderID string

	Kind Kind

	// Amount is the money moved by this event; zero for non-payment events.
	Amount int64

	// PaymentStatus is the order's derived status after the event.
	PaymentStatus string

	// Note carries event-specific detail, e.g. the new admin status.
	Note string

	// TraceID / SpanID identify the request that caused the event.
	// Empty when no span was active (unit tests, CLI tooling).
	TraceID string
	SpanID  string

	At time.Time
}

// Recorder is the port for persisting ledger entries. Append-only: each call
// adds a row, nothing is ever updated.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
}

// NewEntry builds an entry stamped with the current time and whatever trace
// identifiers are active on ctx.
func NewEntry(ctx context.Context, orderID string, kind Kind, amount int64, paymentStatus, note string) *Entry {
	e := &Entry{
		OrderID:       orderID,
		Kind:          kind,
		Amount:        amount,
		PaymentStatus: paymentStatus,
		Note:          note,
		At:            time.Now().UTC(),
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		e.TraceID = sc.TraceID().String()
		e.SpanID = sc.SpanID().String()
	}
	return e
}
