package orders

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/lhardev/storefront/internal/ledger"
	"github.com/lhardev/storefront/internal/pkg/cache"
)

// idempotencyTTL bounds how long a replayed deferred-payment key is
// recognized as a duplicate.
const idempotencyTTL = 24 * time.Hour

// Service wires the order lifecycle to its collaborators. The ledger and
// cache are nil-safe: without a Recorder no audit rows are written, without
// a Cache deferred payments fall back to at-least-once semantics.
type Service struct {
	store  Store
	ledger ledger.Recorder
	cache  cache.Cache
	now    func() time.Time
}

func NewService(store Store, rec ledger.Recorder, c cache.Cache) *Service {
	return &Service{store: store, ledger: rec, cache: c, now: time.Now}
}

// CreateResult is the creation summary returned to the caller. The full
// order document is not echoed back; callers fetch it by id if they need it.
type CreateResult struct {
	OrderID       string
	TransactionID string
	Advance       bool
	Total         int64
	Paid          int64
	Due           int64
	Date          time.Time
}

// Create assembles an order from the draft, persists it, and records the
// audit trail.
func (s *Service) Create(ctx context.Context, d Draft) (CreateResult, error) {
	o := New(d, s.now().UTC())

	if err := s.store.Append(ctx, o); err != nil {
		return CreateResult{}, err
	}

	slog.InfoContext(ctx, "order processed",
		"order_id", o.OrderID,
		"payment_type", o.PaymentType,
		"payment_status", o.PaymentStatus,
	)
	s.record(ctx, ledger.NewEntry(ctx, o.OrderID, ledger.KindOrderCreated, o.Amounts.Paid, string(o.PaymentStatus), ""))

	return CreateResult{
		OrderID:       o.OrderID,
		TransactionID: o.TransactionID,
		Advance:       IsAdvance(o.PaymentType, o.Amounts.Paid),
		Total:         o.Amounts.Total,
		Paid:          o.Amounts.Paid,
		Due:           o.Amounts.Due,
		Date:          o.Date,
	}, nil
}

// Get returns one order or ErrOrderNotFound.
func (s *Service) Get(ctx context.Context, orderID string) (Order, error) {
	return s.store.Get(ctx, orderID)
}

// List returns all orders newest-first, the ordering the admin view wants.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// PayDeferred applies a follow-up payment to an existing order.
//
// idemKey is optional. When set and already seen for this order, the call is
// a duplicate: the stored order is returned unchanged and duplicate is true.
// The amount itself is not validated; see DESIGN.md.
func (s *Service) PayDeferred(ctx context.Context, orderID string, amount int64, idemKey string) (o Order, duplicate bool, err error) {
	key := s.idemCacheKey(orderID, idemKey)
	if key != "" {
		seen, err := s.cache.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "idempotency lookup failed, proceeding", "order_id", orderID, "error", err)
		} else if seen != "" {
			cur, err := s.store.Get(ctx, orderID)
			if err != nil {
				return Order{}, false, err
			}
			return cur, true, nil
		}
	}

	updated, err := s.store.Mutate(ctx, orderID, func(cur Order) (Order, error) {
		cur.ApplyPayment(amount, s.now().UTC())
		return cur, nil
	})
	if err != nil {
		return Order{}, false, err
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, "1", idempotencyTTL); err != nil {
			slog.WarnContext(ctx, "idempotency store failed", "order_id", orderID, "error", err)
		}
	}

	slog.InfoContext(ctx, "deferred payment recorded",
		"order_id", orderID,
		"amount", amount,
		"payment_status", updated.PaymentStatus,
		"due", updated.Amounts.Due,
	)
	s.record(ctx, ledger.NewEntry(ctx, orderID, ledger.KindDeferredPayment, amount, string(updated.PaymentStatus), ""))

	return updated, false, nil
}

// SetStatus overwrites the operator-set status field. The derived
// paymentStatus is deliberately untouched; the two channels are independent.
func (s *Service) SetStatus(ctx context.Context, orderID, status string) error {
	updated, err := s.store.Mutate(ctx, orderID, func(cur Order) (Order, error) {
		cur.Status = status
		return cur, nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "order status updated", "order_id", orderID, "status", status)
	s.record(ctx, ledger.NewEntry(ctx, orderID, ledger.KindStatusChanged, 0, string(updated.PaymentStatus), status))
	return nil
}

// Delete removes an order. ErrOrderNotFound leaves the collection unchanged.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	if err := s.store.Remove(ctx, orderID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "order deleted", "order_id", orderID)
	s.record(ctx, ledger.NewEntry(ctx, orderID, ledger.KindOrderDeleted, 0, "", ""))
	return nil
}

func (s *Service) idemCacheKey(orderID, idemKey string) string {
	if idemKey == "" || s.cache == nil {
		return ""
	}
	return s.cache.GenerateKey("pay-deferred", orderID+":"+idemKey)
}

// record writes an audit row; the ledger is optional and a write failure
// never fails the request that caused it.
func (s *Service) record(ctx context.Context, e *ledger.Entry) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(ctx, e); err != nil {
		slog.ErrorContext(ctx, "ledger write failed", "order_id", e.OrderID, "kind", e.Kind, "error", err)
	}
}
