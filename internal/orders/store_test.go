package orders

import (
	"context"
	"errors"
	"testing"
	"time"
)

// storeContractTests runs the same contract against every Store
// implementation.
func storeContractTests(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	newOrder := func(total int64) Order {
		return New(Draft{
			Cart:        []CartItem{{ID: "1-x", Name: "item", Price: total, Quantity: 1}},
			PaymentType: PaymentCOD,
		}, time.Now().UTC())
	}

	t.Run("append and get", func(t *testing.T) {
		s := open(t)
		o := newOrder(1000)
		if err := s.Append(ctx, o); err != nil {
			t.Fatalf("append: %v", err)
		}
		got, err := s.Get(ctx, o.OrderID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.OrderID != o.OrderID || got.Amounts.Total != 1000 {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("append duplicate id", func(t *testing.T) {
		s := open(t)
		o := newOrder(1000)
		if err := s.Append(ctx, o); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := s.Append(ctx, o); !errors.Is(err, ErrOrderExists) {
			t.Fatalf("second append err = %v, want ErrOrderExists", err)
		}
	})

	t.Run("get unknown", func(t *testing.T) {
		s := open(t)
		if _, err := s.Get(ctx, "ORD-nope"); !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("err = %v, want ErrOrderNotFound", err)
		}
	})

	t.Run("mutate persists the new value", func(t *testing.T) {
		s := open(t)
		o := newOrder(1000)
		if err := s.Append(ctx, o); err != nil {
			t.Fatalf("append: %v", err)
		}
		updated, err := s.Mutate(ctx, o.OrderID, func(cur Order) (Order, error) {
			cur.ApplyPayment(400, time.Now().UTC())
			return cur, nil
		})
		if err != nil {
			t.Fatalf("mutate: %v", err)
		}
		if updated.Amounts.Due != 600 {
			t.Fatalf("due = %d, want 600", updated.Amounts.Due)
		}
		got, err := s.Get(ctx, o.OrderID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Amounts.Due != 600 || len(got.Transactions) != 1 {
			t.Fatalf("mutation not persisted: %+v", got)
		}
	})

	t.Run("mutate unknown id", func(t *testing.T) {
		s := open(t)
		_, err := s.Mutate(ctx, "ORD-nope", func(cur Order) (Order, error) { return cur, nil })
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("err = %v, want ErrOrderNotFound", err)
		}
	})

	t.Run("mutate fn error writes nothing", func(t *testing.T) {
		s := open(t)
		o := newOrder(1000)
		if err := s.Append(ctx, o); err != nil {
			t.Fatalf("append: %v", err)
		}
		boom := errors.New("boom")
		if _, err := s.Mutate(ctx, o.OrderID, func(cur Order) (Order, error) {
			cur.ApplyPayment(400, time.Now().UTC())
			return cur, boom
		}); !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}
		got, _ := s.Get(ctx, o.OrderID)
		if got.Amounts.Due != 1000 {
			t.Fatalf("aborted mutation leaked: %+v", got.Amounts)
		}
	})

	t.Run("remove", func(t *testing.T) {
		s := open(t)
		o := newOrder(1000)
		if err := s.Append(ctx, o); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := s.Remove(ctx, o.OrderID); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if _, err := s.Get(ctx, o.OrderID); !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("order still present after remove")
		}
	})

	t.Run("remove unknown id leaves collection unchanged", func(t *testing.T) {
		s := open(t)
		if err := s.Append(ctx, newOrder(1000)); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := s.Remove(ctx, "ORD-nope"); !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("err = %v, want ErrOrderNotFound", err)
		}
		all, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("collection length changed: %d", len(all))
		}
	})

	t.Run("list returns the full collection", func(t *testing.T) {
		s := open(t)
		for i := 0; i < 3; i++ {
			if err := s.Append(ctx, newOrder(int64(1000+i))); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
		all, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("got %d orders, want 3", len(all))
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeContractTests(t, func(t *testing.T) Store {
		s := NewMemoryStore()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
