package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble"
)

var _ Store = (*PebbleStore)(nil)

// PebbleStore persists orders in an embedded Pebble database, one record per
// order keyed by order id. This replaces the whole-collection
// read-modify-write of a flat JSON file: reads touch a single key, and all
// writes are serialized through mu, so concurrent requests can no longer
// silently discard each other's updates.
//
// Values are JSON-encoded Order records, written with pebble.Sync — order
// money must survive a crash.
type PebbleStore struct {
	mu sync.Mutex // serializes Append/Mutate/Remove
	db *pebble.DB
}

// OpenPebble opens (or creates) the order database in dir.
func OpenPebble(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("orders: pebble open %q: %w", dir, err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Close() error { return s.db.Close() }

func (s *PebbleStore) List(ctx context.Context) ([]Order, error) {
	it, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("orders: pebble iter: %w", err)
	}
	defer it.Close()

	var out []Order
	for it.First(); it.Valid(); it.Next() {
		o, err := decodeOrder(it.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("orders: pebble iter: %w", err)
	}
	return out, nil
}

func (s *PebbleStore) Get(ctx context.Context, orderID string) (Order, error) {
	v, closer, err := s.db.Get([]byte(orderID))
	if err == pebble.ErrNotFound {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("orders: pebble get %q: %w", orderID, err)
	}
	defer closer.Close()
	return decodeOrder(v)
}

func (s *PebbleStore) Append(ctx context.Context, o Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := []byte(o.OrderID)
	if _, closer, err := s.db.Get(key); err == nil {
		_ = closer.Close()
		return ErrOrderExists
	} else if err != pebble.ErrNotFound {
		return fmt.Errorf("orders: pebble get %q: %w", o.OrderID, err)
	}
	return s.set(key, o)
}

func (s *PebbleStore) Mutate(ctx context.Context, orderID string, fn func(Order) (Order, error)) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := []byte(orderID)
	v, closer, err := s.db.Get(key)
	if err == pebble.ErrNotFound {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("orders: pebble get %q: %w", orderID, err)
	}
	cur, derr := decodeOrder(v)
	_ = closer.Close()
	if derr != nil {
		return Order{}, derr
	}

	next, err := fn(cur)
	if err != nil {
		return Order{}, err
	}
	if err := s.set(key, next); err != nil {
		return Order{}, err
	}
	return next, nil
}

func (s *PebbleStore) Remove(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := []byte(orderID)
	if _, closer, err := s.db.Get(key); err == pebble.ErrNotFound {
		return ErrOrderNotFound
	} else if err != nil {
		return fmt.Errorf("orders: pebble get %q: %w", orderID, err)
	} else {
		_ = closer.Close()
	}
	if err := s.db.Delete(key, pebble.Sync); err != nil {
		return fmt.Errorf("orders: pebble delete %q: %w", orderID, err)
	}
	return nil
}

func (s *PebbleStore) set(key []byte, o Order) error {
	b, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("orders: encode %q: %w", o.OrderID, err)
	}
	if err := s.db.Set(key, b, pebble.Sync); err != nil {
		return fmt.Errorf("orders: pebble set %q: %w", o.OrderID, err)
	}
	return nil
}

func decodeOrder(v []byte) (Order, error) {
	var o Order
	if err := json.Unmarshal(v, &o); err != nil {
		return Order{}, fmt.Errorf("orders: decode record: %w", err)
	}
	return o, nil
}
