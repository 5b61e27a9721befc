package orders

import (
	"context"
	"sync"
)

// Ensure MemoryStore implements the port at compile time.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is a thread-safe in-memory Store for tests and local
// development. List preserves insertion order.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Order
	ids  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Order)}
}

func (s *MemoryStore) List(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, orderID string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[orderID]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (s *MemoryStore) Append(ctx context.Context, o Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[o.OrderID]; ok {
		return ErrOrderExists
	}
	s.byID[o.OrderID] = o
	s.ids = append(s.ids, o.OrderID)
	return nil
}

func (s *MemoryStore) Mutate(ctx context.Context, orderID string, fn func(Order) (Order, error)) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[orderID]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	next, err := fn(cur)
	if err != nil {
		return Order{}, err
	}
	s.byID[orderID] = next
	return next, nil
}

func (s *MemoryStore) Remove(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[orderID]; !ok {
		return ErrOrderNotFound
	}
	delete(s.byID, orderID)
	for i, id := range s.ids {
		if id == orderID {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
