package orders

import (
	"context"
	"errors"
)

// ErrOrderNotFound is returned by Get, Mutate and Remove for unknown ids.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderExists is returned by Append when the id is already taken.
// Ids come from NewOrderID, so hitting this indicates a caller bug.
var ErrOrderExists = errors.New("order already exists")

// Store is the port for durable order persistence. Implementations must
// guarantee at-most-one-writer-per-record: two concurrent Mutate calls on
// the same order may not lose either update.
type Store interface {
	// List returns the full collection. Ordering is the caller's concern
	// (the admin view sorts newest-first itself).
	List(ctx context.Context) ([]Order, error)

	// Get returns the order with the given id or ErrOrderNotFound.
	Get(ctx context.Context, orderID string) (Order, error)

	// Append adds a new order. ErrOrderExists if the id is taken.
	Append(ctx context.Context, o Order) error

	// Mutate loads the order, applies fn to produce the new value, and
	// persists it, all under the store's write serialization. The returned
	// order is the persisted result. ErrOrderNotFound for unknown ids; an
	// error from fn aborts the mutation with nothing written.
	Mutate(ctx context.Context, orderID string, fn func(Order) (Order, error)) (Order, error)

	// Remove deletes the order, ErrOrderNotFound if it never existed.
	Remove(ctx context.Context, orderID string) error

	Close() error
}
