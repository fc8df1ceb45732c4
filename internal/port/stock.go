package port

import "context"

// StockStore holds the authoritative in-flight stock counts. Decrement is the
// single mutation path for item quantity.
type StockStore interface {
	// SetStock seeds or overwrites the tracked quantity for an item.
	SetStock(ctx context.Context, itemID, quantity int) error

	// Decrement atomically subtracts quantity and returns the remaining
	// stock. ok is false, with no mutation, when the item is untracked or
	// the subtraction would go negative.
	Decrement(ctx context.Context, itemID, quantity int) (remaining int, ok bool, err error)

	// Restock adds quantity back, undoing a decrement whose follow-up
	// persistence failed.
	Restock(ctx context.Context, itemID, quantity int) error
}

// IdempotencyStore records purchase request ids so replays can be refused.
type IdempotencyStore interface {
	// SetIdempotency claims a key, returning false if it was already taken.
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
