package service

import (
	"context"
	"sync"
	"time"
)

// InventoryStore is the in-process stock table. Each item gets its own lock
// so concurrent purchases of different items never contend, while two
// purchases of the same item serialize and can't both observe the same
// pre-decrement quantity.
type InventoryStore struct {
	mu      sync.Mutex // guards the entries map itself
	entries map[int]*stockEntry
}

type stockEntry struct {
	mu  sync.Mutex
	qty int
}

func NewInventoryStore() *InventoryStore {
	return &InventoryStore{entries: make(map[int]*stockEntry)}
}

func (s *InventoryStore) entry(itemID int) (*stockEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[itemID]
	return e, ok
}

func (s *InventoryStore) SetStock(ctx context.Context, itemID, quantity int) error {
	s.mu.Lock()
	e, ok := s.entries[itemID]
	if !ok {
		s.entries[itemID] = &stockEntry{qty: quantity}
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	e.mu.Lock()
	e.qty = quantity
	e.mu.Unlock()
	return nil
}

func (s *InventoryStore) Decrement(ctx context.Context, itemID, quantity int) (int, bool, error) {
	e, ok := s.entry(itemID)
	if !ok {
		return 0, false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.qty-quantity < 0 {
		return e.qty, false, nil
	}
	e.qty -= quantity
	return e.qty, true, nil
}

func (s *InventoryStore) Restock(ctx context.Context, itemID, quantity int) error {
	e, ok := s.entry(itemID)
	if !ok {
		return nil
	}
	e.mu.Lock()
	e.qty += quantity
	e.mu.Unlock()
	return nil
}

// Quantity reports the tracked stock for an item, false if untracked.
func (s *InventoryStore) Quantity(itemID int) (int, bool) {
	e, ok := s.entry(itemID)
	if !ok {
		return 0, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.qty, true
}

// DailyOrderID derives the 5-digit id of the given date's consolidated
// order: whole days since the Unix epoch through a prime multiplier, reduced
// modulo 100000. Same date, same id; collisions with a prior day are an
// accepted risk of the scheme.
func DailyOrderID(t time.Time) int {
	days := int(t.UTC().Unix() / 86400)
	const prime = 31
	return (prime*1 + days) % 100000
}
