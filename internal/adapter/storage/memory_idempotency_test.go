package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMemoryIdempotency_ClaimOnce(t *testing.T) {
	s := NewMemoryIdempotencyStore()

	ok, err := s.SetIdempotency(context.Background(), "purchase:a")
	if err != nil || !ok {
		t.Fatalf("expected first claim to succeed, got ok=%v err=%v", ok, err)
	}
	ok, _ = s.SetIdempotency(context.Background(), "purchase:a")
	if ok {
		t.Fatal("expected second claim to fail")
	}
}

func TestMemoryIdempotency_ConcurrentSingleWinner(t *testing.T) {
	s := NewMemoryIdempotencyStore()

	var wg sync.WaitGroup
	var wins int64
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.SetIdempotency(context.Background(), "purchase:contested"); ok {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("expected exactly one winner, got %d", wins)
	}
}
