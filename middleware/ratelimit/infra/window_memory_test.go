package infra

import (
	"context"
	"sync"
	"testing"
	"time"

	"audit-gateway/middleware/ratelimit/domain"
)

func TestMemoryWindowStore_FirstHitCreatesWindow(t *testing.T) {
	s := NewMemoryWindowStore()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	w, err := s.Hit(context.Background(), "1.2.3.4", now, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Count != 1 || !w.Start.Equal(now) {
		t.Fatalf("expected count=1 start=%s, got %+v", now, w)
	}
}

func TestMemoryWindowStore_IncrementsWithinWindow(t *testing.T) {
	s := NewMemoryWindowStore()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	var last domain.Window
	for i := 0; i < 4; i++ {
		last, _ = s.Hit(context.Background(), "k", start.Add(time.Duration(i)*10*time.Minute), time.Hour)
	}
	if last.Count != 4 {
		t.Fatalf("expected count=4, got %d", last.Count)
	}
	if !last.Start.Equal(start) {
		t.Fatalf("expected window start to stay at first request, got %s", last.Start)
	}
}

func TestMemoryWindowStore_ResetsAfterWindow(t *testing.T) {
	s := NewMemoryWindowStore()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, _ = s.Hit(context.Background(), "k", start, time.Hour)
	}

	// exatamente 1h ainda pertence à janela (a poda usa idade > length)
	w, _ := s.Hit(context.Background(), "k", start.Add(time.Hour), time.Hour)
	if w.Count != 4 {
		t.Fatalf("expected count=4 at exactly one hour, got %d", w.Count)
	}

	later := start.Add(61 * time.Minute)
	w, _ = s.Hit(context.Background(), "k", later, time.Hour)
	if w.Count != 1 || !w.Start.Equal(later) {
		t.Fatalf("expected fresh window at %s, got %+v", later, w)
	}
}

func TestMemoryWindowStore_PrunesOtherKeys(t *testing.T) {
	s := NewMemoryWindowStore()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	_, _ = s.Hit(context.Background(), "a", start, time.Hour)
	_, _ = s.Hit(context.Background(), "b", start, time.Hour)
	if s.Len() != 2 {
		t.Fatalf("expected 2 windows, got %d", s.Len())
	}

	_, _ = s.Hit(context.Background(), "c", start.Add(2*time.Hour), time.Hour)
	if s.Len() != 1 {
		t.Fatalf("expected stale windows to be pruned, got %d", s.Len())
	}
}

func TestMemoryWindowStore_ConcurrentHitsAreCounted(t *testing.T) {
	s := NewMemoryWindowStore()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Hit(context.Background(), "k", now, time.Hour)
		}()
	}
	wg.Wait()

	w, _ := s.Hit(context.Background(), "k", now, time.Hour)
	if w.Count != 51 {
		t.Fatalf("expected count=51, got %d", w.Count)
	}
}
