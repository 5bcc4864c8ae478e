package infra

import (
	"context"
	"sync"
	"time"

	"audit-gateway/middleware/ratelimit/domain"
)

// MemoryWindowStore guarda as janelas num map do processo.
//
// Cada processo tem seu próprio estado: com várias instâncias o limite vale
// por instância, e um restart zera tudo. Para estado compartilhado use
// RedisWindowStore.
//
// Não há janitor: janelas vencidas são removidas numa varredura linear a cada Hit.
type MemoryWindowStore struct {
	mu      sync.Mutex
	windows map[domain.Key]*domain.Window
}

func NewMemoryWindowStore() *MemoryWindowStore {
	return &MemoryWindowStore{windows: make(map[domain.Key]*domain.Window)}
}

// Hit implementa domain.WindowStore.
func (s *MemoryWindowStore) Hit(_ context.Context, key domain.Key, now time.Time, length time.Duration) (domain.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, w := range s.windows {
		if now.Sub(w.Start) > length {
			delete(s.windows, k)
		}
	}

	w, ok := s.windows[key]
	if !ok {
		w = &domain.Window{Key: key, Count: 1, Start: now}
		s.windows[key] = w
		return *w, nil
	}

	w.Count++
	return *w, nil
}

// Len devolve quantas janelas estão vivas (inclui vencidas ainda não varridas).
func (s *MemoryWindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
