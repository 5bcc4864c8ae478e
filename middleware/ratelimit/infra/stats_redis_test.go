package infra

import (
	"context"
	"testing"
	"time"

	"audit-gateway/middleware/ratelimit/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisStatsStore_Record(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedisStatsStore(rdb,
		WithStatsPrefix("test:stats:"),
		WithStatsTTL(time.Hour),
		WithStatsTrackKeys(true),
	)
	at := time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC)
	ctx := context.Background()

	for _, allowed := range []bool{true, true, false} {
		if err := s.Record(ctx, domain.StatsEvent{Key: "1.2.3.4", Allowed: allowed, At: at}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	tests := []struct {
		key     string
		allowed string
		denied  string
		ttl     bool
	}{
		{key: "test:stats:total", allowed: "2", denied: "1"},
		{key: "test:stats:hour:2026010110", allowed: "2", denied: "1", ttl: true},
		{key: "test:stats:key:1.2.3.4", allowed: "2", denied: "1", ttl: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := mr.HGet(tt.key, "allowed"); got != tt.allowed {
				t.Fatalf("expected allowed=%s, got %q", tt.allowed, got)
			}
			if got := mr.HGet(tt.key, "denied"); got != tt.denied {
				t.Fatalf("expected denied=%s, got %q", tt.denied, got)
			}
			if ttl := mr.TTL(tt.key); (ttl > 0) != tt.ttl {
				t.Fatalf("unexpected ttl %s", ttl)
			}
		})
	}
}

func TestRedisStatsStore_SkipsKeysByDefault(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedisStatsStore(rdb)
	if err := s.Record(context.Background(), domain.StatsEvent{Key: "a", Allowed: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists("audit:ratelimit:stats:key:a") {
		t.Fatalf("expected no per-key hash without WithStatsTrackKeys")
	}
	if got := mr.HGet("audit:ratelimit:stats:total", "allowed"); got != "1" {
		t.Fatalf("expected total allowed=1, got %q", got)
	}
}

func TestRedisStatsStore_ReturnsPipelineError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	err := NewRedisStatsStore(rdb).Record(context.Background(), domain.StatsEvent{Allowed: true})
	if err == nil {
		t.Fatalf("expected error with redis down")
	}
}
