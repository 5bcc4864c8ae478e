package infra

import (
	"context"
	"strings"
	"time"

	"audit-gateway/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// RedisWindowStore compartilha as janelas entre instâncias via Redis.
//
// Cada chave é um contador com TTL = janela, criado no primeiro INCR
// (EXPIRE NX não renova o TTL nos incrementos seguintes). O início da janela
// é derivado do PTTL restante.
type RedisWindowStore struct {
	rdb    redis.Cmdable
	prefix string
}

type RedisWindowOption func(*RedisWindowStore)

func WithWindowPrefix(prefix string) RedisWindowOption {
	return func(s *RedisWindowStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func NewRedisWindowStore(rdb redis.Cmdable, opts ...RedisWindowOption) *RedisWindowStore {
	s := &RedisWindowStore{
		rdb:    rdb,
		prefix: "audit:ratelimit",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit implementa domain.WindowStore.
func (s *RedisWindowStore) Hit(ctx context.Context, key domain.Key, now time.Time, length time.Duration) (domain.Window, error) {
	k := s.prefix + ":" + string(key)

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, length)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Window{}, err
	}

	start := now
	if remaining := ttl.Val(); remaining > 0 && remaining <= length {
		start = now.Add(remaining - length)
	}

	return domain.Window{
		Key:   key,
		Count: int(incr.Val()),
		Start: start,
	}, nil
}
