package application

import (
	"context"
	"fmt"
	"time"

	"audit-gateway/middleware/ratelimit/domain"
)

// ConcurrencyService limita quantas auditorias rodam ao mesmo tempo,
// sem saber nada sobre HTTP.
type ConcurrencyService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta adquirir uma vaga.
//   - Se `AcquireTimeout <= 0`, espera até o ctx cancelar.
//   - Se `AcquireTimeout > 0`, espera no máximo o timeout.
//
// Em caso de falha devolve um erro que satisfaz errors.Is(err, domain.ErrNoSlot).
func (s ConcurrencyService) Acquire(ctx context.Context) (func(), error) {
	if s.Pool == nil {
		return func() {}, nil
	}

	if s.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.AcquireTimeout)
		defer cancel()
	}

	release, ok := s.Pool.Acquire(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoSlot, ctx.Err())
	}
	return release, nil
}
