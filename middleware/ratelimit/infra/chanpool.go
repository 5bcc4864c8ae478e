package infra

import (
	"context"
	"sync/atomic"

	"audit-gateway/middleware/ratelimit/domain"
)

// ChanPool é um semáforo simples baseado em channel.
type ChanPool struct {
	sem   chan struct{}
	inUse atomic.Int64
}

var _ domain.SlotPool = (*ChanPool)(nil)

// NewChanPool cria um pool com capacidade `max`.
func NewChanPool(max int) *ChanPool {
	return &ChanPool{sem: make(chan struct{}, max)}
}

func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		p.inUse.Add(1)
		return func() {
			p.inUse.Add(-1)
			<-p.sem
		}, true
	case <-ctx.Done():
		return nil, false
	}
}

func (p *ChanPool) Cap() int     { return cap(p.sem) }
func (p *ChanPool) InUse() int64 { return p.inUse.Load() }
