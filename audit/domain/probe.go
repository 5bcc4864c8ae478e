package domain

import (
	"context"
	"time"
)

// Probe produz uma faceta da auditoria.
//
// Run pode falhar; quem orquestra troca erro, timeout ou panic por Fallback(),
// então nenhuma falha de probe chega ao relatório como erro.
type Probe[R any] interface {
	Name() string
	Run(ctx context.Context, target Target) (R, error)
	Fallback() R
}

// Observer recebe eventos da auditoria (métricas). Implementações não podem bloquear.
type Observer interface {
	ProbeDone(probe string, took time.Duration, fellBack bool)
	AuditDone(score int)
	DispatchDone(err error)
}

// NopObserver ignora todos os eventos.
type NopObserver struct{}

func (NopObserver) ProbeDone(string, time.Duration, bool) {}
func (NopObserver) AuditDone(int)                         {}
func (NopObserver) DispatchDone(error)                    {}
