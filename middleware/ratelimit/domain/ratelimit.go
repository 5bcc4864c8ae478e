package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"time"
)

type Key string

// Rule é um limite de janela fixa: no máximo Limit admissões por Window,
// contadas a partir da primeira requisição da janela.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Window é o estado de um cliente (RateWindow): contador e início da janela.
type Window struct {
	Key   Key
	Count int
	Start time.Time
}

// ResetAt é o instante a partir do qual a janela é descartada.
func (w Window) ResetAt(length time.Duration) time.Time {
	return w.Start.Add(length)
}

// WindowStore guarda as janelas por chave (ex: IP, API key).
//
// Hit registra uma requisição em `now` e devolve a janela já incrementada.
// Antes de incrementar, a implementação descarta janelas com idade > length;
// se não houver janela para a chave, cria uma com Count = 1.
//
// A implementação pode ser em memória (um processo) ou compartilhada
// (ex: Redis, várias instâncias) sem mudar quem chama.
type WindowStore interface {
	Hit(ctx context.Context, key Key, now time.Time, length time.Duration) (Window, error)
}

type Decision struct {
	Allowed bool
	Count   int
	Limit   int
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
