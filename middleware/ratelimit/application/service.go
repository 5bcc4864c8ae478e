package application

import (
	"context"
	"time"

	"audit-gateway/middleware/ratelimit/domain"
)

// DefaultRule: 3 auditorias por cliente por hora.
var DefaultRule = domain.Rule{Limit: 3, Window: time.Hour}

// Service concentra a regra de aplicação do rate limit.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Service struct {
	Store domain.WindowStore
	Rule  domain.Rule
}

// Admit registra a requisição de `key` em `now` e decide.
//
// Sem Store, tudo é permitido. Erro do Store é devolvido junto com uma decisão
// permissiva; cabe a quem chama decidir se loga e segue (fail open).
func (s Service) Admit(ctx context.Context, key domain.Key, now time.Time) (domain.Decision, error) {
	rule := s.rule()
	if s.Store == nil {
		return domain.Decision{Allowed: true, Limit: rule.Limit}, nil
	}

	win, err := s.Store.Hit(ctx, key, now, rule.Window)
	if err != nil {
		return domain.Decision{Allowed: true, Limit: rule.Limit}, err
	}

	dec := domain.Decision{Allowed: true, Count: win.Count, Limit: rule.Limit}
	if win.Count <= rule.Limit {
		return dec, nil
	}

	dec.Allowed = false
	dec.RetryAfter = win.ResetAt(rule.Window).Sub(now)
	if dec.RetryAfter < time.Second {
		dec.RetryAfter = time.Second
	}
	return dec, nil
}

func (s Service) rule() domain.Rule {
	r := s.Rule
	if r.Limit <= 0 {
		r.Limit = DefaultRule.Limit
	}
	if r.Window <= 0 {
		r.Window = DefaultRule.Window
	}
	return r
}
