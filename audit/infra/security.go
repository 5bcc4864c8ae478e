package infra

import (
	"context"
	"strings"

	"audit-gateway/audit/domain"
)

// CheckHTTPS olha só o esquema do texto enviado; nada de conexão TLS.
// Sem esquema, vale https://.
func CheckHTTPS(raw string) domain.Security {
	s := strings.ToLower(domain.WithDefaultScheme(strings.TrimSpace(raw)))
	return domain.Security{Secure: strings.HasPrefix(s, "https://")}
}

type HTTPSProbe struct{}

func (HTTPSProbe) Name() string { return "https" }

func (HTTPSProbe) Run(_ context.Context, target domain.Target) (domain.Security, error) {
	return CheckHTTPS(target.Input), nil
}

func (HTTPSProbe) Fallback() domain.Security { return domain.Security{} }
