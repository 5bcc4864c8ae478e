// Package main é a CLI da auditoria SEO/GEO.
//
// Roda uma auditoria local, sem rate limit, com as mesmas variáveis de ambiente
// do servidor:
//
//	audit-cli run https://example.com
//	audit-cli run example.com --format markdown
//	audit-cli run example.com --email owner@example.com --send
package main

func main() {
	Execute()
}
