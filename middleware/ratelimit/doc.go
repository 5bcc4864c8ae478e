// Package ratelimit fornece adapters HTTP (net/http) para o limite de auditorias
// por cliente e para o limite de auditorias simultâneas.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (admissão em janela fixa, acquire/timeout) sem net/http
//   - infra: implementações concretas (janela em memória/Redis, stats, semáforo)
//   - ratelimit (este pacote): middlewares HTTP + extração de chave + tradução para status/headers
//
// Fluxo no servidor de auditoria:
//
//  1. Extrai a chave do cliente (header/XFF/RemoteAddr)
//  2. Chama a camada application para obter a decisão
//  3. Se bloqueado, responde 429 {"error": ...} com Retry-After (ou 503 na concorrência)
//  4. Se permitido, chama o próximo handler (validação + auditoria)
//
// O estado em memória é por processo; RATE_STORE=redis compartilha entre instâncias.
package ratelimit
