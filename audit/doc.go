// Package audit é a fronteira HTTP da auditoria: decodifica o pedido, roda o
// Aggregator, agenda o e-mail e devolve o relatório em JSON.
//
// NewRouter compõe o endpoint com CORS, rate limit, limite de concorrência e
// o endpoint de métricas.
package audit
