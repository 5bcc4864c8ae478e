// Package domain define os tipos da auditoria (requisição, alvo, resultados
// de cada probe, relatório) e os contratos que a camada application orquestra.
//
// Não depende de net/http nem dos provedores externos.
package domain
