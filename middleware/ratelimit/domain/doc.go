// Package domain define contratos e tipos de domínio para rate limit e concorrência.
//
// Este pacote não depende de net/http nem de implementações concretas.
// Window/Rule descrevem o limite de janela fixa por cliente; WindowStore é o
// ponto de injeção do armazenamento (memória ou Redis).
package domain
