// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - MemoryWindowStore: janela fixa por chave num map (um processo)
//   - RedisWindowStore: janela fixa compartilhada via go-redis
//   - MemoryStatsStore / RedisStatsStore: contadores de admissão
//   - ChanPool: semáforo simples para limite de auditorias simultâneas
package infra
