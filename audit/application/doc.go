// Package application orquestra a auditoria: dispara os cinco probes em
// paralelo, espera todos (ou o fallback de cada um), calcula a nota e entrega
// o relatório ao despachante de e-mail em segundo plano.
//
// Depende apenas de audit/domain; não conhece HTTP nem os provedores.
package application
