// Package infra contém os adaptadores externos da auditoria.
//
//   - ThrottledClient: http.Client com token bucket por provedor (x/time/rate)
//   - PageSpeedProbe, HTTPSProbe, ChatGPTProbe, GeminiProbe, StructuredDataProbe
//   - ResendSender: envio do relatório pela API do Resend
//   - ReportRenderer: documento HTML do e-mail; WriteMarkdown para a CLI
package infra
