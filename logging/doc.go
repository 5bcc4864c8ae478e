// Package logging monta o *slog.Logger do gateway.
//
// Todo logger passa por SecureHandler, que mascara credenciais de provedores
// (OpenAI, Gemini, PageSpeed, Resend, Redis), cabeçalhos de autenticação e
// e-mails de clientes antes de chegar ao handler de texto ou JSON.
//
//	logger := logging.NewLogger(os.Stderr, "json", false)
//	logger.Info("report sent", "to", "ana@example.com") // to=a***@example.com
package logging
