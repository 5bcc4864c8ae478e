package audit

import (
	"net/http"

	"audit-gateway/audit/application"
	"audit-gateway/audit/infra"
	"audit-gateway/config"
)

// NewProbes monta os cinco probes a partir da configuração. Cada provedor
// externo recebe o próprio token bucket; o HTML do alvo usa base direto.
func NewProbes(cfg config.Config, base *http.Client) application.Probes {
	if base == nil {
		base = &http.Client{Timeout: cfg.Probe.Timeout}
	}
	throttled := func() *infra.ThrottledClient {
		return infra.NewThrottledClient(base, cfg.Probe.RPS, cfg.Probe.Burst)
	}

	p := cfg.Providers
	return application.Probes{
		Performance:    infra.NewPageSpeedProbe(throttled(), p.PageSpeedBaseURL, p.GoogleAPIKey),
		Security:       infra.HTTPSProbe{},
		ChatGPT:        infra.NewChatGPTProbe(throttled(), p.OpenAIBaseURL, p.OpenAIAPIKey, p.OpenAIModel),
		Gemini:         infra.NewGeminiProbe(throttled(), p.GeminiBaseURL, p.GeminiAPIKey, p.GeminiModel),
		StructuredData: infra.NewStructuredDataProbe(base),
	}
}

// NewMailer monta o Dispatcher com o renderer HTML e o Resend.
func NewMailer(cfg config.Config, opts ...application.DispatcherOption) *application.Dispatcher {
	opts = append([]application.DispatcherOption{application.WithDispatchTimeout(cfg.Email.DispatchTimeout)}, opts...)
	return application.NewDispatcher(
		infra.NewReportRenderer(cfg.Email.From, cfg.Email.Contact),
		infra.NewResendSender(&http.Client{Timeout: cfg.Email.DispatchTimeout}, cfg.Providers.ResendBaseURL, cfg.Providers.ResendAPIKey),
		opts...,
	)
}
