package infra

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"audit-gateway/audit/domain"

	"github.com/resend/resend-go/v2"
)

const DefaultResendURL = "https://api.resend.com"

// ResendSender envia pelo SDK do Resend.
type ResendSender struct {
	client *resend.Client
	hasKey bool
}

// NewResendSender aceita baseURL vazio (API pública). Base inválida mantém a do SDK.
func NewResendSender(httpClient *http.Client, baseURL, apiKey string) *ResendSender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultResendURL
	}

	client := resend.NewCustomClient(httpClient, apiKey)
	// o SDK resolve "emails" relativo à base; precisa da barra final
	if base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/"); err == nil {
		client.BaseURL = base
	}
	return &ResendSender{client: client, hasKey: apiKey != ""}
}

// Send devolve o id do e-mail. Sem chave, falha com ErrMissingCredential sem tocar a rede.
func (s *ResendSender) Send(ctx context.Context, msg domain.Message) (string, error) {
	if !s.hasKey {
		return "", fmt.Errorf("resend: %w", domain.ErrMissingCredential)
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	if sent == nil || sent.Id == "" {
		return "", fmt.Errorf("resend: %w: empty id", domain.ErrMalformedResponse)
	}
	return sent.Id, nil
}
