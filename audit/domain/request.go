package domain

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

// Request é uma auditoria pedida por um cliente. Vive só durante a requisição.
type Request struct {
	Email    string
	URL      string
	ClientID string
}

// Validate confere os campos obrigatórios e o formato de e-mail/URL.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.URL) == "" {
		return ErrMissingField
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	}
	if _, err := NewTarget(r.URL); err != nil {
		return err
	}
	return nil
}

// Target é a URL auditada, já normalizada.
type Target struct {
	// Input é o texto enviado pelo cliente, sem espaços nas pontas.
	Input string
	// URL tem esquema (https:// quando ausente no Input).
	URL  string
	Host string
}

// NewTarget normaliza a URL do cliente. Sem esquema, assume https://.
func NewTarget(raw string) (Target, error) {
	in := strings.TrimSpace(raw)
	if in == "" {
		return Target{}, ErrMissingField
	}

	normalized := WithDefaultScheme(in)
	u, err := url.Parse(normalized)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Target{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Target{}, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return Target{Input: in, URL: u.String(), Host: host}, nil
}

// WithDefaultScheme prefixa https:// quando o texto não tem esquema.
func WithDefaultScheme(s string) string {
	if strings.Contains(s, "://") {
		return s
	}
	return "https://" + s
}
