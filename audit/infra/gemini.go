package infra

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"audit-gateway/audit/domain"
)

const (
	DefaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel = "gemini-pro"
)

// GeminiProbe chama models/{model}:generateContent com a chave na query.
type GeminiProbe struct {
	client  Doer
	baseURL string
	apiKey  string
	model   string
}

func NewGeminiProbe(client Doer, baseURL, apiKey, model string) *GeminiProbe {
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProbe{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

func (p *GeminiProbe) Name() string { return "gemini" }

func (p *GeminiProbe) Fallback() domain.Mention { return domain.Mention{} }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (p *GeminiProbe) Run(ctx context.Context, target domain.Target) (domain.Mention, error) {
	if p.apiKey == "" {
		return domain.Mention{}, fmt.Errorf("gemini: %w", domain.ErrMissingCredential)
	}

	brand := BrandDomain(target)
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, url.PathEscape(p.model), url.QueryEscape(p.apiKey))
	body := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: BrandPrompt(brand)}}}}}

	var resp geminiResponse
	if err := doJSON(ctx, p.client, http.MethodPost, endpoint, nil, body, &resp); err != nil {
		return domain.Mention{}, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return domain.Mention{}, fmt.Errorf("gemini: %w: no candidates", domain.ErrMalformedResponse)
	}

	return domain.Mention{Mentioned: Mentioned(resp.Candidates[0].Content.Parts[0].Text, brand)}, nil
}
