package infra

import (
	"context"
	"fmt"

	"audit-gateway/audit/domain"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultOpenAIModel = openai.GPT4oMini
	openAIMaxTokens    = 150
)

// ChatGPTProbe pergunta ao chat completions se conhece o domínio.
type ChatGPTProbe struct {
	client *openai.Client
	model  string
	hasKey bool
}

// NewChatGPTProbe aceita baseURL vazio (API pública). httpClient normalmente é um *ThrottledClient.
func NewChatGPTProbe(httpClient Doer, baseURL, apiKey, model string) *ChatGPTProbe {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &ChatGPTProbe{client: openai.NewClientWithConfig(cfg), model: model, hasKey: apiKey != ""}
}

func (p *ChatGPTProbe) Name() string { return "chatgpt" }

func (p *ChatGPTProbe) Fallback() domain.Mention { return domain.Mention{} }

func (p *ChatGPTProbe) Run(ctx context.Context, target domain.Target) (domain.Mention, error) {
	if !p.hasKey {
		return domain.Mention{}, fmt.Errorf("openai: %w", domain.ErrMissingCredential)
	}

	brand := BrandDomain(target)
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: openAIMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BrandPrompt(brand)},
		},
	})
	if err != nil {
		return domain.Mention{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Mention{}, fmt.Errorf("openai: %w: no choices", domain.ErrMalformedResponse)
	}

	return domain.Mention{Mentioned: Mentioned(resp.Choices[0].Message.Content, brand)}, nil
}
