package infra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"audit-gateway/audit/domain"
)

var jsonLDMarker = []byte("application/ld+json")

// RecognizedSchemaTypes são os tipos schema.org que contam como marcação.
var RecognizedSchemaTypes = []string{
	"Organization",
	"LocalBusiness",
	"WebSite",
	"Product",
	"Service",
	"FAQPage",
	"Article",
	"BreadcrumbList",
}

// HasStructuredData é busca literal: marcador JSON-LD e pelo menos um
// `"@type":"X"` ou `"@type": "X"` reconhecido, em qualquer parte do HTML.
func HasStructuredData(html []byte) bool {
	if !bytes.Contains(html, jsonLDMarker) {
		return false
	}
	for _, t := range RecognizedSchemaTypes {
		if bytes.Contains(html, []byte(`"@type":"`+t+`"`)) || bytes.Contains(html, []byte(`"@type": "`+t+`"`)) {
			return true
		}
	}
	return false
}

// StructuredDataProbe baixa o HTML do alvo.
type StructuredDataProbe struct {
	client    Doer
	userAgent string
}

func NewStructuredDataProbe(client Doer) *StructuredDataProbe {
	if client == nil {
		client = http.DefaultClient
	}
	return &StructuredDataProbe{client: client, userAgent: "audit-gateway/1.0 (+structured-data)"}
}

func (p *StructuredDataProbe) Name() string { return "schema" }

func (p *StructuredDataProbe) Fallback() domain.StructuredData { return domain.StructuredData{} }

func (p *StructuredDataProbe) Run(ctx context.Context, target domain.Target) (domain.StructuredData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return domain.StructuredData{}, err
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.StructuredData{}, err
	}
	defer resp.Body.Close()

	// o corpo é lido mesmo em 4xx/5xx: páginas de erro também são HTML
	html, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.StructuredData{}, fmt.Errorf("read page: %w", err)
	}
	return domain.StructuredData{Present: HasStructuredData(html)}, nil
}
