package infra

import (
	"fmt"
	"net"
	"strings"

	"audit-gateway/audit/domain"

	"golang.org/x/net/publicsuffix"
)

// BrandDomain é o nome procurado nas respostas dos modelos: host sem "www.",
// reduzido ao domínio registrável quando a lista de sufixos reconhece o TLD.
// Endereço IP volta inteiro.
func BrandDomain(target domain.Target) string {
	host := strings.TrimPrefix(strings.ToLower(target.Host), "www.")
	if net.ParseIP(host) != nil {
		return host
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld1
	}
	return host
}

// BrandPrompt é a mesma pergunta para os dois provedores.
func BrandPrompt(brand string) string {
	return fmt.Sprintf("Find information about services or products offered by %s. Keep response under 100 words.", brand)
}

// Mentioned: a resposta (em minúsculas) contém o domínio inteiro ou o primeiro rótulo.
// Casamento literal de substring; "acme" casa com "acmeville".
func Mentioned(answer, brand string) bool {
	answer = strings.ToLower(answer)
	brand = strings.ToLower(brand)
	if brand == "" {
		return false
	}
	if strings.Contains(answer, brand) {
		return true
	}
	label, _, _ := strings.Cut(brand, ".")
	return label != "" && strings.Contains(answer, label)
}
