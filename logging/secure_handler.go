package logging

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue substitui valores sensíveis.
const MaskValue = "***REDACTED***"

// chaves sempre mascaradas (comparação em minúsculas)
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"x-api-key":           true,
	"cookie":              true,
	"set-cookie":          true,
	"api_key":             true,
	"apikey":              true,
	"api-key":             true,
	"password":            true,
	"redis_password":      true,
}

// palavras que, contidas na chave, indicam segredo
var sensitiveKeywords = []string{"password", "secret", "token", "credential", "api_key", "apikey"}

// chaves cujo valor é e-mail de cliente: mascarado parcialmente
var emailKeys = map[string]bool{
	"email": true,
	"to":    true,
}

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`^sk-[A-Za-z0-9_-]{16,}$`),  // OpenAI
	regexp.MustCompile(`^re_[A-Za-z0-9_]{16,}$`),   // Resend
	regexp.MustCompile(`^AIza[0-9A-Za-z_-]{30,}$`), // Google / Gemini
}

// a chave do Gemini e do PageSpeed vai na query string
var queryKeyPattern = regexp.MustCompile(`([?&](?:key|api_key)=)[^&\s]+`)

// SecureHandler envolve um slog.Handler e sanitiza os atributos de cada registro.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler usa slog.Default().Handler() quando handler é nil.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(out)}
}

func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = sanitizeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	key := strings.ToLower(a.Key)
	if isSensitiveKey(key) {
		return slog.String(a.Key, MaskValue)
	}

	// erros chegam como KindAny; o texto pode carregar a URL com ?key=
	var s string
	switch a.Value.Kind() {
	case slog.KindString:
		s = a.Value.String()
	case slog.KindAny:
		err, ok := a.Value.Any().(error)
		if !ok {
			return a
		}
		s = err.Error()
	default:
		return a
	}

	if isSensitiveValue(s) {
		return slog.String(a.Key, MaskValue)
	}
	if emailKeys[key] {
		return slog.String(a.Key, MaskEmail(s))
	}
	if redacted := queryKeyPattern.ReplaceAllString(s, "${1}"+MaskValue); redacted != s {
		return slog.String(a.Key, redacted)
	}
	return a
}

func isSensitiveKey(key string) bool {
	if sensitiveKeys[key] {
		return true
	}
	for _, kw := range sensitiveKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

func isSensitiveValue(v string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(v) {
			return true
		}
	}
	return false
}

// MaskEmail mantém a primeira letra e o domínio: ana@example.com => a***@example.com.
// Texto já mascarado ou sem @ vira MaskValue.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return MaskValue
	}
	if strings.Contains(email[:at], "***") {
		return email
	}
	return email[:1] + "***" + email[at:]
}

// NewLogger cria o logger do processo. format "json" usa JSONHandler, qualquer
// outro valor usa TextHandler. verbose liga o nível Debug (resultado de cada probe).
func NewLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if strings.EqualFold(format, "json") {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}
	return slog.New(NewSecureHandler(base))
}
