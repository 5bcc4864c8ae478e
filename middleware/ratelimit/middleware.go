package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"audit-gateway/middleware/ratelimit/application"
	"audit-gateway/middleware/ratelimit/domain"
)

// DefaultMessage é o corpo de erro devolvido ao cliente bloqueado.
const DefaultMessage = "Zbyt wiele prób. Spróbuj za godzinę."

type KeyFunc func(r *http.Request) string

type Options struct {
	Store               domain.WindowStore
	Rule                domain.Rule
	Stats               domain.StatsStore
	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RejectStatus        int
	Message             string
	AddRateLimitHeaders bool
	Logger              *slog.Logger
	// Now existe para testes; padrão time.Now.
	Now func() time.Time
}

func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
			if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
				return ip
			}
		}

		// fallback: RemoteAddr
		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// Middleware aplica a janela fixa por cliente antes de chamar next.
//
// Erro do store não bloqueia ninguém: a requisição segue e o erro é logado.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.Message == "" {
		opts.Message = DefaultMessage
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	svc := application.Service{
		Store: opts.Store,
		Rule:  opts.Rule,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := domain.Key(opts.KeyFn(r))
			now := opts.Now()

			dec, err := svc.Admit(r.Context(), key, now)
			if err != nil {
				opts.Logger.Warn("rate limit store failed, admitting request",
					"key", string(key),
					"error", err,
				)
			}

			if opts.Stats != nil {
				if err := opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     key,
					Allowed: dec.Allowed,
					Count:   dec.Count,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      now,
				}); err != nil {
					opts.Logger.Debug("rate limit stats failed", "error", err)
				}
			}

			if opts.AddRateLimitHeaders {
				remaining := dec.Limit - dec.Count
				if remaining < 0 {
					remaining = 0
				}
				w.Header().Set("X-RateLimit-Key", string(key))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			}

			if !dec.Allowed {
				opts.Logger.Info("rate limit exceeded",
					"key", string(key),
					"count", dec.Count,
					"limit", dec.Limit,
					"retry_after", dec.RetryAfter,
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(dec.RetryAfter.Seconds())))
				writeError(w, opts.RejectStatus, opts.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
