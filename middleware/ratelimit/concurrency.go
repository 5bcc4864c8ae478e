package ratelimit

import (
	"log/slog"
	"net/http"
	"time"

	"audit-gateway/middleware/ratelimit/application"
	"audit-gateway/middleware/ratelimit/domain"
	"audit-gateway/middleware/ratelimit/infra"
)

type ConcurrencyOptions struct {
	// Pool tem precedência sobre Max (permite expor ocupação em métricas).
	Pool           domain.SlotPool
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
	Logger         *slog.Logger
}

// ConcurrencyMiddleware limita quantas auditorias rodam ao mesmo tempo.
// Sem Pool e com Max <= 0, não limita nada.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	pool := opts.Pool
	if pool == nil && opts.Max > 0 {
		pool = infra.NewChanPool(opts.Max)
	}
	if pool == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	svc := application.ConcurrencyService{
		Pool:           pool,
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, err := svc.Acquire(r.Context())
			if err != nil {
				opts.Logger.Warn("audit slots exhausted", "error", err)
				writeError(w, opts.RejectStatus, http.StatusText(opts.RejectStatus))
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
