package audit

import (
	"log/slog"
	"net/http"

	"audit-gateway/metrics"
	"audit-gateway/middleware/cors"
	"audit-gateway/middleware/ratelimit"

	"github.com/go-chi/chi/v5"
)

type RouterOptions struct {
	AuditPath   string
	Handler     http.Handler
	CORS        cors.Options
	RateLimit   *ratelimit.Options
	Concurrency ratelimit.ConcurrencyOptions

	// Metrics nil desliga instrumentação e o endpoint.
	Metrics     *metrics.Collector
	MetricsPath string

	Logger *slog.Logger
}

// NewRouter: CORS responde o preflight antes de tudo; métodos diferentes de
// POST levam 405 sem consumir cota; o rate limit roda antes da validação.
func NewRouter(opts RouterOptions) http.Handler {
	if opts.AuditPath == "" {
		opts.AuditPath = "/api/analyze"
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(cors.Middleware(opts.CORS))
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: MsgMethodNotAllowed})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: MsgNotFound})
	})

	var chain []func(http.Handler) http.Handler
	if opts.Metrics != nil {
		chain = append(chain, opts.Metrics.Instrument)
	}
	if opts.RateLimit != nil {
		rl := *opts.RateLimit
		if rl.Logger == nil {
			rl.Logger = opts.Logger
		}
		chain = append(chain, ratelimit.Middleware(rl))
	}
	conc := opts.Concurrency
	if conc.Logger == nil {
		conc.Logger = opts.Logger
	}
	chain = append(chain, ratelimit.ConcurrencyMiddleware(conc))

	r.With(chain...).Post(opts.AuditPath, opts.Handler.ServeHTTP)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, opts.MetricsPath, opts.Metrics.Handler())
	}

	return r
}
