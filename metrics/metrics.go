// Package metrics expõe contadores Prometheus da auditoria e do rate limit.
//
// Collector implementa audit/domain.Observer e ratelimit/domain.StatsStore,
// então o mesmo valor é passado para o Aggregator, o Dispatcher e o middleware.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	auditdomain "audit-gateway/audit/domain"
	rldomain "audit-gateway/middleware/ratelimit/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	probeDuration  *prometheus.HistogramVec
	probeFallbacks *prometheus.CounterVec
	score          prometheus.Histogram
	dispatch       *prometheus.CounterVec
	decisions      *prometheus.CounterVec
}

var (
	_ auditdomain.Observer = (*Collector)(nil)
	_ rldomain.StatsStore  = (*Collector)(nil)
)

// New registra tudo num registry próprio (com collectors de Go e processo).
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_requests_total",
			Help: "Audit endpoint responses by HTTP status.",
		}, []string{"status"}),
		probeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "audit_probe_duration_seconds",
			Help:    "Time spent per probe, fallbacks included.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		}, []string{"probe"}),
		probeFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_probe_fallbacks_total",
			Help: "Probes that returned their fallback value.",
		}, []string{"probe"}),
		score: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "audit_score",
			Help:    "Distribution of audit scores.",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		dispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_dispatch_total",
			Help: "Report e-mail deliveries by result.",
		}, []string{"result"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratelimit_decisions_total",
			Help: "Rate limit admission decisions.",
		}, []string{"decision"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests,
		c.probeDuration,
		c.probeFallbacks,
		c.score,
		c.dispatch,
		c.decisions,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveSlots publica a ocupação do pool de auditorias simultâneas.
func (c *Collector) ObserveSlots(capacity int, inUse func() int64) {
	c.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "audit_slots_capacity",
			Help: "Concurrent audit capacity.",
		}, func() float64 { return float64(capacity) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "audit_slots_in_use",
			Help: "Audits currently running.",
		}, func() float64 { return float64(inUse()) }),
	)
}

func (c *Collector) ProbeDone(probe string, took time.Duration, fellBack bool) {
	c.probeDuration.WithLabelValues(probe).Observe(took.Seconds())
	if fellBack {
		c.probeFallbacks.WithLabelValues(probe).Inc()
	}
}

func (c *Collector) AuditDone(score int) {
	c.score.Observe(float64(score))
}

func (c *Collector) DispatchDone(err error) {
	switch {
	case err == nil:
		c.dispatch.WithLabelValues("sent").Inc()
	case errors.Is(err, auditdomain.ErrMissingCredential):
		c.dispatch.WithLabelValues("unconfigured").Inc()
	default:
		c.dispatch.WithLabelValues("failed").Inc()
	}
}

// Record conta decisões; a chave do cliente nunca vira label.
func (c *Collector) Record(_ context.Context, ev rldomain.StatsEvent) error {
	decision := "allowed"
	if !ev.Allowed {
		decision = "rejected"
	}
	c.decisions.WithLabelValues(decision).Inc()
	return nil
}

// Instrument conta as respostas do handler por status.
func (c *Collector) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		c.requests.WithLabelValues(strconv.Itoa(sw.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
