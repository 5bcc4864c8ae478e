package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"audit-gateway/audit"
	"audit-gateway/audit/application"
	auditdomain "audit-gateway/audit/domain"
	"audit-gateway/config"
	"audit-gateway/metrics"
	"audit-gateway/middleware/cors"
	"audit-gateway/middleware/ratelimit"
	rldomain "audit-gateway/middleware/ratelimit/domain"
	rlinfra "audit-gateway/middleware/ratelimit/infra"

	"github.com/redis/go-redis/v9"
)

// app junta o que main precisa para servir e para desligar.
type app struct {
	handler    http.Handler
	dispatcher *application.Dispatcher
	closers    []func() error

	// admissions só existe quando nem métricas nem stats no Redis estão ligados
	admissions *rlinfra.MemoryStatsStore
}

// logAdmissions resume as decisões do rate limit contadas em memória.
func (a *app) logAdmissions(logger *slog.Logger) {
	if a.admissions == nil {
		return
	}
	total := a.admissions.Total()
	logger.Info("rate limit admissions",
		"allowed", total.Allowed,
		"denied", total.Denied,
		"clients", len(a.admissions.ByKey()),
	)
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c()
	}
}

func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}

	var collector *metrics.Collector
	var observer auditdomain.Observer = auditdomain.NopObserver{}
	if cfg.Metrics.Enabled {
		collector = metrics.New()
		observer = collector
	}

	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, rdb.Close)

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
	}

	var windows rldomain.WindowStore
	switch cfg.RateLimit.Store {
	case config.StoreRedis:
		windows = rlinfra.NewRedisWindowStore(rdb, rlinfra.WithWindowPrefix(cfg.RateLimit.RedisPrefix))
	default:
		windows = rlinfra.NewMemoryWindowStore()
	}

	var stats rldomain.MultiStats
	if collector != nil {
		stats = append(stats, collector)
	}
	if cfg.RateLimit.StatsRedis {
		stats = append(stats, rlinfra.NewRedisStatsStore(
			rdb,
			rlinfra.WithStatsPrefix(cfg.RateLimit.RedisPrefix+":stats"),
			rlinfra.WithStatsTTL(cfg.RateLimit.StatsTTL),
			rlinfra.WithStatsTrackKeys(cfg.RateLimit.StatsTrackKeys),
		))
	}
	if len(stats) == 0 {
		a.admissions = rlinfra.NewMemoryStatsStore(rlinfra.WithTrackKeys(cfg.RateLimit.StatsTrackKeys))
		stats = append(stats, a.admissions)
	}

	probes := audit.NewProbes(cfg, nil)

	aggregator, err := application.NewAggregator(probes,
		application.WithProbeTimeout(cfg.Probe.Timeout),
		application.WithLogger(logger),
		application.WithObserver(observer),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Providers.ResendAPIKey == "" {
		logger.Warn("RESEND_API_KEY is not set, reports will not be e-mailed")
	}
	a.dispatcher = audit.NewMailer(cfg,
		application.WithDispatchLogger(logger),
		application.WithDispatchObserver(observer),
	)

	keyFn := ratelimit.DefaultKeyFunc(cfg.RateLimit.KeyHeader, cfg.RateLimit.TrustXFF)
	handler := audit.NewHandler(aggregator, a.dispatcher,
		audit.WithClientID(keyFn),
		audit.WithHandlerLogger(logger),
	)

	concurrency := ratelimit.ConcurrencyOptions{
		AcquireTimeout: cfg.Concurrency.AcquireTimeout,
		Logger:         logger,
	}
	if cfg.Concurrency.Max > 0 {
		pool := rlinfra.NewChanPool(cfg.Concurrency.Max)
		concurrency.Pool = pool
		if collector != nil {
			collector.ObserveSlots(pool.Cap(), pool.InUse)
		}
	}

	routerOpts := audit.RouterOptions{
		AuditPath: cfg.Server.AuditPath,
		Handler:   handler,
		CORS:      cors.DefaultOptions(),
		RateLimit: &ratelimit.Options{
			Store:               windows,
			Rule:                rldomain.Rule{Limit: cfg.RateLimit.Limit, Window: cfg.RateLimit.Window},
			KeyFn:               keyFn,
			AddRateLimitHeaders: cfg.RateLimit.AddHeaders,
			Logger:              logger,
		},
		Concurrency: concurrency,
		MetricsPath: cfg.Metrics.Path,
		Logger:      logger,
	}
	routerOpts.RateLimit.Stats = stats
	if collector != nil {
		routerOpts.Metrics = collector
	}
	a.handler = audit.NewRouter(routerOpts)

	return a, nil
}
