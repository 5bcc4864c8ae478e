package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audit-gateway/config"
	"audit-gateway/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(os.Stderr, cfg.Log.Format, cfg.Log.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// WriteTimeout cobre o pior caso: todos os probes no limite
	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Probe.Timeout + 30*time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info("audit gateway listening",
		"addr", cfg.Server.ListenAddr,
		"path", cfg.Server.AuditPath,
	)
	logger.Info("rate limit",
		"limit", cfg.RateLimit.Limit,
		"window", cfg.RateLimit.Window,
		"store", cfg.RateLimit.Store,
		"key_header", cfg.RateLimit.KeyHeader,
		"trust_xff", cfg.RateLimit.TrustXFF,
	)
	logger.Info("probes",
		"timeout", cfg.Probe.Timeout,
		"rps", cfg.Probe.RPS,
		"burst", cfg.Probe.Burst,
		"concurrency_max", cfg.Concurrency.Max,
		"metrics", cfg.Metrics.Enabled,
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", "error", err)
	}

	// e-mails já agendados
	waitCtx, stopWait := context.WithTimeout(context.Background(), cfg.Email.DispatchTimeout)
	defer stopWait()
	if err := a.dispatcher.Wait(waitCtx); err != nil {
		logger.Warn("pending report dispatches abandoned", "error", err)
	}
	a.logAdmissions(logger)
}
