// Servidor de validação manual: finge ser PageSpeed, OpenAI, Gemini e Resend e
// serve dois sites de exemplo. Suba ele e aponte o gateway com:
//
//	PAGESPEED_BASE_URL=http://localhost:8081/pagespeed
//	OPENAI_BASE_URL=http://localhost:8081/v1
//	GEMINI_BASE_URL=http://localhost:8081/gemini
//	RESEND_BASE_URL=http://localhost:8081/resend
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audit-gateway/logging"
)

func main() {
	logger := logging.NewLogger(os.Stderr, "text", true)

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newSandbox(logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("sandbox listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("sandbox error", "error", err)
		os.Exit(1)
	}
	logger.Info("sandbox stopped")
}
