package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"audit-gateway/audit/domain"
	"audit-gateway/logging"
)

const DefaultDispatchTimeout = 15 * time.Second

// DispatchResult é o desfecho de um envio.
type DispatchResult struct {
	ID  string
	Err error
}

// Dispatcher envia o relatório por e-mail fora do caminho da resposta HTTP.
//
// Dispatch retorna na hora; render + envio rodam numa goroutine com contexto
// desligado do cancelamento da requisição. O desfecho é logado e publicado num
// canal com buffer que ninguém é obrigado a ler.
type Dispatcher struct {
	renderer domain.Renderer
	sender   domain.Sender
	timeout  time.Duration
	logger   *slog.Logger
	observer domain.Observer

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// ErrDispatcherClosed: Dispatch chamado depois que Wait começou (shutdown).
var ErrDispatcherClosed = errors.New("dispatcher is shutting down")

type DispatcherOption func(*Dispatcher)

func WithDispatchTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

func WithDispatchLogger(logger *slog.Logger) DispatcherOption {
	return func(disp *Dispatcher) { disp.logger = logger }
}

func WithDispatchObserver(o domain.Observer) DispatcherOption {
	return func(disp *Dispatcher) { disp.observer = o }
}

func NewDispatcher(renderer domain.Renderer, sender domain.Sender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		renderer: renderer,
		sender:   sender,
		timeout:  DefaultDispatchTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.observer == nil {
		d.observer = domain.NopObserver{}
	}
	return d
}

// Dispatch agenda o envio e devolve um canal que recebe exatamente um resultado.
// Depois de Wait, o resultado é ErrDispatcherClosed e nada é enviado.
func (d *Dispatcher) Dispatch(ctx context.Context, del domain.Delivery) <-chan DispatchResult {
	results := make(chan DispatchResult, 1)
	ctx = context.WithoutCancel(ctx)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("report dropped during shutdown",
			"to", logging.MaskEmail(del.To),
			"url", del.TargetURL,
		)
		results <- DispatchResult{Err: ErrDispatcherClosed}
		close(results)
		return results
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		defer close(results)

		res := d.deliver(ctx, del)
		d.observer.DispatchDone(res.Err)

		if res.Err != nil {
			level := slog.LevelWarn
			if errors.Is(res.Err, domain.ErrMissingCredential) {
				level = slog.LevelError
			}
			d.logger.Log(ctx, level, "report dispatch failed",
				"to", logging.MaskEmail(del.To),
				"url", del.TargetURL,
				"error", res.Err,
			)
		} else {
			d.logger.Info("report sent",
				"to", logging.MaskEmail(del.To),
				"url", del.TargetURL,
				"id", res.ID,
			)
		}
		results <- res
	}()

	return results
}

func (d *Dispatcher) deliver(ctx context.Context, del domain.Delivery) (res DispatchResult) {
	defer func() {
		if rec := recover(); rec != nil {
			res = DispatchResult{Err: fmt.Errorf("dispatch panicked: %v", rec)}
		}
	}()

	if d.renderer == nil || d.sender == nil {
		return DispatchResult{Err: errors.New("dispatcher is not configured")}
	}

	msg, err := d.renderer.Render(del)
	if err != nil {
		return DispatchResult{Err: fmt.Errorf("render report: %w", err)}
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	id, err := d.sender.Send(sendCtx, msg)
	if err != nil {
		return DispatchResult{Err: fmt.Errorf("send report: %w", err)}
	}
	return DispatchResult{ID: id}
}

// Wait fecha o Dispatcher para novos envios e espera os que estão em andamento
// (shutdown) ou o ctx encerrar.
func (d *Dispatcher) Wait(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
