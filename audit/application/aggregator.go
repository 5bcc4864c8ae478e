package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"audit-gateway/audit/domain"

	"golang.org/x/sync/errgroup"
)

// DefaultProbeTimeout limita cada chamada externa; estourou, vale o fallback.
const DefaultProbeTimeout = 8 * time.Second

// Probes são os cinco probes da auditoria. Todos obrigatórios.
type Probes struct {
	Performance    domain.Probe[domain.Performance]
	Security       domain.Probe[domain.Security]
	ChatGPT        domain.Probe[domain.Mention]
	Gemini         domain.Probe[domain.Mention]
	StructuredData domain.Probe[domain.StructuredData]
}

func (p Probes) validate() error {
	switch {
	case p.Performance == nil:
		return errors.New("performance probe is required")
	case p.Security == nil:
		return errors.New("security probe is required")
	case p.ChatGPT == nil:
		return errors.New("chatgpt probe is required")
	case p.Gemini == nil:
		return errors.New("gemini probe is required")
	case p.StructuredData == nil:
		return errors.New("structured data probe is required")
	}
	return nil
}

// Aggregator faz o fan-out dos probes e o fan-in antes de pontuar.
type Aggregator struct {
	probes   Probes
	timeout  time.Duration
	logger   *slog.Logger
	observer domain.Observer
}

type Option func(*Aggregator)

func WithProbeTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

func WithObserver(o domain.Observer) Option {
	return func(a *Aggregator) { a.observer = o }
}

func NewAggregator(probes Probes, opts ...Option) (*Aggregator, error) {
	if err := probes.validate(); err != nil {
		return nil, err
	}

	a := &Aggregator{
		probes:  probes,
		timeout: DefaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.observer == nil {
		a.observer = domain.NopObserver{}
	}
	return a, nil
}

// Audit roda todos os probes contra o alvo e devolve o relatório pontuado.
//
// Falha de probe nunca vira erro aqui. O único erro é o ctx do chamador ter
// encerrado antes do fan-in (cliente desconectou, shutdown).
func (a *Aggregator) Audit(ctx context.Context, target domain.Target) (domain.Report, error) {
	outcomes, err := a.Collect(ctx, target)
	if err != nil {
		return domain.Report{}, err
	}

	report := domain.NewReport(outcomes, Score(outcomes))
	a.observer.AuditDone(report.Score)

	a.logger.Info("audit complete",
		"url", target.URL,
		"score", report.Score,
		"page_speed", report.PageSpeed,
		"mobile", report.MobileFriendly,
		"https", report.HTTPS,
		"chatgpt", report.ChatGPTCitation,
		"gemini", report.GeminiCitation,
		"schema", report.SchemaMarkup,
	)
	return report, nil
}

// Collect é o fan-out/fan-in: nenhum resultado parcial sai daqui.
func (a *Aggregator) Collect(ctx context.Context, target domain.Target) (domain.Outcomes, error) {
	a.logger.Debug("starting audit", "url", target.URL)

	var out domain.Outcomes
	// cada goroutine escreve num campo diferente de out
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Performance = runProbe(gctx, a, a.probes.Performance, target)
		return nil
	})
	g.Go(func() error {
		out.Security = runProbe(gctx, a, a.probes.Security, target)
		return nil
	})
	g.Go(func() error {
		out.ChatGPT = runProbe(gctx, a, a.probes.ChatGPT, target)
		return nil
	})
	g.Go(func() error {
		out.Gemini = runProbe(gctx, a, a.probes.Gemini, target)
		return nil
	})
	g.Go(func() error {
		out.StructuredData = runProbe(gctx, a, a.probes.StructuredData, target)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return domain.Outcomes{}, fmt.Errorf("audit aborted: %w", err)
	}
	return out, nil
}

type probeResult[R any] struct {
	value R
	err   error
}

// runProbe executa um probe com prazo próprio. Erro, timeout ou panic => Fallback().
func runProbe[R any](ctx context.Context, a *Aggregator, p domain.Probe[R], target domain.Target) R {
	start := time.Now()

	pctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// buffer 1: a goroutine termina mesmo se ninguém mais ler (timeout)
	ch := make(chan probeResult[R], 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- probeResult[R]{err: fmt.Errorf("probe panicked: %v", rec)}
			}
		}()
		v, err := p.Run(pctx, target)
		ch <- probeResult[R]{value: v, err: err}
	}()

	var res probeResult[R]
	select {
	case res = <-ch:
	case <-pctx.Done():
		res.err = pctx.Err()
	}

	took := time.Since(start)
	fellBack := res.err != nil
	if fellBack {
		res.value = p.Fallback()
		a.logger.Debug("probe fell back",
			"probe", p.Name(),
			"url", target.URL,
			"took", took,
			"error", res.err,
		)
	}
	a.observer.ProbeDone(p.Name(), took, fellBack)

	return res.value
}
