package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"audit-gateway/audit/application"
	"audit-gateway/audit/domain"
	"audit-gateway/audit/infra"
)

type stubProbe[R any] struct {
	name     string
	value    R
	fallback R
	err      error
}

func (p stubProbe[R]) Name() string { return p.name }
func (p stubProbe[R]) Fallback() R  { return p.fallback }

func (p stubProbe[R]) Run(context.Context, domain.Target) (R, error) {
	if p.err != nil {
		var zero R
		return zero, p.err
	}
	return p.value, nil
}

func goodSiteProbes() application.Probes {
	return application.Probes{
		Performance:    stubProbe[domain.Performance]{name: "pagespeed", value: domain.Performance{Score: 95, LoadTimeSeconds: 1.1, MobileFriendly: true}},
		Security:       infra.HTTPSProbe{},
		ChatGPT:        stubProbe[domain.Mention]{name: "chatgpt", value: domain.Mention{Mentioned: true}},
		Gemini:         stubProbe[domain.Mention]{name: "gemini", value: domain.Mention{Mentioned: true}},
		StructuredData: stubProbe[domain.StructuredData]{name: "schema", value: domain.StructuredData{Present: true}},
	}
}

func brokenUpstreamProbes() application.Probes {
	down := errors.New("upstream down")
	return application.Probes{
		Performance:    stubProbe[domain.Performance]{name: "pagespeed", err: down, fallback: infra.PageSpeedFallback},
		Security:       infra.HTTPSProbe{},
		ChatGPT:        stubProbe[domain.Mention]{name: "chatgpt", err: down},
		Gemini:         stubProbe[domain.Mention]{name: "gemini", err: down},
		StructuredData: stubProbe[domain.StructuredData]{name: "schema", err: down},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAggregator(t *testing.T, probes application.Probes) *application.Aggregator {
	t.Helper()
	agg, err := application.NewAggregator(probes, application.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("unexpected aggregator error: %v", err)
	}
	return agg
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []domain.Message
	err  error
	sent chan struct{}
}

func newRecordingSender(err error) *recordingSender {
	return &recordingSender{err: err, sent: make(chan struct{}, 16)}
}

func (s *recordingSender) Send(_ context.Context, msg domain.Message) (string, error) {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.mu.Unlock()
	s.sent <- struct{}{}
	if s.err != nil {
		return "", s.err
	}
	return "email-1", nil
}

func (s *recordingSender) waitSent(t *testing.T) domain.Message {
	t.Helper()
	select {
	case <-s.sent:
	case <-time.After(2 * time.Second):
		t.Fatalf("report was not dispatched")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msgs[len(s.msgs)-1]
}

func newDispatcher(sender domain.Sender) *application.Dispatcher {
	return application.NewDispatcher(
		infra.NewReportRenderer("", ""),
		sender,
		application.WithDispatchLogger(quietLogger()),
	)
}

type failingAuditor struct{ err error }

func (a failingAuditor) Audit(context.Context, domain.Target) (domain.Report, error) {
	return domain.Report{}, a.err
}

type panickingAuditor struct{}

func (panickingAuditor) Audit(context.Context, domain.Target) (domain.Report, error) {
	panic("aggregator exploded")
}
