package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"audit-gateway/audit/domain"
)

type stubRenderer struct {
	err error
}

func (r stubRenderer) Render(d domain.Delivery) (domain.Message, error) {
	if r.err != nil {
		return domain.Message{}, r.err
	}
	return domain.Message{From: "from@example.com", To: d.To, Subject: "report", HTML: "<p>ok</p>"}, nil
}

type stubSender struct {
	id    string
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (s *stubSender) Send(ctx context.Context, _ domain.Message) (string, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.id, nil
}

func testDelivery() domain.Delivery {
	return domain.Delivery{To: "owner@example.com", TargetURL: "https://example.com", Report: domain.Report{Score: 55}}
}

func waitResult(t *testing.T, ch <-chan DispatchResult) DispatchResult {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatch result not published")
		return DispatchResult{}
	}
}

func TestDispatcher_Success(t *testing.T) {
	sender := &stubSender{id: "email-123"}
	obs := newRecordingObserver()
	d := NewDispatcher(stubRenderer{}, sender, WithDispatchLogger(quietLogger()), WithDispatchObserver(obs))

	res := waitResult(t, d.Dispatch(context.Background(), testDelivery()))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.ID != "email-123" {
		t.Fatalf("expected id email-123, got %q", res.ID)
	}
	if sender.calls.Load() != 1 {
		t.Fatalf("expected 1 send, got %d", sender.calls.Load())
	}
	if err := d.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected wait error: %v", err)
	}
	if len(obs.dispatchs) != 1 || obs.dispatchs[0] != nil {
		t.Fatalf("expected one successful dispatch event, got %v", obs.dispatchs)
	}
}

func TestDispatcher_ReturnsBeforeDelivery(t *testing.T) {
	sender := &stubSender{id: "slow", delay: 200 * time.Millisecond}
	d := NewDispatcher(stubRenderer{}, sender, WithDispatchLogger(quietLogger()))

	start := time.Now()
	ch := d.Dispatch(context.Background(), testDelivery())
	if time.Since(start) > 50*time.Millisecond {
		t.Fatalf("dispatch blocked the caller")
	}

	if res := waitResult(t, ch); res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
}

func TestDispatcher_SurvivesRequestCancellation(t *testing.T) {
	sender := &stubSender{id: "detached", delay: 50 * time.Millisecond}
	d := NewDispatcher(stubRenderer{}, sender, WithDispatchLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	ch := d.Dispatch(ctx, testDelivery())
	cancel()

	res := waitResult(t, ch)
	if res.Err != nil {
		t.Fatalf("delivery must not follow request cancellation, got %v", res.Err)
	}
}

func TestDispatcher_Failures(t *testing.T) {
	tests := []struct {
		name     string
		renderer stubRenderer
		sender   *stubSender
		target   error
	}{
		{
			name:     "missing credential",
			renderer: stubRenderer{},
			sender:   &stubSender{err: domain.ErrMissingCredential},
			target:   domain.ErrMissingCredential,
		},
		{
			name:     "upstream status",
			renderer: stubRenderer{},
			sender:   &stubSender{err: domain.ErrUpstreamStatus},
			target:   domain.ErrUpstreamStatus,
		},
		{
			name:     "render error",
			renderer: stubRenderer{err: errors.New("template broken")},
			sender:   &stubSender{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(tt.renderer, tt.sender, WithDispatchLogger(quietLogger()))

			res := waitResult(t, d.Dispatch(context.Background(), testDelivery()))
			if res.Err == nil {
				t.Fatalf("expected error")
			}
			if tt.target != nil && !errors.Is(res.Err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, res.Err)
			}
		})
	}
}

func TestDispatcher_SendTimeout(t *testing.T) {
	sender := &stubSender{delay: time.Second}
	d := NewDispatcher(stubRenderer{}, sender,
		WithDispatchLogger(quietLogger()),
		WithDispatchTimeout(20*time.Millisecond),
	)

	res := waitResult(t, d.Dispatch(context.Background(), testDelivery()))
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", res.Err)
	}
}

func TestDispatcher_WaitHonoursContext(t *testing.T) {
	sender := &stubSender{delay: time.Second}
	d := NewDispatcher(stubRenderer{}, sender, WithDispatchLogger(quietLogger()))
	d.Dispatch(context.Background(), testDelivery())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := d.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestDispatcher_RefusesAfterWait(t *testing.T) {
	sender := &stubSender{id: "late", delay: 50 * time.Millisecond}
	d := NewDispatcher(stubRenderer{}, sender, WithDispatchLogger(quietLogger()))

	inFlight := d.Dispatch(context.Background(), testDelivery())

	waitDone := make(chan error, 1)
	go func() { waitDone <- d.Wait(context.Background()) }()

	// Wait já marcou o fechamento quando um Dispatch concorrente não entra mais
	deadline := time.After(time.Second)
	for {
		d.mu.Lock()
		closed := d.closed
		d.mu.Unlock()
		if closed {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("Wait did not close the dispatcher")
		case <-time.After(time.Millisecond):
		}
	}

	late := waitResult(t, d.Dispatch(context.Background(), testDelivery()))
	if !errors.Is(late.Err, ErrDispatcherClosed) {
		t.Fatalf("expected ErrDispatcherClosed, got %+v", late)
	}

	if res := waitResult(t, inFlight); res.Err != nil || res.ID != "late" {
		t.Fatalf("expected in-flight dispatch to finish, got %+v", res)
	}
	if err := <-waitDone; err != nil {
		t.Fatalf("unexpected wait error: %v", err)
	}
	if got := sender.calls.Load(); got != 1 {
		t.Fatalf("expected 1 send, got %d", got)
	}
}
