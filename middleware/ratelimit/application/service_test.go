package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"audit-gateway/middleware/ratelimit/domain"
)

type fakeStore struct {
	win domain.Window
	err error
}

func (s fakeStore) Hit(context.Context, domain.Key, time.Time, time.Duration) (domain.Window, error) {
	return s.win, s.err
}

func TestService_Admit_AllowsWhenNoStore(t *testing.T) {
	svc := Service{}
	dec, err := svc.Admit(context.Background(), "k", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.RetryAfter != 0 {
		t.Fatalf("expected RetryAfter=0 when allowed, got %s", dec.RetryAfter)
	}
}

func TestService_Admit_AllowsUpToLimit(t *testing.T) {
	now := time.Now()
	svc := Service{Store: fakeStore{win: domain.Window{Count: 3, Start: now}}, Rule: domain.Rule{Limit: 3, Window: time.Hour}}
	dec, _ := svc.Admit(context.Background(), "k", now)
	if !dec.Allowed {
		t.Fatalf("expected third request allowed")
	}
	if dec.Count != 3 || dec.Limit != 3 {
		t.Fatalf("expected count=3 limit=3, got %+v", dec)
	}
}

func TestService_Admit_RejectsOverLimitWithRetryHint(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	now := start.Add(20 * time.Minute)
	svc := Service{Store: fakeStore{win: domain.Window{Count: 4, Start: start}}, Rule: domain.Rule{Limit: 3, Window: time.Hour}}

	dec, _ := svc.Admit(context.Background(), "k", now)
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 40*time.Minute {
		t.Fatalf("expected RetryAfter=40m, got %s", dec.RetryAfter)
	}
}

func TestService_Admit_UsesDefaultRule(t *testing.T) {
	now := time.Now()
	svc := Service{Store: fakeStore{win: domain.Window{Count: 4, Start: now}}}
	dec, _ := svc.Admit(context.Background(), "k", now)
	if dec.Allowed {
		t.Fatalf("expected blocked by default limit of %d", DefaultRule.Limit)
	}
	if dec.RetryAfter != time.Hour {
		t.Fatalf("expected RetryAfter=1h, got %s", dec.RetryAfter)
	}
}

func TestService_Admit_FailsOpenOnStoreError(t *testing.T) {
	boom := errors.New("boom")
	svc := Service{Store: fakeStore{err: boom}}
	dec, err := svc.Admit(context.Background(), "k", time.Now())
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if !dec.Allowed {
		t.Fatalf("expected allowed on store error")
	}
}
