package infra

import (
	"testing"

	"audit-gateway/audit/domain"
)

func mustTarget(t *testing.T, raw string) domain.Target {
	t.Helper()
	target, err := domain.NewTarget(raw)
	if err != nil {
		t.Fatalf("unexpected target error: %v", err)
	}
	return target
}
