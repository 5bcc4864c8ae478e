package infra

import (
	"bytes"
	"strings"
	"testing"

	"audit-gateway/audit/domain"
)

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	report := domain.Report{Score: 25, PageSpeed: 50, LoadTime: 3.5, MobileFriendly: true}
	summary := domain.Summary{Level: domain.LevelLow, Emoji: "🔴", Label: "NISKA", Problems: 5, MonthlyLoss: 788}

	if err := WriteMarkdown(&buf, "http://example.com", report, summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"# SEO/GEO Audit", "`http://example.com`", "25%", "🔴 NISKA", "788 PLN", "## Checks", "[!CAUTION]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in markdown:\n%s", want, out)
		}
	}
}
